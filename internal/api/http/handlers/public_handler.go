package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/initiative-bkd/petition-service/internal/api/dto"
	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/service"
	apperrors "github.com/initiative-bkd/petition-service/pkg/util"
)

// PublicHandler exposes the unauthenticated petition endpoints.
type PublicHandler struct {
	signatures  *service.SignatureService
	visits      *service.VisitService
	defaultLang domain.Language
}

// NewPublicHandler constructs handler.
func NewPublicHandler(signatures *service.SignatureService, visits *service.VisitService, defaultLang domain.Language) *PublicHandler {
	return &PublicHandler{signatures: signatures, visits: visits, defaultLang: defaultLang}
}

// Licenses handles GET /api/licenses.
func (h *PublicHandler) Licenses(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": domain.LicenseClasses})
}

// Count handles GET /api/signatures/count.
func (h *PublicHandler) Count(c *fiber.Ctx) error {
	n, err := h.signatures.PublicCount(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CountResponse{Count: n}})
}

// Submit handles POST /api/signatures.
func (h *PublicHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitSignatureRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	lang := requestLanguage(c, req.Language, h.defaultLang)

	res, err := h.signatures.Submit(c.UserContext(), service.SubmitInput{Language: lang, Data: req.Data()})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.SubmitSignatureResponse{
			Signature: res.Record,
			Message:   res.Message,
			ThankYou:  res.ThankYou,
			Share:     res.Share,
		},
	})
}

// Visit handles POST /api/visits. It always answers 202; logging happens
// in the background and its failures are never surfaced. Request values are
// copied since fiber reuses its buffers after the handler returns.
func (h *PublicHandler) Visit(c *fiber.Ctx) error {
	var req dto.VisitRequest
	_ = c.BodyParser(&req)
	if req.Ref == "" {
		req.Ref = c.Query("ref")
	}
	h.visits.LogAsync(service.VisitInput{
		Ref:       utils.CopyString(req.Ref),
		Referer:   utils.CopyString(c.Get(fiber.HeaderReferer)),
		UserAgent: utils.CopyString(c.Get(fiber.HeaderUserAgent)),
		IP:        utils.CopyString(c.IP()),
	})
	return c.SendStatus(http.StatusAccepted)
}

// requestLanguage prefers an explicit code, then Accept-Language.
func requestLanguage(c *fiber.Ctx, explicit string, fallback domain.Language) domain.Language {
	if explicit != "" {
		return domain.ParseLanguage(explicit, fallback)
	}
	return domain.ParseLanguage(c.Get(fiber.HeaderAcceptLanguage), fallback)
}
