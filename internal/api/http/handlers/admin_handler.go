package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/initiative-bkd/petition-service/internal/api/dto"
	"github.com/initiative-bkd/petition-service/internal/auth"
	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/moderation"
	"github.com/initiative-bkd/petition-service/internal/service"
	apperrors "github.com/initiative-bkd/petition-service/pkg/util"
)

// AdminHandler exposes the admin console endpoints.
type AdminHandler struct {
	console *service.ConsoleService
	access  *service.AccessService
	now     func() time.Time
}

// NewAdminHandler constructs handler.
func NewAdminHandler(console *service.ConsoleService, access *service.AccessService) *AdminHandler {
	return &AdminHandler{console: console, access: access, now: time.Now}
}

func actorFrom(c *fiber.Ctx) (*domain.AdminIdentity, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("not signed in")
	}
	return &principal.AdminIdentity, nil
}

// ListSignatures handles GET /admin/signatures.
func (h *AdminHandler) ListSignatures(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	filter := moderation.Filter{
		Search: c.Query("search"),
		Status: domain.SignatureStatus(c.Query("status")),
	}
	split, err := h.console.ListSignatures(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": split})
}

// Dashboard handles GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	stats, err := h.console.Dashboard(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// ListVisits handles GET /admin/visits.
func (h *AdminHandler) ListVisits(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	visits, err := h.console.ListVisits(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": visits})
}

// SetStatus handles PATCH /admin/signatures/:id/status.
func (h *AdminHandler) SetStatus(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	record, err := h.console.SetStatus(c.UserContext(), actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": record})
}

// DeleteSignature handles DELETE /admin/signatures/:id.
func (h *AdminHandler) DeleteSignature(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.console.DeleteSignature(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Purge handles POST /admin/signatures/purge.
func (h *AdminHandler) Purge(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	n, err := h.console.PurgeDeleted(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PurgeResponse{Purged: n}})
}

// ExportCSV handles GET /admin/signatures/export.csv.
func (h *AdminHandler) ExportCSV(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := h.console.ExportCSV(c.UserContext(), actor, &buf); err != nil {
		return err
	}
	filename := fmt.Sprintf("signatures-%s.csv", h.now().UTC().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

// ListAdmins handles GET /admin/admins.
func (h *AdminHandler) ListAdmins(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	admins, err := h.access.ListAdmins(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": admins})
}

// AddAdmin handles POST /admin/admins.
func (h *AdminHandler) AddAdmin(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.AddAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	admin, err := h.access.AddAdmin(c.UserContext(), actor, service.AddAdminInput{
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": admin})
}

// RemoveAdmin handles DELETE /admin/admins/:id.
func (h *AdminHandler) RemoveAdmin(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.access.RemoveAdmin(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
