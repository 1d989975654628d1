package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/events"
	"github.com/initiative-bkd/petition-service/internal/i18n"
	"github.com/initiative-bkd/petition-service/internal/lock"
	"github.com/initiative-bkd/petition-service/internal/observability"
	"github.com/initiative-bkd/petition-service/internal/repository"
	"github.com/initiative-bkd/petition-service/internal/share"
	"github.com/initiative-bkd/petition-service/internal/thankyou"
	"github.com/initiative-bkd/petition-service/internal/validation"
	apperrors "github.com/initiative-bkd/petition-service/pkg/util"
)

// SignatureService runs the public submission flow.
type SignatureService struct {
	signatures  repository.SignatureRepository
	validator   *validation.Validator
	locker      lock.Locker
	lockTTL     time.Duration
	thankYou    *thankyou.Generator
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
	now         func() time.Time
	siteURL     string
	countOffset int
}

// SignatureDependencies bundles collaborators for the signature service.
type SignatureDependencies struct {
	SignatureRepo repository.SignatureRepository
	Validator     *validation.Validator
	Locker        lock.Locker
	LockTTL       time.Duration
	ThankYou      *thankyou.Generator
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Logger        *zap.Logger
	Now           func() time.Time
	SiteURL       string
	CountOffset   int
}

// SubmitInput is a signature draft in the signer's language.
type SubmitInput struct {
	Language domain.Language
	Data     domain.SignatureData
}

// SubmitResult is returned after a signature was stored.
type SubmitResult struct {
	Record   *domain.SignatureRecord
	Message  string
	ThankYou string
	Share    share.Links
}

// NewSignatureService constructs the service.
func NewSignatureService(deps SignatureDependencies) *SignatureService {
	validator := deps.Validator
	if validator == nil {
		validator = validation.New(deps.Now)
	}
	locker := deps.Locker
	if locker == nil {
		locker = lock.NewMemory()
	}
	lockTTL := deps.LockTTL
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &SignatureService{
		signatures:  deps.SignatureRepo,
		validator:   validator,
		locker:      locker,
		lockTTL:     lockTTL,
		thankYou:    deps.ThankYou,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      loggerOrNop(deps.Logger),
		now:         clockOrNow(deps.Now),
		siteURL:     deps.SiteURL,
		countOffset: deps.CountOffset,
	}
}

// Submit validates the draft, guards against duplicates and stores it with
// status "new". The thank-you text is produced only after the write and never
// fails the submission.
func (s *SignatureService) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "signature.submit")
	defer span.End()

	msgs := i18n.For(input.Language)
	if input.Data == nil {
		return nil, apperrors.NewValidationError("invalid submission", map[string]any{"type": msgs.Required})
	}
	signerType := input.Data.SignerType()
	span.SetAttributes(attribute.String("signer.type", string(signerType)))

	validation.Normalize(input.Data)
	if errs := s.validator.Validate(input.Data); len(errs) > 0 {
		s.metrics.ValidationFailed(signerType)
		details := make(map[string]any, len(errs))
		for field, msg := range errs.Localize(input.Language) {
			details[field] = msg
		}
		return nil, apperrors.NewValidationError("invalid submission", details)
	}

	emailKey := domain.EmailKey(input.Data.ContactEmail())
	release, ok, err := s.locker.Acquire(ctx, string(signerType)+":"+emailKey, s.lockTTL)
	if err != nil {
		s.logger.Warn("submission lock unavailable", zap.Error(err))
	} else if !ok {
		return nil, apperrors.NewSubmissionInProgress(msgs.InProgress)
	}
	if release != nil {
		defer release()
	}

	exists, err := s.signatures.ExistsByEmail(ctx, emailKey, signerType)
	if err != nil {
		s.logger.Error("duplicate check failed", zap.Error(err))
		return nil, apperrors.NewSubmitFailed(msgs.SubmitFailed, err)
	}
	if exists {
		s.metrics.DuplicateRejected(signerType)
		return nil, apperrors.NewDuplicateEntry(msgs.Duplicate, repository.ErrDuplicateEntry)
	}

	record := &domain.SignatureRecord{
		Type:        signerType,
		SubmittedAt: s.now().UTC(),
		Status:      domain.StatusNew,
		Data:        input.Data,
	}
	if err := s.signatures.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			s.metrics.DuplicateRejected(signerType)
			return nil, apperrors.NewDuplicateEntry(msgs.Duplicate, err)
		}
		s.logger.Error("store signature failed", zap.Error(err))
		return nil, apperrors.NewSubmitFailed(msgs.SubmitFailed, err)
	}

	s.metrics.SignatureSubmitted(signerType)
	publish(ctx, s.dispatcher, events.New(events.EventSignatureSubmitted, record.ID, "", record.SubmittedAt,
		events.SignatureSubmittedPayload{SignerType: signerType, Language: input.Language, City: record.City()}))

	return &SubmitResult{
		Record:   record,
		Message:  msgs.Success,
		ThankYou: s.thankYou.Message(ctx, input.Language, signerType, input.Data.SignerName()),
		Share:    share.Build(s.siteURL, msgs.ShareMessage),
	}, nil
}

// PublicCount is the supporter count shown on the landing page.
func (s *SignatureService) PublicCount(ctx context.Context) (int, error) {
	n, err := s.signatures.CountActive(ctx)
	if err != nil {
		return 0, apperrors.NewStoreUnavailable(err)
	}
	return n + s.countOffset, nil
}
