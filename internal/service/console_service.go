package service

import (
	"context"
	"errors"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/events"
	"github.com/initiative-bkd/petition-service/internal/moderation"
	"github.com/initiative-bkd/petition-service/internal/observability"
	"github.com/initiative-bkd/petition-service/internal/repository"
	apperrors "github.com/initiative-bkd/petition-service/pkg/util"
)

// ConsoleService serves the admin moderation views.
type ConsoleService struct {
	signatures repository.SignatureRepository
	visits     repository.VisitRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// ConsoleDependencies bundles collaborators for the console service.
type ConsoleDependencies struct {
	SignatureRepo repository.SignatureRepository
	VisitRepo     repository.VisitRepository
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Logger        *zap.Logger
	Now           func() time.Time
}

// NewConsoleService constructs the service.
func NewConsoleService(deps ConsoleDependencies) *ConsoleService {
	return &ConsoleService{
		signatures: deps.SignatureRepo,
		visits:     deps.VisitRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     loggerOrNop(deps.Logger),
		now:        clockOrNow(deps.Now),
	}
}

// ListSignatures returns the filtered records split by signer type.
func (s *ConsoleService) ListSignatures(ctx context.Context, actor *domain.AdminIdentity, filter moderation.Filter) (moderation.Split, error) {
	if err := requireRole(actor); err != nil {
		return moderation.Split{}, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return moderation.Split{}, apperrors.NewValidationError("invalid status filter", map[string]any{"status": string(filter.Status)})
	}
	records, err := s.signatures.List(ctx)
	if err != nil {
		return moderation.Split{}, err
	}
	return moderation.Apply(records, filter), nil
}

// ListVisits returns every logged visit, newest first.
func (s *ConsoleService) ListVisits(ctx context.Context, actor *domain.AdminIdentity) ([]domain.VisitRecord, error) {
	if err := requireRole(actor); err != nil {
		return nil, err
	}
	visits, err := s.visits.List(ctx)
	if err != nil {
		return nil, err
	}
	if visits == nil {
		visits = []domain.VisitRecord{}
	}
	return visits, nil
}

// Dashboard loads signatures and the visit count concurrently.
func (s *ConsoleService) Dashboard(ctx context.Context, actor *domain.AdminIdentity) (moderation.Stats, error) {
	if err := requireRole(actor); err != nil {
		return moderation.Stats{}, err
	}

	var (
		records []domain.SignatureRecord
		visits  int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.signatures.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		visits, err = s.visits.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return moderation.Stats{}, err
	}
	return moderation.Compute(records, visits), nil
}

// SetStatus moves a signature to any known status.
func (s *ConsoleService) SetStatus(ctx context.Context, actor *domain.AdminIdentity, id string, status domain.SignatureStatus) (*domain.SignatureRecord, error) {
	if err := requireRole(actor); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(status)})
	}

	ctx, span := observability.Tracer().Start(ctx, "console.set_status")
	defer span.End()
	span.SetAttributes(attribute.String("signature.id", id), attribute.String("signature.status", string(status)))

	record, err := s.signatures.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "signature", id)
	}
	old := record.Status
	if err := s.signatures.UpdateStatus(ctx, id, status); err != nil {
		return nil, notFoundOr(err, "signature", id)
	}
	record.Status = status

	s.metrics.AdminAction("set_status")
	publish(ctx, s.dispatcher, events.New(events.EventSignatureStatusChanged, id, actor.Email, s.now(),
		events.SignatureStatusChangedPayload{OldStatus: old, NewStatus: status}))
	return record, nil
}

// DeleteSignature soft-deletes a record; it disappears from every admin view
// and from the export but keeps blocking duplicates until purged.
func (s *ConsoleService) DeleteSignature(ctx context.Context, actor *domain.AdminIdentity, id string) error {
	if err := requireSuperAdmin(actor); err != nil {
		return err
	}
	if err := s.signatures.UpdateStatus(ctx, id, domain.StatusDeleted); err != nil {
		return notFoundOr(err, "signature", id)
	}
	s.metrics.AdminAction("delete_signature")
	publish(ctx, s.dispatcher, events.New(events.EventSignatureDeleted, id, actor.Email, s.now(), nil))
	return nil
}

// PurgeDeleted hard-removes every soft-deleted record.
func (s *ConsoleService) PurgeDeleted(ctx context.Context, actor *domain.AdminIdentity) (int64, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return 0, err
	}
	return s.purge(ctx, actor.Email)
}

// PurgeDeletedAsSystem is the scheduled variant of PurgeDeleted.
func (s *ConsoleService) PurgeDeletedAsSystem(ctx context.Context) (int64, error) {
	return s.purge(ctx, systemActor)
}

const systemActor = "system"

func (s *ConsoleService) purge(ctx context.Context, actor string) (int64, error) {
	n, err := s.signatures.PurgeDeleted(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("purged deleted signatures", zap.Int64("count", n), zap.String("actor", actor))
	s.metrics.AdminAction("purge")
	publish(ctx, s.dispatcher, events.New(events.EventSignaturesPurged, "", actor, s.now(),
		events.SignaturesPurgedPayload{Count: n}))
	return n, nil
}

// ExportCSV writes every non-deleted signature to w; display filters do not apply.
func (s *ConsoleService) ExportCSV(ctx context.Context, actor *domain.AdminIdentity, w io.Writer) (int, error) {
	if err := requireRole(actor); err != nil {
		return 0, err
	}
	records, err := s.signatures.List(ctx)
	if err != nil {
		return 0, err
	}
	n, err := moderation.WriteCSV(w, records)
	if err != nil {
		return n, apperrors.NewInternalError(err)
	}
	s.metrics.AdminAction("export_csv")
	return n, nil
}

func notFoundOr(err error, resource, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return err
}
