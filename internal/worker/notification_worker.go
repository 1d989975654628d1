package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/initiative-bkd/petition-service/internal/service"
)

// StartNotificationWorker registers the audit handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// PurgeRunner is the subset of the console used by the purge worker.
type PurgeRunner interface {
	PurgeDeletedAsSystem(ctx context.Context) (int64, error)
}

// StartPurgeWorker hard-removes soft-deleted signatures every interval until
// ctx is done. A non-positive interval disables it.
func StartPurgeWorker(ctx context.Context, runner PurgeRunner, interval time.Duration, logger *zap.Logger) {
	if runner == nil || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := runner.PurgeDeletedAsSystem(ctx)
				if err != nil {
					logger.Warn("scheduled purge failed", zap.Error(err))
					continue
				}
				if n > 0 {
					logger.Info("scheduled purge", zap.Int64("count", n))
				}
			}
		}
	}()
}
