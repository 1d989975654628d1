package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (r *countingRunner) PurgeDeletedAsSystem(context.Context) (int64, error) {
	r.calls.Add(1)
	return 1, r.err
}

func TestStartPurgeWorkerRunsOnInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := &countingRunner{}
	StartPurgeWorker(ctx, runner, 10*time.Millisecond, zap.NewNop())

	assert.Eventually(t, func() bool { return runner.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestStartPurgeWorkerKeepsRunningAfterErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := &countingRunner{err: errors.New("store down")}
	StartPurgeWorker(ctx, runner, 10*time.Millisecond, zap.NewNop())

	assert.Eventually(t, func() bool { return runner.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestStartPurgeWorkerDisabled(t *testing.T) {
	runner := &countingRunner{}
	StartPurgeWorker(context.Background(), runner, 0, zap.NewNop())

	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, runner.calls.Load())
}

func TestStartPurgeWorkerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := &countingRunner{}
	StartPurgeWorker(ctx, runner, 10*time.Millisecond, zap.NewNop())

	assert.Eventually(t, func() bool { return runner.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	cancel()
	time.Sleep(30 * time.Millisecond)
	stopped := runner.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, runner.calls.Load())
}

func TestStartNotificationWorkerNil(t *testing.T) {
	assert.NotPanics(t, func() { StartNotificationWorker(nil) })
}
