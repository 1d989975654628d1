package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/initiative-bkd/petition-service/internal/events"
)

type recordingSink struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recordingSink) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func TestNotificationServiceForwardsEveryEvent(t *testing.T) {
	sink := &recordingSink{}
	dispatcher := events.NewInMemoryDispatcher(nil)
	NewNotificationService(dispatcher, nil, sink).RegisterHandlers()

	ctx := context.Background()
	for _, typ := range []events.EventType{
		events.EventSignatureSubmitted,
		events.EventSignatureStatusChanged,
		events.EventSignatureDeleted,
		events.EventSignaturesPurged,
		events.EventAdminAdded,
		events.EventAdminRemoved,
	} {
		require.NoError(t, dispatcher.Publish(ctx, events.New(typ, "id-1", "root@example.com", time.Now(), nil)))
	}
	assert.Len(t, sink.events, 6)
}

func TestNotificationServiceReportsSinkFailures(t *testing.T) {
	sink := &recordingSink{err: errors.New("broker down")}
	var failed []events.EventType
	dispatcher := events.NewInMemoryDispatcher(func(e events.Event, _ error) {
		failed = append(failed, e.Type)
	})
	NewNotificationService(dispatcher, nil, sink).RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(), events.New(events.EventAdminAdded, "a1", "root@example.com", time.Now(), nil)))
	assert.Equal(t, []events.EventType{events.EventAdminAdded}, failed)
}

func TestNotificationServiceWithoutSink(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(func(events.Event, error) {
		t.Fatal("no handler should fail without a sink")
	})
	NewNotificationService(dispatcher, nil, nil).RegisterHandlers()
	assert.NoError(t, dispatcher.Publish(context.Background(), events.New(events.EventSignatureDeleted, "s1", "root@example.com", time.Now(), nil)))
}
