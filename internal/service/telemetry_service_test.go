package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"course-notes-be/internal/dto"
	"course-notes-be/internal/pkg/logger"
	"course-notes-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow(svc ITelemetryService, at time.Time) {
	svc.(*telemetryService).now = func() time.Time { return at }
}

func TestRecordPublishesEvent(t *testing.T) {
	store := newMemStore()
	pub := &fakeEventPublisher{}
	svc := NewTelemetryService(store, pub, nil, "telemetry-worker", logger.NewNopLogger())
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	fixedNow(svc, at)

	res, err := svc.Record(context.Background(), 7, &dto.RecordDataItemRequest{Key: "pdf_notes_saved", Id1: "user_file_id", Value1: "3"})
	require.NoError(t, err)
	assert.True(t, res.Queued)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.DataItemRecorded{UserId: 7, Key: "pdf_notes_saved", Id1: "user_file_id", Value1: "3", RecordedAt: at}, pub.events[0])
	assert.Empty(t, store.dataItems())
}

func TestRecordFallsBackToInlineStore(t *testing.T) {
	for _, pub := range []EventPublisher{nil, &fakeEventPublisher{err: errors.New("nats: no responders")}} {
		store := newMemStore()
		svc := NewTelemetryService(store, pub, nil, "telemetry-worker", logger.NewNopLogger())

		res, err := svc.Record(context.Background(), 7, &dto.RecordDataItemRequest{Key: "pdf_page_viewed"})
		require.NoError(t, err)
		assert.False(t, res.Queued)
		require.Len(t, store.dataItems(), 1)
		assert.Equal(t, "pdf_page_viewed", store.dataItems()[0].Key)
	}
}

func TestWorkerPersistsDecodedEvents(t *testing.T) {
	store := newMemStore()
	sub := &fakeEventSubscriber{}
	svc := NewTelemetryService(store, nil, sub, "telemetry-worker", logger.NewNopLogger())
	require.NoError(t, svc.Start(context.Background()))
	assert.Equal(t, events.TypeDataItemRecorded, sub.eventType)
	assert.Equal(t, "telemetry-worker", sub.durable)

	env, err := events.Wrap(events.DataItemRecorded{UserId: 2, Key: "pdf_notes_saved", Id2: "page", Value2: "4"})
	require.NoError(t, err)
	require.NoError(t, sub.handler(context.Background(), env))

	bad := events.Envelope{Type: events.TypeDataItemRecorded, Data: json.RawMessage(`"nope"`)}
	require.NoError(t, sub.handler(context.Background(), bad))

	items := store.dataItems()
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].UserId)
	assert.Equal(t, "4", items[0].Value2)
}

func TestStartWithoutSubscriberFails(t *testing.T) {
	svc := NewTelemetryService(newMemStore(), nil, nil, "w", logger.NewNopLogger())
	assert.Error(t, svc.Start(context.Background()))
}
