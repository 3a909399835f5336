package eventbus

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"course-notes-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	bus := New(logger.NewNopLogger())
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan PageChanged, 1)
	err := bus.Subscribe(ctx, TopicPageChanged, func(_ context.Context, payload []byte) error {
		var evt PageChanged
		if err := json.Unmarshal(payload, &evt); err != nil {
			return err
		}
		got <- evt
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(TopicPageChanged, PageChanged{SeriesId: 1, DocumentId: 2, Page: 3}))

	select {
	case evt := <-got:
		assert.Equal(t, PageChanged{SeriesId: 1, DocumentId: 2, Page: 3}, evt)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestPublishWithoutSubscribersIsDropped(t *testing.T) {
	bus := New(logger.NewNopLogger())
	defer bus.Close()

	assert.NoError(t, bus.Publish(TopicReconnectSucceeded, map[string]string{"at": "now"}))
}
