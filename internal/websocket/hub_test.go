package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"course-notes-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func join(hub *Hub, seriesID, userID int64, buffer int) *Client {
	c := &Client{Hub: hub, SeriesID: seriesID, UserID: userID, Send: make(chan []byte, buffer)}
	hub.Register(c)
	return c
}

func TestBroadcastReachesOnlySeriesViewers(t *testing.T) {
	hub := startHub(t)
	a := join(hub, 1, 10, 4)
	b := join(hub, 2, 11, 4)
	require.Eventually(t, func() bool { return hub.ClientCount(1) == 1 && hub.ClientCount(2) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.BroadcastSeries(1, "notes_updated", map[string]int{"page": 3}))

	select {
	case frame := <-a.Send:
		var msg struct {
			Type string         `json:"type"`
			Data map[string]int `json:"data"`
		}
		require.NoError(t, json.Unmarshal(frame, &msg))
		assert.Equal(t, "notes_updated", msg.Type)
		assert.Equal(t, 3, msg.Data["page"])
	case <-time.After(time.Second):
		t.Fatal("no frame delivered")
	}
	assert.Len(t, b.Send, 0)
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := startHub(t)
	c := join(hub, 5, 1, 1)
	require.Eventually(t, func() bool { return hub.ClientCount(5) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.BroadcastSeries(5, "notes_updated", nil))
	require.NoError(t, hub.BroadcastSeries(5, "notes_updated", nil))

	require.Eventually(t, func() bool { return hub.ClientCount(5) == 0 }, time.Second, 5*time.Millisecond)

	<-c.Send
	_, open := <-c.Send
	assert.False(t, open)
}

func TestStoppedHubNeverBlocks(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	clients := make([]*Client, 0, 80)
	for i := 0; i < 80; i++ {
		clients = append(clients, join(hub, 9, int64(i), 0))
	}
	require.Eventually(t, func() bool { return hub.ClientCount(9) == 80 }, time.Second, 5*time.Millisecond)

	cancel()
	<-hub.Done()

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		_ = hub.BroadcastSeries(9, "notes_updated", nil)
		assert.False(t, hub.Register(&Client{Hub: hub, SeriesID: 9, Send: make(chan []byte, 1)}))
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("stopped hub blocked")
	}
	assert.Equal(t, 0, hub.ClientCount(9))
	_, open := <-clients[0].Send
	assert.False(t, open)
}
