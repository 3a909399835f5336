package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"course-notes-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	TopicPageChanged         = "notes.page_changed"
	TopicUserQuestionsUpdate = "user_questions.updated"
	TopicReconnectSucceeded  = "reconnect.succeeded"
)

// PageChanged is published whenever the viewer moves to another page of a document.
type PageChanged struct {
	SeriesId   int64 `json:"series_id"`
	DocumentId int64 `json:"document_id"`
	Page       int   `json:"page"`
}

type Handler func(ctx context.Context, payload []byte) error

// Bus is the in-process broadcast channel between the notes store and its observers.
type Bus struct {
	pubSub *gochannel.GoChannel
	logger logger.ILogger
}

func New(log logger.ILogger) *Bus {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		NewWatermillLogger(log),
	)
	return &Bus{pubSub: pubSub, logger: log}
}

func (b *Bus) Publish(topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}
	return b.pubSub.Publish(topic, message.NewMessage(watermill.NewUUID(), data))
}

// Subscribe runs handler for every message on topic until ctx is done or the bus closes.
// Handler errors are logged; the message is acked either way because delivery is best effort.
func (b *Bus) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := b.pubSub.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			if err := handler(msg.Context(), msg.Payload); err != nil {
				b.logger.Warn("EventBus", "Handler failed", map[string]interface{}{"topic": topic, "error": err.Error()})
			}
			msg.Ack()
		}
	}()
	return nil
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}
