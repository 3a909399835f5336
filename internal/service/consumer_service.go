package service

import (
	"context"
	"encoding/json"
	"fmt"

	"course-notes-be/internal/dto"
	"course-notes-be/internal/pkg/logger"
	"course-notes-be/pkg/eventbus"
)

const MessageNotesUpdated = "notes_updated"

// NotesDelivery pushes realtime updates to viewers of a series.
// Implemented by the websocket Hub.
type NotesDelivery interface {
	BroadcastSeries(seriesID int64, msgType string, data interface{}) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	bus       *eventbus.Bus
	topicName string
	delivery  NotesDelivery
	logger    logger.ILogger
}

func NewConsumerService(
	bus *eventbus.Bus,
	topicName string,
	delivery NotesDelivery,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		bus:       bus,
		topicName: topicName,
		delivery:  delivery,
		logger:    log,
	}
}

// Consume subscribes to notes written events until ctx is done.
func (cs *consumerService) Consume(ctx context.Context) error {
	return cs.bus.Subscribe(ctx, cs.topicName, cs.processMessage)
}

// processMessage only fans the write out to viewers; the writer has already
// invalidated the notes cache.
func (cs *consumerService) processMessage(_ context.Context, payload []byte) error {
	var msg dto.NotesWrittenMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("decode notes written: %w", err)
	}

	if cs.delivery == nil {
		return nil
	}
	cs.logger.Debug("CONSUMER", "Broadcasting notes update", map[string]interface{}{"series_id": msg.SeriesId, "user_file_id": msg.UserFileId, "page": msg.Page})
	return cs.delivery.BroadcastSeries(msg.SeriesId, MessageNotesUpdated, msg)
}
