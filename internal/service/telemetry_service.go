package service

import (
	"context"
	"fmt"
	"time"

	"course-notes-be/internal/dto"
	"course-notes-be/internal/entity"
	"course-notes-be/internal/pkg/logger"
	"course-notes-be/internal/repository/unitofwork"
	"course-notes-be/pkg/events"
	pktNats "course-notes-be/pkg/nats"

	"github.com/google/uuid"
)

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType, durableName string, handler pktNats.EventHandler) error
}

type ITelemetryService interface {
	Record(ctx context.Context, userId int64, req *dto.RecordDataItemRequest) (*dto.RecordDataItemResponse, error)
	Start(ctx context.Context) error
}

type telemetryService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  EventPublisher
	subscriber EventSubscriber
	durable    string
	logger     logger.ILogger
	now        func() time.Time
}

// NewTelemetryService accepts nil publisher or subscriber when NATS is
// unavailable; items are then persisted inline.
func NewTelemetryService(
	uowFactory unitofwork.RepositoryFactory,
	publisher EventPublisher,
	subscriber EventSubscriber,
	durable string,
	log logger.ILogger,
) ITelemetryService {
	return &telemetryService{
		uowFactory: uowFactory,
		publisher:  publisher,
		subscriber: subscriber,
		durable:    durable,
		logger:     log,
		now:        time.Now,
	}
}

func (s *telemetryService) Record(ctx context.Context, userId int64, req *dto.RecordDataItemRequest) (*dto.RecordDataItemResponse, error) {
	evt := events.DataItemRecorded{
		UserId:     userId,
		Key:        req.Key,
		Id1:        req.Id1,
		Value1:     req.Value1,
		Id2:        req.Id2,
		Value2:     req.Value2,
		RecordedAt: s.now().UTC(),
	}

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, evt)
		if err == nil {
			return &dto.RecordDataItemResponse{Queued: true}, nil
		}
		s.logger.Warn("TELEMETRY", "Publish failed, storing inline", map[string]interface{}{"key": req.Key, "error": err.Error()})
	}

	if err := s.persist(ctx, evt); err != nil {
		return nil, err
	}
	return &dto.RecordDataItemResponse{Queued: false}, nil
}

// Start attaches the persisting worker to the event stream.
func (s *telemetryService) Start(ctx context.Context) error {
	if s.subscriber == nil {
		return fmt.Errorf("telemetry worker: no subscriber")
	}
	if err := s.subscriber.Subscribe(ctx, events.TypeDataItemRecorded, s.durable, s.handleEvent); err != nil {
		return err
	}
	s.logger.Info("TELEMETRY", "Worker started", map[string]interface{}{"durable": s.durable})
	return nil
}

func (s *telemetryService) handleEvent(ctx context.Context, env events.Envelope) error {
	var evt events.DataItemRecorded
	if err := env.Decode(&evt); err != nil {
		// redelivery cannot fix a malformed payload
		s.logger.Error("TELEMETRY", "Dropping malformed event", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return s.persist(ctx, evt)
}

func (s *telemetryService) persist(ctx context.Context, evt events.DataItemRecorded) error {
	item := entity.DataItem{
		Id:         uuid.New(),
		UserId:     evt.UserId,
		Key:        evt.Key,
		Id1:        evt.Id1,
		Value1:     evt.Value1,
		Id2:        evt.Id2,
		Value2:     evt.Value2,
		RecordedAt: evt.RecordedAt,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DataItemRepository().Create(ctx, &item); err != nil {
		return fmt.Errorf("persist data item: %w", err)
	}
	return nil
}
