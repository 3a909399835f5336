package service

import (
	"context"

	"course-notes-be/pkg/eventbus"
)

type IPublisherService interface {
	Publish(ctx context.Context, payload interface{}) error
}

type publisherService struct {
	topicName string
	bus       *eventbus.Bus
}

func NewPublisherService(topicName string, bus *eventbus.Bus) IPublisherService {
	return &publisherService{
		topicName: topicName,
		bus:       bus,
	}
}

func (p *publisherService) Publish(ctx context.Context, payload interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.bus.Publish(p.topicName, payload)
}
