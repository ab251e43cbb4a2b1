package service

import (
	"context"

	"podbot-be/internal/pkg/logger"
	"podbot-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

// ActivityDelivery pushes real-time updates to a user's connected clients.
// Implemented by the websocket hub.
type ActivityDelivery interface {
	Send(username string, payload interface{})
}

type IActivityService interface {
	Consume(ctx context.Context) error
}

// activityService forwards session events from the in-process bus to live clients.
type activityService struct {
	subscriber message.Subscriber
	topic      string
	delivery   ActivityDelivery
	logger     logger.ILogger
}

func NewActivityService(subscriber message.Subscriber, topic string, delivery ActivityDelivery, log logger.ILogger) IActivityService {
	return &activityService{
		subscriber: subscriber,
		topic:      topic,
		delivery:   delivery,
		logger:     log,
	}
}

// Consume subscribes and processes messages in the background until ctx is done.
func (s *activityService) Consume(ctx context.Context) error {
	messages, err := s.subscriber.Subscribe(ctx, s.topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(msg)
		}
	}()

	return nil
}

func (s *activityService) processMessage(msg *message.Message) {
	// Undecodable messages never become valid; ack them so they are not redelivered.
	defer msg.Ack()

	env, err := events.Decode(msg)
	if err != nil {
		s.logger.Warn("ActivityService", "Dropping malformed event", map[string]interface{}{"error": err.Error()})
		return
	}

	username, _ := env.Data["username"].(string)
	if username == "" {
		return
	}

	s.delivery.Send(username, env)
}
