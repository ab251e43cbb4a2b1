package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"podbot-be/internal/constant"
	"podbot-be/internal/pkg/logger"
	"podbot-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDelivery struct {
	mu        sync.Mutex
	usernames []string
	payloads  []interface{}
}

func (r *recordingDelivery) Send(username string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usernames = append(r.usernames, username)
	r.payloads = append(r.payloads, payload)
}

func (r *recordingDelivery) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.usernames)
}

func TestActivityServiceForwardsEventsToUser(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	delivery := &recordingDelivery{}
	svc := NewActivityService(pubSub, constant.SessionEventsTopic, delivery, logger.NewNopLogger())
	require.NoError(t, svc.Consume(ctx))

	// Malformed payloads are dropped without stopping the consumer.
	require.NoError(t, pubSub.Publish(constant.SessionEventsTopic, message.NewMessage(watermill.NewUUID(), []byte("not json"))))

	pub := events.NewWatermillPublisher(pubSub, constant.SessionEventsTopic)
	require.NoError(t, pub.Publish(ctx, events.NewEvent(constant.EventSessionCreated, map[string]interface{}{
		"username":   "alice",
		"session_id": "s1",
	})))

	require.Eventually(t, func() bool { return delivery.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	delivery.mu.Lock()
	defer delivery.mu.Unlock()
	assert.Equal(t, "alice", delivery.usernames[0])
	env, ok := delivery.payloads[0].(events.Envelope)
	require.True(t, ok)
	assert.Equal(t, constant.EventSessionCreated, env.Type)
}
