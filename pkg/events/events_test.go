package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillPublisherRoundTrip(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, "session_events")
	require.NoError(t, err)

	pub := NewWatermillPublisher(pubSub, "session_events")
	require.NoError(t, pub.Publish(ctx, NewEvent("SESSION_CREATED", map[string]interface{}{
		"username":   "alice",
		"session_id": "01HSESSION",
	})))

	select {
	case msg := <-messages:
		env, err := Decode(msg)
		require.NoError(t, err)
		msg.Ack()

		assert.Equal(t, "SESSION_CREATED", env.EventType())
		assert.Equal(t, "alice", env.Payload()["username"])
		assert.Equal(t, "SESSION_CREATED", msg.Metadata.Get("event_type"))
		assert.False(t, env.Timestamp().IsZero())
	case <-ctx.Done():
		t.Fatal("event was not delivered")
	}
}

type recordingPublisher struct {
	events []Event
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, e Event) error {
	r.events = append(r.events, e)
	return r.err
}

func TestMultiPublisherReachesEveryPublisher(t *testing.T) {
	failing := &recordingPublisher{err: errors.New("bus down")}
	healthy := &recordingPublisher{}

	multi := MultiPublisher{failing, nil, healthy}
	err := multi.Publish(context.Background(), NewEvent("SESSION_CLEARED", nil))

	assert.EqualError(t, err, "bus down")
	assert.Len(t, failing.events, 1)
	assert.Len(t, healthy.events, 1)
}
