package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"podbot-be/internal/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, rdb *redis.Client) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(rdb, logger.NewNopLogger())
	go hub.Run(ctx)
	return hub
}

func attach(hub *Hub, username string) *Client {
	c := &Client{Hub: hub, Username: username, Send: make(chan []byte, 8)}
	hub.register <- c
	return c
}

func receive(t *testing.T, c *Client) map[string]interface{} {
	t.Helper()
	select {
	case data := <-c.Send:
		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &out))
		return out
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered")
		return nil
	}
}

func TestHubSendLocal(t *testing.T) {
	hub := startHub(t, nil)
	alice := attach(hub, "alice")
	bob := attach(hub, "bob")

	require.Eventually(t, func() bool { return hub.ClientCount("alice") == 1 }, time.Second, 5*time.Millisecond)

	hub.Send("alice", map[string]string{"session_id": "s1"})

	msg := receive(t, alice)
	assert.Equal(t, "activity", msg["type"])
	assert.Len(t, bob.Send, 0)

	hub.unregister <- alice
	require.Eventually(t, func() bool { return hub.ClientCount("alice") == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-alice.Send
	assert.False(t, open)
}

func TestHubSendAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	newClient := func() *redis.Client {
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })
		return rdb
	}

	hubA := startHub(t, newClient())
	hubB := startHub(t, newClient())

	local := attach(hubA, "alice")
	remote := attach(hubB, "alice")

	require.Eventually(t, func() bool {
		return hubA.ClientCount("alice") == 1 && hubB.ClientCount("alice") == 1
	}, time.Second, 5*time.Millisecond)
	// Both hubs must be subscribed before publishing.
	require.Eventually(t, func() bool {
		return mr.PubSubNumSub("podbot_activity")["podbot_activity"] == 2
	}, 2*time.Second, 10*time.Millisecond)

	hubA.Send("alice", map[string]string{"event": "SESSION_CREATED"})

	assert.Equal(t, "activity", receive(t, local)["type"])
	assert.Equal(t, "activity", receive(t, remote)["type"])

	// The origin hub ignores its own echo.
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, local.Send, 0)
}

func TestHubSendWhileClientsDisconnect(t *testing.T) {
	hub := startHub(t, nil)

	for i := 0; i < 100; i++ {
		c := attach(hub, "alice")

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			// More than the buffer holds, so the full-buffer path runs too.
			for j := 0; j < 20; j++ {
				hub.Send("alice", map[string]int{"seq": j})
			}
		}()
		go func() {
			defer wg.Done()
			hub.unregisterClient(c)
		}()
		wg.Wait()
	}

	require.Eventually(t, func() bool { return hub.ClientCount("alice") == 0 }, time.Second, 5*time.Millisecond)
}

func TestHubStopReleasesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, logger.NewNopLogger())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := attach(hub, "alice")
	require.Eventually(t, func() bool { return hub.ClientCount("alice") == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-stopped

	_, open := <-c.Send
	assert.False(t, open)

	// A pump exiting after shutdown must not block on the stopped hub.
	released := make(chan struct{})
	go func() {
		hub.unregisterClient(c)
		assert.False(t, hub.registerClient(&Client{Hub: hub, Username: "bob", Send: make(chan []byte, 1)}))
		close(released)
	}()
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("client blocked on a stopped hub")
	}
}
