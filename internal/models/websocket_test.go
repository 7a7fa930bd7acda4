package models

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhil/togglenest/internal/logger"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(logger.NewNop())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func TestHub_BroadcastReachesOnlyProjectSubscribers(t *testing.T) {
	hub, _ := startHub(t)
	ctx := context.Background()

	acme := hub.NewClient(nil, " ACME-1 ", "a@x.com")
	other := hub.NewClient(nil, "OTHER", "b@x.com")
	require.NoError(t, hub.Register(ctx, acme))
	require.NoError(t, hub.Register(ctx, other))
	assert.Equal(t, "ACME-1", acme.ProjectCode)

	hub.BroadcastActivity(&Activity{ID: "1", ProjectCode: "ACME-1", ActionType: ActionTaskCreated, Description: `Created task: "Ship"`})

	select {
	case raw := <-acme.Send:
		var msg FeedMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "activity", msg.Type)
		assert.Equal(t, "1", msg.Activity.ID)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the activity")
	}

	select {
	case <-other.Send:
		t.Fatal("activity leaked to another project")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub, _ := startHub(t)

	c := hub.NewClient(nil, "ACME-1", "a@x.com")
	require.NoError(t, hub.Register(context.Background(), c))
	assert.Equal(t, 1, hub.Subscribers("ACME-1"))

	hub.Unregister(c)
	hub.Unregister(c)

	_, ok := <-c.Send
	assert.False(t, ok)
	assert.Eventually(t, func() bool { return hub.Subscribers("ACME-1") == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_StopClosesClientsAndRejectsRegistration(t *testing.T) {
	hub, cancel := startHub(t)

	c := hub.NewClient(nil, "ACME-1", "a@x.com")
	require.NoError(t, hub.Register(context.Background(), c))
	cancel()

	_, ok := <-c.Send
	assert.False(t, ok)

	err := hub.Register(context.Background(), hub.NewClient(nil, "ACME-1", "b@x.com"))
	assert.ErrorIs(t, err, errHubStopped)
	hub.Unregister(c)
}
