package activity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhil/togglenest/internal/apperrors"
	"github.com/nikhil/togglenest/internal/logger"
	"github.com/nikhil/togglenest/internal/metrics"
	"github.com/nikhil/togglenest/internal/models"
	"github.com/nikhil/togglenest/internal/store"
	"github.com/nikhil/togglenest/internal/store/storetest"
)

type recordingHub struct {
	mu  sync.Mutex
	got []*models.Activity
}

func (h *recordingHub) BroadcastActivity(a *models.Activity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.got = append(h.got, a)
}

type recordingPublisher struct {
	got []*models.Activity
	err error
}

func (p *recordingPublisher) PublishActivity(_ context.Context, a *models.Activity) error {
	p.got = append(p.got, a)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type failingStore struct {
	store.Store
}

func (failingStore) InsertActivity(context.Context, *models.Activity) error {
	return errors.New("disk full")
}

func (failingStore) ListActivities(context.Context, string, int) ([]models.Activity, error) {
	return nil, errors.New("disk full")
}

func newService(t *testing.T, st store.Store) (*ActivityService, *recordingHub, *recordingPublisher) {
	t.Helper()
	hub := &recordingHub{}
	pub := &recordingPublisher{}
	svc := NewActivityService(st, hub, pub, logger.NewNop())
	svc.Now = storetest.NewClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)).Now
	return svc, hub, pub
}

func TestSnippet(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short", "Fix login", "Fix login"},
		{"exactly thirty", strings.Repeat("a", 30), strings.Repeat("a", 30)},
		{"truncated", strings.Repeat("b", 31), strings.Repeat("b", 30) + "..."},
		{"multibyte", strings.Repeat("é", 35), strings.Repeat("é", 30) + "..."},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Snippet(tt.in))
		})
	}
}

func TestLog_StoresAndFansOut(t *testing.T) {
	st := storetest.NewSQLite(t)
	svc, hub, pub := newService(t, st)
	ctx := context.Background()

	before := testutil.ToFloat64(metrics.ActivitiesLogged.WithLabelValues(string(models.ActionMemberJoined)))
	svc.Log(ctx, Entry{
		ProjectCode: " ACME-1 ",
		UserName:    "b",
		UserEmail:   "b@x.com",
		ActionType:  models.ActionMemberJoined,
		Description: "Joined the project team.",
	})

	feed, err := svc.Feed(ctx, "ACME-1")
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.NotEmpty(t, feed[0].ID)
	assert.Equal(t, "ACME-1", feed[0].ProjectCode)
	assert.Equal(t, "Joined the project team.", feed[0].Description)

	require.Len(t, hub.got, 1)
	assert.Equal(t, feed[0].ID, hub.got[0].ID)
	require.Len(t, pub.got, 1)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ActivitiesLogged.WithLabelValues(string(models.ActionMemberJoined))))
}

func TestLog_SwallowsStoreFailure(t *testing.T) {
	svc, hub, pub := newService(t, failingStore{})

	before := testutil.ToFloat64(metrics.ActivityLogFailures)
	assert.NotPanics(t, func() {
		svc.Log(context.Background(), Entry{ProjectCode: "P", ActionType: models.ActionTaskCreated, Description: "x"})
	})
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ActivityLogFailures))
	assert.Empty(t, hub.got)
	assert.Empty(t, pub.got)
}

func TestLog_RejectsUnknownAction(t *testing.T) {
	st := storetest.NewSQLite(t)
	svc, _, _ := newService(t, st)

	svc.Log(context.Background(), Entry{ProjectCode: "P", ActionType: "TASK_DELETED"})

	feed, err := svc.Feed(context.Background(), "P")
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestLog_PublishFailureIsNotFatal(t *testing.T) {
	st := storetest.NewSQLite(t)
	svc, _, pub := newService(t, st)
	pub.err = errors.New("nats down")

	svc.Log(context.Background(), Entry{ProjectCode: "P", UserName: "a", ActionType: models.ActionQueryAdded, Description: "q"})

	feed, err := svc.Feed(context.Background(), "P")
	require.NoError(t, err)
	assert.Len(t, feed, 1)
}

func TestFeed_CappedNewestFirst(t *testing.T) {
	st := storetest.NewSQLite(t)
	svc, _, _ := newService(t, st)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		svc.Log(ctx, Entry{ProjectCode: "P", UserName: "a", ActionType: models.ActionTaskCreated, Description: strings.Repeat("x", i+1)})
	}

	feed, err := svc.Feed(ctx, " P ")
	require.NoError(t, err)
	require.Len(t, feed, store.ActivityFeedLimit)
	assert.Equal(t, strings.Repeat("x", 25), feed[0].Description)
	for i := 1; i < len(feed); i++ {
		assert.True(t, feed[i-1].Timestamp.After(feed[i].Timestamp))
	}
}

func TestFeed_StoreFailureIsInternal(t *testing.T) {
	svc, _, _ := newService(t, failingStore{})
	_, err := svc.Feed(context.Background(), "P")
	assert.True(t, apperrors.Is(err, apperrors.KindInternal))
}
