package notify

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskmanager/internal/apperr"
	"taskmanager/internal/model"
)

type fakeStore struct {
	notifications map[int]*model.Notification
	nextID        int
	createErr     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{notifications: map[int]*model.Notification{}, nextID: 1}
}

func (s *fakeStore) Create(ctx context.Context, n *model.Notification) error {
	if s.createErr != nil {
		return s.createErr
	}
	n.ID = s.nextID
	s.nextID++
	n.CreatedAt = time.Now()
	clone := *n
	s.notifications[n.ID] = &clone
	return nil
}

func (s *fakeStore) ListByUser(ctx context.Context, userID int, unreadOnly bool, limit int) ([]model.Notification, error) {
	out := []model.Notification{}
	for _, n := range s.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) UnreadCount(ctx context.Context, userID int) (int, error) {
	count := 0
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) MarkRead(ctx context.Context, userID, id int) (bool, error) {
	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return false, nil
	}
	n.IsRead = true
	return true, nil
}

func (s *fakeStore) MarkAllRead(ctx context.Context, userID int) error {
	for _, n := range s.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, userID, id int) (bool, error) {
	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return false, nil
	}
	delete(s.notifications, id)
	return true, nil
}

type publishedEvent struct {
	userID  int
	event   string
	payload any
}

type fakeChannel struct {
	published  []publishedEvent
	publishErr error
}

func (c *fakeChannel) Publish(ctx context.Context, userID int, event string, payload any) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.published = append(c.published, publishedEvent{userID: userID, event: event, payload: payload})
	return nil
}

func newTestService() (*Service, *fakeStore, *fakeChannel) {
	store := newFakeStore()
	channel := &fakeChannel{}
	return NewService(store, channel, zap.NewNop()), store, channel
}

func seed(t *testing.T, svc *Service, userID, count int) []*model.Notification {
	t.Helper()
	out := make([]*model.Notification, count)
	for i := 0; i < count; i++ {
		n, err := svc.Create(context.Background(), userID, model.NotificationTaskAssigned, "New Task Assigned", "You have been assigned a new task: demo", nil)
		require.NoError(t, err)
		out[i] = n
	}
	return out
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("persists then pushes", func(t *testing.T) {
		svc, store, channel := newTestService()
		taskID := 7

		n, err := svc.Create(ctx, 2, model.NotificationTaskAssigned, "New Task Assigned", "You have been assigned a new task: demo", &taskID)
		require.NoError(t, err)
		assert.NotZero(t, n.ID)
		assert.False(t, n.IsRead)
		assert.Contains(t, store.notifications, n.ID)

		require.Len(t, channel.published, 1)
		event := channel.published[0]
		assert.Equal(t, 2, event.userID)
		assert.Equal(t, PushEventName, event.event)

		payload, ok := event.payload.(PushPayload)
		require.True(t, ok)
		assert.Equal(t, n.ID, payload.ID)
		assert.Equal(t, model.NotificationTaskAssigned, payload.Type)
		require.NotNil(t, payload.TaskID)
		assert.Equal(t, taskID, *payload.TaskID)
	})

	t.Run("push failure does not fail the create", func(t *testing.T) {
		svc, store, channel := newTestService()
		channel.publishErr = errors.New("redis gone")

		n, err := svc.Create(ctx, 2, model.NotificationTaskUpdated, "Task Updated", `Task "demo" has been updated`, nil)
		require.NoError(t, err)
		assert.Contains(t, store.notifications, n.ID)
	})

	t.Run("store failure skips the push", func(t *testing.T) {
		svc, store, channel := newTestService()
		store.createErr = errors.New("db down")

		_, err := svc.Create(ctx, 2, model.NotificationTaskAssigned, "New Task Assigned", "msg", nil)
		require.Error(t, err)
		assert.Empty(t, channel.published)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("unread count ignores filter and limit", func(t *testing.T) {
		svc, _, _ := newTestService()
		created := seed(t, svc, 2, 5)
		require.NoError(t, svc.MarkRead(ctx, 2, created[0].ID))
		require.NoError(t, svc.MarkRead(ctx, 2, created[1].ID))

		tests := []struct {
			name       string
			unreadOnly bool
			limit      int
			wantLen    int
		}{
			{"all defaults", false, 0, 5},
			{"unread only", true, 0, 3},
			{"truncated page", false, 2, 2},
			{"unread truncated", true, 1, 1},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				result, err := svc.List(ctx, 2, tt.unreadOnly, tt.limit)
				require.NoError(t, err)
				assert.Len(t, result.Notifications, tt.wantLen)
				assert.Equal(t, 3, result.UnreadCount)
			})
		}
	})

	t.Run("newest first", func(t *testing.T) {
		svc, _, _ := newTestService()
		created := seed(t, svc, 2, 3)

		result, err := svc.List(ctx, 2, false, 0)
		require.NoError(t, err)
		require.Len(t, result.Notifications, 3)
		assert.Equal(t, created[2].ID, result.Notifications[0].ID)
	})

	t.Run("users only see their own", func(t *testing.T) {
		svc, _, _ := newTestService()
		seed(t, svc, 2, 2)
		seed(t, svc, 3, 1)

		result, err := svc.List(ctx, 3, false, 0)
		require.NoError(t, err)
		assert.Len(t, result.Notifications, 1)
		assert.Equal(t, 1, result.UnreadCount)
	})
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()

	t.Run("marks and is idempotent", func(t *testing.T) {
		svc, _, _ := newTestService()
		created := seed(t, svc, 2, 1)

		require.NoError(t, svc.MarkRead(ctx, 2, created[0].ID))
		require.NoError(t, svc.MarkRead(ctx, 2, created[0].ID))

		result, err := svc.List(ctx, 2, false, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, result.UnreadCount)
	})

	t.Run("foreign notification is NotFound", func(t *testing.T) {
		svc, _, _ := newTestService()
		created := seed(t, svc, 2, 1)

		err := svc.MarkRead(ctx, 3, created[0].ID)
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("unknown id is NotFound", func(t *testing.T) {
		svc, _, _ := newTestService()
		err := svc.MarkRead(ctx, 2, 99)
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestMarkAllRead(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	seed(t, svc, 2, 3)
	seed(t, svc, 3, 1)

	require.NoError(t, svc.MarkAllRead(ctx, 2))

	mine, err := svc.List(ctx, 2, false, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, mine.UnreadCount)

	theirs, err := svc.List(ctx, 3, false, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, theirs.UnreadCount)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes own notification", func(t *testing.T) {
		svc, store, _ := newTestService()
		created := seed(t, svc, 2, 1)

		require.NoError(t, svc.Delete(ctx, 2, created[0].ID))
		assert.Empty(t, store.notifications)
	})

	t.Run("foreign notification is NotFound", func(t *testing.T) {
		svc, store, _ := newTestService()
		created := seed(t, svc, 2, 1)

		err := svc.Delete(ctx, 3, created[0].ID)
		require.ErrorIs(t, err, apperr.ErrNotFound)
		assert.Len(t, store.notifications, 1)
	})
}
