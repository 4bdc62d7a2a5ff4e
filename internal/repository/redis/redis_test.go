package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/pauselab/internal/model"
	"github.com/dtroode/pauselab/internal/reminder"
	"github.com/dtroode/pauselab/internal/testutil"
)

// fakeRedis implements redisAPI without a server.
type fakeRedis struct {
	data map[string]string

	getErr  error
	setErr  error
	delErr  error
	pingErr error
	pubErr  error

	subscribers int64
	published   []string
	channels    []string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, subscribers: 1}
}

func (f *fakeRedis) Get(_ context.Context, key string) *goredis.StringCmd {
	if f.getErr != nil {
		return goredis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) *goredis.StatusCmd {
	if f.setErr != nil {
		return goredis.NewStatusResult("", f.setErr)
	}
	f.data[key] = string(value.([]byte))
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *goredis.IntCmd {
	if f.delErr != nil {
		return goredis.NewIntResult(0, f.delErr)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func (f *fakeRedis) Publish(_ context.Context, channel string, message any) *goredis.IntCmd {
	if f.pubErr != nil {
		return goredis.NewIntResult(0, f.pubErr)
	}
	f.channels = append(f.channels, channel)
	f.published = append(f.published, string(message.([]byte)))
	return goredis.NewIntResult(f.subscribers, nil)
}

func (f *fakeRedis) Ping(_ context.Context) *goredis.StatusCmd {
	if f.pingErr != nil {
		return goredis.NewStatusResult("", f.pingErr)
	}
	return goredis.NewStatusResult("PONG", nil)
}

func (f *fakeRedis) Close() error { return nil }

func TestKVRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := &KVRepository{api: newFakeRedis()}

	_, err := repo.Get(ctx, "user")
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, repo.Set(ctx, "user", []byte(`{"deviceId":"abc"}`)))

	got, err := repo.Get(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, `{"deviceId":"abc"}`, string(got))

	require.NoError(t, repo.Delete(ctx, "user"))
	_, err = repo.Get(ctx, "user")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestKVRepository_Errors(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	fake.getErr = errors.New("LOADING")
	fake.setErr = errors.New("OOM")
	fake.delErr = errors.New("READONLY")
	repo := &KVRepository{api: fake}

	_, err := repo.Get(ctx, "user")
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNotFound)
	assert.Contains(t, err.Error(), "LOADING")

	err = repo.Set(ctx, "user", []byte(`{}`))
	assert.ErrorContains(t, err, "failed to set key")

	err = repo.Delete(ctx, "user")
	assert.ErrorContains(t, err, "failed to delete key")
}

func TestPublisher_Notify(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	p := newPublisher(fake, "pauselab:reminders", testutil.MakeNoopLogger())
	firedAt := time.Date(2025, 3, 2, 18, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return firedAt }

	sunday := time.Sunday
	require.NoError(t, p.Notify(ctx, reminder.Reminder{Title: "Weekly reflection", Body: "b", Hour: 18, Weekday: &sunday}))
	require.NoError(t, p.Notify(ctx, reminder.Reminder{Title: "Morning pause", Body: "b", Hour: 9}))

	require.Len(t, fake.published, 2)
	assert.Equal(t, []string{"pauselab:reminders", "pauselab:reminders"}, fake.channels)

	var msg reminderMessage
	require.NoError(t, json.Unmarshal([]byte(fake.published[0]), &msg))
	assert.Equal(t, "Weekly reflection", msg.Title)
	assert.Equal(t, "weekly", msg.Kind)
	assert.True(t, firedAt.Equal(msg.FiredAt))

	require.NoError(t, json.Unmarshal([]byte(fake.published[1]), &msg))
	assert.Equal(t, "daily", msg.Kind)
}

func TestPublisher_NoSubscribersWarns(t *testing.T) {
	fake := newFakeRedis()
	fake.subscribers = 0
	log, buf := testutil.MakeBufferLogger()
	p := newPublisher(fake, "c", log)

	require.NoError(t, p.Notify(context.Background(), reminder.Reminder{Title: "Morning pause"}))
	assert.Contains(t, buf.String(), "no subscribers")
}

func TestPublisher_Errors(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	fake.pingErr = errors.New("dial tcp: refused")
	fake.pubErr = errors.New("closed")
	p := newPublisher(fake, "c", testutil.MakeNoopLogger())

	granted, err := p.Authorize(ctx)
	assert.False(t, granted)
	assert.ErrorContains(t, err, "redis unreachable")

	err = p.Notify(ctx, reminder.Reminder{Title: "x"})
	assert.ErrorContains(t, err, "failed to publish reminder")
}

func TestPublisher_AuthorizeReachable(t *testing.T) {
	p := newPublisher(newFakeRedis(), "c", testutil.MakeNoopLogger())

	granted, err := p.Authorize(context.Background())
	require.NoError(t, err)
	assert.True(t, granted)
}
