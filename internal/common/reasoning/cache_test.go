package reasoning

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingClient struct {
	reply string
	err   error
	calls int
}

func (c *countingClient) Name() string { return "fake:model" }

func (c *countingClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	c.calls++
	return c.reply, c.err
}

func TestCachedClient_MemoryHit(t *testing.T) {
	next := &countingClient{reply: `{"clarityScore":90}`}
	var events []string
	c, err := NewCachedClient(next, 0, WithCacheObserver(func(layer string, hit bool) {
		if hit {
			events = append(events, layer+":hit")
		} else {
			events = append(events, layer+":miss")
		}
	}))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		out, err := c.Complete(context.Background(), "sys", "prompt")
		require.NoError(t, err)
		assert.Equal(t, `{"clarityScore":90}`, out)
	}

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, []string{"memory:miss", "memory:hit", "memory:hit"}, events)
	assert.Equal(t, "fake:model", c.Name())
}

func TestCachedClient_DistinctPromptsAreDistinctKeys(t *testing.T) {
	next := &countingClient{reply: "ok"}
	c, err := NewCachedClient(next, 8)
	require.NoError(t, err)

	_, _ = c.Complete(context.Background(), "sys", "a")
	_, _ = c.Complete(context.Background(), "sys", "b")
	_, _ = c.Complete(context.Background(), "other", "a")

	assert.Equal(t, 3, next.calls)
}

func TestCachedClient_ErrorsAreNotCached(t *testing.T) {
	next := &countingClient{err: ErrTimeout}
	c, err := NewCachedClient(next, 8)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "sys", "p")
	assert.ErrorIs(t, err, ErrTimeout)
	_, err = c.Complete(context.Background(), "sys", "p")
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 2, next.calls)
}

func TestCachedClient_RedisSharedAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	first := &countingClient{reply: "verdict"}
	c1, err := NewCachedClient(first, 8, WithRedis(rdb, time.Hour))
	require.NoError(t, err)
	_, err = c1.Complete(context.Background(), "sys", "p")
	require.NoError(t, err)

	second := &countingClient{reply: "different"}
	c2, err := NewCachedClient(second, 8, WithRedis(rdb, time.Hour))
	require.NoError(t, err)
	out, err := c2.Complete(context.Background(), "sys", "p")
	require.NoError(t, err)

	assert.Equal(t, "verdict", out)
	assert.Equal(t, 0, second.calls)
	assert.Len(t, mr.Keys(), 1)
}

func TestCachedClient_RedisMissStoresWithTTL(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	next := &countingClient{reply: "reply"}
	c, err := NewCachedClient(next, 8, WithRedis(rdb, 10*time.Minute))
	require.NoError(t, err)

	key := c.key("sys", "p")
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, "reply", 10*time.Minute).SetVal("OK")

	out, err := c.Complete(context.Background(), "sys", "p")
	require.NoError(t, err)
	assert.Equal(t, "reply", out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedClient_RedisFailureFallsThrough(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	next := &countingClient{reply: "reply"}
	c, err := NewCachedClient(next, 8, WithRedis(rdb, time.Minute))
	require.NoError(t, err)

	key := c.key("sys", "p")
	mock.ExpectGet(key).SetErr(errors.New("connection refused"))
	mock.ExpectSet(key, "reply", time.Minute).SetErr(errors.New("connection refused"))

	out, err := c.Complete(context.Background(), "sys", "p")
	require.NoError(t, err)
	assert.Equal(t, "reply", out)
	assert.Equal(t, 1, next.calls)
}

func requireJSON(reply string) error {
	if !strings.HasPrefix(reply, "{") {
		return errors.New("not json")
	}
	return nil
}

func TestCachedClient_RejectedRepliesAreNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	next := &countingClient{reply: "Sorry, I cannot help with that."}
	c, err := NewCachedClient(next, 8, WithRedis(rdb, time.Hour))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		out, err := c.CompleteChecked(context.Background(), "sys", "p", requireJSON)
		assert.ErrorIs(t, err, ErrRejected)
		assert.Empty(t, out)
	}
	assert.Equal(t, 2, next.calls)
	assert.Empty(t, mr.Keys())

	next.reply = `{"clarity_score":90}`
	out, err := c.CompleteChecked(context.Background(), "sys", "p", requireJSON)
	require.NoError(t, err)
	assert.Equal(t, `{"clarity_score":90}`, out)
	assert.Len(t, mr.Keys(), 1)

	_, err = c.CompleteChecked(context.Background(), "sys", "p", requireJSON)
	require.NoError(t, err)
	assert.Equal(t, 3, next.calls)
}

func TestCachedClient_StaleRejectedEntryIsRefetched(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	next := &countingClient{reply: `{"clarity_score":90}`}
	c, err := NewCachedClient(next, 8, WithRedis(rdb, time.Hour))
	require.NoError(t, err)

	require.NoError(t, mr.Set(c.key("sys", "p"), "prose only"))

	out, err := c.CompleteChecked(context.Background(), "sys", "p", requireJSON)
	require.NoError(t, err)
	assert.Equal(t, `{"clarity_score":90}`, out)
	assert.Equal(t, 1, next.calls)

	stored, err := mr.Get(c.key("sys", "p"))
	require.NoError(t, err)
	assert.Equal(t, `{"clarity_score":90}`, stored)
}

func TestCompleteChecked_PlainClient(t *testing.T) {
	next := &countingClient{reply: "prose"}
	_, err := CompleteChecked(context.Background(), next, "sys", "p", requireJSON)
	assert.ErrorIs(t, err, ErrRejected)

	next.reply = "{}"
	out, err := CompleteChecked(context.Background(), next, "sys", "p", requireJSON)
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
}
