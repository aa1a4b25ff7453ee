package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/formar-para-liderar/app-bolsas/internal/redisclient"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*redisclient.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return redisclient.NewClient(rdb), mr
}

func TestRedisSessionStore(t *testing.T) {
	client, _ := setupRedis(t)
	runSessionStoreContract(t, NewRedisSessionStore(client))
}

func TestRedisDraftStore(t *testing.T) {
	client, _ := setupRedis(t)
	runDraftStoreContract(t, NewRedisDraftStore(client))
}

func TestRedisSessionStore_Expiry(t *testing.T) {
	client, mr := setupRedis(t)
	store := NewRedisSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &models.Session{Token: "t", UserID: "u"}, time.Hour))
	assert.True(t, mr.Exists("session:t"))
	assert.Equal(t, time.Hour, mr.TTL("session:t"))

	mr.FastForward(time.Hour + time.Second)
	_, err := store.Get(ctx, "t")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisDraftStore_Keys(t *testing.T) {
	client, mr := setupRedis(t)
	store := NewRedisDraftStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, models.NewApplicationDraft("d1", nil, baseTime), 72*time.Hour))
	ok, err := store.AcquireSubmitLock(ctx, "d1", 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, mr.Exists("draft:d1"))
	assert.True(t, mr.Exists("draft:d1:submit"))
	assert.Equal(t, 30*time.Second, mr.TTL("draft:d1:submit"))

	mr.FastForward(31 * time.Second)
	ok, err = store.AcquireSubmitLock(ctx, "d1", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisDraftStore_CorruptValue(t *testing.T) {
	client, mr := setupRedis(t)
	store := NewRedisDraftStore(client)

	require.NoError(t, mr.Set("draft:bad", "{not json"))
	_, err := store.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRedisStores_BackendErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")

	t.Run("session get", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectGet("session:t").SetErr(boom)

		_, err := NewRedisSessionStore(redisclient.NewClient(db)).Get(ctx, "t")
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("session delete", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectDel("session:t").SetErr(boom)

		err := NewRedisSessionStore(redisclient.NewClient(db)).Delete(ctx, "t")
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("submit lock", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectSetNX("draft:d:submit", "1", 30*time.Second).SetErr(boom)

		ok, err := NewRedisDraftStore(redisclient.NewClient(db)).AcquireSubmitLock(ctx, "d", 30*time.Second)
		assert.False(t, ok)
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lock held", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectSetNX("draft:d:submit", "1", 30*time.Second).SetVal(false)

		ok, err := NewRedisDraftStore(redisclient.NewClient(db)).AcquireSubmitLock(ctx, "d", 30*time.Second)
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
