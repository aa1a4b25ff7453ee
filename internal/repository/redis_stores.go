package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/formar-para-liderar/app-bolsas/internal/redisclient"
	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps sessions as JSON values under session:<token>
type RedisSessionStore struct {
	client *redisclient.Client
}

func NewRedisSessionStore(client *redisclient.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Create(ctx context.Context, session *models.Session, ttl time.Duration) error {
	return setJSON(ctx, s.client, sessionKey(session.Token), session, ttl)
}

func (s *RedisSessionStore) Get(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	if err := getJSON(ctx, s.client, sessionKey(token), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// RedisDraftStore keeps drafts under draft:<id> and the submit lock under
// draft:<id>:submit
type RedisDraftStore struct {
	client *redisclient.Client
}

func NewRedisDraftStore(client *redisclient.Client) *RedisDraftStore {
	return &RedisDraftStore{client: client}
}

func (s *RedisDraftStore) Save(ctx context.Context, draft *models.ApplicationDraft, ttl time.Duration) error {
	return setJSON(ctx, s.client, draftKey(draft.ID), draft, ttl)
}

func (s *RedisDraftStore) Get(ctx context.Context, id string) (*models.ApplicationDraft, error) {
	var draft models.ApplicationDraft
	if err := getJSON(ctx, s.client, draftKey(id), &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (s *RedisDraftStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

func (s *RedisDraftStore) AcquireSubmitLock(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, draftLockKey(id), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire submit lock: %w", err)
	}
	return ok, nil
}

func (s *RedisDraftStore) ReleaseSubmitLock(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, draftLockKey(id)).Err(); err != nil {
		return fmt.Errorf("release submit lock: %w", err)
	}
	return nil
}

func setJSON(ctx context.Context, client *redisclient.Client, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

func getJSON(ctx context.Context, client *redisclient.Client, key string, out interface{}) error {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
