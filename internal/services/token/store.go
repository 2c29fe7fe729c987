// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package token

import (
	"context"
	"errors"
	"strconv"
	"time"

	"codeberg.org/oliverandrich/alumni-api/internal/models"
	"codeberg.org/oliverandrich/alumni-api/internal/repository"
	"github.com/redis/go-redis/v9"
)

// SQLStore keeps refresh tokens in the refresh_tokens table.
type SQLStore struct {
	repo *repository.Repository
}

// NewSQLStore creates a store backed by the repository.
func NewSQLStore(repo *repository.Repository) *SQLStore {
	return &SQLStore{repo: repo}
}

func (s *SQLStore) Upsert(ctx context.Context, userID, token string) error {
	return s.repo.UpsertRefreshToken(ctx, userID, token)
}

func (s *SQLStore) Get(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt, err := s.repo.GetRefreshToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return rt, err
}

func (s *SQLStore) Delete(ctx context.Context, token string) error {
	return s.repo.DeleteRefreshToken(ctx, token)
}

const (
	userKeyPrefix  = "refresh:user:"
	tokenKeyPrefix = "refresh:token:"
)

// RedisStore keeps refresh tokens in Redis as two keys per user, one
// indexed by user and one by token, both expiring with the token.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore creates a store on client. Keys expire after ttl.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// maxTxRetries bounds optimistic transaction retries under contention.
const maxTxRetries = 16

// ErrContention is returned when a user's keys kept changing during every retry.
var ErrContention = errors.New("refresh token store contention")

// watch runs fn as an optimistic transaction on the user key, retrying
// while other writers change it.
func (s *RedisStore) watch(ctx context.Context, userID string, fn func(tx *redis.Tx) error) error {
	for range maxTxRetries {
		err := s.client.Watch(ctx, fn, userKeyPrefix+userID)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return ErrContention
}

// Upsert makes token the user's only live refresh token. The previous one is
// deleted in the same transaction, so concurrent upserts leave exactly one.
func (s *RedisStore) Upsert(ctx context.Context, userID, token string) error {
	userKey := userKeyPrefix + userID
	return s.watch(ctx, userID, func(tx *redis.Tx) error {
		previous, err := tx.Get(ctx, userKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if previous != "" && previous != token {
				pipe.Del(ctx, tokenKeyPrefix+previous)
			}
			pipe.Set(ctx, userKey, token, s.ttl)
			pipe.HSet(ctx, tokenKeyPrefix+token, "user_id", userID, "updated_at", time.Now().UTC().Unix())
			pipe.Expire(ctx, tokenKeyPrefix+token, s.ttl)
			return nil
		})
		return err
	})
}

// Get returns the record of token when it is still its user's live token.
func (s *RedisStore) Get(ctx context.Context, token string) (*models.RefreshToken, error) {
	values, err := s.client.HGetAll(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		return nil, err
	}
	userID, ok := values["user_id"]
	if !ok {
		return nil, ErrNotFound
	}

	live, err := s.client.Get(ctx, userKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) || (err == nil && live != token) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rt := &models.RefreshToken{UserID: userID, Token: token}
	if ts, err := strconv.ParseInt(values["updated_at"], 10, 64); err == nil {
		rt.UpdatedAt = time.Unix(ts, 0).UTC()
		rt.CreatedAt = rt.UpdatedAt
	}
	return rt, nil
}

// Delete removes token. The user key is cleared only while it still points
// at token, so a newer session survives.
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	userID, err := s.client.HGet(ctx, tokenKeyPrefix+token, "user_id").Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	userKey := userKeyPrefix + userID
	return s.watch(ctx, userID, func(tx *redis.Tx) error {
		live, err := tx.Get(ctx, userKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, tokenKeyPrefix+token)
			if live == token {
				pipe.Del(ctx, userKey)
			}
			return nil
		})
		return err
	})
}
