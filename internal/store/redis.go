// internal/store/redis.go
//
// Redis-backed session store. Games are JSON values under minesweeper:game:<id>
// and expire after the configured TTL since their last save.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/robalobadob/minesweeper/internal/game"
)

const gameKey = "minesweeper:game:%s"

// redisStore keeps each game as a JSON value that expires after ttl of inactivity.
// Boards created WithSeed keep their seed across a round trip; an injected
// Source does not survive.
type redisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore returns a Store backed by rdb. A zero ttl keeps games forever.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) Store {
	return &redisStore{rdb: rdb, ttl: ttl}
}

func (s *redisStore) Save(ctx context.Context, g *game.Game) error {
	b, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", g.ID, err)
	}
	if err := s.rdb.Set(ctx, fmt.Sprintf(gameKey, g.ID), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *redisStore) Get(ctx context.Context, id string) (*game.Game, error) {
	b, err := s.rdb.Get(ctx, fmt.Sprintf(gameKey, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var g game.Game
	if err := json.Unmarshal(b, &g); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", id, err)
	}
	return &g, nil
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, fmt.Sprintf(gameKey, id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
