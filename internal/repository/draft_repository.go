package repository

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	draftKeyPrefix = "interview:drafts:"
	draftTTL       = 24 * time.Hour
)

// DraftRepository is the Redis-backed durable draft map, keyed per session.
// It implements interview.DraftStore. One browser tab is assumed to own one
// session; concurrent writers are last-write-wins.
type DraftRepository struct {
	Redis *redis.Client
}

func NewDraftRepository(rdb *redis.Client) *DraftRepository {
	return &DraftRepository{Redis: rdb}
}

func (r *DraftRepository) Load(ctx context.Context, sessionID string) (map[string]string, error) {
	drafts, err := r.Redis.HGetAll(ctx, draftKeyPrefix+sessionID).Result()
	if err != nil {
		return nil, err
	}
	return drafts, nil
}

func (r *DraftRepository) Save(ctx context.Context, sessionID string, drafts map[string]string) error {
	key := draftKeyPrefix + sessionID
	pipe := r.Redis.TxPipeline()
	pipe.Del(ctx, key)
	if len(drafts) > 0 {
		fields := make(map[string]interface{}, len(drafts))
		for k, v := range drafts {
			fields[k] = v
		}
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, draftTTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *DraftRepository) Clear(ctx context.Context, sessionID string) error {
	return r.Redis.Del(ctx, draftKeyPrefix+sessionID).Err()
}
