package redisimpl

import (
	"context"
	"encoding/json"
	"errors"
	"iambic/iambic"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	postCacheTTL   = 10 * time.Minute
	listVersionKey = "posts:version"
)

func cacheKeyForPost(id int64) string { return "post:" + strconv.FormatInt(id, 10) }

// The cached list lives under the version current when its fill started.
// AddPost bumps the version, so a fill racing with an add can only write a
// key that is never read again.
func cacheKeyForList(version int64) string { return "posts:all:" + strconv.FormatInt(version, 10) }

func NewRedisManager(
	client *redis.Client,
	persistentManager iambic.Manager,
) *RedisManager {

	return &RedisManager{
		client:            client,
		persistentManager: persistentManager,
	}
}

type RedisManager struct {
	client            *redis.Client
	persistentManager iambic.Manager
}

// AddPost writes through to persistent storage, caches the new post and
// retires the cached list.
func (r RedisManager) AddPost(ctx context.Context, body string) (iambic.Post, error) {
	created, err := r.persistentManager.AddPost(ctx, body)
	if err != nil {
		return created, err
	}
	if raw, mErr := json.Marshal(created); mErr == nil {
		_ = r.client.Set(ctx, cacheKeyForPost(created.ID), raw, postCacheTTL).Err()
	}
	_ = r.client.Incr(ctx, listVersionKey).Err()

	return created, nil
}

// GetPost uses read-through cache backed by persistent storage.
func (r RedisManager) GetPost(ctx context.Context, id int64) (iambic.Post, error) {
	var cached iambic.Post

	if bytes, err := r.client.Get(ctx, cacheKeyForPost(id)).Bytes(); err == nil {
		if uErr := json.Unmarshal(bytes, &cached); uErr == nil {
			return cached, nil
		}
	}

	post, err := r.persistentManager.GetPost(ctx, id)
	if err != nil {
		return post, err
	}
	if raw, mErr := json.Marshal(post); mErr == nil {
		_ = r.client.Set(ctx, cacheKeyForPost(id), raw, postCacheTTL).Err()
	}
	return post, nil
}

// ListPosts uses read-through cache of the whole list.
func (r RedisManager) ListPosts(ctx context.Context) ([]iambic.Post, error) {
	version, err := r.client.Get(ctx, listVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		// without a version the list cannot be cached safely
		return r.persistentManager.ListPosts(ctx)
	}
	key := cacheKeyForList(version)

	if bytes, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var cached []iambic.Post
		if uErr := json.Unmarshal(bytes, &cached); uErr == nil {
			return cached, nil
		}
	}

	posts, err := r.persistentManager.ListPosts(ctx)
	if err != nil {
		return posts, err
	}
	if raw, mErr := json.Marshal(posts); mErr == nil {
		_ = r.client.Set(ctx, key, raw, postCacheTTL).Err()
	}
	return posts, nil
}

// IsReady checks both Redis and the persistent manager health.
func (r RedisManager) IsReady(ctx context.Context) bool {
	if r.client == nil {
		return false
	}
	if err := r.client.Ping(ctx).Err(); err != nil {
		return false
	}
	return r.persistentManager.IsReady(ctx)
}
