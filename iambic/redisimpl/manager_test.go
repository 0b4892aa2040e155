package redisimpl

import (
	"context"
	"encoding/json"
	"testing"

	"iambic/iambic"
	"iambic/iambic/inmemoryimpl"
	"iambic/iambic/managertest"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

var ctx = context.Background()

func TestRedisManager(t *testing.T) {
	suite.Run(t, new(RedisManagerSuite))
}

type RedisManagerSuite struct {
	managertest.ManagerSuite

	mini        *miniredis.Miniredis
	redisClient *redis.Client
	persistent  *inmemoryimpl.InMemoryManager
}

func (s *RedisManagerSuite) SetupSuite() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mini = mr
	s.redisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func (s *RedisManagerSuite) TearDownSuite() {
	if s.redisClient != nil {
		_ = s.redisClient.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *RedisManagerSuite) SetupTest() {
	// fresh persistent store and empty redis per test
	s.persistent = inmemoryimpl.NewInMemoryManager()
	s.mini.FlushAll()
	s.Manager = NewRedisManager(s.redisClient, s.persistent)
}

func (s *RedisManagerSuite) TestAddPost_WritesThroughAndCaches() {
	created, err := s.Manager.AddPost(ctx, "Hello from cache")
	s.Require().NoError(err)

	bytes, err := s.redisClient.Get(ctx, cacheKeyForPost(created.ID)).Bytes()
	s.Require().NoError(err)
	var cached iambic.Post
	s.Require().NoError(json.Unmarshal(bytes, &cached))
	s.Require().Equal(created.ID, cached.ID)
	s.Require().Equal(created.Body, cached.Body)

	stored, err := s.persistent.GetPost(ctx, created.ID)
	s.Require().NoError(err)
	s.Require().Equal("Hello from cache", stored.Body)
}

func (s *RedisManagerSuite) TestGetPost_ReadThrough_PopulatesCache() {
	// write directly to persistent storage to simulate a cache miss
	p, err := s.persistent.AddPost(ctx, "Original")
	s.Require().NoError(err)

	key := cacheKeyForPost(p.ID)
	s.Require().False(s.mini.Exists(key))

	got, err := s.Manager.GetPost(ctx, p.ID)
	s.Require().NoError(err)
	s.Require().Equal(p, got)
	s.Require().True(s.mini.Exists(key))
	s.Require().Equal(postCacheTTL, s.mini.TTL(key))
}

func (s *RedisManagerSuite) TestListPosts_CachedUntilNextAdd() {
	_, err := s.Manager.AddPost(ctx, "first")
	s.Require().NoError(err)

	posts, err := s.Manager.ListPosts(ctx)
	s.Require().NoError(err)
	s.Require().Len(posts, 1)
	s.Require().True(s.mini.Exists(cacheKeyForList(1)))

	// bypassing the cache leaves the cached list stale
	_, err = s.persistent.AddPost(ctx, "behind the cache")
	s.Require().NoError(err)
	posts, err = s.Manager.ListPosts(ctx)
	s.Require().NoError(err)
	s.Require().Len(posts, 1)

	// writing through the cache moves readers to a new list key
	_, err = s.Manager.AddPost(ctx, "third")
	s.Require().NoError(err)
	s.Require().False(s.mini.Exists(cacheKeyForList(2)))
	posts, err = s.Manager.ListPosts(ctx)
	s.Require().NoError(err)
	s.Require().Len(posts, 3)
}

func (s *RedisManagerSuite) TestListPosts_LateFillIsNotServed() {
	_, err := s.Manager.AddPost(ctx, "first")
	s.Require().NoError(err)

	// a list read from storage before the next add
	stale, err := s.persistent.ListPosts(ctx)
	s.Require().NoError(err)
	version, err := s.redisClient.Get(ctx, listVersionKey).Int64()
	s.Require().NoError(err)

	_, err = s.Manager.AddPost(ctx, "second")
	s.Require().NoError(err)

	// the racing fill lands after the add
	raw, err := json.Marshal(stale)
	s.Require().NoError(err)
	s.Require().NoError(s.redisClient.Set(ctx, cacheKeyForList(version), raw, postCacheTTL).Err())

	posts, err := s.Manager.ListPosts(ctx)
	s.Require().NoError(err)
	s.Require().Len(posts, 2)
	s.Equal("second", posts[1].Body)
}

func (s *RedisManagerSuite) TestListPosts_RedisDownFallsBack() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	_, err = s.persistent.AddPost(ctx, "stored")
	s.Require().NoError(err)
	posts, err := NewRedisManager(client, s.persistent).ListPosts(ctx)
	s.Require().NoError(err)
	s.Require().Len(posts, 1)
}

func (s *RedisManagerSuite) TestIsReady_FalseWhenRedisDown() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	s.Require().False(NewRedisManager(client, s.persistent).IsReady(ctx))
}
