package inmemoryimpl

import (
	"context"
	"iambic/iambic"
	"sync"
	"time"
)

type InMemoryManager struct {
	mu     sync.RWMutex
	lastID int64
	order  []int64
	posts  map[int64]iambic.Post
}

func NewInMemoryManager() *InMemoryManager {
	return &InMemoryManager{
		posts: make(map[int64]iambic.Post),
	}
}

func (manager *InMemoryManager) AddPost(_ context.Context, body string) (iambic.Post, error) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	manager.lastID++
	post := iambic.Post{ID: manager.lastID, Body: body, CreatedAt: time.Now().UTC()}
	manager.order = append(manager.order, post.ID)
	manager.posts[post.ID] = post
	return post, nil
}

func (manager *InMemoryManager) GetPost(_ context.Context, id int64) (iambic.Post, error) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	post, ok := manager.posts[id]
	if !ok {
		return iambic.Post{}, iambic.ErrNotFound
	}
	return post, nil
}

func (manager *InMemoryManager) ListPosts(_ context.Context) ([]iambic.Post, error) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	result := make([]iambic.Post, 0, len(manager.order))
	for _, id := range manager.order {
		result = append(result, manager.posts[id])
	}
	return result, nil
}

func (manager *InMemoryManager) IsReady(_ context.Context) bool {
	return true
}
