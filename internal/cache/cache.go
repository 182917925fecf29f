// Package cache 提供带 TTL 的键值缓存,审核结果按 url|title 缓存
package cache

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Cache 缓存接口,读不到或已过期都视为未命中
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	Set(ctx context.Context, key string, value V)
	Clear(ctx context.Context)
}

type entry[V any] struct {
	value     V
	timestamp time.Time
}

// Memory 进程内 TTL 缓存,读取时惰性淘汰,容量不设上限
type Memory[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory 创建内存缓存
func NewMemory[V any](ttl time.Duration) *Memory[V] {
	return &Memory[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock 替换时钟,测试用
func (m *Memory[V]) WithClock(now func() time.Time) *Memory[V] {
	m.now = now
	return m
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	e, ok := m.entries[key]
	if !ok {
		return zero, false
	}
	if m.now().Sub(e.timestamp) > m.ttl {
		delete(m.entries, key)
		return zero, false
	}
	return e.value, true
}

func (m *Memory[V]) Set(_ context.Context, key string, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry[V]{value: value, timestamp: m.now()}
}

func (m *Memory[V]) Clear(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]entry[V])
}

// Purge 删除所有过期条目,返回删除数量
func (m *Memory[V]) Purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for k, e := range m.entries {
		if now.Sub(e.timestamp) > m.ttl {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

// Len 当前条目数(含尚未淘汰的过期条目)
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Keys 返回最多 n 个键,调试用
func (m *Memory[V]) Keys(n int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if n >= 0 && len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
