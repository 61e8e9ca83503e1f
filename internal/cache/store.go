package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// JSONStore JSON 键值存储（Redis 未启用时退化为进程内存）
type JSONStore interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// NewStore 按 Redis 启用状态选择存储实现
func NewStore() JSONStore {
	if Enabled() {
		return RedisStore{}
	}
	return NewMemoryStore()
}

// RedisStore 基于全局 Redis 客户端的实现
type RedisStore struct{}

// GetJSON 读取 JSON
func (RedisStore) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	return GetJSON(ctx, key, dest)
}

// SetJSON 写入 JSON
func (RedisStore) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return SetJSON(ctx, key, value, ttl)
}

// Del 删除键
func (RedisStore) Del(ctx context.Context, key string) error {
	return Del(ctx, key)
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// memorySweepInterval 写入时批量清理过期键的最小间隔
const memorySweepInterval = time.Minute

// MemoryStore 进程内实现，读取时惰性清理过期键，写入时按间隔批量清理
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// GetJSON 读取 JSON
func (s *MemoryStore) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	s.mu.Lock()
	entry, ok := s.entries[key]
	if ok && !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 写入 JSON，ttl <= 0 表示不过期
func (s *MemoryStore) SetJSON(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	entry := memoryEntry{payload: payload}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if now.Sub(s.lastSweep) >= memorySweepInterval {
		s.sweepLocked(now)
	}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}
	s.entries[key] = entry
	return nil
}

// sweepLocked 删除所有已过期的键，调用方需持有 mu
func (s *MemoryStore) sweepLocked(now time.Time) {
	for key, entry := range s.entries {
		if !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
	s.lastSweep = now
}

// Del 删除键
func (s *MemoryStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
