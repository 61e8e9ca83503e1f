package client

import (
	"context"
	"sort"
	"sync"
)

// Identity 当前登录身份
type Identity struct {
	Token string
	User  User
}

// SessionListener 身份变化回调，identity 为 nil 表示已登出
type SessionListener func(ctx context.Context, identity *Identity)

// Session 客户端会话：持有令牌与用户，身份变化时通知订阅者
type Session struct {
	mu        sync.RWMutex
	identity  *Identity
	listeners map[int]SessionListener
	nextID    int
}

// NewSession 创建空会话
func NewSession() *Session {
	return &Session{listeners: make(map[int]SessionListener)}
}

// Identity 返回当前身份副本，未登录时返回 nil
func (s *Session) Identity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	copied := *s.identity
	return &copied
}

// Token 返回当前令牌
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return ""
	}
	return s.identity.Token
}

// Authenticated 是否已登录
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// SetIdentity 设置登录身份并同步通知订阅者
func (s *Session) SetIdentity(ctx context.Context, token string, user User) {
	identity := &Identity{Token: token, User: user}
	s.mu.Lock()
	s.identity = identity
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, listener := range listeners {
		copied := *identity
		listener(ctx, &copied)
	}
}

// Clear 登出并通知订阅者
func (s *Session) Clear(ctx context.Context) {
	s.mu.Lock()
	s.identity = nil
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(ctx, nil)
	}
}

// Subscribe 订阅身份变化，返回取消订阅函数
func (s *Session) Subscribe(listener SessionListener) func() {
	if listener == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Session) snapshotListeners() []SessionListener {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	// 按订阅顺序通知
	sort.Ints(ids)
	result := make([]SessionListener, 0, len(ids))
	for _, id := range ids {
		result = append(result, s.listeners[id])
	}
	return result
}
