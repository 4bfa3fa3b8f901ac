package study

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/saulo-duarte/cars-prep/internal/config"
)

const SessionTTL = 12 * time.Hour

var ErrNoSession = errors.New("no study round in progress")

// SessionStore keeps at most one round per user. Rounds of different users
// never share state.
type SessionStore interface {
	Load(ctx context.Context, userID string) (*Session, error)
	Save(ctx context.Context, userID string, s *Session) error
	Clear(ctx context.Context, userID string) error
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewMemoryStore keeps encoded copies, so a caller mutating a loaded session
// never changes the stored one until it saves.
func NewMemoryStore() SessionStore {
	return &memoryStore{sessions: map[string][]byte{}}
}

func (m *memoryStore) Load(_ context.Context, userID string) (*Session, error) {
	m.mu.RLock()
	raw, ok := m.sessions[userID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNoSession
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (m *memoryStore) Save(_ context.Context, userID string, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	m.mu.Lock()
	m.sessions[userID] = raw
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) Clear(_ context.Context, userID string) error {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
	return nil
}

// redisStore encrypts each round with the application key before it leaves
// the process.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client) SessionStore {
	return &redisStore{client: client, ttl: SessionTTL}
}

// NewRedisClient parses a redis:// URL and checks the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func sessionKey(userID string) string {
	return "study:session:" + userID
}

func (r *redisStore) Load(ctx context.Context, userID string) (*Session, error) {
	payload, err := r.client.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	plain, err := config.Decrypt(payload)
	if err != nil {
		return nil, fmt.Errorf("decrypt session: %w", err)
	}
	var s Session
	if err := json.Unmarshal([]byte(plain), &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *redisStore) Save(ctx context.Context, userID string, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	payload, err := config.Encrypt(string(raw))
	if err != nil {
		return fmt.Errorf("encrypt session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(userID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *redisStore) Clear(ctx context.Context, userID string) error {
	return r.client.Del(ctx, sessionKey(userID)).Err()
}
