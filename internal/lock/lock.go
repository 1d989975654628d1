// Package lock provides short-lived named locks that guard in-flight submissions.
package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker acquires a named lock for at most ttl. ok is false when another
// holder owns the name; release is a no-op in that case.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(), ok bool, err error)
}

// New returns a Redis locker, or an in-process one when client is nil.
func New(client *redis.Client) Locker {
	if client == nil {
		return NewMemory()
	}
	return &redisLocker{client: client}
}

const keyPrefix = "petition:lock:"

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0`)

type redisLocker struct {
	client *redis.Client
}

func (l *redisLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), bool, error) {
	key := keyPrefix + name
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return func() {}, false, err
	}
	if !ok {
		return func() {}, false, nil
	}
	return func() {
		_ = releaseScript.Run(context.Background(), l.client, []string{key}, token).Err()
	}, true, nil
}

// Memory is a process-local Locker.
type Memory struct {
	mu   sync.Mutex
	held map[string]memoryEntry
	seq  uint64
	now  func() time.Time
}

type memoryEntry struct {
	token   uint64
	expires time.Time
}

func NewMemory() *Memory {
	return &Memory{held: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Acquire(_ context.Context, name string, ttl time.Duration) (func(), bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if e, ok := m.held[name]; ok && e.expires.After(now) {
		return func() {}, false, nil
	}
	m.seq++
	entry := memoryEntry{token: m.seq, expires: now.Add(ttl)}
	m.held[name] = entry

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if cur, ok := m.held[name]; ok && cur.token == entry.token {
			delete(m.held, name)
		}
	}, true, nil
}
