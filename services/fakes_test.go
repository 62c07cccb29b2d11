package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// fakeKVStore is an in-memory stand-in for the Redis-backed store, with the
// same miss semantics as RedisService (empty string, nil error).
type fakeKVStore struct {
	mu       sync.Mutex
	entries  map[string]fakeEntry
	failWith error

	now func() time.Time

	incrCalls int
	setCalls  int
}

type fakeEntry struct {
	value    string
	count    int64
	expireAt time.Time
}

func newFakeKVStore() *fakeKVStore {
	return &fakeKVStore{
		entries: make(map[string]fakeEntry),
		now:     time.Now,
	}
}

func (f *fakeKVStore) expired(e fakeEntry) bool {
	return !e.expireAt.IsZero() && f.now().After(e.expireAt)
}

func (f *fakeKVStore) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return "", f.failWith
	}

	e, ok := f.entries[key]
	if !ok || f.expired(e) {
		return "", nil
	}
	return e.value, nil
}

func (f *fakeKVStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return f.failWith
	}

	f.setCalls++

	var data string
	switch v := value.(type) {
	case string:
		data = v
	case []byte:
		data = string(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		data = string(b)
	}

	f.entries[key] = fakeEntry{value: data, expireAt: f.now().Add(expiration)}
	return nil
}

func (f *fakeKVStore) IncrementWithExpiry(ctx context.Context, key string, expiration time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return 0, f.failWith
	}

	f.incrCalls++

	e, ok := f.entries[key]
	if !ok || f.expired(e) {
		e = fakeEntry{expireAt: f.now().Add(expiration)}
	}
	e.count++
	f.entries[key] = e
	return e.count, nil
}

// fakeListStore backs the chat history service in tests.
type fakeListStore struct {
	mu       sync.Mutex
	lists    map[string][]string
	failWith error
}

func newFakeListStore() *fakeListStore {
	return &fakeListStore{lists: make(map[string][]string)}
}

func (f *fakeListStore) ListRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return nil, f.failWith
	}

	return append([]string(nil), f.lists[key]...), nil
}

func (f *fakeListStore) ListAppendTrim(ctx context.Context, key string, keep int64, values ...interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return f.failWith
	}

	for _, v := range values {
		f.lists[key] = append(f.lists[key], v.(string))
	}
	if int64(len(f.lists[key])) > keep {
		f.lists[key] = f.lists[key][int64(len(f.lists[key]))-keep:]
	}
	return nil
}
