package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorePutGetExpire(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "abc", &Session{UserID: 1, Email: "a@example.com", Role: "Student"}, time.Hour))

	s, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", s.Email)

	require.NoError(t, store.Expire(ctx, "abc"))
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, "short", &Session{Email: "a"}, time.Minute))
	require.NoError(t, store.Put(ctx, "forever", &Session{Email: "b"}, 0))

	now = now.Add(2 * time.Minute)
	_, err := store.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrNotFound)

	s, err := store.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "b", s.Email)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i)
			_ = store.Put(ctx, id, &Session{UserID: uint(i)}, time.Hour)
			_, _ = store.Get(ctx, id)
			if i%2 == 0 {
				_ = store.Expire(ctx, id)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 25, store.Len())
}

func TestMemoryStoreReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, "id", &Session{Email: "orig"}, time.Hour))

	s, err := store.Get(ctx, "id")
	require.NoError(t, err)
	s.Email = "changed"

	again, err := store.Get(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, "orig", again.Email)
}

func TestMemoryStoreStaleDropKeepsRefreshedSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, "abc", &Session{Email: "old"}, time.Minute))
	stale := now.Add(2 * time.Minute)

	// a login reuses the id after Get saw the old entry as expired
	now = stale
	require.NoError(t, store.Put(ctx, "abc", &Session{Email: "new"}, time.Hour))
	store.dropIfExpired("abc", stale)

	s, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "new", s.Email)

	store.dropIfExpired("abc", stale.Add(2*time.Hour))
	assert.Equal(t, 0, store.Len())
}
