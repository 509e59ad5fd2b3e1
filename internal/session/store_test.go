package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s := New()
	s.AddMessage(RoleUser, "hello")
	require.NoError(t, store.Create(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, s.Messages, got.Messages)

	got.AddMessage(RoleAssistant, "hi")
	got.QuestionCount = 1
	require.NoError(t, store.Update(ctx, got))

	again, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, again.Messages, 2)
	assert.Equal(t, 1, again.QuestionCount)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{s.ID}, ids)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "nope"), ErrNotFound)

	ghost := New()
	assert.ErrorIs(t, store.Update(ctx, ghost), ErrNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s := New()
	s.AddMessage(RoleUser, "hello")
	require.NoError(t, store.Create(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	got.AddMessage(RoleAssistant, "mutated locally")

	fresh, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, fresh.Messages, 1, "store must not observe caller-side mutation")
}

func TestMemoryStoreConcurrentSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := New()
			s.AddMessage(RoleUser, fmt.Sprintf("message %d", i))
			if err := store.Create(ctx, s); err != nil {
				t.Error(err)
				return
			}
			for j := 0; j < 10; j++ {
				got, err := store.Get(ctx, s.ID)
				if err != nil {
					t.Error(err)
					return
				}
				got.QuestionCount++
				if err := store.Update(ctx, got); err != nil {
					t.Error(err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, n)
	for _, id := range ids {
		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 10, got.QuestionCount)
	}
}
