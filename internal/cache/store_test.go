package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_GetPut(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_, ok := store.Get(ctx, "Glow Day Spa")
	assert.False(t, ok)

	store.Put(ctx, "Glow Day Spa", "company-1")

	id, ok := store.Get(ctx, "Glow Day Spa")
	assert.True(t, ok)
	assert.Equal(t, "company-1", id)
}

func TestStore_CaseInsensitiveKeys(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	store.Put(ctx, "Glow Day Spa", "company-1")

	id, ok := store.Get(ctx, "  glow day spa ")
	assert.True(t, ok)
	assert.Equal(t, "company-1", id)
}

func TestStore_IgnoresEmptyValues(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	store.Put(ctx, "", "company-1")
	store.Put(ctx, "Glow Day Spa", "")

	_, ok := store.Get(ctx, "Glow Day Spa")
	assert.False(t, ok)
}
