package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_RoundTrip(t *testing.T) {
	store := NewLocalStore()

	type payload struct {
		Make  string `json:"make"`
		Count int    `json:"count"`
	}

	err := store.Set("trucks:makes", payload{Make: "Peterbilt", Count: 7}, 30)
	require.NoError(t, err)

	var out payload
	found, err := store.Get("trucks:makes", &out)

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Make: "Peterbilt", Count: 7}, out)
}

func TestLocalStore_MissingKey(t *testing.T) {
	store := NewLocalStore()

	var out string
	found, err := store.Get("nope", &out)

	assert.NoError(t, err)
	assert.False(t, found)
}

func TestLocalStore_ExpiredEntryRemoved(t *testing.T) {
	store := NewLocalStore()
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Set("k", "v", 5))

	var out string
	found, _ := store.Get("k", &out)
	assert.True(t, found, "entry must survive before the TTL elapses")

	current = current.Add(6 * time.Minute)

	found, err := store.Get("k", &out)
	assert.NoError(t, err)
	assert.False(t, found, "expired entry must read as missing")
	assert.Zero(t, store.Len(), "expired entry must be removed from the store")
}

func TestLocalStore_ZeroTTLNeverExpires(t *testing.T) {
	store := NewLocalStore()
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Set("k", 42, 0))
	current = current.Add(24 * 365 * time.Hour)

	var out int
	found, err := store.Get("k", &out)

	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 42, out)
}

func TestLocalStore_Delete(t *testing.T) {
	store := NewLocalStore()
	require.NoError(t, store.Set("k", "v", 10))

	store.Delete("k")

	var out string
	found, _ := store.Get("k", &out)
	assert.False(t, found)
}
