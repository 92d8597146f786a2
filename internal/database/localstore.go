package database

import (
	"encoding/json"
	"sync"
	"time"
)

// LocalStore is the offline-mode substitute for the cache tier: an
// in-process key/value store with a per-entry expiration timestamp.
// Expired entries are removed on read. TTLs are given in minutes to match
// the client-side storage contract it replaces.
type LocalStore struct {
	mu      sync.Mutex
	entries map[string]localEntry
	now     func() time.Time
}

type localEntry struct {
	payload   []byte
	expiresAt time.Time
}

func NewLocalStore() *LocalStore {
	return &LocalStore{
		entries: make(map[string]localEntry),
		now:     time.Now,
	}
}

// Set stores value under key for ttlMinutes. A non-positive TTL means the
// entry never expires.
func (s *LocalStore) Set(key string, value any, ttlMinutes int) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	entry := localEntry{payload: payload}
	if ttlMinutes > 0 {
		entry.expiresAt = s.now().Add(time.Duration(ttlMinutes) * time.Minute)
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()

	return nil
}

// Get unmarshals the stored value into dest. A missing or expired key
// reports found=false; the expired entry is deleted.
func (s *LocalStore) Get(key string, dest any) (bool, error) {
	s.mu.Lock()
	entry, ok := s.entries[key]
	if ok && !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
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

func (s *LocalStore) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len reports live (non-expired) entries without extending their lifetime.
func (s *LocalStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	now := s.now()
	for _, entry := range s.entries {
		if entry.expiresAt.IsZero() || now.Before(entry.expiresAt) {
			count++
		}
	}
	return count
}
