package state

import (
  "sync"
  "time"

  "restockd/internal/models"
)

// RateLimitTable maps provider keys to retry-not-before timestamps. Entries
// expire lazily: a timestamp in the past reads as absent, no cleanup pass.
type RateLimitTable struct {
  mu   sync.Mutex
  keys map[models.ProviderKey]time.Time
}

func NewRateLimitTable(keys map[models.ProviderKey]time.Time) *RateLimitTable {
  if keys == nil {
    keys = make(map[models.ProviderKey]time.Time)
  }
  return &RateLimitTable{keys: keys}
}

func (t *RateLimitTable) Limit(key models.ProviderKey, until time.Time) {
  t.mu.Lock()
  defer t.mu.Unlock()

  t.keys[key] = until
}

func (t *RateLimitTable) Limited(key models.ProviderKey, now time.Time) bool {
  t.mu.Lock()
  defer t.mu.Unlock()

  until, ok := t.keys[key]

  return ok && now.Before(until)
}

// Snapshot returns the not-yet-expired entries for the persistence boundary.
func (t *RateLimitTable) Snapshot(now time.Time) map[models.ProviderKey]time.Time {
  t.mu.Lock()
  defer t.mu.Unlock()

  out := make(map[models.ProviderKey]time.Time, len(t.keys))

  for key, until := range t.keys {
    if now.Before(until) {
      out[key] = until
    }
  }

  return out
}
