package state

import (
  "sync"
  "time"

  "restockd/internal/models"
)

// Watermarks holds the last-seen timestamp per mail-sourced provider.
// Advancing is monotonic: an older observation never moves a mark backward.
type Watermarks struct {
  mu    sync.Mutex
  marks map[models.ProviderKey]time.Time
}

func NewWatermarks(marks map[models.ProviderKey]time.Time) *Watermarks {
  if marks == nil {
    marks = make(map[models.ProviderKey]time.Time)
  }
  return &Watermarks{marks: marks}
}

func (w *Watermarks) LastSeen(key models.ProviderKey) time.Time {
  w.mu.Lock()
  defer w.mu.Unlock()

  return w.marks[key]
}

// Advance moves the mark forward and reports whether it actually moved.
func (w *Watermarks) Advance(key models.ProviderKey, seen time.Time) bool {
  w.mu.Lock()
  defer w.mu.Unlock()

  if !seen.After(w.marks[key]) {
    return false
  }

  w.marks[key] = seen

  return true
}

func (w *Watermarks) Snapshot() map[models.ProviderKey]time.Time {
  w.mu.Lock()
  defer w.mu.Unlock()

  out := make(map[models.ProviderKey]time.Time, len(w.marks))

  for key, mark := range w.marks {
    out[key] = mark
  }

  return out
}
