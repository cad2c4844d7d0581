package state

import (
  "sync"
  "time"
)

const DefaultCooldown = 30 * time.Minute

// Cadence gates subscriber-facing notification batches behind a global
// cooldown. MarkSent is called only after at least one delivery succeeded,
// so a failed batch does not consume the cooldown window.
type Cadence struct {
  mu       sync.Mutex
  lastSent time.Time
  cooldown time.Duration
}

func NewCadence(lastSent time.Time, cooldown time.Duration) *Cadence {
  if cooldown <= 0 {
    cooldown = DefaultCooldown
  }
  return &Cadence{
    lastSent: lastSent,
    cooldown: cooldown,
  }
}

func (c *Cadence) ShouldNotify(now time.Time) bool {
  c.mu.Lock()
  defer c.mu.Unlock()

  return now.Sub(c.lastSent) >= c.cooldown
}

func (c *Cadence) MarkSent(now time.Time) {
  c.mu.Lock()
  defer c.mu.Unlock()

  c.lastSent = now
}

func (c *Cadence) LastSent() time.Time {
  c.mu.Lock()
  defer c.mu.Unlock()

  return c.lastSent
}
