package sampling

import (
  "math/rand"
  "sync"
  "time"
)

// Source decides Bernoulli draws for the catalog sampling filter.
// Injected so tests can force deterministic inclusion or exclusion.
type Source interface {
  Hit(probability float64) bool
}

type randomSource struct {
  mu  sync.Mutex
  rng *rand.Rand
}

func NewRandomSource() Source {
  return &randomSource{
    rng: rand.New(rand.NewSource(time.Now().UnixNano())),
  }
}

func (s *randomSource) Hit(probability float64) bool {
  if probability >= 1 {
    return true
  }
  if probability <= 0 {
    return false
  }

  s.mu.Lock()
  defer s.mu.Unlock()

  return s.rng.Float64() < probability
}

// Fixed always answers the same way regardless of probability.
type Fixed bool

func (f Fixed) Hit(float64) bool {
  return bool(f)
}
