package state

import (
  "testing"
  "time"

  "github.com/stretchr/testify/require"

  "restockd/internal/models"
)

func TestRateLimitTable(t *testing.T) {
  now := time.Now()

  table := NewRateLimitTable(nil)

  require.False(t, table.Limited(models.ProviderKeyAmazon, now))

  table.Limit(models.ProviderKeyAmazon, now.Add(5*time.Minute))

  require.True(t, table.Limited(models.ProviderKeyAmazon, now))
  require.False(t, table.Limited(models.ProviderKeyNewegg, now))

  // Entries expire lazily once their deadline passes.
  require.False(t, table.Limited(models.ProviderKeyAmazon, now.Add(5*time.Minute)))
}

func TestRateLimitTableSnapshot(t *testing.T) {
  now := time.Now()

  table := NewRateLimitTable(map[models.ProviderKey]time.Time{
    models.ProviderKeyAmazon: now.Add(-time.Minute),
    models.ProviderKeyNewegg: now.Add(time.Minute),
  })

  snapshot := table.Snapshot(now)

  require.Len(t, snapshot, 1)
  require.Contains(t, snapshot, models.ProviderKeyNewegg)
}

func TestWatermarksAdvance(t *testing.T) {
  base := time.Date(2021, time.March, 1, 12, 0, 0, 0, time.UTC)

  marks := NewWatermarks(map[models.ProviderKey]time.Time{
    models.ProviderKeyEvga: base,
  })

  require.False(t, marks.Advance(models.ProviderKeyEvga, base))
  require.False(t, marks.Advance(models.ProviderKeyEvga, base.Add(-time.Hour)))
  require.Equal(t, base, marks.LastSeen(models.ProviderKeyEvga))

  require.True(t, marks.Advance(models.ProviderKeyEvga, base.Add(time.Hour)))
  require.Equal(t, base.Add(time.Hour), marks.LastSeen(models.ProviderKeyEvga))
}

func TestCadence(t *testing.T) {
  base := time.Date(2021, time.March, 1, 12, 0, 0, 0, time.UTC)

  cadence := NewCadence(base, 30*time.Minute)

  require.False(t, cadence.ShouldNotify(base.Add(10*time.Minute)))
  require.True(t, cadence.ShouldNotify(base.Add(30*time.Minute)))
  require.True(t, cadence.ShouldNotify(base.Add(31*time.Minute)))

  cadence.MarkSent(base.Add(31 * time.Minute))

  require.False(t, cadence.ShouldNotify(base.Add(40*time.Minute)))
  require.Equal(t, base.Add(31*time.Minute), cadence.LastSent())
}
