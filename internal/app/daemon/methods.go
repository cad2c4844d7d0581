package daemon

import (
  "context"
  "time"

  set "github.com/deckarep/golang-set/v2"
  log "github.com/sirupsen/logrus"
  "restockd/internal/models"
)

// Start runs cycles until the context is cancelled, or exactly once outside
// daemon mode. A cycle that overruns the period runs back-to-back with no
// sleep, it never skips.
func (d *Daemon) Start(ctx context.Context) error {
  for {
    started := time.Now()

    d.runCycle(ctx)

    if !d.config.DaemonMode {
      return nil
    }

    remaining := d.config.Period - time.Since(started)
    if remaining < 0 {
      remaining = 0
    }

    timer := time.NewTimer(remaining)

    select {
    case <-ctx.Done():
      timer.Stop()
      return ctx.Err()

    case <-timer.C:
    }
  }
}

// runCycle: mail signals + scraped discoveries -> dedup controller -> save.
// All checks complete before notification decisions are made.
func (d *Daemon) runCycle(ctx context.Context) {
  now := time.Now()

  discovered := set.NewSet[models.Product]()

  if d.deps.Mail != nil {
    signals, err := d.deps.Mail.FetchSignals(ctx, d.deps.Watermarks)
    if err != nil {
      log.Errorf("daemon: mail signals fetch failed: %v", err)
    } else {
      discovered = discovered.Union(signals)
    }
  }

  if d.deps.Config.ApplicationConfig.ShouldScrape(now) {
    scraped := d.deps.Dispatcher.PollAll(ctx, d.deps.Config.CatalogProducts())
    discovered = discovered.Union(scraped)
  } else {
    log.
      WithField("scraping.timeout", d.deps.Config.ApplicationConfig.ScrapingTimeout).
      Info("scraping paused until timeout passes")
  }

  d.deps.Notifier.Process(ctx, discovered, d.deps.Config.Subscribers)

  d.deps.Config.ComposeStates(time.Now(), d.deps.Ratelimits, d.deps.Watermarks, d.deps.Cadence)

  if err := d.deps.Config.Save(d.config.ConfigPath); err != nil {
    log.Errorf("daemon: config save failed: %v", err)
  }
}
