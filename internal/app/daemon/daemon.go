package daemon

import (
  "time"

  "restockd/internal/config"
  "restockd/internal/deps/mail"
  "restockd/internal/dispatcher"
  "restockd/internal/notifier"
  "restockd/internal/state"
)

type Daemon struct {
  config Config
  deps   Dependencies
}

type Config struct {
  ConfigPath string
  Period     time.Duration
  DaemonMode bool
}

type Dependencies struct {
  Config     *config.Config
  Dispatcher *dispatcher.Dispatcher
  Notifier   *notifier.Notifier

  // Mail is nil when no imap credentials are configured.
  Mail *mail.Client

  Ratelimits *state.RateLimitTable
  Watermarks *state.Watermarks
  Cadence    *state.Cadence
}

func NewDaemon(config Config, deps Dependencies) *Daemon {
  if config.Period <= 0 {
    config.Period = 30 * time.Second
  }
  if config.ConfigPath == "" {
    config.ConfigPath = "./config.json"
  }

  return &Daemon{
    config: config,
    deps:   deps,
  }
}
