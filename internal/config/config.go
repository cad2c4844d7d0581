package config

import (
  "encoding/json"
  "fmt"
  "os"
  "time"

  "github.com/go-playground/validator/v10"
  "github.com/samber/lo"
  "restockd/internal/models"
  "restockd/internal/state"
  urlvalidator "restockd/pkg/validator"
)

const DefaultPath = "./config.json"

// Config is the flat JSON blob read at startup and rewritten at the end of
// each cycle. Watermark, cadence and rate-limit state live in explicit state
// objects at runtime and are composed back in at the save boundary only.
type Config struct {
  ApplicationConfig ApplicationConfig  `json:"application_config"`
  Subscribers       []models.Subscriber `json:"subscribers"`
  Products          []ProductEntry      `json:"products"`
}

type ApplicationConfig struct {
  LastSeenEvga         time.Time  `json:"last_seen_evga"`
  LastSeenNewegg       time.Time  `json:"last_seen_newegg"`
  LastNotificationSent time.Time  `json:"last_notification_sent"`
  DaemonMode           bool       `json:"daemon_mode"`
  ShouldOpenBrowser    bool       `json:"should_open_browser"`
  ScrapingTimeout      *time.Time `json:"scraping_timeout,omitempty"`

  RatelimitKeys map[models.ProviderKey]time.Time `json:"ratelimit_keys,omitempty"`

  ProxyURL            string `json:"proxy_url,omitempty"`
  PollIntervalSeconds int    `json:"poll_interval_seconds,omitempty"`

  TwilioAccountId *string `json:"twilio_account_id,omitempty"`
  TwilioAuthToken *string `json:"twilio_auth_token,omitempty"`
  FromPhoneNumber *string `json:"from_phone_number,omitempty"`

  ImapHost     *string `json:"imap_host,omitempty"`
  ImapUsername *string `json:"imap_username,omitempty"`
  ImapPassword *string `json:"imap_password,omitempty"`

  DiscordURL *string `json:"discord_url,omitempty"`

  TelegramBotToken *string `json:"telegram_bot_token,omitempty"`
  TelegramChatId   *int64  `json:"telegram_chat_id,omitempty"`
}

type ProductEntry struct {
  Product      string `json:"product"`
  Page         string `json:"page" validate:"required"`
  ProductKey   string `json:"product_key" validate:"required"`
  CSSSelector  string `json:"css_selector,omitempty"`
  Active       bool   `json:"active"`
  ActiveChance *int   `json:"active_chance,omitempty"`
}

func Load(path string) (*Config, error) {
  raw, err := os.ReadFile(path)
  if err != nil {
    return nil, fmt.Errorf("os.ReadFile: %w", err)
  }

  cfg := new(Config)

  if err = json.Unmarshal(raw, cfg); err != nil {
    return nil, fmt.Errorf("json.Unmarshal: %w", err)
  }

  if err = cfg.Validate(); err != nil {
    return nil, fmt.Errorf("cfg.Validate: %w", err)
  }

  return cfg, nil
}

func (c *Config) Save(path string) error {
  raw, err := json.MarshalIndent(c, "", "  ")
  if err != nil {
    return fmt.Errorf("json.MarshalIndent: %w", err)
  }

  if err = os.WriteFile(path, raw, 0o644); err != nil {
    return fmt.Errorf("os.WriteFile: %w", err)
  }

  return nil
}

func (c *Config) Validate() error {
  if err := validator.New().Struct(c); err != nil {
    return fmt.Errorf("validator.Struct: %w", err)
  }

  for _, entry := range c.Products {
    if _, ok := models.FromConfigKey(entry.ProductKey, entry.Product, entry.Page); !ok {
      return fmt.Errorf("unknown product_key: %s", entry.ProductKey)
    }

    if err := urlvalidator.URL(entry.Page); err != nil {
      return fmt.Errorf("invalid page url: %s: %w", entry.Page, err)
    }
  }

  if err := c.ApplicationConfig.validateCredentialGroups(); err != nil {
    return fmt.Errorf("credential groups: %w", err)
  }

  return nil
}

// Credential groups are all-or-nothing: a half-filled group is a config
// mistake, not a disabled channel.
func (a *ApplicationConfig) validateCredentialGroups() error {
  groups := []struct {
    name   string
    fields []bool
  }{
    {"twilio", []bool{a.TwilioAccountId != nil, a.TwilioAuthToken != nil, a.FromPhoneNumber != nil}},
    {"imap", []bool{a.ImapHost != nil, a.ImapUsername != nil, a.ImapPassword != nil}},
    {"telegram", []bool{a.TelegramBotToken != nil, a.TelegramChatId != nil}},
  }

  for _, group := range groups {
    some := lo.Contains(group.fields, true)
    all := !lo.Contains(group.fields, false)

    if some && !all {
      return fmt.Errorf("%s credentials are partially configured", group.name)
    }
  }

  return nil
}

func (a *ApplicationConfig) HasTwilioConfig() bool {
  return a.TwilioAccountId != nil && a.TwilioAuthToken != nil && a.FromPhoneNumber != nil
}

func (a *ApplicationConfig) HasImapConfig() bool {
  return a.ImapHost != nil && a.ImapUsername != nil && a.ImapPassword != nil
}

func (a *ApplicationConfig) HasTelegramConfig() bool {
  return a.TelegramBotToken != nil && a.TelegramChatId != nil
}

// ShouldScrape reports whether the global scraping pause has elapsed.
func (a *ApplicationConfig) ShouldScrape(now time.Time) bool {
  return a.ScrapingTimeout == nil || a.ScrapingTimeout.Before(now)
}

func (a *ApplicationConfig) PollInterval() time.Duration {
  if a.PollIntervalSeconds <= 0 {
    return 30 * time.Second
  }
  return time.Duration(a.PollIntervalSeconds) * time.Second
}

// CatalogProducts builds the runtime catalog from the persisted entries.
// Validate has already rejected unknown keys.
func (c *Config) CatalogProducts() []models.Product {
  products := make([]models.Product, 0, len(c.Products))

  for _, entry := range c.Products {
    product, ok := models.FromConfigKey(entry.ProductKey, entry.Product, entry.Page)
    if !ok {
      continue
    }

    product.CSSSelector = entry.CSSSelector
    product.Active = entry.Active

    if entry.ActiveChance != nil {
      product.ActiveChance = *entry.ActiveChance
    }

    products = append(products, product)
  }

  return products
}

// States materializes the runtime state objects from the persisted blob.
func (c *Config) States(cooldown time.Duration) (*state.RateLimitTable, *state.Watermarks, *state.Cadence) {
  ratelimits := state.NewRateLimitTable(c.ApplicationConfig.RatelimitKeys)

  watermarks := state.NewWatermarks(map[models.ProviderKey]time.Time{
    models.ProviderKeyEvga:   c.ApplicationConfig.LastSeenEvga,
    models.ProviderKeyNewegg: c.ApplicationConfig.LastSeenNewegg,
  })

  cadence := state.NewCadence(c.ApplicationConfig.LastNotificationSent, cooldown)

  return ratelimits, watermarks, cadence
}

// ComposeStates writes the runtime state back into the blob before a save.
func (c *Config) ComposeStates(now time.Time, ratelimits *state.RateLimitTable, watermarks *state.Watermarks, cadence *state.Cadence) {
  c.ApplicationConfig.RatelimitKeys = ratelimits.Snapshot(now)

  marks := watermarks.Snapshot()
  c.ApplicationConfig.LastSeenEvga = marks[models.ProviderKeyEvga]
  c.ApplicationConfig.LastSeenNewegg = marks[models.ProviderKeyNewegg]

  c.ApplicationConfig.LastNotificationSent = cadence.LastSent()
}
