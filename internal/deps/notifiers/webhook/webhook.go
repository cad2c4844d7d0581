package webhook

import (
  "context"
  "fmt"

  "github.com/go-playground/validator/v10"
  "github.com/go-resty/resty/v2"
  log "github.com/sirupsen/logrus"
  "restockd/internal/models"
)

type Client struct {
  config Config
  deps   Dependencies
}

type Config struct {
  URL string `validate:"required,url"`
}

func (c *Config) Validate() error {
  return validator.New().Struct(c)
}

type Dependencies struct {
  Client *resty.Client `validate:"required"`
}

func (d *Dependencies) Validate() error {
  return validator.New().Struct(d)
}

func NewClient(config Config, deps Dependencies) (*Client, error) {
  if err := config.Validate(); err != nil {
    return nil, fmt.Errorf("invalid config: %w", err)
  }
  if err := deps.Validate(); err != nil {
    return nil, fmt.Errorf("invalid dependencies: %w", err)
  }

  return &Client{
    config: config,
    deps:   deps,
  }, nil
}

func (c *Client) Name() string {
  return "webhook"
}

type payload struct {
  Content string `json:"content"`
}

// Announce posts the stock message to the configured webhook endpoint.
func (c *Client) Announce(ctx context.Context, product models.Product) error {
  resp, err := c.deps.Client.R().
    SetContext(ctx).
    SetHeader("Content-Type", "application/json").
    SetBody(payload{Content: product.StockMessage()}).
    Post(c.config.URL)

  if err != nil {
    return fmt.Errorf("webhook post: %w", err)
  }

  if resp.IsError() {
    return fmt.Errorf("webhook post: status %d", resp.StatusCode())
  }

  log.
    WithField("product.key", product.Key).
    Info("webhook notification posted")

  return nil
}
