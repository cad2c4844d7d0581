package telegram

import (
  "context"
  "fmt"

  "github.com/go-playground/validator/v10"
  telegram "github.com/go-telegram/bot"
  log "github.com/sirupsen/logrus"
  "restockd/internal/models"
)

type Client struct {
  config Config
  deps   Dependencies
}

type Config struct {
  ChatId int64 `validate:"required"`
}

func (c *Config) Validate() error {
  return validator.New().Struct(c)
}

type Dependencies struct {
  Telegram *telegram.Bot `validate:"required"`
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
  return "telegram"
}

// Announce sends the stock message to the configured chat.
func (c *Client) Announce(ctx context.Context, product models.Product) error {
  sent, err := c.deps.Telegram.SendMessage(ctx, &telegram.SendMessageParams{
    ChatID: c.config.ChatId,
    Text:   product.StockMessage(),
  })
  if err != nil {
    return fmt.Errorf("c.deps.Telegram.SendMessage: %w", err)
  }

  log.
    WithFields(log.Fields{
      "product.key":     product.Key,
      "message.sent_id": sent.ID,
      "message.chat_id": c.config.ChatId,
    }).
    Info("telegram notification sent")

  return nil
}
