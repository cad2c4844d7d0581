package twilio

import (
  "context"
  "fmt"

  "github.com/go-playground/validator/v10"
  log "github.com/sirupsen/logrus"
  twilioclient "github.com/twilio/twilio-go"
  twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
  "restockd/internal/models"
)

type Client struct {
  config Config
  deps   Dependencies
}

type Config struct {
  FromPhoneNumber string `validate:"required"`
}

func (c *Config) Validate() error {
  return validator.New().Struct(c)
}

type Dependencies struct {
  Twilio *twilioclient.RestClient `validate:"required"`
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

// Send delivers the product's stock message to a single subscriber as SMS.
func (c *Client) Send(ctx context.Context, product models.Product, subscriber models.Subscriber) error {
  message := product.StockMessage()

  params := new(twilioapi.CreateMessageParams)
  params.SetFrom(c.config.FromPhoneNumber)
  params.SetTo(subscriber.ToPhoneNumber)
  params.SetBody(message)

  if _, err := c.deps.Twilio.Api.CreateMessage(params); err != nil {
    return fmt.Errorf("c.deps.Twilio.Api.CreateMessage: %w", err)
  }

  log.
    WithFields(log.Fields{
      "product.key":   product.Key,
      "subscriber.to": subscriber.ToPhoneNumber,
    }).
    Info("sms notification sent")

  return nil
}
