package browser

import (
  "context"
  "errors"
  "fmt"

  "github.com/pkg/browser"
  log "github.com/sirupsen/logrus"
  "restockd/internal/models"
)

// Client opens a discovered product's page in the local default browser.
type Client struct{}

func NewClient() *Client {
  return &Client{}
}

func (c *Client) Name() string {
  return "browser"
}

func (c *Client) Announce(_ context.Context, product models.Product) error {
  url, err := product.URL()
  if err != nil {
    // Mail placeholders carry no page: nothing to open.
    if errors.Is(err, models.ErrNoPage) {
      return nil
    }
    return fmt.Errorf("product.URL: %w", err)
  }

  if err = browser.OpenURL(url); err != nil {
    return fmt.Errorf("browser.OpenURL: %w", err)
  }

  log.
    WithFields(log.Fields{
      "product.key": product.Key,
      "product.url": url,
    }).
    Info("product page opened in browser")

  return nil
}
