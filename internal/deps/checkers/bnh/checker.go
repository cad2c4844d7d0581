package bnh

import (
  "context"
  "fmt"

  log "github.com/sirupsen/logrus"
  "restockd/internal/models"
  "restockd/internal/scraping"
  "restockd/pkg/stringer"
)

// Low-confidence provider: the flag pair below tracks the embedded product
// JSON, but has not been verified against a live restock.
// TODO: confirm the flag semantics against a real B&H restock event.
const (
  notifyWhenAvailableFlag = `"showNotifyWhenAvailable": false`
  notifyWhenInStockFlag   = `"showNotifyWhenInStock": false`
)

type Checker struct {
  deps Dependencies
}

type Dependencies struct {
  Scraping *scraping.Client
}

func NewChecker(deps Dependencies) *Checker {
  return &Checker{deps: deps}
}

func (c *Checker) IsAvailable(ctx context.Context, product models.Product) (*models.Product, error) {
  url, err := product.URL()
  if err != nil {
    return nil, fmt.Errorf("product.URL: %w", err)
  }

  log.
    WithFields(log.Fields{
      "product.key": product.Key,
      "product.url": url,
    }).
    Debug("bnh availability check started")

  resp, err := c.deps.Scraping.Fetch(ctx, url, nil)
  if err != nil {
    return nil, fmt.Errorf("c.deps.Scraping.Fetch: %w", err)
  }

  if !stringer.ContainsStrings(resp.String(), notifyWhenAvailableFlag, notifyWhenInStockFlag) {
    return nil, scraping.ErrNotFound
  }

  log.
    WithFields(log.Fields{
      "product.key": product.Key,
      "product.url": url,
    }).
    Debug("bnh product found in stock")

  return &product, nil
}
