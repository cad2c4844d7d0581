package nvidia

import (
  "context"
  "fmt"
  "strings"

  log "github.com/sirupsen/logrus"
  "restockd/internal/models"
  "restockd/internal/scraping"
)

// The storefront renders this exact fragment for an out-of-stock FE card.
const outOfStockHTML = `<div class="cta-button btn show-out-of-stock stock-grey-out" data-nvnotify-form-path="null" data-theme-override="null">Out Of Stock</div>`

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
    Debug("nvidia availability check started")

  resp, err := c.deps.Scraping.Fetch(ctx, url, nil)
  if err != nil {
    return nil, fmt.Errorf("c.deps.Scraping.Fetch: %w", err)
  }

  if strings.Contains(resp.String(), outOfStockHTML) {
    return nil, scraping.ErrNotFound
  }

  log.
    WithFields(log.Fields{
      "product.key": product.Key,
      "product.url": url,
    }).
    Debug("nvidia product found in stock")

  return &product, nil
}
