package bestbuy

import (
  "context"
  "fmt"
  "regexp"

  log "github.com/sirupsen/logrus"
  "restockd/internal/models"
  "restockd/internal/scraping"
)

// The fulfillment block around the button keeps this from matching other
// "Sold Out" occurrences elsewhere on the page.
var regexSoldOutButton = regexp.MustCompile(`(?i)<div class="fulfillment.+Sold Out</button></div></div>`)

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
    Debug("bestbuy availability check started")

  resp, err := c.deps.Scraping.Fetch(ctx, url, nil)
  if err != nil {
    return nil, fmt.Errorf("c.deps.Scraping.Fetch: %w", err)
  }

  if regexSoldOutButton.MatchString(resp.String()) {
    return nil, scraping.ErrNotFound
  }

  log.
    WithFields(log.Fields{
      "product.key": product.Key,
      "product.url": url,
    }).
    Debug("bestbuy product found in stock")

  return &product, nil
}
