package generic

import (
  "bytes"
  "context"
  "fmt"
  "strings"

  "github.com/PuerkitoBio/goquery"
  log "github.com/sirupsen/logrus"
  "restockd/internal/models"
  "restockd/internal/scraping"
  "restockd/pkg/stringer"
)

const outOfStockMarker = "out of stock"

// Checker implements the configured-selector strategy: any retailer page can
// be tracked with a css_selector pointing at its stock indicator element.
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

  selector, err := product.Selector()
  if err != nil {
    return nil, fmt.Errorf("product.Selector: %w: %w", scraping.ErrParseFailed, err)
  }

  log.
    WithFields(log.Fields{
      "product.key":      product.Key,
      "product.url":      url,
      "product.selector": selector,
    }).
    Debug("generic availability check started")

  resp, err := c.deps.Scraping.Fetch(ctx, url, nil)
  if err != nil {
    return nil, fmt.Errorf("c.deps.Scraping.Fetch: %w", err)
  }

  doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
  if err != nil {
    return nil, fmt.Errorf("goquery.NewDocumentFromReader: %w: %w", scraping.ErrParseFailed, err)
  }

  selected := doc.Find(selector)

  // Absence of the marker element, or the element no longer saying
  // "out of stock", both read as available.
  if selected.Length() != 0 {
    markup, err := selected.First().Html()
    if err != nil {
      return nil, fmt.Errorf("selected.First().Html: %w: %w", scraping.ErrParseFailed, err)
    }

    text := strings.ToLower(stringer.StripTags(markup))

    if strings.Contains(text, outOfStockMarker) {
      return nil, scraping.ErrNotFound
    }
  }

  return &product, nil
}
