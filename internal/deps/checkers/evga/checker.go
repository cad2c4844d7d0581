package evga

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

// EVGA serves this page with a 200 status when their backend falls over.
// Treat it as transient so an outage never reads as an in-stock signal.
const errorPageMarker = "There has been an error while requesting your page"

const outOfStockMarker = "out of stock"

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
    Debug("evga availability check started")

  resp, err := c.deps.Scraping.Fetch(ctx, url, nil)
  if err != nil {
    return nil, fmt.Errorf("c.deps.Scraping.Fetch: %w", err)
  }

  body := resp.String()

  if strings.Contains(body, errorPageMarker) {
    return nil, fmt.Errorf("evga error page: %w", scraping.ErrProviderErrorPage)
  }

  selector, err := product.Selector()
  if err != nil {
    return nil, fmt.Errorf("product.Selector: %w: %w", scraping.ErrParseFailed, err)
  }

  doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
  if err != nil {
    return nil, fmt.Errorf("goquery.NewDocumentFromReader: %w: %w", scraping.ErrParseFailed, err)
  }

  selected := doc.Find(selector)

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

  log.
    WithFields(log.Fields{
      "product.key": product.Key,
      "product.url": url,
    }).
    Debug("evga product found in stock")

  return &product, nil
}
