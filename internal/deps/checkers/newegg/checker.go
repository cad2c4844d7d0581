package newegg

import (
  "bytes"
  "context"
  "fmt"
  "strings"

  "github.com/antchfx/htmlquery"
  log "github.com/sirupsen/logrus"
  "golang.org/x/net/html"
  "restockd/internal/models"
  "restockd/internal/scraping"
  "restockd/pkg/cache"
)

// Newegg loads raw product data through a secondary javascript include.
// The page embeds a script tag whose src points at the ItemInfo4 endpoint;
// that endpoint's body carries the literal instock flag.
const (
  detailScriptXpath = `//script[@type="text/javascript" and contains(@src, "ItemInfo4")]`
  inStockToken      = `"instock":true`
)

type Checker struct {
  deps Dependencies

  // detail URLs rarely change between cycles, so they are memoized per page
  // to save the first request on subsequent polls.
  detailURLs *cache.Cache[string, string]
}

type Dependencies struct {
  Scraping *scraping.Client
}

func NewChecker(deps Dependencies) *Checker {
  return &Checker{
    deps:       deps,
    detailURLs: cache.NewCache[string, string](),
  }
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
    Debug("newegg availability check started")

  detailURL, ok := c.detailURLs.Get(url)
  if !ok {
    detailURL, err = c.findDetailURL(ctx, url)
    if err != nil {
      return nil, fmt.Errorf("c.findDetailURL: %w", err)
    }

    c.detailURLs.Set(url, detailURL)
  }

  detail, err := c.deps.Scraping.Fetch(ctx, detailURL, nil)
  if err != nil {
    // A stale memoized URL must not poison every following cycle.
    c.detailURLs.Delete(url)

    return nil, fmt.Errorf("c.deps.Scraping.Fetch: detail url: %w", err)
  }

  if !strings.Contains(detail.String(), inStockToken) {
    return nil, scraping.ErrNotFound
  }

  log.
    WithFields(log.Fields{
      "product.key": product.Key,
      "product.url": url,
    }).
    Debug("newegg product found in stock")

  return &product, nil
}

func (c *Checker) findDetailURL(ctx context.Context, url string) (string, error) {
  resp, err := c.deps.Scraping.Fetch(ctx, url, nil)
  if err != nil {
    return "", fmt.Errorf("c.deps.Scraping.Fetch: %w", err)
  }

  node, err := html.Parse(bytes.NewReader(resp.Body()))
  if err != nil {
    return "", fmt.Errorf("html.Parse: %w: %w", scraping.ErrParseFailed, err)
  }

  script := htmlquery.FindOne(node, detailScriptXpath)
  if script == nil {
    return "", fmt.Errorf("detail script tag not found: %w", scraping.ErrNotFound)
  }

  detailURL := htmlquery.SelectAttr(script, "src")
  if detailURL == "" {
    return "", fmt.Errorf("detail script src empty: %w", scraping.ErrParseFailed)
  }

  return detailURL, nil
}
