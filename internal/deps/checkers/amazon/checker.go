package amazon

import (
  "bytes"
  "compress/gzip"
  "context"
  "fmt"
  "io"
  "regexp"
  "strings"

  log "github.com/sirupsen/logrus"
  "restockd/internal/models"
  "restockd/internal/scraping"
)

const (
  unavailableMarker = "Currently unavailable.</span>"
  robotCheckMarker  = `<p class="a-last">Sorry, we just need to make sure you're not a robot. For best results, please make sure your browser is accepting cookies.</p>`
)

// A listing offered only through third-party sellers is not a restock.
var regexOtherSellers = regexp.MustCompile(`(?i)Available from .+these sellers</a>`)

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
    Debug("amazon availability check started")

  // Request gzip explicitly and decode by hand: the robot-check
  // interstitial comes back uncompressed, and telling it apart from a
  // decode failure is how the rate limit is detected.
  resp, err := c.deps.Scraping.Fetch(ctx, url, map[string]string{
    "Accept-Encoding": "gzip",
  })
  if err != nil {
    return nil, fmt.Errorf("c.deps.Scraping.Fetch: %w", err)
  }

  body, err := decodeGzip(resp.Body())
  if err != nil {
    contentType := resp.Header().Get("Content-Type")

    if strings.HasPrefix(contentType, "text/html") &&
      strings.Contains(string(resp.Body()), robotCheckMarker) {
      return nil, fmt.Errorf("amazon robot check: %w", scraping.ErrRateLimited)
    }

    return nil, fmt.Errorf("decodeGzip: %w: %w", scraping.ErrParseFailed, err)
  }

  if strings.Contains(body, unavailableMarker) || regexOtherSellers.MatchString(body) {
    return nil, scraping.ErrNotFound
  }

  log.
    WithFields(log.Fields{
      "product.key": product.Key,
      "product.url": url,
    }).
    Debug("amazon product found in stock")

  return &product, nil
}

func decodeGzip(raw []byte) (string, error) {
  reader, err := gzip.NewReader(bytes.NewReader(raw))
  if err != nil {
    return "", fmt.Errorf("gzip.NewReader: %w", err)
  }
  defer reader.Close()

  decoded, err := io.ReadAll(reader)
  if err != nil {
    return "", fmt.Errorf("io.ReadAll: %w", err)
  }

  return string(decoded), nil
}
