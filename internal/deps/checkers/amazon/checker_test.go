package amazon

import (
  "bytes"
  "compress/gzip"
  "context"
  "net/http"
  "net/http/httptest"
  "testing"

  "github.com/go-resty/resty/v2"
  "github.com/stretchr/testify/require"

  "restockd/internal/models"
  "restockd/internal/scraping"
)

func newChecker(t *testing.T) *Checker {
  t.Helper()

  client, err := scraping.NewClient(scraping.Config{}, scraping.Dependencies{Client: resty.New()})
  require.NoError(t, err)

  return NewChecker(Dependencies{Scraping: client})
}

func serveGzipped(t *testing.T, body string) *httptest.Server {
  t.Helper()

  var compressed bytes.Buffer

  writer := gzip.NewWriter(&compressed)
  _, err := writer.Write([]byte(body))
  require.NoError(t, err)
  require.NoError(t, writer.Close())

  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    _, _ = w.Write(compressed.Bytes())
  }))
  t.Cleanup(server.Close)

  return server
}

func testProduct(page string) models.Product {
  return models.Product{
    Key:     models.ProviderKeyAmazon,
    Name:    "RTX 3080",
    PageURL: page,
    Active:  true,
  }
}

func TestIsAvailable(t *testing.T) {
  t.Run("in stock listing", func(t *testing.T) {
    server := serveGzipped(t, `<html><body><span id="submit.add-to-cart">Add to Cart</span></body></html>`)

    found, err := newChecker(t).IsAvailable(context.Background(), testProduct(server.URL))
    require.NoError(t, err)
    require.Equal(t, models.ProviderKeyAmazon, found.Key)
  })

  t.Run("currently unavailable listing", func(t *testing.T) {
    server := serveGzipped(t, `<html><body><span class="a-color-price">Currently unavailable.</span></body></html>`)

    _, err := newChecker(t).IsAvailable(context.Background(), testProduct(server.URL))
    require.ErrorIs(t, err, scraping.ErrNotFound)
  })

  t.Run("third party sellers only", func(t *testing.T) {
    server := serveGzipped(t, `<html><body>Available from <a href="/offers">these sellers</a></body></html>`)

    _, err := newChecker(t).IsAvailable(context.Background(), testProduct(server.URL))
    require.ErrorIs(t, err, scraping.ErrNotFound)
  })

  t.Run("uncompressed robot check reads as rate limit", func(t *testing.T) {
    server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
      w.Header().Set("Content-Type", "text/html;charset=UTF-8")
      _, _ = w.Write([]byte(`<html><body><p class="a-last">Sorry, we just need to make sure you're not a robot. For best results, please make sure your browser is accepting cookies.</p></body></html>`))
    }))
    defer server.Close()

    _, err := newChecker(t).IsAvailable(context.Background(), testProduct(server.URL))
    require.True(t, scraping.IsRateLimited(err))
  })

  t.Run("undecodable body without robot marker fails parse", func(t *testing.T) {
    server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
      _, _ = w.Write([]byte("plain text, not gzip"))
    }))
    defer server.Close()

    _, err := newChecker(t).IsAvailable(context.Background(), testProduct(server.URL))
    require.ErrorIs(t, err, scraping.ErrParseFailed)
    require.False(t, scraping.IsRateLimited(err))
  })
}
