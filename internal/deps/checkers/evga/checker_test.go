package evga

import (
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

func serve(t *testing.T, body string) *httptest.Server {
  t.Helper()

  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    _, _ = w.Write([]byte(body))
  }))
  t.Cleanup(server.Close)

  return server
}

func testProduct(page string) models.Product {
  return models.Product{
    Key:         models.ProviderKeyEvga,
    Name:        "RTX 3080",
    PageURL:     page,
    CSSSelector: "#LFrame_pnlOutOfStock",
    Active:      true,
  }
}

func TestIsAvailable(t *testing.T) {
  t.Run("sold out marker element", func(t *testing.T) {
    server := serve(t, `<html><body>
      <div id="LFrame_pnlOutOfStock"><span>Out of Stock</span></div>
    </body></html>`)

    _, err := newChecker(t).IsAvailable(context.Background(), testProduct(server.URL))
    require.ErrorIs(t, err, scraping.ErrNotFound)
  })

  t.Run("marker element absent reads as available", func(t *testing.T) {
    server := serve(t, `<html><body><button>Add to Cart</button></body></html>`)

    found, err := newChecker(t).IsAvailable(context.Background(), testProduct(server.URL))
    require.NoError(t, err)
    require.Equal(t, models.ProviderKeyEvga, found.Key)
  })

  t.Run("marker element without sold out text reads as available", func(t *testing.T) {
    server := serve(t, `<html><body>
      <div id="LFrame_pnlOutOfStock"><span>Ships in 2 days</span></div>
    </body></html>`)

    _, err := newChecker(t).IsAvailable(context.Background(), testProduct(server.URL))
    require.NoError(t, err)
  })

  t.Run("error page never reads as stock", func(t *testing.T) {
    server := serve(t, `<html><body>
      There has been an error while requesting your page
    </body></html>`)

    _, err := newChecker(t).IsAvailable(context.Background(), testProduct(server.URL))
    require.ErrorIs(t, err, scraping.ErrProviderErrorPage)
    require.False(t, scraping.IsNotFound(err))
  })

  t.Run("missing selector fails parse", func(t *testing.T) {
    server := serve(t, `<html><body></body></html>`)

    product := testProduct(server.URL)
    product.CSSSelector = ""

    _, err := newChecker(t).IsAvailable(context.Background(), product)
    require.ErrorIs(t, err, models.ErrNoSelector)
    require.True(t, scraping.IsNotFound(err))
  })
}
