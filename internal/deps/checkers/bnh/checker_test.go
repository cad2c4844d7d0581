package bnh

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
    Key:     models.ProviderKeyBnH,
    Name:    "RTX 3080",
    PageURL: page,
    Active:  true,
  }
}

func TestIsAvailable(t *testing.T) {
  t.Run("both notify flags off reads as available", func(t *testing.T) {
    server := serve(t, `<script>{"showNotifyWhenAvailable": false, "showNotifyWhenInStock": false}</script>`)

    found, err := newChecker(t).IsAvailable(context.Background(), testProduct(server.URL))
    require.NoError(t, err)
    require.Equal(t, models.ProviderKeyBnH, found.Key)
  })

  t.Run("notify when available offered", func(t *testing.T) {
    server := serve(t, `<script>{"showNotifyWhenAvailable": true, "showNotifyWhenInStock": false}</script>`)

    _, err := newChecker(t).IsAvailable(context.Background(), testProduct(server.URL))
    require.ErrorIs(t, err, scraping.ErrNotFound)
  })

  t.Run("flags missing entirely", func(t *testing.T) {
    server := serve(t, `<html><body>product page</body></html>`)

    _, err := newChecker(t).IsAvailable(context.Background(), testProduct(server.URL))
    require.ErrorIs(t, err, scraping.ErrNotFound)
  })
}
