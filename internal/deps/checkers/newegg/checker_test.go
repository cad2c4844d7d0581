package newegg

import (
  "context"
  "fmt"
  "net/http"
  "net/http/httptest"
  "sync/atomic"
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

// newStore emulates the two-request flow: the product page embeds a script
// tag pointing at the detail endpoint, whose body carries the instock flag.
func newStore(t *testing.T, detailBody string, pageHits *atomic.Int32) *httptest.Server {
  t.Helper()

  mux := http.NewServeMux()

  server := httptest.NewServer(mux)
  t.Cleanup(server.Close)

  mux.HandleFunc("/product", func(w http.ResponseWriter, r *http.Request) {
    if pageHits != nil {
      pageHits.Add(1)
    }

    page := fmt.Sprintf(`<html><head>
      <script type="text/javascript" src="%s/ItemInfo4.javascript.js"></script>
    </head><body></body></html>`, server.URL)

    _, _ = w.Write([]byte(page))
  })

  mux.HandleFunc("/ItemInfo4.javascript.js", func(w http.ResponseWriter, r *http.Request) {
    _, _ = w.Write([]byte(detailBody))
  })

  return server
}

func testProduct(page string) models.Product {
  return models.Product{
    Key:     models.ProviderKeyNewegg,
    Name:    "RTX 3080",
    PageURL: page,
    Active:  true,
  }
}

func TestIsAvailable(t *testing.T) {
  t.Run("instock flag set", func(t *testing.T) {
    server := newStore(t, `var rawItemInfo = {"instock":true,"price":699};`, nil)

    found, err := newChecker(t).IsAvailable(context.Background(), testProduct(server.URL+"/product"))
    require.NoError(t, err)
    require.Equal(t, models.ProviderKeyNewegg, found.Key)
  })

  t.Run("instock flag unset", func(t *testing.T) {
    server := newStore(t, `var rawItemInfo = {"instock":false,"price":699};`, nil)

    _, err := newChecker(t).IsAvailable(context.Background(), testProduct(server.URL+"/product"))
    require.ErrorIs(t, err, scraping.ErrNotFound)
  })

  t.Run("detail url memoized between cycles", func(t *testing.T) {
    var pageHits atomic.Int32

    server := newStore(t, `{"instock":true}`, &pageHits)

    checker := newChecker(t)
    product := testProduct(server.URL + "/product")

    _, err := checker.IsAvailable(context.Background(), product)
    require.NoError(t, err)

    _, err = checker.IsAvailable(context.Background(), product)
    require.NoError(t, err)

    require.Equal(t, int32(1), pageHits.Load())
  })

  t.Run("missing script tag fails parse", func(t *testing.T) {
    server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
      _, _ = w.Write([]byte(`<html><body>no scripts here</body></html>`))
    }))
    defer server.Close()

    _, err := newChecker(t).IsAvailable(context.Background(), testProduct(server.URL))
    require.True(t, scraping.IsNotFound(err))
  })
}
