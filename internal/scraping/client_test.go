package scraping

import (
  "context"
  "errors"
  "net/http"
  "net/http/httptest"
  "testing"

  "github.com/go-resty/resty/v2"
  "github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
  t.Helper()

  client, err := NewClient(Config{}, Dependencies{Client: resty.New()})
  require.NoError(t, err)

  return client
}

func TestClassifyStatus(t *testing.T) {
  require.NoError(t, ClassifyStatus(http.StatusOK))
  require.NoError(t, ClassifyStatus(http.StatusNoContent))

  require.ErrorIs(t, ClassifyStatus(http.StatusTooManyRequests), ErrRateLimited)

  err := ClassifyStatus(http.StatusServiceUnavailable)

  statusErr := new(StatusError)
  require.ErrorAs(t, err, &statusErr)
  require.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
  require.Equal(t, StatusClassServer, statusErr.Class())

  err = ClassifyStatus(http.StatusNotFound)
  require.ErrorAs(t, err, &statusErr)
  require.Equal(t, StatusClassClient, statusErr.Class())
}

func TestFetch(t *testing.T) {
  t.Run("ok response returns body", func(t *testing.T) {
    server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
      _, _ = w.Write([]byte("<html>payload</html>"))
    }))
    defer server.Close()

    resp, err := newTestClient(t).Fetch(context.Background(), server.URL, nil)
    require.NoError(t, err)
    require.Equal(t, "<html>payload</html>", resp.String())
  })

  t.Run("429 maps to rate limit", func(t *testing.T) {
    server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
      w.WriteHeader(http.StatusTooManyRequests)
    }))
    defer server.Close()

    _, err := newTestClient(t).Fetch(context.Background(), server.URL, nil)
    require.ErrorIs(t, err, ErrRateLimited)
    require.True(t, IsRateLimited(err))
  })

  t.Run("browser agent and extra headers are sent", func(t *testing.T) {
    var gotAgent, gotEncoding string

    server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
      gotAgent = r.Header.Get("User-Agent")
      gotEncoding = r.Header.Get("Accept-Encoding")
    }))
    defer server.Close()

    _, err := newTestClient(t).Fetch(context.Background(), server.URL,
      map[string]string{"Accept-Encoding": "gzip"})
    require.NoError(t, err)

    require.Equal(t, browserUserAgent, gotAgent)
    require.Equal(t, "gzip", gotEncoding)
  })
}

func TestErrorTaxonomy(t *testing.T) {
  require.True(t, IsNotFound(ErrNotFound))
  require.True(t, IsNotFound(ErrParseFailed))
  require.False(t, IsNotFound(ErrRateLimited))
  require.False(t, IsNotFound(errors.New("boom")))

  require.True(t, IsRateLimited(ErrRateLimited))
  require.False(t, IsRateLimited(ErrNotFound))
}
