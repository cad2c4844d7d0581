package scraping

import (
  "context"
  "fmt"
  "net/http"
  "time"

  "github.com/go-playground/validator/v10"
  "github.com/go-resty/resty/v2"
)

// Retailer hosts refuse connections without a browser-like agent.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:80.0) Gecko/20100101 Firefox/80.0"

const DefaultTimeout = 20 * time.Second

type Client struct {
  config Config
  deps   Dependencies
}

type Config struct {
  ProxyURL string
  Timeout  time.Duration
}

type Dependencies struct {
  Client *resty.Client `validate:"required"`
}

func (d *Dependencies) Validate() error {
  return validator.New().Struct(d)
}

func NewClient(config Config, deps Dependencies) (*Client, error) {
  if err := deps.Validate(); err != nil {
    return nil, fmt.Errorf("invalid dependencies: %w", err)
  }

  if config.Timeout <= 0 {
    config.Timeout = DefaultTimeout
  }

  deps.Client.
    SetHeader("User-Agent", browserUserAgent).
    SetTimeout(config.Timeout)

  if config.ProxyURL != "" {
    deps.Client.SetProxy(config.ProxyURL)
  }

  return &Client{
    config: config,
    deps:   deps,
  }, nil
}

// Fetch issues a GET and classifies the status before handing the response
// to a provider body inspector. Gzip is negotiated transparently by the
// transport; pass an Accept-Encoding header to receive the raw compressed
// body instead (the amazon checker does its own decoding).
func (c *Client) Fetch(ctx context.Context, url string, headers map[string]string) (*resty.Response, error) {
  req := c.deps.Client.R().SetContext(ctx)

  for key, value := range headers {
    req.SetHeader(key, value)
  }

  resp, err := req.Get(url)
  if err != nil {
    return nil, fmt.Errorf("req.Get: %w", err)
  }

  if err = ClassifyStatus(resp.StatusCode()); err != nil {
    return resp, err
  }

  return resp, nil
}

// ClassifyStatus maps an HTTP status onto the protocol error taxonomy:
// 429 is a rate-limit signal, any other non-2xx is a classified StatusError.
func ClassifyStatus(code int) error {
  switch {
  case code == http.StatusTooManyRequests:
    return ErrRateLimited

  case code >= 200 && code < 300:
    return nil

  default:
    return &StatusError{Code: code}
  }
}
