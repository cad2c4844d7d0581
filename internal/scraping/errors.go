package scraping

import (
  "errors"
  "fmt"
)

var (
  // ErrRateLimited means the provider soft-blocked us: back off before retrying.
  ErrRateLimited = errors.New("rate limited by provider")

  // ErrNotFound is the benign steady-state verdict: still out of stock.
  ErrNotFound = errors.New("product not found in stock")

  // ErrParseFailed means a selector or body pattern did not match the page.
  ErrParseFailed = errors.New("response body parse failed")

  // ErrProviderErrorPage marks a known error page served with a 2xx status.
  // Transient like a server error, never a stock verdict.
  ErrProviderErrorPage = errors.New("provider returned an error page")
)

type StatusClass string

const (
  StatusClassServer StatusClass = "server_error"
  StatusClassClient StatusClass = "client_error"
  StatusClassBad    StatusClass = "bad_status"
)

type StatusError struct {
  Code int
}

func (e *StatusError) Error() string {
  return fmt.Sprintf("%s: http status %d", e.Class(), e.Code)
}

func (e *StatusError) Class() StatusClass {
  switch {
  case e.Code >= 500:
    return StatusClassServer
  case e.Code >= 400:
    return StatusClassClient
  default:
    return StatusClassBad
  }
}

func IsRateLimited(err error) bool {
  return errors.Is(err, ErrRateLimited)
}

func IsNotFound(err error) bool {
  return errors.Is(err, ErrNotFound) || errors.Is(err, ErrParseFailed)
}
