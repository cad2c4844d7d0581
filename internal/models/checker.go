package models

import "context"

// Checker is the per-provider availability capability. Implementations turn
// an HTTP response into a verdict: the product on success, scraping.ErrNotFound
// while still out of stock, or a classified protocol error.
type Checker interface {
  IsAvailable(ctx context.Context, product Product) (*Product, error)
}
