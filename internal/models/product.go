package models

import (
  "errors"
  "fmt"

  "restockd/pkg/sampling"
)

const (
  ProviderKeyUnknown ProviderKey = "unknown"
  ProviderKeyEvga    ProviderKey = "evga"
  ProviderKeyNewegg  ProviderKey = "newegg"
  ProviderKeyBestBuy ProviderKey = "bestbuy"
  ProviderKeyNvidia  ProviderKey = "nvidia"
  ProviderKeyBnH     ProviderKey = "bnh"
  ProviderKeyAmazon  ProviderKey = "amazon"
  ProviderKeyGeneric ProviderKey = "generic"
)

type ProviderKey = string

var (
  ErrNoPage     = errors.New("product has no page url")
  ErrNoSelector = errors.New("product has no css selector")
)

// defaultActiveChance yields probability 1.0 in IsActive, so products
// without an explicit chance are polled every cycle.
const defaultActiveChance = 10

// Product is a value type: two products are equal iff the provider key and
// every detail field match. Keep all fields comparable so products can live
// in a golang-set within a polling cycle. Construction goes through
// FromConfigKey or NewMailPlaceholder; the config package owns the JSON
// representation.
type Product struct {
  Key          ProviderKey
  Name         string
  PageURL      string
  CSSSelector  string
  Active       bool
  ActiveChance int
}

// NewMailPlaceholder builds the detail-less product variant that mail signals
// produce: it carries a provider key only, so URL() fails with ErrNoPage.
func NewMailPlaceholder(key ProviderKey) Product {
  return Product{
    Key:          key,
    Active:       true,
    ActiveChance: defaultActiveChance,
  }
}

// FromConfigKey maps a config product_key onto a Product. The rtx-suffixed
// keys build full products for the same provider bucket, while the bare
// evga/newegg keys build mail-only placeholders.
func FromConfigKey(key string, name string, page string) (Product, bool) {
  switch key {
  case "evgartx":
    return newDetailedProduct(ProviderKeyEvga, name, page), true
  case "neweggrtx":
    return newDetailedProduct(ProviderKeyNewegg, name, page), true
  case "evga":
    return NewMailPlaceholder(ProviderKeyEvga), true
  case "newegg":
    return NewMailPlaceholder(ProviderKeyNewegg), true
  case ProviderKeyBestBuy, ProviderKeyNvidia, ProviderKeyBnH, ProviderKeyAmazon, ProviderKeyGeneric:
    return newDetailedProduct(key, name, page), true
  }

  return Product{}, false
}

func newDetailedProduct(key ProviderKey, name string, page string) Product {
  return Product{
    Key:          key,
    Name:         name,
    PageURL:      page,
    Active:       true,
    ActiveChance: defaultActiveChance,
  }
}

func (p Product) HasDetails() bool {
  return p.PageURL != ""
}

// IsActive applies the sampling filter: the active flag gates hard, the
// chance spreads polling load across cycles. Chance is divided by ten and
// clamped to [0, 1], so the default of 10 always passes.
func (p Product) IsActive(src sampling.Source) bool {
  if !p.Active {
    return false
  }

  probability := float64(p.ActiveChance) / 10

  return src.Hit(probability)
}

func (p Product) URL() (string, error) {
  if !p.HasDetails() {
    return "", fmt.Errorf("%w: key: %s", ErrNoPage, p.Key)
  }
  return p.PageURL, nil
}

func (p Product) Selector() (string, error) {
  if p.CSSSelector == "" {
    return "", fmt.Errorf("%w: key: %s", ErrNoSelector, p.Key)
  }
  return p.CSSSelector, nil
}

// StockMessage is the notification text delivered to subscribers.
func (p Product) StockMessage() string {
  if !p.HasDetails() {
    switch p.Key {
    case ProviderKeyEvga:
      return "EVGA has new products!"
    case ProviderKeyNewegg:
      return "NewEgg has new products!"
    }
    return fmt.Sprintf("%s has new products!", p.Key)
  }

  switch p.Key {
  case ProviderKeyEvga:
    return fmt.Sprintf("EVGA has new %s for sale at %s", p.Name, p.PageURL)
  case ProviderKeyNewegg:
    return fmt.Sprintf("NewEgg has new %s for sale at %s", p.Name, p.PageURL)
  case ProviderKeyBestBuy:
    return fmt.Sprintf("Bestbuy has %s for sale at %s", p.Name, p.PageURL)
  case ProviderKeyNvidia:
    return fmt.Sprintf("Nvidia has %s for sale at %s", p.Name, p.PageURL)
  case ProviderKeyBnH:
    return fmt.Sprintf("BnH has %s for sale at %s", p.Name, p.PageURL)
  case ProviderKeyAmazon:
    return fmt.Sprintf("Amazon has %s for sale at %s", p.Name, p.PageURL)
  }

  return fmt.Sprintf("%s has %s for sale at %s", p.Key, p.Name, p.PageURL)
}
