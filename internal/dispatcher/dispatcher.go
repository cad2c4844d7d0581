package dispatcher

import (
  "context"
  "time"

  set "github.com/deckarep/golang-set/v2"
  "github.com/google/uuid"
  log "github.com/sirupsen/logrus"
  "restockd/internal/models"
  "restockd/internal/scraping"
  "restockd/internal/state"
  "restockd/pkg/sampling"
  "restockd/pkg/worker"
)

const DefaultBackoff = 5 * time.Minute

type Dispatcher struct {
  config Config
  deps   Dependencies
}

type Config struct {
  // Backoff is how long a provider stays excluded after a rate-limit signal.
  Backoff time.Duration
  Workers uint8
}

type Dependencies struct {
  Checkers   map[models.ProviderKey]models.Checker
  Ratelimits *state.RateLimitTable
  Random     sampling.Source

  // OnRateLimited, when set, is invoked after a provider gets backed off.
  // Hook point for external remediation such as recycling a proxy circuit.
  OnRateLimited func(key models.ProviderKey, until time.Time)
}

func NewDispatcher(config Config, deps Dependencies) *Dispatcher {
  if config.Backoff <= 0 {
    config.Backoff = DefaultBackoff
  }
  if config.Workers == 0 {
    config.Workers = worker.DefaultCount
  }

  return &Dispatcher{
    config: config,
    deps:   deps,
  }
}

type checkResult struct {
  product models.Product
  found   *models.Product
  err     error
}

// PollAll runs one polling cycle: it fans availability checks out over the
// active, non-rate-limited subset of the catalog, waits for every check to
// resolve, and returns the set of products discovered available. A single
// check failing never aborts the cycle.
func (d *Dispatcher) PollAll(ctx context.Context, products []models.Product) set.Set[models.Product] {
  cycleId := uuid.NewString()
  now := time.Now()

  batch := d.filterBatch(products, now)

  log.
    WithFields(log.Fields{
      "cycle.id":       cycleId,
      "cycle.catalog":  len(products),
      "cycle.batch":    len(batch),
    }).
    Info("polling cycle started")

  // Checks only read shared state; results are merged below by this
  // goroutine alone, so the buffered channel is the only coordination.
  results := make(chan checkResult, len(batch))

  pool := worker.NewPool(ctx, d.config.Workers)

  for _, product := range batch {
    product := product
    checker := d.deps.Checkers[product.Key]

    pool.Push(func(ctx context.Context) error {
      found, err := checker.IsAvailable(ctx, product)

      results <- checkResult{
        product: product,
        found:   found,
        err:     err,
      }

      return nil
    })
  }

  pool.StopWait()
  close(results)

  found := set.NewSet[models.Product]()
  checked := make(map[models.ProviderKey]int)

  for res := range results {
    d.mergeResult(res, found, checked, now)
  }

  log.
    WithFields(log.Fields{
      "cycle.id":      cycleId,
      "cycle.checked": checked,
      "cycle.found":   found.Cardinality(),
    }).
    Info("polling cycle completed")

  return found
}

func (d *Dispatcher) filterBatch(products []models.Product, now time.Time) []models.Product {
  batch := make([]models.Product, 0, len(products))

  for _, product := range products {
    if !product.HasDetails() {
      continue
    }

    if _, ok := d.deps.Checkers[product.Key]; !ok {
      log.
        WithField("product.key", product.Key).
        Warn("no checker registered for product: skipped")

      continue
    }

    if d.deps.Ratelimits.Limited(product.Key, now) {
      log.
        WithField("product.key", product.Key).
        Debug("provider rate limited: product skipped this cycle")

      continue
    }

    if !product.IsActive(d.deps.Random) {
      continue
    }

    batch = append(batch, product)
  }

  return batch
}

func (d *Dispatcher) mergeResult(res checkResult, found set.Set[models.Product], checked map[models.ProviderKey]int, now time.Time) {
  switch {
  case res.err == nil:
    checked[res.product.Key]++

    if !found.Add(*res.found) {
      // The catalog should never carry two literally identical entries.
      log.
        WithFields(log.Fields{
          "product.key": res.product.Key,
          "product.url": res.product.PageURL,
        }).
        Warn("duplicate product discovered within one cycle")
    }

  case scraping.IsRateLimited(res.err):
    until := now.Add(d.config.Backoff)

    d.deps.Ratelimits.Limit(res.product.Key, until)

    log.
      WithFields(log.Fields{
        "product.key":     res.product.Key,
        "backoff.until":   until,
      }).
      Warn("provider rate limited: backoff recorded")

    if d.deps.OnRateLimited != nil {
      d.deps.OnRateLimited(res.product.Key, until)
    }

  case scraping.IsNotFound(res.err):
    checked[res.product.Key]++

  default:
    log.
      WithFields(log.Fields{
        "product.key": res.product.Key,
        "product.url": res.product.PageURL,
      }).
      Errorf("availability check failed: %v", res.err)
  }
}
