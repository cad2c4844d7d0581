package notifier

import (
  "context"
  "time"

  set "github.com/deckarep/golang-set/v2"
  log "github.com/sirupsen/logrus"
  "restockd/internal/models"
  "restockd/internal/state"
)

// SubscriberSender is the cooldown-gated, subscriber-addressed channel (SMS).
type SubscriberSender interface {
  Send(ctx context.Context, product models.Product, subscriber models.Subscriber) error
}

// Announcer channels (webhook, telegram, browser) fire once per discovered
// product per cycle, independent of the SMS cooldown.
type Announcer interface {
  Name() string
  Announce(ctx context.Context, product models.Product) error
}

type Notifier struct {
  deps Dependencies
}

type Dependencies struct {
  Cadence *state.Cadence

  // SMS may be nil when no credentials are configured.
  SMS        SubscriberSender
  Announcers []Announcer
}

func NewNotifier(deps Dependencies) *Notifier {
  return &Notifier{deps: deps}
}

// Process delivers notifications for the products discovered this cycle.
// Announcer channels run unconditionally; the SMS batch is gated by the
// global cadence and only a successful delivery advances it, so a failed
// batch does not consume the cooldown window.
func (c *Notifier) Process(ctx context.Context, discovered set.Set[models.Product], subscribers []models.Subscriber) {
  if discovered.Cardinality() == 0 {
    return
  }

  products := discovered.ToSlice()

  for _, product := range products {
    c.announce(ctx, product)
  }

  if c.deps.SMS == nil {
    return
  }

  if !c.deps.Cadence.ShouldNotify(time.Now()) {
    log.
      WithField("cadence.last_sent", c.deps.Cadence.LastSent()).
      Info("notification cooldown active: sms batch skipped")

    return
  }

  sent := 0

  for _, product := range products {
    sent += c.sendToSubscribers(ctx, product, subscribers)
  }

  if sent > 0 {
    c.deps.Cadence.MarkSent(time.Now())
  }
}

func (c *Notifier) announce(ctx context.Context, product models.Product) {
  for _, announcer := range c.deps.Announcers {
    if err := announcer.Announce(ctx, product); err != nil {
      log.
        WithFields(log.Fields{
          "channel":     announcer.Name(),
          "product.key": product.Key,
        }).
        Errorf("announce failed: %v", err)
    }
  }
}

// sendToSubscribers attempts delivery to every matching subscriber: one
// failure never blocks the remaining deliveries for the same product.
func (c *Notifier) sendToSubscribers(ctx context.Context, product models.Product, subscribers []models.Subscriber) int {
  sent := 0

  for _, subscriber := range subscribers {
    if !subscriber.Matches(product.Key) {
      continue
    }

    if err := c.deps.SMS.Send(ctx, product, subscriber); err != nil {
      log.
        WithFields(log.Fields{
          "product.key":   product.Key,
          "subscriber.to": subscriber.ToPhoneNumber,
        }).
        Errorf("sms delivery failed: %v", err)

      continue
    }

    sent++
  }

  return sent
}
