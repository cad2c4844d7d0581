package mail

import (
  "context"
  "fmt"
  "strings"

  set "github.com/deckarep/golang-set/v2"
  "github.com/emersion/go-imap"
  imapclient "github.com/emersion/go-imap/client"
  "github.com/go-playground/validator/v10"
  log "github.com/sirupsen/logrus"
  "restockd/internal/models"
  "restockd/internal/state"
)

const (
  mailboxName = "INBOX"

  // Retailers announce restocks by mail; only the most recent envelopes
  // matter, older ones are behind the watermark anyway.
  fetchWindow = 50
)

// Subject keywords that turn an inbound message into a provider signal.
var subjectKeywords = map[string]models.ProviderKey{
  "evga":   models.ProviderKeyEvga,
  "newegg": models.ProviderKeyNewegg,
}

type Client struct {
  config Config
}

type Config struct {
  Host     string `validate:"required"`
  Port     string
  Username string `validate:"required"`
  Password string `validate:"required"`
}

func (c *Config) Validate() error {
  return validator.New().Struct(c)
}

func NewClient(config Config) (*Client, error) {
  if err := config.Validate(); err != nil {
    return nil, fmt.Errorf("invalid config: %w", err)
  }

  if config.Port == "" {
    config.Port = "993"
  }

  return &Client{config: config}, nil
}

// FetchSignals connects to the mailbox, inspects the newest envelopes and
// returns mail-only placeholder products for every provider with a message
// newer than its watermark. Watermarks advance on observation, before any
// notification is attempted.
func (c *Client) FetchSignals(ctx context.Context, watermarks *state.Watermarks) (set.Set[models.Product], error) {
  signals := set.NewSet[models.Product]()

  session, err := imapclient.DialTLS(c.config.Host+":"+c.config.Port, nil)
  if err != nil {
    return nil, fmt.Errorf("imapclient.DialTLS: %w", err)
  }

  defer func() {
    if err := session.Logout(); err != nil {
      log.Errorf("mail: session.Logout: %v", err)
    }
  }()

  if err = session.Login(c.config.Username, c.config.Password); err != nil {
    return nil, fmt.Errorf("session.Login: %w", err)
  }

  mailbox, err := session.Select(mailboxName, true)
  if err != nil {
    return nil, fmt.Errorf("session.Select: %w", err)
  }

  if mailbox.Messages == 0 {
    return signals, nil
  }

  from := uint32(1)
  if mailbox.Messages > fetchWindow {
    from = mailbox.Messages - fetchWindow + 1
  }

  seqSet := new(imap.SeqSet)
  seqSet.AddRange(from, mailbox.Messages)

  messages := make(chan *imap.Message, fetchWindow)
  done := make(chan error, 1)

  go func() {
    done <- session.Fetch(seqSet,
      []imap.FetchItem{imap.FetchEnvelope, imap.FetchInternalDate},
      messages)
  }()

  for message := range messages {
    select {
    case <-ctx.Done():
      return nil, ctx.Err()
    default:
    }

    c.handleMessage(message, watermarks, signals)
  }

  if err = <-done; err != nil {
    return nil, fmt.Errorf("session.Fetch: %w", err)
  }

  return signals, nil
}

func (c *Client) handleMessage(message *imap.Message, watermarks *state.Watermarks, signals set.Set[models.Product]) {
  if message == nil || message.Envelope == nil {
    return
  }

  subject := strings.ToLower(message.Envelope.Subject)

  for keyword, key := range subjectKeywords {
    if !strings.Contains(subject, keyword) {
      continue
    }

    if !watermarks.Advance(key, message.InternalDate) {
      continue
    }

    log.
      WithFields(log.Fields{
        "provider.key":  key,
        "message.date":  message.InternalDate,
      }).
      Info("restock signal observed in mailbox")

    signals.Add(models.NewMailPlaceholder(key))
  }
}
