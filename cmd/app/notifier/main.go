package main

import (
  "context"
  "flag"
  "os"
  "os/signal"
  "syscall"
  "time"

  "github.com/go-resty/resty/v2"
  telegrambot "github.com/go-telegram/bot"
  "github.com/joho/godotenv"
  log "github.com/sirupsen/logrus"
  "github.com/spf13/cast"
  twilioclient "github.com/twilio/twilio-go"
  "restockd/internal/app/daemon"
  "restockd/internal/config"
  "restockd/internal/deps/checkers/amazon"
  "restockd/internal/deps/checkers/bestbuy"
  "restockd/internal/deps/checkers/bnh"
  "restockd/internal/deps/checkers/evga"
  "restockd/internal/deps/checkers/generic"
  "restockd/internal/deps/checkers/newegg"
  "restockd/internal/deps/checkers/nvidia"
  "restockd/internal/deps/mail"
  "restockd/internal/deps/notifiers/browser"
  "restockd/internal/deps/notifiers/telegram"
  "restockd/internal/deps/notifiers/twilio"
  "restockd/internal/deps/notifiers/webhook"
  "restockd/internal/dispatcher"
  "restockd/internal/models"
  "restockd/internal/notifier"
  "restockd/internal/scraping"
  "restockd/internal/state"
  "restockd/pkg/logger"
  "restockd/pkg/sampling"
)

var configPath string

func main() {
  ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
  defer cancel()

  _ = godotenv.Load()

  logger.Init()

  flag.StringVar(&configPath, "config", config.DefaultPath, "path to config file")
  flag.Parse()

  cfg, err := config.Load(configPath)
  if err != nil {
    log.Fatalf("config.Load: %v", err)
  }

  appCfg := cfg.ApplicationConfig

  scrapingClient, err := scraping.NewClient(
    scraping.Config{
      ProxyURL: appCfg.ProxyURL,
    },
    scraping.Dependencies{
      Client: resty.New(),
    })
  if err != nil {
    log.Fatalf("scraping.NewClient: %v", err)
  }

  ratelimits, watermarks, cadence := cfg.States(state.DefaultCooldown)

  dispatcherClient := dispatcher.NewDispatcher(
    dispatcher.Config{},
    dispatcher.Dependencies{
      Checkers:   buildCheckers(scrapingClient),
      Ratelimits: ratelimits,
      Random:     sampling.NewRandomSource(),
    })

  sms, err := buildSMS(appCfg)
  if err != nil {
    log.Fatalf("buildSMS: %v", err)
  }

  announcers, err := buildAnnouncers(appCfg)
  if err != nil {
    log.Fatalf("buildAnnouncers: %v", err)
  }

  mailClient, err := buildMail(appCfg)
  if err != nil {
    log.Fatalf("buildMail: %v", err)
  }

  notifierClient := notifier.NewNotifier(notifier.Dependencies{
    Cadence:    cadence,
    SMS:        sms,
    Announcers: announcers,
  })

  daemonApp := daemon.NewDaemon(
    daemon.Config{
      ConfigPath: configPath,
      Period:     pollPeriod(appCfg),
      DaemonMode: appCfg.DaemonMode,
    },
    daemon.Dependencies{
      Config:     cfg,
      Dispatcher: dispatcherClient,
      Notifier:   notifierClient,
      Mail:       mailClient,
      Ratelimits: ratelimits,
      Watermarks: watermarks,
      Cadence:    cadence,
    })

  if err = daemonApp.Start(ctx); err != nil && ctx.Err() == nil {
    log.Fatalf("daemonApp.Start: %v", err)
  }
}

func pollPeriod(appCfg config.ApplicationConfig) time.Duration {
  if value := os.Getenv("RESTOCKD_POLL_INTERVAL_SECONDS"); value != "" {
    return time.Duration(cast.ToInt(value)) * time.Second
  }
  return appCfg.PollInterval()
}

func buildCheckers(scrapingClient *scraping.Client) map[models.ProviderKey]models.Checker {
  return map[models.ProviderKey]models.Checker{
    models.ProviderKeyEvga:    evga.NewChecker(evga.Dependencies{Scraping: scrapingClient}),
    models.ProviderKeyNewegg:  newegg.NewChecker(newegg.Dependencies{Scraping: scrapingClient}),
    models.ProviderKeyBestBuy: bestbuy.NewChecker(bestbuy.Dependencies{Scraping: scrapingClient}),
    models.ProviderKeyNvidia:  nvidia.NewChecker(nvidia.Dependencies{Scraping: scrapingClient}),
    models.ProviderKeyBnH:     bnh.NewChecker(bnh.Dependencies{Scraping: scrapingClient}),
    models.ProviderKeyAmazon:  amazon.NewChecker(amazon.Dependencies{Scraping: scrapingClient}),
    models.ProviderKeyGeneric: generic.NewChecker(generic.Dependencies{Scraping: scrapingClient}),
  }
}

func buildSMS(appCfg config.ApplicationConfig) (notifier.SubscriberSender, error) {
  if !appCfg.HasTwilioConfig() {
    return nil, nil
  }

  client, err := twilio.NewClient(
    twilio.Config{
      FromPhoneNumber: *appCfg.FromPhoneNumber,
    },
    twilio.Dependencies{
      Twilio: twilioclient.NewRestClientWithParams(twilioclient.ClientParams{
        Username: *appCfg.TwilioAccountId,
        Password: *appCfg.TwilioAuthToken,
      }),
    })
  if err != nil {
    return nil, err
  }

  return client, nil
}

func buildAnnouncers(appCfg config.ApplicationConfig) ([]notifier.Announcer, error) {
  announcers := make([]notifier.Announcer, 0)

  if appCfg.DiscordURL != nil {
    webhookClient, err := webhook.NewClient(
      webhook.Config{
        URL: *appCfg.DiscordURL,
      },
      webhook.Dependencies{
        Client: resty.New(),
      })
    if err != nil {
      return nil, err
    }

    announcers = append(announcers, webhookClient)
  }

  if appCfg.HasTelegramConfig() {
    telegramBot, err := telegrambot.New(*appCfg.TelegramBotToken)
    if err != nil {
      return nil, err
    }

    telegramClient, err := telegram.NewClient(
      telegram.Config{
        ChatId: *appCfg.TelegramChatId,
      },
      telegram.Dependencies{
        Telegram: telegramBot,
      })
    if err != nil {
      return nil, err
    }

    announcers = append(announcers, telegramClient)
  }

  if appCfg.ShouldOpenBrowser {
    announcers = append(announcers, browser.NewClient())
  }

  return announcers, nil
}

func buildMail(appCfg config.ApplicationConfig) (*mail.Client, error) {
  if !appCfg.HasImapConfig() {
    return nil, nil
  }

  return mail.NewClient(mail.Config{
    Host:     *appCfg.ImapHost,
    Username: *appCfg.ImapUsername,
    Password: *appCfg.ImapPassword,
  })
}
