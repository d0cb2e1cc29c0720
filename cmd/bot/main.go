package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HBKLXNDR/websites-bot-OLD/internal/config"
	"github.com/HBKLXNDR/websites-bot-OLD/internal/feature/checkout"
	"github.com/HBKLXNDR/websites-bot-OLD/internal/feature/followup"
	"github.com/HBKLXNDR/websites-bot-OLD/internal/feature/lead"
	"github.com/HBKLXNDR/websites-bot-OLD/internal/logging"
	"github.com/HBKLXNDR/websites-bot-OLD/internal/telegram"
	"github.com/HBKLXNDR/websites-bot-OLD/internal/webserver"
)

const (
	httpShutdownTimeout     = 5 * time.Second
	telegramShutdownTimeout = 10 * time.Second
)

func main() {
	configOnly := flag.Bool("config-only", false, "load and print configuration then exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Error("configuration error", logging.Fields{"error": err})
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Setup(cfg)
	if err != nil {
		logging.Error("logger setup error", logging.Fields{"error": err})
		fmt.Fprintf(os.Stderr, "logger setup error: %v\n", err)
		os.Exit(1)
	}

	if *configOnly {
		logging.Info("configuration check", logging.Fields{"event": "config_only"})
		fmt.Println("configuration check: ok")
		fmt.Println(config.FormatRedacted(cfg))
		return
	}

	logger.WithFields(logging.Fields{
		"event":     "startup",
		"http_port": cfg.HTTPPort,
	}).Info("configuration loaded")

	tgClient, err := telegram.NewClient(cfg, logger)
	if err != nil {
		logger.WithError(err).Error("telegram client setup error")
		fmt.Fprintf(os.Stderr, "telegram client setup error: %v\n", err)
		os.Exit(1)
	}

	followUps := followup.NewScheduler(tgClient, cfg, logger)
	leadHandler := lead.NewHandler(tgClient, followUps, cfg.OperatorChatID, logger)
	tgClient.OnWebAppData(leadHandler.Handle)

	checkoutService := checkout.NewService(tgClient, logger)
	webServer := webserver.New(cfg, checkoutService, logger)

	logger.WithField("event", "telegram_ready").Info("telegram client initialized")

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telegramCtx, cancelTelegram := context.WithCancel(context.Background())
	tgDone := make(chan struct{})
	httpDone := make(chan struct{})

	go func() {
		tgClient.Start(telegramCtx)
		close(tgDone)
	}()

	go func() {
		if err := webServer.Listen(); err != nil {
			logger.WithError(err).Error("web server error")
		}
		close(httpDone)
	}()

	select {
	case <-signalCtx.Done():
		logger.WithField("event", "shutdown_signal").Info("received termination signal, stopping")
	case <-tgDone:
		logger.WithField("event", "telegram_stopped_early").Warn("telegram client stopped before shutdown signal")
	case <-httpDone:
		logger.WithField("event", "http_stopped_early").Warn("web server stopped before shutdown signal")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), httpShutdownTimeout)
	if err := webServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("web server shutdown error")
	}
	cancelShutdown()

	cancelTelegram()

	waitCtx, cancelWait := context.WithTimeout(context.Background(), telegramShutdownTimeout)
	select {
	case <-tgDone:
	case <-waitCtx.Done():
		logger.WithField("event", "telegram_shutdown_timeout").Warn("timed out waiting for telegram client to stop")
	}
	cancelWait()

	logger.WithField("event", "shutdown_complete").Info("shutdown complete")
}
