package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"kopikoni/config"
	"kopikoni/db"
	"kopikoni/notify"
	"kopikoni/web"

	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config")
	}

	// Check for migrate subcommand
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(cfg, log)
		return
	}

	if err := db.Init(cfg.DB); err != nil {
		log.WithError(err).Fatal("db")
	}
	defer db.Close()

	// Optional auto-migration (useful in production and for fresh DBs).
	// Set AUTO_MIGRATE=1 (or "true") to enable.
	if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); v == "1" || strings.EqualFold(v, "true") {
		if err := applyMigrations(context.Background(), false); err != nil {
			log.WithError(err).Fatal("migrate")
		}
	}

	notifier, err := notify.New(cfg.Telegram, log)
	if err != nil {
		log.WithError(err).Fatal("notify")
	}

	server, err := web.NewServer(cfg, log, notifier)
	if err != nil {
		log.WithError(err).Fatal("web")
	}

	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTP.Addr).Info("KopiKoni listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("shutdown")
	}
}

func runMigrate(cfg *config.Config, log *logrus.Logger) {
	if err := db.Init(cfg.DB); err != nil {
		log.WithError(err).Fatal("db")
	}
	defer db.Close()

	if err := applyMigrations(context.Background(), true); err != nil {
		log.WithError(err).Fatal("migrate")
	}
}
