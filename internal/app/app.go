package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Raimguhinov/remind-go/internal/config"
	"github.com/Raimguhinov/remind-go/internal/notify"
	"github.com/Raimguhinov/remind-go/internal/platform"
	"github.com/Raimguhinov/remind-go/internal/reminder"
	"github.com/Raimguhinov/remind-go/internal/storage"
	"github.com/Raimguhinov/remind-go/pkg/httpserver"
	"github.com/Raimguhinov/remind-go/pkg/logger"
	"github.com/Raimguhinov/remind-go/pkg/postgres"
)

func Run(cfg *config.Config) {
	l := logger.New(cfg.Log.Level, cfg.App.Env)

	// Record store
	var store reminder.Store
	if cfg.PG.URL != "" {
		pg, err := postgres.New(
			context.TODO(), l, cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.PoolMax))
		if err != nil {
			l.Fatal("app - Run - postgres.New", logger.Err(err))
		}
		defer pg.Close()

		pgStore := storage.NewPG(pg, l)
		if err := pgStore.Setup(context.TODO()); err != nil {
			l.Fatal("app - Run - pgStore.Setup", logger.Err(err))
		}
		store = pgStore
	} else {
		l.Info("app - Run - no PG_URL, using in-memory store")
		store = storage.NewMemory()
	}

	// Notification platform
	scheduler := platform.NewScheduler(l,
		platform.Capacity(cfg.Notifier.MaxScheduled),
		platform.InitialPermission(platform.ParsePermission(cfg.Notifier.Permission)),
	)
	defer scheduler.Shutdown()

	// Process-wide presentation callback, registered once at bootstrap.
	scheduler.SetHandler(func(d platform.Delivery) {
		l.Info("notification fired",
			"handle", d.Handle,
			"title", d.Content.Title,
			"body", d.Content.Body,
			"attachment", d.Content.Attachment,
			"reminder_id", d.Content.Data["id"],
		)
	})

	gateway := notify.New(scheduler, l, cfg.Notifier.AttachmentDir)
	service := reminder.NewService(store, gateway, l)

	// HTTP Server
	httpServer := httpserver.New(
		SetupRouter(l, service, cfg),
		httpserver.Port(cfg.HTTP.IP, cfg.HTTP.Port),
		httpserver.ReadTimeout(cfg.HTTP.Timeout),
		httpserver.WriteTimeout(cfg.HTTP.Timeout),
	)

	// Waiting signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: " + s.String())
	case err := <-httpServer.Notify():
		l.Error("app - Run - httpServer.Notify", logger.Err(err))
	}

	// Shutdown
	if err := httpServer.Shutdown(); err != nil {
		l.Error("app - Run - httpServer.Shutdown", logger.Err(err))
	}
}
