package app

import (
	"net/http"

	"github.com/Raimguhinov/remind-go/internal/auth"
	"github.com/Raimguhinov/remind-go/internal/config"
	mwlogger "github.com/Raimguhinov/remind-go/internal/delivery/http/middleware/logger"
	"github.com/Raimguhinov/remind-go/internal/reminder"
	"github.com/Raimguhinov/remind-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

func SetupRouter(l *logger.Logger, service *reminder.Service, cfg *config.Config) http.Handler {
	s := chi.NewRouter()
	s.Use(middleware.RequestID)
	s.Use(middleware.Recoverer)
	s.Use(mwlogger.New(l))
	s.Use(corsMiddleware(cfg))

	if cfg.HTTP.User != "" {
		authProvider, err := auth.NewBasicAuth(cfg.App.Name, cfg.HTTP.User, cfg.HTTP.Password)
		if err != nil {
			l.Fatal("app - SetupRouter - auth.NewBasicAuth", logger.Err(err))
		}
		s.Use(authProvider.Middleware())
	}

	h := newReminderHandler(service, l)

	s.Route("/reminders", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.remove)
	})

	return s
}

func corsMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedMethods:     cfg.HTTP.CORS.AllowedMethods,
		AllowedOrigins:     cfg.HTTP.CORS.AllowedOrigins,
		AllowCredentials:   cfg.HTTP.CORS.AllowCredentials,
		AllowedHeaders:     cfg.HTTP.CORS.AllowedHeaders,
		OptionsPassthrough: cfg.HTTP.CORS.OptionsPassthrough,
		ExposedHeaders:     cfg.HTTP.CORS.ExposedHeaders,
		Debug:              cfg.HTTP.CORS.Debug,
	}).Handler
}
