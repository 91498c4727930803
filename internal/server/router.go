package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorekeep/lorekeep/internal/api"
	"github.com/lorekeep/lorekeep/internal/api/handlers"
	"github.com/lorekeep/lorekeep/internal/api/middleware"
)

type RouterConfig struct {
	NodeHandler *handlers.NodeHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.CORS)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/kb", cfg.NodeHandler.Tree)
		r.Get("/search", cfg.NodeHandler.Search)
		r.Post("/create", cfg.NodeHandler.Create)

		// Node ids from the filesystem backend are relative paths, so id
		// segments are matched as wildcards.
		r.Get("/files/*", cfg.NodeHandler.ReadContent)
		r.Post("/files/*", cfg.NodeHandler.SaveContent)
		r.Post("/rename/*", cfg.NodeHandler.Rename)
		r.Post("/delete/*", cfg.NodeHandler.Delete)
	})

	return r
}
