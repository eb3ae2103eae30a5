package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Nikobrola/impasta-test/internal/engine"
	"github.com/Nikobrola/impasta-test/internal/hub"
	"github.com/Nikobrola/impasta-test/internal/ws"
)

func SetupRoutes(h *hub.Hub, cfg engine.Config, deps func() engine.Deps) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Post("/rooms", CreateRoom(h, cfg, deps))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h))
	return r
}
