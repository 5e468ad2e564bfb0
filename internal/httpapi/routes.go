package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/duelhaven/card-battle-backend/internal/auth"
	"github.com/duelhaven/card-battle-backend/internal/deck"
	"github.com/duelhaven/card-battle-backend/internal/hub"
	"github.com/duelhaven/card-battle-backend/internal/store"
	"github.com/duelhaven/card-battle-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, st *store.Store, v *deck.Validator, a *auth.Service, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Post("/register", Register(st, a))
	r.Post("/login", Login(st, a))
	r.Get("/cards", ListCards(st))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, v, a, logger))

	// Token-protected deck management
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(a))
		r.Get("/decks", ListDecks(st))
		r.Post("/decks", CreateDeck(st))
	})

	return r
}
