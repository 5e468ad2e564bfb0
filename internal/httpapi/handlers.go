package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/duelhaven/card-battle-backend/internal/auth"
	"github.com/duelhaven/card-battle-backend/internal/store"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type deckRequest struct {
	Name    string `json:"name"`
	CardIDs []uint `json:"cardIds"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func Register(st *store.Store, a *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "username and password required")
			return
		}

		hash, err := a.HashPassword(req.Password)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create user")
			return
		}

		u, err := st.CreateUser(r.Context(), req.Username, hash)
		if err != nil {
			if errors.Is(err, store.ErrUsernameTaken) {
				writeError(w, http.StatusConflict, "username already taken")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to create user")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{"id": u.ID, "username": u.Username})
	}
}

func Login(st *store.Store, a *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		u, err := st.FindUserByName(r.Context(), req.Username)
		if err != nil || a.CheckPassword(u.PasswordHash, req.Password) != nil {
			// Same response for unknown user and wrong password.
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}

		token, err := a.Issue(u.ID, u.Username)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to issue token")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}

func ListCards(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cards, err := st.ListCatalog(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list cards")
			return
		}
		writeJSON(w, http.StatusOK, cards)
	}
}

func ListDecks(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFrom(r.Context())
		decks, err := st.ListDecks(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list decks")
			return
		}
		writeJSON(w, http.StatusOK, decks)
	}
}

func CreateDeck(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFrom(r.Context())

		var req deckRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		d, err := st.CreateDeck(r.Context(), claims.UserID, req.Name, req.CardIDs)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrDeckSize):
				writeError(w, http.StatusBadRequest, store.ErrDeckSize.Error())
			case errors.Is(err, store.ErrUnknownCard):
				writeError(w, http.StatusBadRequest, store.ErrUnknownCard.Error())
			default:
				writeError(w, http.StatusInternalServerError, "failed to create deck")
			}
			return
		}
		writeJSON(w, http.StatusCreated, d)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
