package server

import (
	"context"
	"net/http"

	"github.com/foodmood/foodmood/internal/session"
)

type SignInRequest struct {
	IDToken string `json:"idToken" validate:"required"`
	// Name is the profile name shown by the sign-in widget, used when the
	// token carries none.
	Name string `json:"name"`
}

type SessionResponse struct {
	SignedIn bool   `json:"signedIn"`
	Name     string `json:"name,omitempty"`
}

// handleSignIn verifies the ID token, stores the identity and registers the
// user with the search service in the background.
func handleSignIn(a *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignInRequest
		if err := readValid(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		ctx := r.Context()

		id, err := a.Verifier.Verify(ctx, req.IDToken)
		if err != nil {
			a.logger.InfoContext(ctx, "sign-in rejected", "error", err)
			writeError(w, http.StatusUnauthorized, "invalid id token")
			return
		}
		if id.Name == "" {
			id.Name = req.Name
		}

		if err := session.FromContext(ctx).SetIdentity(ctx, id); err != nil {
			a.logger.ErrorContext(ctx, "storing identity", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		a.Dispatcher.Go("register", func(ctx context.Context) error {
			return a.Search.Register(ctx, id.Token)
		})

		writeJSON(w, http.StatusOK, SessionResponse{SignedIn: true, Name: id.Name})
	}
}

func handleSignOut(a *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := session.FromContext(ctx).ClearIdentity(ctx); err != nil {
			a.logger.ErrorContext(ctx, "clearing identity", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, SessionResponse{SignedIn: false})
	}
}
