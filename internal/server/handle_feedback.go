package server

import (
	"errors"
	"net/http"

	"github.com/foodmood/foodmood/internal/search"
	"github.com/foodmood/foodmood/internal/session"
)

type FeedbackRequest struct {
	// ChosenPlace is the place ID the user picked; null reports that none
	// of the results were chosen.
	ChosenPlace *string `json:"chosenPlace"`
}

type FeedbackResponse struct {
	Status string `json:"status"`
}

// handleFeedback reports the user's choice for the current results page and
// closes that page.
func handleFeedback(a *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FeedbackRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		ctx := r.Context()
		st := session.FromContext(ctx)

		id, ok, err := st.Identity(ctx)
		if err != nil {
			a.logger.ErrorContext(ctx, "loading identity", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !ok {
			writeError(w, http.StatusUnauthorized, "sign in to send feedback")
			return
		}

		places, err := st.Results(ctx)
		if err != nil {
			a.logger.ErrorContext(ctx, "loading results", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		fb := search.Feedback{
			IDToken:           id.Token,
			RecommendedPlaces: placeIDs(places),
			ChosenPlace:       req.ChosenPlace,
		}
		if err := fb.Validate(); errors.Is(err, search.ErrChosenNotRecommended) || errors.Is(err, search.ErrNoRecommendations) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		} else if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}

		a.sendFeedback(fb)

		if err := st.ClearResults(ctx); err != nil {
			a.logger.ErrorContext(ctx, "clearing results", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusAccepted, FeedbackResponse{Status: "accepted"})
	}
}
