package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/foodmood/foodmood/internal/foodmood"
	"github.com/foodmood/foodmood/internal/form"
	"github.com/foodmood/foodmood/internal/query"
	"github.com/foodmood/foodmood/internal/render"
	"github.com/foodmood/foodmood/internal/search"
	"github.com/foodmood/foodmood/internal/session"
)

type ValidationErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field"`
}

// runSearch is the collect, encode, fetch and render pipeline. Kept places
// become the session's current results.
func (a *app) runSearch(ctx context.Context, st *session.State, f form.Form) (render.Page, error) {
	crit, err := form.NewCollector(st).Collect(ctx, f)
	if err != nil {
		return render.Page{}, err
	}

	res, err := a.Search.Fetch(ctx, query.Encode(crit))
	if err != nil {
		return render.Page{}, err
	}

	if err := st.SetResults(ctx, res.Places); err != nil {
		return render.Page{}, fmt.Errorf("storing results: %w", err)
	}
	return a.Renderer.Render(res), nil
}

func handleSearchForm(a *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		ctx := r.Context()
		f := form.FromValues(a.Schema, r.PostForm)

		page, err := a.runSearch(ctx, session.FromContext(ctx), f)

		var verr *foodmood.ValidationError
		var nerr *foodmood.NetworkFailure
		switch {
		case errors.As(err, &verr):
			a.writePage(w, r, http.StatusBadRequest, render.FormPage(), f, verr.Message)
		case errors.As(err, &nerr):
			a.logger.WarnContext(ctx, "search failed", "error", err)
			a.writePage(w, r, http.StatusBadGateway, render.Failure(nerr.UserMessage()), f, "")
		case err != nil:
			a.logger.ErrorContext(ctx, "search", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		default:
			a.writePage(w, r, http.StatusOK, page, f, "")
		}
	}
}

func handleSearchAPI(a *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sel form.Selection
		if err := readJSON(r, &sel); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		ctx := r.Context()

		page, err := a.runSearch(ctx, session.FromContext(ctx), form.FromValues(a.Schema, sel.Values()))

		var verr *foodmood.ValidationError
		var nerr *foodmood.NetworkFailure
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{Error: verr.Message, Field: verr.Field})
		case errors.As(err, &nerr):
			a.logger.WarnContext(ctx, "search failed", "error", err)
			writeError(w, http.StatusBadGateway, nerr.UserMessage())
		case err != nil:
			a.logger.ErrorContext(ctx, "search", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		default:
			writeJSON(w, http.StatusOK, page)
		}
	}
}

// handleTryAgain drops the current results and returns to the form. Signed-in
// users also report the rejected page as feedback.
func handleTryAgain(a *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		st := session.FromContext(ctx)

		places, err := st.Results(ctx)
		if err != nil {
			a.logger.ErrorContext(ctx, "loading results", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		id, signedIn, err := st.Identity(ctx)
		if err != nil {
			a.logger.ErrorContext(ctx, "loading identity", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if signedIn && len(places) > 0 {
			a.sendFeedback(search.Feedback{
				IDToken:           id.Token,
				RecommendedPlaces: placeIDs(places),
				TryAgain:          true,
			})
		}

		if err := st.ClearResults(ctx); err != nil {
			a.logger.ErrorContext(ctx, "clearing results", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (a *app) sendFeedback(fb search.Feedback) {
	a.Dispatcher.Go("feedback", func(ctx context.Context) error {
		return a.Search.SendFeedback(ctx, fb)
	})
}

func placeIDs(places []foodmood.PlaceResult) []string {
	ids := make([]string, len(places))
	for i, p := range places {
		ids[i] = p.PlaceID
	}
	return ids
}
