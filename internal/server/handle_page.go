package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/foodmood/foodmood/internal/form"
	"github.com/foodmood/foodmood/internal/render"
	"github.com/foodmood/foodmood/internal/search"
	"github.com/foodmood/foodmood/internal/session"
)

// handlePage shows the form, or the session's current results page.
func handlePage(a *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		st := session.FromContext(ctx)

		if _, err := a.tracker(st).Seed(ctx); err != nil {
			a.logger.ErrorContext(ctx, "seeding location", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		page := render.FormPage()
		active, err := st.HasResults(ctx)
		if err != nil {
			a.logger.ErrorContext(ctx, "loading results", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if active {
			places, err := st.Results(ctx)
			if err != nil {
				a.logger.ErrorContext(ctx, "loading results", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			page = a.Renderer.Render(search.NewResults(places))
		}

		a.writePage(w, r, http.StatusOK, page, a.Schema, "")
	}
}

// writePage renders the whole document for the session. The template is
// executed into a buffer so a failure never leaves a half-written page.
func (a *app) writePage(w http.ResponseWriter, r *http.Request, status int, page render.Page, f form.Form, formErr string) {
	ctx := r.Context()
	doc, err := a.document(ctx, session.FromContext(ctx), page, f, formErr)
	if err != nil {
		a.logger.ErrorContext(ctx, "building page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := doc.WriteHTML(&buf); err != nil {
		a.logger.ErrorContext(ctx, "rendering page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (a *app) document(ctx context.Context, st *session.State, page render.Page, f form.Form, formErr string) (render.Document, error) {
	doc := render.Document{
		Page:      page,
		Form:      f,
		FormError: formErr,
		MapsKey:   a.MapsKey,
		ClientID:  a.ClientID,
	}

	loc, ok, err := st.Location(ctx)
	if err != nil {
		return doc, fmt.Errorf("loading location: %w", err)
	}
	if ok {
		doc.Location = &loc
	}

	id, ok, err := st.Identity(ctx)
	if err != nil {
		return doc, fmt.Errorf("loading identity: %w", err)
	}
	doc.SignedIn = ok
	doc.UserName = id.Name
	return doc, nil
}
