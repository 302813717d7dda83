package server

import (
	"errors"
	"net/http"

	"github.com/foodmood/foodmood/internal/foodmood"
	"github.com/foodmood/foodmood/internal/location"
	"github.com/foodmood/foodmood/internal/session"
)

type LocationResponse struct {
	Status   foodmood.LocationStatus `json:"status"`
	Location *foodmood.LatLng        `json:"location,omitempty"`
	Advisory string                  `json:"advisory,omitempty"`
}

type SelectLocationRequest struct {
	Location foodmood.LatLng `json:"location" validate:"required"`
	Origin   location.Origin `json:"origin" validate:"required,oneof=searchbox marker"`
}

type DeviceLocationRequest = location.Reported

func handleLocationStatus(a *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		status, err := a.tracker(session.FromContext(ctx)).Seed(ctx)
		if err != nil {
			a.logger.ErrorContext(ctx, "seeding location", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, LocationResponse{Status: status.Status, Location: status.Location})
	}
}

// handleLocationDevice takes the outcome of the browser's geolocation call.
func handleLocationDevice(a *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rep DeviceLocationRequest
		if err := readJSON(r, &rep); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		a.resolve(w, r, rep)
	}
}

// handleLocationLookup approximates the position from the client address.
func handleLocationLookup(a *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.resolve(w, r, a.GeoIP.For(clientIP(r)))
	}
}

func (a *app) resolve(w http.ResponseWriter, r *http.Request, g location.Geolocator) {
	ctx := r.Context()
	tr := a.tracker(session.FromContext(ctx))

	_, err := tr.ResolveDevice(ctx, g)
	var gerr *foodmood.GeolocationFailure
	if err != nil && !errors.As(err, &gerr) {
		a.logger.ErrorContext(ctx, "resolving location", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	status, serr := tr.Status(ctx)
	if serr != nil {
		a.logger.ErrorContext(ctx, "loading location", "error", serr)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	resp := LocationResponse{Status: status.Status, Location: status.Location}
	if gerr != nil {
		resp.Advisory = gerr.Advisory()
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleLocationSelect(a *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectLocationRequest
		if err := readValid(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		ctx := r.Context()
		tr := a.tracker(session.FromContext(ctx))

		err := tr.Select(ctx, req.Location, req.Origin)
		var verr *foodmood.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{Error: verr.Message, Field: verr.Field})
			return
		}
		if err != nil {
			a.logger.ErrorContext(ctx, "selecting location", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, LocationResponse{
			Status:   foodmood.LocationUserSelected,
			Location: &req.Location,
		})
	}
}
