package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/foodmood/foodmood/internal/form"
	"github.com/foodmood/foodmood/internal/handler/health"
	"github.com/foodmood/foodmood/internal/render"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "foodmood API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Restaurant recommendation front service.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of the session store and the search service.")
	getHealthz.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/search
	postSearch, _ := r.NewOperationContext(http.MethodPost, "/api/search")
	postSearch.SetSummary("Search")
	postSearch.SetDescription("Runs a search with the session's location and identity. Returns the results page view-model.")
	postSearch.AddReqStructure(form.Selection{})
	postSearch.AddRespStructure(render.Page{}, openapi.WithHTTPStatus(http.StatusOK))
	postSearch.AddRespStructure(ValidationErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postSearch.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusTooManyRequests))
	postSearch.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(postSearch)

	// GET /api/location
	getLocation, _ := r.NewOperationContext(http.MethodGet, "/api/location")
	getLocation.SetSummary("Location status")
	getLocation.SetDescription("Returns the session's tracked location, seeding it with the fallback coordinate on first use.")
	getLocation.AddRespStructure(LocationResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getLocation)

	// POST /api/location/device
	postDevice, _ := r.NewOperationContext(http.MethodPost, "/api/location/device")
	postDevice.SetSummary("Report device location")
	postDevice.SetDescription("Takes the browser geolocation result. On error the location is unchanged and an advisory is returned.")
	postDevice.AddReqStructure(DeviceLocationRequest{})
	postDevice.AddRespStructure(LocationResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postDevice.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postDevice)

	// POST /api/location/lookup
	postLookup, _ := r.NewOperationContext(http.MethodPost, "/api/location/lookup")
	postLookup.SetSummary("Locate by IP")
	postLookup.SetDescription("Approximates the location from the client address.")
	postLookup.AddRespStructure(LocationResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLookup)

	// POST /api/location/select
	postSelect, _ := r.NewOperationContext(http.MethodPost, "/api/location/select")
	postSelect.SetSummary("Select location")
	postSelect.SetDescription("Records a position picked in the search box or on the map.")
	postSelect.AddReqStructure(SelectLocationRequest{})
	postSelect.AddRespStructure(LocationResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSelect.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postSelect)

	// GET /api/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of location changes for the session.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// POST /api/session/signin
	postSignIn, _ := r.NewOperationContext(http.MethodPost, "/api/session/signin")
	postSignIn.SetSummary("Sign in")
	postSignIn.SetDescription("Verifies the provider ID token and registers the user with the search service.")
	postSignIn.AddReqStructure(SignInRequest{})
	postSignIn.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSignIn.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postSignIn.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postSignIn)

	// POST /api/session/signout
	postSignOut, _ := r.NewOperationContext(http.MethodPost, "/api/session/signout")
	postSignOut.SetSummary("Sign out")
	postSignOut.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postSignOut)

	// POST /api/feedback
	postFeedback, _ := r.NewOperationContext(http.MethodPost, "/api/feedback")
	postFeedback.SetSummary("Send feedback")
	postFeedback.SetDescription("Reports the chosen place for the current results and clears them. Requires sign-in and an open results page.")
	postFeedback.AddReqStructure(FeedbackRequest{})
	postFeedback.AddRespStructure(FeedbackResponse{}, openapi.WithHTTPStatus(http.StatusAccepted))
	postFeedback.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postFeedback.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postFeedback)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
