// Package foodmood defines the core domain types and errors of the
// recommendation flow. It has zero external dependencies.
package foodmood

import (
	"fmt"
	"strconv"
)

type LatLng struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

// String formats the coordinate the way the search endpoint expects it.
func (l LatLng) String() string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lng, 'f', -1, 64)
}

type SearchCriteria struct {
	Cuisines       []string `json:"cuisines" validate:"min=1,dive,required"`
	Rating         string   `json:"rating" validate:"required,numeric"`
	Price          string   `json:"price" validate:"required,numeric"`
	OpenNow        bool     `json:"openNow"`
	UserToken      *string  `json:"userToken,omitempty"`
	WantsNewPlaces *bool    `json:"wantsNewPlaces,omitempty"`
	Location       LatLng   `json:"location"`
}

// PlaceResult is one recommended venue. Optional fields are nil when the
// search endpoint did not send them.
type PlaceResult struct {
	Name       string   `json:"name"`
	Phone      *string  `json:"phone,omitempty"`
	WebsiteURL *string  `json:"websiteUrl,omitempty"`
	GoogleURL  *string  `json:"googleUrl,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
	Location   *LatLng  `json:"location,omitempty"`
	PlaceID    string   `json:"placeId"`
}

type Identity struct {
	Token   string `json:"token"`
	Subject string `json:"subject"`
	Name    string `json:"name"`
}

type LocationStatus string

const (
	LocationUnset          LocationStatus = "unset"
	LocationDefault        LocationStatus = "default"
	LocationDeviceResolved LocationStatus = "device_resolved"
	LocationUserSelected   LocationStatus = "user_selected"
)

// LowResultThreshold is the result count below which the page shows an
// advisory next to the results.
const LowResultThreshold = 3

// FallbackLocation is the office coordinate used before anything better is known.
var FallbackLocation = LatLng{Lat: 32.070080, Lng: 34.794145}

// ValidationError reports an incomplete or invalid form selection.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// NetworkFailureMessage is the single user-facing message for failed fetches.
const NetworkFailureMessage = "Oops, we encountered a problem, please try again"

// NetworkFailure wraps any transport, status or decoding problem with the
// search endpoint.
type NetworkFailure struct {
	Op  string
	Err error
}

func (e *NetworkFailure) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkFailure) Unwrap() error { return e.Err }

// UserMessage is what the page shows in its banner.
func (e *NetworkFailure) UserMessage() string { return NetworkFailureMessage }

// GeolocationAdvisory is shown when the device position cannot be read.
const GeolocationAdvisory = "We couldn't get your location using geolocation, please use the map to choose one"

// GeolocationFailure covers denied permission, unsupported devices and timeouts.
type GeolocationFailure struct {
	Err error
}

func (e *GeolocationFailure) Error() string {
	return fmt.Sprintf("geolocation: %v", e.Err)
}

func (e *GeolocationFailure) Unwrap() error { return e.Err }

func (e *GeolocationFailure) Advisory() string { return GeolocationAdvisory }
