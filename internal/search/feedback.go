package search

import (
	"errors"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrNoToken              = errors.New("feedback requires a signed-in user")
	ErrChosenNotRecommended = errors.New("chosen place was not among the recommended places")
	ErrNoRecommendations    = errors.New("no results page is open")
)

// Feedback is what a signed-in user did with a results page: picked one of
// the recommended places, or asked to try again.
type Feedback struct {
	IDToken           string
	RecommendedPlaces []string
	ChosenPlace       *string
	TryAgain          bool
}

func (f Feedback) Validate() error {
	if f.IDToken == "" {
		return ErrNoToken
	}
	if len(f.RecommendedPlaces) == 0 {
		return ErrNoRecommendations
	}
	if f.ChosenPlace != nil && !slices.Contains(f.RecommendedPlaces, *f.ChosenPlace) {
		return ErrChosenNotRecommended
	}
	return nil
}

// Encode renders the /feedback query string. A missing choice is sent as
// the literal "null".
func (f Feedback) Encode() string {
	ids := make([]string, len(f.RecommendedPlaces))
	for i, id := range f.RecommendedPlaces {
		ids[i] = url.QueryEscape(id)
	}
	chosen := "null"
	if f.ChosenPlace != nil {
		chosen = url.QueryEscape(*f.ChosenPlace)
	}
	return strings.Join([]string{
		"idToken=" + url.QueryEscape(f.IDToken),
		"recommendedPlaces=" + strings.Join(ids, ","),
		"chosenPlace=" + chosen,
		"tryAgain=" + strconv.FormatBool(f.TryAgain),
	}, "&")
}
