package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/foodmood/foodmood/internal/foodmood"
)

type wireLatLng struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// wirePlace mirrors one record of the /query response. Every field is a
// pointer so that absent and zero values can be told apart.
type wirePlace struct {
	Name       *string     `json:"name"`
	Phone      *string     `json:"phone"`
	WebsiteURL *string     `json:"websiteUrl"`
	GoogleURL  *string     `json:"googleUrl"`
	Rating     *float64    `json:"rating"`
	Location   *wireLatLng `json:"location"`
	PlaceID    *string     `json:"placeId"`
}

var (
	errNoName     = errors.New("name is required")
	errNoPlaceID  = errors.New("placeId is required")
	errBadRating  = errors.New("rating must be between 0 and 5")
	errBadLatLng  = errors.New("location needs lat and lng in range")
	errBadLinkURL = errors.New("link must be an absolute http(s) url")
)

func decodePlace(raw json.RawMessage) (foodmood.PlaceResult, error) {
	var w wirePlace
	if err := json.Unmarshal(raw, &w); err != nil {
		return foodmood.PlaceResult{}, err
	}

	var p foodmood.PlaceResult
	if w.Name == nil || strings.TrimSpace(*w.Name) == "" {
		return p, errNoName
	}
	if w.PlaceID == nil || strings.TrimSpace(*w.PlaceID) == "" {
		return p, errNoPlaceID
	}
	p.Name = strings.TrimSpace(*w.Name)
	p.PlaceID = strings.TrimSpace(*w.PlaceID)
	p.Phone = nonEmpty(w.Phone)

	var err error
	if p.WebsiteURL, err = link(w.WebsiteURL); err != nil {
		return p, fmt.Errorf("websiteUrl: %w", err)
	}
	if p.GoogleURL, err = link(w.GoogleURL); err != nil {
		return p, fmt.Errorf("googleUrl: %w", err)
	}

	if w.Rating != nil {
		if *w.Rating < 0 || *w.Rating > 5 {
			return p, errBadRating
		}
		r := *w.Rating
		p.Rating = &r
	}

	if w.Location != nil {
		l := w.Location
		if l.Lat == nil || l.Lng == nil || *l.Lat < -90 || *l.Lat > 90 || *l.Lng < -180 || *l.Lng > 180 {
			return p, errBadLatLng
		}
		p.Location = &foodmood.LatLng{Lat: *l.Lat, Lng: *l.Lng}
	}
	return p, nil
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func link(s *string) (*string, error) {
	v := nonEmpty(s)
	if v == nil {
		return nil, nil
	}
	u, err := url.Parse(*v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errBadLinkURL
	}
	return v, nil
}
