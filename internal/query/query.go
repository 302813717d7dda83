// Package query turns search criteria into the query string of the remote
// search endpoint and back.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/foodmood/foodmood/internal/foodmood"
)

// Encode renders crit as key=value pairs in the order the search endpoint
// expects: cuisines, rating, price, open, location, then idToken and
// newPlaces for signed-in users. Each value is percent-encoded; list and
// coordinate separators stay literal commas.
func Encode(crit foodmood.SearchCriteria) string {
	cuisines := make([]string, len(crit.Cuisines))
	for i, c := range crit.Cuisines {
		cuisines[i] = url.QueryEscape(c)
	}

	pairs := []string{
		"cuisines=" + strings.Join(cuisines, ","),
		"rating=" + url.QueryEscape(crit.Rating),
		"price=" + url.QueryEscape(crit.Price),
		"open=" + strconv.FormatBool(crit.OpenNow),
		"location=" + crit.Location.String(),
	}
	if crit.UserToken != nil {
		pairs = append(pairs, "idToken="+url.QueryEscape(*crit.UserToken))
	}
	if crit.WantsNewPlaces != nil {
		pairs = append(pairs, "newPlaces="+strconv.FormatBool(*crit.WantsNewPlaces))
	}
	return strings.Join(pairs, "&")
}

var errMissingField = errors.New("missing field")

// Decode parses a query string produced by Encode.
func Decode(raw string) (foodmood.SearchCriteria, error) {
	var crit foodmood.SearchCriteria
	fields := make(map[string]string)
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		fields[k] = v
	}

	need := func(k string) (string, error) {
		v, ok := fields[k]
		if !ok {
			return "", fmt.Errorf("%s: %w", k, errMissingField)
		}
		return v, nil
	}

	raws, err := need("cuisines")
	if err != nil {
		return crit, err
	}
	for _, c := range strings.Split(raws, ",") {
		v, err := url.QueryUnescape(c)
		if err != nil {
			return crit, fmt.Errorf("cuisines: %w", err)
		}
		crit.Cuisines = append(crit.Cuisines, v)
	}

	for _, f := range []struct {
		key string
		dst *string
	}{{"rating", &crit.Rating}, {"price", &crit.Price}} {
		v, err := need(f.key)
		if err != nil {
			return crit, err
		}
		if *f.dst, err = url.QueryUnescape(v); err != nil {
			return crit, fmt.Errorf("%s: %w", f.key, err)
		}
	}

	open, err := need("open")
	if err != nil {
		return crit, err
	}
	if crit.OpenNow, err = strconv.ParseBool(open); err != nil {
		return crit, fmt.Errorf("open: %w", err)
	}

	loc, err := need("location")
	if err != nil {
		return crit, err
	}
	if crit.Location, err = ParseLatLng(loc); err != nil {
		return crit, fmt.Errorf("location: %w", err)
	}

	if v, ok := fields["idToken"]; ok {
		token, err := url.QueryUnescape(v)
		if err != nil {
			return crit, fmt.Errorf("idToken: %w", err)
		}
		crit.UserToken = &token
	}
	if v, ok := fields["newPlaces"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return crit, fmt.Errorf("newPlaces: %w", err)
		}
		crit.WantsNewPlaces = &b
	}
	return crit, nil
}

// ParseLatLng reads a "lat,lng" pair.
func ParseLatLng(s string) (foodmood.LatLng, error) {
	latS, lngS, ok := strings.Cut(s, ",")
	if !ok {
		return foodmood.LatLng{}, fmt.Errorf("%q is not a lat,lng pair", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latS), 64)
	if err != nil {
		return foodmood.LatLng{}, err
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngS), 64)
	if err != nil {
		return foodmood.LatLng{}, err
	}
	return foodmood.LatLng{Lat: lat, Lng: lng}, nil
}
