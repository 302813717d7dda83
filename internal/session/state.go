// Package session holds the per-browser application state: last known
// location and its tracker status, the signed-in identity, and the results
// currently on screen.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodmood/foodmood/internal/foodmood"
	"github.com/foodmood/foodmood/internal/kv"
)

// Names of the values kept per session.
const (
	UserLocationKey   = "userLocation"
	LocationStatusKey = "locationStatus"
	IdentityKey       = "identity"
	ResultsKey        = "results"
)

// State gives typed access to the values of one session.
type State struct {
	store kv.Store
	id    string
}

func NewState(store kv.Store, id string) *State {
	return &State{store: store, id: id}
}

func (s *State) ID() string { return s.id }

func get[T any](ctx context.Context, s *State, name string) (T, bool, error) {
	var v T
	err := s.store.Get(ctx, s.id, name, &v)
	if errors.Is(err, kv.ErrNotFound) {
		return v, false, nil
	}
	if err != nil {
		return v, false, fmt.Errorf("loading %s: %w", name, err)
	}
	return v, true, nil
}

// Location returns the last known coordinate, if any.
func (s *State) Location(ctx context.Context) (foodmood.LatLng, bool, error) {
	return get[foodmood.LatLng](ctx, s, UserLocationKey)
}

func (s *State) SetLocation(ctx context.Context, loc foodmood.LatLng) error {
	return s.store.Put(ctx, s.id, UserLocationKey, loc)
}

// LocationStatus reports LocationUnset until the tracker has seeded the session.
func (s *State) LocationStatus(ctx context.Context) (foodmood.LocationStatus, error) {
	st, ok, err := get[foodmood.LocationStatus](ctx, s, LocationStatusKey)
	if err != nil || !ok {
		return foodmood.LocationUnset, err
	}
	return st, nil
}

func (s *State) SetLocationStatus(ctx context.Context, st foodmood.LocationStatus) error {
	return s.store.Put(ctx, s.id, LocationStatusKey, st)
}

func (s *State) Identity(ctx context.Context) (foodmood.Identity, bool, error) {
	return get[foodmood.Identity](ctx, s, IdentityKey)
}

func (s *State) SetIdentity(ctx context.Context, id foodmood.Identity) error {
	return s.store.Put(ctx, s.id, IdentityKey, id)
}

func (s *State) ClearIdentity(ctx context.Context) error {
	return s.store.Delete(ctx, s.id, IdentityKey)
}

// Results returns the places of the current results page, nil when the form
// is showing.
func (s *State) Results(ctx context.Context) ([]foodmood.PlaceResult, error) {
	places, _, err := get[[]foodmood.PlaceResult](ctx, s, ResultsKey)
	return places, err
}

func (s *State) SetResults(ctx context.Context, places []foodmood.PlaceResult) error {
	if places == nil {
		places = []foodmood.PlaceResult{}
	}
	return s.store.Put(ctx, s.id, ResultsKey, places)
}

// HasResults reports whether a results page is active, even an empty one.
func (s *State) HasResults(ctx context.Context) (bool, error) {
	_, ok, err := get[[]foodmood.PlaceResult](ctx, s, ResultsKey)
	return ok, err
}

func (s *State) ClearResults(ctx context.Context) error {
	return s.store.Delete(ctx, s.id, ResultsKey)
}
