// Package location tracks the per-session position used for searches.
//
// A session starts Unset, is seeded to Default with the stored or fallback
// coordinate, and moves to DeviceResolved or UserSelected as better
// positions arrive. There is no terminal state.
package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/foodmood/foodmood/internal/foodmood"
)

// DeviceTimeout bounds a device position lookup.
const DeviceTimeout = 5 * time.Second

// FocusZoom is the map zoom used when the tracker recenters on a new position.
const FocusZoom = 16

type Origin string

const (
	OriginDefault   Origin = "default"
	OriginDevice    Origin = "device"
	OriginSearchBox Origin = "searchbox"
	OriginMarker    Origin = "marker"
)

var ErrUnknownOrigin = errors.New("unknown selection origin")

// State is the slice of session state the tracker reads and writes.
type State interface {
	ID() string
	Location(ctx context.Context) (foodmood.LatLng, bool, error)
	SetLocation(ctx context.Context, loc foodmood.LatLng) error
	LocationStatus(ctx context.Context) (foodmood.LocationStatus, error)
	SetLocationStatus(ctx context.Context, st foodmood.LocationStatus) error
}

// Event tells the page map to follow a transition.
type Event struct {
	Type     string                  `json:"type"`
	Status   foodmood.LocationStatus `json:"status"`
	Location foodmood.LatLng         `json:"location"`
	Origin   Origin                  `json:"origin"`
	Zoom     int                     `json:"zoom,omitempty"`
}

// Publisher delivers events to the session's open pages.
type Publisher interface {
	Publish(sessionID string, ev Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, Event) {}

// Status is a snapshot of the tracker.
type Status struct {
	Status   foodmood.LocationStatus `json:"status"`
	Location *foodmood.LatLng        `json:"location,omitempty"`
}

type Tracker struct {
	state    State
	pub      Publisher
	logger   *slog.Logger
	fallback foodmood.LatLng
	timeout  time.Duration
}

type Option func(*Tracker)

func WithFallback(loc foodmood.LatLng) Option {
	return func(t *Tracker) { t.fallback = loc }
}

func WithTimeout(d time.Duration) Option {
	return func(t *Tracker) { t.timeout = d }
}

func NewTracker(state State, pub Publisher, logger *slog.Logger, opts ...Option) *Tracker {
	if pub == nil {
		pub = nopPublisher{}
	}
	t := &Tracker{
		state:    state,
		pub:      pub,
		logger:   logger,
		fallback: foodmood.FallbackLocation,
		timeout:  DeviceTimeout,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Seed moves an Unset session to Default, keeping a stored coordinate when
// there is one. Seeded sessions are left alone.
func (t *Tracker) Seed(ctx context.Context) (Status, error) {
	st, err := t.state.LocationStatus(ctx)
	if err != nil {
		return Status{}, err
	}
	if st != foodmood.LocationUnset {
		return t.Status(ctx)
	}

	loc, ok, err := t.state.Location(ctx)
	if err != nil {
		return Status{}, err
	}
	if !ok {
		loc = t.fallback
		if err := t.state.SetLocation(ctx, loc); err != nil {
			return Status{}, fmt.Errorf("seeding location: %w", err)
		}
	}
	if err := t.state.SetLocationStatus(ctx, foodmood.LocationDefault); err != nil {
		return Status{}, fmt.Errorf("seeding location: %w", err)
	}
	return Status{Status: foodmood.LocationDefault, Location: &loc}, nil
}

// ResolveDevice asks g for the device position. On success the session moves
// to DeviceResolved and the map recenters. On failure or timeout nothing
// changes and a *foodmood.GeolocationFailure is returned.
func (t *Tracker) ResolveDevice(ctx context.Context, g Geolocator) (foodmood.LatLng, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	type result struct {
		loc foodmood.LatLng
		err error
	}
	done := make(chan result, 1)
	go func() {
		loc, err := g.Locate(ctx)
		done <- result{loc, err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}
	if res.err == nil {
		res.err = validCoordinate(res.loc)
	}
	if res.err != nil {
		t.logger.InfoContext(ctx, "device location unavailable", "error", res.err)
		return foodmood.LatLng{}, &foodmood.GeolocationFailure{Err: res.err}
	}

	// The lookup deadline must not cut the state write short.
	if err := t.transition(context.WithoutCancel(ctx), res.loc, foodmood.LocationDeviceResolved, OriginDevice); err != nil {
		return foodmood.LatLng{}, err
	}
	return res.loc, nil
}

// Select records a position picked in the search box or by clicking a marker.
func (t *Tracker) Select(ctx context.Context, loc foodmood.LatLng, origin Origin) error {
	if origin != OriginSearchBox && origin != OriginMarker {
		return fmt.Errorf("%w: %q", ErrUnknownOrigin, origin)
	}
	if err := validCoordinate(loc); err != nil {
		return foodmood.NewValidationError("location", err.Error())
	}
	return t.transition(ctx, loc, foodmood.LocationUserSelected, origin)
}

func (t *Tracker) Status(ctx context.Context) (Status, error) {
	st, err := t.state.LocationStatus(ctx)
	if err != nil {
		return Status{}, err
	}
	loc, ok, err := t.state.Location(ctx)
	if err != nil {
		return Status{}, err
	}
	out := Status{Status: st}
	if ok {
		out.Location = &loc
	}
	return out, nil
}

func (t *Tracker) transition(ctx context.Context, loc foodmood.LatLng, st foodmood.LocationStatus, origin Origin) error {
	if err := t.state.SetLocation(ctx, loc); err != nil {
		return fmt.Errorf("storing location: %w", err)
	}
	if err := t.state.SetLocationStatus(ctx, st); err != nil {
		return fmt.Errorf("storing location status: %w", err)
	}
	t.pub.Publish(t.state.ID(), Event{
		Type:     "location",
		Status:   st,
		Location: loc,
		Origin:   origin,
		Zoom:     FocusZoom,
	})
	t.logger.DebugContext(ctx, "location updated", "status", st, "origin", origin)
	return nil
}

func validCoordinate(l foodmood.LatLng) error {
	if l.Lat < -90 || l.Lat > 90 || l.Lng < -180 || l.Lng > 180 {
		return fmt.Errorf("coordinate %s out of range", l)
	}
	return nil
}
