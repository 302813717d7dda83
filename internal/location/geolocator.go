package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/foodmood/foodmood/internal/foodmood"
)

// Geolocator produces the current device position.
type Geolocator interface {
	Locate(ctx context.Context) (foodmood.LatLng, error)
}

type GeolocatorFunc func(ctx context.Context) (foodmood.LatLng, error)

func (f GeolocatorFunc) Locate(ctx context.Context) (foodmood.LatLng, error) { return f(ctx) }

// Reported is a position the browser already looked up, or the error it got
// instead (permission denied, unsupported, timeout).
type Reported struct {
	Position *foodmood.LatLng `json:"position,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func (r Reported) Locate(context.Context) (foodmood.LatLng, error) {
	if r.Error != "" {
		return foodmood.LatLng{}, errors.New(r.Error)
	}
	if r.Position == nil {
		return foodmood.LatLng{}, errors.New("no position reported")
	}
	return *r.Position, nil
}

// IPGeolocator approximates a position from the client address using an
// ip-api compatible JSON service.
type IPGeolocator struct {
	baseURL string
	http    *http.Client
}

func NewIPGeolocator(baseURL string, client *http.Client) *IPGeolocator {
	if client == nil {
		client = &http.Client{Timeout: DeviceTimeout}
	}
	return &IPGeolocator{baseURL: baseURL, http: client}
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// For returns a Geolocator that looks up ip.
func (g *IPGeolocator) For(ip string) Geolocator {
	return GeolocatorFunc(func(ctx context.Context) (foodmood.LatLng, error) {
		u := g.baseURL + "/json/" + url.PathEscape(ip) + "?fields=status,message,lat,lon"
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return foodmood.LatLng{}, fmt.Errorf("building request: %w", err)
		}
		resp, err := g.http.Do(req)
		if err != nil {
			return foodmood.LatLng{}, fmt.Errorf("ip lookup: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return foodmood.LatLng{}, fmt.Errorf("ip lookup: status %d", resp.StatusCode)
		}
		var body ipAPIResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return foodmood.LatLng{}, fmt.Errorf("decoding ip lookup: %w", err)
		}
		if body.Status != "success" {
			return foodmood.LatLng{}, fmt.Errorf("ip lookup failed: %s", body.Message)
		}
		return foodmood.LatLng{Lat: body.Lat, Lng: body.Lon}, nil
	})
}
