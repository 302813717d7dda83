package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/foodmood/foodmood/internal/foodmood"
)

func ptr[T any](v T) *T { return &v }

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		crit foodmood.SearchCriteria
		want string
	}{
		{
			name: "anonymous",
			crit: foodmood.SearchCriteria{
				Cuisines: []string{"italian"},
				Rating:   "4",
				Price:    "2",
				OpenNow:  true,
				Location: foodmood.LatLng{Lat: 32.08, Lng: 34.79},
			},
			want: "cuisines=italian&rating=4&price=2&open=true&location=32.08,34.79",
		},
		{
			name: "several cuisines",
			crit: foodmood.SearchCriteria{
				Cuisines: []string{"italian", "thai", "indian"},
				Rating:   "3",
				Price:    "1",
				Location: foodmood.LatLng{Lat: -33.86, Lng: 151.2},
			},
			want: "cuisines=italian,thai,indian&rating=3&price=1&open=false&location=-33.86,151.2",
		},
		{
			name: "signed in",
			crit: foodmood.SearchCriteria{
				Cuisines:       []string{"sushi"},
				Rating:         "5",
				Price:          "4",
				OpenNow:        true,
				UserToken:      ptr("a.b+c"),
				WantsNewPlaces: ptr(true),
				Location:       foodmood.LatLng{Lat: 1, Lng: 2},
			},
			want: "cuisines=sushi&rating=5&price=4&open=true&location=1,2&idToken=a.b%2Bc&newPlaces=true",
		},
		{
			name: "special characters are escaped",
			crit: foodmood.SearchCriteria{
				Cuisines: []string{"fish & chips", "a,b"},
				Rating:   "4",
				Price:    "2",
				Location: foodmood.LatLng{Lat: 1, Lng: 2},
			},
			want: "cuisines=fish+%26+chips,a%2Cb&rating=4&price=2&open=false&location=1,2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.crit); got != tt.want {
				t.Errorf("Encode() =\n  %s\nwant\n  %s", got, tt.want)
			}
		})
	}
}

func TestEncodeIsInjective(t *testing.T) {
	inputs := []foodmood.SearchCriteria{
		{Cuisines: []string{"a,b"}, Rating: "1", Price: "1", Location: foodmood.LatLng{Lat: 1, Lng: 1}},
		{Cuisines: []string{"a", "b"}, Rating: "1", Price: "1", Location: foodmood.LatLng{Lat: 1, Lng: 1}},
		{Cuisines: []string{"a&rating=5"}, Rating: "1", Price: "1", Location: foodmood.LatLng{Lat: 1, Lng: 1}},
		{Cuisines: []string{"a"}, Rating: "1", Price: "1", OpenNow: true, Location: foodmood.LatLng{Lat: 1, Lng: 1}},
		{Cuisines: []string{"a"}, Rating: "1", Price: "1", Location: foodmood.LatLng{Lat: 1.5, Lng: 1}},
		{Cuisines: []string{"a"}, Rating: "1", Price: "1", Location: foodmood.LatLng{Lat: 1, Lng: 1}, UserToken: ptr("t")},
		{Cuisines: []string{"a"}, Rating: "1", Price: "1", Location: foodmood.LatLng{Lat: 1, Lng: 1}, UserToken: ptr("t"), WantsNewPlaces: ptr(false)},
	}

	seen := make(map[string]int)
	for i, crit := range inputs {
		enc := Encode(crit)
		if j, ok := seen[enc]; ok {
			t.Errorf("inputs %d and %d both encode to %q", j, i, enc)
		}
		seen[enc] = i

		got, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode(%q): %v", enc, err)
		}
		if diff := cmp.Diff(crit, got); diff != "" {
			t.Errorf("round trip of input %d (-want +got):\n%s", i, diff)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, raw := range []string{
		"",
		"rating=4&price=2&open=true&location=1,2",
		"cuisines=a&rating=4&price=2&open=maybe&location=1,2",
		"cuisines=a&rating=4&price=2&open=true&location=12",
		"cuisines=a&rating=4&price=2&open=true&location=x,2",
		"cuisines=%zz&rating=4&price=2&open=true&location=1,2",
	} {
		if _, err := Decode(raw); err == nil {
			t.Errorf("Decode(%q) succeeded, want error", raw)
		}
	}
}
