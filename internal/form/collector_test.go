package form

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/foodmood/foodmood/internal/foodmood"
)

type fakeState struct {
	loc      *foodmood.LatLng
	identity *foodmood.Identity
	calls    int
}

func (f *fakeState) Location(context.Context) (foodmood.LatLng, bool, error) {
	f.calls++
	if f.loc == nil {
		return foodmood.LatLng{}, false, nil
	}
	return *f.loc, true, nil
}

func (f *fakeState) Identity(context.Context) (foodmood.Identity, bool, error) {
	if f.identity == nil {
		return foodmood.Identity{}, false, nil
	}
	return *f.identity, true, nil
}

func located() *fakeState {
	return &fakeState{loc: &foodmood.LatLng{Lat: 32.08, Lng: 34.79}}
}

func TestCollect(t *testing.T) {
	form := FromValues(DefaultSchema(), url.Values{
		"cuisines": {"italian", "thai"},
		"rating":   {"4"},
		"price":    {"2"},
		"open":     {"true"},
	})

	got, err := NewCollector(located()).Collect(context.Background(), form)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	want := foodmood.SearchCriteria{
		Cuisines: []string{"italian", "thai"},
		Rating:   "4",
		Price:    "2",
		OpenNow:  true,
		Location: foodmood.LatLng{Lat: 32.08, Lng: 34.79},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("criteria mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectEveryCheckedValueVerbatim(t *testing.T) {
	schema := DefaultSchema()
	for _, r := range schema.Rating.Options {
		for _, p := range schema.Price.Options {
			for _, o := range schema.Open.Options {
				form := FromValues(schema, url.Values{
					"cuisines": {"japanese"},
					"rating":   {r.Value},
					"price":    {p.Value},
					"open":     {o.Value},
				})
				got, err := NewCollector(located()).Collect(context.Background(), form)
				if err != nil {
					t.Fatalf("Collect(%s,%s,%s): %v", r.Value, p.Value, o.Value, err)
				}
				if got.Rating != r.Value || got.Price != p.Value || got.OpenNow != (o.Value == "true") {
					t.Errorf("Collect(%s,%s,%s) = %+v", r.Value, p.Value, o.Value, got)
				}
			}
		}
	}
}

func TestCollectValidation(t *testing.T) {
	tests := []struct {
		name      string
		values    url.Values
		state     *fakeState
		wantField string
		wantMsg   string
	}{
		{
			name:      "no cuisine",
			values:    url.Values{"rating": {"4"}, "price": {"2"}, "open": {"true"}},
			state:     located(),
			wantField: "cuisines",
			wantMsg:   "choose at least one cuisine",
		},
		{
			name:      "unknown cuisine only",
			values:    url.Values{"cuisines": {"martian"}, "rating": {"4"}, "price": {"2"}, "open": {"true"}},
			state:     located(),
			wantField: "cuisines",
			wantMsg:   "choose at least one cuisine",
		},
		{
			name:      "no rating",
			values:    url.Values{"cuisines": {"italian"}, "price": {"2"}, "open": {"true"}},
			state:     located(),
			wantField: "rating",
			wantMsg:   "rating requires exactly one selection",
		},
		{
			name:      "two prices",
			values:    url.Values{"cuisines": {"italian"}, "rating": {"3"}, "price": {"1", "2"}, "open": {"true"}},
			state:     located(),
			wantField: "price",
			wantMsg:   "price requires exactly one selection",
		},
		{
			name:      "no open choice",
			values:    url.Values{"cuisines": {"italian"}, "rating": {"3"}, "price": {"1"}},
			state:     located(),
			wantField: "open",
			wantMsg:   "open requires exactly one selection",
		},
		{
			name:      "no location",
			values:    url.Values{"cuisines": {"italian"}, "rating": {"3"}, "price": {"1"}, "open": {"false"}},
			state:     &fakeState{},
			wantField: "location",
			wantMsg:   "location requires a known position",
		},
		{
			name:      "location out of range",
			values:    url.Values{"cuisines": {"italian"}, "rating": {"3"}, "price": {"1"}, "open": {"false"}},
			state:     &fakeState{loc: &foodmood.LatLng{Lat: 120, Lng: 10}},
			wantField: "lat",
			wantMsg:   "lat is invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := FromValues(DefaultSchema(), tt.values)
			_, err := NewCollector(tt.state).Collect(context.Background(), form)

			var ve *foodmood.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
			if ve.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", ve.Message, tt.wantMsg)
			}
		})
	}
}

func TestCollectSignedIn(t *testing.T) {
	st := located()
	st.identity = &foodmood.Identity{Token: "id-token", Subject: "42"}

	form := FromValues(DefaultSchema(), url.Values{
		"cuisines":  {"indian"},
		"rating":    {"3"},
		"price":     {"3"},
		"open":      {"false"},
		"newPlaces": {"true"},
	})
	got, err := NewCollector(st).Collect(context.Background(), form)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if got.UserToken == nil || *got.UserToken != "id-token" {
		t.Errorf("UserToken = %v, want id-token", got.UserToken)
	}
	if got.WantsNewPlaces == nil || !*got.WantsNewPlaces {
		t.Errorf("WantsNewPlaces = %v, want true", got.WantsNewPlaces)
	}
}

func TestSelectionValues(t *testing.T) {
	sel := Selection{Cuisines: []string{"italian", "thai"}, Rating: "4", Price: "2", Open: "true", NewPlaces: true}
	form := FromValues(DefaultSchema(), sel.Values())

	if diff := cmp.Diff([]string{"italian", "thai"}, form.Cuisines.Checked()); diff != "" {
		t.Errorf("cuisines (-want +got):\n%s", diff)
	}
	if got := form.Rating.Checked(); len(got) != 1 || got[0] != "4" {
		t.Errorf("rating = %v", got)
	}
	if got := form.NewPlaces.Checked(); len(got) != 1 {
		t.Errorf("newPlaces = %v", got)
	}
}
