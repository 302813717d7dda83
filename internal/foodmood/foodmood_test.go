package foodmood

import (
	"context"
	"errors"
	"testing"
)

func TestLatLngString(t *testing.T) {
	tests := []struct {
		in   LatLng
		want string
	}{
		{LatLng{Lat: 32.08, Lng: 34.79}, "32.08,34.79"},
		{LatLng{Lat: -1, Lng: 0}, "-1,0"},
		{LatLng{Lat: 51.5072178, Lng: -0.1275862}, "51.5072178,-0.1275862"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestErrorsUnwrap(t *testing.T) {
	nf := &NetworkFailure{Op: "fetching places", Err: context.DeadlineExceeded}
	if !errors.Is(nf, context.DeadlineExceeded) {
		t.Error("NetworkFailure should unwrap to its cause")
	}
	if nf.UserMessage() != NetworkFailureMessage {
		t.Errorf("UserMessage() = %q", nf.UserMessage())
	}

	gf := &GeolocationFailure{Err: context.DeadlineExceeded}
	if !errors.Is(gf, context.DeadlineExceeded) {
		t.Error("GeolocationFailure should unwrap to its cause")
	}

	var ve *ValidationError
	if !errors.As(error(NewValidationError("rating", "rating requires exactly one selection")), &ve) {
		t.Fatal("expected ValidationError")
	}
	if ve.Field != "rating" {
		t.Errorf("Field = %q", ve.Field)
	}
}
