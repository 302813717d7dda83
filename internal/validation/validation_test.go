package validation

import (
	"errors"
	"testing"
)

type point struct {
	Lat    float64 `json:"lat" validate:"latitude"`
	Origin string  `json:"origin,omitempty" validate:"required,oneof=a b"`
	Hidden string  `json:"-"`
}

func TestFirstFieldUsesJSONName(t *testing.T) {
	v := New()

	tests := []struct {
		name  string
		in    point
		field string
		ok    bool
	}{
		{"valid", point{Lat: 10, Origin: "a"}, "", false},
		{"bad latitude", point{Lat: 95, Origin: "a"}, "lat", true},
		{"bad origin", point{Lat: 1, Origin: "c"}, "origin", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, ok := FirstField(v.Struct(tt.in))
			if field != tt.field || ok != tt.ok {
				t.Errorf("FirstField = (%q, %v), want (%q, %v)", field, ok, tt.field, tt.ok)
			}
		})
	}
}

func TestFirstFieldOtherErrors(t *testing.T) {
	if _, ok := FirstField(errors.New("boom")); ok {
		t.Error("plain error reported as a field failure")
	}
	if _, ok := FirstField(nil); ok {
		t.Error("nil error reported as a field failure")
	}
}
