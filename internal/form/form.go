// Package form models the query form as explicit option groups and collects
// a validated SearchCriteria from it.
package form

import (
	"net/url"
	"slices"
)

type Option struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// Group is a set of selectable controls sharing a name, like a radio or
// checkbox group on the page.
type Group struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Options []Option `json:"options"`
}

// Checked returns the values of the checked options in declaration order.
func (g Group) Checked() []string {
	var vals []string
	for _, o := range g.Options {
		if o.Checked {
			vals = append(vals, o.Value)
		}
	}
	return vals
}

func (g Group) withChecked(values []string) Group {
	out := Group{Name: g.Name, Label: g.Label, Options: make([]Option, len(g.Options))}
	for i, o := range g.Options {
		o.Checked = slices.Contains(values, o.Value)
		out.Options[i] = o
	}
	return out
}

type Form struct {
	Cuisines  Group `json:"cuisines"`
	Rating    Group `json:"rating"`
	Price     Group `json:"price"`
	Open      Group `json:"open"`
	NewPlaces Group `json:"newPlaces"`
}

// DefaultSchema returns the form as first shown, with nothing checked.
func DefaultSchema() Form {
	return Form{
		Cuisines: Group{Name: "cuisines", Label: "Cuisines", Options: []Option{
			{Value: "american", Label: "American"},
			{Value: "chinese", Label: "Chinese"},
			{Value: "indian", Label: "Indian"},
			{Value: "italian", Label: "Italian"},
			{Value: "japanese", Label: "Japanese"},
			{Value: "mediterranean", Label: "Mediterranean"},
			{Value: "mexican", Label: "Mexican"},
			{Value: "thai", Label: "Thai"},
			{Value: "vegetarian", Label: "Vegetarian"},
		}},
		Rating: Group{Name: "rating", Label: "Minimal rating", Options: []Option{
			{Value: "1", Label: "1+"},
			{Value: "2", Label: "2+"},
			{Value: "3", Label: "3+"},
			{Value: "4", Label: "4+"},
			{Value: "5", Label: "5"},
		}},
		Price: Group{Name: "price", Label: "Maximal price", Options: []Option{
			{Value: "1", Label: "$"},
			{Value: "2", Label: "$$"},
			{Value: "3", Label: "$$$"},
			{Value: "4", Label: "$$$$"},
		}},
		Open: Group{Name: "open", Label: "Open now", Options: []Option{
			{Value: "true", Label: "Yes"},
			{Value: "false", Label: "Doesn't matter"},
		}},
		NewPlaces: Group{Name: "newPlaces", Label: "Only places I haven't been to", Options: []Option{
			{Value: "true", Label: "Yes"},
		}},
	}
}

// FromValues marks the schema options whose values were posted. Posted
// values the schema does not declare are ignored.
func FromValues(schema Form, v url.Values) Form {
	return Form{
		Cuisines:  schema.Cuisines.withChecked(v[schema.Cuisines.Name]),
		Rating:    schema.Rating.withChecked(v[schema.Rating.Name]),
		Price:     schema.Price.withChecked(v[schema.Price.Name]),
		Open:      schema.Open.withChecked(v[schema.Open.Name]),
		NewPlaces: schema.NewPlaces.withChecked(v[schema.NewPlaces.Name]),
	}
}

// Selection is the JSON shape of a form submission.
type Selection struct {
	Cuisines  []string `json:"cuisines"`
	Rating    string   `json:"rating"`
	Price     string   `json:"price"`
	Open      string   `json:"open"`
	NewPlaces bool     `json:"newPlaces"`
}

func (s Selection) Values() url.Values {
	v := url.Values{}
	for _, c := range s.Cuisines {
		v.Add("cuisines", c)
	}
	if s.Rating != "" {
		v.Set("rating", s.Rating)
	}
	if s.Price != "" {
		v.Set("price", s.Price)
	}
	if s.Open != "" {
		v.Set("open", s.Open)
	}
	if s.NewPlaces {
		v.Set("newPlaces", "true")
	}
	return v
}
