// Package render builds the results view-model: one block per place, map
// markers, advisories and which page section is visible. Output writers for
// HTML and plain text sit on top of the view-model.
package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"strconv"

	"github.com/nyaruka/phonenumbers"

	"github.com/foodmood/foodmood/internal/foodmood"
	"github.com/foodmood/foodmood/internal/search"
)

const (
	WebsiteLabel    = "Website"
	GoogleMapsLabel = "Google Maps link"
	NoLinksText     = "No website or map link is available for this place"
	PhonePrefix     = "Phone number: "

	// MarkerZoom is the zoom level applied when a marker is clicked.
	MarkerZoom = 16
)

type View string

const (
	ViewForm    View = "form"
	ViewResults View = "results"
)

type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type Phone struct {
	Display string `json:"display"`
	// URI is a tel: link, empty when the number could not be parsed.
	URI template.URL `json:"uri,omitempty"`
}

type Stars struct {
	FillPercent int    `json:"fillPercent"`
	Label       string `json:"label"`
}

// Block is the visual summary of one place. Links holds zero, one or two
// entries; Fallback is set only when Links is empty.
type Block struct {
	PlaceID  string `json:"placeId"`
	Name     string `json:"name"`
	Links    []Link `json:"links"`
	Fallback string `json:"fallback,omitempty"`
	Phone    *Phone `json:"phone,omitempty"`
	Stars    *Stars `json:"stars,omitempty"`
}

type Marker struct {
	PlaceID  string          `json:"placeId"`
	Title    string          `json:"title"`
	Position foodmood.LatLng `json:"position"`
	Zoom     int             `json:"zoom"`
	Popup    string          `json:"popup"`
}

type Page struct {
	View     View     `json:"view"`
	Blocks   []Block  `json:"blocks"`
	Markers  []Marker `json:"markers"`
	Advisory string   `json:"advisory,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// MarkersJSON is the marker list handed to the map script.
func (p Page) MarkersJSON() string {
	data, _ := json.Marshal(p.Markers)
	return string(data)
}

type Renderer struct {
	region string
}

// NewRenderer returns a Renderer that parses local phone numbers as
// belonging to region (ISO 3166 code, e.g. "IL").
func NewRenderer(region string) *Renderer {
	return &Renderer{region: region}
}

// Render builds the results page for res.
func (r *Renderer) Render(res search.Results) Page {
	p := Page{
		View:    ViewResults,
		Blocks:  make([]Block, 0, len(res.Places)),
		Markers: []Marker{},
	}
	for _, place := range res.Places {
		p.Blocks = append(p.Blocks, r.block(place))
		if place.Location != nil {
			p.Markers = append(p.Markers, Marker{
				PlaceID:  place.PlaceID,
				Title:    place.Name,
				Position: *place.Location,
				Zoom:     MarkerZoom,
				Popup:    place.Name,
			})
		}
	}
	if res.LowCount {
		p.Advisory = LowCountAdvisory(len(res.Places))
	}
	return p
}

// Failure keeps the form visible and shows msg as a banner.
func Failure(msg string) Page {
	return Page{View: ViewForm, Blocks: []Block{}, Markers: []Marker{}, Error: msg}
}

// FormPage is the initial page state.
func FormPage() Page {
	return Page{View: ViewForm, Blocks: []Block{}, Markers: []Marker{}}
}

func LowCountAdvisory(n int) string {
	switch n {
	case 0:
		return "We couldn't find places matching your preferences"
	case 1:
		return "We found only 1 result for your preferences"
	default:
		return fmt.Sprintf("We found only %d results for your preferences", n)
	}
}

func (r *Renderer) block(place foodmood.PlaceResult) Block {
	b := Block{PlaceID: place.PlaceID, Name: place.Name, Links: []Link{}}

	if place.WebsiteURL != nil {
		b.Links = append(b.Links, Link{Label: WebsiteLabel, URL: *place.WebsiteURL})
	}
	if place.GoogleURL != nil {
		b.Links = append(b.Links, Link{Label: GoogleMapsLabel, URL: *place.GoogleURL})
	}
	if len(b.Links) == 0 {
		b.Fallback = NoLinksText
	}

	if place.Phone != nil {
		b.Phone = r.phone(*place.Phone)
	}

	if place.Rating != nil {
		b.Stars = &Stars{
			FillPercent: StarFill(*place.Rating),
			Label:       "(" + strconv.FormatFloat(*place.Rating, 'f', -1, 64) + ")",
		}
	}
	return b
}

func (r *Renderer) phone(raw string) *Phone {
	num, err := phonenumbers.Parse(raw, r.region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return &Phone{Display: raw}
	}
	return &Phone{
		Display: phonenumbers.Format(num, phonenumbers.INTERNATIONAL),
		URI:     template.URL(phonenumbers.Format(num, phonenumbers.RFC3966)),
	}
}

// StarFill is the filled share of the five-star indicator, in steps of 10%.
func StarFill(rating float64) int {
	return int(math.Round(rating/5*100/10)) * 10
}
