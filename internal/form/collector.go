package form

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/foodmood/foodmood/internal/foodmood"
	"github.com/foodmood/foodmood/internal/validation"
)

// StateReader is the part of the session state the collector depends on.
type StateReader interface {
	Location(ctx context.Context) (foodmood.LatLng, bool, error)
	Identity(ctx context.Context) (foodmood.Identity, bool, error)
}

type Collector struct {
	state    StateReader
	validate *validator.Validate
}

var criteriaValidator = validation.New()

func NewCollector(state StateReader) *Collector {
	return &Collector{state: state, validate: criteriaValidator}
}

// Collect reads the checked options of every group together with the
// session's location and identity. It never writes state.
func (c *Collector) Collect(ctx context.Context, f Form) (foodmood.SearchCriteria, error) {
	var crit foodmood.SearchCriteria

	crit.Cuisines = f.Cuisines.Checked()
	if len(crit.Cuisines) == 0 {
		return crit, foodmood.NewValidationError(f.Cuisines.Name, "choose at least one cuisine")
	}

	var err error
	if crit.Rating, err = single(f.Rating); err != nil {
		return crit, err
	}
	if crit.Price, err = single(f.Price); err != nil {
		return crit, err
	}
	open, err := single(f.Open)
	if err != nil {
		return crit, err
	}
	crit.OpenNow = open == "true"

	loc, ok, err := c.state.Location(ctx)
	if err != nil {
		return crit, fmt.Errorf("reading location: %w", err)
	}
	if !ok {
		return crit, foodmood.NewValidationError("location", "location requires a known position")
	}
	crit.Location = loc

	id, signedIn, err := c.state.Identity(ctx)
	if err != nil {
		return crit, fmt.Errorf("reading identity: %w", err)
	}
	if signedIn {
		token := id.Token
		wants := len(f.NewPlaces.Checked()) > 0
		crit.UserToken = &token
		crit.WantsNewPlaces = &wants
	}

	if err := c.validate.Struct(crit); err != nil {
		if field, ok := validation.FirstField(err); ok {
			return crit, foodmood.NewValidationError(field, fmt.Sprintf("%s is invalid", field))
		}
		return crit, fmt.Errorf("validating criteria: %w", err)
	}
	return crit, nil
}

func single(g Group) (string, error) {
	vals := g.Checked()
	if len(vals) != 1 {
		return "", foodmood.NewValidationError(g.Name, g.Name+" requires exactly one selection")
	}
	return vals[0], nil
}
