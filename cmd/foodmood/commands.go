package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/foodmood/foodmood/internal/foodmood"
	"github.com/foodmood/foodmood/internal/form"
	"github.com/foodmood/foodmood/internal/query"
	"github.com/foodmood/foodmood/internal/render"
	"github.com/foodmood/foodmood/internal/search"
)

// criteriaFlags are the form choices given on the command line.
type criteriaFlags struct {
	cuisines  []string
	rating    string
	price     string
	open      bool
	lat       float64
	lng       float64
	idToken   string
	newPlaces bool
}

func (f *criteriaFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringSliceVarP(&f.cuisines, "cuisine", "c", nil, "cuisine to include (repeatable)")
	fl.StringVarP(&f.rating, "rating", "r", "", "minimal rating, 1-5")
	fl.StringVarP(&f.price, "price", "p", "", "maximal price level, 1-4")
	fl.BoolVar(&f.open, "open", false, "only places open now")
	fl.Float64Var(&f.lat, "lat", foodmood.FallbackLocation.Lat, "latitude")
	fl.Float64Var(&f.lng, "lng", foodmood.FallbackLocation.Lng, "longitude")
	fl.StringVar(&f.idToken, "id-token", "", "ID token of a registered user")
	fl.BoolVar(&f.newPlaces, "new-places", false, "only places the user has not been to (needs --id-token)")
}

// cliState answers the collector from flags instead of a browser session.
type cliState struct {
	loc   foodmood.LatLng
	token string
}

func (s cliState) Location(context.Context) (foodmood.LatLng, bool, error) {
	return s.loc, true, nil
}

func (s cliState) Identity(context.Context) (foodmood.Identity, bool, error) {
	if s.token == "" {
		return foodmood.Identity{}, false, nil
	}
	return foodmood.Identity{Token: s.token}, true, nil
}

func (f *criteriaFlags) collect(ctx context.Context) (foodmood.SearchCriteria, error) {
	sel := form.Selection{
		Cuisines:  f.cuisines,
		Rating:    f.rating,
		Price:     f.price,
		Open:      strconv.FormatBool(f.open),
		NewPlaces: f.newPlaces,
	}
	st := cliState{loc: foodmood.LatLng{Lat: f.lat, Lng: f.lng}, token: f.idToken}
	return form.NewCollector(st).Collect(ctx, form.FromValues(form.DefaultSchema(), sel.Values()))
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "foodmood",
		Short:         "Restaurant recommendations from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(newSearchCmd(), newEncodeCmd(), newDecodeCmd())
	return root
}

func newSearchCmd() *cobra.Command {
	var (
		crit     criteriaFlags
		baseURL  string
		method   string
		timeout  time.Duration
		region   string
		asJSON   bool
		logLevel string
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search for places and print the results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if baseURL == "" {
				return errors.New("--base-url or SEARCH_BASE_URL is required")
			}
			ctx := cmd.Context()
			c, err := crit.collect(ctx)
			if err != nil {
				return err
			}

			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("parsing --log-level: %w", err)
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			client := search.NewClient(baseURL, logger,
				search.WithMethod(method),
				search.WithHTTPClient(&http.Client{Timeout: timeout}),
			)

			res, err := client.Fetch(ctx, query.Encode(c))
			if err != nil {
				logger.Debug("search failed", "error", err)
				page := render.Failure(foodmood.NetworkFailureMessage)
				page.WriteText(cmd.OutOrStdout())
				return err
			}

			page := render.NewRenderer(region).Render(res)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(page)
			}
			return page.WriteText(cmd.OutOrStdout())
		},
	}
	crit.register(cmd)
	fl := cmd.Flags()
	fl.StringVar(&baseURL, "base-url", os.Getenv("SEARCH_BASE_URL"), "search service base URL")
	fl.StringVar(&method, "method", http.MethodPost, "HTTP method for /query")
	fl.DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	fl.StringVar(&region, "region", "IL", "default region for phone numbers")
	fl.BoolVar(&asJSON, "json", false, "print the page view-model as JSON")
	fl.StringVar(&logLevel, "log-level", "WARN", "log level")
	return cmd
}

func newEncodeCmd() *cobra.Command {
	var crit criteriaFlags
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the /query string for the given choices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := crit.collect(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), query.Encode(c))
			return nil
		},
	}
	crit.register(cmd)
	return cmd
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode QUERY",
		Short: "Print the criteria a /query string carries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := query.Decode(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(c)
		},
	}
}
