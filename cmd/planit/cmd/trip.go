package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/planit-ai/planit/internal/trip"
	"github.com/planit-ai/planit/internal/validate"
	"github.com/planit-ai/planit/pkg/client"
	"github.com/planit-ai/planit/pkg/domain"
)

const dateLayout = "2006-01-02"

// tripFlags holds `trip create` input as typed on the command line.
type tripFlags struct {
	title      string
	city       string
	arrive     string
	depart     string
	arriveHour int
	departHour int
	budget     int64
	themes     []string
	places     []string
	noWait     bool
}

var (
	createFlags tripFlags
	deleteYes   bool
	clock       = time.Now
)

var tripCmd = &cobra.Command{
	Use:   "trip",
	Short: "Create, show or delete your trip itinerary",
}

var tripCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate a new itinerary",
	Long: `Generate a new itinerary and wait for it to be ready.

Trips can be created between 14:00 and 02:00 local time, once per day,
and last at most 7 days. The budget must be at least 5 per day.`,
	Example: `  planit trip create --title "Tokyo spring" --city Tokyo \
    --from 2026-04-01 --to 2026-04-03 --budget 300 --theme food --theme culture-art`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		return runTripCreate(cmd.Context(), e, cmd.OutOrStdout(), createFlags)
	},
}

var tripShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print your current itinerary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		return runTripShow(cmd.Context(), e, cmd.OutOrStdout())
	},
}

var tripDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete your current trip",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		if !deleteYes {
			ok, err := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).confirm("Delete your current trip?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}
		return runTripDelete(cmd.Context(), e, cmd.OutOrStdout())
	},
}

func init() {
	f := tripCreateCmd.Flags()
	f.StringVar(&createFlags.title, "title", "", "trip title (up to 15 characters)")
	f.StringVar(&createFlags.city, "city", "", `destination, e.g. "Osaka" or "OSAKA_JP"`)
	f.StringVar(&createFlags.arrive, "from", "", "arrival date (YYYY-MM-DD)")
	f.StringVar(&createFlags.depart, "to", "", "departure date (YYYY-MM-DD)")
	f.IntVar(&createFlags.arriveHour, "arrive-hour", 10, "arrival hour, 0-23")
	f.IntVar(&createFlags.departHour, "depart-hour", 18, "departure hour, 0-23")
	f.Int64Var(&createFlags.budget, "budget", 0, "total budget")
	f.StringSliceVar(&createFlags.themes, "theme", nil, "travel theme, repeatable ("+strings.Join(domain.TravelThemes, ", ")+")")
	f.StringSliceVar(&createFlags.places, "place", nil, "Google place id to include, repeatable")
	f.BoolVar(&createFlags.noWait, "no-wait", false, "return as soon as generation starts")

	tripDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")

	tripCmd.AddCommand(tripCreateCmd, tripShowCmd, tripDeleteCmd)
	rootCmd.AddCommand(tripCmd)
}

// tripRequest validates f and turns it into a create request.
func tripRequest(val *validate.Validator, f tripFlags) (domain.CreateTripRequest, error) {
	arrival, err := time.ParseInLocation(dateLayout, strings.TrimSpace(f.arrive), time.Local)
	if err != nil {
		return domain.CreateTripRequest{}, errors.New("--from must be YYYY-MM-DD")
	}
	departure, err := time.ParseInLocation(dateLayout, strings.TrimSpace(f.depart), time.Local)
	if err != nil {
		return domain.CreateTripRequest{}, errors.New("--to must be YYYY-MM-DD")
	}
	code, ok := trip.DestinationCode(f.city)
	if !ok {
		return domain.CreateTripRequest{}, fmt.Errorf("unknown destination %q", f.city)
	}
	themes := make([]string, len(f.themes))
	for i, t := range f.themes {
		themes[i] = strings.ToLower(strings.TrimSpace(t))
	}

	form := validate.TripForm{
		Title:         strings.TrimSpace(f.title),
		City:          code,
		ArrivalDate:   arrival,
		DepartureDate: departure,
		ArrivalHour:   f.arriveHour,
		DepartureHour: f.departHour,
		Budget:        f.budget,
		Themes:        themes,
		WantedPlaces:  dedupe(f.places),
	}
	if err := val.Trip(form); err != nil {
		return domain.CreateTripRequest{}, err
	}
	return domain.CreateTripRequest{
		Title:         form.Title,
		ArrivalDate:   arrival.Format(dateLayout),
		ArrivalTime:   trip.HourString(form.ArrivalHour),
		DepartureDate: departure.Format(dateLayout),
		DepartureTime: trip.HourString(form.DepartureHour),
		TravelCity:    code,
		TotalBudget:   form.Budget,
		TravelTheme:   form.Themes,
		WantedPlace:   form.WantedPlaces,
	}, nil
}

func dedupe(ids []string) []string {
	places := make([]domain.Place, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			places = append(places, domain.Place{GooglePlaceID: id})
		}
	}
	return trip.PlaceIDs(trip.DedupePlaces(places))
}

func runTripCreate(ctx context.Context, e *env, out io.Writer, f tripFlags) error {
	if err := e.requireSession(); err != nil {
		return err
	}
	if !trip.CreateWindowOpen(clock()) {
		return errors.New("trips can be created between 14:00 and 02:00")
	}
	req, err := tripRequest(e.validator, f)
	if err != nil {
		return err
	}

	t, err := trip.Create(ctx, e.client, req)
	if err != nil {
		return err
	}
	if !t.Ready() {
		if f.noWait {
			fmt.Fprintf(out, "Generating trip %d. Run `planit trip show` later.\n", t.TripID)
			return nil
		}
		fmt.Fprintf(out, "Generating trip %d, this can take a few minutes...\n", t.TripID)
		t, err = trip.NewPoller(e.client, e.cfg.TripPollInterval, e.logger).WaitForItinerary(ctx, t.TripID)
		if err != nil {
			return fmt.Errorf("wait for itinerary: %w", err)
		}
	}
	fmt.Fprint(out, trip.Format(req.Title, t))
	return nil
}

func runTripShow(ctx context.Context, e *env, out io.Writer) error {
	if err := e.requireSession(); err != nil {
		return err
	}
	t, err := e.client.MyItineraries(ctx)
	if err != nil {
		if client.IsStatus(err, http.StatusNotFound) {
			fmt.Fprintln(out, "No trip yet. Create one with `planit trip create`.")
			return nil
		}
		return fmt.Errorf("trip show: %w", err)
	}
	if !t.Ready() {
		fmt.Fprintln(out, "Your itinerary is still being generated.")
		return nil
	}
	fmt.Fprint(out, trip.Format(t.Title, t))
	return nil
}

func runTripDelete(ctx context.Context, e *env, out io.Writer) error {
	if err := e.requireSession(); err != nil {
		return err
	}
	if err := e.client.DeleteTrip(ctx); err != nil {
		return fmt.Errorf("trip delete: %w", err)
	}
	fmt.Fprintln(out, "Trip deleted.")
	return nil
}
