// Package trip drives trip creation: form helpers, the daily limit and
// waiting for the generated itinerary.
package trip

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/planit-ai/planit/pkg/client"
	"github.com/planit-ai/planit/pkg/domain"
)

// MaxDays is the longest trip the generator accepts.
const MaxDays = 7

// MaxBudget is the upper budget bound.
const MaxBudget = 999_999_999

// DailyLimitCode is the backend code for a second trip on the same day.
const DailyLimitCode = "TRIP_007"

// ErrDailyLimit is returned when the account already created a trip today.
var ErrDailyLimit = errors.New("only one trip can be created per day")

// Create window, local hours: [14:00, 02:00).
const (
	windowStartHour = 14
	windowEndHour   = 2
)

// Days is the inclusive day count from arrival to departure, or 0 when
// departure precedes arrival. Only the calendar dates are compared.
func Days(arrival, departure time.Time) int {
	a := time.Date(arrival.Year(), arrival.Month(), arrival.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(departure.Year(), departure.Month(), departure.Day(), 0, 0, 0, 0, time.UTC)
	diff := int(d.Sub(a).Hours() / 24)
	if diff < 0 {
		return 0
	}
	return diff + 1
}

// MinBudget is the smallest budget for a trip of days days.
func MinBudget(days int) int64 {
	if days <= 0 {
		return 5
	}
	return int64(days) * 5
}

// CreateWindowOpen reports whether trips may be created at now's hour.
func CreateWindowOpen(now time.Time) bool {
	h := now.Hour()
	return h >= windowStartHour || h < windowEndHour
}

// DestinationCode maps a display label ("Osaka, Japan") or a bare city
// name ("osaka") to its destination code.
func DestinationCode(label string) (string, bool) {
	if d, ok := domain.DestinationByLabel(label); ok {
		return d.Code, true
	}
	l := strings.TrimSpace(label)
	for _, d := range domain.Destinations {
		if strings.EqualFold(d.City, l) || strings.EqualFold(d.Code, l) {
			return d.Code, true
		}
	}
	return "", false
}

// HourString formats an hour as the "HH:00" the API expects.
func HourString(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

// DedupePlaces drops places whose Google place id was already seen,
// keeping the first occurrence.
func DedupePlaces(places []domain.Place) []domain.Place {
	seen := make(map[string]bool, len(places))
	out := make([]domain.Place, 0, len(places))
	for _, p := range places {
		if p.GooglePlaceID == "" || seen[p.GooglePlaceID] {
			continue
		}
		seen[p.GooglePlaceID] = true
		out = append(out, p)
	}
	return out
}

// PlaceIDs returns the Google place ids of places, de-duplicated.
func PlaceIDs(places []domain.Place) []string {
	deduped := DedupePlaces(places)
	ids := make([]string, len(deduped))
	for i, p := range deduped {
		ids[i] = p.GooglePlaceID
	}
	return ids
}

// Creator starts itinerary generation.
type Creator interface {
	CreateTrip(ctx context.Context, req domain.CreateTripRequest) (*domain.Trip, error)
}

// Create submits req and maps the daily-limit rejection to ErrDailyLimit.
func Create(ctx context.Context, c Creator, req domain.CreateTripRequest) (*domain.Trip, error) {
	if req.WantedPlace == nil {
		req.WantedPlace = []string{}
	}
	t, err := c.CreateTrip(ctx, req)
	if err != nil {
		if client.IsCode(err, DailyLimitCode) {
			return nil, fmt.Errorf("trip.Create: %w", ErrDailyLimit)
		}
		return nil, fmt.Errorf("trip.Create: %w", err)
	}
	return t, nil
}

// Format renders an itinerary as plain text for the clipboard or stdout.
func Format(title string, t *domain.Trip) string {
	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteString("\n")
	}
	if t == nil {
		return b.String()
	}
	for _, day := range t.Itineraries {
		fmt.Fprintf(&b, "\nDay %d\n", day.Day)
		for _, a := range day.Activities {
			line := "  " + a.StartTime
			if a.StartTime == "" {
				line = "  --:--"
			}
			line += "  " + a.PlaceName
			if a.DurationMinutes > 0 {
				line += fmt.Sprintf(" (%dm)", a.DurationMinutes)
			}
			if a.Transport != "" {
				line += " via " + a.Transport
			}
			b.WriteString(line + "\n")
			if a.Memo != "" {
				b.WriteString("        " + a.Memo + "\n")
			}
		}
	}
	return b.String()
}
