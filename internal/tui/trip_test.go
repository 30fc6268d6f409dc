package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/planit-ai/planit/internal/trip"
	"github.com/planit-ai/planit/pkg/client"
	"github.com/planit-ai/planit/pkg/domain"
)

func newTestTripModel(t *testing.T, hour int) tripModel {
	m := newTripModel(testDeps(t)).sized(tea.WindowSizeMsg{Width: 100, Height: 24})
	m.now = func() time.Time {
		n := time.Now()
		return time.Date(n.Year(), n.Month(), n.Day(), hour, 0, 0, 0, time.Local)
	}
	return m
}

func focusField(m tripModel, f tripField) tripModel {
	for m.focus != f {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	return m
}

func typeText(m tripModel, s string) tripModel {
	for _, r := range s {
		m, _ = m.Update(runes(string(r)))
	}
	return m
}

// validTripModel fills a form that passes validation for the default dates.
func validTripModel(t *testing.T) tripModel {
	m := newTestTripModel(t, 15)
	m = typeText(m, "Tokyo run")
	m = focusField(m, fieldBudget)
	m = typeText(m, "300000")
	m = focusField(m, fieldThemes)
	m, _ = m.Update(runes(" "))
	return m
}

func TestTripFormDefaults(t *testing.T) {
	m := newTestTripModel(t, 15)
	view := m.View()
	for _, want := range []string{"NEW TRIP", domain.Destinations[0].Label, "10:00", "18:00"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q, got:\n%s", want, view)
		}
	}
	if !m.isEditing() {
		t.Error("the form should capture keys")
	}
}

func TestTripFormCycles(t *testing.T) {
	m := newTestTripModel(t, 15)

	m = focusField(m, fieldCity)
	m, _ = m.Update(runes("l"))
	if m.cityIdx != 1 {
		t.Errorf("expected city 1, got %d", m.cityIdx)
	}
	m, _ = m.Update(runes("h"))
	m, _ = m.Update(runes("h"))
	if m.cityIdx != len(domain.Destinations)-1 {
		t.Errorf("expected city to wrap to the end, got %d", m.cityIdx)
	}

	m = focusField(m, fieldArrivalHour)
	m, _ = m.Update(runes("h"))
	if m.arrivalHour != 9 {
		t.Errorf("expected arrival hour 9, got %d", m.arrivalHour)
	}
	m = focusField(m, fieldDepartureHour)
	for range 6 {
		m, _ = m.Update(runes("l"))
	}
	if m.departHour != 0 {
		t.Errorf("expected departure hour to wrap to 0, got %d", m.departHour)
	}
}

func TestTripBudgetAcceptsDigitsOnly(t *testing.T) {
	m := newTestTripModel(t, 15)
	m = focusField(m, fieldBudget)
	m = typeText(m, "1a2b3")
	if got := m.fields[fieldBudget]; got != "123" {
		t.Errorf("expected budget '123', got %q", got)
	}
	m = typeText(m, "4000")
	if !strings.Contains(m.View(), "1,234,000 won") {
		t.Errorf("expected formatted budget, got:\n%s", m.View())
	}
}

func TestTripThemeToggle(t *testing.T) {
	m := newTestTripModel(t, 15)
	m = focusField(m, fieldThemes)
	m, _ = m.Update(runes("l"))
	m, _ = m.Update(runes(" "))
	if !m.themes[domain.TravelThemes[1]] {
		t.Errorf("expected %q selected", domain.TravelThemes[1])
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.themes[domain.TravelThemes[1]] {
		t.Errorf("expected %q toggled off", domain.TravelThemes[1])
	}
}

func TestTripSubmitOutsideWindow(t *testing.T) {
	m := validTripModel(t)
	m.now = func() time.Time { return time.Date(2026, 5, 1, 10, 0, 0, 0, time.Local) }

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil || m.state != tripForm {
		t.Fatal("expected no request outside the create window")
	}
	if !strings.Contains(m.statusLine(), "14:00") {
		t.Errorf("expected window message, got %q", m.statusLine())
	}
}

func TestTripSubmitNeedsTheme(t *testing.T) {
	m := newTestTripModel(t, 20)
	m = typeText(m, "Tokyo run")
	m = focusField(m, fieldBudget)
	m = typeText(m, "300000")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil || m.state != tripForm {
		t.Fatal("expected validation to stop the request")
	}
	if m.statusLine() == "" {
		t.Error("expected a validation message")
	}
}

func TestTripSubmitRejectsBadDate(t *testing.T) {
	m := validTripModel(t)
	m.fields[fieldArrivalDate] = "next friday"
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if !strings.Contains(m.statusLine(), "YYYY-MM-DD") {
		t.Errorf("expected date format message, got %q", m.statusLine())
	}
}

func TestTripSubmitStartsCreating(t *testing.T) {
	m := validTripModel(t)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("expected create request")
	}
	if m.state != tripCreating || m.gen != 1 {
		t.Fatalf("expected creating with gen 1, got state=%d gen=%d", m.state, m.gen)
	}
	if m.isEditing() {
		t.Error("the creating screen should not capture keys")
	}
	if !strings.Contains(m.View(), "Planning Tokyo run") {
		t.Errorf("expected creating view, got:\n%s", m.View())
	}
}

func TestTripCreatedStaleGenIgnored(t *testing.T) {
	m := validTripModel(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	m, _ = m.Update(tripCreatedMsg{gen: 0, trip: sampleTrip()})
	if m.state != tripCreating {
		t.Errorf("expected stale response ignored, got state %d", m.state)
	}
}

func TestTripCreatedReadyShowsSchedule(t *testing.T) {
	m := validTripModel(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	m, cmd := m.Update(tripCreatedMsg{gen: m.gen, trip: sampleTrip()})
	if m.state != tripSchedule {
		t.Fatalf("expected schedule, got state %d", m.state)
	}
	if cmd == nil {
		t.Error("expected toast and refresh tick")
	}
	view := m.View()
	for _, want := range []string{"Tokyo spring", "Day 1", "Day 2", "Senso-ji", "picnic"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q, got:\n%s", want, view)
		}
	}
}

func TestTripCreatedPendingWaitsWithoutPoller(t *testing.T) {
	m := validTripModel(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	m, cmd := m.Update(tripCreatedMsg{gen: m.gen, trip: &domain.Trip{TripID: 4}})
	if m.state != tripCreating {
		t.Errorf("expected to keep waiting, got state %d", m.state)
	}
	if cmd != nil {
		t.Error("no poller configured, expected no command")
	}
}

func TestTripDailyLimit(t *testing.T) {
	m := validTripModel(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	err := fmt.Errorf("trip.Create: %w", trip.ErrDailyLimit)
	m, _ = m.Update(tripCreatedMsg{gen: m.gen, err: err})
	if m.state != tripForm {
		t.Fatalf("expected back to form, got state %d", m.state)
	}
	if !strings.Contains(m.statusLine(), trip.ErrDailyLimit.Error()) {
		t.Errorf("expected daily limit message, got %q", m.statusLine())
	}
}

func TestTripItineraryErrorReturnsToForm(t *testing.T) {
	m := validTripModel(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	m, _ = m.Update(itineraryReadyMsg{gen: m.gen, err: &client.HTTPError{StatusCode: 500, Message: "generator failed"}})
	if m.state != tripForm || !strings.Contains(m.statusLine(), "generator failed") {
		t.Errorf("expected form with error, got state=%d status=%q", m.state, m.statusLine())
	}
}

func TestTripScheduleNavigation(t *testing.T) {
	m := newTestTripModel(t, 15).showSchedule(sampleTrip())
	if m.day != 1 {
		t.Fatalf("expected day 1, got %d", m.day)
	}

	m, _ = m.Update(runes("j"))
	if m.actCursor != 1 {
		t.Errorf("expected cursor 1, got %d", m.actCursor)
	}
	m, _ = m.Update(runes("]"))
	if m.day != 2 || m.actCursor != 0 {
		t.Errorf("expected day 2 cursor 0, got day %d cursor %d", m.day, m.actCursor)
	}
	m, _ = m.Update(runes("]"))
	if m.day != 2 {
		t.Errorf("expected to stay on the last day, got %d", m.day)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.day != 1 {
		t.Errorf("expected day 1 after left, got %d", m.day)
	}
}

func TestTripMemoEdit(t *testing.T) {
	m := newTestTripModel(t, 15).showSchedule(sampleTrip())
	m, _ = m.Update(runes("j"))
	m, _ = m.Update(runes("m"))
	if m.state != tripEditingMemo || m.memo != "picnic" {
		t.Fatalf("expected memo editing with 'picnic', got state=%d memo=%q", m.state, m.memo)
	}
	if !m.isEditing() {
		t.Error("memo editing should capture keys")
	}
	m = typeText(m, "!")
	if !strings.Contains(m.statusLine(), "picnic!") {
		t.Errorf("expected memo in status line, got %q", m.statusLine())
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != tripSchedule || cmd == nil {
		t.Error("expected save request and return to schedule")
	}
}

func TestTripScheduleRefresh(t *testing.T) {
	m := newTestTripModel(t, 15).showSchedule(sampleTrip())

	_, cmd := m.Update(scheduleTickMsg{gen: m.gen - 1})
	if cmd != nil {
		t.Error("expected stale tick ignored")
	}

	updated := sampleTrip()
	updated.Itineraries = updated.Itineraries[1:]
	m, cmd = m.Update(scheduleLoadedMsg{gen: m.gen, trip: updated})
	if m.day != 2 {
		t.Errorf("expected day reset to the first remaining day, got %d", m.day)
	}
	if cmd == nil {
		t.Error("expected next refresh tick")
	}
}

func TestTripPlaceSearchResults(t *testing.T) {
	m := newTestTripModel(t, 15)
	m = focusField(m, fieldPlaces)
	m = typeText(m, "tower")

	m, _ = m.Update(placesFoundMsg{query: "old query", places: []domain.Place{{GooglePlaceID: "x", Name: "Stale"}}})
	if len(m.results) != 0 {
		t.Fatal("expected results for an old query ignored")
	}

	places := []domain.Place{
		{GooglePlaceID: "p1", Name: "Tokyo Tower"},
		{GooglePlaceID: "p2", Name: "Skytree"},
	}
	m, _ = m.Update(placesFoundMsg{query: "tower", places: places})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	if len(m.places) != 1 || m.places[0].Name != "Skytree" {
		t.Fatalf("expected Skytree added, got %+v", m.places)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	if len(m.places) != 1 || !strings.Contains(m.statusLine(), "already added") {
		t.Errorf("expected duplicate rejected, got %d places status %q", len(m.places), m.statusLine())
	}
	if !strings.Contains(m.View(), "wanted: Skytree") {
		t.Errorf("expected wanted list, got:\n%s", m.View())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	if len(m.places) != 0 {
		t.Errorf("expected place dropped, got %d", len(m.places))
	}
}
