package tui

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/planit-ai/planit/pkg/client"
	"github.com/planit-ai/planit/pkg/domain"
)

func newTestHomeModel(t *testing.T) homeModel {
	m := newHomeModel(testDeps(t))
	m.width = 80
	m.height = 24
	return m
}

func sampleTrip() *domain.Trip {
	return &domain.Trip{
		TripID: 11,
		Title:  "Tokyo spring",
		Itineraries: []domain.TripItinerary{
			{Day: 1, DayID: 101, Activities: []domain.TripActivity{
				{ActivityID: 1, StartTime: "10:00", PlaceName: "Senso-ji", GoogleMapURL: "https://maps.google.com/?q=sensoji"},
				{ActivityID: 2, StartTime: "13:00", PlaceName: "Ueno Park", Memo: "picnic"},
			}},
			{Day: 2, DayID: 102, Activities: []domain.TripActivity{
				{ActivityID: 3, StartTime: "09:30", PlaceName: "Tsukiji"},
			}},
		},
	}
}

func TestHomeLoadedShowsTripAndPlans(t *testing.T) {
	m := newTestHomeModel(t)
	m, _ = m.Update(homeLoadedMsg{
		trip: sampleTrip(),
		plans: []domain.PlanPreview{
			{PlanID: 1, PostID: 50, Title: "Jeju hike", Status: "RECRUITING", BoardType: domain.BoardPlanShare, Leader: true},
		},
	})

	view := m.View()
	for _, want := range []string{"MY TRIP", "Tokyo spring", "2 days", "MY PLANS", "Jeju hike", "★", "recruiting"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q, got:\n%s", want, view)
		}
	}
}

func TestHomeMissingTripIsNotAnError(t *testing.T) {
	m := newTestHomeModel(t)
	m, _ = m.Update(homeLoadedMsg{tripErr: &client.HTTPError{StatusCode: http.StatusNotFound, Message: "no trip"}})

	view := m.View()
	if strings.Contains(view, "error") {
		t.Errorf("404 for the trip should not show an error, got:\n%s", view)
	}
	if !strings.Contains(view, "no trip yet") {
		t.Errorf("expected empty trip hint, got:\n%s", view)
	}
}

func TestHomeLoadError(t *testing.T) {
	m := newTestHomeModel(t)
	m, _ = m.Update(homeLoadedMsg{plansErr: errors.New("connection refused")})

	view := m.View()
	if !strings.Contains(view, "connection refused") {
		t.Errorf("expected error text, got:\n%s", view)
	}
}

func TestHomeEnterOpensScheduleThenPost(t *testing.T) {
	m := newTestHomeModel(t)
	m, _ = m.Update(homeLoadedMsg{
		trip:  sampleTrip(),
		plans: []domain.PlanPreview{{PlanID: 1, PostID: 50, Title: "Jeju hike"}},
	})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on enter")
	}
	if msg, ok := cmd().(openScheduleMsg); !ok || msg.trip.TripID != 11 {
		t.Errorf("expected openScheduleMsg for trip 11, got %#v", msg)
	}

	m, _ = m.Update(runes("j"))
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on enter")
	}
	if msg, ok := cmd().(openPostMsg); !ok || msg.postID != 50 {
		t.Errorf("expected openPostMsg for post 50, got %#v", msg)
	}
}

func TestHomeDeleteTripNeedsConfirm(t *testing.T) {
	m := newTestHomeModel(t)
	m, _ = m.Update(homeLoadedMsg{trip: sampleTrip()})

	m, _ = m.Update(runes("x"))
	if !m.confirming {
		t.Fatal("expected confirm prompt after 'x'")
	}
	if !strings.Contains(m.View(), "delete this trip?") {
		t.Errorf("expected confirm prompt in view, got:\n%s", m.View())
	}

	m, cmd := m.Update(runes("n"))
	if m.confirming || cmd != nil {
		t.Error("expected any key other than y to cancel without a command")
	}
}

func TestHomeTripDeleted(t *testing.T) {
	m := newTestHomeModel(t)
	m, _ = m.Update(homeLoadedMsg{trip: sampleTrip()})
	m, cmd := m.Update(tripDeletedMsg{})
	if m.trip != nil {
		t.Error("expected trip cleared")
	}
	if cmd == nil {
		t.Error("expected toast and reload")
	}
}

func TestHomeCursorClampedAfterReload(t *testing.T) {
	m := newTestHomeModel(t)
	m.cursor = 5
	m, _ = m.Update(homeLoadedMsg{plans: []domain.PlanPreview{{PlanID: 1, Title: "only"}}})
	if m.cursor != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", m.cursor)
	}
}
