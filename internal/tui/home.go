package tui

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/planit-ai/planit/pkg/client"
	"github.com/planit-ai/planit/pkg/domain"
)

type homeLoadedMsg struct {
	trip     *domain.Trip
	plans    []domain.PlanPreview
	tripErr  error
	plansErr error
}

type tripDeletedMsg struct {
	err error
}

// homeModel shows the current itinerary and the plans the user joined.
type homeModel struct {
	deps       Deps
	trip       *domain.Trip
	plans      []domain.PlanPreview
	cursor     int
	loading    bool
	err        string
	confirming bool
	width      int
	height     int
}

func newHomeModel(d Deps) homeModel {
	return homeModel{deps: d, loading: true}
}

func (m homeModel) Init() tea.Cmd {
	return m.load()
}

func (m homeModel) load() tea.Cmd {
	c := m.deps.Client
	return func() tea.Msg {
		ctx := context.Background()
		t, tripErr := c.MyItineraries(ctx)
		plans, plansErr := c.ListMyPlans(ctx)
		return homeLoadedMsg{trip: t, plans: plans, tripErr: tripErr, plansErr: plansErr}
	}
}

// rows is the number of selectable rows: the trip (when present) then plans.
func (m homeModel) rows() int {
	n := len(m.plans)
	if m.hasTrip() {
		n++
	}
	return n
}

func (m homeModel) hasTrip() bool {
	return m.trip != nil && m.trip.Ready()
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case homeLoadedMsg:
		m.loading = false
		m.err = ""
		// No current trip comes back as 404.
		if msg.tripErr != nil && !client.IsStatus(msg.tripErr, http.StatusNotFound) {
			m.err = errorText(msg.tripErr)
		}
		m.trip = msg.trip
		if msg.plansErr != nil && m.err == "" {
			m.err = errorText(msg.plansErr)
		}
		m.plans = msg.plans
		m.cursor = clampCursor(m.cursor, m.rows())
		return m, nil

	case tripDeletedMsg:
		if msg.err != nil {
			return m, showError(msg.err)
		}
		m.trip = nil
		m.cursor = 0
		return m, tea.Batch(showToast("trip deleted"), m.load())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m homeModel) updateKeys(msg tea.KeyMsg) (homeModel, tea.Cmd) {
	if m.confirming {
		m.confirming = false
		if msg.String() == "y" {
			c := m.deps.Client
			return m, func() tea.Msg {
				return tripDeletedMsg{err: c.DeleteTrip(context.Background())}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		if m.cursor < m.rows()-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "r":
		m.loading = true
		return m, m.load()
	case "x":
		if m.hasTrip() && m.cursor == 0 {
			m.confirming = true
		}
	case "enter":
		if m.rows() == 0 {
			return m, nil
		}
		if m.hasTrip() && m.cursor == 0 {
			t := m.trip
			return m, func() tea.Msg { return openScheduleMsg{trip: t} }
		}
		idx := m.cursor
		if m.hasTrip() {
			idx--
		}
		if p := m.plans[idx]; p.PostID != 0 {
			return m, func() tea.Msg { return openPostMsg{postID: p.PostID} }
		}
	}
	return m, nil
}

func (m homeModel) View() string {
	if m.loading && m.trip == nil && len(m.plans) == 0 {
		return " " + dimStyle.Render("loading...")
	}

	var sb strings.Builder
	if m.err != "" {
		sb.WriteString(" " + errorStyle.Render("error: "+m.err) + "\n\n")
	}

	sb.WriteString(" " + sectionHeaderStyle.Render("MY TRIP") + "\n")
	row := 0
	if m.hasTrip() {
		title := m.trip.Title
		if title == "" {
			title = "Untitled trip"
		}
		line := fmt.Sprintf("%s  %s", truncStr(cleanTitle(title), 40), metaStyle.Render(fmt.Sprintf("%d days", len(m.trip.Itineraries))))
		sb.WriteString(m.renderRow(row, line) + "\n")
		if m.confirming {
			sb.WriteString("   " + errorStyle.Render("delete this trip? y/n") + "\n")
		}
		row++
	} else {
		sb.WriteString("   " + dimStyle.Render("no trip yet, press n to plan one") + "\n")
	}

	sb.WriteString("\n " + sectionHeaderStyle.Render("MY PLANS") + "\n")
	if len(m.plans) == 0 {
		sb.WriteString("   " + dimStyle.Render("no plans yet") + "\n")
	}
	for _, p := range m.plans {
		role := ""
		if p.Leader {
			role = goldStyle.Render("★ ")
		}
		line := role + truncStr(cleanTitle(p.Title), 40) + "  " + BoardBadge(p.BoardType) + "  " + metaStyle.Render(strings.ToLower(p.Status))
		sb.WriteString(m.renderRow(row, line) + "\n")
		row++
	}
	return sb.String()
}

func (m homeModel) renderRow(row int, line string) string {
	if row == m.cursor {
		return " " + accentStyle.Render("▸") + " " + selectedStyle.Render(line)
	}
	return "   " + normalStyle.Render(line)
}

func (m homeModel) helpKeys() string {
	if m.hasTrip() && m.cursor == 0 {
		return helpLine("j/k", "nav", "enter", "open", "x", "delete", "n", "new trip", "r", "refresh", "h", "help", "q", "quit")
	}
	return helpLine("j/k", "nav", "enter", "open", "n", "new trip", "r", "refresh", "h", "help", "q", "quit")
}
