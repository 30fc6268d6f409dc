package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/planit-ai/planit/pkg/domain"
)

// Shimmer animation for the PLANIT logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "P L A N I T" as a slow wave running from deep
// ocean (#123049) to sky (#5ec8f2).
func renderShimmerLogo(frame int) string {
	const text = "PLANIT"
	n := len(text)

	var out strings.Builder
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)
		b = b*0.75 + math.Sin(t*0.035)*0.12 + 0.18
		b = math.Max(0.05, math.Min(1.0, b))

		r := clampByte(18 + b*(94-18))
		g := clampByte(48 + b*(200-48))
		bl := clampByte(73 + b*(242-73))

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, bl)))
		out.WriteString(s.Render(string(text[i])))

		if i < n-1 {
			out.WriteString("  ")
		}
	}

	return out.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#38bdf8"))

	likeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f472b6"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	goldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#111118")).
			Background(lipgloss.Color("#f472b6")).
			Bold(true)

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	commentTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#8890a0"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#38bdf8")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	themeColors = map[string]lipgloss.Color{
		"healing":     lipgloss.Color("#86efac"),
		"food":        lipgloss.Color("#f0944a"),
		"activity":    lipgloss.Color("#e06060"),
		"photo-spots": lipgloss.Color("#c084e0"),
		"culture-art": lipgloss.Color("#b080d0"),
		"sightseeing": lipgloss.Color("#38bdf8"),
		"shopping":    lipgloss.Color("#d4a844"),
		"nature":      lipgloss.Color("#4ade80"),
	}

	boardColors = map[string]lipgloss.Color{
		domain.BoardFree:           lipgloss.Color("#8890a0"),
		domain.BoardPlanShare:      lipgloss.Color("#38bdf8"),
		domain.BoardPlaceRecommend: lipgloss.Color("#f0944a"),
	}
)

// ThemeStyle returns a bold style colored for a travel theme.
func ThemeStyle(theme string) lipgloss.Style {
	if c, ok := themeColors[theme]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// BoardBadge returns a short colored badge for a board type, e.g. "[Free talk]".
func BoardBadge(boardType string) string {
	name := boardName(boardType)
	if name == "" {
		return ""
	}
	c, ok := boardColors[boardType]
	if !ok {
		c = lipgloss.Color("#8890a0")
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render("[" + name + "]")
}

func boardName(boardType string) string {
	for _, b := range domain.Boards {
		if b.Type == boardType {
			return b.Name
		}
	}
	return ""
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpLine joins key/label pairs into a help bar.
func helpLine(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, helpEntry(pairs[i], pairs[i+1]))
	}
	return " " + strings.Join(parts, "  ")
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

var helpItems = []helpItem{
	{"Website", "planit-ai.store", "https://planit-ai.store"},
	{"Terms of Service", "planit-ai.store/terms", "https://planit-ai.store/terms"},
	{"Privacy Policy", "planit-ai.store/privacy", "https://planit-ai.store/privacy"},
}

// helpView renders the interactive help overlay with a cursor.
func helpView(cursor int) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5ec8f2")).
		Bold(true).
		Render("P L A N I T")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Plan the trip. Share the plan.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5ec8f2"))
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	commands := []struct{ cmd, desc string }{
		{"planit", "Open the interactive TUI"},
		{"planit login", "Sign in with your login id"},
		{"planit logout", "Clear your session"},
		{"planit trip show", "Print your current itinerary"},
		{"planit version", "Show version"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n  %s\n\n", title, tagline)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Links (enter to open)"))
	for i, item := range helpItems {
		label := cmdStyle.Render(fmt.Sprintf("%-20s", item.label))
		prefix := "    "
		if i == cursor {
			label = cursorStyle.Render(fmt.Sprintf("%-20s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(item.desc))
	}
	return b.String()
}
