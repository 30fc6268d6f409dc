// Package tui is the interactive planit terminal UI.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/planit-ai/planit/internal/auth"
	"github.com/planit-ai/planit/internal/browser"
	"github.com/planit-ai/planit/internal/imageurl"
	"github.com/planit-ai/planit/internal/notify"
	"github.com/planit-ai/planit/internal/storage"
	"github.com/planit-ai/planit/internal/trip"
	"github.com/planit-ai/planit/internal/validate"
	"github.com/planit-ai/planit/pkg/client"
	"github.com/planit-ai/planit/pkg/domain"
)

type view int

const (
	viewHome view = iota
	viewBoard
	viewAlerts
	viewMe
	viewTrip
	viewLogin
)

// unreadRefreshDelay gives the backend a beat to settle after a mark-read
// before the badge is re-fetched.
const unreadRefreshDelay = 300 * time.Millisecond

// Deps are the services the TUI talks to. Nil services are replaced with
// in-memory defaults by NewApp; a nil Client is only safe in tests that
// never run the returned commands.
type Deps struct {
	Client          *client.Client
	Auth            *auth.Store
	Hub             *notify.Hub
	Images          *imageurl.Resolver
	Validator       *validate.Validator
	Poller          *trip.Poller
	ScheduleRefresh time.Duration
	Logger          *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Auth == nil {
		d.Auth = auth.NewStore(storage.NewMemoryStorage(), nil)
	}
	if d.Hub == nil {
		d.Hub = notify.NewHub()
	}
	if d.Images == nil {
		d.Images = imageurl.New("", "")
	}
	if d.Validator == nil {
		d.Validator = validate.New()
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.DiscardHandler)
	}
	if d.ScheduleRefresh <= 0 {
		d.ScheduleRefresh = time.Minute
	}
	return d
}

// authChangedMsg is delivered whenever the Auth Store signals a change.
type authChangedMsg struct{}

// unreadMsg carries the latest unread count from the hub.
type unreadMsg struct {
	count int
}

// refreshUnreadMsg asks the app to re-fetch the unread count.
type refreshUnreadMsg struct{}

// openPostMsg jumps to a post detail on the Board tab.
type openPostMsg struct {
	postID int64
}

// openScheduleMsg shows an existing itinerary in the trip view.
type openScheduleMsg struct {
	trip *domain.Trip
}

// App is the root Bubbletea model.
type App struct {
	deps   Deps
	view   view
	home   homeModel
	board  boardModel
	alerts alertsModel
	me     meModel
	trip   tripModel
	login  loginModel
	toast  toastModel

	helpOpen   bool
	helpCursor int
	user       *domain.UserProfile
	unread     int
	width      int
	height     int
	frame      int // logo shimmer animation frame

	authCh   <-chan struct{}
	unreadCh <-chan notify.UnreadCount
	unsubs   []func()
	done     chan struct{}
}

// NewApp creates a new TUI application. Call Close once the program exits.
func NewApp(d Deps) App {
	d = d.withDefaults()
	a := App{
		deps:   d,
		home:   newHomeModel(d),
		board:  newBoardModel(d),
		alerts: newAlertsModel(d),
		me:     newMeModel(d),
		trip:   newTripModel(d),
		login:  newLoginModel(d),
		user:   d.Auth.User(),
		done:   make(chan struct{}),
	}
	authCh, unsubAuth := d.Auth.Subscribe()
	unreadCh, unsubUnread := d.Hub.Subscribe()
	a.authCh, a.unreadCh = authCh, unreadCh
	a.unsubs = []func(){unsubAuth, unsubUnread}
	if !d.Auth.Snapshot().LoggedIn() {
		a.view = viewLogin
	}
	return a
}

// Close releases the store and hub subscriptions.
func (a App) Close() {
	for _, u := range a.unsubs {
		u()
	}
	select {
	case <-a.done:
	default:
		close(a.done)
	}
	a.trip.cancel()
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{shimmerTickCmd(), a.waitForAuth(), a.waitForUnread()}
	if a.view != viewLogin {
		cmds = append(cmds, a.home.Init(), a.refreshUnread())
	}
	return tea.Batch(cmds...)
}

func (a App) waitForAuth() tea.Cmd {
	ch, done := a.authCh, a.done
	return func() tea.Msg {
		select {
		case <-ch:
			return authChangedMsg{}
		case <-done:
			return nil
		}
	}
}

func (a App) waitForUnread() tea.Cmd {
	ch, done := a.unreadCh, a.done
	return func() tea.Msg {
		select {
		case c := <-ch:
			return unreadMsg{count: c.Count}
		case <-done:
			return nil
		}
	}
}

// refreshUnread fetches the unread count and publishes it on the hub; the
// subscription turns it into an unreadMsg.
func (a App) refreshUnread() tea.Cmd {
	c, hub, logger := a.deps.Client, a.deps.Hub, a.deps.Logger
	return func() tea.Msg {
		n, err := c.UnreadNotificationCount(context.Background())
		if err != nil {
			logger.Debug("unread count", "error", err)
			return nil
		}
		hub.Publish(notify.UnreadCount{Count: n})
		return nil
	}
}

func delayedUnreadRefresh() tea.Cmd {
	return tea.Tick(unreadRefreshDelay, func(time.Time) tea.Msg {
		return refreshUnreadMsg{}
	})
}

func (a App) bodySize() tea.WindowSizeMsg {
	// Chrome: header(2) + tabs(1) + status(1) + help(1) = 5 lines
	return tea.WindowSizeMsg{Width: a.width, Height: a.height - 5}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		bodyMsg := a.bodySize()
		a.home, _ = a.home.Update(bodyMsg)
		a.board, _ = a.board.Update(bodyMsg)
		a.alerts, _ = a.alerts.Update(bodyMsg)
		a.me, _ = a.me.Update(bodyMsg)
		a.trip, _ = a.trip.Update(bodyMsg)
		a.login, _ = a.login.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case toastMsg, toastExpiredMsg:
		var cmd tea.Cmd
		a.toast, cmd = a.toast.Update(msg)
		return a, cmd

	case authChangedMsg:
		return a.onAuthChanged()

	case unreadMsg:
		a.unread = msg.count
		return a, a.waitForUnread()

	case refreshUnreadMsg:
		return a, a.refreshUnread()

	case openPostMsg:
		a.view = viewBoard
		var cmd tea.Cmd
		a.board, cmd = a.board.openPost(msg.postID)
		return a, cmd

	case openScheduleMsg:
		a.view = viewTrip
		a.trip = a.trip.showSchedule(msg.trip)
		return a, a.trip.scheduleTick()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		if a.helpOpen {
			switch msg.String() {
			case "h", "esc":
				a.helpOpen = false
			case "q":
				return a, tea.Quit
			case "j", "down":
				if a.helpCursor < len(helpItems)-1 {
					a.helpCursor++
				}
			case "k", "up":
				if a.helpCursor > 0 {
					a.helpCursor--
				}
			case "enter":
				if err := browser.Open(helpItems[a.helpCursor].url); err != nil {
					return a, showError(err)
				}
			}
			return a, nil
		}

		if a.view == viewLogin {
			break
		}

		if !a.isEditing() {
			switch msg.String() {
			case "h":
				a.helpOpen = true
				a.helpCursor = 0
				return a, nil
			case "q":
				return a, tea.Quit
			case "1":
				return a.switchTo(viewHome, a.home.Init)
			case "2":
				return a.switchTo(viewBoard, a.board.Init)
			case "3":
				return a.switchTo(viewAlerts, a.alerts.Init)
			case "4":
				return a.switchTo(viewMe, a.me.Init)
			case "n":
				if a.view != viewTrip {
					a.trip.cancel()
					a.trip = newTripModel(a.deps).sized(a.bodySize())
					a.view = viewTrip
					return a, nil
				}
			case "esc":
				if a.view == viewTrip {
					a.trip.cancel()
					a.view = viewHome
					return a, a.home.Init()
				}
			}
		} else if msg.String() == "esc" && a.view == viewTrip && a.trip.state == tripForm {
			a.view = viewHome
			return a, a.home.Init()
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewHome:
		a.home, cmd = a.home.Update(msg)
	case viewBoard:
		a.board, cmd = a.board.Update(msg)
	case viewAlerts:
		a.alerts, cmd = a.alerts.Update(msg)
	case viewMe:
		a.me, cmd = a.me.Update(msg)
	case viewTrip:
		a.trip, cmd = a.trip.Update(msg)
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	}

	return a, cmd
}

func (a App) switchTo(v view, init func() tea.Cmd) (tea.Model, tea.Cmd) {
	if a.view == v {
		return a, nil
	}
	if a.view == viewTrip {
		a.trip.cancel()
	}
	a.view = v
	return a, init()
}

// onAuthChanged re-reads the store. Losing the session from anywhere
// (logout, withdrawal, a rejected token) lands on the login screen.
func (a App) onAuthChanged() (tea.Model, tea.Cmd) {
	sess := a.deps.Auth.Snapshot()
	a.user = sess.User
	cmds := []tea.Cmd{a.waitForAuth()}

	switch {
	case !sess.LoggedIn() && a.view != viewLogin:
		a.trip.cancel()
		a.view = viewLogin
		a.helpOpen = false
		a.unread = 0
		a.home = newHomeModel(a.deps)
		a.board = newBoardModel(a.deps)
		a.alerts = newAlertsModel(a.deps)
		a.me = newMeModel(a.deps)
		a.trip = newTripModel(a.deps)
		a.login = newLoginModel(a.deps)
		size := a.bodySize()
		a.home, _ = a.home.Update(size)
		a.board, _ = a.board.Update(size)
		a.alerts, _ = a.alerts.Update(size)
		a.me, _ = a.me.Update(size)
		a.trip = a.trip.sized(size)
		a.login, _ = a.login.Update(size)
		cmds = append(cmds, showToast("signed out"))

	case sess.LoggedIn() && a.view == viewLogin:
		a.view = viewHome
		cmds = append(cmds, a.home.Init(), a.refreshUnread())
	}
	return a, tea.Batch(cmds...)
}

func (a App) isEditing() bool {
	switch a.view {
	case viewLogin:
		return true
	case viewHome:
		return a.home.confirming
	case viewAlerts:
		return false
	case viewBoard:
		return a.board.isEditing()
	case viewMe:
		return a.me.state != meNormal
	case viewTrip:
		return a.trip.isEditing()
	}
	return false
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)
	logoPad := max((a.width-lipgloss.Width(logo))/2, 0)
	header := strings.Repeat(" ", logoPad) + logo

	statsLine := ""
	if a.user != nil {
		parts := []string{a.user.Nickname, "@" + a.user.LoginID}
		if a.unread > 0 {
			parts = append(parts, fmt.Sprintf("%d unread", a.unread))
		}
		statsLine = metaStyle.Render(strings.Join(parts, " · "))
	}
	statsPad := max((a.width-lipgloss.Width(statsLine))/2, 0)
	header += "\n" + strings.Repeat(" ", statsPad) + statsLine

	body, help := a.bodyAndHelp()

	if a.helpOpen {
		body = helpView(a.helpCursor)
		help = helpLine("j/k", "nav", "enter", "open", "esc", "close")
	}

	status := a.toast.View()
	if !a.toast.visible() {
		status = a.statusBar()
	}

	chrome := 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, a.tabBar(), body, status, help)
}

func (a App) bodyAndHelp() (string, string) {
	switch a.view {
	case viewHome:
		return a.home.View(), helpLine("1-4", "tabs") + "  " + a.home.helpKeys()
	case viewBoard:
		return a.board.View(), helpLine("1-4", "tabs") + "  " + a.board.helpKeys()
	case viewAlerts:
		return a.alerts.View(), helpLine("1-4", "tabs") + "  " + a.alerts.helpKeys()
	case viewMe:
		return a.me.View(), helpLine("1-4", "tabs") + "  " + a.me.helpKeys()
	case viewTrip:
		return a.trip.View(), " " + a.trip.helpKeys()
	case viewLogin:
		return a.login.View(), " " + a.login.helpKeys()
	}
	return "", ""
}

// statusBar is the persistent line under the body when no toast is showing.
func (a App) statusBar() string {
	switch a.view {
	case viewBoard:
		return a.board.inputBar()
	case viewTrip:
		return a.trip.statusLine()
	case viewLogin:
		return a.login.statusLine()
	case viewMe:
		return a.me.statusLine()
	}
	return ""
}

func (a App) tabBar() string {
	if a.view == viewLogin {
		label := selectedStyle.Render("sign in")
		return strings.Repeat(" ", max((a.width-lipgloss.Width(label))/2, 0)) + label
	}

	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Home", viewHome},
		{"2", "Board", viewBoard},
		{"3", "Alerts", viewAlerts},
		{"4", "Me", viewMe},
	}

	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		if t.v == viewAlerts && a.unread > 0 {
			label += " " + badgeStyle.Render(fmt.Sprintf(" %d ", a.unread))
		}
		labelWidth := lipgloss.Width(label)
		leftPad := max((colWidth-labelWidth)/2, 0)
		rightPad := max(colWidth-labelWidth-leftPad, 0)
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	return tabBar.String()
}
