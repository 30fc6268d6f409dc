package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/planit-ai/planit/internal/notify"
	"github.com/planit-ai/planit/pkg/client"
	"github.com/planit-ai/planit/pkg/domain"
)

const alertsPageSize = 20

type alertsLoadedMsg struct {
	gen    int
	append bool
	page   *domain.NotificationPage
	err    error
}

type alertReadMsg struct {
	id  int64
	err error
}

// alertsModel lists notifications, newest first, with cursor paging.
type alertsModel struct {
	deps       Deps
	items      []domain.Notification
	next       *int64
	unreadOnly bool
	cursor     int
	loading    bool
	err        string
	gen        int
	width      int
	height     int
}

func newAlertsModel(d Deps) alertsModel {
	return alertsModel{deps: d, loading: true}
}

func (m alertsModel) Init() tea.Cmd {
	return m.load(m.gen+1, nil)
}

func (m alertsModel) load(gen int, cursor *int64) tea.Cmd {
	c, hub := m.deps.Client, m.deps.Hub
	q := client.NotificationQuery{Cursor: cursor, Size: alertsPageSize}
	if m.unreadOnly {
		unread := false
		q.IsRead = &unread
	}
	return func() tea.Msg {
		page, err := c.ListNotifications(context.Background(), q)
		if err == nil {
			hub.Publish(notify.UnreadCount{Count: page.UnreadCount})
		}
		return alertsLoadedMsg{gen: gen, append: cursor != nil, page: page, err: err}
	}
}

func (m alertsModel) reload() (alertsModel, tea.Cmd) {
	m.gen++
	m.loading = true
	m.cursor = 0
	return m, m.load(m.gen, nil)
}

func (m alertsModel) Update(msg tea.Msg) (alertsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case alertsLoadedMsg:
		if msg.gen < m.gen {
			return m, nil
		}
		m.gen = msg.gen
		m.loading = false
		if msg.err != nil {
			m.err = errorText(msg.err)
			return m, nil
		}
		m.err = ""
		if msg.append {
			m.items = append(m.items, msg.page.Notifications...)
		} else {
			m.items = msg.page.Notifications
		}
		m.next = msg.page.NextCursor
		m.cursor = clampCursor(m.cursor, len(m.items))

	case alertReadMsg:
		if msg.err != nil {
			return m, showError(msg.err)
		}
		for i := range m.items {
			if m.items[i].NotificationID == msg.id {
				m.items[i].IsRead = true
			}
		}
		return m, delayedUnreadRefresh()

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m alertsModel) updateKeys(msg tea.KeyMsg) (alertsModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.items)-1 {
			m.cursor++
			return m, nil
		}
		// At the bottom, pull the next page if there is one.
		if m.next != nil && !m.loading {
			m.loading = true
			return m, m.load(m.gen, m.next)
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "u":
		m.unreadOnly = !m.unreadOnly
		return m.reload()
	case "r":
		return m.reload()
	case "enter":
		if len(m.items) == 0 {
			return m, nil
		}
		n := m.items[m.cursor]
		var cmds []tea.Cmd
		if !n.IsRead {
			c := m.deps.Client
			cmds = append(cmds, func() tea.Msg {
				return alertReadMsg{id: n.NotificationID, err: c.MarkNotificationRead(context.Background(), n.NotificationID)}
			})
		}
		if n.PostID != 0 {
			cmds = append(cmds, func() tea.Msg { return openPostMsg{postID: n.PostID} })
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func alertIcon(t string) string {
	switch t {
	case domain.NotificationComment:
		return "💬"
	case domain.NotificationLike:
		return likeStyle.Render("♥")
	case domain.NotificationKeyword:
		return goldStyle.Render("#")
	}
	return "•"
}

func (m alertsModel) View() string {
	var sb strings.Builder
	filter := "all"
	if m.unreadOnly {
		filter = "unread only"
	}
	sb.WriteString(" " + sectionHeaderStyle.Render("NOTIFICATIONS") + metaStyle.Render(" · "+filter) + "\n")

	switch {
	case m.loading && len(m.items) == 0:
		sb.WriteString(" " + dimStyle.Render("loading..."))
		return sb.String()
	case m.err != "":
		sb.WriteString(" " + errorStyle.Render("error: "+m.err))
		return sb.String()
	case len(m.items) == 0:
		sb.WriteString(" " + dimStyle.Render("nothing here yet"))
		return sb.String()
	}

	textWidth := max(m.width-20, 20)
	for i, n := range m.items {
		text := truncStr(notify.Describe(n), textWidth)
		when := metaStyle.Render(formatTime(n.CreatedAt))
		style := normalStyle
		if n.IsRead {
			style = dimStyle
		}
		dot := " "
		if !n.IsRead {
			dot = accentStyle.Render("●")
		}
		if i == m.cursor {
			sb.WriteString(" " + accentStyle.Render("▸") + dot + alertIcon(n.Type) + " " + selectedStyle.Render(text) + "  " + when + "\n")
		} else {
			sb.WriteString("  " + dot + alertIcon(n.Type) + " " + style.Render(text) + "  " + when + "\n")
		}
	}
	if m.next != nil {
		sb.WriteString("   " + metaStyle.Render("j at the bottom loads more") + "\n")
	}
	return sb.String()
}

func (m alertsModel) helpKeys() string {
	unread := "unread"
	if m.unreadOnly {
		unread = "all"
	}
	return helpLine("j/k", "nav", "enter", "open", "u", unread, "r", "refresh", "h", "help", "q", "quit")
}
