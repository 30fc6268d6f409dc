package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/planit-ai/planit/internal/browser"
	"github.com/planit-ai/planit/internal/upload"
	"github.com/planit-ai/planit/internal/validate"
	"github.com/planit-ai/planit/pkg/client"
	"github.com/planit-ai/planit/pkg/domain"
)

type meState int

const (
	meNormal meState = iota
	meEditing
	meAvatar
	meConfirmDelete
	meConfirmWithdraw
)

type profileField int

const (
	profileNickname profileField = iota
	profilePassword
	profileConfirm
	numProfileFields
)

var errNicknameTaken = errors.New("nickname is already taken")

type myPageLoadedMsg struct {
	page *domain.MyPage
	err  error
}

type profileSavedMsg struct {
	profile *domain.AccountProfile
	toast   string
	err     error
}

type planDeletedMsg struct {
	planID int64
	err    error
}

type withdrawnMsg struct {
	err error
}

// meModel is the account page: profile, activity counters and joined plans.
type meModel struct {
	deps    Deps
	page    *domain.MyPage
	cursor  int
	loading bool
	err     string
	state   meState
	fields  [numProfileFields]string
	focus   profileField
	path    string
	saving  bool
	status  string
	width   int
	height  int
}

func newMeModel(d Deps) meModel {
	return meModel{deps: d, loading: true}
}

func (m meModel) Init() tea.Cmd {
	c := m.deps.Client
	return func() tea.Msg {
		p, err := c.GetMyPage(context.Background())
		return myPageLoadedMsg{page: p, err: err}
	}
}

func (m meModel) plans() []domain.PlanPreview {
	if m.page == nil {
		return nil
	}
	return m.page.PlanPreviews
}

func (m meModel) Update(msg tea.Msg) (meModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case myPageLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errorText(msg.err)
			return m, nil
		}
		m.err = ""
		m.page = msg.page
		m.cursor = clampCursor(m.cursor, len(m.plans()))

	case profileSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.status = errorText(msg.err)
			return m, nil
		}
		m.state = meNormal
		m.status = ""
		m.fields = [numProfileFields]string{}
		m.path = ""
		if msg.profile != nil {
			m.deps.Auth.SetUser(msg.profile.Profile())
		}
		return m, tea.Batch(showToast(msg.toast), m.Init())

	case planDeletedMsg:
		if msg.err != nil {
			return m, showError(msg.err)
		}
		return m, tea.Batch(showToast("plan removed"), m.Init())

	case withdrawnMsg:
		if msg.err != nil {
			return m, showError(msg.err)
		}
		m.deps.Auth.ClearAuth()
		return m, nil

	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}
		switch m.state {
		case meEditing:
			return m.updateEdit(msg)
		case meAvatar:
			return m.updateAvatar(msg)
		case meConfirmDelete, meConfirmWithdraw:
			return m.updateConfirm(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m meModel) updateKeys(msg tea.KeyMsg) (meModel, tea.Cmd) {
	plans := m.plans()
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(plans)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if len(plans) > 0 && plans[m.cursor].PostID != 0 {
			id := plans[m.cursor].PostID
			return m, func() tea.Msg { return openPostMsg{postID: id} }
		}
	case "e":
		if m.page == nil {
			return m, nil
		}
		m.state = meEditing
		m.focus = profileNickname
		m.fields = [numProfileFields]string{m.page.Nickname, "", ""}
	case "a":
		m.state = meAvatar
		m.path = ""
	case "A":
		if m.page == nil || m.page.ProfileImageURL == "" {
			return m, nil
		}
		m.saving = true
		c := m.deps.Client
		return m, func() tea.Msg {
			p, err := c.DeleteProfileImage(context.Background())
			return profileSavedMsg{profile: p, toast: "avatar removed", err: err}
		}
	case "v":
		if m.page == nil {
			return m, nil
		}
		u := m.deps.Images.Avatar(m.page.ProfileImageURL)
		if u == "" {
			return m, showToast("no avatar to show")
		}
		if err := browser.Open(u); err != nil {
			return m, showError(err)
		}
	case "x":
		if len(plans) > 0 {
			m.state = meConfirmDelete
		}
	case "W":
		m.state = meConfirmWithdraw
	case "o":
		m.deps.Auth.ClearAuth()
	case "r":
		m.loading = true
		return m, m.Init()
	}
	return m, nil
}

func (m meModel) updateEdit(msg tea.KeyMsg) (meModel, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "esc":
		m.state = meNormal
		m.fields = [numProfileFields]string{}
	case "tab", "down":
		m.focus = (m.focus + 1) % numProfileFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numProfileFields) % numProfileFields
	case "ctrl+s":
		return m.saveProfile()
	case "enter":
		if m.focus == numProfileFields-1 {
			return m.saveProfile()
		}
		m.focus++
	default:
		m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
	}
	return m, nil
}

func (m meModel) saveProfile() (meModel, tea.Cmd) {
	form := validate.ProfileForm{
		Nickname:        strings.TrimSpace(m.fields[profileNickname]),
		Password:        m.fields[profilePassword],
		PasswordConfirm: m.fields[profileConfirm],
	}
	if err := m.deps.Validator.Profile(form); err != nil {
		m.status = errorText(err)
		return m, nil
	}
	m.saving = true
	c := m.deps.Client
	changed := m.page == nil || form.Nickname != m.page.Nickname
	req := client.UpdateProfileRequest{
		Nickname:             form.Nickname,
		Password:             form.Password,
		PasswordConfirmation: form.PasswordConfirm,
	}
	if m.page != nil {
		req.ProfileImageID = m.page.ProfileImageID
	}
	return m, func() tea.Msg {
		ctx := context.Background()
		if changed {
			a, err := c.CheckNickname(ctx, form.Nickname)
			if err != nil {
				return profileSavedMsg{err: err}
			}
			if !a.Available {
				return profileSavedMsg{err: errNicknameTaken}
			}
		}
		p, err := c.UpdateProfile(ctx, req)
		return profileSavedMsg{profile: p, toast: "profile updated", err: err}
	}
}

func (m meModel) updateAvatar(msg tea.KeyMsg) (meModel, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "esc":
		m.state = meNormal
		m.path = ""
	case "enter":
		path := strings.TrimSpace(m.path)
		if path == "" {
			return m, nil
		}
		m.saving = true
		d := m.deps
		return m, func() tea.Msg {
			ctx := context.Background()
			c := d.Client
			key, err := upload.File(ctx, d.Validator, c, c.ProfilePresignedURL, path)
			if err != nil {
				return profileSavedMsg{err: err}
			}
			p, err := c.SaveProfileImageKey(ctx, key)
			return profileSavedMsg{profile: p, toast: "avatar updated", err: err}
		}
	default:
		m.path = editRune(m.path, msg.String())
	}
	return m, nil
}

func (m meModel) updateConfirm(msg tea.KeyMsg) (meModel, tea.Cmd) {
	state := m.state
	m.state = meNormal
	if msg.String() != "y" {
		return m, nil
	}
	c := m.deps.Client
	switch state {
	case meConfirmDelete:
		plans := m.plans()
		if len(plans) == 0 {
			return m, nil
		}
		id := plans[m.cursor].PlanID
		return m, func() tea.Msg {
			return planDeletedMsg{planID: id, err: c.DeletePlan(context.Background(), id)}
		}
	case meConfirmWithdraw:
		return m, func() tea.Msg {
			return withdrawnMsg{err: c.Withdraw(context.Background())}
		}
	}
	return m, nil
}

func (m meModel) View() string {
	if m.loading && m.page == nil {
		return " " + dimStyle.Render("loading...")
	}
	if m.err != "" && m.page == nil {
		return " " + errorStyle.Render("error: "+m.err)
	}
	if m.state == meEditing {
		return m.editView()
	}

	p := m.page
	var sb strings.Builder
	sb.WriteString(" " + selectedStyle.Render(p.Nickname) + " " + metaStyle.Render("@"+p.LoginID) + "\n")
	if avatar := m.deps.Images.Avatar(p.ProfileImageURL); avatar != "" {
		sb.WriteString(" " + metaStyle.Render("avatar ") + dimStyle.Render(truncStr(avatar, max(m.width-10, 20))) + "\n")
	}
	sb.WriteString("\n")
	stats := []struct {
		label string
		n     int
	}{
		{"posts", p.PostCount},
		{"comments", p.CommentCount},
		{"likes", p.LikeCount},
		{"alerts", p.NotificationCount},
	}
	var parts []string
	for _, s := range stats {
		parts = append(parts, accentStyle.Render(fmt.Sprintf("%d", s.n))+" "+metaStyle.Render(s.label))
	}
	sb.WriteString(" " + strings.Join(parts, metaStyle.Render(" · ")) + "\n\n")

	sb.WriteString(" " + sectionHeaderStyle.Render("MY PLANS") + "\n")
	plans := m.plans()
	if len(plans) == 0 {
		sb.WriteString("   " + dimStyle.Render("no plans yet") + "\n")
	}
	for i, pl := range plans {
		role := ""
		if pl.Leader {
			role = goldStyle.Render("★ ")
		}
		line := role + truncStr(cleanTitle(pl.Title), 40) + "  " + BoardBadge(pl.BoardType) + "  " + metaStyle.Render(strings.ToLower(pl.Status))
		if i == m.cursor {
			sb.WriteString(" " + accentStyle.Render("▸") + " " + selectedStyle.Render(line) + "\n")
		} else {
			sb.WriteString("   " + normalStyle.Render(line) + "\n")
		}
	}
	return sb.String()
}

func (m meModel) editView() string {
	var sb strings.Builder
	sb.WriteString(" " + sectionHeaderStyle.Render("EDIT PROFILE") + "\n\n")
	labels := [numProfileFields]string{"nickname", "password", "confirm"}
	for f := profileField(0); f < numProfileFields; f++ {
		cursor := " "
		if f == m.focus {
			cursor = accentStyle.Render("▸")
		}
		placeholder := ""
		if f != profileNickname {
			placeholder = "leave empty to keep"
		}
		secret := f != profileNickname
		fmt.Fprintf(&sb, " %s %s\n", cursor, renderInput(fmt.Sprintf("%-10s", labels[f]), m.fields[f], placeholder, f == m.focus, secret))
	}
	return sb.String()
}

func (m meModel) statusLine() string {
	switch {
	case m.saving:
		return " " + dimStyle.Render("saving...")
	case m.status != "":
		return " " + errorStyle.Render(m.status)
	}
	switch m.state {
	case meAvatar:
		return " " + renderInput("avatar ", m.path, "path to a jpg, png or webp", true, false)
	case meConfirmDelete:
		if plans := m.plans(); len(plans) > 0 {
			return " " + errorStyle.Render(fmt.Sprintf("remove %q? y/n", truncStr(plans[m.cursor].Title, 30)))
		}
	case meConfirmWithdraw:
		return " " + errorStyle.Render("delete your account for good? y/n")
	}
	return ""
}

func (m meModel) helpKeys() string {
	switch m.state {
	case meEditing:
		return helpLine("tab", "next", "ctrl+s", "save", "esc", "cancel")
	case meAvatar:
		return helpLine("enter", "upload", "esc", "cancel")
	case meConfirmDelete, meConfirmWithdraw:
		return helpLine("y", "confirm", "any", "cancel")
	}
	return helpLine("j/k", "nav", "enter", "open", "e", "edit", "a", "avatar", "v", "view avatar", "x", "remove plan", "o", "sign out", "W", "withdraw", "h", "help", "q", "quit")
}
