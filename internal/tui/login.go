package tui

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/planit-ai/planit/internal/validate"
	"github.com/planit-ai/planit/pkg/client"
	"github.com/planit-ai/planit/pkg/domain"
)

type loginMode int

const (
	modeLogin loginMode = iota
	modeSignup
)

type loginField int

const (
	loginFieldID loginField = iota
	loginFieldPassword
	loginFieldConfirm
	loginFieldNickname
	numLoginFields
)

type loginResultMsg struct {
	res *domain.LoginResult
	err error
}

type signupResultMsg struct {
	loginID string
	err     error
}

type availabilityMsg struct {
	field loginField
	value string
	avail *domain.Availability
	err   error
}

// loginModel is the sign-in / sign-up screen shown while logged out.
type loginModel struct {
	deps   Deps
	mode   loginMode
	fields [numLoginFields]string
	focus  loginField
	// availability notes keyed by field, only for the value they were checked against
	checked   map[loginField]string
	notes     map[loginField]string
	busy      bool
	status    string
	statusErr bool
	width     int
	height    int
}

func newLoginModel(d Deps) loginModel {
	return loginModel{
		deps:    d,
		checked: make(map[loginField]string),
		notes:   make(map[loginField]string),
	}
}

func (m loginModel) Init() tea.Cmd {
	return nil
}

func (m loginModel) numFields() loginField {
	if m.mode == modeSignup {
		return numLoginFields
	}
	return loginFieldConfirm
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case loginResultMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(loginErrorText(msg.err), true)
			return m, nil
		}
		p := msg.res.Profile()
		m.fields[loginFieldPassword] = ""
		m.deps.Auth.SetAuth(&p, msg.res.AccessToken)
		return m, showToast("welcome back, " + p.Nickname)

	case signupResultMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(errorText(msg.err), true)
			return m, nil
		}
		m.mode = modeLogin
		m.fields = [numLoginFields]string{}
		m.fields[loginFieldID] = msg.loginID
		m.focus = loginFieldPassword
		m.setStatus("account created, sign in to continue", false)
		return m, nil

	case availabilityMsg:
		if m.fields[msg.field] != msg.value {
			return m, nil
		}
		m.checked[msg.field] = msg.value
		switch {
		case msg.err != nil:
			m.notes[msg.field] = errorText(msg.err)
		case msg.avail == nil:
			delete(m.notes, msg.field)
		case msg.avail.Available:
			m.notes[msg.field] = "available"
		default:
			m.notes[msg.field] = "already taken"
			if msg.avail.Message != "" {
				m.notes[msg.field] = msg.avail.Message
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *loginModel) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func loginErrorText(err error) string {
	if client.IsStatus(err, http.StatusUnauthorized) || client.IsStatus(err, http.StatusNotFound) {
		return "wrong login id or password"
	}
	return errorText(err)
}

func (m loginModel) updateKeys(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	m.status = ""
	n := m.numFields()

	switch msg.String() {
	case "ctrl+s":
		return m.submit()
	case "ctrl+t":
		if m.mode == modeLogin {
			m.mode = modeSignup
		} else {
			m.mode = modeLogin
			if m.focus >= loginFieldConfirm {
				m.focus = loginFieldID
			}
		}
		return m, nil
	case "tab", "down":
		prev := m.focus
		m.focus = (m.focus + 1) % n
		return m, m.checkAvailability(prev)
	case "shift+tab", "up":
		prev := m.focus
		m.focus = (m.focus - 1 + n) % n
		return m, m.checkAvailability(prev)
	case "enter":
		if m.focus == n-1 {
			return m.submit()
		}
		prev := m.focus
		m.focus++
		return m, m.checkAvailability(prev)
	case "esc":
		return m, tea.Quit
	default:
		f := &m.fields[m.focus]
		*f = editRune(*f, msg.String())
		delete(m.notes, m.focus)
	}
	return m, nil
}

// checkAvailability asks the backend whether the id or nickname just left
// is free. Only in signup mode, and only for values that pass local rules.
func (m loginModel) checkAvailability(f loginField) tea.Cmd {
	if m.mode != modeSignup {
		return nil
	}
	value := strings.TrimSpace(m.fields[f])
	if value == "" || m.checked[f] == value {
		return nil
	}
	c := m.deps.Client
	switch f {
	case loginFieldID:
		if !validate.ValidLoginID(value) {
			return nil
		}
		return func() tea.Msg {
			a, err := c.CheckLoginID(context.Background(), value)
			return availabilityMsg{field: f, value: value, avail: a, err: err}
		}
	case loginFieldNickname:
		if !validate.ValidNickname(value) {
			return nil
		}
		return func() tea.Msg {
			a, err := c.CheckNickname(context.Background(), value)
			return availabilityMsg{field: f, value: value, avail: a, err: err}
		}
	}
	return nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	id := strings.TrimSpace(m.fields[loginFieldID])
	pw := m.fields[loginFieldPassword]
	c := m.deps.Client

	if m.mode == modeLogin {
		if err := m.deps.Validator.Login(validate.LoginForm{LoginID: id, Password: pw}); err != nil {
			m.setStatus(errorText(err), true)
			return m, nil
		}
		m.busy = true
		return m, func() tea.Msg {
			res, err := c.Login(context.Background(), id, pw)
			return loginResultMsg{res: res, err: err}
		}
	}

	form := validate.SignupForm{
		LoginID:         id,
		Password:        pw,
		PasswordConfirm: m.fields[loginFieldConfirm],
		Nickname:        strings.TrimSpace(m.fields[loginFieldNickname]),
	}
	if err := m.deps.Validator.Signup(form); err != nil {
		m.setStatus(errorText(err), true)
		return m, nil
	}
	m.busy = true
	req := client.SignupRequest{
		LoginID:         form.LoginID,
		Password:        form.Password,
		PasswordConfirm: form.PasswordConfirm,
		Nickname:        form.Nickname,
	}
	return m, func() tea.Msg {
		_, err := c.Signup(context.Background(), req)
		return signupResultMsg{loginID: req.LoginID, err: err}
	}
}

func (m loginModel) View() string {
	var b strings.Builder
	title := "Sign in"
	if m.mode == modeSignup {
		title = "Create account"
	}
	b.WriteString("\n " + selectedStyle.Render(title) + "\n\n")

	labels := [numLoginFields]string{"login id", "password", "confirm", "nickname"}
	for f := loginField(0); f < m.numFields(); f++ {
		secret := f == loginFieldPassword || f == loginFieldConfirm
		cursor := " "
		if f == m.focus {
			cursor = accentStyle.Render("▸")
		}
		line := fmt.Sprintf(" %s %s", cursor, renderInput(fmt.Sprintf("%-10s", labels[f]), m.fields[f], "", f == m.focus, secret))
		if note, ok := m.notes[f]; ok {
			style := errorStyle
			if note == "available" {
				style = okStyle
			}
			line += "  " + style.Render(note)
		}
		b.WriteString(line + "\n")
	}

	if m.mode == modeSignup {
		b.WriteString("\n " + metaStyle.Render("password: 8-20 chars with upper, lower, digit and symbol") + "\n")
	}
	return b.String()
}

func (m loginModel) statusLine() string {
	switch {
	case m.busy:
		return " " + dimStyle.Render("please wait...")
	case m.status == "":
		return ""
	case m.statusErr:
		return " " + errorStyle.Render(m.status)
	}
	return " " + okStyle.Render(m.status)
}

func (m loginModel) helpKeys() string {
	toggle := "sign up"
	if m.mode == modeSignup {
		toggle = "sign in"
	}
	return helpLine("tab", "next", "enter", "submit", "ctrl+t", toggle, "esc", "quit")
}
