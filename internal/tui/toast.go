package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/planit-ai/planit/internal/validate"
	"github.com/planit-ai/planit/pkg/client"
)

// toastDuration is how long a toast stays on the status line.
const toastDuration = 2500 * time.Millisecond

type toastMsg struct {
	text  string
	isErr bool
}

type toastExpiredMsg struct {
	id uuid.UUID
}

// toastModel shows one transient message. A newer toast replaces the old
// one, and only the expiry tick carrying the current id clears it.
type toastModel struct {
	id    uuid.UUID
	text  string
	isErr bool
}

func showToast(text string) tea.Cmd {
	return func() tea.Msg { return toastMsg{text: text} }
}

func showError(err error) tea.Cmd {
	text := errorText(err)
	return func() tea.Msg { return toastMsg{text: text, isErr: true} }
}

// errorText picks the message a user should see for err.
func errorText(err error) string {
	var errs validate.Errors
	if errors.As(err, &errs) && len(errs) > 0 {
		return errs[0].Message
	}
	return client.Message(err)
}

func (t toastModel) Update(msg tea.Msg) (toastModel, tea.Cmd) {
	switch msg := msg.(type) {
	case toastMsg:
		t.id = uuid.New()
		t.text = msg.text
		t.isErr = msg.isErr
		id := t.id
		return t, tea.Tick(toastDuration, func(time.Time) tea.Msg {
			return toastExpiredMsg{id: id}
		})
	case toastExpiredMsg:
		if msg.id == t.id {
			t.text = ""
			t.isErr = false
		}
	}
	return t, nil
}

func (t toastModel) visible() bool { return t.text != "" }

func (t toastModel) View() string {
	if t.text == "" {
		return ""
	}
	if t.isErr {
		return " " + errorStyle.Render("✕ "+t.text)
	}
	return " " + okStyle.Render("✓ "+t.text)
}
