package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/planit-ai/planit/internal/upload"
	"github.com/planit-ai/planit/internal/validate"
	"github.com/planit-ai/planit/pkg/domain"
)

type composeField int

const (
	composeBoard composeField = iota
	composeTitle
	composeContent
	composeImages
	numComposeFields
)

type postSavedMsg struct {
	postID int64
	edited bool
	err    error
}

// composeModel writes a new post or edits an existing one.
type composeModel struct {
	deps      Deps
	editID    int64 // 0 for a new post
	keepKeys  []string
	boardIdx  int
	fields    [numComposeFields]string
	focus     composeField
	saving    bool
	status    string
	cancelled bool
}

func newComposeModel(d Deps, boardType string) composeModel {
	m := composeModel{deps: d, focus: composeTitle}
	m.boardIdx = boardIndex(boardType)
	return m
}

// editComposeModel pre-fills the form from an existing post. Existing
// images are kept; new paths are uploaded and appended.
func editComposeModel(d Deps, p *domain.PostDetail) composeModel {
	m := newComposeModel(d, p.BoardType)
	m.editID = p.PostID
	m.fields[composeTitle] = p.Title
	m.fields[composeContent] = p.Content
	for _, img := range p.Images {
		if img.Key != "" {
			m.keepKeys = append(m.keepKeys, img.Key)
		}
	}
	return m
}

func boardIndex(boardType string) int {
	for i, b := range domain.Boards {
		if b.Type == boardType {
			return i
		}
	}
	return 0
}

func (m composeModel) imagePaths() []string {
	var paths []string
	for _, p := range strings.Split(m.fields[composeImages], ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func (m composeModel) Update(msg tea.Msg) (composeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case postSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.status = errorText(msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m composeModel) updateKeys(msg tea.KeyMsg) (composeModel, tea.Cmd) {
	m.status = ""
	key := msg.String()

	switch key {
	case "esc":
		m.cancelled = true
		return m, nil
	case "ctrl+s":
		return m.submit()
	case "tab":
		m.focus = (m.focus + 1) % numComposeFields
		return m, nil
	case "shift+tab":
		m.focus = (m.focus - 1 + numComposeFields) % numComposeFields
		return m, nil
	}

	switch m.focus {
	case composeBoard:
		// Editing cannot move a post between boards.
		if m.editID != 0 {
			return m, nil
		}
		switch key {
		case "l", "right":
			m.boardIdx = (m.boardIdx + 1) % len(domain.Boards)
		case "h", "left":
			m.boardIdx = (m.boardIdx - 1 + len(domain.Boards)) % len(domain.Boards)
		}
	case composeContent:
		if key == "enter" {
			m.fields[composeContent] += "\n"
			return m, nil
		}
		m.fields[composeContent] = editRune(m.fields[composeContent], key)
	default:
		if key == "enter" {
			m.focus = (m.focus + 1) % numComposeFields
			return m, nil
		}
		m.fields[m.focus] = editRune(m.fields[m.focus], key)
	}
	return m, nil
}

func (m composeModel) submit() (composeModel, tea.Cmd) {
	paths := m.imagePaths()
	form := validate.PostForm{
		BoardType: domain.Boards[m.boardIdx].Type,
		Title:     strings.TrimSpace(m.fields[composeTitle]),
		Content:   strings.TrimSpace(m.fields[composeContent]),
		ImageKeys: append(append([]string{}, m.keepKeys...), paths...),
	}
	if err := m.deps.Validator.Post(form); err != nil {
		m.status = errorText(err)
		return m, nil
	}

	m.saving = true
	d := m.deps
	editID := m.editID
	keep := m.keepKeys
	return m, func() tea.Msg {
		ctx := context.Background()
		c := d.Client
		keys, err := upload.Files(ctx, d.Validator, c, c.PostPresignedURL, c.DeletePostImage, paths)
		if err != nil {
			return postSavedMsg{err: err}
		}
		req := domain.PostRequest{
			BoardType: form.BoardType,
			Title:     form.Title,
			Content:   form.Content,
			ImageKeys: append(append([]string{}, keep...), keys...),
		}
		var ref *domain.PostRef
		if editID != 0 {
			ref, err = c.UpdatePost(ctx, editID, req)
		} else {
			ref, err = c.CreatePost(ctx, req)
		}
		if err != nil {
			return postSavedMsg{err: err}
		}
		id := editID
		if ref != nil && ref.PostID != 0 {
			id = ref.PostID
		}
		return postSavedMsg{postID: id, edited: editID != 0}
	}
}

func (m composeModel) View() string {
	var b strings.Builder
	heading := "NEW POST"
	if m.editID != 0 {
		heading = "EDIT POST"
	}
	b.WriteString(" " + sectionHeaderStyle.Render(heading) + "\n\n")

	labels := [numComposeFields]string{"board", "title", "content", "images"}
	for i := composeField(0); i < numComposeFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = accentStyle.Render("▸")
			style = selectedStyle
		}
		label := style.Render(fmt.Sprintf("%-8s", labels[i]))

		var value string
		switch i {
		case composeBoard:
			value = BoardBadge(domain.Boards[m.boardIdx].Type)
			if m.editID == 0 {
				value += "  " + metaStyle.Render("(h/l)")
			}
		case composeImages:
			value = m.fieldValue(i, "comma separated file paths")
			if n := len(m.keepKeys); n > 0 {
				value += "  " + metaStyle.Render(fmt.Sprintf("+%d attached", n))
			}
		case composeContent:
			value = m.fieldValue(i, "")
			value = strings.ReplaceAll(value, "\n", "\n            ")
		default:
			value = m.fieldValue(i, "")
		}
		fmt.Fprintf(&b, " %s %s %s\n", cursor, label, value)
	}

	b.WriteString("\n")
	switch {
	case m.saving:
		b.WriteString(" " + dimStyle.Render("saving..."))
	case m.status != "":
		b.WriteString(" " + errorStyle.Render(m.status))
	}
	return b.String()
}

func (m composeModel) fieldValue(f composeField, placeholder string) string {
	v := m.fields[f]
	if f == m.focus {
		return normalStyle.Render(v) + accentStyle.Render("█")
	}
	if v == "" {
		return inputPlaceholderStyle.Render(placeholder)
	}
	return dimStyle.Render(v)
}

func (m composeModel) helpKeys() string {
	if m.focus == composeContent {
		return helpLine("tab", "next", "enter", "newline", "ctrl+s", "publish", "esc", "cancel")
	}
	return helpLine("tab", "next", "h/l", "board", "ctrl+s", "publish", "esc", "cancel")
}
