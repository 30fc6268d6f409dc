package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/planit-ai/planit/internal/browser"
	"github.com/planit-ai/planit/internal/textutil"
	"github.com/planit-ai/planit/internal/validate"
	"github.com/planit-ai/planit/pkg/domain"
)

const commentsPageSize = 20

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDeletePost
	confirmDeleteComment
)

type postLoadedMsg struct {
	postID int64
	post   *domain.PostDetail
	err    error
}

type commentsLoadedMsg struct {
	postID int64
	page   int
	result *domain.CommentPage
	err    error
}

type likeToggledMsg struct {
	postID int64
	liked  bool
	err    error
}

type commentSavedMsg struct {
	postID  int64
	comment *domain.Comment
	err     error
}

type commentDeletedMsg struct {
	postID    int64
	commentID int64
	err       error
}

type postDeletedMsg struct {
	err error
}

// postModel is a single post with its comments.
type postModel struct {
	deps   Deps
	id     int64
	detail *domain.PostDetail
	err    string

	comments     []domain.Comment
	commentPage  int
	moreComments bool
	cursor       int

	commenting bool
	draft      string
	sending    bool
	confirm    confirmKind
	liking     bool
	imageIdx   int

	width  int
	height int
}

func newPostModel(d Deps, id int64) postModel {
	return postModel{deps: d, id: id}
}

func (m postModel) Init() tea.Cmd {
	return tea.Batch(m.loadPost(), m.loadComments(0))
}

func (m postModel) loadPost() tea.Cmd {
	c, id := m.deps.Client, m.id
	return func() tea.Msg {
		p, err := c.GetPost(context.Background(), id)
		return postLoadedMsg{postID: id, post: p, err: err}
	}
}

func (m postModel) loadComments(page int) tea.Cmd {
	c, id := m.deps.Client, m.id
	return func() tea.Msg {
		res, err := c.ListComments(context.Background(), id, page, commentsPageSize)
		return commentsLoadedMsg{postID: id, page: page, result: res, err: err}
	}
}

// mine reports whether the signed-in user wrote the post.
func (m postModel) mine() bool {
	if m.detail == nil {
		return false
	}
	u := m.deps.Auth.User()
	if u == nil {
		return false
	}
	if m.detail.Author.UserID != 0 {
		return m.detail.Author.UserID == u.ID
	}
	return m.detail.Author.Nickname == u.Nickname
}

func (m postModel) confirmPrompt() string {
	switch m.confirm {
	case confirmDeletePost:
		return "delete this post? y/n"
	case confirmDeleteComment:
		return "delete this comment? y/n"
	}
	return ""
}

func (m postModel) Update(msg tea.Msg) (postModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case postLoadedMsg:
		if msg.postID != m.id {
			return m, nil
		}
		if msg.err != nil {
			m.err = errorText(msg.err)
			return m, nil
		}
		m.err = ""
		m.detail = msg.post
		return m, nil

	case commentsLoadedMsg:
		if msg.postID != m.id {
			return m, nil
		}
		if msg.err != nil {
			return m, showError(msg.err)
		}
		if msg.page == 0 {
			m.comments = msg.result.Comments
		} else {
			m.comments = append(m.comments, msg.result.Comments...)
		}
		m.commentPage = msg.page
		m.moreComments = msg.result.HasMore
		m.cursor = clampCursor(m.cursor, len(m.comments))
		return m, nil

	case likeToggledMsg:
		if msg.postID != m.id {
			return m, nil
		}
		m.liking = false
		if msg.err != nil {
			return m, showError(msg.err)
		}
		if m.detail != nil && m.detail.LikedByRequester != msg.liked {
			m.detail.LikedByRequester = msg.liked
			if msg.liked {
				m.detail.LikeCount++
			} else if m.detail.LikeCount > 0 {
				m.detail.LikeCount--
			}
		}
		return m, nil

	case commentSavedMsg:
		if msg.postID != m.id {
			return m, nil
		}
		m.sending = false
		if msg.err != nil {
			return m, showError(msg.err)
		}
		m.commenting = false
		m.draft = ""
		if m.detail != nil {
			m.detail.CommentCount++
		}
		// Reload from the first page so the new comment shows in server order.
		return m, tea.Batch(showToast("comment added"), m.loadComments(0))

	case commentDeletedMsg:
		if msg.postID != m.id {
			return m, nil
		}
		if msg.err != nil {
			return m, showError(msg.err)
		}
		for i, c := range m.comments {
			if c.CommentID == msg.commentID {
				m.comments = append(m.comments[:i:i], m.comments[i+1:]...)
				break
			}
		}
		if m.detail != nil && m.detail.CommentCount > 0 {
			m.detail.CommentCount--
		}
		m.cursor = clampCursor(m.cursor, len(m.comments))
		return m, showToast("comment deleted")

	case tea.KeyMsg:
		switch {
		case m.confirm != confirmNone:
			return m.updateConfirm(msg)
		case m.commenting:
			return m.updateComment(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m postModel) updateKeys(msg tea.KeyMsg) (postModel, tea.Cmd) {
	c := m.deps.Client
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.comments)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "l":
		if m.detail == nil || m.liking {
			return m, nil
		}
		m.liking = true
		id, like := m.id, !m.detail.LikedByRequester
		return m, func() tea.Msg {
			var err error
			if like {
				err = c.LikePost(context.Background(), id)
			} else {
				err = c.UnlikePost(context.Background(), id)
			}
			return likeToggledMsg{postID: id, liked: like, err: err}
		}
	case "c":
		if m.detail != nil {
			m.commenting = true
		}
	case "m":
		if m.moreComments {
			return m, m.loadComments(m.commentPage + 1)
		}
	case "d":
		if len(m.comments) > 0 && m.comments[m.cursor].Deletable {
			m.confirm = confirmDeleteComment
		}
	case "x":
		if m.mine() {
			m.confirm = confirmDeletePost
		}
	case "o":
		if m.detail == nil || len(m.detail.Images) == 0 {
			return m, nil
		}
		img := m.detail.Images[m.imageIdx%len(m.detail.Images)]
		m.imageIdx++
		ref := img.URL
		if ref == "" {
			ref = img.Key
		}
		u := m.deps.Images.ResolveString(ref, "")
		if u == "" {
			return m, showToast("image unavailable")
		}
		if err := browser.Open(u); err != nil {
			return m, showError(err)
		}
	case "r":
		return m, m.Init()
	}
	return m, nil
}

func (m postModel) updateComment(msg tea.KeyMsg) (postModel, tea.Cmd) {
	if m.sending {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.commenting = false
		m.draft = ""
	case "enter":
		content := strings.TrimSpace(m.draft)
		if err := m.deps.Validator.Comment(validate.CommentForm{Content: content}); err != nil {
			return m, showError(err)
		}
		m.sending = true
		c, id := m.deps.Client, m.id
		return m, func() tea.Msg {
			cm, err := c.CreateComment(context.Background(), id, content)
			return commentSavedMsg{postID: id, comment: cm, err: err}
		}
	default:
		m.draft = editRune(m.draft, msg.String())
	}
	return m, nil
}

func (m postModel) updateConfirm(msg tea.KeyMsg) (postModel, tea.Cmd) {
	kind := m.confirm
	m.confirm = confirmNone
	if msg.String() != "y" {
		return m, nil
	}
	c, id := m.deps.Client, m.id
	switch kind {
	case confirmDeletePost:
		return m, func() tea.Msg {
			return postDeletedMsg{err: c.DeletePost(context.Background(), id)}
		}
	case confirmDeleteComment:
		if len(m.comments) == 0 {
			return m, nil
		}
		cid := m.comments[m.cursor].CommentID
		return m, func() tea.Msg {
			err := c.DeleteComment(context.Background(), id, cid)
			return commentDeletedMsg{postID: id, commentID: cid, err: err}
		}
	}
	return m, nil
}

func (m postModel) View() string {
	if m.err != "" {
		return " " + errorStyle.Render("error: "+m.err) + "\n\n " + dimStyle.Render("esc to go back")
	}
	if m.detail == nil {
		return " " + dimStyle.Render("loading...")
	}
	p := m.detail
	var sb strings.Builder

	sb.WriteString(" " + BoardBadge(p.BoardType) + " " + selectedStyle.Render(cleanTitle(p.Title)) + "\n")
	heart := "♡"
	if p.LikedByRequester {
		heart = "♥"
	}
	sb.WriteString(" " + metaStyle.Render(p.Author.Nickname+" · "+formatTime(p.CreatedAt)+" · ") +
		likeStyle.Render(fmt.Sprintf("%s%d", heart, p.LikeCount)) +
		metaStyle.Render(fmt.Sprintf(" 💬%d", p.CommentCount)) + "\n")
	sb.WriteString(" " + metaStyle.Render(strings.Repeat("─", max(m.width-2, 4))) + "\n")

	width := max(m.width-4, 20)
	body := lipgloss.NewStyle().Width(width).Render(textutil.PlainText(p.Content))
	for _, line := range strings.Split(body, "\n") {
		sb.WriteString("  " + normalStyle.Render(line) + "\n")
	}
	if n := len(p.Images); n > 0 {
		sb.WriteString("\n  " + accentStyle.Render(fmt.Sprintf("🖼 %d image(s)", n)) + metaStyle.Render("  o to open") + "\n")
	}

	sb.WriteString("\n " + sectionHeaderStyle.Render(fmt.Sprintf("COMMENTS (%d)", p.CommentCount)) + "\n")
	if len(m.comments) == 0 {
		sb.WriteString("   " + dimStyle.Render("no comments yet") + "\n")
	}
	for i, cm := range m.comments {
		who := metaStyle.Render(truncStr(cm.AuthorNickname, 12) + " · " + formatTime(cm.CreatedAt))
		text := truncStr(textutil.SingleLine(cm.Content), max(width-24, 16))
		if i == m.cursor {
			sb.WriteString(" " + accentStyle.Render("▸") + " " + commentTextStyle.Render(text) + "  " + who + "\n")
		} else {
			sb.WriteString("   " + normalStyle.Render(text) + "  " + who + "\n")
		}
	}
	if m.moreComments {
		sb.WriteString("   " + metaStyle.Render("m more comments") + "\n")
	}
	return sb.String()
}

func (m postModel) helpKeys() string {
	switch {
	case m.confirm != confirmNone:
		return helpLine("y", "confirm", "any", "cancel")
	case m.commenting:
		return helpLine("enter", "send", "esc", "cancel")
	}
	pairs := []string{"j/k", "nav", "l", "like", "c", "comment"}
	if len(m.comments) > 0 && m.comments[m.cursor].Deletable {
		pairs = append(pairs, "d", "del comment")
	}
	if m.mine() {
		pairs = append(pairs, "e", "edit", "x", "delete")
	}
	if m.detail != nil && len(m.detail.Images) > 0 {
		pairs = append(pairs, "o", "image")
	}
	pairs = append(pairs, "esc", "back")
	return helpLine(pairs...)
}
