package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/planit-ai/planit/internal/validate"
	"github.com/planit-ai/planit/pkg/client"
	"github.com/planit-ai/planit/pkg/domain"
)

// postsPageSize is the board list page size.
const postsPageSize = 10

type boardMode int

const (
	boardList boardMode = iota
	boardSearch
	boardDetail
	boardComment
	boardConfirm
	boardCompose
)

type postsLoadedMsg struct {
	gen  int
	page *domain.PostPage
	err  error
}

// boardModel is the community board: the post list with board, sort,
// search and paging, plus the post detail and the composer.
type boardModel struct {
	deps     Deps
	mode     boardMode
	boardIdx int // 0 = all boards
	sortIdx  int
	search   string
	query    string
	page     int
	posts    []domain.PostListItem
	hasMore  bool
	cursor   int
	loading  bool
	err      string
	gen      int

	post    postModel
	compose composeModel

	width  int
	height int
}

// boardFilters is the b-cycle: all boards, then each board type.
func boardFilters() []string {
	out := []string{""}
	for _, b := range domain.Boards {
		out = append(out, b.Type)
	}
	return out
}

func newBoardModel(d Deps) boardModel {
	return boardModel{deps: d, loading: true}
}

func (m boardModel) Init() tea.Cmd {
	m.gen++
	return m.load()
}

func (m boardModel) boardType() string {
	return boardFilters()[m.boardIdx]
}

func (m boardModel) load() tea.Cmd {
	c := m.deps.Client
	gen := m.gen
	q := client.PostQuery{
		BoardType: m.boardType(),
		Sort:      domain.PostSorts[m.sortIdx],
		Search:    m.search,
		Page:      m.page,
		Size:      postsPageSize,
	}
	return func() tea.Msg {
		page, err := c.ListPosts(context.Background(), q)
		return postsLoadedMsg{gen: gen, page: page, err: err}
	}
}

// reload bumps the generation so responses to older queries are dropped.
func (m boardModel) reload() (boardModel, tea.Cmd) {
	m.gen++
	m.loading = true
	return m, m.load()
}

func (m boardModel) isEditing() bool {
	switch m.mode {
	case boardSearch, boardComment, boardConfirm, boardCompose:
		return true
	}
	return false
}

// openPost shows a post detail directly, e.g. from a notification.
func (m boardModel) openPost(id int64) (boardModel, tea.Cmd) {
	m.mode = boardDetail
	m.post = newPostModel(m.deps, id)
	m.post.width, m.post.height = m.width, m.height
	return m, m.post.Init()
}

func (m boardModel) Update(msg tea.Msg) (boardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.post, _ = m.post.Update(msg)
		return m, nil

	case postsLoadedMsg:
		// Init runs on a copy, so only drop responses older than ours.
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
		m.posts = msg.page.Posts
		m.hasMore = msg.page.HasMore
		m.cursor = clampCursor(m.cursor, len(m.posts))
		return m, nil

	case postSavedMsg:
		var cmd tea.Cmd
		m.compose, cmd = m.compose.Update(msg)
		if msg.err != nil {
			return m, cmd
		}
		toast := "post published"
		if msg.edited {
			toast = "post updated"
		}
		m, reload := m.reload()
		if msg.postID != 0 {
			m, open := m.openPost(msg.postID)
			return m, tea.Batch(showToast(toast), reload, open)
		}
		m.mode = boardList
		return m, tea.Batch(showToast(toast), reload)

	case postDeletedMsg:
		if msg.err != nil {
			return m, showError(msg.err)
		}
		m.mode = boardList
		m, cmd := m.reload()
		return m, tea.Batch(showToast("post deleted"), cmd)

	case postLoadedMsg, commentsLoadedMsg, likeToggledMsg, commentSavedMsg, commentDeletedMsg:
		var cmd tea.Cmd
		m.post, cmd = m.post.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.mode {
		case boardSearch:
			return m.updateSearch(msg)
		case boardCompose:
			var cmd tea.Cmd
			m.compose, cmd = m.compose.Update(msg)
			if m.compose.cancelled {
				if m.compose.editID != 0 {
					m.mode = boardDetail
				} else {
					m.mode = boardList
				}
			}
			return m, cmd
		case boardDetail, boardComment, boardConfirm:
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m boardModel) updateList(msg tea.KeyMsg) (boardModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.posts)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if len(m.posts) > 0 {
			return m.openPost(m.posts[m.cursor].PostID)
		}
	case "b":
		m.boardIdx = (m.boardIdx + 1) % len(boardFilters())
		m.page, m.cursor = 0, 0
		return m.reload()
	case "s":
		m.sortIdx = (m.sortIdx + 1) % len(domain.PostSorts)
		m.page, m.cursor = 0, 0
		return m.reload()
	case "/":
		m.mode = boardSearch
		m.query = m.search
	case "esc":
		if m.search != "" {
			m.search = ""
			m.page, m.cursor = 0, 0
			return m.reload()
		}
	case "]":
		if m.hasMore {
			m.page++
			m.cursor = 0
			return m.reload()
		}
	case "[":
		if m.page > 0 {
			m.page--
			m.cursor = 0
			return m.reload()
		}
	case "w":
		m.mode = boardCompose
		bt := m.boardType()
		if bt == "" {
			bt = domain.BoardFree
		}
		m.compose = newComposeModel(m.deps, bt)
	case "r":
		return m.reload()
	}
	return m, nil
}

func (m boardModel) updateSearch(msg tea.KeyMsg) (boardModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = boardList
		m.query = ""
	case "enter":
		q := strings.TrimSpace(m.query)
		if q == "" {
			m.mode = boardList
			if m.search != "" {
				m.search = ""
				m.page, m.cursor = 0, 0
				return m.reload()
			}
			return m, nil
		}
		if err := m.deps.Validator.Search(validate.SearchForm{Query: q}); err != nil {
			return m, showError(err)
		}
		m.mode = boardList
		m.search = q
		m.page, m.cursor = 0, 0
		return m.reload()
	default:
		m.query = editRune(m.query, msg.String())
	}
	return m, nil
}

func (m boardModel) updateDetail(msg tea.KeyMsg) (boardModel, tea.Cmd) {
	if m.mode == boardDetail {
		switch msg.String() {
		case "esc":
			m.mode = boardList
			return m, nil
		case "e":
			if m.post.mine() {
				m.compose = editComposeModel(m.deps, m.post.detail)
				m.mode = boardCompose
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.post, cmd = m.post.Update(msg)
	switch {
	case m.post.commenting:
		m.mode = boardComment
	case m.post.confirm != confirmNone:
		m.mode = boardConfirm
	default:
		m.mode = boardDetail
	}
	return m, cmd
}

func (m boardModel) View() string {
	switch m.mode {
	case boardDetail, boardComment, boardConfirm:
		return m.post.View()
	case boardCompose:
		return m.compose.View()
	}
	return m.listView()
}

func (m boardModel) listView() string {
	var sb strings.Builder

	filter := "All boards"
	if bt := m.boardType(); bt != "" {
		filter = boardName(bt)
	}
	header := accentStyle.Render(filter) + metaStyle.Render(" · sort ") + normalStyle.Render(domain.PostSorts[m.sortIdx]) +
		metaStyle.Render(fmt.Sprintf(" · page %d", m.page+1))
	if m.search != "" {
		header += metaStyle.Render(" · ") + goldStyle.Render(`"`+m.search+`"`)
	}
	sb.WriteString(" " + header + "\n")
	sb.WriteString(" " + metaStyle.Render(strings.Repeat("─", max(m.width-2, 4))) + "\n")

	switch {
	case m.loading && len(m.posts) == 0:
		sb.WriteString(" " + dimStyle.Render("loading..."))
		return sb.String()
	case m.err != "":
		sb.WriteString(" " + errorStyle.Render("error: "+m.err))
		return sb.String()
	case len(m.posts) == 0:
		if m.search != "" {
			sb.WriteString(" " + dimStyle.Render("no posts match your search"))
		} else {
			sb.WriteString(" " + dimStyle.Render("no posts yet, press w to write one"))
		}
		return sb.String()
	}

	titleWidth := max(m.width-40, 16)
	for i, p := range m.posts {
		title := truncStr(cleanTitle(p.Title), titleWidth)
		meta := metaStyle.Render(fmt.Sprintf("%s · ", truncStr(p.AuthorNickname, 10))) +
			likeStyle.Render(fmt.Sprintf("♥%d", p.LikeCount)) +
			metaStyle.Render(fmt.Sprintf(" 💬%d · %s", p.CommentCount, formatTime(p.CreatedAt)))
		badge := ""
		if m.boardType() == "" {
			badge = BoardBadge(p.BoardType) + " "
		}
		if i == m.cursor {
			sb.WriteString(" " + accentStyle.Render("▸") + " " + badge + selectedStyle.Render(title) + "  " + meta + "\n")
		} else {
			sb.WriteString("   " + badge + normalStyle.Render(title) + "  " + meta + "\n")
		}
		if p.TripTitle != "" || p.PlaceName != "" {
			sub := p.TripTitle
			if sub == "" {
				sub = p.PlaceName
			}
			sb.WriteString("     " + dimStyle.Render(truncStr(sub, titleWidth)) + "\n")
		}
	}
	if m.hasMore {
		sb.WriteString("   " + metaStyle.Render("] next page") + "\n")
	}
	return sb.String()
}

// inputBar is the line under the body: the search box on the list and the
// comment box on a post.
func (m boardModel) inputBar() string {
	switch m.mode {
	case boardSearch:
		return " " + renderInput("/ ", m.query, "search posts", true, false)
	case boardComment:
		return " " + renderInput("> ", m.post.draft, "write a comment", true, false)
	case boardConfirm:
		return " " + errorStyle.Render(m.post.confirmPrompt())
	case boardList:
		return " " + renderInput("/ ", m.search, "search posts", false, false)
	}
	return ""
}

func (m boardModel) helpKeys() string {
	switch m.mode {
	case boardSearch:
		return helpLine("enter", "search", "esc", "cancel")
	case boardCompose:
		return m.compose.helpKeys()
	case boardDetail, boardComment, boardConfirm:
		return m.post.helpKeys()
	}
	return helpLine("j/k", "nav", "enter", "open", "b", "board", "s", "sort", "/", "search", "[/]", "page", "w", "write", "h", "help", "q", "quit")
}
