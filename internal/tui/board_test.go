package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/planit-ai/planit/pkg/domain"
)

var errUploadForTest = errors.New("storage rejected the file")

func newTestBoardModel(t *testing.T) boardModel {
	m := newBoardModel(testDeps(t))
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 24})
	return m
}

func samplePosts() *domain.PostPage {
	return &domain.PostPage{
		Posts: []domain.PostListItem{
			{PostID: 1, BoardType: domain.BoardFree, Title: "Best ramen in Fukuoka?", AuthorNickname: "jun", LikeCount: 4, CommentCount: 2, CreatedAt: time.Now()},
			{PostID: 2, BoardType: domain.BoardPlanShare, Title: "Bangkok 4 days", AuthorNickname: "soo", TripTitle: "Bangkok with friends"},
		},
		HasMore: true,
	}
}

func samplePost() *domain.PostDetail {
	return &domain.PostDetail{
		PostID:       5,
		BoardType:    domain.BoardFree,
		Title:        "Night market tips",
		Content:      "<p>Go <b>early</b></p><p>Bring cash</p>",
		Author:       domain.PostAuthor{UserID: 7, Nickname: "Mina"},
		Images:       []domain.PostImage{{Key: "posts/5/a.jpg"}},
		LikeCount:    3,
		CommentCount: 1,
	}
}

func TestBoardPostsLoaded(t *testing.T) {
	m := newTestBoardModel(t)
	m, _ = m.Update(postsLoadedMsg{gen: 1, page: samplePosts()})

	view := m.View()
	for _, want := range []string{"All boards", "Best ramen in Fukuoka?", "jun", "♥4", "Bangkok with friends", "next page"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q, got:\n%s", want, view)
		}
	}
}

func TestBoardDropsStaleResponses(t *testing.T) {
	m := newTestBoardModel(t)
	m, _ = m.reload()
	m, _ = m.reload()

	m, _ = m.Update(postsLoadedMsg{gen: 1, page: samplePosts()})
	if len(m.posts) != 0 {
		t.Fatalf("expected stale page dropped, got %d posts", len(m.posts))
	}
	m, _ = m.Update(postsLoadedMsg{gen: 2, page: samplePosts()})
	if len(m.posts) != 2 {
		t.Errorf("expected current page applied, got %d posts", len(m.posts))
	}
}

func TestBoardCycleBoardAndSort(t *testing.T) {
	m := newTestBoardModel(t)

	m, cmd := m.Update(runes("b"))
	if cmd == nil {
		t.Fatal("expected reload after changing board")
	}
	if m.boardType() != domain.BoardFree {
		t.Errorf("expected FREE board, got %q", m.boardType())
	}
	if !strings.Contains(m.View(), "Free talk") {
		t.Errorf("expected board name in header, got:\n%s", m.View())
	}

	m, _ = m.Update(runes("s"))
	if domain.PostSorts[m.sortIdx] != domain.SortComment {
		t.Errorf("expected comment sort, got %q", domain.PostSorts[m.sortIdx])
	}
}

func TestBoardPaging(t *testing.T) {
	m := newTestBoardModel(t)
	m, _ = m.Update(runes("["))
	if m.page != 0 {
		t.Fatalf("page must not go below 0, got %d", m.page)
	}

	m, _ = m.Update(postsLoadedMsg{gen: 1, page: samplePosts()})
	m, cmd := m.Update(runes("]"))
	if m.page != 1 || cmd == nil {
		t.Errorf("expected page 1 with reload, got page %d", m.page)
	}
}

func TestBoardSearch(t *testing.T) {
	m := newTestBoardModel(t)
	m, _ = m.Update(runes("/"))
	if m.mode != boardSearch {
		t.Fatalf("expected search mode, got %d", m.mode)
	}
	for _, r := range "ramen" {
		m, _ = m.Update(runes(string(r)))
	}
	if !strings.Contains(m.inputBar(), "ramen") {
		t.Errorf("expected query in input bar, got %q", m.inputBar())
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != boardList || m.search != "ramen" || cmd == nil {
		t.Errorf("expected list mode searching 'ramen', got mode=%d search=%q", m.mode, m.search)
	}

	// esc on the list clears the active search.
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.search != "" || cmd == nil {
		t.Errorf("expected search cleared with reload, got %q", m.search)
	}
}

func TestBoardSearchRejectsShortQuery(t *testing.T) {
	m := newTestBoardModel(t)
	m, _ = m.Update(runes("/"))
	m, _ = m.Update(runes("a"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != boardSearch {
		t.Errorf("expected to stay in search mode, got %d", m.mode)
	}
	if cmd == nil {
		t.Fatal("expected an error toast")
	}
	if msg, ok := cmd().(toastMsg); !ok || !msg.isErr {
		t.Errorf("expected error toast, got %#v", msg)
	}
}

func TestBoardOpenPostShowsDetail(t *testing.T) {
	m := newTestBoardModel(t)
	m, cmd := m.openPost(5)
	if cmd == nil {
		t.Fatal("expected load command")
	}
	if !strings.Contains(m.View(), "loading") {
		t.Errorf("expected loading, got:\n%s", m.View())
	}

	m, _ = m.Update(postLoadedMsg{postID: 5, post: samplePost()})
	m, _ = m.Update(commentsLoadedMsg{postID: 5, result: &domain.CommentPage{
		Comments: []domain.Comment{{CommentID: 9, Content: "thanks!", AuthorNickname: "jun", Deletable: true}},
	}})

	view := m.View()
	for _, want := range []string{"Night market tips", "Go early", "Bring cash", "1 image", "COMMENTS (1)", "thanks!"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q, got:\n%s", want, view)
		}
	}
	if strings.Contains(view, "<b>") {
		t.Errorf("markup should be stripped, got:\n%s", view)
	}
}

func TestBoardIgnoresOtherPostResponses(t *testing.T) {
	m := newTestBoardModel(t)
	m, _ = m.openPost(5)
	m, _ = m.Update(postLoadedMsg{postID: 6, post: &domain.PostDetail{PostID: 6, Title: "wrong post"}})
	if strings.Contains(m.View(), "wrong post") {
		t.Error("response for another post must be ignored")
	}
}

func TestBoardLikeToggle(t *testing.T) {
	m := newTestBoardModel(t)
	m, _ = m.openPost(5)
	m, _ = m.Update(postLoadedMsg{postID: 5, post: samplePost()})

	m, cmd := m.Update(runes("l"))
	if cmd == nil || !m.post.liking {
		t.Fatal("expected like request in flight")
	}
	m, _ = m.Update(likeToggledMsg{postID: 5, liked: true})
	if m.post.detail.LikeCount != 4 || !m.post.detail.LikedByRequester {
		t.Errorf("expected liked with 4 likes, got %d liked=%v", m.post.detail.LikeCount, m.post.detail.LikedByRequester)
	}
	if !strings.Contains(m.View(), "♥4") {
		t.Errorf("expected filled heart, got:\n%s", m.View())
	}
}

func TestBoardCommentMode(t *testing.T) {
	m := newTestBoardModel(t)
	m, _ = m.openPost(5)
	m, _ = m.Update(postLoadedMsg{postID: 5, post: samplePost()})

	m, _ = m.Update(runes("c"))
	if m.mode != boardComment || !m.isEditing() {
		t.Fatalf("expected comment mode, got %d", m.mode)
	}
	for _, r := range "nice" {
		m, _ = m.Update(runes(string(r)))
	}
	if !strings.Contains(m.inputBar(), "nice") {
		t.Errorf("expected draft in input bar, got %q", m.inputBar())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != boardDetail {
		t.Errorf("expected back to detail after esc, got %d", m.mode)
	}
}

func TestBoardCommentSaved(t *testing.T) {
	m := newTestBoardModel(t)
	m, _ = m.openPost(5)
	m, _ = m.Update(postLoadedMsg{postID: 5, post: samplePost()})
	m.post.commenting = true
	m.post.sending = true
	m.post.draft = "see you there"

	m, cmd := m.Update(commentSavedMsg{postID: 5, comment: &domain.Comment{CommentID: 10}})
	if m.post.commenting || m.post.draft != "" {
		t.Error("expected comment box closed and cleared")
	}
	if m.post.detail.CommentCount != 2 {
		t.Errorf("expected comment count 2, got %d", m.post.detail.CommentCount)
	}
	if cmd == nil {
		t.Error("expected toast and comment reload")
	}
}

func TestBoardDeleteCommentConfirm(t *testing.T) {
	m := newTestBoardModel(t)
	m, _ = m.openPost(5)
	m, _ = m.Update(postLoadedMsg{postID: 5, post: samplePost()})
	m, _ = m.Update(commentsLoadedMsg{postID: 5, result: &domain.CommentPage{
		Comments: []domain.Comment{{CommentID: 9, Content: "mine", Deletable: true}},
	}})

	m, _ = m.Update(runes("d"))
	if m.mode != boardConfirm {
		t.Fatalf("expected confirm mode, got %d", m.mode)
	}
	if !strings.Contains(m.inputBar(), "delete this comment?") {
		t.Errorf("expected confirm prompt, got %q", m.inputBar())
	}
	m, cmd := m.Update(runes("n"))
	if m.mode != boardDetail || cmd != nil {
		t.Error("expected cancel back to detail")
	}

	m, _ = m.Update(commentDeletedMsg{postID: 5, commentID: 9})
	if len(m.post.comments) != 0 {
		t.Errorf("expected comment removed, got %d", len(m.post.comments))
	}
}

func TestBoardEditOwnPost(t *testing.T) {
	m := newTestBoardModel(t)
	m, _ = m.openPost(5)
	m, _ = m.Update(postLoadedMsg{postID: 5, post: samplePost()})
	if !m.post.mine() {
		t.Fatal("expected post authored by the signed-in user")
	}

	m, _ = m.Update(runes("e"))
	if m.mode != boardCompose {
		t.Fatalf("expected compose mode, got %d", m.mode)
	}
	if m.compose.editID != 5 || m.compose.fields[composeTitle] != "Night market tips" {
		t.Errorf("expected prefilled edit form, got id=%d title=%q", m.compose.editID, m.compose.fields[composeTitle])
	}
	if len(m.compose.keepKeys) != 1 {
		t.Errorf("expected existing image kept, got %v", m.compose.keepKeys)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != boardDetail {
		t.Errorf("expected cancel back to detail, got %d", m.mode)
	}
}

func TestBoardCannotEditOthersPost(t *testing.T) {
	m := newTestBoardModel(t)
	m, _ = m.openPost(5)
	p := samplePost()
	p.Author = domain.PostAuthor{UserID: 99, Nickname: "someone"}
	m, _ = m.Update(postLoadedMsg{postID: 5, post: p})

	m, _ = m.Update(runes("e"))
	if m.mode != boardDetail {
		t.Errorf("expected to stay on detail, got %d", m.mode)
	}
	m, _ = m.Update(runes("x"))
	if m.mode != boardDetail {
		t.Errorf("delete must be unavailable for others' posts, got %d", m.mode)
	}
}

func TestBoardComposeValidation(t *testing.T) {
	m := newTestBoardModel(t)
	m, _ = m.Update(runes("w"))
	if m.mode != boardCompose {
		t.Fatalf("expected compose mode, got %d", m.mode)
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil || m.compose.saving {
		t.Error("an empty post must not be submitted")
	}
	if m.compose.status == "" {
		t.Error("expected a validation message")
	}
}

func TestBoardPostSavedOpensPost(t *testing.T) {
	m := newTestBoardModel(t)
	m, _ = m.Update(runes("w"))
	m.compose.saving = true

	m, cmd := m.Update(postSavedMsg{postID: 12})
	if m.mode != boardDetail || m.post.id != 12 {
		t.Errorf("expected detail of new post 12, got mode=%d id=%d", m.mode, m.post.id)
	}
	if cmd == nil {
		t.Error("expected toast, list reload and post load")
	}
}

func TestBoardPostSavedErrorStaysInCompose(t *testing.T) {
	m := newTestBoardModel(t)
	m, _ = m.Update(runes("w"))
	m.compose.saving = true

	m, _ = m.Update(postSavedMsg{err: errUploadForTest})
	if m.mode != boardCompose || m.compose.saving {
		t.Errorf("expected compose mode not saving, got mode=%d saving=%v", m.mode, m.compose.saving)
	}
	if !strings.Contains(m.View(), errUploadForTest.Error()) {
		t.Errorf("expected error in compose view, got:\n%s", m.View())
	}
}

func TestBoardPostDeleted(t *testing.T) {
	m := newTestBoardModel(t)
	m, _ = m.openPost(5)
	m, cmd := m.Update(postDeletedMsg{})
	if m.mode != boardList || cmd == nil {
		t.Errorf("expected list mode with reload, got %d", m.mode)
	}
}
