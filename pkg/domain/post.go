package domain

import "time"

// Board types accepted by the posts API.
const (
	BoardFree           = "FREE"
	BoardPlanShare      = "PLAN_SHARE"
	BoardPlaceRecommend = "PLACE_RECOMMEND"
)

// Boards lists the boards in tab order.
var Boards = []Board{
	{Type: BoardFree, Name: "Free talk"},
	{Type: BoardPlanShare, Name: "Shared plans"},
	{Type: BoardPlaceRecommend, Name: "Place picks"},
}

// Board is a community board.
type Board struct {
	Type string
	Name string
}

// ValidBoardType returns true if t names a known board.
func ValidBoardType(t string) bool {
	for _, b := range Boards {
		if b.Type == t {
			return true
		}
	}
	return false
}

// Post list sort orders.
const (
	SortLatest  = "latest"
	SortComment = "comment"
	SortLike    = "like"
)

// PostSorts is the cycle order for list sorting.
var PostSorts = []string{SortLatest, SortComment, SortLike}

// PostAuthor is the author block embedded in a post detail.
type PostAuthor struct {
	UserID          int64  `json:"userId,omitempty"`
	Nickname        string `json:"nickname"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// PostListItem is a post row in the board list.
type PostListItem struct {
	PostID                int64     `json:"postId"`
	BoardType             string    `json:"boardType,omitempty"`
	Title                 string    `json:"title"`
	Content               string    `json:"content,omitempty"`
	AuthorNickname        string    `json:"authorNickname"`
	AuthorProfileImageURL string    `json:"authorProfileImageUrl,omitempty"`
	CommentCount          int       `json:"commentCount"`
	LikeCount             int       `json:"likeCount"`
	PlaceName             string    `json:"placeName,omitempty"`
	TripTitle             string    `json:"tripTitle,omitempty"`
	RankingScore          float64   `json:"rankingScore,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
}

// PostPage is one page of the board list.
type PostPage struct {
	Posts   []PostListItem `json:"posts"`
	HasMore bool           `json:"hasMore"`
}

// PostImage is an image attached to a post.
type PostImage struct {
	Key string `json:"key,omitempty"`
	URL string `json:"url,omitempty"`
}

// PostDetail is a full post with its first page of comments.
type PostDetail struct {
	PostID           int64       `json:"postId"`
	BoardType        string      `json:"boardType,omitempty"`
	BoardName        string      `json:"boardName,omitempty"`
	BoardDescription string      `json:"boardDescription,omitempty"`
	Title            string      `json:"title"`
	Content          string      `json:"content"`
	Author           PostAuthor  `json:"author"`
	Images           []PostImage `json:"images,omitempty"`
	LikeCount        int         `json:"likeCount"`
	LikedByRequester bool        `json:"likedByRequester"`
	CommentCount     int         `json:"commentCount"`
	Comments         []Comment   `json:"comments,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
}

// Comment is a comment on a post.
type Comment struct {
	CommentID             int64     `json:"commentId"`
	Content               string    `json:"content"`
	AuthorNickname        string    `json:"authorNickname"`
	AuthorProfileImageURL string    `json:"authorProfileImageUrl,omitempty"`
	Deletable             bool      `json:"deletable"`
	CreatedAt             time.Time `json:"createdAt"`
}

// CommentPage is one page of comments.
type CommentPage struct {
	Comments []Comment `json:"comments"`
	HasMore  bool      `json:"hasMore"`
}

// PostRequest is the payload for creating or updating a post.
type PostRequest struct {
	BoardType string   `json:"boardType"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	ImageKeys []string `json:"imageKeys"`
}

// PostRef is the minimal body returned after a post write.
type PostRef struct {
	PostID int64 `json:"postId"`
}
