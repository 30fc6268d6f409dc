package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/planit-ai/planit/pkg/domain"
)

// PostQuery filters the board list.
type PostQuery struct {
	BoardType string
	Sort      string
	Search    string
	Page      int
	Size      int
}

func postPath(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10)
}

// ListPosts returns one page of posts.
func (c *Client) ListPosts(ctx context.Context, q PostQuery) (*domain.PostPage, error) {
	params := url.Values{}
	if q.BoardType != "" {
		params.Set("boardType", q.BoardType)
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	params.Set("page", strconv.Itoa(q.Page))
	size := q.Size
	if size <= 0 {
		size = 10
	}
	params.Set("size", strconv.Itoa(size))

	var page domain.PostPage
	if err := c.get(ctx, "/posts?"+params.Encode(), &page); err != nil {
		return nil, fmt.Errorf("client.ListPosts: %w", err)
	}
	return &page, nil
}

// GetPost fetches a post with its first comments.
func (c *Client) GetPost(ctx context.Context, id int64) (*domain.PostDetail, error) {
	var p domain.PostDetail
	if err := c.get(ctx, postPath(id), &p); err != nil {
		return nil, fmt.Errorf("client.GetPost: %w", err)
	}
	return &p, nil
}

// CreatePost publishes a post.
func (c *Client) CreatePost(ctx context.Context, req domain.PostRequest) (*domain.PostRef, error) {
	if req.ImageKeys == nil {
		req.ImageKeys = []string{}
	}
	var ref domain.PostRef
	if err := c.post(ctx, "/posts", req, &ref); err != nil {
		return nil, fmt.Errorf("client.CreatePost: %w", err)
	}
	return &ref, nil
}

// UpdatePost edits a post.
func (c *Client) UpdatePost(ctx context.Context, id int64, req domain.PostRequest) (*domain.PostRef, error) {
	if req.ImageKeys == nil {
		req.ImageKeys = []string{}
	}
	var ref domain.PostRef
	if err := c.doRequest(ctx, http.MethodPatch, postPath(id), req, &ref); err != nil {
		return nil, fmt.Errorf("client.UpdatePost: %w", err)
	}
	if ref.PostID == 0 {
		ref.PostID = id
	}
	return &ref, nil
}

// DeletePost deletes a post.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, postPath(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeletePost: %w", err)
	}
	return nil
}

// ListComments returns one page of comments on a post.
func (c *Client) ListComments(ctx context.Context, postID int64, page, size int) (*domain.CommentPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	if size <= 0 {
		size = 20
	}
	params.Set("size", strconv.Itoa(size))

	var cp domain.CommentPage
	if err := c.get(ctx, postPath(postID)+"/comments?"+params.Encode(), &cp); err != nil {
		return nil, fmt.Errorf("client.ListComments: %w", err)
	}
	return &cp, nil
}

// CreateComment adds a comment to a post.
func (c *Client) CreateComment(ctx context.Context, postID int64, content string) (*domain.Comment, error) {
	var cm domain.Comment
	if err := c.post(ctx, postPath(postID)+"/comments", map[string]string{"content": content}, &cm); err != nil {
		return nil, fmt.Errorf("client.CreateComment: %w", err)
	}
	return &cm, nil
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, postID, commentID int64) error {
	path := postPath(postID) + "/comments/" + strconv.FormatInt(commentID, 10)
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("client.DeleteComment: %w", err)
	}
	return nil
}

// LikePost likes a post.
func (c *Client) LikePost(ctx context.Context, postID int64) error {
	if err := c.doRequest(ctx, http.MethodPost, postPath(postID)+"/likes", nil, nil); err != nil {
		return fmt.Errorf("client.LikePost: %w", err)
	}
	return nil
}

// UnlikePost removes a like.
func (c *Client) UnlikePost(ctx context.Context, postID int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, postPath(postID)+"/likes", nil, nil); err != nil {
		return fmt.Errorf("client.UnlikePost: %w", err)
	}
	return nil
}

// PostPresignedURL reserves an upload slot for a post image.
func (c *Client) PostPresignedURL(ctx context.Context, ext, contentType string) (*domain.PresignedUpload, error) {
	var p domain.PresignedUpload
	if err := c.post(ctx, "/posts/images/presigned-url", presignRequest{ext, contentType}, &p); err != nil {
		return nil, fmt.Errorf("client.PostPresignedURL: %w", err)
	}
	return &p, nil
}

// DeletePostImage discards an uploaded post image that was never attached.
func (c *Client) DeletePostImage(ctx context.Context, key string) error {
	params := url.Values{}
	params.Set("key", key)
	if err := c.doRequest(ctx, http.MethodDelete, "/posts/images?"+params.Encode(), nil, nil); err != nil {
		return fmt.Errorf("client.DeletePostImage: %w", err)
	}
	return nil
}
