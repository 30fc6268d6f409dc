package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/planit-ai/planit/pkg/domain"
)

// NotificationQuery filters the notification list. Zero values are omitted.
type NotificationQuery struct {
	Cursor *int64
	Size   int
	IsRead *bool
}

// ListNotifications returns one cursor page of notifications.
func (c *Client) ListNotifications(ctx context.Context, q NotificationQuery) (*domain.NotificationPage, error) {
	params := url.Values{}
	if q.Cursor != nil {
		params.Set("cursor", strconv.FormatInt(*q.Cursor, 10))
	}
	if q.Size > 0 {
		params.Set("size", strconv.Itoa(q.Size))
	}
	if q.IsRead != nil {
		params.Set("isRead", strconv.FormatBool(*q.IsRead))
	}
	path := "/notifications"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var page domain.NotificationPage
	if err := c.get(ctx, path, &page); err != nil {
		return nil, fmt.Errorf("client.ListNotifications: %w", err)
	}
	return &page, nil
}

// MarkNotificationRead marks one notification read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	path := "/notifications/" + strconv.FormatInt(id, 10) + "/read"
	if err := c.doRequest(ctx, http.MethodPatch, path, nil, nil); err != nil {
		return fmt.Errorf("client.MarkNotificationRead: %w", err)
	}
	return nil
}

// UnreadNotificationCount returns the number of unread notifications.
func (c *Client) UnreadNotificationCount(ctx context.Context) (int, error) {
	var res struct {
		UnreadCount int `json:"unreadCount"`
	}
	if err := c.get(ctx, "/notifications/unread-count", &res); err != nil {
		return 0, fmt.Errorf("client.UnreadNotificationCount: %w", err)
	}
	return res.UnreadCount, nil
}
