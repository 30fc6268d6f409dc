package domain

import "time"

// Notification types.
const (
	NotificationKeyword = "KEYWORD"
	NotificationComment = "COMMENT"
	NotificationLike    = "LIKE"
)

// Notification is a single notification for the signed-in user.
type Notification struct {
	NotificationID int64     `json:"notificationId"`
	Type           string    `json:"type"`
	PostID         int64     `json:"postId"`
	ActorName      string    `json:"actorName,omitempty"`
	PreviewText    string    `json:"previewText"`
	IsRead         bool      `json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NotificationPage is one cursor page of notifications.
type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unreadCount"`
	NextCursor    *int64         `json:"nextCursor,omitempty"`
}
