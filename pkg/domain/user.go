package domain

import "encoding/json"

// UserProfile is the signed-in user as cached in the session.
// It is always replaced wholesale, never patched field by field.
type UserProfile struct {
	ID              int64  `json:"id"`
	LoginID         string `json:"loginId"`
	Nickname        string `json:"nickname"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// MarshalJSON writes a missing profile image as null, so the persisted
// session always carries the field.
func (u UserProfile) MarshalJSON() ([]byte, error) {
	type plain UserProfile
	var img *string
	if u.ProfileImageURL != "" {
		img = &u.ProfileImageURL
	}
	return json.Marshal(struct {
		plain
		ProfileImageURL *string `json:"profileImageUrl"`
	}{plain(u), img})
}

// LoginResult is the body returned by POST /auth/login.
type LoginResult struct {
	UserID          int64  `json:"userId"`
	LoginID         string `json:"loginId"`
	Nickname        string `json:"nickname"`
	AccessToken     string `json:"accessToken"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// Profile converts a login result into the cached profile.
func (r LoginResult) Profile() UserProfile {
	return UserProfile{
		ID:              r.UserID,
		LoginID:         r.LoginID,
		Nickname:        r.Nickname,
		ProfileImageURL: r.ProfileImageURL,
	}
}

// Availability is the answer to a login id / nickname duplicate check.
type Availability struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// AccountProfile is the account as returned by /users/me.
type AccountProfile struct {
	UserID          int64  `json:"userId"`
	LoginID         string `json:"loginId"`
	Nickname        string `json:"nickname"`
	ProfileImageID  *int64 `json:"profileImageId"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// Profile converts the account into the cached profile.
func (a AccountProfile) Profile() UserProfile {
	return UserProfile{
		ID:              a.UserID,
		LoginID:         a.LoginID,
		Nickname:        a.Nickname,
		ProfileImageURL: a.ProfileImageURL,
	}
}

// MyPage aggregates the account with activity counters and plan previews.
type MyPage struct {
	AccountProfile
	PostCount         int           `json:"postCount"`
	CommentCount      int           `json:"commentCount"`
	LikeCount         int           `json:"likeCount"`
	NotificationCount int           `json:"notificationCount"`
	PlanPreviews      []PlanPreview `json:"planPreviews"`
}

// PlanPreview is a short reference to a shared plan.
type PlanPreview struct {
	PlanID    int64  `json:"planId"`
	PostID    int64  `json:"postId,omitempty"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	BoardType string `json:"boardType"`
	Leader    bool   `json:"leader,omitempty"`
}

// PresignedUpload is an object-storage upload slot issued by the backend.
type PresignedUpload struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	ExpiresAt string `json:"expiresAt"`
}
