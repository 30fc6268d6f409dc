package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/planit-ai/planit/pkg/domain"
)

// UpdateProfileRequest edits the signed-in account. Empty password fields
// leave the password unchanged.
type UpdateProfileRequest struct {
	Nickname             string `json:"nickname"`
	Password             string `json:"password,omitempty"`
	PasswordConfirmation string `json:"passwordConfirmation,omitempty"`
	ProfileImageID       *int64 `json:"profileImageId,omitempty"`
}

// GetMyPage returns the account with activity counters and plan previews.
func (c *Client) GetMyPage(ctx context.Context) (*domain.MyPage, error) {
	var p domain.MyPage
	if err := c.get(ctx, "/users/me/mypage", &p); err != nil {
		return nil, fmt.Errorf("client.GetMyPage: %w", err)
	}
	return &p, nil
}

// GetProfile returns the signed-in account.
func (c *Client) GetProfile(ctx context.Context) (*domain.AccountProfile, error) {
	var p domain.AccountProfile
	if err := c.get(ctx, "/users/me", &p); err != nil {
		return nil, fmt.Errorf("client.GetProfile: %w", err)
	}
	return &p, nil
}

// UpdateProfile edits nickname and optionally the password.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*domain.AccountProfile, error) {
	var p domain.AccountProfile
	if err := c.doRequest(ctx, http.MethodPut, "/users/me", req, &p); err != nil {
		return nil, fmt.Errorf("client.UpdateProfile: %w", err)
	}
	return &p, nil
}

// Withdraw deletes the signed-in account.
func (c *Client) Withdraw(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/users/me", nil, nil); err != nil {
		return fmt.Errorf("client.Withdraw: %w", err)
	}
	return nil
}

type presignRequest struct {
	FileExtension string `json:"fileExtension"`
	ContentType   string `json:"contentType"`
}

// ProfilePresignedURL reserves an upload slot for a new profile image.
func (c *Client) ProfilePresignedURL(ctx context.Context, ext, contentType string) (*domain.PresignedUpload, error) {
	var p domain.PresignedUpload
	if err := c.post(ctx, "/users/profile-image/presigned-url", presignRequest{ext, contentType}, &p); err != nil {
		return nil, fmt.Errorf("client.ProfilePresignedURL: %w", err)
	}
	return &p, nil
}

// SignupProfilePresignedURL reserves an upload slot before the account exists.
func (c *Client) SignupProfilePresignedURL(ctx context.Context, ext, contentType string) (*domain.PresignedUpload, error) {
	var p domain.PresignedUpload
	if err := c.post(ctx, "/users/signup/profile-image/presigned-url", presignRequest{ext, contentType}, &p); err != nil {
		return nil, fmt.Errorf("client.SignupProfilePresignedURL: %w", err)
	}
	return &p, nil
}

// DeleteSignupProfileImage discards an image uploaded during signup.
func (c *Client) DeleteSignupProfileImage(ctx context.Context, key string) error {
	params := url.Values{}
	params.Set("key", key)
	if err := c.doRequest(ctx, http.MethodDelete, "/users/signup/profile-image?"+params.Encode(), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteSignupProfileImage: %w", err)
	}
	return nil
}

// SaveProfileImageKey attaches an uploaded object key as the profile image.
func (c *Client) SaveProfileImageKey(ctx context.Context, key string) (*domain.AccountProfile, error) {
	var p domain.AccountProfile
	if err := c.doRequest(ctx, http.MethodPut, "/users/me/profile-image", map[string]string{"key": key}, &p); err != nil {
		return nil, fmt.Errorf("client.SaveProfileImageKey: %w", err)
	}
	return &p, nil
}

// DeleteProfileImage resets the profile image to the default avatar.
func (c *Client) DeleteProfileImage(ctx context.Context) (*domain.AccountProfile, error) {
	var p domain.AccountProfile
	if err := c.doRequest(ctx, http.MethodDelete, "/users/me/profile-image", nil, &p); err != nil {
		return nil, fmt.Errorf("client.DeleteProfileImage: %w", err)
	}
	return &p, nil
}
