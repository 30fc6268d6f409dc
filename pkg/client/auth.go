package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/planit-ai/planit/pkg/domain"
)

// SignupRequest is the payload for creating an account.
type SignupRequest struct {
	LoginID         string `json:"loginId"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
	Nickname        string `json:"nickname"`
	ProfileImageKey string `json:"profileImageKey,omitempty"`
}

// SignupResult is returned after a successful signup.
type SignupResult struct {
	Success bool  `json:"success"`
	UserID  int64 `json:"userId"`
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, loginID, password string) (*domain.LoginResult, error) {
	var res domain.LoginResult
	body := map[string]string{"loginId": loginID, "password": password}
	if err := c.post(ctx, "/auth/login", body, &res); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &res, nil
}

// Signup creates an account.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*SignupResult, error) {
	var res SignupResult
	if err := c.post(ctx, "/users/signup", req, &res); err != nil {
		return nil, fmt.Errorf("client.Signup: %w", err)
	}
	return &res, nil
}

// CheckLoginID asks whether a login id is free.
func (c *Client) CheckLoginID(ctx context.Context, loginID string) (*domain.Availability, error) {
	params := url.Values{}
	params.Set("loginId", loginID)

	var a domain.Availability
	if err := c.get(ctx, "/users/check-login-id?"+params.Encode(), &a); err != nil {
		return nil, fmt.Errorf("client.CheckLoginID: %w", err)
	}
	return &a, nil
}

// CheckNickname asks whether a nickname is free.
func (c *Client) CheckNickname(ctx context.Context, nickname string) (*domain.Availability, error) {
	params := url.Values{}
	params.Set("nickname", nickname)

	var a domain.Availability
	if err := c.get(ctx, "/users/check-nickname?"+params.Encode(), &a); err != nil {
		return nil, fmt.Errorf("client.CheckNickname: %w", err)
	}
	return &a, nil
}
