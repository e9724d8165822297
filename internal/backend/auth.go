package backend

import (
	"context"
	"time"
)

// LoginRequest carries the phone/password credential pair.
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	VendorID    int64  `json:"vendorId"`
	Name        string `json:"name"`
	ServiceType string `json:"serviceType"`
	Token       string `json:"token"`
}

// SignupRequest registers a new vendor account.
type SignupRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Password    string `json:"password"`
	ServiceType string `json:"serviceType"`
}

// SignupResponse acknowledges a signup.
type SignupResponse struct {
	VendorID int64  `json:"vendorId"`
	Message  string `json:"message"`
}

// VendorProfile is the authenticated vendor's profile.
type VendorProfile struct {
	VendorID    int64  `json:"vendorId"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	ServiceType string `json:"serviceType"`
	Address     string `json:"address"`
	Onboarded   bool   `json:"onboarded"`
}

// Login authenticates and returns the issued bearer token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, "/vendor/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a vendor account.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	var resp SignupResponse
	if err := c.post(ctx, "/vendor/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me fetches the authenticated vendor profile.
func (c *Client) Me(ctx context.Context) (*VendorProfile, error) {
	var resp VendorProfile
	if err := c.cachedGet(ctx, "vendor:me", "/vendor/me", 5*time.Minute, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
