// Package backend talks to the companion auth/profile service. Register and
// profile updates go over multipart because of the optional binary profile
// image; the request body is rebuilt per retry attempt.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/goccy/go-json"

	"moviehub/internal/entity"
	"moviehub/internal/platform/rest"
)

// Config configures the backend client.
type Config struct {
	BaseURL string
	HTTP    rest.Config
}

// Client is a typed client for the companion backend. Safe for concurrent use.
type Client struct {
	baseURL string
	rest    *rest.Client
}

// NewClient creates a backend client from cfg.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		rest:    rest.NewClient(cfg.HTTP),
	}
}

// Credentials is a login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput is a registration request. ProfileImage is an opaque byte
// payload; compression and validation are the backend's concern.
type RegisterInput struct {
	Username         string
	Email            string
	Password         string
	Preferences      []string
	ProfileImage     []byte
	ProfileImageName string
}

// ProfileUpdate is a partial profile update: empty/nil fields are not
// transmitted, so the backend leaves them untouched.
type ProfileUpdate struct {
	Username         string
	Email            string
	CurrentPassword  string
	NewPassword      string
	Preferences      []string
	ProfileImage     []byte
	ProfileImageName string
}

// AuthResponse is the session payload returned by login and register.
type AuthResponse struct {
	User  entity.User `json:"user"`
	Token string      `json:"token"`
}

type userResponse struct {
	User entity.User `json:"user"`
}

// Login exchanges credentials for a session. Email normalization is the
// session store's job; this is a plain transport call.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResponse, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("encode credentials: %w", err)
	}

	var auth AuthResponse
	err = c.rest.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, &auth)
	if err != nil {
		return AuthResponse{}, err
	}
	return auth, nil
}

// Register creates an account and returns the new session.
func (c *Client) Register(ctx context.Context, in RegisterInput) (AuthResponse, error) {
	prefs, err := json.Marshal(in.Preferences)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("encode preferences: %w", err)
	}

	var auth AuthResponse
	err = c.rest.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		fields := map[string]string{
			"username":    in.Username,
			"email":       in.Email,
			"password":    in.Password,
			"preferences": string(prefs),
		}
		return c.multipartRequest(ctx, http.MethodPost, "/api/auth/register", "", fields, in.ProfileImage, in.ProfileImageName)
	}, &auth)
	if err != nil {
		return AuthResponse{}, err
	}
	return auth, nil
}

// UpdateProfile sends only the fields set in patch. Requires a bearer token.
func (c *Client) UpdateProfile(ctx context.Context, token string, patch ProfileUpdate) (entity.User, error) {
	fields := map[string]string{}
	if patch.Username != "" {
		fields["username"] = patch.Username
	}
	if patch.Email != "" {
		fields["email"] = patch.Email
	}
	if patch.CurrentPassword != "" {
		fields["currentPassword"] = patch.CurrentPassword
	}
	if patch.NewPassword != "" {
		fields["newPassword"] = patch.NewPassword
	}
	if patch.Preferences != nil {
		prefs, err := json.Marshal(patch.Preferences)
		if err != nil {
			return entity.User{}, fmt.Errorf("encode preferences: %w", err)
		}
		fields["preferences"] = string(prefs)
	}

	var resp userResponse
	err := c.rest.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		return c.multipartRequest(ctx, http.MethodPut, "/api/auth/profile", token, fields, patch.ProfileImage, patch.ProfileImageName)
	}, &resp)
	if err != nil {
		return entity.User{}, err
	}
	return resp.User, nil
}

// DeleteProfileImage removes the stored profile image. Requires a bearer token.
func (c *Client) DeleteProfileImage(ctx context.Context, token string) (entity.User, error) {
	var resp userResponse
	err := c.rest.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/auth/profile/image", http.NoBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		return req, nil
	}, &resp)
	if err != nil {
		return entity.User{}, err
	}
	return resp.User, nil
}

// RequestPasswordReset asks the backend to mail a reset link. Fire and
// forget: the response body is discarded.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	body, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.rest.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/forgot-password", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, nil)
}

// ResetPassword confirms a reset with the token from the mailed link.
func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	body, err := json.Marshal(map[string]string{"token": resetToken, "password": newPassword})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.rest.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/reset-password", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, nil)
}

// multipartRequest builds a multipart form request with the given text
// fields and optional image attachment. Called once per retry attempt so
// the body is always fresh.
func (c *Client) multipartRequest(ctx context.Context, method, path, token string, fields map[string]string, image []byte, imageName string) (*http.Request, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", name, err)
		}
	}
	if len(image) > 0 {
		if imageName == "" {
			imageName = "profile-image"
		}
		part, err := form.CreateFormFile("profileImage", imageName)
		if err != nil {
			return nil, fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(image); err != nil {
			return nil, fmt.Errorf("write image part: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}
