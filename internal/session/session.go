package session

import (
	"context"
	"errors"

	"moviehub/internal/entity"
	"moviehub/internal/platform/backend"
)

// Durable storage keys. The session is persisted as two records that are
// only valid together: a missing or unparsable user record invalidates the
// session even when a token is present.
const (
	tokenKey = "auth:token"
	userKey  = "auth:user"
)

var (
	// ErrUnauthenticated is returned by operations that require a session
	// when none is present, or when the backend rejects the stored token.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrInvalidCredentials is returned when the backend rejects a login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNetworkUnavailable is returned when the backend cannot be reached,
	// so callers can phrase connectivity problems differently from
	// rejections.
	ErrNetworkUnavailable = errors.New("unable to connect to server")
)

// BackendAPI is the slice of the companion backend client the store uses.
type BackendAPI interface {
	Login(ctx context.Context, creds backend.Credentials) (backend.AuthResponse, error)
	Register(ctx context.Context, in backend.RegisterInput) (backend.AuthResponse, error)
	UpdateProfile(ctx context.Context, token string, patch backend.ProfileUpdate) (entity.User, error)
	DeleteProfileImage(ctx context.Context, token string) (entity.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

// Storage is the durable key-value slice the store persists into.
type Storage interface {
	GetJSON(key string, v any) (bool, error)
	PutJSON(key string, v any) error
	Delete(key string) error
}

// RegisterInput is the local registration form. The confirmation value and
// the preference minimum are checked before any network call.
type RegisterInput struct {
	Username         string   `validate:"required"`
	Email            string   `validate:"required,email"`
	Password         string   `validate:"required"`
	ConfirmPassword  string   `validate:"required,eqfield=Password"`
	Preferences      []string `validate:"min=2"`
	ProfileImage     []byte
	ProfileImageName string
}

// ProfileUpdate is a partial profile edit; zero-valued fields are left
// untouched on the backend.
type ProfileUpdate struct {
	Username         string
	Email            string `validate:"omitempty,email"`
	CurrentPassword  string
	NewPassword      string
	Preferences      []string
	ProfileImage     []byte
	ProfileImageName string
}

type loginInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}
