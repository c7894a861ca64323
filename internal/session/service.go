// Package session holds the authenticated identity and bearer token for the
// current client. The session is either fully absent or fully present;
// rehydration never leaves a half-populated state. Persistence is
// best-effort: storage failures are logged and in-memory state stays
// authoritative for the running session.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"moviehub/internal/entity"
	"moviehub/internal/platform/backend"
	"moviehub/internal/platform/rest"
	"moviehub/internal/validate"
)

// Store is the session store. Safe for concurrent use.
type Store struct {
	api BackendAPI
	kv  Storage
	log zerolog.Logger

	mu    sync.RWMutex
	user  *entity.User
	token string
}

// NewStore creates the store and rehydrates it from durable storage. If
// either stored record is missing or the user record fails to parse, both
// are cleared and the store starts logged out.
func NewStore(api BackendAPI, kv Storage, log zerolog.Logger) *Store {
	s := &Store{
		api: api,
		kv:  kv,
		log: log.With().Str("component", "session").Logger(),
	}
	s.rehydrate()
	return s
}

func (s *Store) rehydrate() {
	var token string
	foundToken, tokenErr := s.kv.GetJSON(tokenKey, &token)

	var user entity.User
	foundUser, userErr := s.kv.GetJSON(userKey, &user)

	if tokenErr != nil || userErr != nil || !foundToken || !foundUser || token == "" {
		if tokenErr != nil || userErr != nil {
			s.log.Warn().AnErr("token_err", tokenErr).AnErr("user_err", userErr).
				Msg("stored session unreadable, starting logged out")
		}
		s.clearStored()
		return
	}

	s.user = &user
	s.token = token
}

// clearStored removes both durable records; failures are logged only.
func (s *Store) clearStored() {
	if err := s.kv.Delete(tokenKey); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear stored token")
	}
	if err := s.kv.Delete(userKey); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear stored user")
	}
}

// persist writes both durable records; failures are logged only.
func (s *Store) persist() {
	if err := s.kv.PutJSON(tokenKey, s.token); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist token")
	}
	if err := s.kv.PutJSON(userKey, s.user); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist user")
	}
}

// classify maps transport errors onto the store's error vocabulary.
func classify(err error, rejected error) error {
	switch {
	case rest.IsTransient(err):
		return fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
	case rest.IsAuth(err):
		return fmt.Errorf("%w: %v", rejected, err)
	default:
		return err
	}
}

// NormalizeEmail trims surrounding space and lowercases an email address
// before it is transmitted or compared.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login exchanges credentials for a session and atomically replaces the
// in-memory session and both durable records.
func (s *Store) Login(ctx context.Context, email, password string) (entity.User, error) {
	email = NormalizeEmail(email)
	if err := validate.Struct(loginInput{Email: email, Password: password}); err != nil {
		return entity.User{}, err
	}

	resp, err := s.api.Login(ctx, backend.Credentials{Email: email, Password: password})
	if err != nil {
		return entity.User{}, classify(err, ErrInvalidCredentials)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user := resp.User
	s.user = &user
	s.token = resp.Token
	s.persist()
	return user, nil
}

// Register creates an account and adopts the returned session like Login.
func (s *Store) Register(ctx context.Context, in RegisterInput) (entity.User, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return entity.User{}, err
	}

	resp, err := s.api.Register(ctx, backend.RegisterInput{
		Username:         in.Username,
		Email:            in.Email,
		Password:         in.Password,
		Preferences:      in.Preferences,
		ProfileImage:     in.ProfileImage,
		ProfileImageName: in.ProfileImageName,
	})
	if err != nil {
		return entity.User{}, classify(err, ErrInvalidCredentials)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user := resp.User
	s.user = &user
	s.token = resp.Token
	s.persist()
	return user, nil
}

// UpdateProfile sends only the fields set in patch, merges the backend's
// response into the existing in-memory session and re-persists it.
func (s *Store) UpdateProfile(ctx context.Context, patch ProfileUpdate) (entity.User, error) {
	s.mu.RLock()
	token := s.token
	authenticated := s.user != nil && token != ""
	s.mu.RUnlock()
	if !authenticated {
		return entity.User{}, ErrUnauthenticated
	}

	if patch.Email != "" {
		patch.Email = NormalizeEmail(patch.Email)
	}
	if err := validate.Struct(patch); err != nil {
		return entity.User{}, err
	}

	updated, err := s.api.UpdateProfile(ctx, token, backend.ProfileUpdate{
		Username:         patch.Username,
		Email:            patch.Email,
		CurrentPassword:  patch.CurrentPassword,
		NewPassword:      patch.NewPassword,
		Preferences:      patch.Preferences,
		ProfileImage:     patch.ProfileImage,
		ProfileImageName: patch.ProfileImageName,
	})
	if err != nil {
		return entity.User{}, classify(err, ErrUnauthenticated)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		// Logged out while the update was in flight; discard.
		return updated, nil
	}
	mergeUser(s.user, updated)
	s.persist()
	return *s.user, nil
}

// mergeUser overlays the response's populated fields onto the session user,
// leaving fields the backend omitted untouched.
func mergeUser(dst *entity.User, src entity.User) {
	if src.ID != "" {
		dst.ID = src.ID
	}
	if src.Username != "" {
		dst.Username = src.Username
	}
	if src.Email != "" {
		dst.Email = src.Email
	}
	if src.ProfileImage != "" {
		dst.ProfileImage = src.ProfileImage
	}
	if src.Preferences != nil {
		dst.Preferences = src.Preferences
	}
}

// DeleteProfileImage removes the stored profile image and clears it on the
// in-memory session.
func (s *Store) DeleteProfileImage(ctx context.Context) (entity.User, error) {
	s.mu.RLock()
	token := s.token
	authenticated := s.user != nil && token != ""
	s.mu.RUnlock()
	if !authenticated {
		return entity.User{}, ErrUnauthenticated
	}

	if _, err := s.api.DeleteProfileImage(ctx, token); err != nil {
		return entity.User{}, classify(err, ErrUnauthenticated)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return entity.User{}, nil
	}
	s.user.ProfileImage = ""
	s.persist()
	return *s.user, nil
}

// RequestPasswordReset asks the backend to start a reset flow.
// Fire-and-forget beyond transport classification.
func (s *Store) RequestPasswordReset(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if err := validate.Struct(struct {
		Email string `validate:"required,email"`
	}{Email: email}); err != nil {
		return err
	}
	if err := s.api.RequestPasswordReset(ctx, email); err != nil {
		return classify(err, ErrInvalidCredentials)
	}
	return nil
}

// ResetPassword confirms a reset with the token from the mailed link.
func (s *Store) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if err := validate.Struct(struct {
		Token    string `validate:"required"`
		Password string `validate:"required"`
	}{Token: resetToken, Password: newPassword}); err != nil {
		return err
	}
	if err := s.api.ResetPassword(ctx, resetToken, newPassword); err != nil {
		return classify(err, ErrInvalidCredentials)
	}
	return nil
}

// Logout clears the in-memory session and both durable records
// unconditionally. It cannot fail; storage errors are logged.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
	s.clearStored()
}

// IsAuthenticated reports whether a full session is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

// CurrentUser returns a copy of the session user, or nil when logged out.
func (s *Store) CurrentUser() *entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}
