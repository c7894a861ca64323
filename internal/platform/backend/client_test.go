package backend

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviehub/internal/platform/rest"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL: srv.URL,
		HTTP: rest.Config{
			Timeout:     time.Second,
			MaxAttempts: 2,
			RetryDelay:  time.Millisecond,
		},
	})
}

func TestLogin_Success(t *testing.T) {
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		var creds Credentials
		require.NoError(t, json.Unmarshal(body, &creds))
		assert.Equal(t, "ana@example.com", creds.Email)

		w.Write([]byte(`{"user":{"id":"u1","username":"ana","email":"ana@example.com","preferences":["Action"]},"token":"tok-123"}`))
	})

	auth, err := c.Login(context.Background(), Credentials{Email: "ana@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok-123", auth.Token)
	assert.Equal(t, "u1", auth.User.ID)
	assert.Equal(t, []string{"Action"}, auth.User.Preferences)
}

func TestLogin_RejectedCredentials(t *testing.T) {
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid email or password"}`))
	})

	_, err := c.Login(context.Background(), Credentials{Email: "ana@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, rest.IsAuth(err))
	assert.False(t, rest.IsTransient(err))
}

func TestLogin_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: url, HTTP: rest.Config{
		Timeout: time.Second, MaxAttempts: 2, RetryDelay: time.Millisecond,
	}})

	_, err := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "x"})
	require.Error(t, err)
	assert.True(t, rest.IsTransient(err))
}

func TestRegister_MultipartFields(t *testing.T) {
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/register", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "ana", r.FormValue("username"))
		assert.Equal(t, "ana@example.com", r.FormValue("email"))
		assert.Equal(t, `["Action","Drama"]`, r.FormValue("preferences"))

		file, header, err := r.FormFile("profileImage")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "avatar.png", header.Filename)
		data, _ := io.ReadAll(file)
		assert.Equal(t, []byte{0x89, 0x50}, data)

		w.Write([]byte(`{"user":{"id":"u2","username":"ana","email":"ana@example.com"},"token":"tok-456"}`))
	})

	auth, err := c.Register(context.Background(), RegisterInput{
		Username:         "ana",
		Email:            "ana@example.com",
		Password:         "secret",
		Preferences:      []string{"Action", "Drama"},
		ProfileImage:     []byte{0x89, 0x50},
		ProfileImageName: "avatar.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok-456", auth.Token)
}

func TestRegister_RetryRebuildsBody(t *testing.T) {
	calls := 0
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		// The retried request must carry a complete multipart body again.
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "ana", r.FormValue("username"))
		w.Write([]byte(`{"user":{"id":"u2"},"token":"tok"}`))
	})

	_, err := c.Register(context.Background(), RegisterInput{Username: "ana", Email: "a@b.c", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestUpdateProfile_PartialFieldsOnly(t *testing.T) {
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "newname", r.FormValue("username"))
		_, hasEmail := r.MultipartForm.Value["email"]
		assert.False(t, hasEmail, "unset fields must not be transmitted")
		_, hasPrefs := r.MultipartForm.Value["preferences"]
		assert.False(t, hasPrefs)

		w.Write([]byte(`{"user":{"id":"u1","username":"newname","email":"ana@example.com"}}`))
	})

	user, err := c.UpdateProfile(context.Background(), "tok-123", ProfileUpdate{Username: "newname"})
	require.NoError(t, err)
	assert.Equal(t, "newname", user.Username)
}

func TestDeleteProfileImage(t *testing.T) {
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/auth/profile/image", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Write([]byte(`{"user":{"id":"u1","username":"ana","profileImage":""}}`))
	})

	user, err := c.DeleteProfileImage(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Empty(t, user.ProfileImage)
}

func TestRequestPasswordReset(t *testing.T) {
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/forgot-password", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"email":"ana@example.com"}`, string(body))
		w.WriteHeader(http.StatusAccepted)
	})

	assert.NoError(t, c.RequestPasswordReset(context.Background(), "ana@example.com"))
}
