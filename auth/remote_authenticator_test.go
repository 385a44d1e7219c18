package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newIdentityStub(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteAuthenticatorValidCredential(t *testing.T) {
	srv := newIdentityStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/verify/token", r.URL.Path)
		assert.Equal(t, "Bearer tenant-a:secret", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":200,"message":"ok","data":{"uuid":"tenant-a","role":{"name":"User"}}}`))
	})

	authenticator := NewRemoteAuthenticator(srv.URL, time.Second, zap.NewNop())

	principal, err := authenticator.Authenticate(context.Background(), "Bearer tenant-a:secret")
	require.NoError(t, err)
	assert.Equal(t, "tenant-a", principal.ID)
	assert.Equal(t, RoleUser, principal.Role)
	assert.False(t, principal.IsAdmin())
}

func TestRemoteAuthenticatorAdminRole(t *testing.T) {
	srv := newIdentityStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":200,"message":"ok","data":{"uuid":"admin-1","role":{"name":"Admin"}}}`))
	})

	authenticator := NewRemoteAuthenticator(srv.URL, time.Second, zap.NewNop())

	principal, err := authenticator.Authenticate(context.Background(), "admin-1.secret")
	require.NoError(t, err)
	assert.True(t, principal.IsAdmin())
}

func TestRemoteAuthenticatorFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{
			name: "delegate rejects credential",
			body: `{"status":401,"message":"invalid token"}`,
			code: http.StatusUnauthorized,
		},
		{
			name: "delegate returns no principal",
			body: `{"status":200,"message":"ok"}`,
			code: http.StatusOK,
		},
		{
			name: "delegate returns empty uuid",
			body: `{"status":200,"message":"ok","data":{"uuid":"","role":{"name":"User"}}}`,
			code: http.StatusOK,
		},
		{
			name: "delegate returns unknown role",
			body: `{"status":200,"message":"ok","data":{"uuid":"tenant-a","role":{"name":"Root"}}}`,
			code: http.StatusOK,
		},
		{
			name: "delegate returns garbage",
			body: `not json at all`,
			code: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newIdentityStub(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(tt.body))
			})

			authenticator := NewRemoteAuthenticator(srv.URL, time.Second, zap.NewNop())

			principal, err := authenticator.Authenticate(context.Background(), "Bearer whatever")
			assert.Nil(t, principal)
			assert.ErrorIs(t, err, ErrAuthenticationFailed)
		})
	}
}

func TestRemoteAuthenticatorUnreachableDelegate(t *testing.T) {
	srv := newIdentityStub(t, func(w http.ResponseWriter, r *http.Request) {})
	endpoint := srv.URL
	srv.Close()

	authenticator := NewRemoteAuthenticator(endpoint, 200*time.Millisecond, zap.NewNop())

	_, err := authenticator.Authenticate(context.Background(), "Bearer whatever")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestRemoteAuthenticatorEmptyCredential(t *testing.T) {
	authenticator := NewRemoteAuthenticator("http://localhost:0", time.Second, zap.NewNop())

	_, err := authenticator.Authenticate(context.Background(), "Bearer   ")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}
