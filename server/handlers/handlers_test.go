package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ebogdum/filegate/auth"
	"github.com/ebogdum/filegate/backends/localfs"
	"github.com/ebogdum/filegate/core"
	"github.com/ebogdum/filegate/server/middleware"
)

const (
	testUserID  = "11111111-aaaa-bbbb-cccc-222222222222"
	testAdminID = "99999999-aaaa-bbbb-cccc-000000000000"
)

func newTestGateway(t *testing.T) (*core.Engine, string) {
	t.Helper()

	root := t.TempDir()
	adapter, err := localfs.NewAdapter(root)
	require.NoError(t, err)

	return core.NewEngine(adapter, adapter.RootPath(), zap.NewNop()), adapter.RootPath()
}

func seedFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func userPrincipal() *auth.Principal {
	return &auth.Principal{ID: testUserID, Role: auth.RoleUser}
}

func adminPrincipal() *auth.Principal {
	return &auth.Principal{ID: testAdminID, Role: auth.RoleAdmin}
}

// serve runs the handler with the principal injected the way the
// authentication middleware would.
func serve(handler http.HandlerFunc, principal *auth.Principal, req *http.Request) *httptest.ResponseRecorder {
	if principal != nil {
		req = req.WithContext(middleware.WithPrincipal(req.Context(), principal))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

type testEnvelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var envelope testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}
