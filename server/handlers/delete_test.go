package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ebogdum/filegate/auth"
)

func deleteRequest(files []string, useUserDir bool) *http.Request {
	query := url.Values{}
	for _, file := range files {
		query.Add("file", file)
	}
	if useUserDir {
		query.Set("useUserDir", "true")
	}
	return httptest.NewRequest(http.MethodDelete, "/delete?"+query.Encode(), nil)
}

func TestDeleteRequiresPrincipal(t *testing.T) {
	engine, _ := newTestGateway(t)
	handler := Delete(engine, auth.NewOwnerAuthorizer(), zap.NewNop())

	rec := serve(handler, nil, deleteRequest([]string{"userfile.txt"}, true))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No Bearer token provided", decodeEnvelope(t, rec).Message)
}

func TestDeleteSingleFile(t *testing.T) {
	engine, root := newTestGateway(t)
	handler := Delete(engine, auth.NewOwnerAuthorizer(), zap.NewNop())

	target := filepath.Join(root, testUserID, "new-file.txt")
	seedFile(t, target, "Hello World")

	rec := serve(handler, userPrincipal(), deleteRequest([]string{target}, false))

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, MsgSingleDeleted, envelope.Message)
	assert.Contains(t, string(envelope.Data), "new-file.txt")

	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteMissingFile(t *testing.T) {
	engine, root := newTestGateway(t)
	handler := Delete(engine, auth.NewOwnerAuthorizer(), zap.NewNop())

	seedFile(t, filepath.Join(root, testUserID, "present.txt"), "here")

	rec := serve(handler, userPrincipal(), deleteRequest([]string{"adminfile.txt"}, true))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "adminfile.txt wasn't found", decodeEnvelope(t, rec).Message)
}

func TestDeleteOwnershipIsEnforced(t *testing.T) {
	engine, root := newTestGateway(t)
	handler := Delete(engine, auth.NewOwnerAuthorizer(), zap.NewNop())

	adminFile := filepath.Join(root, testAdminID, "adminfile.txt")
	userFile := filepath.Join(root, testUserID, "userfile.txt")
	seedFile(t, adminFile, "admin data")
	seedFile(t, userFile, "user data")

	t.Run("user cannot delete from another partition", func(t *testing.T) {
		rec := serve(handler, userPrincipal(), deleteRequest([]string{adminFile}, false))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, MsgAccessDenied, decodeEnvelope(t, rec).Message)
	})

	t.Run("admin role carries no delete bypass", func(t *testing.T) {
		rec := serve(handler, adminPrincipal(), deleteRequest([]string{userFile}, false))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, MsgAccessDenied, decodeEnvelope(t, rec).Message)
	})

	_, err := os.Stat(adminFile)
	assert.NoError(t, err)
}

func TestDeleteBatch(t *testing.T) {
	engine, root := newTestGateway(t)
	handler := Delete(engine, auth.NewOwnerAuthorizer(), zap.NewNop())

	first := filepath.Join(root, testUserID, "new-file1.txt")
	second := filepath.Join(root, testUserID, "new-file2.txt")
	seedFile(t, first, "Hello World")
	seedFile(t, second, "Hello World")

	rec := serve(handler, userPrincipal(), deleteRequest([]string{"new-file1.txt", "new-file2.txt"}, true))

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "2 files were permanently deleted", envelope.Message)

	_, err := os.Stat(first)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(second)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteBatchReportsFailures(t *testing.T) {
	engine, root := newTestGateway(t)
	handler := Delete(engine, auth.NewOwnerAuthorizer(), zap.NewNop())

	present := filepath.Join(root, testUserID, "present.txt")
	foreign := filepath.Join(root, testAdminID, "adminfile.txt")
	seedFile(t, present, "here")
	seedFile(t, foreign, "admin data")

	t.Run("mixed batch splits success and failed", func(t *testing.T) {
		rec := serve(handler, userPrincipal(), deleteRequest([]string{present, "missing.txt", foreign}, false))

		require.Equal(t, http.StatusOK, rec.Code)
		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, "1 files were permanently deleted", envelope.Message)
		assert.Contains(t, string(envelope.Data), "missing.txt")
		assert.Contains(t, string(envelope.Data), "adminfile.txt")

		// Denied batch items are reported as failed, never deleted.
		_, err := os.Stat(foreign)
		assert.NoError(t, err)
	})

	t.Run("batch with no deletions is a not-found", func(t *testing.T) {
		rec := serve(handler, userPrincipal(), deleteRequest([]string{"gone1.txt", "gone2.txt"}, true))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, MsgNoneDeleted, decodeEnvelope(t, rec).Message)
	})
}
