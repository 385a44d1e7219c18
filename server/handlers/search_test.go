package handlers

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSearchRequiresPrincipalAndQuery(t *testing.T) {
	engine, _ := newTestGateway(t)
	handler := Search(engine, zap.NewNop())

	t.Run("missing principal", func(t *testing.T) {
		rec := serve(handler, nil, httptest.NewRequest(http.MethodGet, "/search?q=foo", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "No Bearer token provided", decodeEnvelope(t, rec).Message)
	})

	t.Run("missing query", func(t *testing.T) {
		rec := serve(handler, userPrincipal(), httptest.NewRequest(http.MethodGet, "/search", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No search query provided", decodeEnvelope(t, rec).Message)
	})
}

func TestSearchStages(t *testing.T) {
	engine, root := newTestGateway(t)
	handler := Search(engine, zap.NewNop())

	t.Run("empty partition", func(t *testing.T) {
		rec := serve(handler, userPrincipal(),
			httptest.NewRequest(http.MethodGet, "/search?q=report", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, MsgNoFiles, decodeEnvelope(t, rec).Message)
	})

	seedFile(t, filepath.Join(root, testUserID, "report-2024.txt"), "annual numbers")
	seedFile(t, filepath.Join(root, testUserID, "archive", "report-2023.txt"), "older numbers")
	seedFile(t, filepath.Join(root, testUserID, "notes.md"), "scratch")

	t.Run("no name match", func(t *testing.T) {
		rec := serve(handler, userPrincipal(),
			httptest.NewRequest(http.MethodGet, "/search?q=invoice", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "No matches for 'invoice'", decodeEnvelope(t, rec).Message)
	})

	t.Run("name matched but type did not", func(t *testing.T) {
		rec := serve(handler, userPrincipal(),
			httptest.NewRequest(http.MethodGet, "/search?q=report&type=mp3", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "No matches for 'report' and type '.mp3'", decodeEnvelope(t, rec).Message)
	})

	t.Run("case-insensitive name match descends subdirectories", func(t *testing.T) {
		rec := serve(handler, userPrincipal(),
			httptest.NewRequest(http.MethodGet, "/search?q=REPORT", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, "2 files found", envelope.Message)
		assert.Contains(t, string(envelope.Data), "report-2023.txt")
	})

	t.Run("type filter accepts a bare extension", func(t *testing.T) {
		rec := serve(handler, userPrincipal(),
			httptest.NewRequest(http.MethodGet, "/search?q=notes&type=md", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "1 files found", decodeEnvelope(t, rec).Message)
	})
}

func TestSearchStaysInsidePartition(t *testing.T) {
	engine, root := newTestGateway(t)
	handler := Search(engine, zap.NewNop())

	seedFile(t, filepath.Join(root, testUserID, "mine.txt"), "mine")
	seedFile(t, filepath.Join(root, testAdminID, "theirs.txt"), "not mine")

	rec := serve(handler, userPrincipal(),
		httptest.NewRequest(http.MethodGet, "/search?q=theirs", nil))

	// Files outside the caller's partition are invisible to search, so a
	// name that only exists elsewhere is a plain no-match.
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No matches for 'theirs'", decodeEnvelope(t, rec).Message)
}
