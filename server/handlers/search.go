package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ebogdum/filegate/catalog"
	"github.com/ebogdum/filegate/core"
	"github.com/ebogdum/filegate/core/log"
	"github.com/ebogdum/filegate/internal/pathutil"
	"github.com/ebogdum/filegate/metrics"
	"github.com/ebogdum/filegate/server/middleware"
)

// Search handles GET /search requests. The caller's whole partition is
// searched recursively: first a case-insensitive substring match on the file
// name, then an optional exact extension match. The two stages fail with
// distinct messages so clients can tell them apart.
func Search(engine *core.Engine, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, "/search").Observe(time.Since(start).Seconds())
		}()

		principal, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/search", "401").Inc()
			Respond(w, logger, http.StatusUnauthorized, "No Bearer token provided", nil)
			return
		}

		query := r.URL.Query().Get("q")
		if query == "" {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/search", "400").Inc()
			Respond(w, logger, http.StatusBadRequest, "No search query provided", nil)
			return
		}
		fileType := r.URL.Query().Get("type")

		// Search never leaves the caller's partition, admins included; wider
		// admin scope exists only on /list via the path parameter.
		base := pathutil.Partition(engine.RootPath(), principal.ID)

		result, err := engine.Search(r.Context(), base, query, fileType)
		if err != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/search", "500").Inc()
			RespondError(w, logger, err)
			return
		}

		switch {
		case result.Available == 0:
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/search", "404").Inc()
			Respond(w, logger, http.StatusNotFound, MsgNoFiles, nil)
			return
		case result.NameMatched == 0:
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/search", "404").Inc()
			Respond(w, logger, http.StatusNotFound, fmt.Sprintf("No matches for '%s'", query), nil)
			return
		case len(result.Records) == 0:
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/search", "404").Inc()
			Respond(w, logger, http.StatusNotFound,
				fmt.Sprintf("No matches for '%s' and type '%s'", query, catalog.NormalizeExtension(fileType)), nil)
			return
		}

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/search", "200").Inc()
		metrics.FileOperationsTotal.WithLabelValues("search").Inc()

		logFields := log.LogFields{
			TenantID:  principal.ID,
			Operation: "search",
		}.Sanitize()

		logger.Info("Catalog searched",
			zap.String("tenant_id", logFields.TenantID),
			zap.Int("matches", len(result.Records)))

		Respond(w, logger, http.StatusOK, CountMessage(len(result.Records)), result.Records)
	}
}
