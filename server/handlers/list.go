package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ebogdum/filegate/core"
	"github.com/ebogdum/filegate/core/log"
	"github.com/ebogdum/filegate/internal/pathutil"
	"github.com/ebogdum/filegate/metrics"
	"github.com/ebogdum/filegate/server/middleware"
)

// List handles GET /list requests. Without a path parameter the caller's own
// partition is listed; with one, users stay anchored to their partition while
// admins may address any subtree relative to the storage root.
func List(engine *core.Engine, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, "/list").Observe(time.Since(start).Seconds())
		}()

		principal, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/list", "401").Inc()
			Respond(w, logger, http.StatusUnauthorized, "No Bearer token provided", nil)
			return
		}

		queryPath := r.URL.Query().Get("path")

		location, err := pathutil.Resolve(engine.RootPath(), principal.ID, principal.IsAdmin(), queryPath)
		if err != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/list", "403").Inc()
			metrics.AccessDeniedTotal.WithLabelValues("list").Inc()
			Respond(w, logger, http.StatusForbidden, MsgAccessDenied, nil)
			return
		}

		exists, err := engine.DirectoryExists(r.Context(), location)
		if err != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/list", "500").Inc()
			RespondError(w, logger, err)
			return
		}
		if !exists {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/list", "404").Inc()
			Respond(w, logger, http.StatusNotFound, MsgPathNotFound, nil)
			return
		}

		// Listings descend by default; ?recursive=false restricts the
		// enumeration to direct children.
		recursive := r.URL.Query().Get("recursive") != "false"

		records, err := engine.ListDirectory(r.Context(), location, recursive)
		if err != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/list", "500").Inc()
			RespondError(w, logger, err)
			return
		}

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/list", "200").Inc()
		metrics.FileOperationsTotal.WithLabelValues("list").Inc()

		logFields := log.LogFields{
			Path:      location,
			TenantID:  principal.ID,
			Operation: "list",
		}.Sanitize()

		logger.Info("Directory listed",
			zap.String("path", logFields.Path),
			zap.String("tenant_id", logFields.TenantID),
			zap.Bool("recursive", recursive),
			zap.Int("count", len(records)))

		Respond(w, logger, http.StatusOK, CountMessage(len(records)), records)
	}
}
