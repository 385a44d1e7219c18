package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ebogdum/filegate/auth"
	"github.com/ebogdum/filegate/catalog"
	"github.com/ebogdum/filegate/core"
	"github.com/ebogdum/filegate/core/log"
	"github.com/ebogdum/filegate/internal/pathutil"
	"github.com/ebogdum/filegate/metrics"
	"github.com/ebogdum/filegate/server/middleware"
)

// Delete handles DELETE /delete requests. A single file parameter removes one
// file and returns its record; repeated parameters remove a batch and return
// the {success, failed} split. Batch items that fail resolution or ownership
// land in the failed set instead of aborting the batch; only a batch with no
// deletions at all is a not-found.
func Delete(engine *core.Engine, authorizer auth.Authorizer, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, "/delete").Observe(time.Since(start).Seconds())
		}()

		principal, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/delete", "401").Inc()
			Respond(w, logger, http.StatusUnauthorized, "No Bearer token provided", nil)
			return
		}

		files := r.URL.Query()["file"]
		if len(files) == 0 {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/delete", "400").Inc()
			Respond(w, logger, http.StatusBadRequest, "No file provided", nil)
			return
		}
		useUserDir := r.URL.Query().Get("useUserDir") == "true"

		if len(files) == 1 {
			deleteSingle(w, r, engine, authorizer, logger, principal, files[0], useUserDir)
			return
		}
		deleteBatch(w, r, engine, authorizer, logger, principal, files, useUserDir)
	}
}

func deleteSingle(w http.ResponseWriter, r *http.Request, engine *core.Engine, authorizer auth.Authorizer,
	logger *zap.Logger, principal *auth.Principal, file string, useUserDir bool) {

	location, err := pathutil.ResolveTarget(engine.RootPath(), principal.ID, file, useUserDir)
	if err != nil {
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/delete", "403").Inc()
		metrics.AccessDeniedTotal.WithLabelValues("delete").Inc()
		Respond(w, logger, http.StatusForbidden, MsgAccessDenied, nil)
		return
	}

	if _, err := engine.FileInfo(r.Context(), location); err != nil {
		if err == catalog.ErrNotFound {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/delete", "404").Inc()
			Respond(w, logger, http.StatusNotFound,
				fmt.Sprintf("%s wasn't found", file), nil)
			return
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/delete", "500").Inc()
		RespondError(w, logger, err)
		return
	}

	// Deletion never carries the admin override.
	if !authorizer.CanAccess(principal, location, false) {
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/delete", "403").Inc()
		metrics.AccessDeniedTotal.WithLabelValues("delete").Inc()
		Respond(w, logger, http.StatusForbidden, MsgAccessDenied, nil)
		return
	}

	deleted, err := engine.Delete(r.Context(), location)
	if err != nil {
		if err == catalog.ErrNotFound {
			// Lost a race with a concurrent deletion.
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/delete", "404").Inc()
			Respond(w, logger, http.StatusNotFound,
				fmt.Sprintf("%s wasn't found", file), nil)
			return
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/delete", "500").Inc()
		RespondError(w, logger, err)
		return
	}

	metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/delete", "200").Inc()
	metrics.FileOperationsTotal.WithLabelValues("delete").Inc()

	logFields := log.LogFields{
		Path:      location,
		TenantID:  principal.ID,
		Operation: "delete",
	}.Sanitize()
	logger.Info("File deleted",
		zap.String("path", logFields.Path),
		zap.String("tenant_id", logFields.TenantID))

	Respond(w, logger, http.StatusOK, MsgSingleDeleted, deleted)
}

func deleteBatch(w http.ResponseWriter, r *http.Request, engine *core.Engine, authorizer auth.Authorizer,
	logger *zap.Logger, principal *auth.Principal, files []string, useUserDir bool) {

	targets := make([]core.DeleteTarget, 0, len(files))
	failed := make([]string, 0)
	for _, file := range files {
		location, err := pathutil.ResolveTarget(engine.RootPath(), principal.ID, file, useUserDir)
		if err != nil || !authorizer.CanAccess(principal, location, false) {
			// No per-item Forbidden in batch mode; denied items simply fail.
			failed = append(failed, file)
			continue
		}
		targets = append(targets, core.DeleteTarget{Identifier: file, Location: location})
	}

	result, err := engine.DeleteBatch(r.Context(), targets)
	if err != nil {
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/delete", "500").Inc()
		RespondError(w, logger, err)
		return
	}
	result.Failed = append(failed, result.Failed...)

	if len(result.Success) == 0 {
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/delete", "404").Inc()
		Respond(w, logger, http.StatusNotFound, MsgNoneDeleted, result)
		return
	}

	metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/delete", "200").Inc()
	metrics.FileOperationsTotal.WithLabelValues("delete").Inc()

	logFields := log.LogFields{
		TenantID:  principal.ID,
		Operation: "delete",
	}.Sanitize()
	logger.Info("Files deleted",
		zap.String("tenant_id", logFields.TenantID),
		zap.Int("deleted", len(result.Success)),
		zap.Int("failed", len(result.Failed)))

	Respond(w, logger, http.StatusOK,
		fmt.Sprintf("%d files were permanently deleted", len(result.Success)), result)
}
