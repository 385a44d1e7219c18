package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ebogdum/filegate/core"
	"github.com/ebogdum/filegate/core/log"
	"github.com/ebogdum/filegate/metrics"
	"github.com/ebogdum/filegate/server/middleware"
)

// Upload handles POST /upload requests. Files arrive as multipart parts under
// the "files" field and land in the caller's partition, which is created on
// first upload. Conflicting names are skipped rather than overwritten; a batch
// where nothing was newly stored is reported as a bad gateway, the status
// existing clients key off for the all-conflict case.
func Upload(engine *core.Engine, logger *zap.Logger, maxFiles int, maxMemory int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, "/upload").Observe(time.Since(start).Seconds())
		}()

		principal, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/upload", "401").Inc()
			Respond(w, logger, http.StatusUnauthorized, "No Bearer token provided", nil)
			return
		}

		if err := r.ParseMultipartForm(maxMemory); err != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/upload", "400").Inc()
			Respond(w, logger, http.StatusBadRequest, "Invalid multipart payload", nil)
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				if err := r.MultipartForm.RemoveAll(); err != nil {
					logger.Warn("Failed to clean up multipart temp files", zap.Error(err))
				}
			}
		}()

		parts := r.MultipartForm.File["files"]
		if len(parts) == 0 {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/upload", "502").Inc()
			Respond(w, logger, http.StatusBadGateway, MsgNoFilesUploaded, nil)
			return
		}
		if maxFiles > 0 && len(parts) > maxFiles {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/upload", "400").Inc()
			Respond(w, logger, http.StatusBadRequest,
				fmt.Sprintf("Too many files, at most %d per request", maxFiles), nil)
			return
		}

		uploads := make([]core.Upload, 0, len(parts))
		opened := make([]multipart.File, 0, len(parts))
		for _, part := range parts {
			content, err := part.Open()
			if err != nil {
				logger.Warn("Failed to open multipart part",
					zap.String("name", part.Filename),
					zap.Error(err))
				continue
			}
			opened = append(opened, content)
			uploads = append(uploads, core.Upload{
				Name:    part.Filename,
				Content: content,
			})
		}
		defer func() {
			for _, content := range opened {
				content.Close()
			}
		}()

		result, err := engine.SaveUploads(r.Context(), principal.ID, uploads)
		if err != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/upload", "500").Inc()
			RespondError(w, logger, err)
			return
		}

		if len(result.Accepted) == 0 {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/upload", "502").Inc()
			Respond(w, logger, http.StatusBadGateway, MsgNoFilesUploaded, nil)
			return
		}

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/upload", "200").Inc()
		metrics.FileOperationsTotal.WithLabelValues("upload").Inc()

		logFields := log.LogFields{
			TenantID:  principal.ID,
			Operation: "upload",
		}.Sanitize()

		logger.Info("Files uploaded",
			zap.String("tenant_id", logFields.TenantID),
			zap.Int("accepted", len(result.Accepted)),
			zap.Int("skipped", len(result.Skipped)))

		Respond(w, logger, http.StatusOK,
			fmt.Sprintf("%d files uploaded", len(result.Accepted)), result.Accepted)
	}
}
