package handlers

import (
	"archive/zip"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
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

// downloadTarget is one validated target of a download request.
type downloadTarget struct {
	identifier string
	record     *catalog.FileRecord
}

// Download handles GET /download requests. One file parameter streams the
// file as an attachment; repeated parameters stream a zip archive built on
// the fly. Every target is resolved, existence-checked and ownership-checked
// before the first response byte is written, so a bad target in a multi-file
// request still yields a clean error status.
func Download(engine *core.Engine, authorizer auth.Authorizer, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, "/download").Observe(time.Since(start).Seconds())
		}()

		principal, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/download", "401").Inc()
			Respond(w, logger, http.StatusUnauthorized, "No Bearer token provided", nil)
			return
		}

		files := r.URL.Query()["file"]
		if len(files) == 0 {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/download", "400").Inc()
			Respond(w, logger, http.StatusBadRequest, "No file provided", nil)
			return
		}
		useUserDir := r.URL.Query().Get("useUserDir") == "true"

		targets := make([]downloadTarget, 0, len(files))
		for _, file := range files {
			location, err := pathutil.ResolveTarget(engine.RootPath(), principal.ID, file, useUserDir)
			if err != nil {
				metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/download", "403").Inc()
				metrics.AccessDeniedTotal.WithLabelValues("download").Inc()
				Respond(w, logger, http.StatusForbidden, MsgAccessDenied, nil)
				return
			}

			record, err := engine.FileInfo(r.Context(), location)
			if err != nil {
				if err == catalog.ErrNotFound {
					metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/download", "404").Inc()
					Respond(w, logger, http.StatusNotFound,
						fmt.Sprintf("%s wasn't found", file), nil)
					return
				}
				metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/download", "500").Inc()
				RespondError(w, logger, err)
				return
			}

			// Downloads never carry the admin override; admins reach other
			// partitions through /list only.
			if !authorizer.CanAccess(principal, location, false) {
				metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/download", "403").Inc()
				metrics.AccessDeniedTotal.WithLabelValues("download").Inc()
				Respond(w, logger, http.StatusForbidden, MsgAccessDenied, nil)
				return
			}

			targets = append(targets, downloadTarget{identifier: file, record: record})
		}

		logFields := log.LogFields{
			TenantID:  principal.ID,
			Operation: "download",
		}.Sanitize()

		if len(targets) == 1 {
			streamSingle(w, r, engine, logger, targets[0])
		} else {
			streamArchive(w, r, engine, logger, targets)
		}

		metrics.FileOperationsTotal.WithLabelValues("download").Inc()
		logger.Info("Files downloaded",
			zap.String("tenant_id", logFields.TenantID),
			zap.Int("count", len(targets)))
	}
}

func streamSingle(w http.ResponseWriter, r *http.Request, engine *core.Engine, logger *zap.Logger, target downloadTarget) {
	content, err := engine.OpenFile(r.Context(), target.record.Location)
	if err != nil {
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/download", "500").Inc()
		RespondError(w, logger, err)
		return
	}
	defer content.Close()

	contentType := mime.TypeByExtension(filepath.Ext(target.record.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", target.record.Name))
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(target.record.Size, 10))

	metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/download", "200").Inc()
	if _, err := io.Copy(w, content); err != nil {
		// Headers are gone; all that remains is to record the broken stream.
		logger.Warn("Download stream interrupted", zap.Error(err))
	}
}

func streamArchive(w http.ResponseWriter, r *http.Request, engine *core.Engine, logger *zap.Logger, targets []downloadTarget) {
	w.Header().Set("Content-Disposition", `attachment; filename="files.zip"`)
	w.Header().Set("Content-Type", "application/zip")

	metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/download", "200").Inc()

	archive := zip.NewWriter(w)
	defer func() {
		if err := archive.Close(); err != nil {
			logger.Warn("Archive stream interrupted", zap.Error(err))
		}
	}()

	for _, target := range targets {
		header := &zip.FileHeader{
			Name:     target.record.Name,
			Method:   zip.Deflate,
			Modified: target.record.ModifiedAt,
		}

		entry, err := archive.CreateHeader(header)
		if err != nil {
			logger.Warn("Archive stream interrupted", zap.Error(err))
			return
		}

		content, err := engine.OpenFile(r.Context(), target.record.Location)
		if err != nil {
			logger.Warn("Failed to open archive member",
				zap.String("name", target.record.Name),
				zap.Error(err))
			return
		}
		_, err = io.Copy(entry, content)
		content.Close()
		if err != nil {
			logger.Warn("Archive stream interrupted", zap.Error(err))
			return
		}
	}
}
