// Package handlers implements the HTTP endpoints of the file gateway. Every
// response body is the envelope {status, message, data} the gateway's clients
// depend on, including the exact denial and not-found message strings.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ebogdum/filegate/catalog"
	"github.com/ebogdum/filegate/metrics"
)

// Stable response messages. Client software keys UI text off these strings,
// so they must not drift.
const (
	MsgAccessDenied    = "You are not allowed to access this file"
	MsgNoFiles         = "There are no files available"
	MsgPathNotFound    = "The requested path wasn't found"
	MsgNoFilesUploaded = "No files were uploaded"
	MsgSingleDeleted   = "The file was permanently deleted"
	MsgNoneDeleted     = "None of the requested files were found"
)

// Envelope is the uniform response body: {status, message, data}. Data is
// always present, null when there is nothing to carry.
type Envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Respond writes the response envelope with the given status, message and
// payload.
func Respond(w http.ResponseWriter, logger *zap.Logger, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	envelope := Envelope{
		Status:  status,
		Message: message,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

// RespondError maps an error to its status and writes the envelope. Sentinel
// errors carry their canonical messages; anything else is an internal error
// whose cause text is echoed best-effort.
func RespondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var status int
	var message string

	switch err {
	case catalog.ErrNotFound:
		status = http.StatusNotFound
		message = MsgPathNotFound
	case catalog.ErrForbidden:
		status = http.StatusForbidden
		message = MsgAccessDenied
	default:
		status = http.StatusInternalServerError
		message = err.Error()
		metrics.ErrorsTotal.WithLabelValues("handlers", "internal").Inc()
	}

	Respond(w, logger, status, message, nil)

	logger.Info("Error response sent",
		zap.Int("status_code", status),
		zap.Error(err))
}

// CountMessage renders the "N files found" success message.
func CountMessage(n int) string {
	return fmt.Sprintf("%d files found", n)
}
