// Package log provides sanitization helpers for logging tenant data. Paths
// and tenant ids are user data and must not land in production logs verbatim.
package log

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strings"
)

// SanitizationMode controls how sensitive data is handled in logs
type SanitizationMode int

const (
	// ProductionMode hashes sensitive data for production use
	ProductionMode SanitizationMode = iota
	// DevelopmentMode shows truncated sensitive data for debugging
	DevelopmentMode
	// DebugMode shows full sensitive data (only for development)
	DebugMode
)

var currentMode = ProductionMode

func init() {
	if mode := os.Getenv("FILEGATE_LOG_MODE"); mode != "" {
		switch strings.ToLower(mode) {
		case "production":
			currentMode = ProductionMode
		case "development":
			currentMode = DevelopmentMode
		case "debug":
			currentMode = DebugMode
		}
	}
}

// SanitizePath sanitizes file paths for logging based on the current mode
func SanitizePath(path string) string {
	if path == "" {
		return ""
	}

	switch currentMode {
	case DevelopmentMode:
		if len(path) <= 20 {
			return path
		}
		return path[:10] + "..." + path[len(path)-7:]
	case DebugMode:
		return path
	default:
		hash := sha256.Sum256([]byte(path))
		return fmt.Sprintf("hash:%x", hash[:8])
	}
}

// SanitizeTenantID sanitizes principal ids for logging
func SanitizeTenantID(id string) string {
	if id == "" {
		return ""
	}

	switch currentMode {
	case DevelopmentMode:
		if len(id) <= 8 {
			return id
		}
		return id[:4] + "****"
	case DebugMode:
		return id
	default:
		hash := sha256.Sum256([]byte(id))
		return fmt.Sprintf("tenant_hash:%x", hash[:6])
	}
}

// LogFields provides a structured way to handle sensitive logging fields
type LogFields struct {
	Path      string
	TenantID  string
	Size      int64
	Operation string
}

// Sanitize returns sanitized versions of all fields
func (lf LogFields) Sanitize() LogFields {
	return LogFields{
		Path:      SanitizePath(lf.Path),
		TenantID:  SanitizeTenantID(lf.TenantID),
		Size:      lf.Size,
		Operation: lf.Operation,
	}
}
