// Package config provides configuration management for the file gateway.
// It handles loading and validating configuration from YAML files and
// environment variables.
package config

import "time"

// AppConfig represents the complete application configuration
type AppConfig struct {
	Server  ServerConfig  `koanf:"server"`
	Auth    AuthConfig    `koanf:"auth"`
	Log     LogConfig     `koanf:"log"`
	Backend BackendConfig `koanf:"backend"`
	Upload  UploadConfig  `koanf:"upload"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	ListenAddr      string        `koanf:"listen_addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// AuthConfig holds trust-delegate configuration. Credentials are never
// verified locally; they are forwarded to the identity service.
type AuthConfig struct {
	IdentityEndpoint string        `koanf:"identity_endpoint" validate:"required,url"`
	VerifyTimeout    time.Duration `koanf:"verify_timeout" validate:"gt=0"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// BackendConfig holds storage backend configuration
type BackendConfig struct {
	// RootPath is the storage root bounding every tenant partition. It must
	// exist before the server accepts requests.
	RootPath string `koanf:"root_path" validate:"required"`
}

// UploadConfig holds upload handling configuration
type UploadConfig struct {
	// MaxFiles caps the number of file parts accepted per request
	MaxFiles int `koanf:"max_files" validate:"gt=0"`
	// MaxMemory bounds the multipart parser's in-memory buffer in bytes
	MaxMemory int64 `koanf:"max_memory" validate:"gt=0"`
	// RatePerSecond and Burst drive the upload rate limiter
	RatePerSecond float64 `koanf:"rate_per_second" validate:"gt=0"`
	Burst         int     `koanf:"burst" validate:"gt=0"`
}
