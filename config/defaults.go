package config

import "time"

// DefaultAppConfig returns an AppConfig struct with sensible default values
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			ListenAddr:      ":8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Auth: AuthConfig{
			IdentityEndpoint: "http://localhost:8085/v1/auth",
			VerifyTimeout:    10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Backend: BackendConfig{
			RootPath: "/var/lib/filegate",
		},
		Upload: UploadConfig{
			MaxFiles:      10,
			MaxMemory:     32 << 20, // 32 MiB multipart buffer
			RatePerSecond: 50,
			Burst:         10,
		},
	}
}
