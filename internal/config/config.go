package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// AppConfig collects everything the server needs at startup.
type AppConfig struct {
	ListenAddr      string
	Port            string
	DatabasePath    string
	SessionSecret   string
	EditorToken     string
	GinMode         string
	SiteBaseURL     string
	DocstoreTimeout time.Duration
	ViewCacheTTL    time.Duration
	LogLevel        string
}

// Load reads the application config from environment variables, filling in
// safe defaults for anything missing.
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "inklog.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "inklog-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	siteBaseURL := strings.TrimSpace(os.Getenv("SITE_BASE_URL"))
	if siteBaseURL == "" {
		siteBaseURL = "http://localhost:8080"
	}

	logLevel := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "info"
	}

	timeout := 5 * time.Second
	if raw := strings.TrimSpace(os.Getenv("DOCSTORE_TX_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			timeout = parsed
		}
	}

	// Cached views also age out so date-gated posts appear without a write.
	viewTTL := 5 * time.Minute
	if raw := strings.TrimSpace(os.Getenv("VIEW_CACHE_TTL")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			viewTTL = parsed
		}
	}

	editorToken := strings.TrimSpace(os.Getenv("EDITOR_TOKEN"))

	return AppConfig{
		ListenAddr:      listenAddr,
		Port:            port,
		DatabasePath:    databasePath,
		SessionSecret:   sessionSecret,
		EditorToken:     editorToken,
		GinMode:         ginMode,
		SiteBaseURL:     siteBaseURL,
		DocstoreTimeout: timeout,
		ViewCacheTTL:    viewTTL,
		LogLevel:        logLevel,
	}
}
