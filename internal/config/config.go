package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Mode string

const (
	ModeDev  Mode = "dev"
	ModeProd Mode = "prod"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	BlobBasePath string // question image assets (fs blob store)

	AuthSecret string // HS256 signing key

	AdminUser     string
	AdminPassHash string // bcrypt

	CORSOrigins []string

	// Artificial latency for the template question generator, so the
	// UI's loading states stay exercised in dev.
	GenAIDelay time.Duration
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeDev
	}
	return Config{
		Mode:          mode,
		HTTPAddr:      envOr("HTTP_ADDR", ":8080"),
		DBDriver:      envOr("DB_DRIVER", "sqlite"),
		DBDSN:         envOr("DB_DSN", ""),
		BlobBasePath:  envOr("BLOB_BASE_PATH", "./data"),
		AuthSecret:    envOr("AUTH_SECRET", "dev-insecure-secret"),
		AdminUser:     envOr("ADMIN_USER", "admin"),
		AdminPassHash: envOr("ADMIN_PASS_HASH", ""),
		CORSOrigins:   csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		GenAIDelay:    envDuration("GENAI_DELAY_MS", 1500) * time.Millisecond,
	}
}

// AllowClaimFallback reports whether the role claim in a token may be
// trusted when the user row is missing. Dev only.
func (c Config) AllowClaimFallback() bool { return c.Mode != ModeProd }

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envDuration(k string, defMillis int) time.Duration {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return time.Duration(n)
		}
	}
	return time.Duration(defMillis)
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
