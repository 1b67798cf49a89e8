package config

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("STORAGE_DRIVER", "memory")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":3001" {
		t.Fatalf("HTTPAddr = %q, want :3001", cfg.HTTPAddr)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Fatalf("JWTTTL = %v, want 24h", cfg.JWTTTL)
	}
	if cfg.BcryptCost != 12 {
		t.Fatalf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.RateLimitWindow != time.Minute || cfg.RateLimitMax != 500 {
		t.Fatalf("rate limit = %v/%d, want 1m/500", cfg.RateLimitWindow, cfg.RateLimitMax)
	}
	if cfg.DefaultLocale != "he" {
		t.Fatalf("DefaultLocale = %q, want he", cfg.DefaultLocale)
	}
	if loc := cfg.EventLocation(); loc == nil || loc.String() != "Asia/Jerusalem" {
		t.Fatalf("EventLocation = %v, want Asia/Jerusalem", loc)
	}
}

func TestLoadPostgresDefaultURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !strings.HasPrefix(cfg.DatabaseURL, "postgres://localhost") {
		t.Fatalf("DatabaseURL = %q, want local default", cfg.DatabaseURL)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"short secret", "JWT_SECRET", "short", "JWT_SECRET"},
		{"low bcrypt cost", "BCRYPT_COST", "4", "BCRYPT_COST"},
		{"bad driver", "STORAGE_DRIVER", "sqlite", "STORAGE_DRIVER"},
		{"bad zone", "EVENT_TIMEZONE", "Mars/Base", "EVENT_TIMEZONE"},
		{"bad level", "LOG_LEVEL", "loud", "LOG_LEVEL"},
		{"bad format", "LOG_FORMAT", "xml", "LOG_FORMAT"},
		{"zero rate limit", "RATE_LIMIT_MAX", "0", "RATE_LIMIT"},
		{"half bootstrap", "BOOTSTRAP_ADMIN_USERNAME", "admin", "BOOTSTRAP_ADMIN"},
		{"unparsable ttl", "JWT_TTL", "forever", "parse env"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestNewLoggerFormat(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line logged at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Fatalf("expected JSON warn line, got %s", out)
	}
}
