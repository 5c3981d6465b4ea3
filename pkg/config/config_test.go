package config

import (
	"strings"
	"testing"
)

func TestLoad_RequiresCredentials(t *testing.T) {
	t.Setenv("FATHOM_API_KEY", "")
	t.Setenv("GOOGLE_GEMINI_API_KEY", "gm-key")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "FATHOM_API_KEY") {
		t.Fatalf("expected missing-key error naming FATHOM_API_KEY, got %v", err)
	}

	t.Setenv("FATHOM_API_KEY", "fm-key")
	t.Setenv("GOOGLE_GEMINI_API_KEY", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "GOOGLE_GEMINI_API_KEY") {
		t.Fatalf("expected missing-key error naming GOOGLE_GEMINI_API_KEY, got %v", err)
	}
}

func TestLoad_DefaultsAndDSN(t *testing.T) {
	t.Setenv("FATHOM_API_KEY", "fm-key")
	t.Setenv("GOOGLE_GEMINI_API_KEY", "gm-key")
	t.Setenv("DB_NAME", "minuteflow")
	t.Setenv("DB_SSLMODE", "disable")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("unexpected default port %s", cfg.Server.Port)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected default model %s", cfg.Gemini.Model)
	}
	if cfg.Artifact.Dir != ".tmp" {
		t.Fatalf("unexpected default artifact dir %s", cfg.Artifact.Dir)
	}

	dsn := cfg.GetDatabaseDSN()
	for _, want := range []string{"host=", "dbname=minuteflow", "sslmode=disable"} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("dsn missing %q: %s", want, dsn)
		}
	}
}
