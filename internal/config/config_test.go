package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	os.Setenv("MONGODB_DATABASE", "mathplanner_test")
	os.Setenv("REDIS_HOST", "localhost")
	os.Setenv("REDIS_PORT", "6379")
	os.Setenv("JWT_SECRET", "testsecret123456789012345678901234")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MongoDB.URI == "" || cfg.Redis.Host == "" {
		t.Fatalf("unexpected empty config values: %+v", cfg)
	}
	if cfg.MinIO.TemplateBucket != "latex-templates" {
		t.Fatalf("unexpected template bucket default: %q", cfg.MinIO.TemplateBucket)
	}
}

func TestParseCompilerEndpoints(t *testing.T) {
	raw := "ytotech=json=https://latex.api.ytotech.com/builds/sync/pdf, texlive=form=https://texlive.net/cgi-bin/latexcgi,broken-entry,weird=grpc=http://x"
	eps := parseCompilerEndpoints(raw, 20*time.Second)
	if len(eps) != 2 {
		t.Fatalf("expected 2 endpoints, got %d: %+v", len(eps), eps)
	}
	if eps[0].Name != "ytotech" || eps[0].Kind != "json" {
		t.Fatalf("unexpected first endpoint: %+v", eps[0])
	}
	if eps[1].Name != "texlive" || eps[1].Kind != "form" {
		t.Fatalf("unexpected second endpoint: %+v", eps[1])
	}
	if eps[0].Timeout != 20*time.Second {
		t.Fatalf("timeout not applied: %v", eps[0].Timeout)
	}
}

func TestParseCompilerEndpoints_Empty(t *testing.T) {
	if eps := parseCompilerEndpoints("", time.Second); len(eps) != 0 {
		t.Fatalf("expected no endpoints for empty input, got %+v", eps)
	}
}
