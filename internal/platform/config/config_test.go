package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected default addr: %q", cfg.Addr)
	}
	if cfg.Environment != "development" {
		t.Fatalf("unexpected default environment: %q", cfg.Environment)
	}
	if !cfg.MetricsEnabled {
		t.Fatal("metrics should default on")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()
	if cfg.Addr != ":9090" {
		t.Fatalf("expected :9090, got %q", cfg.Addr)
	}
	if cfg.MetricsEnabled {
		t.Fatal("expected metrics disabled")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{DatabaseURL: "postgres://localhost/wfm", Environment: "development", MaxBodyBytes: 1048576}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cfg.DatabaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}

	cfg.DatabaseURL = "postgres://localhost/wfm"
	cfg.Environment = "production"
	cfg.JWTSecret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing JWT secret in production")
	}
}
