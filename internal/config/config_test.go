package config

import (
	"testing"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error when DATABASE_URL is missing, got nil")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/expensio")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Expected default env development, got %s", cfg.Env)
	}
	if cfg.RateLimitPerMinute != 100 {
		t.Errorf("Expected default rate limit 100, got %d", cfg.RateLimitPerMinute)
	}
	if cfg.RedisURL != "" {
		t.Errorf("Expected empty redis URL by default, got %s", cfg.RedisURL)
	}
	if cfg.SQS.QueueURL != "" {
		t.Errorf("Expected empty SQS queue URL by default, got %s", cfg.SQS.QueueURL)
	}
}

func TestLoad_CORSOriginsSplit(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/expensio")
	t.Setenv("CORS_ORIGINS", "https://app.example.com,https://admin.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("Expected 2 CORS origins, got %d", len(cfg.CORSOrigins))
	}
	if cfg.CORSOrigins[1] != "https://admin.example.com" {
		t.Errorf("Unexpected origin %s", cfg.CORSOrigins[1])
	}
}

func TestLoad_InvalidRateLimitFallsBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/expensio")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.RateLimitPerMinute != 100 {
		t.Errorf("Expected fallback rate limit 100, got %d", cfg.RateLimitPerMinute)
	}
}
