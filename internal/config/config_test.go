package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.RefreshTTL != "168h" {
		t.Errorf("RefreshTTL = %q, want %q", cfg.RefreshTTL, "168h")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.RequireDeviceID {
		t.Error("RequireDeviceID should default to false")
	}
	if cfg.RetentionWindow != "720h" {
		t.Errorf("RetentionWindow = %q, want %q", cfg.RetentionWindow, "720h")
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("REFRESH_TTL", "24h")
	os.Setenv("BCRYPT_COST", "14")
	os.Setenv("REQUIRE_DEVICE_ID", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RefreshTTL != "24h" {
		t.Errorf("RefreshTTL = %q, want %q", cfg.RefreshTTL, "24h")
	}
	if cfg.BcryptCost != 14 {
		t.Errorf("BcryptCost = %d, want 14", cfg.BcryptCost)
	}
	if !cfg.RequireDeviceID {
		t.Error("RequireDeviceID should be true")
	}
}

func TestLoad_InvalidBcryptCost(t *testing.T) {
	testCases := []struct {
		name string
		cost string
	}{
		{"too low", "3"},
		{"too high", "32"},
		{"negative", "-1"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv("BCRYPT_COST", tc.cost)
			if _, err := Load(); err == nil {
				t.Errorf("Load with BCRYPT_COST=%s should return error", tc.cost)
			}
		})
	}
}

func TestLoad_ProductionForcesDeviceID(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_ENV", "production")
	os.Setenv("REQUIRE_DEVICE_ID", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.RequireDeviceID {
		t.Error("production env should force RequireDeviceID on")
	}
}

func TestRefreshLifetime(t *testing.T) {
	testCases := []struct {
		name string
		ttl  string
		want time.Duration
	}{
		{"valid", "24h", 24 * time.Hour},
		{"empty falls back", "", 168 * time.Hour},
		{"invalid falls back", "soon", 168 * time.Hour},
		{"negative falls back", "-5h", 168 * time.Hour},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := &Config{RefreshTTL: tc.ttl}
			if got := c.RefreshLifetime(); got != tc.want {
				t.Errorf("RefreshLifetime() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRetention(t *testing.T) {
	c := &Config{RetentionWindow: "48h"}
	if got := c.Retention(); got != 48*time.Hour {
		t.Errorf("Retention() = %v, want 48h", got)
	}
	c = &Config{}
	if got := c.Retention(); got != 720*time.Hour {
		t.Errorf("Retention() fallback = %v, want 720h", got)
	}
}
