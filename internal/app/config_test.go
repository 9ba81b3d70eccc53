package app

import "testing"

func TestLoadConfigRequiresSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error without session secret")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AppAddr != ":8080" {
		t.Fatalf("unexpected default addr %q", cfg.AppAddr)
	}
	if cfg.IsProduction() {
		t.Fatal("development default reported as production")
	}
	if cfg.WarrantyScanWindowDays != 7 {
		t.Fatalf("unexpected scan window %d", cfg.WarrantyScanWindowDays)
	}
}
