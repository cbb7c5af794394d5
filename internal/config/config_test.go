package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"demand-planner/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"TELEGRAM_TOKEN", "DATABASE_URL", "REPORT_INTERVAL_HOURS", "TIMER_REFRESH_SECONDS", "CONFIG_FILE", "REPORT_AT", "ACCESS_KEY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DatabaseURL != "demand_planner.db" {
		t.Errorf("Expected default database, got %q", cfg.DatabaseURL)
	}
	if cfg.ReportInterval != 5*time.Hour || cfg.TimerRefresh != 5*time.Second {
		t.Errorf("Unexpected intervals %v %v", cfg.ReportInterval, cfg.TimerRefresh)
	}
	if cfg.Limits[model.TypeExecute] != 7 || cfg.Limits[model.TypeThink] != 10 || cfg.Limits[model.TypeRespond] != 15 {
		t.Errorf("Unexpected limits %v", cfg.Limits)
	}
	if err := cfg.RequireToken(); err == nil {
		t.Error("Expected missing token error")
	}
}

func TestLoadEnvAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.yaml")
	content := `limits:
  EXECUTAR: 3
  think: 4
keywords:
  execute: [Organizar, " arrumar "]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("TELEGRAM_TOKEN", "abc")
	t.Setenv("DATABASE_URL", "data/x.db")
	t.Setenv("REPORT_INTERVAL_HOURS", "2")
	t.Setenv("TIMER_REFRESH_SECONDS", "bad")
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DatabaseURL != "data/x.db" || cfg.ReportInterval != 2*time.Hour {
		t.Errorf("Unexpected env values %+v", cfg)
	}
	if cfg.TimerRefresh != 5*time.Second {
		t.Errorf("Expected invalid refresh to fall back, got %v", cfg.TimerRefresh)
	}
	if cfg.Limits[model.TypeExecute] != 3 || cfg.Limits[model.TypeThink] != 4 || cfg.Limits[model.TypeRespond] != 15 {
		t.Errorf("Unexpected limits %v", cfg.Limits)
	}
	if len(cfg.Keywords.Execute) != 2 || cfg.Keywords.Execute[0] != "organizar" || cfg.Keywords.Execute[1] != "arrumar" {
		t.Errorf("Unexpected execute keywords %v", cfg.Keywords.Execute)
	}
	if len(cfg.Keywords.Think) != 4 {
		t.Errorf("Expected default think keywords, got %v", cfg.Keywords.Think)
	}
	if err := cfg.RequireToken(); err != nil {
		t.Errorf("Expected token to be present: %v", err)
	}
}

func TestApplyFileRejectsUnknownType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("limits:\n  DORMIR: 2\n  RESPOND: 0\n"), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", "")
	cfg, _ := Load()
	if err := cfg.ApplyFile(path); err == nil {
		t.Error("Expected error for unknown type")
	}
	if cfg.Limits[model.TypeRespond] != 15 {
		t.Errorf("Expected RESPOND limit to stay 15, got %d", cfg.Limits[model.TypeRespond])
	}
}

func TestFileSession(t *testing.T) {
	ctx := context.Background()
	session, err := NewFileSession(filepath.Join(t.TempDir(), "nested", "session.json"))
	if err != nil {
		t.Fatalf("NewFileSession failed: %v", err)
	}

	if ok, err := session.IsAuthorized(ctx); err != nil || ok {
		t.Fatalf("Expected missing file to be unauthorized, got %v %v", ok, err)
	}
	if err := session.SetAuthorized(ctx, true); err != nil {
		t.Fatalf("SetAuthorized failed: %v", err)
	}
	if ok, _ := session.IsAuthorized(ctx); !ok {
		t.Error("Expected session to be authorized")
	}
	if err := session.SetAuthorized(ctx, false); err != nil {
		t.Fatalf("SetAuthorized failed: %v", err)
	}
	if ok, _ := session.IsAuthorized(ctx); ok {
		t.Error("Expected session to be logged out")
	}
}
