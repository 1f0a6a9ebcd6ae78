package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveConfig_Precedence_ConfigEnvCLI(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.yaml")
	yaml := `db_path: ~/.docsift/from-config.db
templates: ~/.docsift/templates.yaml
workers: "2"
engine:
  min_confidence: "0.25"
`
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("DOCSIFT_DB", "~/from-env.db")
	t.Setenv("DOCSIFT_WORKERS", "8")

	resolved, err := ResolveConfig(ResolveOptions{
		ConfigPath: cfgPath,
		CLIDBPath:  "~/from-cli.db",
	})
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}

	if resolved.DBPath.Source != SourceCLI {
		t.Fatalf("expected DB path source cli, got %s", resolved.DBPath.Source)
	}
	if resolved.Workers.Source != SourceEnv {
		t.Fatalf("expected workers source env, got %s", resolved.Workers.Source)
	}
	if resolved.Workers.Value != "8" {
		t.Fatalf("expected workers 8, got %q", resolved.Workers.Value)
	}
	if resolved.Templates.Source != SourceConfig {
		t.Fatalf("expected templates from config, got %s", resolved.Templates.Source)
	}
	if resolved.MinConfidence.Value != "0.25" {
		t.Fatalf("expected min_confidence from config, got %q", resolved.MinConfidence.Value)
	}
}

func TestResolveConfig_DefaultsWhenMissing(t *testing.T) {
	tmp := t.TempDir()
	resolved, err := ResolveConfig(ResolveOptions{
		ConfigPath: filepath.Join(tmp, "missing.yaml"),
	})
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}
	if resolved.DBPath.Source != SourceDefault {
		t.Fatalf("expected default db path, got %s", resolved.DBPath.Source)
	}
	if resolved.DBPath.Value == "" {
		t.Fatal("expected non-empty default db path")
	}
	if resolved.Templates.Value != "" {
		t.Fatalf("expected empty templates path, got %q", resolved.Templates.Value)
	}
}

func TestResolveConfig_BadYAML(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("db_path: [unterminated"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := ResolveConfig(ResolveOptions{ConfigPath: cfgPath}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestExpandUserPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	got := expandUserPath("~/docs/notes.db")
	want := filepath.Join(home, "docs", "notes.db")
	if got != want {
		t.Fatalf("expandUserPath = %q, want %q", got, want)
	}
	if got := expandUserPath("/abs/path.db"); got != "/abs/path.db" {
		t.Fatalf("absolute path changed: %q", got)
	}
}

func TestSettingParsers(t *testing.T) {
	cfg := ResolvedConfig{Workers: ResolvedValue{Value: "4"}}
	if n := cfg.WorkerCount(2); n != 4 {
		t.Fatalf("WorkerCount = %d, want 4", n)
	}
	cfg.Workers.Value = "zero"
	if n := cfg.WorkerCount(2); n != 2 {
		t.Fatalf("WorkerCount fallback = %d, want 2", n)
	}
	if f := FloatSetting(ResolvedValue{Value: "0.75"}, 0.5); f != 0.75 {
		t.Fatalf("FloatSetting = %v, want 0.75", f)
	}
	if f := FloatSetting(ResolvedValue{Value: "1.5"}, 0.5); f != 0.5 {
		t.Fatalf("FloatSetting out of range = %v, want fallback 0.5", f)
	}
	if n := IntSetting(ResolvedValue{Value: "200"}, 160); n != 200 {
		t.Fatalf("IntSetting = %d, want 200", n)
	}
	if n := IntSetting(ResolvedValue{}, 160); n != 160 {
		t.Fatalf("IntSetting fallback = %d, want 160", n)
	}
}
