package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type ValueSource string

const (
	SourceUnknown ValueSource = "unknown"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

// ResolvedValue carries a setting plus where it came from, so status
// output can show which layer won.
type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

type ResolveOptions struct {
	ConfigPath   string
	CLIDBPath    string
	CLITemplates string
	CLIWorkers   string
}

// ResolvedConfig is the effective configuration after merging the
// config file, environment, and CLI flags, in that precedence order.
type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	DBPath    ResolvedValue `json:"db_path"`
	Templates ResolvedValue `json:"templates"`
	Workers   ResolvedValue `json:"workers"`

	MinConfidence   ResolvedValue `json:"min_confidence"`
	SparseCeiling   ResolvedValue `json:"sparse_ceiling"`
	ProximityWindow ResolvedValue `json:"proximity_window"`
}

type fileConfig struct {
	DBPath    string `yaml:"db_path"`
	Templates string `yaml:"templates"`
	Workers   string `yaml:"workers"`
	Engine    struct {
		MinConfidence   string `yaml:"min_confidence"`
		SparseCeiling   string `yaml:"sparse_ceiling"`
		ProximityWindow string `yaml:"proximity_window"`
	} `yaml:"engine"`
}

func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".docsift", "config.yaml")
}

func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".docsift", "docsift.db")
}

// ResolveConfig merges the config file, DOCSIFT_* environment
// variables, and CLI flags. A missing config file is fine; a file that
// exists but does not parse is an error.
func ResolveConfig(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}

	out := ResolvedConfig{ConfigPath: path}
	out.DBPath = ResolvedValue{Value: DefaultDBPath(), Source: SourceDefault, From: "built-in default"}

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}

	if cfg != nil {
		apply(&out.DBPath, cfg.DBPath, SourceConfig, path)
		apply(&out.Templates, cfg.Templates, SourceConfig, path)
		apply(&out.Workers, cfg.Workers, SourceConfig, path)
		apply(&out.MinConfidence, cfg.Engine.MinConfidence, SourceConfig, path)
		apply(&out.SparseCeiling, cfg.Engine.SparseCeiling, SourceConfig, path)
		apply(&out.ProximityWindow, cfg.Engine.ProximityWindow, SourceConfig, path)
	}

	applyEnv(&out.DBPath, "DOCSIFT_DB")
	applyEnv(&out.DBPath, "DOCSIFT_DB_PATH")
	applyEnv(&out.Templates, "DOCSIFT_TEMPLATES")
	applyEnv(&out.Workers, "DOCSIFT_WORKERS")
	applyEnv(&out.MinConfidence, "DOCSIFT_MIN_CONFIDENCE")
	applyEnv(&out.SparseCeiling, "DOCSIFT_SPARSE_CEILING")
	applyEnv(&out.ProximityWindow, "DOCSIFT_PROXIMITY_WINDOW")

	apply(&out.DBPath, opts.CLIDBPath, SourceCLI, "--db")
	apply(&out.Templates, opts.CLITemplates, SourceCLI, "--templates")
	apply(&out.Workers, opts.CLIWorkers, SourceCLI, "--workers")

	if out.DBPath.Value != "" {
		out.DBPath.Value = expandUserPath(out.DBPath.Value)
	}
	if out.Templates.Value != "" {
		out.Templates.Value = expandUserPath(out.Templates.Value)
	}

	return out, nil
}

// WorkerCount parses the workers setting, falling back when unset or
// invalid.
func (r ResolvedConfig) WorkerCount(fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.Workers.Value))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// FloatSetting parses one of the engine tunables, falling back when
// unset or out of [0, 1].
func FloatSetting(v ResolvedValue, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64)
	if err != nil || f < 0 || f > 1 {
		return fallback
	}
	return f
}

// IntSetting parses a positive integer tunable, falling back when unset
// or invalid.
func IntSetting(v ResolvedValue, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v.Value))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyEnv(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

func loadConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
