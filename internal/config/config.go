// Package config loads tradegate configuration from YAML with
// environment overrides for reasoning-service credentials. Missing
// configuration is never fatal: everything has a working default and
// an unconfigured reasoning service just selects the deterministic
// advisor.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration to accept "30s"-style YAML values.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// LLM holds reasoning-service settings. An empty APIURL means the
// service is not configured and the deterministic path is used.
type LLM struct {
	APIURL    string   `yaml:"api_url"`
	APIKey    string   `yaml:"api_key"`
	Model     string   `yaml:"model"`
	MaxTokens int      `yaml:"max_tokens"`
	Timeout   Duration `yaml:"timeout"`
}

// Config holds all tradegate settings.
type Config struct {
	ListenAddr  string `yaml:"listen_addr"`
	Firm        string `yaml:"firm"`
	EmployeeDB  string `yaml:"employee_db"`   // JSON roster; empty = builtin seed
	RulesDir    string `yaml:"rules_dir"`     // *_rules.md directory; empty = builtin
	AuditLog    string `yaml:"audit_log"`     // JSONL path; empty = disabled
	JournalDB   string `yaml:"journal_db"`    // sqlite path; empty = disabled
	PreclearDir string `yaml:"preclear_dir"`  // empty = ~/.tradegate/pending
	LLM         LLM    `yaml:"llm"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ListenAddr: ":8000",
		Firm:       "Meridian Capital",
		LLM: LLM{
			Model:     "gpt-4o-mini",
			MaxTokens: 800,
			Timeout:   Duration(30 * time.Second),
		},
	}
}

// Load reads configuration from a YAML file, then applies environment
// overrides. Empty path falls back to ~/.tradegate/config.yaml; a
// missing file returns defaults, invalid YAML returns an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			applyEnv(cfg)
			return cfg, nil
		}
		path = filepath.Join(home, ".tradegate", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv lets credentials live outside the config file. A local
// .env file is honored when present.
func applyEnv(cfg *Config) {
	_ = godotenv.Load()
	if v := os.Getenv("TRADEGATE_LLM_API_URL"); v != "" {
		cfg.LLM.APIURL = v
	}
	if v := os.Getenv("TRADEGATE_LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("TRADEGATE_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
}
