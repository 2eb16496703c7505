package config

import (
	"time"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "idiomlint.toml"

// Formats lists the report formats in the order they are documented.
var Formats = []string{"text", "sarif", "markdown", "tsv"}

type Config struct {
	Version        int           `toml:"version"`
	Language       string        `toml:"language"`
	Workers        int           `toml:"workers"`
	SourcePaths    []string      `toml:"source_paths"`
	FailOnFindings *bool         `toml:"fail_on_findings"`
	Paths          Paths         `toml:"paths"`
	Exclude        Exclude       `toml:"exclude"`
	Checks         Checks        `toml:"checks"`
	Output         Output        `toml:"output"`
	Watch          Watch         `toml:"watch"`
	History        History       `toml:"history"`
	Observability  Observability `toml:"observability"`
}

type Paths struct {
	ProjectRoot string `toml:"project_root"`
	StateDir    string `toml:"state_dir"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"` // glob patterns matched against the slash path
}

type Checks struct {
	Enabled  []string `toml:"enabled"` // empty means every registered check
	Disabled []string `toml:"disabled"`
}

type Output struct {
	Format   string `toml:"format"`
	Path     string `toml:"path"`
	SARIF    string `toml:"sarif"`
	Markdown string `toml:"markdown"`
	TSV      string `toml:"tsv"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// MaxRunsPerMinute throttles re-runs when files keep changing.
	MaxRunsPerMinute int `toml:"max_runs_per_minute"`
}

type History struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path"`
	ProjectKey string `toml:"project_key"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// ShouldFail reports whether findings turn into a failing exit code.
func (c *Config) ShouldFail() bool {
	if c.FailOnFindings == nil {
		return true
	}
	return *c.FailOnFindings
}

// ExtraOutputs maps report formats to the files written on every run.
func (o Output) ExtraOutputs() map[string]string {
	out := make(map[string]string, 3)
	if o.SARIF != "" {
		out["sarif"] = o.SARIF
	}
	if o.Markdown != "" {
		out["markdown"] = o.Markdown
	}
	if o.TSV != "" {
		out["tsv"] = o.TSV
	}
	return out
}
