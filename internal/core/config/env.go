package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const envPrefix = "IDIOMLINT_"

// envBinding ties one IDIOMLINT_<SECTION>_<KEY> variable to a field.
type envBinding struct {
	key   string
	apply func(raw string) error
}

func bindString(target *string) func(string) error {
	return func(raw string) error { *target = raw; return nil }
}

func bindList(target *[]string) func(string) error {
	return func(raw string) error {
		var out []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		*target = out
		return nil
	}
}

func bindParsed[T any](target *T, parse func(string) (T, error)) func(string) error {
	return func(raw string) error {
		v, err := parse(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		*target = v
		return nil
	}
}

func parseBool(s string) (bool, error) { return strconv.ParseBool(strings.ToLower(s)) }

func envBindings(cfg *Config) []envBinding {
	return []envBinding{
		{"LANGUAGE", bindString(&cfg.Language)},
		{"WORKERS", bindParsed(&cfg.Workers, strconv.Atoi)},
		{"SOURCE_PATHS", bindList(&cfg.SourcePaths)},
		{"CHECKS_ENABLED", bindList(&cfg.Checks.Enabled)},
		{"CHECKS_DISABLED", bindList(&cfg.Checks.Disabled)},
		{"OUTPUT_FORMAT", bindString(&cfg.Output.Format)},
		{"OUTPUT_PATH", bindString(&cfg.Output.Path)},
		{"WATCH_DEBOUNCE", bindParsed(&cfg.Watch.Debounce, time.ParseDuration)},
		{"WATCH_MAX_RUNS_PER_MINUTE", bindParsed(&cfg.Watch.MaxRunsPerMinute, strconv.Atoi)},
		{"HISTORY_ENABLED", bindParsed(&cfg.History.Enabled, parseBool)},
		{"HISTORY_PATH", bindString(&cfg.History.Path)},
		{"HISTORY_PROJECT_KEY", bindString(&cfg.History.ProjectKey)},
		{"OBSERVABILITY_METRICS_ADDR", bindString(&cfg.Observability.MetricsAddr)},
		{"OBSERVABILITY_OTLP_ENDPOINT", bindString(&cfg.Observability.OTLPEndpoint)},
	}
}

// ApplyEnvOverrides copies IDIOMLINT_<SECTION>_<KEY> variables onto cfg,
// e.g. IDIOMLINT_HISTORY_PATH. Values that do not parse are logged and
// ignored.
func ApplyEnvOverrides(cfg *Config) {
	for _, b := range envBindings(cfg) {
		name := envPrefix + b.key
		raw, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		if err := b.apply(raw); err != nil {
			slog.Warn("ignoring invalid env override", "key", name, "value", raw, "error", err)
			continue
		}
		slog.Debug("applied env override", "key", name)
	}
}
