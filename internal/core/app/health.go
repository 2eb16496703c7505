package app

import (
	"context"
	"fmt"
	"time"
)

const (
	StatusUp       = "up"
	StatusDegraded = "degraded"
)

// Health is the state reported on /health.
type Health struct {
	Status     string            `json:"status"`
	CheckedAt  time.Time         `json:"checked_at"`
	Components map[string]string `json:"components"`
	LastRun    *RunSummary       `json:"last_run,omitempty"`
}

// RunSummary describes the most recent lint run.
type RunSummary struct {
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration_ns"`
	Files      int           `json:"files"`
	Findings   int           `json:"findings"`
	Error      string        `json:"error,omitempty"`
}

func (a *App) recordRun(start time.Time, files, findings int, err error) {
	s := &RunSummary{
		FinishedAt: time.Now().UTC(),
		Duration:   time.Since(start),
		Files:      files,
		Findings:   findings,
	}
	if err != nil {
		s.Error = err.Error()
	}
	a.lastRun.Store(s)
}

// Health inspects the parser, the check registry, the history store and the
// last run. Any failing part turns the status to degraded.
func (a *App) Health(ctx context.Context) Health {
	h := Health{
		Status:     StatusUp,
		CheckedAt:  time.Now().UTC(),
		Components: make(map[string]string, 4),
		LastRun:    a.lastRun.Load(),
	}
	degrade := func(component, state string) {
		h.Status = StatusDegraded
		h.Components[component] = state
	}

	if exts := a.codeParser.SupportedExtensions(); len(exts) > 0 {
		h.Components["parser"] = fmt.Sprintf("ok (%d extensions)", len(exts))
	} else {
		degrade("parser", "no grammars loaded")
	}

	if n := len(a.Registry.Names()); n > 0 {
		h.Components["checks"] = fmt.Sprintf("ok (%d registered)", n)
	} else {
		degrade("checks", "none registered")
	}

	switch {
	case a.history != nil:
		h.Components["history"] = "ok"
	case a.Config().History.Enabled:
		degrade("history", "enabled but not open")
	default:
		h.Components["history"] = "disabled"
	}

	if h.LastRun != nil && h.LastRun.Error != "" {
		degrade("last_run", "failed")
	}
	return h
}
