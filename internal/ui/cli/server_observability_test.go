package cli

import (
	"context"
	"encoding/json"
	"idiomlint/internal/core/app"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fixedProbe app.Health

func (p fixedProbe) Health(context.Context) app.Health { return app.Health(p) }

func TestObservabilityServer_HealthStatusCodes(t *testing.T) {
	cases := []struct {
		status string
		want   int
	}{
		{app.StatusUp, http.StatusOK},
		{app.StatusDegraded, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			s := NewObservabilityServer("", fixedProbe{Status: tc.status, Components: map[string]string{"history": "ok"}})
			rec := httptest.NewRecorder()
			s.handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
			var got app.Health
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatal(err)
			}
			if got.Status != tc.status || got.Components["history"] != "ok" {
				t.Errorf("unexpected body %+v", got)
			}
		})
	}
}

func TestObservabilityServer_RejectsWrites(t *testing.T) {
	s := NewObservabilityServer("", fixedProbe{Status: app.StatusUp})
	rec := httptest.NewRecorder()
	s.handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
