package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/api"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/config"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/engine"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/model"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/nav"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/session"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestApp() App {
	return NewApp(Options{
		Config: config.DefaultConfig(),
		Client: api.NewClient("http://127.0.0.1:9"),
		Ctrl:   session.New(nav.New()),
		Loader: engine.NewLoader(),
	})
}

func drive(t *testing.T, a App, msgs ...tea.Msg) App {
	t.Helper()
	for _, msg := range msgs {
		next, _ := a.Update(msg)
		app, ok := next.(App)
		if !ok {
			t.Fatalf("Update returned %T, want App", next)
		}
		a = app
	}
	return a
}

func TestEmptyCatalogShowsHint(t *testing.T) {
	a := drive(t, newTestApp(),
		tea.WindowSizeMsg{Width: 130, Height: 40},
		CatalogLoadedMsg{Clusters: []model.ClusterSummary{}},
	)

	view := a.View()
	if !strings.Contains(view, "no flagged clusters yet") {
		t.Errorf("empty catalog hint missing from view:\n%s", view)
	}
	if strings.Contains(view, "catalog unavailable") {
		t.Error("empty catalog must not look like a failed fetch")
	}
}

func TestCatalogFailureDegradesToHint(t *testing.T) {
	a := drive(t, newTestApp(),
		tea.WindowSizeMsg{Width: 130, Height: 40},
		CatalogLoadedMsg{Clusters: []model.ClusterSummary{{
			ID: "CL-001", Size: 12, SuspicionScore: 0.91,
			PatternType: model.PatternSmurfing,
		}}},
	)
	if view := a.View(); !strings.Contains(view, "CL-001") {
		t.Fatalf("loaded cluster missing from view:\n%s", view)
	}

	a = drive(t, a, CatalogLoadedMsg{Err: errors.New("connection refused")})

	view := a.View()
	if !strings.Contains(view, "catalog unavailable") {
		t.Errorf("failure hint missing from view:\n%s", view)
	}
	if strings.Contains(view, "connection refused") {
		t.Error("raw fetch error leaked into the view")
	}
	if strings.Contains(view, "CL-001") {
		t.Error("stale catalog entries survived a failed refresh")
	}
}

func TestApplyConfigRebuildsClientOnURLChange(t *testing.T) {
	a := newTestApp()
	old := a.client

	cfg := a.cfg
	cfg.Service.URL = "http://10.0.0.5:8000"
	if !a.applyConfig(cfg) {
		t.Fatal("applyConfig did not report a client rebuild")
	}
	if a.client == old {
		t.Error("client not rebuilt after service URL change")
	}
	if got := a.client.BaseURL(); got != "http://10.0.0.5:8000" {
		t.Errorf("BaseURL = %q after reload", got)
	}

	if a.applyConfig(cfg) {
		t.Error("unchanged URL must keep the existing client")
	}
}
