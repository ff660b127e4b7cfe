package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/model"

	"github.com/charmbracelet/bubbles/list"
)

func catalogItems() []list.Item {
	return []list.Item{
		ClusterItem{Cluster: model.ClusterSummary{
			ID: "CL-001", Size: 12, SuspicionScore: 0.91,
			PatternType: model.PatternSmurfing, CreatedAt: time.Now(),
		}},
		ClusterItem{Cluster: model.ClusterSummary{
			ID: "CL-002", Size: 4, SuspicionScore: 0.55,
			PatternType: model.PatternCircular, CreatedAt: time.Now().Add(-2 * time.Hour),
		}},
	}
}

func TestClusterItemFilterValue(t *testing.T) {
	i := ClusterItem{Cluster: model.ClusterSummary{ID: "CL-001", PatternType: model.PatternSmurfing}}
	fv := i.FilterValue()
	if !strings.Contains(fv, "CL-001") || !strings.Contains(fv, "smurfing") {
		t.Errorf("FilterValue = %q", fv)
	}
}

func TestClusterDelegateRender(t *testing.T) {
	d := ClusterDelegate{Theme: testTheme()}
	if d.Height() != 1 || d.Spacing() != 0 {
		t.Fatalf("delegate geometry changed: h=%d s=%d", d.Height(), d.Spacing())
	}

	m := list.New(catalogItems(), d, 48, 10)

	var b strings.Builder
	d.Render(&b, m, 1, m.Items()[1])
	out := b.String()
	if !strings.Contains(out, "CL-002") {
		t.Errorf("rendered line = %q", out)
	}
	if !strings.Contains(out, "0.55") || !strings.Contains(out, "circular") {
		t.Errorf("score or pattern missing: %q", out)
	}
	if !strings.Contains(out, "2h ago") {
		t.Errorf("age missing: %q", out)
	}

	b.Reset()
	d.Render(&b, m, 5, m.Items()[0])
	if !strings.Contains(b.String(), "CL-001") {
		t.Error("render with non-cursor index failed")
	}
}
