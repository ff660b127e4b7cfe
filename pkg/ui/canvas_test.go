package ui

import (
	"strings"
	"testing"

	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/engine"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/model"

	"github.com/charmbracelet/lipgloss"
)

func testTheme() Theme {
	return DefaultTheme(lipgloss.DefaultRenderer())
}

func canvasSubgraph() *model.Subgraph {
	return &model.Subgraph{
		ClusterID: "CL-001",
		Nodes: []model.GraphNode{
			{ID: "acct-1", EntityType: model.EntityMule, RiskScore: 0.9, IsSuspicious: true, ClusterID: "CL-001"},
			{ID: "acct-2", EntityType: model.EntityBusiness, ClusterID: "CL-001"},
			{ID: "acct-3", EntityType: model.EntityShell, RiskScore: 0.4, IsSuspicious: true, ClusterID: "CL-001"},
		},
		Edges: []model.GraphEdge{
			{Source: "acct-2", Target: "acct-1", Amount: 14500, Channel: "wire", IsSuspicious: true},
			{Source: "acct-3", Target: "acct-1", Amount: 950, Channel: "cash"},
		},
	}
}

func TestCanvasPlaceholderUntilEngineReady(t *testing.T) {
	c := NewCanvas(testTheme())
	c.SetSubgraph(canvasSubgraph())

	for _, state := range []engine.LoadState{engine.StateUnloaded, engine.StateLoading, engine.StateFailed} {
		out := c.View(60, 20, state, false, nil)
		if !strings.Contains(out, "loading visualization engine") {
			t.Errorf("state %v: placeholder missing", state)
		}
		if strings.Contains(out, "acct-1") {
			t.Errorf("state %v: nodes drawn before engine ready", state)
		}
	}
}

func TestCanvasLoadingAndEmptyStates(t *testing.T) {
	c := NewCanvas(testTheme())

	if out := c.View(60, 20, engine.StateReady, true, nil); !strings.Contains(out, "loading subgraph") {
		t.Error("loading placeholder missing")
	}
	if out := c.View(60, 20, engine.StateReady, false, nil); !strings.Contains(out, "select a cluster") {
		t.Error("idle placeholder missing")
	}
	c.SetSubgraph(&model.Subgraph{ClusterID: "CL-empty"})
	if out := c.View(60, 20, engine.StateReady, false, nil); !strings.Contains(out, "no entities") {
		t.Error("empty-cluster placeholder missing")
	}
}

func TestCanvasRendersNodesAndEdges(t *testing.T) {
	c := NewCanvas(testTheme())
	c.SetSubgraph(canvasSubgraph())
	out := c.View(80, 24, engine.StateReady, false, nil)

	for _, id := range []string{"acct-1", "acct-2", "acct-3"} {
		if !strings.Contains(out, id) {
			t.Errorf("node %s missing", id)
		}
	}
	if !strings.Contains(out, "CL-001") {
		t.Error("cluster header missing")
	}
	if !strings.Contains(out, "2 suspicious") {
		t.Error("suspicious count missing from header")
	}
	// largest flow first in the edge strip, with the suspicious arrow
	if !strings.Contains(out, "14.5K wire") {
		t.Error("top flow missing")
	}
	if !strings.Contains(out, "═→") {
		t.Error("suspicious flow arrow missing")
	}
}

func TestCanvasCursor(t *testing.T) {
	c := NewCanvas(testTheme())
	c.SetSubgraph(canvasSubgraph())

	first := c.CursorNodeID()
	if first == "" {
		t.Fatal("cursor empty after SetSubgraph")
	}
	// acct-1 receives both flows, so PageRank puts it first
	if first != "acct-1" {
		t.Errorf("cursor = %s, want acct-1", first)
	}

	c.MoveUp() // clamped at top
	if c.CursorNodeID() != first {
		t.Error("MoveUp at top must not move")
	}
	c.MoveDown()
	if c.CursorNodeID() == first {
		t.Error("MoveDown did not move")
	}
	for i := 0; i < 10; i++ {
		c.MoveDown()
	}
	if c.CursorNodeID() != c.order[len(c.order)-1] {
		t.Error("MoveDown must clamp at the last node")
	}
}

func TestCanvasNodeAtTracksRenderedRows(t *testing.T) {
	c := NewCanvas(testTheme())
	c.SetSubgraph(canvasSubgraph())
	c.View(80, 24, engine.StateReady, false, nil)

	found := 0
	for row := 0; row < 24; row++ {
		if id, ok := c.NodeAt(row); ok {
			if !c.subgraph.Contains(id) {
				t.Errorf("row %d maps to unknown node %q", row, id)
			}
			found++
		}
	}
	if found != 3 {
		t.Errorf("mapped %d node rows, want 3", found)
	}

	if _, ok := c.NodeAt(-1); ok {
		t.Error("negative row must not resolve")
	}
	if _, ok := c.NodeAt(999); ok {
		t.Error("out-of-range row must not resolve")
	}
}

func TestCanvasResetOnNewSubgraph(t *testing.T) {
	c := NewCanvas(testTheme())
	c.SetSubgraph(canvasSubgraph())
	c.MoveDown()

	c.SetSubgraph(&model.Subgraph{
		ClusterID: "CL-002",
		Nodes:     []model.GraphNode{{ID: "x1"}, {ID: "x2"}},
	})
	if c.CursorNodeID() != "x1" {
		t.Errorf("cursor = %s after replacement, want x1", c.CursorNodeID())
	}
	if c.NodeCount() != 2 {
		t.Errorf("node count = %d", c.NodeCount())
	}
}
