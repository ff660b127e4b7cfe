package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/engine"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/model"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/render"

	"github.com/charmbracelet/lipgloss"
)

// Canvas renders the active subgraph's render model in the terminal. It
// issues no drawing until the rendering engine is ready; until then the
// canvas area shows a placeholder. Node rows are ordered by PageRank so the
// structurally important entities surface first.
type Canvas struct {
	theme Theme

	subgraph *model.Subgraph
	rmodel   render.Model
	stats    *render.Stats
	order    []string

	selectedIdx  int
	scrollOffset int

	// nodeRowAt maps a viewport row (0-based within the canvas pane) to an
	// index into order, for mouse clicks. Rebuilt on every View.
	nodeRowAt map[int]int
}

// NewCanvas creates an empty canvas.
func NewCanvas(theme Theme) Canvas {
	return Canvas{theme: theme, nodeRowAt: map[int]int{}}
}

// SetSubgraph replaces the canvas content. The render model and graph stats
// are recomputed from scratch; nothing from the previous subgraph survives.
func (c *Canvas) SetSubgraph(sg *model.Subgraph) {
	c.subgraph = sg
	c.rmodel = render.Adapt(sg)
	c.stats = render.Analyze(sg)
	ids := make([]string, len(c.rmodel.Nodes))
	for i, n := range c.rmodel.Nodes {
		ids[i] = n.ID
	}
	c.order = c.stats.RankOrder(ids)
	c.selectedIdx = 0
	c.scrollOffset = 0
}

// Model returns the current render model.
func (c *Canvas) Model() render.Model { return c.rmodel }

// Stats returns the graph stats for the current subgraph.
func (c *Canvas) Stats() *render.Stats { return c.stats }

// NodeCount returns the number of nodes on the canvas.
func (c *Canvas) NodeCount() int { return len(c.order) }

// MoveUp moves the node cursor up.
func (c *Canvas) MoveUp() {
	if c.selectedIdx > 0 {
		c.selectedIdx--
	}
}

// MoveDown moves the node cursor down.
func (c *Canvas) MoveDown() {
	if c.selectedIdx < len(c.order)-1 {
		c.selectedIdx++
	}
}

// CursorNodeID returns the node id under the cursor, or "".
func (c *Canvas) CursorNodeID() string {
	if len(c.order) == 0 {
		return ""
	}
	return c.order[c.selectedIdx]
}

// NodeAt resolves a canvas-relative row to a node id, for mouse clicks.
func (c *Canvas) NodeAt(row int) (string, bool) {
	idx, ok := c.nodeRowAt[row]
	if !ok || idx >= len(c.order) {
		return "", false
	}
	return c.order[idx], true
}

// View renders the canvas pane. engineState gates drawing: before the
// engine is ready only a placeholder is emitted.
func (c *Canvas) View(width, height int, engineState engine.LoadState, loading bool, selectedNode *model.GraphNode) string {
	t := c.theme
	// cleared in place: View runs on a copy of the model, and the click
	// mapping has to reach the copy Update sees
	if c.nodeRowAt == nil {
		c.nodeRowAt = map[int]int{}
	}
	for k := range c.nodeRowAt {
		delete(c.nodeRowAt, k)
	}

	centered := func(msg string) string {
		return t.Renderer.NewStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(t.Placeholder.Render(msg))
	}

	if engineState != engine.StateReady {
		return centered("loading visualization engine…")
	}
	if loading {
		return centered("loading subgraph…")
	}
	if c.subgraph == nil {
		return centered("select a cluster to view its transaction network")
	}
	if len(c.order) == 0 {
		return centered("cluster has no entities")
	}

	var lines []string
	header := fmt.Sprintf("◆ Cluster %s — %d entities, %d flows, %d suspicious",
		c.rmodel.ClusterID, len(c.rmodel.Nodes), len(c.rmodel.Edges), c.subgraph.SuspiciousCount())
	lines = append(lines, t.PaneTitle.Render(truncateCells(header, width, "…")))
	lines = append(lines, t.MutedText.Render(strings.Repeat("─", max(1, width))))

	byID := make(map[string]render.Node, len(c.rmodel.Nodes))
	for _, n := range c.rmodel.Nodes {
		byID[n.ID] = n
	}

	// node rows get the remaining space above the edge strip
	edgeRows := 6
	if height < 16 {
		edgeRows = 3
	}
	visible := height - len(lines) - edgeRows - 1
	if visible < 1 {
		visible = 1
	}
	start := c.scrollOffset
	if c.selectedIdx < start {
		start = c.selectedIdx
	} else if c.selectedIdx >= start+visible {
		start = c.selectedIdx - visible + 1
	}
	c.scrollOffset = start
	end := min(start+visible, len(c.order))

	for i := start; i < end; i++ {
		id := c.order[i]
		rn := byID[id]
		c.nodeRowAt[len(lines)] = i
		lines = append(lines, c.nodeRow(rn, i, width, selectedNode))
	}
	if len(c.order) > visible {
		lines = append(lines, t.MutedText.Render(fmt.Sprintf("(%d-%d of %d)", start+1, end, len(c.order))))
	}

	lines = append(lines, c.edgeStrip(width, edgeRows)...)

	return strings.Join(lines, "\n")
}

// nodeRow renders one node: a glyph scaled by render size, halo marker for
// suspicious nodes, and the id. The glyph color is the render model's exact
// hex so the pane matches the exported snapshots.
func (c *Canvas) nodeRow(rn render.Node, idx int, width int, selectedNode *model.GraphNode) string {
	t := c.theme

	glyph := "·"
	switch {
	case rn.Radius >= 12:
		glyph = "⬤"
	case rn.Radius >= 7:
		glyph = "●"
	case rn.Radius >= 4:
		glyph = "•"
	}
	nodeStyle := t.Renderer.NewStyle().Foreground(NodeColor(rn.Color.Hex()))
	if rn.Glow {
		nodeStyle = nodeStyle.Bold(true)
	}
	marker := " "
	if rn.Suspicious {
		marker = nodeStyle.Render("◎")
	}

	var n *model.GraphNode
	if c.subgraph != nil {
		n = c.subgraph.NodeByID(rn.ID)
	}
	detail := ""
	if n != nil {
		detail = fmt.Sprintf("  %s %-10s %s", n.EntityType.Glyph(), string(n.EntityType), scoreBar(n.RiskScore, 5))
	}

	line := fmt.Sprintf("%s %s %s%s", marker, nodeStyle.Render(glyph), rn.ID, detail)
	line = truncateCells(line, width, "…")

	isCursor := idx == c.selectedIdx
	isPicked := selectedNode != nil && selectedNode.ID == rn.ID
	switch {
	case isCursor:
		return t.Selected.Render(line)
	case isPicked:
		return t.Header.Render(line)
	default:
		return line
	}
}

// edgeStrip renders the largest transaction flows at the bottom of the pane.
func (c *Canvas) edgeStrip(width, rows int) []string {
	t := c.theme
	out := []string{t.MutedText.Render(strings.Repeat("─", max(1, width)))}
	if rows <= 1 || c.subgraph == nil {
		return out
	}

	edges := make([]model.GraphEdge, len(c.subgraph.Edges))
	copy(edges, c.subgraph.Edges)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Amount != edges[j].Amount {
			return edges[i].Amount > edges[j].Amount
		}
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
	if len(edges) > rows-1 {
		edges = edges[:rows-1]
	}

	for _, e := range edges {
		re := render.Edge{}
		for _, cand := range c.rmodel.Edges {
			if cand.Source == e.Source && cand.Target == e.Target {
				re = cand
				break
			}
		}
		arrow := "─→"
		if re.Width >= render.EdgeWidthSuspicious {
			arrow = "═→"
		}
		style := t.Renderer.NewStyle().Foreground(NodeColor(hexOf(re)))
		line := fmt.Sprintf("%s %s %s  %s %s",
			truncateCells(e.Source, 10, "…"), style.Render(arrow), truncateCells(e.Target, 10, "…"),
			FormatAmount(e.Amount), e.Channel)
		out = append(out, truncateCells(line, width, "…"))
	}
	return out
}

func hexOf(e render.Edge) string {
	return fmt.Sprintf("#%02x%02x%02x", e.Color.R, e.Color.G, e.Color.B)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
