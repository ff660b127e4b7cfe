package ui

import (
	"fmt"
	"strings"

	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/model"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/render"

	"github.com/charmbracelet/lipgloss"
)

// DetailPanel formats the selected node for the right-hand pane. It holds no
// state of its own; everything comes from the selection snapshot and the
// canvas stats.
type DetailPanel struct {
	theme Theme
}

// NewDetailPanel creates a detail panel.
func NewDetailPanel(theme Theme) DetailPanel {
	return DetailPanel{theme: theme}
}

// View renders the panel for the given node, or a hint when none is selected.
func (d DetailPanel) View(width, height int, node *model.GraphNode, sg *model.Subgraph, stats *render.Stats) string {
	t := d.theme

	if node == nil {
		return t.Renderer.NewStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(t.Placeholder.Render("click a node to inspect it"))
	}

	var lines []string
	lines = append(lines, t.PaneTitle.Render("Entity detail"))
	lines = append(lines, t.MutedText.Render(strings.Repeat("─", max(1, width))))

	row := func(label, value string) string {
		return t.MutedText.Render(padRight(label, 10)) + truncateCells(value, max(1, width-11), "…")
	}

	lines = append(lines, row("id", node.ID))
	lines = append(lines, row("type", node.EntityType.Glyph()+" "+string(node.EntityType)))
	lines = append(lines, row("country", node.Country))

	riskStyle := t.SecondaryText
	if node.IsSuspicious {
		riskStyle = t.AlertText
	}
	lines = append(lines, row("risk", riskStyle.Render(fmt.Sprintf("%.2f %s", node.RiskScore, scoreBar(node.RiskScore, 8)))))

	flag := t.SecondaryText.Render("clear")
	if node.IsSuspicious {
		flag = t.AlertText.Render("⚑ suspicious")
	}
	lines = append(lines, row("status", flag))
	if node.ClusterID != "" {
		lines = append(lines, row("cluster", node.ClusterID))
	}

	if stats != nil {
		lines = append(lines, "")
		lines = append(lines, t.PaneTitle.Render("Graph position"))
		lines = append(lines, row("pagerank", fmt.Sprintf("%.4f", stats.PageRank[node.ID])))
		lines = append(lines, row("in/out", fmt.Sprintf("%d / %d", stats.InDegree[node.ID], stats.OutDegree[node.ID])))
	}

	if sg != nil {
		in, out := flowTotals(sg, node.ID)
		lines = append(lines, row("inflow", FormatAmount(in)))
		lines = append(lines, row("outflow", FormatAmount(out)))
	}

	if len(lines) > height && height > 0 {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// flowTotals sums transaction amounts touching a node.
func flowTotals(sg *model.Subgraph, id string) (in, out float64) {
	for _, e := range sg.Edges {
		if e.Target == id {
			in += e.Amount
		}
		if e.Source == id {
			out += e.Amount
		}
	}
	return in, out
}
