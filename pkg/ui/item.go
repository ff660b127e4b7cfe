package ui

import (
	"fmt"
	"io"

	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ClusterItem wraps a catalog entry for the bubbles list.
type ClusterItem struct {
	Cluster model.ClusterSummary
}

func (i ClusterItem) FilterValue() string {
	return i.Cluster.ID + " " + string(i.Cluster.PatternType)
}

// ClusterDelegate renders catalog entries in the cluster list.
type ClusterDelegate struct {
	Theme Theme
}

func (d ClusterDelegate) Height() int  { return 1 }
func (d ClusterDelegate) Spacing() int { return 0 }

func (d ClusterDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d ClusterDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(ClusterItem)
	if !ok {
		return
	}

	t := d.Theme
	width := m.Width()
	if width <= 0 {
		width = 40
	}
	// Reduce width by 1 to prevent terminal wrapping on the exact edge
	width--

	c := i.Cluster
	bar := scoreBar(c.SuspicionScore, 5)
	id := truncateCells(c.ID, 10, "…")
	line := fmt.Sprintf("%s %-10s %s %.2f %3d %-9s %s",
		c.PatternType.Glyph(), id, bar, c.SuspicionScore, c.Size, string(c.PatternType),
		FormatTimeRel(c.CreatedAt))
	line = truncateCells(line, width, "…")

	if index == m.Index() {
		fmt.Fprint(w, t.Selected.Width(width).Render(line))
		return
	}

	style := t.SecondaryText
	if c.SuspicionScore >= 0.8 {
		style = t.AlertText
	}
	fmt.Fprint(w, style.Width(width).Render(line))
}
