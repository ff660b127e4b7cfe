package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# amlv — graph explorer

Investigate flagged entity clusters from the aml-monitoring service.

## Navigation

| key | action |
|-----|--------|
| tab | cycle focus: clusters → canvas → detail |
| j/k, ↑/↓ | move within the focused pane |
| enter | open cluster / inspect node |
| click | inspect node on the canvas |
| esc | clear node selection |

## Actions

| key | action |
|-----|--------|
| y | copy shareable link to clipboard |
| s | export snapshot (SVG) of the current subgraph |
| r | refresh the cluster catalog |
| ? | toggle this help |
| q | quit |

Deep-linking: start with ` + "`amlv --link 'cluster=CL-001'`" + ` to open a
cluster directly; the same link is what y copies.
`

// HelpModel renders the help overlay from embedded markdown.
type HelpModel struct {
	theme    Theme
	renderer *glamour.TermRenderer
	rendered string
}

// NewHelpModel creates the help overlay.
func NewHelpModel(theme Theme, width int) HelpModel {
	h := HelpModel{theme: theme}
	wrap := width - 4
	if wrap < 40 {
		wrap = 40
	}
	h.renderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	return h
}

// View renders the help content, caching the glamour output.
func (h *HelpModel) View() string {
	if h.rendered != "" {
		return h.rendered
	}
	if h.renderer == nil {
		h.rendered = helpMarkdown
		return h.rendered
	}
	out, err := h.renderer.Render(helpMarkdown)
	if err != nil {
		h.rendered = helpMarkdown
		return h.rendered
	}
	h.rendered = strings.TrimSpace(out)
	return h.rendered
}
