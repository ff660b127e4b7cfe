package engine

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/render"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Engine is the loaded rendering backend: a font face plus a warmed raster
// context. Construct it through Loader, not directly; the handle is
// write-once and safe to share.
type Engine struct {
	face font.Face
}

// newEngine sets up the raster backend. Warming a throwaway context up
// front surfaces allocation failures at load time instead of at first
// export.
func newEngine() (*Engine, error) {
	face := basicfont.Face7x13
	dc := gg.NewContext(1, 1)
	if dc == nil {
		return nil, fmt.Errorf("raster context allocation failed")
	}
	dc.SetFontFace(face)
	return &Engine{face: face}, nil
}

// SnapshotOptions controls a snapshot export.
type SnapshotOptions struct {
	Path   string       // Output path; format inferred from extension when Format empty
	Format string       // "svg" or "png" (case-insensitive)
	Title  string       // Rendered in the summary block; defaults to the cluster id
	Model  render.Model // Render model to draw
	Stats  *render.Stats // Optional; orders nodes and fills the summary block
}

// Snapshot renders a static image of the subgraph. The visual encoding
// (color, size, halo, edge width, arrowheads) comes straight from the render
// model; the engine only adds placement, labels, and chrome.
func (e *Engine) Snapshot(opts SnapshotOptions) error {
	if len(opts.Model.Nodes) == 0 {
		return fmt.Errorf("no nodes to export")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		case ".svg":
			format = "svg"
		default:
			format = "svg" // safe default
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildLayout(opts)

	switch format {
	case "png":
		return e.renderPNG(opts.Path, layout)
	default:
		return renderSVG(opts.Path, layout)
	}
}

// --- layout computation ----------------------------------------------------

// pixelScale maps render-model units (node radii of roughly 3.6–15.6) to
// canvas pixels. Scaling is uniform so the unit-space relationships the
// model encodes survive on screen.
const pixelScale = 3.0

type layoutNode struct {
	render.Node
	X, Y float64
}

type layoutResult struct {
	Nodes  []layoutNode
	Edges  []render.Edge
	ByID   map[string]layoutNode
	Width  int
	Height int
	Header float64

	Title           string
	ClusterID       string
	SuspiciousCount int
	TopNode         string
}

// buildLayout places nodes on a ring in PageRank order (highest at twelve
// o'clock, clockwise). Ties break on id so the same subgraph always lays
// out identically.
func buildLayout(opts SnapshotOptions) layoutResult {
	const (
		padding      = 48.0
		headerHeight = 96.0
		minRing      = 170.0
		perNode      = 13.0
	)

	ids := make([]string, len(opts.Model.Nodes))
	byID := make(map[string]render.Node, len(opts.Model.Nodes))
	for i, n := range opts.Model.Nodes {
		ids[i] = n.ID
		byID[n.ID] = n
	}
	if opts.Stats != nil {
		ids = opts.Stats.RankOrder(ids)
	} else {
		sort.Strings(ids)
	}

	ring := minRing
	if r := float64(len(ids)) * perNode; r > ring {
		ring = r
	}

	cx := padding + ring
	cy := headerHeight + padding + ring
	placed := make([]layoutNode, 0, len(ids))
	pos := make(map[string]layoutNode, len(ids))
	for i, id := range ids {
		angle := 2*math.Pi*float64(i)/float64(len(ids)) - math.Pi/2
		ln := layoutNode{
			Node: byID[id],
			X:    cx + ring*math.Cos(angle),
			Y:    cy + ring*math.Sin(angle),
		}
		placed = append(placed, ln)
		pos[id] = ln
	}

	width := int(2 * (padding + ring))
	if width < 640 {
		width = 640
	}
	height := int(headerHeight + 2*(padding+ring))
	if height < 480 {
		height = 480
	}

	suspicious := 0
	for _, n := range opts.Model.Nodes {
		if n.Suspicious {
			suspicious++
		}
	}
	topNode := "n/a"
	if opts.Stats != nil && len(ids) > 0 {
		topNode = fmt.Sprintf("%s (PR %.3f)", ids[0], opts.Stats.PageRank[ids[0]])
	}
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "Cluster " + opts.Model.ClusterID
	}

	return layoutResult{
		Nodes:           placed,
		Edges:           opts.Model.Edges,
		ByID:            pos,
		Width:           width,
		Height:          height,
		Header:          headerHeight,
		Title:           title,
		ClusterID:       opts.Model.ClusterID,
		SuspiciousCount: suspicious,
		TopNode:         topNode,
	}
}

// edgeEndpoints returns the on-ring segment between two node boundaries.
func edgeEndpoints(from, to layoutNode) (x1, y1, x2, y2 float64, ok bool) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return 0, 0, 0, 0, false
	}
	ux, uy := dx/dist, dy/dist
	r1 := from.Radius * pixelScale
	r2 := to.Radius * pixelScale
	if dist <= r1+r2 {
		return 0, 0, 0, 0, false
	}
	return from.X + ux*r1, from.Y + uy*r1, to.X - ux*r2, to.Y - uy*r2, true
}

// arrowhead computes the triangle for an edge's directional arrowhead:
// tip at 85% of the segment, head length 5 model units.
func arrowhead(x1, y1, x2, y2 float64) (tipX, tipY, leftX, leftY, rightX, rightY float64) {
	dx := x2 - x1
	dy := y2 - y1
	dist := math.Hypot(dx, dy)
	ux, uy := dx/dist, dy/dist
	tipX = x1 + dx*render.ArrowPosition
	tipY = y1 + dy*render.ArrowPosition
	l := render.ArrowLength * pixelScale
	baseX := tipX - ux*l
	baseY := tipY - uy*l
	// perpendicular half-width
	w := l / 2
	leftX, leftY = baseX-uy*w, baseY+ux*w
	rightX, rightY = baseX+uy*w, baseY-ux*w
	return
}

// --- raster (PNG) ----------------------------------------------------------

var (
	colorBackdrop = color.RGBA{0x0f, 0x13, 0x1f, 0xff}
	colorHeaderBG = color.RGBA{0x18, 0x1e, 0x2e, 0xff}
	colorText     = color.RGBA{0xe6, 0xea, 0xf2, 0xff}
	colorSubtle   = color.RGBA{0x8a, 0x93, 0xa8, 0xff}
)

func (e *Engine) renderPNG(path string, layout layoutResult) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(layout.Width)-32, layout.Header-24, 10)
	dc.Fill()

	dc.SetFontFace(e.face)
	drawSummaryBlock(dc, layout)

	// edges under nodes
	for _, edge := range layout.Edges {
		from, okF := layout.ByID[edge.Source]
		to, okT := layout.ByID[edge.Target]
		if !okF || !okT {
			continue
		}
		x1, y1, x2, y2, ok := edgeEndpoints(from, to)
		if !ok {
			continue
		}
		dc.SetColor(edge.Color)
		dc.SetLineWidth(edge.Width * 1.5)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()

		tx, ty, lx, ly, rx, ry := arrowhead(x1, y1, x2, y2)
		dc.NewSubPath()
		dc.MoveTo(tx, ty)
		dc.LineTo(lx, ly)
		dc.LineTo(rx, ry)
		dc.ClosePath()
		dc.Fill()
	}

	for _, n := range layout.Nodes {
		drawNode(dc, n)
	}

	return dc.SavePNG(path)
}

func drawNode(dc *gg.Context, n layoutNode) {
	r := n.Radius * pixelScale
	if n.Suspicious {
		// glow: widening translucent rings beyond the halo
		for i := 3; i >= 1; i-- {
			dc.SetColor(n.Color.RGBA(uint8(18 * i)))
			dc.DrawCircle(n.X, n.Y, n.HaloRadius*pixelScale+float64(4-i)*3)
			dc.Fill()
		}
		dc.SetColor(n.Color.RGBA(uint8(255 * n.HaloOpacity)))
		dc.DrawCircle(n.X, n.Y, n.HaloRadius*pixelScale)
		dc.Fill()
	}
	dc.SetColor(n.Color.RGBA(0xff))
	dc.DrawCircle(n.X, n.Y, r)
	dc.Fill()

	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(n.ID, n.X, n.Y+r+12, 0.5, 0.5)
}

func drawSummaryBlock(dc *gg.Context, layout layoutResult) {
	dc.SetColor(colorText)
	dc.DrawStringAnchored(layout.Title, 32, 40, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(
		fmt.Sprintf("nodes: %d  edges: %d  suspicious: %d", len(layout.Nodes), len(layout.Edges), layout.SuspiciousCount),
		32, 58, 0, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("top node: %s", layout.TopNode), 32, 76, 0, 0.5)
}

// --- vector (SVG) ----------------------------------------------------------

func renderSVG(path string, layout layoutResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	canvas := svg.New(file)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, "fill:"+css(colorBackdrop))
	canvas.Roundrect(16, 16, layout.Width-32, int(layout.Header-24), 10, 10, "fill:"+css(colorHeaderBG))

	canvas.Text(32, 44, layout.Title,
		fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(32, 64,
		fmt.Sprintf("nodes: %d  edges: %d  suspicious: %d", len(layout.Nodes), len(layout.Edges), layout.SuspiciousCount),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))
	canvas.Text(32, 82, fmt.Sprintf("top node: %s", layout.TopNode),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))

	for _, edge := range layout.Edges {
		from, okF := layout.ByID[edge.Source]
		to, okT := layout.ByID[edge.Target]
		if !okF || !okT {
			continue
		}
		x1, y1, x2, y2, ok := edgeEndpoints(from, to)
		if !ok {
			continue
		}
		canvas.Line(int(x1), int(y1), int(x2), int(y2),
			fmt.Sprintf("stroke:%s;stroke-width:%.1f;stroke-opacity:%.2f", css(edge.Color), edge.Width*1.5, alpha(edge.Color)))

		tx, ty, lx, ly, rx, ry := arrowhead(x1, y1, x2, y2)
		canvas.Polygon(
			[]int{int(tx), int(lx), int(rx)},
			[]int{int(ty), int(ly), int(ry)},
			fmt.Sprintf("fill:%s;fill-opacity:%.2f", css(edge.Color), alpha(edge.Color)))
	}

	for _, n := range layout.Nodes {
		r := n.Radius * pixelScale
		if n.Suspicious {
			// glow ring, then the halo proper
			canvas.Circle(int(n.X), int(n.Y), int(n.HaloRadius*pixelScale+6),
				fmt.Sprintf("fill:%s;fill-opacity:0.08", n.Color.Hex()))
			canvas.Circle(int(n.X), int(n.Y), int(n.HaloRadius*pixelScale),
				fmt.Sprintf("fill:%s;fill-opacity:%.2f", n.Color.Hex(), n.HaloOpacity))
		}
		canvas.Circle(int(n.X), int(n.Y), int(r), "fill:"+n.Color.Hex())
		canvas.Text(int(n.X), int(n.Y+r+14), n.ID,
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;text-anchor:middle", css(colorSubtle)))
	}

	canvas.End()
	return nil
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func alpha(c color.RGBA) float64 {
	return float64(c.A) / 255
}
