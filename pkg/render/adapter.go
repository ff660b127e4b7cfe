// Package render turns a fetched subgraph into the visual model the canvas
// and the snapshot engine draw from. The mapping is pure and deterministic:
// adapting the same subgraph twice yields field-for-field identical output.
// Audit renders were produced with exactly these formulas, so do not
// "improve" the constants.
package render

import (
	"image/color"
	"math"

	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/model"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSL is a color in hue/saturation/lightness space. Hue is in degrees,
// saturation and lightness are fractions in [0,1].
type HSL struct {
	H float64
	S float64
	L float64
}

// Hex returns the color as "#rrggbb".
func (c HSL) Hex() string {
	return colorful.Hsl(c.H, c.S, c.L).Hex()
}

// RGBA returns the color with the given alpha.
func (c HSL) RGBA(alpha uint8) color.RGBA {
	r, g, b := colorful.Hsl(c.H, c.S, c.L).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: alpha}
}

// Visual encoding constants. Suspicious node hues sweep from red (350° at
// risk 0) toward amber (320° at risk 1) while lightness rises with risk.
const (
	suspiciousHueBase   = 350.0
	suspiciousHueSpread = 30.0
	suspiciousLightBase = 0.50
	suspiciousLightGain = 0.15
	suspiciousSat       = 0.90

	suspiciousSizeBase = 5.0
	suspiciousSizeGain = 8.0
	neutralSize        = 3.0

	radiusScale = 1.2
	radiusFloor = 3.0

	haloMargin  = 4.0
	haloOpacity = 0.25
)

// Neutral (non-suspicious) node color: a fixed dark blue, independent of
// risk score.
var NeutralNode = HSL{H: 217, S: 0.44, L: 0.24}

// Edge colors and widths. Every edge gets a directional arrowhead near the
// target; suspicion only changes color and width.
var (
	EdgeSuspicious = color.RGBA{R: 0xef, G: 0x44, B: 0x44, A: 0x99} // translucent red
	EdgeNeutral    = color.RGBA{R: 0x63, G: 0x66, B: 0xf1, A: 0x66} // translucent indigo
)

const (
	EdgeWidthSuspicious = 2.0
	EdgeWidthNeutral    = 1.0

	// Arrowhead geometry: a 5-unit head positioned at 85% of the edge length.
	ArrowLength   = 5.0
	ArrowPosition = 0.85
)

// Node is the render-ready form of one graph node.
type Node struct {
	ID         string
	Color      HSL
	Size       float64
	Radius     float64
	Suspicious bool

	// Halo and glow only apply to suspicious nodes. HaloRadius is zero when
	// no halo is drawn.
	HaloRadius  float64
	HaloOpacity float64
	Glow        bool
}

// Edge is the render-ready form of one graph edge.
type Edge struct {
	Source     string
	Target     string
	Color      color.RGBA
	Width      float64
	Suspicious bool
}

// Model is the full render model for one subgraph.
type Model struct {
	ClusterID string
	Nodes     []Node
	Edges     []Edge
}

// Adapt computes the render model for a subgraph. It performs no I/O and
// holds no state; callers recompute it whenever the source data changes
// rather than caching the result.
func Adapt(sg *model.Subgraph) Model {
	if sg == nil {
		return Model{}
	}
	m := Model{
		ClusterID: sg.ClusterID,
		Nodes:     make([]Node, len(sg.Nodes)),
		Edges:     make([]Edge, len(sg.Edges)),
	}
	for i, n := range sg.Nodes {
		m.Nodes[i] = adaptNode(n)
	}
	for i, e := range sg.Edges {
		m.Edges[i] = adaptEdge(e)
	}
	return m
}

func adaptNode(n model.GraphNode) Node {
	out := Node{ID: n.ID, Suspicious: n.IsSuspicious}
	if n.IsSuspicious {
		out.Color = HSL{
			H: suspiciousHueBase - n.RiskScore*suspiciousHueSpread,
			S: suspiciousSat,
			L: suspiciousLightBase + n.RiskScore*suspiciousLightGain,
		}
		out.Size = suspiciousSizeBase + n.RiskScore*suspiciousSizeGain
	} else {
		out.Color = NeutralNode
		out.Size = neutralSize
	}
	out.Radius = math.Max(radiusFloor, out.Size*radiusScale)
	if n.IsSuspicious {
		out.HaloRadius = out.Radius + haloMargin
		out.HaloOpacity = haloOpacity
		out.Glow = true
	}
	return out
}

func adaptEdge(e model.GraphEdge) Edge {
	out := Edge{Source: e.Source, Target: e.Target, Suspicious: e.IsSuspicious}
	if e.IsSuspicious {
		out.Color = EdgeSuspicious
		out.Width = EdgeWidthSuspicious
	} else {
		out.Color = EdgeNeutral
		out.Width = EdgeWidthNeutral
	}
	return out
}
