package render

import (
	"sort"

	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/model"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
)

// Stats holds per-node graph metrics for one subgraph. They drive node
// ordering in the canvas and the centrality readout in the detail panel;
// none of them feed the visual encoding, which is fixed by the adapter.
type Stats struct {
	PageRank  map[string]float64
	InDegree  map[string]int
	OutDegree map[string]int
	Density   float64
}

// Analyze builds a directed transaction graph and computes PageRank plus
// degree counts. Self-loops and transactions whose endpoints are missing
// from the node set are skipped.
func Analyze(sg *model.Subgraph) *Stats {
	s := &Stats{
		PageRank:  make(map[string]float64),
		InDegree:  make(map[string]int),
		OutDegree: make(map[string]int),
	}
	if sg == nil || len(sg.Nodes) == 0 {
		return s
	}

	g := simple.NewDirectedGraph()
	idToNode := make(map[string]int64, len(sg.Nodes))
	nodeToID := make(map[int64]string, len(sg.Nodes))
	for i := range sg.Nodes {
		id := sg.Nodes[i].ID
		if _, dup := idToNode[id]; dup {
			continue
		}
		n := g.NewNode()
		g.AddNode(n)
		idToNode[id] = n.ID()
		nodeToID[n.ID()] = id
	}

	edges := 0
	for _, e := range sg.Edges {
		u, okU := idToNode[e.Source]
		v, okV := idToNode[e.Target]
		if !okU || !okV || u == v {
			continue
		}
		if g.HasEdgeFromTo(u, v) {
			continue
		}
		g.SetEdge(g.NewEdge(g.Node(u), g.Node(v)))
		edges++
		s.OutDegree[e.Source]++
		s.InDegree[e.Target]++
	}

	n := len(idToNode)
	if n > 1 {
		s.Density = float64(edges) / float64(n*(n-1))
	}

	for gid, rank := range network.PageRank(g, 0.85, 1e-6) {
		s.PageRank[nodeToID[gid]] = rank
	}
	return s
}

// RankOrder returns node ids sorted by PageRank descending, ties broken by
// id, so canvas ordering is stable across recomputes.
func (s *Stats) RankOrder(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool {
		ri, rj := s.PageRank[out[i]], s.PageRank[out[j]]
		if ri != rj {
			return ri > rj
		}
		return out[i] < out[j]
	})
	return out
}
