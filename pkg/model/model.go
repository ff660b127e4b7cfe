// Package model defines the wire/domain types the console receives from the
// aml-monitoring service. Values are immutable once decoded: a fetch result
// is replaced wholesale, never patched in place.
package model

import (
	"fmt"
	"time"
)

// PatternType classifies the laundering pattern a cluster was flagged for.
type PatternType string

const (
	PatternSmurfing PatternType = "smurfing"
	PatternLayering PatternType = "layering"
	PatternCircular PatternType = "circular"
	PatternMixed    PatternType = "mixed"
)

// Glyph returns a single-cell icon for list rendering.
func (p PatternType) Glyph() string {
	switch p {
	case PatternSmurfing:
		return "⿲"
	case PatternLayering:
		return "≋"
	case PatternCircular:
		return "◉"
	case PatternMixed:
		return "∿"
	default:
		return "·"
	}
}

// EntityType identifies what kind of transacting party a node represents.
// The generator on the service side emits: individual, business, mule, shell.
type EntityType string

const (
	EntityIndividual EntityType = "individual"
	EntityBusiness   EntityType = "business"
	EntityMule       EntityType = "mule"
	EntityShell      EntityType = "shell"
)

// Glyph returns a single-cell icon for detail rendering.
func (e EntityType) Glyph() string {
	switch e {
	case EntityIndividual:
		return "👤"
	case EntityBusiness:
		return "🏢"
	case EntityMule:
		return "🐴"
	case EntityShell:
		return "🐚"
	default:
		return "❔"
	}
}

// ClusterSummary is one entry of the ranked suspicious-cluster catalog.
type ClusterSummary struct {
	ID             string      `json:"id"`
	Size           int         `json:"size"`
	SuspicionScore float64     `json:"suspicion_score"`
	PatternType    PatternType `json:"pattern_type"`
	CreatedAt      time.Time   `json:"created_at"`
}

// Validate checks the catalog rules the service guarantees: size >= 1,
// score in [0,1].
func (c ClusterSummary) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("cluster has empty id")
	}
	if c.Size < 1 {
		return fmt.Errorf("cluster %s: size %d < 1", c.ID, c.Size)
	}
	if c.SuspicionScore < 0 || c.SuspicionScore > 1 {
		return fmt.Errorf("cluster %s: suspicion_score %v outside [0,1]", c.ID, c.SuspicionScore)
	}
	return nil
}

// GraphNode is one transacting entity inside a cluster subgraph.
// ClusterID is a weak reference used for lookup only.
type GraphNode struct {
	ID           string     `json:"id"`
	EntityType   EntityType `json:"entity_type"`
	Country      string     `json:"country"`
	RiskScore    float64    `json:"risk_score"`
	IsSuspicious bool       `json:"is_suspicious"`
	ClusterID    string     `json:"cluster_id"`
}

// GraphEdge is one transaction flow between two nodes of the same subgraph.
// Source and Target are only meaningful within the subgraph that carried them;
// node ids are not globally unique across clusters.
type GraphEdge struct {
	Source       string  `json:"source"`
	Target       string  `json:"target"`
	Amount       float64 `json:"amount"`
	Channel      string  `json:"channel"`
	IsSuspicious bool    `json:"is_suspicious"`
}

// Subgraph is the transaction network fetched for one cluster.
type Subgraph struct {
	Nodes     []GraphNode `json:"nodes"`
	Edges     []GraphEdge `json:"edges"`
	ClusterID string      `json:"cluster_id"`
}

// NodeByID returns the node with the given id, or nil.
func (s *Subgraph) NodeByID(id string) *GraphNode {
	if s == nil {
		return nil
	}
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i]
		}
	}
	return nil
}

// Contains reports whether the node id belongs to this subgraph.
func (s *Subgraph) Contains(id string) bool {
	return s.NodeByID(id) != nil
}

// SuspiciousCount returns how many nodes are flagged.
func (s *Subgraph) SuspiciousCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for i := range s.Nodes {
		if s.Nodes[i].IsSuspicious {
			n++
		}
	}
	return n
}
