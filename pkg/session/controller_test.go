package session

import (
	"errors"
	"strings"
	"testing"

	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/model"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/nav"
)

func subgraph(clusterID string, nodeIDs ...string) *model.Subgraph {
	sg := &model.Subgraph{ClusterID: clusterID}
	for _, id := range nodeIDs {
		sg.Nodes = append(sg.Nodes, model.GraphNode{ID: id, ClusterID: clusterID})
	}
	return sg
}

func TestSelectThenResolve(t *testing.T) {
	c := New(nil)
	if c.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, want idle", c.Phase())
	}

	token := c.Select("CL-1")
	st := c.Snapshot()
	if !st.Loading || st.SelectedClusterID != "CL-1" {
		t.Fatalf("after select: %+v", st)
	}
	if c.Phase() != PhaseLoading {
		t.Fatalf("phase = %v, want loading", c.Phase())
	}

	if !c.Resolve(token, subgraph("CL-1", "a", "b"), nil) {
		t.Fatal("resolve with current token must apply")
	}
	st = c.Snapshot()
	if st.Loading || st.ActiveSubgraph == nil || st.ActiveSubgraph.ClusterID != "CL-1" {
		t.Fatalf("after resolve: %+v", st)
	}
	if st.LastFetchFailed {
		t.Error("successful fetch must clear the failure flag")
	}
	if st.SelectedNode != nil {
		t.Error("no node may be highlighted right after a load settles")
	}
	if c.Phase() != PhaseReady {
		t.Fatalf("phase = %v, want ready", c.Phase())
	}
}

func TestSelectClearsNodeHighlight(t *testing.T) {
	c := New(nil)
	token := c.Select("CL-1")
	c.Resolve(token, subgraph("CL-1", "a"), nil)
	if !c.SelectNodeByID("a") {
		t.Fatal("node in active subgraph must be selectable")
	}

	c.Select("CL-2")
	if st := c.Snapshot(); st.SelectedNode != nil {
		t.Errorf("re-selection must clear the highlighted node, got %+v", st.SelectedNode)
	}
}

func TestStaleTokenDiscarded(t *testing.T) {
	c := New(nil)
	first := c.Select("CL-1")
	second := c.Select("CL-2")

	// The slower first fetch settles after the second selection. It must not
	// overwrite anything.
	if c.Resolve(first, subgraph("CL-1", "a"), nil) {
		t.Fatal("stale token must be discarded")
	}
	if st := c.Snapshot(); st.ActiveSubgraph != nil || !st.Loading {
		t.Fatalf("stale resolve leaked into state: %+v", st)
	}

	if !c.Resolve(second, subgraph("CL-2", "x"), nil) {
		t.Fatal("current token must apply")
	}
	if st := c.Snapshot(); st.ActiveSubgraph.ClusterID != "CL-2" {
		t.Fatalf("active subgraph = %+v, want CL-2", st.ActiveSubgraph)
	}
}

func TestFailureKeepsStaleSubgraph(t *testing.T) {
	c := New(nil)
	token := c.Select("CL-1")
	c.Resolve(token, subgraph("CL-1", "a"), nil)

	token = c.Select("CL-404")
	if !c.Resolve(token, nil, errors.New("boom")) {
		t.Fatal("failed fetch with current token still applies")
	}
	st := c.Snapshot()
	if st.Loading {
		t.Error("failure must end the loading state")
	}
	if st.ActiveSubgraph == nil || st.ActiveSubgraph.ClusterID != "CL-1" {
		t.Errorf("previous subgraph must survive a failed fetch, got %+v", st.ActiveSubgraph)
	}
	if !st.LastFetchFailed {
		t.Error("failure flag not set")
	}
	if st.SelectedClusterID != "CL-404" {
		t.Errorf("selected id = %q, the attempted selection stays on record", st.SelectedClusterID)
	}
}

func TestReselectSameClusterRefetches(t *testing.T) {
	c := New(nil)
	t1 := c.Select("CL-1")
	t2 := c.Select("CL-1")
	if t1 == t2 {
		t.Fatal("re-selecting the same cluster must issue a fresh token")
	}
	if st := c.Snapshot(); !st.Loading {
		t.Error("re-selection must enter loading")
	}
}

func TestNodeSelectionMembership(t *testing.T) {
	c := New(nil)
	token := c.Select("CL-1")
	c.Resolve(token, subgraph("CL-1", "a", "b"), nil)

	if c.SelectNodeByID("ghost") {
		t.Error("node outside the subgraph must be rejected")
	}
	if !c.SetSelectedNode(&model.GraphNode{ID: "b"}) {
		t.Error("member node rejected")
	}
	if !c.SetSelectedNode(nil) {
		t.Error("clearing the highlight must always succeed")
	}
	if st := c.Snapshot(); st.SelectedNode != nil {
		t.Errorf("highlight not cleared: %+v", st.SelectedNode)
	}
}

func TestNodeSelectionWithoutSubgraph(t *testing.T) {
	c := New(nil)
	if c.SelectNodeByID("a") {
		t.Error("no active subgraph, selection must fail")
	}
	if c.SetSelectedNode(&model.GraphNode{ID: "a"}) {
		t.Error("no active subgraph, selection must fail")
	}
}

func TestInitializeConsumesDeepLink(t *testing.T) {
	addr, err := nav.Parse("amlv://explore?cluster=CL-9")
	if err != nil {
		t.Fatal(err)
	}
	c := New(addr)

	id, token, ok := c.Initialize()
	if !ok || id != "CL-9" {
		t.Fatalf("Initialize = %q, %v, %v", id, token, ok)
	}
	if st := c.Snapshot(); !st.Loading || st.SelectedClusterID != "CL-9" {
		t.Fatalf("deep link did not behave like Select: %+v", st)
	}

	if _, _, again := c.Initialize(); again {
		t.Error("Initialize must run at most once")
	}
}

func TestInitializeEmptyAddress(t *testing.T) {
	c := New(nil)
	if _, _, ok := c.Initialize(); ok {
		t.Error("empty address must not trigger a selection")
	}
}

func TestLinkTracksSelection(t *testing.T) {
	c := New(nil)
	c.Select("CL-3")
	link := c.Link()
	if !strings.Contains(link, "cluster=CL-3") {
		t.Errorf("link = %q", link)
	}

	restored, err := nav.Parse(link)
	if err != nil {
		t.Fatal(err)
	}
	if restored.Cluster() != "CL-3" {
		t.Errorf("round-tripped cluster = %q", restored.Cluster())
	}
}
