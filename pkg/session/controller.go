// Package session owns the console's selection state: which cluster is
// selected, the subgraph loaded for it, which node is highlighted, and
// whether a fetch is in flight. The Controller is the sole writer of that
// state; panels read snapshots and the canvas reports node clicks back
// through it.
package session

import (
	"sync"

	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/debug"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/model"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/nav"
)

// Phase is the controller's coarse state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	default:
		return "idle"
	}
}

// State is a point-in-time snapshot of the selection.
type State struct {
	SelectedClusterID string
	ActiveSubgraph    *model.Subgraph
	SelectedNode      *model.GraphNode
	Loading           bool

	// LastFetchFailed is an observable hint that the most recent subgraph
	// fetch failed. A failed fetch still leaves the previous subgraph on
	// screen, stale data beats blanking the view, so this flag is the only
	// trace the failure leaves.
	LastFetchFailed bool
}

// Controller coordinates cluster selection across the catalog list, the
// canvas, and the detail panel. Fetch execution lives with the caller: Select
// issues a request token, the caller performs the fetch, and Resolve applies
// the outcome. Tokens let a rapid re-selection win over a slower earlier
// fetch: only the most recently issued token may mutate state.
type Controller struct {
	mu          sync.Mutex
	state       State
	address     *nav.Address
	token       uint64
	initialized bool
}

// New creates a controller bound to the given navigation address. A nil
// address gets a fresh empty one.
func New(address *nav.Address) *Controller {
	if address == nil {
		address = nav.New()
	}
	return &Controller{address: address}
}

// Initialize consumes the cluster id already present in the navigation
// address, if any. When one is set and nothing is loaded or loading, it
// behaves exactly like Select and returns the issued token. It runs at most
// once per controller; later calls are no-ops.
func (c *Controller) Initialize() (clusterID string, token uint64, ok bool) {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return "", 0, false
	}
	c.initialized = true
	id := c.address.Cluster()
	if id == "" || c.state.Loading || c.state.ActiveSubgraph != nil {
		c.mu.Unlock()
		return "", 0, false
	}
	c.mu.Unlock()
	return id, c.Select(id), true
}

// Select starts a cluster selection: marks loading, clears the highlighted
// node, records the cluster id, publishes it to the navigation address, and
// returns the token the eventual Resolve call must present. Any string is
// accepted; unknown ids surface as a failed fetch.
func (c *Controller) Select(clusterID string) (token uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token++
	c.state.Loading = true
	c.state.SelectedNode = nil
	c.state.SelectedClusterID = clusterID
	c.address.SetCluster(clusterID)
	debug.Log("select %s (token %d)", clusterID, c.token)
	return c.token
}

// Resolve applies a settled fetch. Stale tokens are discarded so an older
// response can never overwrite a newer selection. On success the subgraph is
// replaced wholesale and the node highlight stays cleared. On failure the
// previous subgraph is kept untouched and only LastFetchFailed records that
// anything happened.
func (c *Controller) Resolve(token uint64, sg *model.Subgraph, err error) (applied bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.token {
		debug.Log("dropping stale fetch result (token %d, latest %d)", token, c.token)
		return false
	}
	c.state.Loading = false
	if err != nil {
		c.state.LastFetchFailed = true
		debug.Log("fetch for %s failed: %v", c.state.SelectedClusterID, err)
		return true
	}
	c.state.LastFetchFailed = false
	c.state.ActiveSubgraph = sg
	c.state.SelectedNode = nil
	return true
}

// SetSelectedNode highlights a node. The node must be nil or a member of the
// active subgraph; anything else is rejected.
func (c *Controller) SetSelectedNode(node *model.GraphNode) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if node == nil {
		c.state.SelectedNode = nil
		return true
	}
	if c.state.ActiveSubgraph == nil || !c.state.ActiveSubgraph.Contains(node.ID) {
		return false
	}
	c.state.SelectedNode = node
	return true
}

// SelectNodeByID highlights the node with the given id, resolving it against
// the active subgraph. This is the handler for canvas click events.
func (c *Controller) SelectNodeByID(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.state.ActiveSubgraph.NodeByID(id)
	if n == nil {
		return false
	}
	c.state.SelectedNode = n
	return true
}

// Snapshot returns a copy of the current selection state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Phase reports where the controller is in its load cycle.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.state.Loading:
		return PhaseLoading
	case c.state.ActiveSubgraph != nil || c.state.SelectedClusterID != "":
		return PhaseReady
	default:
		return PhaseIdle
	}
}

// Link returns the shareable link for the current selection.
func (c *Controller) Link() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.address.Link()
}

// AddressQuery returns the query-string form of the address, as persisted
// by the session store.
func (c *Controller) AddressQuery() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.address.Query()
}
