// Package engine renders graph snapshots (PNG/SVG) from a render model. The
// raster backend is heavyweight relative to the rest of the console, so it
// is acquired lazily through Loader: nothing pays for it until a subgraph is
// actually on screen.
package engine

import (
	"sync"
	"time"

	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/debug"
)

// LoadState is the loader's lifecycle position.
type LoadState int

const (
	StateUnloaded LoadState = iota
	StateLoading
	StateReady
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unloaded"
	}
}

// Loader acquires the engine exactly once, asynchronously. It tolerates
// being queried before the load completes and never re-acquires once ready
// or in flight. A failed load is terminal: consumers keep seeing not-ready
// and the rest of the program carries on.
type Loader struct {
	mu     sync.Mutex
	state  LoadState
	engine *Engine
	err    error
	done   chan struct{}
}

// NewLoader returns a loader in the unloaded state.
func NewLoader() *Loader {
	return &Loader{done: make(chan struct{})}
}

// Start begins acquisition if it has not begun already. Safe to call any
// number of times from any goroutine.
func (l *Loader) Start() {
	l.mu.Lock()
	if l.state != StateUnloaded {
		l.mu.Unlock()
		return
	}
	l.state = StateLoading
	l.mu.Unlock()

	go func() {
		start := time.Now()
		eng, err := newEngine()
		l.mu.Lock()
		if err != nil {
			l.state = StateFailed
			l.err = err
		} else {
			l.state = StateReady
			l.engine = eng
		}
		l.mu.Unlock()
		debug.LogTiming("engine load", time.Since(start))
		close(l.done)
	}()
}

// Ready returns the engine handle once acquisition succeeded.
func (l *Loader) Ready() (*Engine, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine, l.state == StateReady
}

// State reports the loader's current state.
func (l *Loader) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the acquisition error after a failed load.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Done is closed when acquisition settles, successfully or not.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}
