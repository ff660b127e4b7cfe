// Package ui is the bubbletea front of the console: a cluster catalog on the
// left, the graph canvas in the middle, and the node detail panel on the
// right. All selection mutations route through the session controller; the
// panels only read its snapshots.
package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/internal/datasource"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/api"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/config"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/debug"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/engine"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/model"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/session"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/version"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/watcher"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// View width thresholds for adaptive layout
const (
	listPaneWidth      = 36
	detailPaneWidth    = 34
	minSplitWidth      = 90
	minDetailWidth     = 120
	fetchTimeout       = 20 * time.Second
	statusDisplayLimit = 6 * time.Second
)

// focus represents which UI element has keyboard focus
type focus int

const (
	focusList focus = iota
	focusCanvas
	focusDetail
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// --- messages ---------------------------------------------------------------

// CatalogLoadedMsg carries the cluster catalog fetch result.
type CatalogLoadedMsg struct {
	Clusters []model.ClusterSummary
	Err      error
}

// SubgraphLoadedMsg carries a settled subgraph fetch plus the request token
// issued by the controller when the fetch started.
type SubgraphLoadedMsg struct {
	Token    uint64
	Subgraph *model.Subgraph
	Err      error
}

// NodeClickedMsg is emitted by the canvas when the analyst activates a node.
// The controller is the only subscriber that mutates state from it.
type NodeClickedMsg struct {
	ID string
}

// EngineSettledMsg fires when the rendering engine load settles either way.
type EngineSettledMsg struct{}

// HealthMsg carries the startup service probe result.
type HealthMsg struct {
	Err error
}

// ConfigChangedMsg fires when the config file changes on disk.
type ConfigChangedMsg struct{}

type spinnerTickMsg struct{}

type statusExpireMsg struct {
	seq int
}

// --- commands ---------------------------------------------------------------

func fetchCatalogCmd(client *api.Client, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		clusters, err := client.ListTopClusters(ctx, limit)
		return CatalogLoadedMsg{Clusters: clusters, Err: err}
	}
}

func fetchSubgraphCmd(client *api.Client, token uint64, clusterID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		sg, err := client.GetSubgraph(ctx, clusterID)
		return SubgraphLoadedMsg{Token: token, Subgraph: sg, Err: err}
	}
}

func healthCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return HealthMsg{Err: client.Health(ctx)}
	}
}

func waitEngineCmd(loader *engine.Loader) tea.Cmd {
	return func() tea.Msg {
		<-loader.Done()
		return EngineSettledMsg{}
	}
}

// WatchConfigCmd waits for the next config-file change.
func WatchConfigCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return ConfigChangedMsg{}
	}
}

func spinnerTickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

// --- app model ---------------------------------------------------------------

// Options wires an App. Store and Watch may be nil; the app degrades
// gracefully without them.
type Options struct {
	Config config.Config
	Client *api.Client
	Ctrl   *session.Controller
	Loader *engine.Loader
	Store  *datasource.SessionStore
	Watch  *watcher.Watcher
}

// App is the root bubbletea model.
type App struct {
	cfg    config.Config
	client *api.Client
	ctrl   *session.Controller
	loader *engine.Loader
	store  *datasource.SessionStore
	watch  *watcher.Watcher

	theme  Theme
	list   list.Model
	canvas Canvas
	detail DetailPanel
	help   HelpModel

	focus       focus
	showHelp    bool
	width       int
	height      int
	ready       bool
	spinnerIdx  int
	status      string
	statusSeq   int
	catalogHint string
	healthWarn  bool
	clusters    []model.ClusterSummary
}

// NewApp builds the root model.
func NewApp(opts Options) App {
	r := lipgloss.DefaultRenderer()
	theme := DefaultTheme(r)

	l := list.New(nil, ClusterDelegate{Theme: theme}, 0, 0)
	l.Title = "Suspicious clusters"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = theme.PaneTitle

	return App{
		cfg:    opts.Config,
		client: opts.Client,
		ctrl:   opts.Ctrl,
		loader: opts.Loader,
		store:  opts.Store,
		watch:  opts.Watch,
		theme:  theme,
		list:   l,
		canvas: NewCanvas(theme),
		detail: NewDetailPanel(theme),
		help:   NewHelpModel(theme, 80),
	}
}

// Init starts the engine load, the catalog fetch, and the health probe.
// When the navigation address already names a cluster, it also issues the
// deep-linked subgraph fetch, exactly as if the analyst had clicked it.
func (a App) Init() tea.Cmd {
	a.loader.Start()
	cmds := []tea.Cmd{
		waitEngineCmd(a.loader),
		fetchCatalogCmd(a.client, a.cfg.UI.CatalogLimit),
		healthCmd(a.client),
		spinnerTickCmd(),
	}
	if id, token, ok := a.ctrl.Initialize(); ok {
		cmds = append(cmds, fetchSubgraphCmd(a.client, token, id))
	}
	if a.watch != nil {
		cmds = append(cmds, WatchConfigCmd(a.watch))
	}
	return tea.Batch(cmds...)
}

// Update routes messages. Selection state changes only ever go through the
// controller.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.list.SetSize(a.listWidth(), a.paneHeight())
		a.help = NewHelpModel(a.theme, a.width)
		return a, nil

	case tea.KeyMsg:
		return a.updateKeys(msg)

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case CatalogLoadedMsg:
		if msg.Err != nil {
			// swallowed: the panel shows an empty list plus a hint
			a.clusters = nil
			a.catalogHint = "catalog unavailable — r to retry"
			debug.Log("catalog fetch failed: %v", msg.Err)
			return a, a.list.SetItems(nil)
		}
		a.clusters = msg.Clusters
		a.catalogHint = ""
		if len(msg.Clusters) == 0 {
			a.catalogHint = "no flagged clusters yet"
		}
		items := make([]list.Item, len(msg.Clusters))
		for i, c := range msg.Clusters {
			items[i] = ClusterItem{Cluster: c}
		}
		return a, a.list.SetItems(items)

	case SubgraphLoadedMsg:
		applied := a.ctrl.Resolve(msg.Token, msg.Subgraph, msg.Err)
		if !applied {
			return a, nil
		}
		st := a.ctrl.Snapshot()
		if msg.Err == nil {
			a.canvas.SetSubgraph(st.ActiveSubgraph)
			a.persistSession()
		} else if st.LastFetchFailed {
			return a.flashStatus("load failed — showing previous data")
		}
		return a, nil

	case NodeClickedMsg:
		a.ctrl.SelectNodeByID(msg.ID)
		return a, nil

	case EngineSettledMsg:
		if a.loader.State() == engine.StateFailed {
			debug.Log("engine load failed: %v", a.loader.Err())
		}
		return a, nil

	case HealthMsg:
		a.healthWarn = msg.Err != nil
		return a, nil

	case ConfigChangedMsg:
		var cmds []tea.Cmd
		if cfg, err := config.Load(); err == nil {
			if a.applyConfig(cfg) {
				cmds = append(cmds, healthCmd(a.client))
			}
		}
		cmds = append(cmds, fetchCatalogCmd(a.client, a.cfg.UI.CatalogLimit))
		if a.watch != nil {
			cmds = append(cmds, WatchConfigCmd(a.watch))
		}
		next, expire := a.flashStatus("config reloaded")
		return next, tea.Batch(append(cmds, expire)...)

	case spinnerTickMsg:
		a.spinnerIdx = (a.spinnerIdx + 1) % len(spinnerFrames)
		return a, spinnerTickCmd()

	case statusExpireMsg:
		if msg.seq == a.statusSeq {
			a.status = ""
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.list, cmd = a.list.Update(msg)
	return a, cmd
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.showHelp {
		switch msg.String() {
		case "q", "esc", "?":
			a.showHelp = false
		}
		return a, nil
	}

	// When the list filter is active, keys belong to the list.
	if a.focus == focusList && a.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		a.list, cmd = a.list.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return a, tea.Quit
	case "?":
		a.showHelp = true
		return a, nil
	case "tab":
		a.focus = (a.focus + 1) % 3
		return a, nil
	case "r":
		return a, fetchCatalogCmd(a.client, a.cfg.UI.CatalogLimit)
	case "y":
		link := a.ctrl.Link()
		if err := clipboard.WriteAll(link); err != nil {
			return a.flashStatus("clipboard unavailable")
		}
		return a.flashStatus("copied " + link)
	case "s":
		return a.exportSnapshot()
	case "esc":
		a.ctrl.SetSelectedNode(nil)
		return a, nil
	case "enter":
		switch a.focus {
		case focusList:
			if item, ok := a.list.SelectedItem().(ClusterItem); ok {
				return a.selectCluster(item.Cluster.ID)
			}
		case focusCanvas:
			if id := a.canvas.CursorNodeID(); id != "" {
				return a, func() tea.Msg { return NodeClickedMsg{ID: id} }
			}
		}
		return a, nil
	}

	switch a.focus {
	case focusCanvas:
		switch msg.String() {
		case "j", "down":
			a.canvas.MoveDown()
		case "k", "up":
			a.canvas.MoveUp()
		}
		return a, nil
	case focusList:
		var cmd tea.Cmd
		a.list, cmd = a.list.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return a, nil
	}
	// canvas pane occupies the middle columns; rows below the header map to
	// node rows recorded during the last render
	left := a.listWidth() + 1
	right := left + a.canvasWidth()
	if msg.X < left || msg.X >= right {
		return a, nil
	}
	a.focus = focusCanvas
	if id, ok := a.canvas.NodeAt(msg.Y - a.headerHeight()); ok {
		return a, func() tea.Msg { return NodeClickedMsg{ID: id} }
	}
	return a, nil
}

// selectCluster is the single entry point for cluster selection, used by
// list activation and deep-links alike.
func (a App) selectCluster(id string) (tea.Model, tea.Cmd) {
	token := a.ctrl.Select(id)
	return a, fetchSubgraphCmd(a.client, token, id)
}

func (a App) exportSnapshot() (tea.Model, tea.Cmd) {
	eng, ok := a.loader.Ready()
	if !ok {
		return a.flashStatus("engine not ready")
	}
	st := a.ctrl.Snapshot()
	if st.ActiveSubgraph == nil {
		return a.flashStatus("nothing to export")
	}
	path := filepath.Join(".", fmt.Sprintf("amlv-%s.svg", st.ActiveSubgraph.ClusterID))
	err := eng.Snapshot(engine.SnapshotOptions{
		Path:  path,
		Model: a.canvas.Model(),
		Stats: a.canvas.Stats(),
	})
	if err != nil {
		return a.flashStatus("export failed: " + err.Error())
	}
	return a.flashStatus("exported " + path)
}

func (a App) flashStatus(s string) (tea.Model, tea.Cmd) {
	a.status = s
	a.statusSeq++
	seq := a.statusSeq
	return a, tea.Tick(statusDisplayLimit, func(time.Time) tea.Msg {
		return statusExpireMsg{seq: seq}
	})
}

// applyConfig installs a reloaded config. When the service URL changed the
// client is rebuilt so later fetches hit the new address; it reports whether
// that happened.
func (a *App) applyConfig(cfg config.Config) bool {
	rebuilt := cfg.Service.URL != a.cfg.Service.URL
	if rebuilt {
		client := api.NewClient(cfg.Service.URL)
		if cfg.Service.Timeout > 0 {
			client = client.WithTimeout(time.Duration(cfg.Service.Timeout) * time.Second)
		}
		a.client = client
	}
	a.cfg = cfg
	return rebuilt
}

func (a *App) persistSession() {
	if a.store == nil {
		return
	}
	if err := a.store.SaveAddress(a.client.BaseURL(), a.ctrl.AddressQuery()); err != nil {
		debug.Log("session save failed: %v", err)
	}
}

// --- layout -----------------------------------------------------------------

func (a App) listWidth() int {
	if a.width < minSplitWidth {
		return a.width
	}
	return listPaneWidth
}

func (a App) canvasWidth() int {
	w := a.width - a.listWidth() - 2
	if a.width >= minDetailWidth {
		w -= detailPaneWidth + 1
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (a App) headerHeight() int { return 2 }

func (a App) paneHeight() int {
	h := a.height - a.headerHeight() - 1
	if h < 4 {
		h = 4
	}
	return h
}

// View renders header, panes, and the status bar.
func (a App) View() string {
	if !a.ready {
		return "Initializing..."
	}
	if a.showHelp {
		return a.help.View()
	}

	t := a.theme
	st := a.ctrl.Snapshot()

	title := t.Header.Render("amlv " + version.Version)
	sub := t.MutedText.Render(" — " + a.client.BaseURL())
	health := ""
	if a.healthWarn {
		health = "  " + t.AlertText.Render("⚠ service unreachable")
	}
	loadingBadge := ""
	if st.Loading {
		loadingBadge = "  " + t.SecondaryText.Render(spinnerFrames[a.spinnerIdx]+" loading")
	}
	header := title + sub + health + loadingBadge

	paneH := a.paneHeight()
	sep := t.MutedText.Render(strings.TrimSuffix(strings.Repeat("│\n", max(1, paneH)), "\n"))

	listView := a.list.View()
	if a.catalogHint != "" && len(a.clusters) == 0 {
		listView = lipgloss.JoinVertical(lipgloss.Left,
			t.PaneTitle.Render("Suspicious clusters"),
			t.Placeholder.Render(a.catalogHint))
	}
	listView = t.Renderer.NewStyle().Width(a.listWidth()).Height(paneH).Render(listView)

	canvasView := a.canvas.View(a.canvasWidth(), paneH, a.loader.State(), st.Loading, st.SelectedNode)
	canvasView = t.Renderer.NewStyle().Width(a.canvasWidth()).Height(paneH).Render(canvasView)

	panes := []string{listView, sep, canvasView}
	if a.width >= minDetailWidth {
		detailView := a.detail.View(detailPaneWidth, paneH, st.SelectedNode, st.ActiveSubgraph, a.canvas.Stats())
		panes = append(panes, sep, t.Renderer.NewStyle().Width(detailPaneWidth).Height(paneH).Render(detailView))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, panes...)

	statusLeft := a.status
	if statusLeft == "" {
		statusLeft = "tab: focus • enter: open • y: link • s: snapshot • ?: help"
	}
	statusBar := t.StatusBar.Render(truncateCells(statusLeft, a.width, "…"))

	return header + "\n\n" + body + "\n" + statusBar
}
