package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/internal/datasource"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/api"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/config"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/debug"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/engine"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/model"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/nav"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/render"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/session"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/ui"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/version"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/watcher"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

func main() {
	serviceFlag := flag.String("service", "", "Monitoring service base URL (overrides config)")
	linkFlag := flag.String("link", "", "Open a shared link (amlv://explore?cluster=...)")
	clusterFlag := flag.String("cluster", "", "Open a cluster by id")
	limitFlag := flag.Int("limit", 0, "Catalog size (overrides config)")
	snapshotFlag := flag.String("snapshot", "", "Render a snapshot to this path (.png or .svg) and exit")
	noRestoreFlag := flag.Bool("no-restore", false, "Do not restore the previous session selection")
	helpFlag := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *helpFlag {
		fmt.Println("Usage: amlv [options]")
		fmt.Println("\nA terminal console for exploring suspicious transaction clusters.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("amlv %s\n", version.Version)
		os.Exit(0)
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not read config: %v\n", cfgErr)
		cfg = config.DefaultConfig()
	}

	// First run with no config file and a real terminal: ask for the
	// service URL instead of silently assuming localhost.
	if _, statErr := os.Stat(config.ConfigPath()); os.IsNotExist(statErr) &&
		*serviceFlag == "" && *snapshotFlag == "" && isTerminal() {
		if err := runSetupForm(&cfg); err == nil {
			if err := config.Save(cfg); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not save config: %v\n", err)
			}
		}
	}

	if *serviceFlag != "" {
		cfg.Service.URL = strings.TrimRight(*serviceFlag, "/")
	}
	if *limitFlag > 0 {
		cfg.UI.CatalogLimit = *limitFlag
	}

	client := api.NewClient(cfg.Service.URL)
	if cfg.Service.Timeout > 0 {
		client = client.WithTimeout(time.Duration(cfg.Service.Timeout) * time.Second)
	}

	// Resolve the starting address: explicit link or cluster flag wins,
	// then the previous session, then empty.
	address, err := resolveAddress(*linkFlag, *clusterFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	var store *datasource.SessionStore
	if dir := config.StateDir(); dir != "" {
		store, err = datasource.OpenSessionStore(filepath.Join(dir, "sessions.db"))
		if err != nil {
			debug.Log("session store unavailable: %v", err)
			store = nil
		} else {
			defer store.Close()
		}
	}
	if address.Cluster() == "" && !*noRestoreFlag && store != nil {
		if saved, ok, loadErr := store.LoadAddress(client.BaseURL()); loadErr == nil && ok {
			if restored, parseErr := nav.Parse(saved); parseErr == nil {
				address = restored
			}
		}
	}

	if *snapshotFlag != "" {
		if err := runHeadlessSnapshot(client, address, *snapshotFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Snapshot failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *snapshotFlag)
		os.Exit(0)
	}

	if !isTerminal() {
		fmt.Fprintln(os.Stderr, "amlv needs a terminal; use --snapshot for non-interactive rendering.")
		os.Exit(1)
	}

	var watch *watcher.Watcher
	if cfgErr == nil {
		watch, err = watcher.New(config.ConfigPath())
		if err == nil {
			err = watch.Start()
		}
		if err != nil {
			debug.Log("config watch unavailable: %v", err)
			watch = nil
		} else {
			defer watch.Stop()
		}
	}

	app := ui.NewApp(ui.Options{
		Config: cfg,
		Client: client,
		Ctrl:   session.New(address),
		Loader: engine.NewLoader(),
		Store:  store,
		Watch:  watch,
	})

	if err := runTUIProgram(app); err != nil {
		fmt.Fprintf(os.Stderr, "Error running amlv: %v\n", err)
		os.Exit(1)
	}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func resolveAddress(link, cluster string) (*nav.Address, error) {
	if link != "" && cluster != "" {
		return nil, errors.New("--link and --cluster are mutually exclusive")
	}
	if link != "" {
		return nav.Parse(link)
	}
	address := nav.New()
	if cluster != "" {
		address.SetCluster(cluster)
	}
	return address, nil
}

func runSetupForm(cfg *config.Config) error {
	url := cfg.Service.URL
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Monitoring service URL").
				Description("Base URL of the transaction monitoring API").
				Value(&url).
				Placeholder(config.DefaultServiceURL),
		),
	).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	if err := form.Run(); err != nil {
		return err
	}
	if url != "" {
		cfg.Service.URL = strings.TrimRight(url, "/")
	}
	return nil
}

// runHeadlessSnapshot renders one cluster to a static image without the TUI.
// The cluster comes from the address; when the address is empty the
// highest-scoring cluster from the catalog is used.
func runHeadlessSnapshot(client *api.Client, address *nav.Address, path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	loader := engine.NewLoader()
	loader.Start()

	clusterID := address.Cluster()
	var sg *model.Subgraph

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if clusterID == "" {
			clusters, err := client.ListTopClusters(gctx, 1)
			if err != nil {
				return err
			}
			if len(clusters) == 0 {
				return errors.New("no flagged clusters to render")
			}
			clusterID = clusters[0].ID
		}
		var err error
		sg, err = client.GetSubgraph(gctx, clusterID)
		return err
	})
	g.Go(func() error {
		select {
		case <-loader.Done():
			return loader.Err()
		case <-gctx.Done():
			return gctx.Err()
		}
	})
	if err := g.Wait(); err != nil {
		return err
	}

	eng, ok := loader.Ready()
	if !ok {
		return loader.Err()
	}
	rmodel := render.Adapt(sg)
	stats := render.Analyze(sg)
	return eng.Snapshot(engine.SnapshotOptions{
		Path:  path,
		Model: rmodel,
		Stats: stats,
	})
}

func runTUIProgram(app ui.App) error {
	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}
