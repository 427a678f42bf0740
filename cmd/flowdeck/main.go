package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/flowdeck/flowdeck/pkg/config"
	"github.com/flowdeck/flowdeck/pkg/export"
	"github.com/flowdeck/flowdeck/pkg/layout"
	"github.com/flowdeck/flowdeck/pkg/model"
	"github.com/flowdeck/flowdeck/pkg/store"
	"github.com/flowdeck/flowdeck/pkg/ui"
	"github.com/flowdeck/flowdeck/pkg/watcher"
)

const version = "0.1.0"

// terminalOptions scales the geometry engine to character cells instead
// of the default layout units.
func terminalOptions() layout.Options {
	return layout.Options{
		MinWidth:      20,
		MinHeight:     5,
		FallbackSize:  30,
		CascadeOrigin: 4,
		CascadeStep:   2,
		TileGutter:    2,
		OverlapGutter: 4,
		StackX:        4,
		StackY:        2,
	}
}

func main() {
	dir := flag.String("dir", ".", "Project directory")
	preview := flag.Bool("preview", false, "Serve exported snapshots over HTTP")
	showHelp := flag.Bool("help", false, "Show help")
	showVersion := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *showHelp {
		fmt.Println("Usage: flowdeck [options] [init]")
		fmt.Println("\nA terminal workbench for visual data pipelines.")
		fmt.Println("\nCommands:")
		fmt.Println("  init    Create a panels.yaml interactively")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *showVersion {
		fmt.Println("flowdeck version " + version)
		os.Exit(0)
	}

	if flag.Arg(0) == "init" {
		if err := runInit(*dir); err != nil {
			fmt.Printf("Error initializing: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println("flowdeck needs an interactive terminal.")
		os.Exit(1)
	}

	if err := run(*dir, *preview); err != nil {
		fmt.Printf("Error running flowdeck: %v\n", err)
		os.Exit(1)
	}
}

func run(dir string, preview bool) error {
	cfg, err := config.Load(config.DefaultPath(dir))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFile, err := openLog(dir)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := log.New(logFile, "", log.LstdFlags)

	storage, err := store.OpenSQLite(config.DBPath(dir))
	if err != nil {
		return fmt.Errorf("open layout db: %w", err)
	}
	defer storage.Close()

	st := store.New(storage, terminalOptions(), logger)
	app := ui.NewApp(st, cfg, dir)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Reset broadcasts come from the store's own goroutine context; wake
	// the event loop so panels re-dock promptly.
	unsubscribe := subscribeResetWake(st, p)
	defer unsubscribe()

	fw, err := watchConfig(dir, p, logger)
	if err != nil {
		logger.Printf("config watch disabled: %v", err)
	} else {
		defer fw.Close()
	}

	g, ctx := errgroup.WithContext(context.Background())

	var server *export.PreviewServer
	if preview {
		snapDir := filepath.Join(dir, config.DataDir, "snapshots")
		if err := os.MkdirAll(snapDir, 0755); err != nil {
			return fmt.Errorf("create snapshot directory: %w", err)
		}
		port, err := export.FindAvailablePort(8900, 8999)
		if err != nil {
			return fmt.Errorf("preview server: %w", err)
		}
		server = export.NewPreviewServer(snapDir, port)
		logger.Printf("preview server on %s", server.URL())
		g.Go(server.Start)
	}

	g.Go(func() error {
		defer func() {
			if server != nil {
				server.Stop()
			}
		}()
		_, err := p.Run()
		return err
	})

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if err := g.Wait(); err != nil && err.Error() != "http: Server closed" {
		return err
	}
	return nil
}

func openLog(dir string) (*os.File, error) {
	path := config.LogPath(dir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// subscribeResetWake forwards store reset broadcasts into the running
// program as messages.
func subscribeResetWake(st *store.Store, p *tea.Program) func() {
	return st.SubscribeReset(func(map[string]model.InitialPanelSpec) {
		p.Send(ui.LayoutResetMsg{})
	})
}

// watchConfig reloads panel defaults when panels.yaml changes on disk.
func watchConfig(dir string, p *tea.Program, logger *log.Logger) (*watcher.FileWatcher, error) {
	path := config.DefaultPath(dir)
	debounce := watcher.NewDebouncer(watcher.DefaultQuiet)
	return watcher.WatchFile(path, debounce, func() {
		cfg, err := config.Load(path)
		if err != nil {
			logger.Printf("config reload: %v", err)
			return
		}
		p.Send(ui.ConfigReloadedMsg{Panels: cfg.Panels})
	})
}

// runInit writes a starter panels.yaml chosen interactively.
func runInit(dir string) error {
	path := config.DefaultPath(dir)
	if _, err := os.Stat(path); err == nil {
		var overwrite bool
		confirm := huh.NewConfirm().
			Title("panels.yaml already exists. Overwrite?").
			Value(&overwrite)
		if err := huh.NewForm(huh.NewGroup(confirm)).Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println("Left existing panels.yaml in place.")
			return nil
		}
	}

	defaults := config.Default()
	var selected []string
	options := make([]huh.Option[string], 0, len(defaults.Panels))
	for _, spec := range defaults.Panels {
		options = append(options,
			huh.NewOption(fmt.Sprintf("%s (%s)", spec.Title, spec.ID), spec.ID).
				Selected(true))
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title("Panels to include").
			Options(options...).
			Value(&selected),
	))
	if err := form.Run(); err != nil {
		return err
	}
	if len(selected) == 0 {
		return fmt.Errorf("at least one panel is required")
	}

	keep := make(map[string]bool, len(selected))
	for _, id := range selected {
		keep[id] = true
	}
	cfg := &config.Config{}
	for _, spec := range defaults.Panels {
		if keep[spec.ID] {
			cfg.Panels = append(cfg.Panels, spec)
		}
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("Wrote %s with %d panels.\n", path, len(cfg.Panels))
	return nil
}
