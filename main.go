// Package main provides the entry point for the CVD Simulator application.
package main

import (
	"flag"
	"log"
	"path/filepath"
	"strings"
	"time"

	"cvd-simulator/internal/app"
	"cvd-simulator/internal/session"
	"cvd-simulator/internal/version"
	"cvd-simulator/ui/mainwindow"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
)

const appTitle = "CVD Simulator"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	tablePath := flag.String("table", "", "matrix table JSON file overriding the built-in data")
	flag.Parse()

	fyneApp := fyneapp.NewWithID("io.github.cvd-simulator")
	fyneApp.Settings().SetTheme(&app.SimulatorTheme{})

	state := app.NewState()
	state.TablePath = *tablePath

	win := mainwindow.New(fyneApp, state)
	win.Resize(fyne.NewSize(1280, 800))

	// Load the matrix table in the background so the window appears
	// immediately. Lookups report unavailable until the table lands; the
	// window is built first so its listeners see the reload event.
	go func() {
		if err := state.Store().Load(state.TablePath); err != nil {
			log.Printf("matrix table load failed: %v", err)
			return
		}
		state.Emit(app.EventTableReloaded, nil)
	}()

	if *tablePath != "" {
		watcher, err := app.NewTableWatcher(state, *tablePath, 500*time.Millisecond)
		if err != nil {
			log.Printf("table watch unavailable: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	// A session or image path may be given on the command line.
	if args := flag.Args(); len(args) > 0 {
		path := args[0]
		var err error
		if strings.EqualFold(filepath.Ext(path), session.Extension) {
			err = state.LoadSession(path)
		} else {
			err = state.LoadImage(path)
		}
		if err != nil {
			log.Printf("failed to open %s: %v", path, err)
		}
	}

	win.ShowAndRun()
}
