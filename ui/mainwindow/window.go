// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"cvd-simulator/internal/app"
	"cvd-simulator/internal/cvd"
	"cvd-simulator/internal/imageio"
	"cvd-simulator/internal/session"
	"cvd-simulator/internal/version"
	"cvd-simulator/ui/canvas"
	"cvd-simulator/ui/panels"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyLastDir    = "lastDirectory"
	prefKeyLastImage  = "lastImage"
	prefKeyDeficiency = "deficiency"
	prefKeySeverity   = "severity"
	prefKeyDaltonize  = "daltonize"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	canvas    *canvas.ImageCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label

	// Menu items that need state tracking
	fitToWindowItem *fyne.MenuItem
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State) *MainWindow {
	win := fyneApp.NewWindow("CVD Simulator")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.restoreLastState()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	// Create the image canvas
	mw.canvas = canvas.NewImageCanvas()

	// Create the side panel
	mw.sidePanel = panels.NewSidePanel(mw.state, mw.canvas)
	mw.sidePanel.SetWindow(mw.Window)

	// Create status bar
	mw.statusBar = widget.NewLabel("Ready")

	// Create toolbar with zoom controls
	toolbar := mw.createToolbar()

	// Canvas area with toolbar on top
	canvasArea := container.NewBorder(
		toolbar,               // top
		nil,                   // bottom
		nil,                   // left
		nil,                   // right
		mw.canvas.Container(), // center
	)

	// Create main layout: side panel | canvas area
	split := container.NewHSplit(
		mw.sidePanel.Container(),
		canvasArea,
	)
	split.SetOffset(0.25) // Side panel takes 25% of width

	// Main container with status bar at bottom
	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", func() {
		mw.onZoomOut()
	})
	zoomInBtn := widget.NewButton("+", func() {
		mw.onZoomIn()
	})
	fitBtn := widget.NewButton("Fit", func() {
		mw.onToggleFitToWindow()
	})
	actualBtn := widget.NewButton("1:1", func() {
		mw.onActualSize()
	})

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	// File menu
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItem("Open Session...", mw.onOpenSession),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Session", mw.onSaveSession),
		fyne.NewMenuItem("Save Session As...", mw.onSaveSessionAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Result...", mw.onSaveResult),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	// View menu
	mw.fitToWindowItem = fyne.NewMenuItem("  Fit to Window", mw.onToggleFitToWindow)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		mw.fitToWindowItem,
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
	)

	// Help menu
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, viewMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.app.Preferences().SetString(prefKeyLastImage, path)
			mw.updateStatus("Loaded " + filepath.Base(path))
		}
		mw.canvas.SetFitToWindow(true)
		mw.fitToWindowItem.Label = "✓ Fit to Window"
	})

	mw.state.On(app.EventSettingsChanged, func(data interface{}) {
		d, severity, dalt := mw.state.Settings()
		prefs := mw.app.Preferences()
		prefs.SetString(prefKeyDeficiency, d.Key())
		prefs.SetFloat(prefKeySeverity, severity)
		prefs.SetBool(prefKeyDaltonize, dalt)
	})

	mw.state.On(app.EventSessionLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("CVD Simulator - " + filepath.Base(path))
			mw.updateStatus("Session loaded: " + path)
		}
	})

	mw.state.On(app.EventSessionSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("CVD Simulator - " + filepath.Base(path))
			mw.updateStatus("Session saved: " + path)
		}
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	dir := filepath.Dir(filePath)
	mw.app.Preferences().SetString(prefKeyLastDir, dir)
}

// restoreLastState loads the previous image and simulation settings.
func (mw *MainWindow) restoreLastState() {
	prefs := mw.app.Preferences()

	if key := prefs.String(prefKeyDeficiency); key != "" {
		if d, ok := cvd.ParseDeficiency(key); ok {
			mw.state.SetDeficiency(d)
		}
	}
	mw.state.SetSeverity(prefs.FloatWithFallback(prefKeySeverity, 1.0))
	mw.state.SetDaltonize(prefs.BoolWithFallback(prefKeyDaltonize, false))

	if imagePath := prefs.String(prefKeyLastImage); imagePath != "" {
		if err := mw.state.LoadImage(imagePath); err != nil {
			mw.updateStatus(fmt.Sprintf("Could not restore %s: %v", filepath.Base(imagePath), err))
		}
	}

	mw.state.SetModified(false) // Don't mark as modified on restore
	mw.SetTitle("CVD Simulator")
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(imageio.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenSession() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadSession(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{session.Extension}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveSession() {
	if mw.state.SessionPath == "" {
		mw.onSaveSessionAs()
		return
	}
	if err := mw.state.SaveSession(mw.state.SessionPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveSessionAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != session.Extension {
			path += session.Extension
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveSession(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("session" + session.Extension)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveResult() {
	_, sim := mw.state.Images()
	if sim == nil {
		mw.updateStatus("Nothing simulated yet")
		return
	}

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if !imageio.IsSupportedFormat(path) {
			path += ".png"
		}
		mw.saveLastDir(path)

		// Re-read in case the simulation updated behind the dialog
		_, current := mw.state.Images()
		if current == nil {
			return
		}
		if err := imageio.Save(path, current); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Saved " + filepath.Base(path))
	}, mw.Window)

	suggested := "simulated.png"
	if mw.state.ImagePath != "" {
		base := filepath.Base(mw.state.ImagePath)
		ext := filepath.Ext(base)
		d, _, _ := mw.state.Settings()
		suggested = fmt.Sprintf("%s-%s%s", base[:len(base)-len(ext)], d.Key(), ext)
	}
	fd.SetFileName(suggested)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onZoomIn() {
	mw.disableFitToWindow()
	mw.canvas.ZoomIn()
}

func (mw *MainWindow) onZoomOut() {
	mw.disableFitToWindow()
	mw.canvas.ZoomOut()
}

func (mw *MainWindow) onToggleFitToWindow() {
	// Toggle state
	enabled := !mw.canvas.GetFitToWindow()
	mw.canvas.SetFitToWindow(enabled)

	// Update menu label to show state
	if enabled {
		mw.fitToWindowItem.Label = "✓ Fit to Window"
	} else {
		mw.fitToWindowItem.Label = "  Fit to Window"
	}
}

func (mw *MainWindow) onActualSize() {
	mw.disableFitToWindow()
	mw.canvas.SetZoom(1.0)
}

func (mw *MainWindow) disableFitToWindow() {
	if mw.canvas.GetFitToWindow() {
		mw.canvas.SetFitToWindow(false)
		mw.fitToWindowItem.Label = "  Fit to Window"
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About CVD Simulator",
		fmt.Sprintf("CVD Simulator v%s\n\n"+
			"Simulates protanopia, deuteranopia, and tritanopia\n"+
			"using severity-interpolated Machado (2009) matrices.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
