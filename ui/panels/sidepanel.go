// Package panels provides UI panels for the application.
package panels

import (
	"fmt"
	"image"
	"sync"

	"cvd-simulator/internal/analysis"
	"cvd-simulator/internal/app"
	"cvd-simulator/internal/cvd"
	"cvd-simulator/internal/daltonize"
	"cvd-simulator/internal/simulate"
	"cvd-simulator/ui/canvas"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// analysisSampleBudget caps how many pixels the difference report walks
// per update so slider drags stay responsive on large scans.
const analysisSampleBudget = 200000

// SidePanel holds the simulation controls, palette preview, and the
// difference report.
type SidePanel struct {
	state     *app.State
	canvas    *canvas.ImageCanvas
	window    fyne.Window
	container fyne.CanvasObject

	deficiencySelect *widget.RadioGroup
	severitySlider   *widget.Slider
	severityLabel    *widget.Label
	daltonizeCheck   *widget.Check
	viewSelect       *widget.RadioGroup

	paletteOriginal  *fynecanvas.Image
	paletteSimulated *fynecanvas.Image

	analysisLabel *widget.Label
	probeLabel    *widget.Label
	statusLabel   *widget.Label

	lastProbe *image.Point

	// Recompute coalescing: at most one simulation in flight plus one
	// pending slot. Bursts of slider events collapse into the pending
	// slot and the newest settings win.
	queueMu sync.Mutex
	running bool
	pending bool
}

// NewSidePanel creates the side panel and wires it to state events.
func NewSidePanel(state *app.State, cvs *canvas.ImageCanvas) *SidePanel {
	sp := &SidePanel{
		state:  state,
		canvas: cvs,
	}

	// Initialize all labels first (before any callbacks can fire)
	sp.severityLabel = widget.NewLabel("Severity: 100%")
	sp.analysisLabel = widget.NewLabel("No image loaded")
	sp.analysisLabel.TextStyle = fyne.TextStyle{Monospace: true}
	sp.probeLabel = widget.NewLabel("Click a pixel to probe it")
	sp.probeLabel.TextStyle = fyne.TextStyle{Monospace: true}
	sp.statusLabel = widget.NewLabel("")
	sp.statusLabel.Wrapping = fyne.TextWrapWord

	// Deficiency selection
	var names []string
	for _, d := range cvd.Deficiencies() {
		names = append(names, d.String())
	}
	sp.deficiencySelect = widget.NewRadioGroup(names, func(selected string) {
		if d, ok := cvd.ParseDeficiency(selected); ok {
			state.SetDeficiency(d)
		}
	})
	sp.deficiencySelect.SetSelected(state.Deficiency.String())

	// Severity slider shows percent, state keeps 0..1
	sp.severitySlider = widget.NewSlider(0, 100)
	sp.severitySlider.Step = 1
	sp.severitySlider.SetValue(state.Severity * 100)
	sp.severitySlider.OnChanged = func(val float64) {
		sp.severityLabel.SetText(fmt.Sprintf("Severity: %.0f%%", val))
		state.SetSeverity(val / 100.0)
	}
	sp.severityLabel.SetText(fmt.Sprintf("Severity: %.0f%%", state.Severity*100))

	sp.daltonizeCheck = widget.NewCheck("Daltonize (compensate)", func(checked bool) {
		state.SetDaltonize(checked)
	})
	sp.daltonizeCheck.SetChecked(state.Daltonize)

	sp.viewSelect = widget.NewRadioGroup([]string{"Side by Side", "Simulated", "Original"}, func(selected string) {
		switch selected {
		case "Original":
			cvs.SetView(canvas.ViewOriginal)
		case "Simulated":
			cvs.SetView(canvas.ViewSimulated)
		default:
			cvs.SetView(canvas.ViewSideBySide)
		}
	})
	sp.viewSelect.SetSelected("Side by Side")

	// Palette preview strips
	sp.paletteOriginal = fynecanvas.NewImageFromImage(paletteStrip())
	sp.paletteOriginal.FillMode = fynecanvas.ImageFillContain
	sp.paletteOriginal.SetMinSize(fyne.NewSize(0, paletteStripHeight))
	sp.paletteSimulated = fynecanvas.NewImageFromImage(paletteStrip())
	sp.paletteSimulated.FillMode = fynecanvas.ImageFillContain
	sp.paletteSimulated.SetMinSize(fyne.NewSize(0, paletteStripHeight))

	// Pixel probe readout
	cvs.OnProbe(func(x, y int) {
		sp.updateProbe(x, y)
	})

	// Layout
	sp.container = container.NewVScroll(container.NewVBox(
		widget.NewCard("Deficiency", "", sp.deficiencySelect),
		widget.NewCard("Severity", "", container.NewVBox(
			sp.severityLabel,
			sp.severitySlider,
			sp.daltonizeCheck,
		)),
		widget.NewCard("View", "", sp.viewSelect),
		widget.NewCard("Palette", "", container.NewVBox(
			widget.NewLabel("Original:"),
			sp.paletteOriginal,
			widget.NewLabel("Simulated:"),
			sp.paletteSimulated,
		)),
		widget.NewCard("Difference", "", sp.analysisLabel),
		widget.NewCard("Probe", "", sp.probeLabel),
		sp.statusLabel,
	))

	// Register for events
	state.On(app.EventImageLoaded, func(data interface{}) {
		src, sim := state.Images()
		cvs.SetImages(src, sim)
		sp.lastProbe = nil
		sp.probeLabel.SetText("Click a pixel to probe it")
		sp.RequestSimulation()
	})

	state.On(app.EventSettingsChanged, func(data interface{}) {
		sp.syncControls()
		sp.RequestSimulation()
	})

	state.On(app.EventTableReloaded, func(data interface{}) {
		sp.statusLabel.SetText("Matrix table ready")
		sp.RequestSimulation()
	})

	// Initial pass fills the status line and, once the table lands,
	// the simulated palette strip.
	sp.RequestSimulation()

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// SetWindow sets the parent window for dialogs.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.window = w
}

// syncControls pushes state values back into the widgets after a session
// load or another out-of-band settings change. The widget callbacks feed
// the same values back into state, where the unchanged-value guards stop
// the loop.
func (sp *SidePanel) syncControls() {
	d, severity, dalt := sp.state.Settings()

	if sp.deficiencySelect.Selected != d.String() {
		sp.deficiencySelect.SetSelected(d.String())
	}
	percent := severity * 100
	if sp.severitySlider.Value != percent {
		sp.severitySlider.SetValue(percent)
	}
	sp.severityLabel.SetText(fmt.Sprintf("Severity: %.0f%%", percent))
	if sp.daltonizeCheck.Checked != dalt {
		sp.daltonizeCheck.SetChecked(dalt)
	}
}

// RequestSimulation schedules a recompute. If one is already running the
// request lands in the pending slot; repeated requests overwrite it.
func (sp *SidePanel) RequestSimulation() {
	sp.queueMu.Lock()
	if sp.running {
		sp.pending = true
		sp.queueMu.Unlock()
		return
	}
	sp.running = true
	sp.queueMu.Unlock()

	go sp.simulateLoop()
}

// simulateLoop recomputes until no request is pending. Settings are
// re-read on every pass, so the newest request always sees final values.
func (sp *SidePanel) simulateLoop() {
	for {
		sp.simulateOnce()

		sp.queueMu.Lock()
		if !sp.pending {
			sp.running = false
			sp.queueMu.Unlock()
			return
		}
		sp.pending = false
		sp.queueMu.Unlock()
	}
}

func (sp *SidePanel) simulateOnce() {
	src, _ := sp.state.Images()
	d, severity, dalt := sp.state.Settings()
	store := sp.state.Store()

	matrix, ok := store.Resolve(d, severity)
	if ok && dalt {
		matrix, ok = daltonize.Resolve(store, d, severity)
	}
	if !ok {
		sp.statusLabel.SetText("Matrix table not loaded yet")
		return
	}

	sp.updatePalette(matrix)

	if src == nil {
		return
	}

	out := image.NewRGBA(src.Bounds())
	simulate.Transform(out, src, matrix)
	sp.state.SetSimulated(out)
	sp.canvas.SetSimulated(out)

	report := analysis.Compare(src, out, analysisSampleBudget)
	sp.analysisLabel.SetText(report.String())
	if dalt {
		sp.statusLabel.SetText(fmt.Sprintf("Daltonized for %s at %.0f%%", d, severity*100))
	} else {
		sp.statusLabel.SetText(fmt.Sprintf("%s at %.0f%%", d, severity*100))
	}

	if sp.lastProbe != nil {
		sp.updateProbe(sp.lastProbe.X, sp.lastProbe.Y)
	}
}

// updatePalette reruns the swatch strip through the current matrix.
func (sp *SidePanel) updatePalette(matrix cvd.Matrix) {
	strip := paletteStrip()
	out := image.NewRGBA(strip.Bounds())
	simulate.Transform(out, strip, matrix)
	sp.paletteSimulated.Image = out
	sp.paletteSimulated.Refresh()
}

// updateProbe refreshes the probe readout for the pixel at (x, y).
func (sp *SidePanel) updateProbe(x, y int) {
	src, sim := sp.state.Images()
	if src == nil {
		return
	}
	sp.lastProbe = &image.Point{X: x, Y: y}

	b := src.Bounds()
	px, py := b.Min.X+x, b.Min.Y+y
	if px >= b.Max.X || py >= b.Max.Y {
		return
	}

	s := src.RGBAAt(px, py)
	text := fmt.Sprintf("Pixel (%d, %d)\nOriginal:  %s", x, y, formatRGB(s))
	if sim != nil && sim.Bounds() == b {
		v := sim.RGBAAt(px, py)
		text += fmt.Sprintf("\nSimulated: %s", formatRGB(v))
	}
	sp.probeLabel.SetText(text)
}
