// Package canvas provides an image canvas with pan, zoom, and a
// side-by-side comparison view.
package canvas

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25

	// Divider width between panes in side-by-side view, screen pixels.
	splitGap = 2
)

// ViewMode selects what the canvas shows.
type ViewMode int

const (
	ViewSimulated  ViewMode = iota // Simulated rendition only
	ViewSideBySide                 // Original and simulated panes
	ViewOriginal                   // Untouched source only
)

// ImageCanvas displays the source image and its simulated rendition with
// pan and zoom. In side-by-side view both panes share zoom and scroll so
// the same pixels stay under the eye while comparing.
type ImageCanvas struct {
	widget.BaseWidget

	// Image buffers
	source    *image.RGBA
	simulated *image.RGBA

	view ViewMode

	// Display state
	raster *fynecanvas.Raster
	zoom   float64

	// Probe marker in image coordinates, nil when unset
	probe *image.Point

	// Container
	scroll  *zoomScroll
	content *probeContent
	imgSize fyne.Size

	// Fit to window
	fitToWindow    bool
	lastScrollSize fyne.Size

	// Callbacks
	onZoomChange func(zoom float64)
	onProbe      func(x, y int) // Tapped pixel at image coordinates
}

// zoomScroll is a widget that wraps a scroll container but intercepts wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *ImageCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *ImageCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	// Use wheel for zoom, not scroll
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

// Size returns the scroll container's size.
func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

// Refresh refreshes the scroll container.
func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

// Resize sets the size of the scroll container.
func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// probeContent wraps the raster to handle mouse events.
type probeContent struct {
	widget.BaseWidget
	canvas *ImageCanvas
	raster *fynecanvas.Raster
}

func newProbeContent(ic *ImageCanvas, raster *fynecanvas.Raster) *probeContent {
	pc := &probeContent{
		canvas: ic,
		raster: raster,
	}
	pc.ExtendBaseWidget(pc)
	return pc
}

func (pc *probeContent) CreateRenderer() fyne.WidgetRenderer {
	return &probeContentRenderer{content: pc}
}

func (pc *probeContent) MinSize() fyne.Size {
	return pc.raster.MinSize()
}

func (pc *probeContent) Scrolled(ev *fyne.ScrollEvent) {
	// Use mouse wheel for zooming
	if ev.Scrolled.DY > 0 {
		pc.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		pc.canvas.ZoomOut()
	}
}

// Tapped sets the probe marker on the tapped pixel.
func (pc *probeContent) Tapped(ev *fyne.PointEvent) {
	// Workaround for Fyne bug: reject clicks outside widget bounds
	// ev.Position should be relative to the widget, so check for valid range
	size := pc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}

	// Convert screen position to content position
	scrollOffset := pc.canvas.scroll.Offset()
	canvasX := float64(ev.Position.X + scrollOffset.X)
	canvasY := float64(ev.Position.Y + scrollOffset.Y)

	imgX, imgY, ok := pc.canvas.canvasToImage(canvasX, canvasY)
	if !ok {
		return
	}

	pc.canvas.probe = &image.Point{X: imgX, Y: imgY}
	pc.canvas.Refresh()
	if pc.canvas.onProbe != nil {
		pc.canvas.onProbe(imgX, imgY)
	}
}

// TappedSecondary clears the probe marker.
func (pc *probeContent) TappedSecondary(ev *fyne.PointEvent) {
	if pc.canvas.probe == nil {
		return
	}
	pc.canvas.probe = nil
	pc.canvas.Refresh()
}

type probeContentRenderer struct {
	content *probeContent
}

func (r *probeContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *probeContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *probeContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *probeContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *probeContentRenderer) Destroy() {}

// NewImageCanvas creates a new image canvas.
func NewImageCanvas() *ImageCanvas {
	ic := &ImageCanvas{
		zoom:    1.0,
		view:    ViewSideBySide,
		imgSize: fyne.NewSize(400, 300),
	}

	// Create the raster for drawing
	ic.raster = fynecanvas.NewRaster(ic.draw)
	ic.raster.ScaleMode = fynecanvas.ImageScalePixels
	ic.raster.SetMinSize(ic.imgSize)

	// Wrap raster in probe content for mouse events
	ic.content = newProbeContent(ic, ic.raster)

	// Create zoomable scroll container (wheel = zoom, drag = pan)
	ic.scroll = newZoomScroll(ic.content, ic)

	ic.ExtendBaseWidget(ic)
	return ic
}

// Container returns the canvas container for embedding in layouts.
func (ic *ImageCanvas) Container() fyne.CanvasObject {
	return ic.scroll
}

// SetImages sets the source image and its simulated rendition. The probe
// marker is cleared because its pixel no longer exists.
func (ic *ImageCanvas) SetImages(source, simulated *image.RGBA) {
	ic.source = source
	ic.simulated = simulated
	ic.probe = nil
	ic.updateContentSize()
}

// SetSimulated replaces just the simulated rendition.
func (ic *ImageCanvas) SetSimulated(simulated *image.RGBA) {
	ic.simulated = simulated
	ic.raster.Refresh()
}

// SetView switches between single and side-by-side display.
func (ic *ImageCanvas) SetView(view ViewMode) {
	if ic.view == view {
		return
	}
	ic.view = view
	ic.updateContentSize()
	if ic.fitToWindow {
		ic.FitToWindow()
	}
}

// GetView returns the current view mode.
func (ic *ImageCanvas) GetView() ViewMode {
	return ic.view
}

// SetZoom sets the zoom level.
func (ic *ImageCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	ic.zoom = zoom
	ic.updateContentSize()

	if ic.onZoomChange != nil {
		ic.onZoomChange(zoom)
	}
}

// GetZoom returns the current zoom level.
func (ic *ImageCanvas) GetZoom() float64 {
	return ic.zoom
}

// ZoomIn increases the zoom level.
func (ic *ImageCanvas) ZoomIn() {
	ic.SetZoom(ic.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (ic *ImageCanvas) ZoomOut() {
	ic.SetZoom(ic.zoom / zoomStep)
}

// FitToWindow adjusts zoom to fit the content in the visible area.
func (ic *ImageCanvas) FitToWindow() {
	imgW, imgH := ic.imageSize()
	if imgW == 0 || imgH == 0 {
		return
	}

	// Get viewport size
	viewSize := ic.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}

	totalW := imgW
	if ic.splitActive() {
		totalW = imgW * 2
	}

	// Calculate zoom to fit both dimensions
	zoomX := float64(viewSize.Width-splitGap) / float64(totalW)
	zoomY := float64(viewSize.Height) / float64(imgH)

	zoom := zoomX
	if zoomY < zoomX {
		zoom = zoomY
	}

	ic.SetZoom(zoom * 0.95) // Leave a small margin
}

// SetFitToWindow enables or disables auto-fit on resize.
func (ic *ImageCanvas) SetFitToWindow(fit bool) {
	ic.fitToWindow = fit
	if fit {
		ic.FitToWindow()
	}
}

// GetFitToWindow returns the current fit-to-window state.
func (ic *ImageCanvas) GetFitToWindow() bool {
	return ic.fitToWindow
}

// CheckResize checks if scroll container was resized and auto-fits if enabled.
func (ic *ImageCanvas) CheckResize(size fyne.Size) {
	if !ic.fitToWindow {
		return
	}
	if size.Width > 0 && size.Height > 0 && size != ic.lastScrollSize {
		ic.lastScrollSize = size
		ic.FitToWindow()
	}
}

// OnZoomChange sets a callback for zoom changes.
func (ic *ImageCanvas) OnZoomChange(callback func(zoom float64)) {
	ic.onZoomChange = callback
}

// OnProbe sets a callback for pixel probe taps.
// Coordinates are in image space (not zoomed).
func (ic *ImageCanvas) OnProbe(callback func(x, y int)) {
	ic.onProbe = callback
}

// Refresh refreshes the canvas display.
func (ic *ImageCanvas) Refresh() {
	ic.raster.Refresh()
}

// imageSize returns the source image dimensions, falling back to the
// simulated buffer when only that is set.
func (ic *ImageCanvas) imageSize() (w, h int) {
	if ic.source != nil {
		b := ic.source.Bounds()
		return b.Dx(), b.Dy()
	}
	if ic.simulated != nil {
		b := ic.simulated.Bounds()
		return b.Dx(), b.Dy()
	}
	return 0, 0
}

// splitActive reports whether two panes are currently shown.
func (ic *ImageCanvas) splitActive() bool {
	return ic.view == ViewSideBySide && ic.source != nil && ic.simulated != nil
}

// visiblePanes returns the buffers for the left and right panes. The
// right pane is nil in single view.
func (ic *ImageCanvas) visiblePanes() (left, right *image.RGBA) {
	switch ic.view {
	case ViewOriginal:
		return ic.source, nil
	case ViewSideBySide:
		if ic.simulated == nil {
			return ic.source, nil
		}
		return ic.source, ic.simulated
	default:
		if ic.simulated == nil {
			// Nothing simulated yet, show the source
			return ic.source, nil
		}
		return ic.simulated, nil
	}
}

// paneWidth returns the scaled width of one pane in canvas pixels.
func (ic *ImageCanvas) paneWidth() int {
	imgW, _ := ic.imageSize()
	return int(float64(imgW) * ic.zoom)
}

// canvasToImage converts canvas coordinates to image coordinates,
// accounting for the pane layout. Returns false outside the image.
func (ic *ImageCanvas) canvasToImage(canvasX, canvasY float64) (imgX, imgY int, ok bool) {
	imgW, imgH := ic.imageSize()
	if imgW == 0 || imgH == 0 {
		return 0, 0, false
	}

	if ic.splitActive() {
		paneW := float64(ic.paneWidth())
		if canvasX >= paneW+splitGap {
			canvasX -= paneW + splitGap
		} else if canvasX >= paneW {
			// On the divider
			return 0, 0, false
		}
	}

	imgX = int(canvasX / ic.zoom)
	imgY = int(canvasY / ic.zoom)
	if imgX < 0 || imgX >= imgW || imgY < 0 || imgY >= imgH {
		return 0, 0, false
	}
	return imgX, imgY, true
}

// updateContentSize updates the content size based on image, view, and zoom.
func (ic *ImageCanvas) updateContentSize() {
	imgW, imgH := ic.imageSize()
	if imgW == 0 || imgH == 0 {
		ic.imgSize = fyne.NewSize(400, 300)
	} else {
		width := float32(float64(imgW) * ic.zoom)
		if ic.splitActive() {
			width = width*2 + splitGap
		}
		height := float32(float64(imgH) * ic.zoom)
		ic.imgSize = fyne.NewSize(width, height)
	}

	ic.raster.SetMinSize(ic.imgSize)
	ic.raster.Resize(ic.imgSize)
	if ic.content != nil {
		ic.content.Resize(ic.imgSize)
		ic.content.Refresh()
	}
	ic.raster.Refresh()
	if ic.scroll != nil {
		ic.scroll.Refresh()
	}
}

// draw is the raster drawing function.
func (ic *ImageCanvas) draw(w, h int) image.Image {
	// Check for size change and auto-fit if enabled
	currentSize := fyne.NewSize(float32(w), float32(h))
	if ic.fitToWindow && currentSize != ic.lastScrollSize && w > 0 && h > 0 {
		ic.lastScrollSize = currentSize
		// Schedule fit after this draw completes
		go func() {
			ic.FitToWindow()
		}()
	}

	output := image.NewRGBA(image.Rect(0, 0, w, h))

	// Fill with black background (set alpha channel)
	for i := 3; i < len(output.Pix); i += 4 {
		output.Pix[i] = 255
	}

	left, right := ic.visiblePanes()
	if left == nil {
		return output
	}

	ic.drawPane(output, left, 0, w, h)
	if right != nil {
		paneW := ic.paneWidth()
		ic.drawPane(output, right, paneW+splitGap, w, h)
		ic.drawPaneCaptions(output, paneW)
	}

	if ic.probe != nil {
		ic.drawProbeMarker(output, right != nil)
	}

	return output
}

// drawPane draws one buffer scaled by zoom with its left edge at originX.
func (ic *ImageCanvas) drawPane(output *image.RGBA, src *image.RGBA, originX, w, h int) {
	srcBounds := src.Bounds()

	for y := 0; y < h; y++ {
		srcY := srcBounds.Min.Y + int(float64(y)/ic.zoom)
		if srcY >= srcBounds.Max.Y {
			break
		}
		for x := originX; x < w; x++ {
			srcX := srcBounds.Min.X + int(float64(x-originX)/ic.zoom)
			if srcX >= srcBounds.Max.X {
				break
			}
			output.SetRGBA(x, y, src.RGBAAt(srcX, srcY))
		}
	}
}

// drawPaneCaptions labels the two panes so screenshots stay unambiguous.
func (ic *ImageCanvas) drawPaneCaptions(output *image.RGBA, paneW int) {
	drawLabel(output, "ORIGINAL", 8, 8, captionColor, 2)
	drawLabel(output, "SIMULATED", paneW+splitGap+8, 8, captionColor, 2)
}

// drawProbeMarker draws a crosshair on the probed pixel in every pane.
func (ic *ImageCanvas) drawProbeMarker(output *image.RGBA, split bool) {
	cx := int(float64(ic.probe.X) * ic.zoom)
	cy := int(float64(ic.probe.Y) * ic.zoom)

	drawCrosshair(output, cx, cy, probeColor)
	if split {
		drawCrosshair(output, ic.paneWidth()+splitGap+cx, cy, probeColor)
	}
}

// CreateRenderer implements fyne.Widget.
func (ic *ImageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &imageCanvasRenderer{canvas: ic}
}

type imageCanvasRenderer struct {
	canvas *ImageCanvas
}

func (r *imageCanvasRenderer) Layout(size fyne.Size) {
	if r.canvas.scroll != nil {
		r.canvas.scroll.Resize(size)
	} else if r.canvas.content != nil {
		r.canvas.content.Resize(size)
	}
	// Check for resize and auto-fit if enabled
	r.canvas.CheckResize(size)
}

func (r *imageCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *imageCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *imageCanvasRenderer) Objects() []fyne.CanvasObject {
	if r.canvas.scroll != nil {
		return []fyne.CanvasObject{r.canvas.scroll}
	}
	return []fyne.CanvasObject{r.canvas.content}
}

func (r *imageCanvasRenderer) Destroy() {}
