package scope

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"github.com/fluidlab/godaq/pkg/stream"
)

// tracePalette assigns a fixed color per channel index, wrapping around for
// larger channel tables.
var tracePalette = []color.RGBA{
	{R: 255, G: 165, B: 0, A: 255},   // Orange
	{R: 100, G: 200, B: 255, A: 255}, // Light blue
	{R: 120, G: 255, B: 120, A: 255}, // Green
	{R: 255, G: 100, B: 100, A: 255}, // Red
	{R: 220, G: 120, B: 255, A: 255}, // Purple
	{R: 255, G: 255, B: 120, A: 255}, // Yellow
}

// scopeRenderer renders the scope widget.
type scopeRenderer struct {
	scope *ScopeWidget

	// Background
	grid *canvas.Rectangle

	// Grid lines and labels
	gridLines []*canvas.Line
	gridTexts []*canvas.Text

	// Objects list for Fyne
	objects []fyne.CanvasObject

	// Track last size to detect changes
	lastSize fyne.Size
}

// MinSize returns the minimum size of the widget.
func (r *scopeRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

// Layout arranges the widget components.
func (r *scopeRenderer) Layout(size fyne.Size) {
	// Background fills entire widget
	r.grid.Resize(size)

	if r.lastSize.Width != size.Width || r.lastSize.Height != size.Height {
		r.lastSize = size
		// Size changed, redraw with new dimensions
		r.scope.BaseWidget.Refresh()
	}
}

// Refresh updates the widget display.
func (r *scopeRenderer) Refresh() {
	r.scope.mu.RLock()
	display := r.scope.display
	names := r.scope.names
	chMin := r.scope.chMin
	chMax := r.scope.chMax
	spanMs := r.scope.spanMs
	faults := r.scope.faults
	r.scope.mu.RUnlock()

	size := r.scope.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	// Clear old objects (but keep background)
	r.objects = []fyne.CanvasObject{r.grid}
	r.gridLines = r.gridLines[:0]
	r.gridTexts = r.gridTexts[:0]

	marginLeft := float32(20.0)
	marginRight := float32(20.0)
	marginTop := float32(20.0)
	marginBottom := float32(40.0)

	plotWidth := size.Width - marginLeft - marginRight
	plotHeight := size.Height - marginTop - marginBottom
	plotX := marginLeft
	plotY := marginTop

	r.drawGrid(plotX, plotY, plotWidth, plotHeight, spanMs)

	for ch := range names {
		r.drawTrace(plotX, plotY, plotWidth, plotHeight, display, ch, chMin[ch], chMax[ch], spanMs)
	}

	r.drawLegend(plotX, plotY, names, display)

	if faults > 0 {
		text := canvas.NewText("faults: "+strconv.FormatUint(faults, 10), color.RGBA{R: 255, G: 100, B: 100, A: 255})
		text.TextSize = 11
		text.Alignment = fyne.TextAlignTrailing
		text.Move(fyne.NewPos(plotX+plotWidth-10, plotY+5))
		r.objects = append(r.objects, text)
	}
}

// drawGrid draws the oscilloscope-style grid with time labels.
func (r *scopeRenderer) drawGrid(plotX, plotY, plotWidth, plotHeight float32, spanMs float64) {
	// Horizontal grid lines
	numHLines := 8
	for i := 0; i <= numHLines; i++ {
		y := plotY + float32(i)*plotHeight/float32(numHLines)
		line := canvas.NewLine(color.RGBA{R: 40, G: 40, B: 40, A: 255})
		line.Position1 = fyne.NewPos(plotX, y)
		line.Position2 = fyne.NewPos(plotX+plotWidth, y)
		line.StrokeWidth = 1
		r.gridLines = append(r.gridLines, line)
		r.objects = append(r.objects, line)
	}

	// Vertical grid lines with elapsed-time labels
	numVLines := 10
	for i := 0; i <= numVLines; i++ {
		x := plotX + float32(i)*plotWidth/float32(numVLines)
		line := canvas.NewLine(color.RGBA{R: 40, G: 40, B: 40, A: 255})
		line.Position1 = fyne.NewPos(x, plotY)
		line.Position2 = fyne.NewPos(x, plotY+plotHeight)
		line.StrokeWidth = 1
		r.gridLines = append(r.gridLines, line)
		r.objects = append(r.objects, line)

		seconds := float64(i) * spanMs / float64(numVLines) / 1000
		text := canvas.NewText(strconv.FormatFloat(seconds, 'f', 1, 64)+"s", color.RGBA{R: 150, G: 150, B: 150, A: 255})
		text.TextSize = 10
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(x-20, plotY+plotHeight+5))
		r.gridTexts = append(r.gridTexts, text)
		r.objects = append(r.objects, text)
	}
}

// drawTrace draws one channel's curve, normalized to its own Y range.
// Faulted points break the line so gaps are visible.
func (r *scopeRenderer) drawTrace(plotX, plotY, plotWidth, plotHeight float32, display []stream.Record, ch int, yMin, yMax float32, spanMs float64) {
	if len(display) < 2 || spanMs <= 0 {
		return
	}

	clr := tracePalette[ch%len(tracePalette)]
	firstMs := display[0].Sample.Millis

	var prev fyne.Position
	hasPrev := false
	for _, rec := range display {
		if ch >= len(rec.Sample.Values) || rec.Sample.Faulted(ch) {
			hasPrev = false
			continue
		}

		// Modular subtraction: correct across millis wraparound
		dx := float64(rec.Sample.Millis - firstMs)
		x := plotX + float32(dx/spanMs)*plotWidth
		y := plotY + plotHeight - (rec.Sample.Values[ch]-yMin)/(yMax-yMin)*plotHeight

		pos := fyne.NewPos(x, y)
		if hasPrev {
			line := canvas.NewLine(clr)
			line.Position1 = prev
			line.Position2 = pos
			line.StrokeWidth = 1.5
			r.objects = append(r.objects, line)
		}
		prev = pos
		hasPrev = true
	}
}

// drawLegend draws one label per channel with its latest value.
func (r *scopeRenderer) drawLegend(plotX, plotY float32, names []string, display []stream.Record) {
	for ch, name := range names {
		label := name
		if len(display) > 0 {
			last := display[len(display)-1]
			if ch < len(last.Sample.Values) {
				if last.Sample.Faulted(ch) {
					label += ": FAULT"
				} else {
					label += ": " + strconv.FormatFloat(float64(last.Sample.Values[ch]), 'f', 2, 32)
				}
			}
		}

		text := canvas.NewText(label, tracePalette[ch%len(tracePalette)])
		text.TextSize = 11
		text.Alignment = fyne.TextAlignLeading
		text.Move(fyne.NewPos(plotX+10, plotY+5+float32(ch)*14))
		r.objects = append(r.objects, text)
	}
}

// Objects returns all canvas objects for rendering.
func (r *scopeRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *scopeRenderer) Destroy() {
	// Cleanup handled by Fyne
}
