package scope

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/fluidlab/godaq/pkg/history"
	"github.com/fluidlab/godaq/pkg/stream"
)

// ScopeWidget is a custom Fyne widget that displays all sensor channels as
// scrolling oscillogram traces. Channels carry different units (bar, g/s,
// degC), so each trace is normalized to its own min/max range; the legend
// shows the latest physical value per channel.
type ScopeWidget struct {
	widget.BaseWidget

	names []string

	// Data (protected by mu)
	mu      sync.RWMutex
	records []stream.Record
	faults  uint64

	// Display buffer (reused for downsampling)
	display []stream.Record

	// Per-channel auto-scaling
	chMin, chMax []float32

	// X range in device milliseconds relative to the first displayed record
	spanMs float64

	// Display settings
	maxDisplayPoints int
	minWindowMs      float64
}

// New creates a new ScopeWidget for the given channel names. windowSeconds
// fixes the minimum time span of the X axis; maxPoints limits how many
// records are rendered.
func New(names []string, windowSeconds float64, maxPoints int) *ScopeWidget {
	s := &ScopeWidget{
		names:            names,
		records:          make([]stream.Record, 0),
		display:          make([]stream.Record, 0, maxPoints),
		chMin:            make([]float32, len(names)),
		chMax:            make([]float32, len(names)),
		maxDisplayPoints: maxPoints,
		minWindowMs:      windowSeconds * 1000,
	}
	s.ExtendBaseWidget(s)
	// Trigger initial refresh to display empty scope
	s.Refresh()
	return s
}

// UpdateData updates the widget with new records.
// This should be called from the history callback using fyne.Do().
func (s *ScopeWidget) UpdateData(records []stream.Record, faults uint64) {
	s.mu.Lock()

	// Downsample for display (reuses the buffer)
	s.display = history.Downsample(s.display, records, s.maxDisplayPoints)
	s.records = records
	s.faults = faults

	s.updateAutoScale()

	s.mu.Unlock()

	// Refresh the widget (must be outside lock to avoid potential deadlock)
	s.Refresh()
}

// updateAutoScale recalculates per-channel Y ranges and the X span.
func (s *ScopeWidget) updateAutoScale() {
	if len(s.display) == 0 {
		for i := range s.chMin {
			s.chMin[i] = 0
			s.chMax[i] = 1
		}
		s.spanMs = s.minWindowMs
		return
	}

	for ch := range s.names {
		first := true
		for _, rec := range s.display {
			if ch >= len(rec.Sample.Values) || rec.Sample.Faulted(ch) {
				continue
			}
			v := rec.Sample.Values[ch]
			if first {
				s.chMin[ch], s.chMax[ch] = v, v
				first = false
				continue
			}
			if v < s.chMin[ch] {
				s.chMin[ch] = v
			}
			if v > s.chMax[ch] {
				s.chMax[ch] = v
			}
		}
		if first {
			s.chMin[ch], s.chMax[ch] = 0, 1
		}
		// 10% margin, never a zero-height range
		span := s.chMax[ch] - s.chMin[ch]
		if span == 0 {
			span = 1
		}
		s.chMin[ch] -= span * 0.1
		s.chMax[ch] += span * 0.1
	}

	// Modular subtraction keeps the span correct across millis wraparound.
	firstMs := s.display[0].Sample.Millis
	lastMs := s.display[len(s.display)-1].Sample.Millis
	s.spanMs = float64(lastMs - firstMs)
	if s.spanMs < s.minWindowMs {
		s.spanMs = s.minWindowMs
	}
}

// CreateRenderer creates the widget renderer.
func (s *ScopeWidget) CreateRenderer() fyne.WidgetRenderer {
	grid := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255}) // Dark background
	return &scopeRenderer{
		scope:    s,
		grid:     grid,
		objects:  []fyne.CanvasObject{grid},
		lastSize: fyne.Size{Width: 0, Height: 0},
	}
}
