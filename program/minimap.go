package main

import (
	"math"
	"strings"

	styles "github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	curveRows         = 3
	minimapKeyStep    = 0.2
	indicatorRows     = 1
	viewportHighlight = 0.2
)

type densityKey struct {
	events int
	width  float64
	bins   int
}

// MiniMap shows the event density across the whole time domain and a
// viewport indicator for the slice of the rail that is currently visible.
// All state derives from the events, its width and the last rail metrics,
// so every update recomputes from scratch.
type MiniMap struct {
	opts        DensityOptions
	minViewport float64
	cellPx      float64
	rows        int
	neon, bg    colorful.Color
	curve       bool
	focused     bool

	events      []TimelineEvent
	eventsGen   int
	binOverride int

	cols    int
	width   float64
	density Density
	key     densityKey
	binned  bool

	rawMetrics ScrollMetrics
	rect       ViewportRect

	dragging   bool
	dragOffset float64

	metrics *widgetMetrics
}

func newMiniMap(cfg Config, metrics *widgetMetrics) *MiniMap {
	neon, _ := colorful.Hex(cfg.Neon)
	bg, _ := colorful.Hex(cfg.Background)
	cellPx := float64(cfg.CellPx)
	return &MiniMap{
		opts:        cfg.Heatmap,
		minViewport: cfg.MinViewportWidth,
		cellPx:      cellPx,
		rows:        max(1, int(math.Round(float64(cfg.MinimapHeight)/(2*cellPx)))),
		neon:        neon,
		bg:          bg,
		curve:       cfg.Curve,
		binOverride: cfg.BinCount,
		metrics:     metrics,
	}
}

// SetEvents replaces the event set. Callers pass the same sorted slice they
// give the rail.
func (m *MiniMap) SetEvents(sorted []TimelineEvent) {
	m.events = sorted
	m.eventsGen++
	m.rebin()
}

func (m *MiniMap) SetBinCount(n int) {
	m.binOverride = max(0, n)
	m.rebin()
}

// Resize sets the width in terminal cells and re-syncs against the rail's
// current metrics. It re-bins only when the pixel width changed.
func (m *MiniMap) Resize(cols int, metrics ScrollMetrics) {
	m.cols = max(0, cols)
	m.width = float64(m.cols) * m.cellPx
	m.rebin()
	m.Sync(metrics)
}

func (m *MiniMap) rebin() {
	if m.width <= 0 {
		return
	}
	key := densityKey{events: m.eventsGen, width: m.width, bins: m.binOverride}
	if m.binned && key == m.key {
		return
	}
	m.density = ComputeDensity(m.events, m.width, m.binOverride, m.opts)
	m.key = key
	m.binned = true
	m.metrics.observeRebin()
	logger.Debug("minimap rebinned", "events", len(m.events), "width", m.width, "bins", m.density.Bins())
}

// Sync recomputes the viewport rect from the rail's current metrics.
func (m *MiniMap) Sync(metrics ScrollMetrics) {
	m.rawMetrics = metrics
	m.rect = ViewportFor(metrics, m.width, m.minViewport)
	m.metrics.observeSync()
}

func (m *MiniMap) Viewport() ViewportRect { return m.rect }
func (m *MiniMap) Width() float64         { return m.width }
func (m *MiniMap) Density() Density       { return m.density }
func (m *MiniMap) Dragging() bool         { return m.dragging }

func (m *MiniMap) navigateRect(rectLeft float64) NavigateTo {
	return NavigateTo{Left: ScrollLeftForRect(rectLeft, m.width, m.rawMetrics), Smooth: true}
}

// PointerDown handles a press at minimap x (pixels). Outside the rect it
// centres the viewport under x; inside it starts a drag.
func (m *MiniMap) PointerDown(x float64) (NavigateTo, bool) {
	if m.width <= 0 {
		return NavigateTo{}, false
	}
	if m.rect.Contains(x) {
		m.dragging = true
		m.dragOffset = x - m.rect.Left
		return NavigateTo{}, false
	}
	return m.navigateRect(x - m.rect.Width/2), true
}

// PointerMove keeps the grab offset under the pointer while dragging.
func (m *MiniMap) PointerMove(x float64) (NavigateTo, bool) {
	if !m.dragging {
		return NavigateTo{}, false
	}
	return m.navigateRect(x - m.dragOffset), true
}

func (m *MiniMap) PointerUp() {
	m.dragging = false
}

// Step scrolls by a fifth of the visible width in dir, starting from the
// rail's pending target so repeated presses accumulate mid-animation.
func (m *MiniMap) Step(from float64, dir int) NavigateTo {
	left := from + float64(dir)*minimapKeyStep*m.rawMetrics.ClientWidth
	return NavigateTo{Left: m.rawMetrics.Clamp(left), Smooth: true}
}

// CellToPx maps a terminal column to the centre of that column in pixels.
func (m *MiniMap) CellToPx(col int) float64 {
	return (float64(col) + 0.5) * m.cellPx
}

// Height returns the rendered height in rows.
func (m *MiniMap) Height() int {
	h := m.rows + indicatorRows
	if m.curve {
		h += curveRows
	}
	return h
}

func (m *MiniMap) ToggleCurve() { m.curve = !m.curve }

func (m *MiniMap) rectCols() (int, int) {
	first := int(math.Floor(m.rect.Left / m.cellPx))
	last := int(math.Ceil(m.rect.Right()/m.cellPx)) - 1
	return max(0, first), min(m.cols-1, last)
}

func (m *MiniMap) View() string {
	if m.width <= 0 || m.cols <= 0 {
		return ""
	}
	alphas := m.density.ColumnAlphas(m.cols, m.opts)
	first, last := m.rectCols()

	var heat strings.Builder
	for c, a := range alphas {
		if c >= first && c <= last {
			a = min(1, a+viewportHighlight)
		}
		color := m.bg.BlendRgb(m.neon, a).Clamped().Hex()
		heat.WriteString(styles.NewStyle().Foreground(styles.Color(color)).Render("█"))
	}
	row := heat.String()
	lines := make([]string, 0, m.Height())
	if m.curve {
		lines = append(lines, m.curveView())
	}
	for i := 0; i < m.rows; i++ {
		lines = append(lines, row)
	}

	indicator := styles.NewStyle().Foreground(styles.Color(m.neon.Hex()))
	if m.focused {
		indicator = indicator.Bold(true)
	}
	var ind strings.Builder
	ind.WriteString(borderFg.Render(strings.Repeat("─", first)))
	if last >= first {
		glyph := "▔"
		if m.focused {
			glyph = "▀"
		}
		ind.WriteString(indicator.Render(strings.Repeat(glyph, last-first+1)))
	}
	ind.WriteString(borderFg.Render(strings.Repeat("─", max(0, m.cols-last-1))))
	lines = append(lines, ind.String())
	return strings.Join(lines, "\n")
}

func (m *MiniMap) curveView() string {
	p := plot.NewCanvas(m.cols, curveRows)
	p.NumDataPoints = max(2, len(m.density.Smoothed))
	p.ShowAxis = false
	if styles.DefaultRenderer().HasDarkBackground() {
		p.LineColors = []plot.Color{plot.Red}
	} else {
		p.LineColors = []plot.Color{plot.Black}
	}
	p.Fill([][]float64{m.density.Smoothed})
	return strings.TrimRight(p.String(), "\n")
}
