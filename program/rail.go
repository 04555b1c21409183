package main

import (
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"time"

	tui "github.com/charmbracelet/bubbletea"
	styles "github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	baseCardWidth = 220.0
	cardAspect    = 9.0 / 16.0
	railPadding   = 16.0
	cardGap       = 12.0
	groupGap      = 32.0
	minCardRows   = 6
	zoomStep      = 0.1
	scrollCards   = 2.5

	scrollFPS    = 60
	scrollEasing = 0.3
	scrollSnapPx = 0.5
)

var categoryColors = map[Category]string{
	CategoryMilestone:    "#f59e0b",
	CategoryBreakthrough: "#ef4444",
	CategoryRelease:      "#10b981",
	CategoryResearch:     "#3b82f6",
	CategoryControversy:  "#8b5cf6",
	CategoryAdoption:     "#06b6d4",
}

type cardBox struct {
	event int
	group int
	x, w  float64
}

type railFrameMsg struct{ gen int }

func railFrameCmd(gen int) tui.Cmd {
	return tui.Tick(time.Second/scrollFPS, func(time.Time) tui.Msg {
		return railFrameMsg{gen: gen}
	})
}

// Rail lays out year-grouped cards on a horizontal strip and owns the scroll
// position. Geometry is in pixels; cellPx converts to terminal columns.
type Rail struct {
	events []TimelineEvent
	gen    int
	groups []YearGroup
	cards  []cardBox
	firsts []int

	zoom       float64
	cellPx     float64
	maxRows    int
	neon       string
	background string
	smooth     bool

	cols        int
	clientWidth float64
	scrollWidth float64
	left        float64
	target      float64
	animGen     int
	animating   bool

	patterns  *PatternSelector
	backdrops map[string]Pattern

	strip    []string
	stripKey string
}

func newRail(cfg Config, patterns *PatternSelector) *Rail {
	cellPx := float64(cfg.CellPx)
	maxRows := 0
	if cfg.RailHeight > 0 {
		maxRows = max(minCardRows+1, int(math.Round(float64(cfg.RailHeight)/(2*cellPx))))
	}
	return &Rail{
		zoom:       cfg.Zoom,
		cellPx:     cellPx,
		maxRows:    maxRows,
		neon:       cfg.Neon,
		background: cfg.Background,
		smooth:     cfg.Smooth,
		patterns:   patterns,
		backdrops:  make(map[string]Pattern),
	}
}

// SetEvents lays out pre-sorted events and resets the scroll position.
func (r *Rail) SetEvents(sorted []TimelineEvent) ScrollChanged {
	r.events = sorted
	r.gen++
	r.groups = GroupByYear(sorted)
	for _, ev := range sorted {
		if _, ok := r.backdrops[ev.ID]; !ok {
			r.backdrops[ev.ID] = r.patterns.Next()
		}
	}
	r.layout()
	r.left, r.target = 0, 0
	r.cancelAnimation()
	return r.changed()
}

func (r *Rail) Groups() []YearGroup   { return r.groups }
func (r *Rail) Zoom() float64         { return r.zoom }
func (r *Rail) CardWidth() float64    { return baseCardWidth * r.zoom }
func (r *Rail) CardHeight() float64   { return r.CardWidth() * cardAspect }
func (r *Rail) Animating() bool       { return r.animating }
func (r *Rail) Target() float64       { return r.target }
func (r *Rail) Metrics() ScrollMetrics {
	return ScrollMetrics{Left: r.left, ClientWidth: r.clientWidth, ScrollWidth: r.scrollWidth}
}

func (r *Rail) changed() ScrollChanged { return ScrollChanged(r.Metrics()) }

func (r *Rail) layout() {
	r.cards = r.cards[:0]
	r.firsts = r.firsts[:0]
	w := r.CardWidth()
	x := railPadding
	idx := 0
	for g, group := range r.groups {
		if g > 0 {
			x += groupGap - cardGap
		}
		r.firsts = append(r.firsts, len(r.cards))
		for range group.Events {
			r.cards = append(r.cards, cardBox{event: idx, group: g, x: x, w: w})
			x += w + cardGap
			idx++
		}
	}
	if len(r.cards) > 0 {
		x -= cardGap
	}
	r.scrollWidth = x + railPadding
}

// Resize sets the visible width in columns and the available height.
func (r *Rail) Resize(cols int) ScrollChanged {
	r.cols = max(0, cols)
	r.clientWidth = float64(r.cols) * r.cellPx
	m := r.Metrics()
	r.left = m.Clamp(r.left)
	r.target = m.Clamp(r.target)
	return r.changed()
}

// SetZoom rescales the cards, keeping the same fraction of the strip at the
// left edge.
func (r *Rail) SetZoom(z float64) ScrollChanged {
	z = math.Round(min(maxZoom, max(minZoom, z))*10) / 10
	frac := 0.0
	if r.scrollWidth > 0 {
		frac = r.left / r.scrollWidth
	}
	r.zoom = z
	r.layout()
	r.left = r.Metrics().Clamp(frac * r.scrollWidth)
	r.target = r.left
	r.cancelAnimation()
	return r.changed()
}

func (r *Rail) cancelAnimation() {
	r.animGen++
	r.animating = false
}

// ScrollTo moves toward left, clamped to the scrollable range. Without
// smoothing the move applies at once and changed is true; with smoothing the
// returned command drives the animation frames.
func (r *Rail) ScrollTo(left float64, smooth bool) (sc ScrollChanged, changed bool, cmd tui.Cmd) {
	r.target = r.Metrics().Clamp(left)
	r.cancelAnimation()
	if !smooth || !r.smooth || r.target == r.left {
		moved := r.target != r.left
		r.left = r.target
		return r.changed(), moved, nil
	}
	r.animating = true
	return r.changed(), false, railFrameCmd(r.animGen)
}

// ScrollBy moves two and a half cards in dir.
func (r *Rail) ScrollBy(dir int) (ScrollChanged, bool, tui.Cmd) {
	return r.ScrollTo(r.target+float64(dir)*scrollCards*r.CardWidth(), true)
}

func (r *Rail) frame(msg railFrameMsg) (ScrollChanged, bool, tui.Cmd) {
	if msg.gen != r.animGen || !r.animating {
		return r.changed(), false, nil
	}
	d := r.target - r.left
	if math.Abs(d) < scrollSnapPx {
		r.left = r.target
		r.animating = false
		return r.changed(), true, nil
	}
	r.left += d * scrollEasing
	return r.changed(), true, railFrameCmd(r.animGen)
}

// Settle finishes any in-flight animation at its target.
func (r *Rail) Settle() ScrollChanged {
	r.left = r.target
	r.cancelAnimation()
	return r.changed()
}

// GroupLeft returns the scroll offset that puts group g's first card at the
// left edge.
func (r *Rail) GroupLeft(g int) float64 {
	if g < 0 || g >= len(r.firsts) {
		return r.left
	}
	return r.Metrics().Clamp(r.cards[r.firsts[g]].x - railPadding)
}

// FirstVisible returns the first card whose left edge lies in the viewport.
func (r *Rail) FirstVisible() (TimelineEvent, bool) {
	for _, c := range r.cards {
		if c.x >= r.left && c.x < r.left+r.clientWidth {
			return r.events[c.event], true
		}
	}
	for _, c := range r.cards {
		if c.x+c.w > r.left {
			return r.events[c.event], true
		}
	}
	return TimelineEvent{}, false
}

// cardRows is the card height in rows including its border.
func (r *Rail) cardRows() int {
	rows := max(minCardRows, int(math.Round(r.CardHeight()/(2*r.cellPx))))
	if r.maxRows > 0 {
		rows = min(rows, r.maxRows-1)
	}
	return rows
}

// Height is the header row plus one card.
func (r *Rail) Height() int {
	return 1 + r.cardRows()
}

// HitTest maps a click at (col,row) relative to the rail to its card.
func (r *Rail) HitTest(col, row int) (TimelineEvent, bool) {
	if row < 1 || row >= r.Height() || col < 0 || col >= r.cols {
		return TimelineEvent{}, false
	}
	x := r.left + (float64(col)+0.5)*r.cellPx
	for _, c := range r.cards {
		if x >= c.x && x < c.x+c.w {
			return r.events[c.event], true
		}
	}
	return TimelineEvent{}, false
}

func (r *Rail) toCol(px float64) int {
	return int(math.Round(px / r.cellPx))
}

func (r *Rail) renderStrip() []string {
	key := fmt.Sprintf("%d/%.2f/%.0f/%d", r.gen, r.zoom, r.cellPx, r.cardRows())
	if r.strip != nil && key == r.stripKey {
		return r.strip
	}
	rows := r.cardRows()
	lines := make([]string, rows+1)
	headerCol, cardCol := 0, 0
	wCols := max(4, r.toCol(r.CardWidth()))
	for i, c := range r.cards {
		start := r.toCol(c.x)
		if i > 0 {
			start = max(start, cardCol+1)
		}
		if r.firsts[c.group] == i {
			label := fmt.Sprintf("%d · %d", r.groups[c.group].Year, len(r.groups[c.group].Events))
			label = yearFg.Render(ansi.Truncate(label, wCols, "…"))
			lines[0] += strings.Repeat(" ", max(0, start-headerCol)) + label
			headerCol = start + ansi.StringWidth(label)
		}
		box := strings.Split(r.renderCard(r.events[c.event], wCols, rows), "\n")
		for j := 0; j < rows; j++ {
			line := ""
			if j < len(box) {
				line = box[j]
			}
			lines[j+1] += strings.Repeat(" ", start-cardCol) + line
		}
		cardCol = start + wCols
	}
	r.strip = lines
	r.stripKey = key
	return lines
}

func (r *Rail) renderCard(ev TimelineEvent, wCols, rows int) string {
	accent := r.neon
	if c, ok := categoryColors[ev.Category]; ok {
		accent = c
	}
	innerW, innerH := wCols-2, rows-2
	trunc := func(s string) string { return ansi.Truncate(s, innerW, "…") }

	header := ev.Date.Format("2006-01-02")
	if ev.Category != CategoryNone {
		header += " · " + styles.NewStyle().Foreground(styles.Color(accent)).Render(string(ev.Category))
	}
	content := []string{
		trunc(dimFg.Render(header)),
		trunc(styles.NewStyle().Bold(true).Render(ev.Title)),
	}
	if len(ev.Tags) > 0 {
		content = append(content, trunc(dimFg.Render("#"+strings.Join(ev.Tags, " #"))))
	}
	if len(content) > innerH {
		content = content[:innerH]
	}
	if rest := innerH - len(content); rest > 0 {
		pattern := r.backdrops[ev.ID]
		if pattern != nil {
			palette := Palette{Accent: accent, Background: r.background, Dim: "#333344"}
			content = append(content, pattern.Draw(innerW, rest, palette, seedFor(ev.ID))...)
		}
	}
	return styles.NewStyle().
		Border(styles.RoundedBorder()).
		BorderForeground(styles.Color(accent)).
		Width(innerW).
		Height(innerH).
		Render(strings.Join(content, "\n"))
}

func seedFor(id string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return h.Sum64()
}

func (r *Rail) View() string {
	if r.cols <= 0 {
		return ""
	}
	strip := r.renderStrip()
	from := r.toCol(r.left)
	out := make([]string, len(strip))
	for i, line := range strip {
		cut := ansi.Cut(line, from, from+r.cols)
		if pad := r.cols - ansi.StringWidth(cut); pad > 0 {
			cut += strings.Repeat(" ", pad)
		}
		out[i] = cut
	}
	return strings.Join(out, "\n")
}
