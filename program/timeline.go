package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tui "github.com/charmbracelet/bubbletea"
	styles "github.com/charmbracelet/lipgloss"
	"github.com/keilerkonzept/topk/heap"
)

var (
	selectedColor = styles.AdaptiveColor{Light: "0", Dark: "9"}
	borderColor   = styles.AdaptiveColor{Light: "#555", Dark: "#555"}
	dimColor      = styles.AdaptiveColor{Light: "#777", Dark: "#888"}
	selectedFg    = styles.NewStyle().Foreground(selectedColor)
	borderFg      = styles.NewStyle().Foreground(borderColor)
	dimFg         = styles.NewStyle().Foreground(dimColor)
	yearFg        = styles.NewStyle().Bold(true)
	errStyle      = styles.NewStyle().Foreground(styles.AdaptiveColor{Light: "1", Dark: "9"})
	panelStyle    = styles.NewStyle().
			Border(styles.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)
)

type focusTarget int

const (
	focusRail focusTarget = iota
	focusMiniMap
)

func (f focusTarget) String() string {
	if f == focusMiniMap {
		return "minimap"
	}
	return "rail"
}

type eventsLoadedMsg struct{ events []TimelineEvent }

type errMsg struct{ err error }

// Timeline is the single owner of the rail and the minimap. The rail reports
// ScrollChanged, the minimap asks for NavigateTo, and every applied scroll
// change is resolved into exactly one minimap sync.
type Timeline struct {
	cfg    Config
	source func() ([]TimelineEvent, error)

	width, height int
	focus         focusTarget
	showStats     bool
	err           error

	events  []TimelineEvent
	tags    TagInsights
	rail    *Rail
	minimap *MiniMap
	overlay *detailOverlay
	picker  *yearPicker
	help    help.Model

	metrics *widgetMetrics
}

func newTimeline(cfg Config, source func() ([]TimelineEvent, error)) *Timeline {
	metrics := newWidgetMetrics(cfg.StatsWindow)
	patterns := NewPatternSelector(cfg.Seed)
	return &Timeline{
		cfg:       cfg,
		source:    source,
		showStats: cfg.Stats,
		rail:      newRail(cfg, patterns),
		minimap:   newMiniMap(cfg, metrics),
		help:      help.New(),
		metrics:   metrics,
	}
}

func (m *Timeline) loadEvents() tui.Cmd {
	return func() tui.Msg {
		events, err := m.source()
		if err != nil {
			return errMsg{err}
		}
		return eventsLoadedMsg{events}
	}
}

func (m *Timeline) Init() tui.Cmd {
	if m.source == nil {
		return nil
	}
	return m.loadEvents()
}

// SetEvents sorts once and hands the same slice to both widgets.
func (m *Timeline) SetEvents(events []TimelineEvent) {
	m.events = SortEvents(events)
	m.tags = ComputeTagInsights(m.events, m.cfg.TopTags, m.cfg.TrendWindowYears)
	m.minimap.SetEvents(m.events)
	m.applyScroll(m.rail.SetEvents(m.events))
	m.overlay, m.picker = nil, nil
	logger.Info("events loaded", "events", len(m.events), "groups", len(m.rail.Groups()))
}

func (m *Timeline) applyScroll(sc ScrollChanged) {
	m.minimap.Sync(ScrollMetrics(sc))
}

func (m *Timeline) navigate(nav NavigateTo) tui.Cmd {
	m.metrics.observeNavigate()
	sc, changed, cmd := m.rail.ScrollTo(nav.Left, nav.Smooth)
	if changed {
		m.applyScroll(sc)
	}
	logger.Debug("navigate", "left", nav.Left, "smooth", nav.Smooth, "target", m.rail.Target())
	return cmd
}

func (m *Timeline) scrollBy(dir int) tui.Cmd {
	sc, changed, cmd := m.rail.ScrollBy(dir)
	if changed {
		m.applyScroll(sc)
	}
	return cmd
}

func (m *Timeline) resize(w, h int) {
	m.width, m.height = w, h
	sc := m.rail.Resize(w)
	m.minimap.Resize(w, ScrollMetrics(sc))
	m.help.Width = w
	logger.Debug("resize", "cols", w, "rows", h)
}

func (m *Timeline) setFocus(f focusTarget) {
	m.focus = f
	m.minimap.focused = f == focusMiniMap
}

func (m *Timeline) minimapTop() int { return 1 }
func (m *Timeline) railTop() int    { return m.minimapTop() + m.minimap.Height() + 1 }

func (m *Timeline) openDetail(ev TimelineEvent) {
	m.overlay = newDetailOverlay(ev, m.width, m.height, m.cfg.Neon)
	m.minimap.PointerUp()
}

func (m *Timeline) Update(msg tui.Msg) (tui.Model, tui.Cmd) {
	switch msg := msg.(type) {
	case eventsLoadedMsg:
		m.SetEvents(msg.events)
		return m, nil
	case errMsg:
		m.err = msg.err
		logger.Error("load failed", "err", msg.err)
		return m, nil
	case tui.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case railFrameMsg:
		sc, changed, cmd := m.rail.frame(msg)
		if changed {
			m.metrics.observeFrame()
			m.applyScroll(sc)
		}
		return m, cmd
	case tui.KeyMsg:
		return m, m.handleKey(msg)
	case tui.MouseMsg:
		return m, m.handleMouse(msg)
	}
	return m, nil
}

func (m *Timeline) handleKey(msg tui.KeyMsg) tui.Cmd {
	if key.Matches(msg, keys.ForceQuit) {
		return tui.Quit
	}
	if m.overlay != nil {
		if key.Matches(msg, keys.Close) || key.Matches(msg, keys.Quit) {
			m.overlay = nil
			return nil
		}
		return m.overlay.Update(msg)
	}
	if m.picker != nil {
		if key.Matches(msg, keys.Close) && m.picker.Closable() {
			m.picker = nil
			return nil
		}
		group, chosen, cmd := m.picker.Update(msg)
		if chosen {
			m.picker = nil
			return m.navigate(NavigateTo{Left: m.rail.GroupLeft(group), Smooth: true})
		}
		return cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return tui.Quit
	case key.Matches(msg, keys.Focus):
		m.setFocus((m.focus + 1) % 2)
	case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
		dir := 1
		if key.Matches(msg, keys.Left) {
			dir = -1
		}
		if m.focus == focusMiniMap {
			return m.navigate(m.minimap.Step(m.rail.Target(), dir))
		}
		return m.scrollBy(dir)
	case key.Matches(msg, keys.ZoomIn):
		m.applyScroll(m.rail.SetZoom(m.rail.Zoom() + zoomStep))
	case key.Matches(msg, keys.ZoomOut):
		m.applyScroll(m.rail.SetZoom(m.rail.Zoom() - zoomStep))
	case key.Matches(msg, keys.ZoomReset):
		m.applyScroll(m.rail.SetZoom(defaultZoom))
	case key.Matches(msg, keys.Open):
		if ev, ok := m.rail.FirstVisible(); ok {
			m.openDetail(ev)
		}
	case key.Matches(msg, keys.Years):
		if len(m.rail.Groups()) > 0 {
			m.picker = newYearPicker(m.rail.Groups(), m.width, m.height)
		}
	case key.Matches(msg, keys.Curve):
		m.minimap.ToggleCurve()
	case key.Matches(msg, keys.Stats):
		m.showStats = !m.showStats
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func (m *Timeline) handleMouse(msg tui.MouseMsg) tui.Cmd {
	press := msg.Action == tui.MouseActionPress && msg.Button == tui.MouseButtonLeft

	if m.overlay != nil {
		if press && !m.overlay.Contains(msg.X, msg.Y) {
			m.overlay = nil
			return nil
		}
		return m.overlay.Update(msg)
	}
	if m.picker != nil {
		return nil
	}

	// An active drag keeps receiving motion wherever the pointer goes.
	if m.minimap.Dragging() {
		switch msg.Action {
		case tui.MouseActionRelease:
			m.minimap.PointerUp()
		case tui.MouseActionMotion:
			if nav, ok := m.minimap.PointerMove(m.minimap.CellToPx(msg.X)); ok {
				return m.navigate(nav)
			}
		}
		return nil
	}

	switch msg.Button {
	case tui.MouseButtonWheelUp:
		return m.scrollBy(-1)
	case tui.MouseButtonWheelDown:
		return m.scrollBy(1)
	}
	if !press {
		return nil
	}

	mmTop := m.minimapTop()
	if msg.Y >= mmTop && msg.Y < mmTop+m.minimap.Height() {
		m.setFocus(focusMiniMap)
		if nav, ok := m.minimap.PointerDown(m.minimap.CellToPx(msg.X)); ok {
			return m.navigate(nav)
		}
		return nil
	}
	railTop := m.railTop()
	if msg.Y >= railTop && msg.Y < railTop+m.rail.Height() {
		m.setFocus(focusRail)
		if ev, ok := m.rail.HitTest(msg.X, msg.Y-railTop); ok {
			m.openDetail(ev)
		}
	}
	return nil
}

func (m *Timeline) View() string {
	start := time.Now()
	defer func() { m.metrics.observeRender(time.Since(start)) }()

	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	sections := []string{m.titleView(), m.minimap.View(), "", m.rail.View(), "", m.tagsView()}
	if m.err != nil {
		sections = append(sections, errStyle.Render("ERROR: "+m.err.Error()))
	}
	if m.showStats {
		sections = append(sections, m.statsView())
	}
	sections = append(sections, m.help.View(keys))
	frame := styles.JoinVertical(styles.Left, sections...)

	switch {
	case m.overlay != nil:
		frame = overlayCenter(frame, m.overlay.View(), m.width, m.height)
	case m.picker != nil:
		frame = overlayCenter(frame, m.picker.View(), m.width, m.height)
	}
	return frame
}

func (m *Timeline) titleView() string {
	parts := []string{selectedFg.Render("filmstrip"), fmt.Sprintf("%d events", len(m.events))}
	if n := len(m.events); n > 0 {
		parts = append(parts, fmt.Sprintf("%d–%d", m.events[0].Date.Year(), m.events[n-1].Date.Year()))
	}
	parts = append(parts,
		fmt.Sprintf("zoom %.1f×", m.rail.Zoom()),
		"focus: "+selectedFg.Render(m.focus.String()),
	)
	return strings.Join(parts, borderFg.Render(" · "))
}

func formatItems(items []heap.Item) string {
	if len(items) == 0 {
		return "-"
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = fmt.Sprintf("%s (%d)", item.Item, item.Count)
	}
	return strings.Join(out, " · ")
}

func (m *Timeline) tagsView() string {
	return dimFg.Render("top: ") + formatItems(m.tags.Top) +
		dimFg.Render("   trending: ") + formatItems(m.tags.Trending)
}

func (m *Timeline) statsView() string {
	snap := m.metrics.snapshot()
	vp := m.minimap.Viewport()
	rm := m.rail.Metrics()
	lines := []string{
		"WIDGET STATS",
		fmt.Sprintf("events: %d  groups: %d  bins: %d", len(m.events), len(m.rail.Groups()), m.minimap.Density().Bins()),
		fmt.Sprintf("rebins: %d  syncs: %d  navigations: %d  frames: %d", snap.rebins, snap.syncs, snap.navigations, snap.frames),
		fmt.Sprintf("render: last %s  avg %s  max %s", formatMetricDuration(snap.render.last), formatMetricDuration(snap.render.avg), formatMetricDuration(snap.render.max)),
		fmt.Sprintf("viewport: left %.0fpx width %.0fpx  scroll %.0f/%.0fpx", vp.Left, vp.Width, rm.Left, rm.MaxLeft()),
	}
	return errStyle.Render(strings.Join(lines, "\n"))
}

func formatMetricDuration(d time.Duration) string {
	if d <= 0 {
		return "0.000ms"
	}
	return fmt.Sprintf("%.3fms", float64(d)/float64(time.Millisecond))
}

type keyMap struct {
	Left      key.Binding
	Right     key.Binding
	Focus     key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	ZoomReset key.Binding
	Open      key.Binding
	Close     key.Binding
	Years     key.Binding
	Curve     key.Binding
	Stats     key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Left, k.Right, k.Focus, k.Open, k.Years, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Focus},
		{k.ZoomIn, k.ZoomOut, k.ZoomReset},
		{k.Open, k.Close, k.Years},
		{k.Curve, k.Stats, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "back"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "forward"),
	),
	Focus: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "rail/minimap"),
	),
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "zoom out"),
	),
	ZoomReset: key.NewBinding(
		key.WithKeys("0"),
		key.WithHelp("0", "reset zoom"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
	Years: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "years"),
	),
	Curve: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "density curve"),
	),
	Stats: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "stats"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}
