package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tui "github.com/charmbracelet/bubbletea"
	styles "github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	overlayMaxWidth  = 72
	overlayMaxHeight = 20
	overlayChrome    = 4 // border plus padding, per axis
	overlayHeader    = 4
)

var shadowStyle = styles.NewStyle().Background(styles.Color("236"))

// detailOverlay previews one event in a modal. It exists only while open.
type detailOverlay struct {
	event  TimelineEvent
	accent string
	body   viewport.Model

	boxW, boxH int
	x, y       int
}

func newDetailOverlay(ev TimelineEvent, frameW, frameH int, neon string) *detailOverlay {
	accent := neon
	if c, ok := categoryColors[ev.Category]; ok {
		accent = c
	}
	boxW := max(20, min(overlayMaxWidth, frameW-4))
	boxH := max(overlayHeader+overlayChrome+1, min(overlayMaxHeight, frameH-2))
	innerW := boxW - overlayChrome

	body := viewport.New(innerW, boxH-overlayChrome-overlayHeader)
	body.SetContent(styles.NewStyle().Width(innerW).Render(ev.Summary))

	o := &detailOverlay{event: ev, accent: accent, body: body, boxW: boxW, boxH: boxH}
	o.x = max(0, (frameW-boxW)/2)
	o.y = max(0, (frameH-boxH)/2)
	return o
}

func (o *detailOverlay) Update(msg tui.Msg) tui.Cmd {
	var cmd tui.Cmd
	o.body, cmd = o.body.Update(msg)
	return cmd
}

// Contains reports whether a frame cell lies on the modal; clicks elsewhere
// hit the backdrop.
func (o *detailOverlay) Contains(col, row int) bool {
	return col >= o.x && col < o.x+o.boxW && row >= o.y && row < o.y+o.boxH
}

func (o *detailOverlay) View() string {
	innerW := o.boxW - overlayChrome
	accent := styles.NewStyle().Foreground(styles.Color(o.accent))
	meta := o.event.Date.Format("Monday, 2 January 2006")
	if o.event.Category != CategoryNone {
		meta += " · " + accent.Render(string(o.event.Category))
	}
	tags := dimFg.Render("no tags")
	if len(o.event.Tags) > 0 {
		tags = dimFg.Render("#" + strings.Join(o.event.Tags, " #"))
	}
	image := dimFg.Render("no image")
	if o.event.Image != "" {
		image = dimFg.Render("image: " + o.event.Image)
	}
	lines := []string{
		ansi.Truncate(accent.Bold(true).Render(o.event.Title), innerW, "…"),
		ansi.Truncate(meta, innerW, "…"),
		ansi.Truncate(tags, innerW, "…"),
		ansi.Truncate(image, innerW, "…"),
		o.body.View(),
	}
	return styles.NewStyle().
		Border(styles.RoundedBorder()).
		BorderForeground(styles.Color(o.accent)).
		Padding(0, 1).
		Width(o.boxW - 2).
		Height(o.boxH - 2).
		Render(strings.Join(lines, "\n"))
}

// overlayCenter draws fg in the middle of bg, which is w x h cells.
func overlayCenter(bg, fg string, w, h int) string {
	bgLines := splitLinesN(bg, h)
	fgLines := strings.Split(fg, "\n")
	fgW := 0
	for _, ln := range fgLines {
		fgW = max(fgW, ansi.StringWidth(ln))
	}
	fgW = min(fgW, w)
	fgH := min(len(fgLines), h)
	if fgW <= 0 || fgH <= 0 {
		return strings.Join(bgLines, "\n")
	}
	x := max(0, (w-fgW)/2)
	y := max(0, (h-fgH)/2)

	shadowLine := shadowStyle.Render(strings.Repeat(" ", fgW))
	shadow := make([]string, fgH)
	for i := range shadow {
		shadow[i] = shadowLine
	}
	overlayAt(bgLines, shadow, w, x+1, y+1, fgW)
	overlayAt(bgLines, fgLines[:fgH], w, x, y, fgW)
	return strings.Join(bgLines, "\n")
}

func overlayAt(bgLines, fgLines []string, w, x, y, fgW int) {
	for i := 0; i < len(fgLines) && y+i < len(bgLines); i++ {
		bgLine := bgLines[y+i]
		if pad := w - ansi.StringWidth(bgLine); pad > 0 {
			bgLine += strings.Repeat(" ", pad)
		}
		fgLine := ansi.Truncate(fgLines[i], fgW, "")
		if pad := fgW - ansi.StringWidth(fgLine); pad > 0 {
			fgLine += strings.Repeat(" ", pad)
		}
		right := min(w, x+fgW)
		bgLines[y+i] = ansi.Cut(bgLine, 0, x) + fgLine + ansi.Cut(bgLine, right, w)
	}
}

func splitLinesN(s string, n int) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		return lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return lines
}
