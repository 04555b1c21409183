package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tui "github.com/charmbracelet/bubbletea"
	styles "github.com/charmbracelet/lipgloss"
)

type yearItem struct {
	group int
	YearGroup
}

func (i yearItem) Title() string { return strconv.Itoa(i.Year) }
func (i yearItem) Description() string {
	noun := "events"
	if len(i.Events) == 1 {
		noun = "event"
	}
	return fmt.Sprintf("%d %s · %s", len(i.Events), noun, i.Events[0].Title)
}
func (i yearItem) FilterValue() string { return strconv.Itoa(i.Year) }

// yearPicker is a filterable list of year groups used to jump the rail.
type yearPicker struct {
	list list.Model
}

func newYearPicker(groups []YearGroup, frameW, frameH int) *yearPicker {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = styles.NewStyle().
		Border(styles.NormalBorder(), false, false, false, true).
		BorderForeground(borderColor).
		Foreground(selectedColor).
		Padding(0, 0, 0, 1)
	d.Styles.SelectedDesc = d.Styles.SelectedTitle

	items := make([]list.Item, len(groups))
	for i, g := range groups {
		items[i] = yearItem{group: i, YearGroup: g}
	}
	w := max(24, min(48, frameW-6))
	h := max(6, min(18, frameH-4))
	l := list.New(items, d, w, h)
	l.Title = "Jump to year"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.KeyMap.Quit.SetEnabled(false)
	return &yearPicker{list: l}
}

// Update returns the chosen group index once enter is pressed outside of
// filter editing.
func (p *yearPicker) Update(msg tui.Msg) (group int, chosen bool, cmd tui.Cmd) {
	if k, ok := msg.(tui.KeyMsg); ok && p.list.FilterState() != list.Filtering {
		if key.Matches(k, keys.Open) {
			if item, ok := p.list.SelectedItem().(yearItem); ok {
				return item.group, true, nil
			}
			return 0, false, nil
		}
	}
	p.list, cmd = p.list.Update(msg)
	return 0, false, cmd
}

// Closable reports whether esc should close the picker rather than clear a
// filter.
func (p *yearPicker) Closable() bool {
	return p.list.FilterState() == list.Unfiltered
}

func (p *yearPicker) View() string {
	return panelStyle.Render(p.list.View())
}
