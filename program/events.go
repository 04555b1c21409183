package main

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type Category string

const (
	CategoryNone         Category = ""
	CategoryMilestone    Category = "milestone"
	CategoryBreakthrough Category = "breakthrough"
	CategoryRelease      Category = "release"
	CategoryResearch     Category = "research"
	CategoryControversy  Category = "controversy"
	CategoryAdoption     Category = "adoption"
)

var categories = []Category{
	CategoryMilestone,
	CategoryBreakthrough,
	CategoryRelease,
	CategoryResearch,
	CategoryControversy,
	CategoryAdoption,
}

func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CategoryNone, nil
	}
	for _, c := range categories {
		if string(c) == s {
			return c, nil
		}
	}
	return CategoryNone, fmt.Errorf("unknown category %q", s)
}

// TimelineEvent is immutable once loaded; components share the sorted slice.
type TimelineEvent struct {
	ID       string
	Date     time.Time
	Title    string
	Summary  string
	Category Category
	Tags     []string
	Image    string
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		t, err = time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
}

// SortEvents returns a copy ordered by date. Equal dates keep input order.
func SortEvents(events []TimelineEvent) []TimelineEvent {
	out := make([]TimelineEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

type YearGroup struct {
	Year   int
	Events []TimelineEvent
}

// GroupByYear buckets pre-sorted events by calendar year.
func GroupByYear(sorted []TimelineEvent) []YearGroup {
	var groups []YearGroup
	for _, ev := range sorted {
		year := ev.Date.Year()
		if n := len(groups); n > 0 && groups[n-1].Year == year {
			groups[n-1].Events = append(groups[n-1].Events, ev)
			continue
		}
		groups = append(groups, YearGroup{Year: year, Events: []TimelineEvent{ev}})
	}
	return groups
}
