package main

import (
	"strings"

	"github.com/keilerkonzept/topk"
	"github.com/keilerkonzept/topk/heap"
	"github.com/keilerkonzept/topk/sliding"
)

// Sketch dimensions for tag counting; tag vocabularies are small.
const (
	tagSketchWidth = 1024
	tagSketchDepth = 3
)

// TagInsights summarises which tags dominate the whole timeline and which
// dominate its most recent years.
type TagInsights struct {
	Top      []heap.Item
	Trending []heap.Item
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func eventTags(ev TimelineEvent) []string {
	tags := make([]string, 0, len(ev.Tags)+1)
	for _, tag := range ev.Tags {
		if tag = normalizeTag(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	if ev.Category != CategoryNone {
		tags = append(tags, string(ev.Category))
	}
	return tags
}

// ComputeTagInsights feeds pre-sorted events into an all-time sketch and a
// sliding sketch that advances one tick per calendar year.
func ComputeTagInsights(sorted []TimelineEvent, k, windowYears int) TagInsights {
	if len(sorted) == 0 || k < 1 {
		return TagInsights{}
	}
	windowYears = max(1, windowYears)
	all := topk.New(k,
		topk.WithWidth(tagSketchWidth),
		topk.WithDepth(tagSketchDepth),
	)
	window := sliding.New(k, windowYears,
		sliding.WithWidth(tagSketchWidth),
		sliding.WithDepth(tagSketchDepth),
	)

	lastYear := sorted[0].Date.Year()
	for _, ev := range sorted {
		if year := ev.Date.Year(); year > lastYear {
			window.Ticks(year - lastYear)
			lastYear = year
		}
		for _, tag := range eventTags(ev) {
			all.Incr(tag)
			window.Incr(tag)
		}
	}
	return TagInsights{
		Top:      nonZero(all.SortedSlice(), k),
		Trending: nonZero(window.SortedSlice(), k),
	}
}

func nonZero(items []heap.Item, k int) []heap.Item {
	out := make([]heap.Item, 0, min(k, len(items)))
	for _, item := range items {
		if item.Count == 0 || item.Item == "" {
			continue
		}
		out = append(out, item)
		if len(out) == k {
			break
		}
	}
	return out
}
