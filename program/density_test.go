package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventOn(t *testing.T, id, date string) TimelineEvent {
	t.Helper()
	d, err := parseDate(date)
	require.NoError(t, err)
	return TimelineEvent{ID: id, Date: d, Title: id}
}

func TestBinCount(t *testing.T) {
	tests := []struct {
		name     string
		width    float64
		override int
		expected int
	}{
		{name: "derived from width", width: 600, expected: 100},
		{name: "narrow clamps to min", width: 100, expected: 64},
		{name: "wide clamps to max", width: 3000, expected: 240},
		{name: "rounds", width: 999, expected: 167},
		{name: "zero width", width: 0, expected: 64},
		{name: "override wins", width: 600, override: 10, expected: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, defaultDensityOptions.BinCount(tt.width, tt.override))
		})
	}
}

func TestComputeDensityExample(t *testing.T) {
	events := []TimelineEvent{
		eventOn(t, "a", "2020-01-01"),
		eventOn(t, "b", "2021-06-15"),
		eventOn(t, "c", "2022-12-31"),
	}
	d := ComputeDensity(events, 600, 10, defaultDensityOptions)

	require.Equal(t, 10, d.Bins())
	span := d.End.Sub(d.Start)
	assert.Equal(t, 1095*24*time.Hour, span)
	assert.Equal(t, 0, binIndex(events[0].Date, d.Start, span, 10))
	// day 531 of 1095: floor(4.849)
	assert.Equal(t, 4, binIndex(events[1].Date, d.Start, span, 10))
	assert.Equal(t, 9, binIndex(events[2].Date, d.Start, span, 10))
	assert.Equal(t, []int{1, 0, 0, 0, 1, 0, 0, 0, 0, 1}, d.Raw)
	assert.Equal(t, []float64{0.5, 0.25, 0, 0.25, 0.5, 0.25, 0, 0, 0.25, 0.5}, d.Smoothed)
	assert.Equal(t, 0.5, d.Max)
}

func TestComputeDensityConservesMass(t *testing.T) {
	events := SortEvents(DemoEvents(250, 7))
	for _, width := range []float64{0, 120, 600, 1440, 4000} {
		d := ComputeDensity(events, width, 0, defaultDensityOptions)
		total := 0
		for _, v := range d.Raw {
			total += v
		}
		assert.Equal(t, len(events), total, "width %v", width)
	}
}

func TestSmoothingBound(t *testing.T) {
	events := SortEvents(DemoEvents(120, 3))
	d := ComputeDensity(events, 800, 0, defaultDensityOptions)
	for i, v := range d.Smoothed {
		var prev, next float64
		if i > 0 {
			prev = float64(d.Raw[i-1])
		}
		if i < len(d.Raw)-1 {
			next = float64(d.Raw[i+1])
		}
		assert.LessOrEqual(t, v, float64(d.Raw[i])+(prev+next)/2+1e-9, "bin %d", i)
	}
}

func TestComputeDensityDegenerate(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		d := ComputeDensity(nil, 600, 0, defaultDensityOptions)
		assert.Equal(t, 100, d.Bins())
		assert.Equal(t, time.Millisecond, d.End.Sub(d.Start))
		assert.Zero(t, d.Max)
		for _, v := range d.Raw {
			assert.Zero(t, v)
		}
	})
	t.Run("single event", func(t *testing.T) {
		d := ComputeDensity([]TimelineEvent{eventOn(t, "a", "2021-03-03")}, 600, 0, defaultDensityOptions)
		assert.Equal(t, make([]int, 100), d.Raw)
	})
	t.Run("all same date", func(t *testing.T) {
		events := []TimelineEvent{eventOn(t, "a", "2021-03-03"), eventOn(t, "b", "2021-03-03")}
		d := ComputeDensity(events, 600, 12, defaultDensityOptions)
		assert.Equal(t, make([]int, 12), d.Raw)
	})
}

func TestAlpha(t *testing.T) {
	o := defaultDensityOptions
	assert.Equal(t, o.AlphaFloor, o.Alpha(0, 4))
	assert.Equal(t, o.AlphaFloor, o.Alpha(3, 0))
	assert.InDelta(t, 0.9, o.Alpha(4, 4), 1e-9)
	// sparse bins are boosted above the linear ramp
	assert.Greater(t, o.Alpha(1, 4), o.AlphaFloor+0.25*o.AlphaRange)
}

func TestColumnAlphas(t *testing.T) {
	events := SortEvents(DemoEvents(80, 11))
	d := ComputeDensity(events, 800, 0, defaultDensityOptions)
	o := defaultDensityOptions

	alphas := d.ColumnAlphas(100, o)
	require.Len(t, alphas, 100)
	top := 0.0
	for _, a := range alphas {
		assert.GreaterOrEqual(t, a, o.AlphaFloor)
		assert.LessOrEqual(t, a, o.AlphaFloor+o.AlphaRange+1e-9)
		top = max(top, a)
	}
	assert.InDelta(t, o.AlphaFloor+o.AlphaRange, top, 1e-9)

	assert.Nil(t, d.ColumnAlphas(0, o))
	assert.Len(t, d.ColumnAlphas(500, o), 500)
}
