package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewportFor(t *testing.T) {
	tests := []struct {
		name     string
		metrics  ScrollMetrics
		mapWidth float64
		expected ViewportRect
	}{
		{
			name:     "proportional slice",
			metrics:  ScrollMetrics{Left: 500, ClientWidth: 1000, ScrollWidth: 4000},
			mapWidth: 800,
			expected: ViewportRect{Left: 100, Width: 200},
		},
		{
			name:     "width floor on huge rails",
			metrics:  ScrollMetrics{Left: 0, ClientWidth: 10, ScrollWidth: 100000},
			mapWidth: 800,
			expected: ViewportRect{Left: 0, Width: 24},
		},
		{
			name:     "content fits",
			metrics:  ScrollMetrics{Left: 0, ClientWidth: 1000, ScrollWidth: 600},
			mapWidth: 800,
			expected: ViewportRect{Left: 0, Width: 800},
		},
		{
			name:     "content exactly fits",
			metrics:  ScrollMetrics{Left: 30, ClientWidth: 1000, ScrollWidth: 1000},
			mapWidth: 640,
			expected: ViewportRect{Left: 0, Width: 640},
		},
		{
			name:     "not laid out yet",
			metrics:  ScrollMetrics{},
			mapWidth: 800,
			expected: ViewportRect{Left: 0, Width: 800},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ViewportFor(tt.metrics, tt.mapWidth, 24)
			assert.InDelta(t, tt.expected.Left, got.Left, 1e-9)
			assert.InDelta(t, tt.expected.Width, got.Width, 1e-9)
		})
	}
}

func TestViewportWidthNeverBelowFloor(t *testing.T) {
	for _, client := range []float64{1, 5, 50, 500} {
		for _, scroll := range []float64{1000, 1e5, 1e7} {
			r := ViewportFor(ScrollMetrics{ClientWidth: client, ScrollWidth: scroll}, 800, 24)
			assert.GreaterOrEqual(t, r.Width, 24.0, "client %v scroll %v", client, scroll)
		}
	}
}

func TestScrollLeftForRect(t *testing.T) {
	m := ScrollMetrics{Left: 0, ClientWidth: 800, ScrollWidth: 8000}
	assert.Equal(t, 0.0, ScrollLeftForRect(-40, 800, m))
	assert.Equal(t, 3600.0, ScrollLeftForRect(360, 800, m))
	assert.Equal(t, 7200.0, ScrollLeftForRect(790, 800, m))
	assert.Equal(t, 0.0, ScrollLeftForRect(100, 0, m))
}

func TestScrollMetricsClamp(t *testing.T) {
	m := ScrollMetrics{ClientWidth: 800, ScrollWidth: 2000}
	assert.Equal(t, 1200.0, m.MaxLeft())
	assert.Equal(t, 0.0, m.Clamp(-1))
	assert.Equal(t, 1200.0, m.Clamp(5000))
	assert.True(t, m.Scrollable())

	fits := ScrollMetrics{ClientWidth: 800, ScrollWidth: 300}
	assert.Equal(t, 0.0, fits.Clamp(100))
	assert.False(t, fits.Scrollable())
}
