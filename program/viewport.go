package main

// ScrollMetrics describes the rail's scroll container in pixels.
type ScrollMetrics struct {
	Left        float64
	ClientWidth float64
	ScrollWidth float64
}

func (m ScrollMetrics) MaxLeft() float64 {
	return max(0, m.ScrollWidth-m.ClientWidth)
}

func (m ScrollMetrics) Clamp(left float64) float64 {
	return min(m.MaxLeft(), max(0, left))
}

// Scrollable reports whether the content overflows the visible width.
func (m ScrollMetrics) Scrollable() bool {
	return m.ScrollWidth > m.ClientWidth
}

// ScrollChanged is emitted by the rail whenever its scroll metrics change.
type ScrollChanged ScrollMetrics

// NavigateTo asks the rail to scroll to Left, a rail scroll offset in pixels.
type NavigateTo struct {
	Left   float64
	Smooth bool
}

// ViewportRect is the visible slice of the rail in minimap pixels.
type ViewportRect struct {
	Left  float64
	Width float64
}

func (r ViewportRect) Right() float64  { return r.Left + r.Width }
func (r ViewportRect) Center() float64 { return r.Left + r.Width/2 }

func (r ViewportRect) Contains(x float64) bool {
	return x >= r.Left && x <= r.Right()
}

// ViewportFor maps the rail's scroll state into minimap space. The width
// never drops below minWidth so the indicator stays draggable.
func ViewportFor(m ScrollMetrics, mapWidth, minWidth float64) ViewportRect {
	if !m.Scrollable() || m.ScrollWidth <= 0 {
		return ViewportRect{Left: 0, Width: mapWidth}
	}
	fracLeft := m.Left / m.ScrollWidth
	fracWidth := m.ClientWidth / m.ScrollWidth
	return ViewportRect{
		Left:  fracLeft * mapWidth,
		Width: max(minWidth, fracWidth*mapWidth),
	}
}

// ScrollLeftForRect converts a desired viewport left edge back into a
// clamped rail scroll offset.
func ScrollLeftForRect(rectLeft, mapWidth float64, m ScrollMetrics) float64 {
	if mapWidth <= 0 {
		return m.Clamp(m.Left)
	}
	return m.Clamp(rectLeft / mapWidth * m.ScrollWidth)
}
