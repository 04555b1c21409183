package main

import (
	"math"
	"time"
)

// DensityOptions holds the binning and heatmap constants. The alpha curve
// values are visual tuning, so they stay configurable.
type DensityOptions struct {
	PixelsPerBin float64 `yaml:"pixels_per_bin"`
	MinBins      int     `yaml:"min_bins"`
	MaxBins      int     `yaml:"max_bins"`
	AlphaFloor   float64 `yaml:"alpha_floor"`
	AlphaRange   float64 `yaml:"alpha_range"`
	AlphaGamma   float64 `yaml:"alpha_gamma"`
}

var defaultDensityOptions = DensityOptions{
	PixelsPerBin: 6,
	MinBins:      64,
	MaxBins:      240,
	AlphaFloor:   0.15,
	AlphaRange:   0.75,
	AlphaGamma:   0.8,
}

// BinCount returns override when positive, else a count tied to the rendered
// width so the heatmap neither over- nor under-samples.
func (o DensityOptions) BinCount(width float64, override int) int {
	if override > 0 {
		return override
	}
	n := int(math.Round(width / o.PixelsPerBin))
	return min(o.MaxBins, max(o.MinBins, n))
}

// Alpha maps a smoothed bin value to an opacity. The power curve lifts sparse
// bins so they stay visible.
func (o DensityOptions) Alpha(v, maxBin float64) float64 {
	if maxBin <= 0 || v <= 0 {
		return o.AlphaFloor
	}
	return o.AlphaFloor + math.Pow(v/maxBin, o.AlphaGamma)*o.AlphaRange
}

type Density struct {
	Start, End time.Time
	Raw        []int
	Smoothed   []float64
	Max        float64
}

func (d Density) Bins() int { return len(d.Raw) }

// BinStart returns the instant where bin i begins.
func (d Density) BinStart(i int) time.Time {
	span := d.End.Sub(d.Start)
	return d.Start.Add(time.Duration(float64(span) * float64(i) / float64(len(d.Raw))))
}

// ComputeDensity bins pre-sorted events over [first, last]. It is a pure
// function of its arguments.
func ComputeDensity(sorted []TimelineEvent, width float64, override int, opts DensityOptions) Density {
	n := opts.BinCount(width, override)
	d := Density{
		Start: time.UnixMilli(0).UTC(),
		End:   time.UnixMilli(1).UTC(),
		Raw:   make([]int, n),
	}
	if len(sorted) > 0 {
		d.Start = sorted[0].Date
		d.End = sorted[len(sorted)-1].Date
	}
	span := d.End.Sub(d.Start)
	// A zero span would divide by zero; leave every bin empty instead.
	if len(sorted) > 0 && span > 0 {
		for _, ev := range sorted {
			d.Raw[binIndex(ev.Date, d.Start, span, n)]++
		}
	}
	d.Smoothed = smoothBins(d.Raw)
	for _, v := range d.Smoothed {
		d.Max = max(d.Max, v)
	}
	return d
}

func binIndex(t, start time.Time, span time.Duration, n int) int {
	frac := float64(t.Sub(start)) / float64(span)
	idx := int(math.Floor(frac * float64(n)))
	return min(n-1, max(0, idx))
}

// smoothBins applies one pass of the (1,2,1)/4 kernel; neighbours past either
// end count as zero.
func smoothBins(raw []int) []float64 {
	out := make([]float64, len(raw))
	for i := range raw {
		var prev, next float64
		if i > 0 {
			prev = float64(raw[i-1])
		}
		if i < len(raw)-1 {
			next = float64(raw[i+1])
		}
		out[i] = (prev + 2*float64(raw[i]) + next) / 4
	}
	return out
}

// ColumnAlphas rasterises the density into cols cells. Each cell takes the
// strongest bin it overlaps.
func (d Density) ColumnAlphas(cols int, opts DensityOptions) []float64 {
	if cols <= 0 {
		return nil
	}
	out := make([]float64, cols)
	n := len(d.Smoothed)
	if n == 0 {
		for i := range out {
			out[i] = opts.AlphaFloor
		}
		return out
	}
	for c := range out {
		lo := c * n / cols
		hi := int(math.Ceil(float64((c+1)*n)/float64(cols))) - 1
		hi = min(n-1, max(lo, hi))
		best := opts.AlphaFloor
		for b := lo; b <= hi; b++ {
			best = max(best, opts.Alpha(d.Smoothed[b], d.Max))
		}
		out[c] = best
	}
	return out
}
