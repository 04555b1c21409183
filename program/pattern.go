package main

import (
	"math/rand/v2"
	"strings"

	styles "github.com/charmbracelet/lipgloss"
)

type Palette struct {
	Accent     string
	Background string
	Dim        string
}

// Pattern draws a card backdrop of width x height cells.
type Pattern interface {
	Name() string
	Draw(width, height int, colors Palette, seed uint64) []string
}

type runeFunc func(x, y int, rng *rand.Rand) rune

type texture struct {
	name string
	at   runeFunc
}

func (t texture) Name() string { return t.name }

func (t texture) Draw(width, height int, colors Palette, seed uint64) []string {
	if width <= 0 || height <= 0 {
		return nil
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))
	style := styles.NewStyle().Foreground(styles.Color(colors.Dim))
	lines := make([]string, height)
	var sb strings.Builder
	for y := range lines {
		sb.Reset()
		for x := 0; x < width; x++ {
			sb.WriteRune(t.at(x, y, rng))
		}
		lines[y] = style.Render(sb.String())
	}
	return lines
}

func defaultPatterns() []Pattern {
	return []Pattern{
		texture{name: "dots", at: func(x, y int, _ *rand.Rand) rune {
			if (x+y)%4 == 0 {
				return '·'
			}
			return ' '
		}},
		texture{name: "stripes", at: func(x, y int, _ *rand.Rand) rune {
			if (x+y)%3 == 0 {
				return '╱'
			}
			return ' '
		}},
		texture{name: "waves", at: func(x, y int, _ *rand.Rand) rune {
			return []rune("‿⁀")[(x/2+y)%2]
		}},
		texture{name: "grid", at: func(x, y int, _ *rand.Rand) rune {
			switch {
			case x%6 == 0 && y%2 == 0:
				return '┼'
			case y%2 == 0:
				return '─'
			case x%6 == 0:
				return '│'
			}
			return ' '
		}},
		texture{name: "noise", at: func(_, _ int, rng *rand.Rand) rune {
			return []rune(" ░ ·")[rng.IntN(4)]
		}},
	}
}

// PatternSelector hands out patterns in rotation: every pattern is used once
// before any repeats, and the same pattern never comes twice in a row. One
// selector is created per session and shared by the cards that need one.
type PatternSelector struct {
	patterns []Pattern
	rng      *rand.Rand
	used     map[int]bool
	last     int
}

func NewPatternSelector(seed uint64, patterns ...Pattern) *PatternSelector {
	if len(patterns) == 0 {
		patterns = defaultPatterns()
	}
	return &PatternSelector{
		patterns: patterns,
		rng:      rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb)),
		used:     make(map[int]bool, len(patterns)),
		last:     -1,
	}
}

func (s *PatternSelector) Next() Pattern {
	if len(s.used) >= len(s.patterns) {
		clear(s.used)
	}
	candidates := make([]int, 0, len(s.patterns))
	for i := range s.patterns {
		if !s.used[i] && (i != s.last || len(s.patterns) == 1) {
			candidates = append(candidates, i)
		}
	}
	pick := candidates[s.rng.IntN(len(candidates))]
	s.used[pick] = true
	s.last = pick
	return s.patterns[pick]
}
