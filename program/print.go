package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	headFg  = color.New(color.Bold)
	neonFg  = color.New(color.FgCyan)
	quietFg = color.New(color.FgHiBlack)
	failFg  = color.New(color.FgRed, color.Bold)
)

// printError reports a failed command on stderr.
func printError(err error) {
	failFg.Fprintf(os.Stderr, "Error: ")
	fmt.Fprintf(os.Stderr, "%v\n", err)
}

// printBins writes one row per density bin with a bar sized by its alpha.
func printBins(w io.Writer, d Density, opts DensityOptions) {
	headFg.Fprintf(w, "%-5s %-10s %5s %8s %6s\n", "bin", "from", "raw", "smooth", "alpha")
	total := 0
	for i, raw := range d.Raw {
		total += raw
		alpha := opts.Alpha(d.Smoothed[i], d.Max)
		bar := strings.Repeat("█", int(math.Round(alpha*20)))
		line := fmt.Sprintf("%-5d %-10s %5d %8.2f %6.3f ", i, d.BinStart(i).Format("2006-01-02"), raw, d.Smoothed[i], alpha)
		if raw == 0 {
			quietFg.Fprint(w, line)
		} else {
			fmt.Fprint(w, line)
		}
		neonFg.Fprintln(w, bar)
	}
	quietFg.Fprintf(w, "%d bins, %d events binned, domain %s .. %s\n",
		len(d.Raw), total, d.Start.Format("2006-01-02"), d.End.Format("2006-01-02"))
}

func printGroups(w io.Writer, groups []YearGroup) {
	for _, g := range groups {
		headFg.Fprintf(w, "%d", g.Year)
		quietFg.Fprintf(w, " (%d)\n", len(g.Events))
		for _, ev := range g.Events {
			fmt.Fprintf(w, "  %s  %s", ev.Date.Format("2006-01-02"), ev.Title)
			if ev.Category != CategoryNone {
				neonFg.Fprintf(w, "  %s", ev.Category)
			}
			fmt.Fprintln(w)
		}
	}
}

func printTags(w io.Writer, insights TagInsights, windowYears int) {
	headFg.Fprintln(w, "top tags")
	for i, item := range insights.Top {
		fmt.Fprintf(w, "  #%-2d %-20s %d\n", i+1, item.Item, item.Count)
	}
	headFg.Fprintf(w, "trending (last %d years)\n", windowYears)
	for i, item := range insights.Trending {
		fmt.Fprintf(w, "  #%-2d %-20s %d\n", i+1, item.Item, item.Count)
	}
}
