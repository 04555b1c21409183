package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	FormatAuto  = "auto"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatYAML  = "yaml"
	FormatCSV   = "csv"
)

type rawEvent struct {
	ID       string   `json:"id" yaml:"id"`
	Date     string   `json:"date" yaml:"date"`
	Title    string   `json:"title" yaml:"title"`
	Summary  string   `json:"summary" yaml:"summary"`
	Category string   `json:"category" yaml:"category"`
	Tags     []string `json:"tags" yaml:"tags"`
	Image    string   `json:"image" yaml:"image"`
}

func (r rawEvent) toEvent(n int) (TimelineEvent, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return TimelineEvent{}, fmt.Errorf("event %d: %w", n, err)
	}
	category, err := ParseCategory(r.Category)
	if err != nil {
		return TimelineEvent{}, fmt.Errorf("event %d: %w", n, err)
	}
	id := strings.TrimSpace(r.ID)
	if id == "" {
		id = uuid.NewString()
	}
	var tags []string
	for _, tag := range r.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return TimelineEvent{
		ID:       id,
		Date:     date,
		Title:    strings.TrimSpace(r.Title),
		Summary:  strings.TrimSpace(r.Summary),
		Category: category,
		Tags:     tags,
		Image:    strings.TrimSpace(r.Image),
	}, nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".yaml", ".yml":
		return FormatYAML
	case ".csv":
		return FormatCSV
	}
	return FormatAuto
}

// LoadEventsFile reads events from path; format "auto" looks at the extension first.
func LoadEventsFile(path, format string) ([]TimelineEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	if format == "" || format == FormatAuto {
		format = formatFromPath(path)
	}
	events, err := LoadEvents(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}

// LoadEvents decodes events in the given format. The result is not sorted.
func LoadEvents(r io.Reader, format string) ([]TimelineEvent, error) {
	br := bufio.NewReader(r)
	if format == "" || format == FormatAuto {
		format = sniffFormat(br)
	}
	switch format {
	case FormatJSON, FormatJSONL:
		return loadJSON(br)
	case FormatYAML:
		return loadYAML(br)
	case FormatCSV:
		return loadCSV(br)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

func sniffFormat(br *bufio.Reader) string {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return FormatJSON
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			_, _ = br.ReadByte()
			continue
		case '[':
			return FormatJSON
		case '{':
			return FormatJSONL
		}
		return FormatYAML
	}
}

// loadJSON accepts a single array or a stream of objects.
func loadJSON(r io.Reader) ([]TimelineEvent, error) {
	dec := json.NewDecoder(r)
	var events []TimelineEvent
	n := 0
	for {
		raw := json.RawMessage{}
		err := dec.Decode(&raw)
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", n+1, err)
		}
		var batch []rawEvent
		if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
			if err := json.Unmarshal(trimmed, &batch); err != nil {
				return nil, fmt.Errorf("event %d: %w", n+1, err)
			}
		} else {
			var one rawEvent
			if err := json.Unmarshal(trimmed, &one); err != nil {
				return nil, fmt.Errorf("event %d: %w", n+1, err)
			}
			batch = append(batch, one)
		}
		for _, re := range batch {
			n++
			ev, err := re.toEvent(n)
			if err != nil {
				return nil, err
			}
			events = append(events, ev)
		}
	}
}

func loadYAML(r io.Reader) ([]TimelineEvent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var raws []rawEvent
	if err := yaml.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("error parsing yaml events: %w", err)
	}
	events := make([]TimelineEvent, 0, len(raws))
	for i, re := range raws {
		ev, err := re.toEvent(i + 1)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func loadCSV(r io.Reader) ([]TimelineEvent, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}
	columns := make(map[string]int)
	for i, col := range header {
		columns[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := columns["date"]; !ok {
		return nil, fmt.Errorf("date column not found in CSV. Available columns: %v", header)
	}
	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var events []TimelineEvent
	for n := 1; ; n++ {
		record, err := reader.Read()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		re := rawEvent{
			ID:       field(record, "id"),
			Date:     field(record, "date"),
			Title:    field(record, "title"),
			Summary:  field(record, "summary"),
			Category: field(record, "category"),
			Image:    field(record, "image"),
		}
		if tags := field(record, "tags"); tags != "" {
			re.Tags = strings.Split(tags, ";")
		}
		ev, err := re.toEvent(n)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
}

var demoTopics = []string{"ai", "ml", "hardware", "vision", "language", "robotics", "policy", "open-source"}

// DemoEvents generates n reproducible sample events spread over the years
// from 2015, clustered around a few busy periods.
func DemoEvents(n int, seed uint64) []TimelineEvent {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	start := time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	const spanDays = 10 * 365
	centers := []float64{0.15, 0.55, 0.8}

	events := make([]TimelineEvent, 0, n)
	for i := 0; i < n; i++ {
		var pos float64
		if rng.IntN(3) == 0 {
			pos = rng.Float64()
		} else {
			pos = centers[rng.IntN(len(centers))] + rng.NormFloat64()*0.05
		}
		pos = min(1, max(0, pos))
		date := start.AddDate(0, 0, int(pos*spanDays))
		category := categories[rng.IntN(len(categories))]
		tags := []string{demoTopics[rng.IntN(len(demoTopics))]}
		if rng.IntN(2) == 0 {
			tags = append(tags, demoTopics[rng.IntN(len(demoTopics))])
		}
		events = append(events, TimelineEvent{
			ID:       fmt.Sprintf("demo-%04d", i+1),
			Date:     date,
			Title:    fmt.Sprintf("%s %s #%d", strings.ToUpper(tags[0][:1])+tags[0][1:], category, i+1),
			Summary:  fmt.Sprintf("Sample %s event from %s, tagged %s.", category, date.Format("January 2006"), strings.Join(tags, ", ")),
			Category: category,
			Tags:     tags,
		})
	}
	return events
}
