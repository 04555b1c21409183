package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEventsFormats(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
	}{
		{
			name:   "json array",
			format: FormatAuto,
			input: `[
  {"id": "b", "date": "2021-06-15", "title": "Second", "category": "release", "tags": ["ml"]},
  {"id": "a", "date": "2020-01-01", "title": "First"}
]`,
		},
		{
			name:   "json lines",
			format: FormatAuto,
			input: `{"id": "b", "date": "2021-06-15", "title": "Second", "category": "release", "tags": ["ml"]}
{"id": "a", "date": "2020-01-01", "title": "First"}`,
		},
		{
			name:   "yaml",
			format: FormatAuto,
			input: `- id: b
  date: 2021-06-15
  title: Second
  category: release
  tags: [ml]
- id: a
  date: "2020-01-01"
  title: First
`,
		},
		{
			name:   "csv",
			format: FormatCSV,
			input: `ID,Date,Title,Category,Tags
b,2021-06-15,Second,release,ml
a,2020-01-01,First,,
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := LoadEvents(strings.NewReader(tt.input), tt.format)
			require.NoError(t, err)
			require.Len(t, events, 2)
			assert.Equal(t, "b", events[0].ID)
			assert.Equal(t, "Second", events[0].Title)
			assert.Equal(t, CategoryRelease, events[0].Category)
			assert.Equal(t, []string{"ml"}, events[0].Tags)
			assert.Equal(t, 2021, events[0].Date.Year())
			assert.Equal(t, "a", events[1].ID)
			assert.Equal(t, CategoryNone, events[1].Category)
		})
	}
}

func TestLoadEventsAssignsIDs(t *testing.T) {
	events, err := LoadEvents(strings.NewReader(`[{"date": "2020-01-01"}]`), FormatJSON)
	require.NoError(t, err)
	require.Len(t, events, 1)
	_, err = uuid.Parse(events[0].ID)
	assert.NoError(t, err)
}

func TestLoadEventsErrors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
		errMsg string
	}{
		{
			name:   "bad date names the record",
			format: FormatJSONL,
			input:  `{"date": "2020-01-01"}` + "\n" + `{"date": "2020-13-01"}`,
			errMsg: `event 2: invalid date "2020-13-01"`,
		},
		{
			name:   "unknown category",
			format: FormatJSON,
			input:  `[{"date": "2020-01-01", "category": "gossip"}]`,
			errMsg: `event 1: unknown category "gossip"`,
		},
		{
			name:   "csv without date column",
			format: FormatCSV,
			input:  "title\nhello\n",
			errMsg: "date column not found",
		},
		{
			name:   "malformed json",
			format: FormatJSON,
			input:  `[{"date": ]`,
			errMsg: "event 1:",
		},
		{
			name:   "unsupported format",
			format: "xml",
			input:  "<events/>",
			errMsg: `unsupported format "xml"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadEvents(strings.NewReader(tt.input), tt.format)
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestLoadEventsFileUsesExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,title\n2020-02-02,Hello\n"), 0o644))

	events, err := LoadEventsFile(path, FormatAuto)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Hello", events[0].Title)

	_, err = LoadEventsFile(filepath.Join(dir, "missing.json"), FormatAuto)
	assert.Error(t, err)
}

func TestDemoEventsAreReproducible(t *testing.T) {
	a := DemoEvents(40, 9)
	b := DemoEvents(40, 9)
	require.Len(t, a, 40)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, DemoEvents(40, 10))
}
