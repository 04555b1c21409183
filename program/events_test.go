package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Release ")
	require.NoError(t, err)
	assert.Equal(t, CategoryRelease, c)

	c, err = ParseCategory("")
	require.NoError(t, err)
	assert.Equal(t, CategoryNone, c)

	_, err = ParseCategory("rumor")
	assert.ErrorContains(t, err, `unknown category "rumor"`)
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2021-06-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDate("2021-06-15T10:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 6, 15, 8, 30, 0, 0, time.UTC), d)

	_, err = parseDate("2021-13-01")
	assert.ErrorContains(t, err, `invalid date "2021-13-01"`)
}

func TestSortEventsIsStable(t *testing.T) {
	in := []TimelineEvent{
		eventOn(t, "late", "2022-05-01"),
		eventOn(t, "tie-1", "2020-01-01"),
		eventOn(t, "early", "2019-07-07"),
		eventOn(t, "tie-2", "2020-01-01"),
	}
	out := SortEvents(in)

	ids := make([]string, len(out))
	for i, ev := range out {
		ids[i] = ev.ID
	}
	assert.Equal(t, []string{"early", "tie-1", "tie-2", "late"}, ids)
	assert.Equal(t, "late", in[0].ID, "input must not be reordered")
}

func TestGroupByYear(t *testing.T) {
	// out of chronological order on purpose
	events := SortEvents([]TimelineEvent{
		eventOn(t, "b", "2022-03-01"),
		eventOn(t, "a", "2020-01-01"),
		eventOn(t, "c", "2022-01-15"),
		eventOn(t, "d", "2020-12-31"),
	})
	groups := GroupByYear(events)
	require.Len(t, groups, 2)
	assert.Equal(t, 2020, groups[0].Year)
	assert.Equal(t, 2022, groups[1].Year)
	assert.Equal(t, "a", groups[0].Events[0].ID)
	assert.Equal(t, "d", groups[0].Events[1].ID)
	assert.Equal(t, "c", groups[1].Events[0].ID)
	assert.Equal(t, "b", groups[1].Events[1].ID)

	assert.Empty(t, GroupByYear(nil))
}
