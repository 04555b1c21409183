package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagged(t *testing.T, date string, tags ...string) TimelineEvent {
	t.Helper()
	ev := eventOn(t, date, date)
	ev.Tags = tags
	return ev
}

func TestComputeTagInsights(t *testing.T) {
	events := SortEvents([]TimelineEvent{
		tagged(t, "2023-02-01", "ml", "vision"),
		tagged(t, "2015-01-01", "legacy"),
		tagged(t, "2015-02-01", "legacy"),
		tagged(t, "2015-03-01", "Legacy"),
		tagged(t, "2015-04-01", " legacy "),
		tagged(t, "2022-01-01", "ML"),
		tagged(t, "2022-06-01", "ml"),
	})

	insights := ComputeTagInsights(events, 2, 3)

	require.Len(t, insights.Top, 2)
	assert.Equal(t, "legacy", insights.Top[0].Item)
	assert.EqualValues(t, 4, insights.Top[0].Count)
	assert.Equal(t, "ml", insights.Top[1].Item)
	assert.EqualValues(t, 3, insights.Top[1].Count)

	require.NotEmpty(t, insights.Trending)
	assert.Equal(t, "ml", insights.Trending[0].Item)
	for _, item := range insights.Trending {
		assert.NotEqual(t, "legacy", item.Item, "old years fall out of the window")
	}
}

func TestComputeTagInsightsCountsCategories(t *testing.T) {
	ev := tagged(t, "2020-01-01")
	ev.Category = CategoryRelease
	insights := ComputeTagInsights([]TimelineEvent{ev}, 3, 1)
	require.Len(t, insights.Top, 1)
	assert.Equal(t, "release", insights.Top[0].Item)
}

func TestComputeTagInsightsEmpty(t *testing.T) {
	assert.Equal(t, TagInsights{}, ComputeTagInsights(nil, 5, 3))
	assert.Empty(t, ComputeTagInsights([]TimelineEvent{tagged(t, "2020-01-01")}, 5, 3).Top)
}
