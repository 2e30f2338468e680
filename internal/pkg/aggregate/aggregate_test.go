package aggregate_test

import (
	"testing"
	"time"

	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/aggregate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumEmpty(t *testing.T) {
	got := aggregate.Sum(nil, nil, nil)
	assert.Equal(t, aggregate.Totals{}, got)

	_, ok := aggregate.AverageEngagement(nil)
	assert.False(t, ok)
}

func TestSumAndAverage(t *testing.T) {
	d1 := model.NewDate(2024, time.June, 1)
	d2 := model.NewDate(2024, time.June, 2)

	followers := []*model.FollowerRecord{{Date: d1, TotalFollowers: 3}, {Date: d2, TotalFollowers: 4}}
	visitors := []*model.VisitorMetricRecord{{Date: d1, TotalUniqueVisitors: 10, TotalPageViews: 30}}
	content := []*model.ContentMetricRecord{
		{Date: d1, UniqueImpressions: 100, ClicksTotal: 5, RepostsTotal: 1, EngagementRate: 0.02},
		{Date: d2, UniqueImpressions: 200, ClicksTotal: 7, RepostsTotal: 2, EngagementRate: 0.04},
	}

	got := aggregate.Sum(followers, visitors, content)
	assert.Equal(t, aggregate.Totals{NewFollowers: 7, UniqueVisitors: 10, Impressions: 300, Clicks: 12, Reposts: 3}, got)

	avg, ok := aggregate.AverageEngagement(content)
	require.True(t, ok)
	assert.InDelta(t, 0.03, avg, 1e-9)
}

func TestBuildSeriesKeepsNativeIndex(t *testing.T) {
	followers := []*model.FollowerRecord{
		{Date: model.NewDate(2024, time.June, 1), TotalFollowers: 3},
		{Date: model.NewDate(2024, time.June, 3), TotalFollowers: 5},
	}
	visitors := []*model.VisitorMetricRecord{
		{Date: model.NewDate(2024, time.June, 2), TotalUniqueVisitors: 8, TotalPageViews: 9},
	}

	s := aggregate.BuildSeries(followers, visitors, nil)

	require.Len(t, s[aggregate.MetricFollowers], 2)
	require.Len(t, s[aggregate.MetricUniqueVisitors], 1)
	assert.Equal(t, "2024-06-02", s[aggregate.MetricUniqueVisitors][0].Date.String())
	assert.Equal(t, float64(9), s[aggregate.MetricPageViews][0].Value)

	// 没有数据的指标给出空序列，不补零
	assert.NotNil(t, s[aggregate.MetricImpressions])
	assert.Empty(t, s[aggregate.MetricImpressions])
}

func TestParseMetric(t *testing.T) {
	m, ok := aggregate.ParseMetric("reposts")
	require.True(t, ok)
	assert.Equal(t, aggregate.MetricReposts, m)

	_, ok = aggregate.ParseMetric("likes")
	assert.False(t, ok)
}
