package service_test

import (
	"context"
	"testing"
	"time"

	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/aggregate"
	"Pulseboard/internal/pkg/period"
	"Pulseboard/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSummaryByPeriod(t *testing.T) {
	f := newFixture(t)
	seed(t, f, "acme")
	ctx := context.Background()

	cases := []struct {
		tag  period.Tag
		want aggregate.Totals
		avg  float64
	}{
		{period.Lifetime, aggregate.Totals{NewFollowers: 260, UniqueVisitors: 25, Impressions: 1300, Clicks: 13, Reposts: 3}, 0.3},
		{period.YearToDate, aggregate.Totals{NewFollowers: 260, UniqueVisitors: 25, Impressions: 1300, Clicks: 13, Reposts: 3}, 0.3},
		{period.QuarterToDate, aggregate.Totals{NewFollowers: 10, UniqueVisitors: 25, Impressions: 300, Clicks: 3, Reposts: 2}, 0.1},
		{period.MonthToDate, aggregate.Totals{NewFollowers: 10, UniqueVisitors: 5, Impressions: 300, Clicks: 3, Reposts: 2}, 0.1},
	}
	for _, tc := range cases {
		t.Run(string(tc.tag), func(t *testing.T) {
			summary, err := f.metrics.GetSummary(ctx, "acme", tc.tag)
			require.NoError(t, err)
			assert.Equal(t, tc.want, summary.Totals)
			assert.Equal(t, "database", summary.Source)
			assert.Equal(t, "2024-08-15", summary.ReferenceDate.String())
			require.True(t, summary.EngagementDefined)
			require.NotNil(t, summary.AverageEngagement)
			assert.InDelta(t, tc.avg, *summary.AverageEngagement, 1e-9)
		})
	}
}

func TestSummarizeEmptyPeriod(t *testing.T) {
	resolved := &service.Resolved{
		Workspace: "acme",
		Source:    service.SourceFiles,
		Data: &model.Dataset{
			Followers: []*model.FollowerRecord{{Date: model.NewDate(2024, time.March, 1), TotalFollowers: 9}},
			Content:   []*model.ContentMetricRecord{{Date: model.NewDate(2024, time.March, 1), EngagementRate: 0}},
		},
	}

	// 区间内没有数据，合计为 0，平均值未定义
	summary := service.Summarize(resolved, period.MonthToDate, model.NewDate(2025, time.January, 10))
	assert.Equal(t, aggregate.Totals{}, summary.Totals)
	assert.Nil(t, summary.AverageEngagement)
	assert.False(t, summary.EngagementDefined)

	// 互动率为 0 与未定义不同
	summary = service.Summarize(resolved, period.Lifetime, model.NewDate(2025, time.January, 10))
	require.NotNil(t, summary.AverageEngagement)
	assert.Zero(t, *summary.AverageEngagement)
	assert.True(t, summary.EngagementDefined)
}

func TestGetSeries(t *testing.T) {
	f := newFixture(t)
	seed(t, f, "acme")

	series, err := f.metrics.GetSeries(context.Background(), "acme", period.QuarterToDate)
	require.NoError(t, err)
	assert.Equal(t, "QUARTER_TO_DATE", series.Period)

	// 各指标保留各自的日期，不补点
	assert.Len(t, series.Series[aggregate.MetricFollowers], 1)
	assert.Len(t, series.Series[aggregate.MetricUniqueVisitors], 2)
	assert.Len(t, series.Series[aggregate.MetricPageViews], 2)
	require.Len(t, series.Series[aggregate.MetricImpressions], 1)
	assert.Equal(t, "2024-08-03", series.Series[aggregate.MetricImpressions][0].Date.String())
	assert.InDelta(t, 300, series.Series[aggregate.MetricImpressions][0].Value, 1e-9)

	points, err := f.metrics.GetMetricSeries(context.Background(), "acme", period.Lifetime, aggregate.MetricFollowers)
	require.NoError(t, err)
	assert.Len(t, points, 3)

	_, err = f.metrics.GetMetricSeries(context.Background(), "acme", period.Lifetime, aggregate.Metric("bogus"))
	assert.ErrorIs(t, err, service.ErrParamInvalid)
}

func TestGetSummaryNoData(t *testing.T) {
	f := newFixture(t)

	_, err := f.metrics.GetSummary(context.Background(), "acme", period.Lifetime)
	assert.ErrorIs(t, err, service.ErrNoData)
}

func TestPosts(t *testing.T) {
	f := newFixture(t)
	seed(t, f, "acme")
	ctx := context.Background()

	list, err := f.metrics.ListPosts(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Stored", list[0].PostTitle)
	assert.Equal(t, int64(42), list[0].Impressions)
	assert.Equal(t, "2024-08-03", list[0].CreatedDate.String())

	post, err := f.metrics.GetPost(ctx, "acme", "Stored")
	require.NoError(t, err)
	assert.Equal(t, int64(42), post.Impressions)

	_, err = f.metrics.GetPost(ctx, "acme", "Missing")
	assert.ErrorIs(t, err, service.ErrPostNotFound)

	_, err = f.metrics.GetPost(ctx, "acme", "")
	assert.ErrorIs(t, err, service.ErrParamInvalid)
}

func TestListWorkspacesAndCacheWithoutRedis(t *testing.T) {
	f := newFixture(t)
	seed(t, f, "globex")
	seed(t, f, "acme")
	ctx := context.Background()

	names, err := f.metrics.ListWorkspaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme", "globex"}, names)

	require.NoError(t, f.metrics.InvalidateCache(ctx, "acme"))
	require.NoError(t, f.metrics.WarmCache(ctx, "acme"))
}
