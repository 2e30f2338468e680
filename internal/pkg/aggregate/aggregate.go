package aggregate

import "Pulseboard/internal/model"

// Totals 区间内各指标求和，空序列为 0
type Totals struct {
	NewFollowers   int64 `json:"new_followers"`
	UniqueVisitors int64 `json:"unique_visitors"`
	Impressions    int64 `json:"impressions"`
	Clicks         int64 `json:"clicks"`
	Reposts        int64 `json:"reposts"`
}

// Sum 计算汇总值，调用方负责先按区间过滤
func Sum(followers []*model.FollowerRecord, visitors []*model.VisitorMetricRecord, content []*model.ContentMetricRecord) Totals {
	var t Totals
	for _, r := range followers {
		t.NewFollowers += r.TotalFollowers
	}
	for _, r := range visitors {
		t.UniqueVisitors += r.TotalUniqueVisitors
	}
	for _, r := range content {
		t.Impressions += r.UniqueImpressions
		t.Clicks += r.ClicksTotal
		t.Reposts += r.RepostsTotal
	}
	return t
}

// AverageEngagement 互动率算术平均；无数据时 ok=false，表示未定义而不是 0
func AverageEngagement(content []*model.ContentMetricRecord) (avg float64, ok bool) {
	if len(content) == 0 {
		return 0, false
	}
	var sum float64
	for _, r := range content {
		sum += r.EngagementRate
	}
	return sum / float64(len(content)), true
}

// Point 图表上的一个点
type Point struct {
	Date  model.Date `json:"date"`
	Value float64    `json:"value"`
}

// Metric 可绘制的单项指标
type Metric string

const (
	MetricFollowers      Metric = "followers"
	MetricUniqueVisitors Metric = "unique_visitors"
	MetricPageViews      Metric = "page_views"
	MetricImpressions    Metric = "impressions"
	MetricClicks         Metric = "clicks"
	MetricReactions      Metric = "reactions"
	MetricReposts        Metric = "reposts"
	MetricEngagement     Metric = "engagement_rate"
)

// Metrics 全部可绘制指标
var Metrics = []Metric{
	MetricFollowers, MetricUniqueVisitors, MetricPageViews, MetricImpressions,
	MetricClicks, MetricReactions, MetricReposts, MetricEngagement,
}

// ParseMetric 校验指标名
func ParseMetric(s string) (Metric, bool) {
	for _, m := range Metrics {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Series 各指标保留各自的日期索引，不做对齐与补点
type Series map[Metric][]Point

// BuildSeries 由已过滤的三类序列生成图表数据
func BuildSeries(followers []*model.FollowerRecord, visitors []*model.VisitorMetricRecord, content []*model.ContentMetricRecord) Series {
	s := make(Series, len(Metrics))
	for _, m := range Metrics {
		s[m] = []Point{}
	}
	for _, r := range followers {
		s[MetricFollowers] = append(s[MetricFollowers], Point{r.Date, float64(r.TotalFollowers)})
	}
	for _, r := range visitors {
		s[MetricUniqueVisitors] = append(s[MetricUniqueVisitors], Point{r.Date, float64(r.TotalUniqueVisitors)})
		s[MetricPageViews] = append(s[MetricPageViews], Point{r.Date, float64(r.TotalPageViews)})
	}
	for _, r := range content {
		s[MetricImpressions] = append(s[MetricImpressions], Point{r.Date, float64(r.UniqueImpressions)})
		s[MetricClicks] = append(s[MetricClicks], Point{r.Date, float64(r.ClicksTotal)})
		s[MetricReactions] = append(s[MetricReactions], Point{r.Date, float64(r.ReactionsTotal)})
		s[MetricReposts] = append(s[MetricReposts], Point{r.Date, float64(r.RepostsTotal)})
		s[MetricEngagement] = append(s[MetricEngagement], Point{r.Date, r.EngagementRate})
	}
	return s
}
