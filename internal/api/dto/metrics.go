package dto

import (
	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/aggregate"
)

// SummaryDTO 区间汇总
type SummaryDTO struct {
	Workspace     string           `json:"workspace"`
	Period        string           `json:"period"`
	ReferenceDate model.Date       `json:"reference_date"`
	Source        string           `json:"source"`
	Totals        aggregate.Totals `json:"totals"`
	// AverageEngagement 区间内没有内容数据时为 null
	AverageEngagement *float64 `json:"average_engagement"`
	EngagementDefined bool     `json:"engagement_defined"`
}

// SeriesDTO 各指标独立的图表序列
type SeriesDTO struct {
	Workspace     string           `json:"workspace"`
	Period        string           `json:"period"`
	ReferenceDate model.Date       `json:"reference_date"`
	Source        string           `json:"source"`
	Series        aggregate.Series `json:"series"`
}

// PostDTO 帖子表现
type PostDTO struct {
	ID               uint64     `json:"id"`
	PostTitle        string     `json:"post_title"`
	PostLink         string     `json:"post_link"`
	CreatedDate      model.Date `json:"created_date"`
	Impressions      int64      `json:"impressions"`
	Clicks           int64      `json:"clicks"`
	ClickThroughRate float64    `json:"click_through_rate"`
	Likes            int64      `json:"likes"`
	Comments         int64      `json:"comments"`
	Reposts          int64      `json:"reposts"`
	Follows          int64      `json:"follows"`
	EngagementRate   float64    `json:"engagement_rate"`
}

// PostSearchQueryDTO 帖子标题检索
type PostSearchQueryDTO struct {
	Q    string `form:"q" validate:"required,max=256"`
	From int    `form:"from" validate:"omitempty,min=0"`
	Size int    `form:"size" validate:"omitempty,min=1,max=100"`
}

// PostHitDTO 检索命中的帖子
type PostHitDTO struct {
	PostTitle      string  `json:"post_title"`
	PostLink       string  `json:"post_link"`
	CreatedDate    string  `json:"created_date"`
	Impressions    int64   `json:"impressions"`
	EngagementRate float64 `json:"engagement_rate"`
}
