package model

// FollowerRecord 每日粉丝总数
type FollowerRecord struct {
	ID             uint64 `gorm:"primaryKey;column:id" json:"id"`
	Workspace      string `gorm:"not null;size:128;uniqueIndex:idx_followers_ws_date;column:workspace" json:"workspace"`
	Date           Date   `gorm:"not null;type:varchar(10);uniqueIndex:idx_followers_ws_date;column:date" json:"date"`
	TotalFollowers int64  `gorm:"not null;default:0;column:total_followers" json:"totalFollowers"`
}

func (FollowerRecord) TableName() string {
	return string(TableFollowers)
}

func (r *FollowerRecord) MetricDate() Date { return r.Date }

// VisitorMetricRecord 每日访客指标
type VisitorMetricRecord struct {
	ID                  uint64 `gorm:"primaryKey;column:id" json:"id"`
	Workspace           string `gorm:"not null;size:128;uniqueIndex:idx_visitors_ws_date;column:workspace" json:"workspace"`
	Date                Date   `gorm:"not null;type:varchar(10);uniqueIndex:idx_visitors_ws_date;column:date" json:"date"`
	TotalUniqueVisitors int64  `gorm:"not null;default:0;column:total_unique_visitors" json:"totalUniqueVisitors"`
	TotalPageViews      int64  `gorm:"not null;default:0;column:total_page_views" json:"totalPageViews"`
}

func (VisitorMetricRecord) TableName() string {
	return string(TableVisitorMetrics)
}

func (r *VisitorMetricRecord) MetricDate() Date { return r.Date }

// ContentMetricRecord 每日内容互动指标，EngagementRate 为 [0,1] 小数
type ContentMetricRecord struct {
	ID                uint64  `gorm:"primaryKey;column:id" json:"id"`
	Workspace         string  `gorm:"not null;size:128;uniqueIndex:idx_content_ws_date;column:workspace" json:"workspace"`
	Date              Date    `gorm:"not null;type:varchar(10);uniqueIndex:idx_content_ws_date;column:date" json:"date"`
	UniqueImpressions int64   `gorm:"not null;default:0;column:unique_impressions" json:"uniqueImpressions"`
	ClicksTotal       int64   `gorm:"not null;default:0;column:clicks_total" json:"clicksTotal"`
	ReactionsTotal    int64   `gorm:"not null;default:0;column:reactions_total" json:"reactionsTotal"`
	RepostsTotal      int64   `gorm:"not null;default:0;column:reposts_total" json:"repostsTotal"`
	EngagementRate    float64 `gorm:"not null;default:0;column:engagement_rate" json:"engagementRate"`
}

func (ContentMetricRecord) TableName() string {
	return string(TableContentMetrics)
}

func (r *ContentMetricRecord) MetricDate() Date { return r.Date }
