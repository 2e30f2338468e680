package dto

import "Pulseboard/internal/model"

// ManualEntry 手工录入的一条记录，每张表一个具体类型
type ManualEntry interface {
	Table() model.Table
}

// FollowerEntryDTO new_followers 录入
type FollowerEntryDTO struct {
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	TotalFollowers *int64 `json:"total_followers" validate:"required,min=0"`
}

func (*FollowerEntryDTO) Table() model.Table { return model.TableFollowers }

// VisitorEntryDTO visitor_metrics 录入
type VisitorEntryDTO struct {
	Date                string `json:"date" validate:"required,datetime=2006-01-02"`
	TotalUniqueVisitors *int64 `json:"total_unique_visitors" validate:"required,min=0"`
	TotalPageViews      *int64 `json:"total_page_views" validate:"required,min=0"`
}

func (*VisitorEntryDTO) Table() model.Table { return model.TableVisitorMetrics }

// ContentEntryDTO content_metrics 录入，互动率为 [0,1] 小数
type ContentEntryDTO struct {
	Date              string   `json:"date" validate:"required,datetime=2006-01-02"`
	UniqueImpressions *int64   `json:"unique_impressions" validate:"required,min=0"`
	ClicksTotal       *int64   `json:"clicks_total" validate:"required,min=0"`
	ReactionsTotal    *int64   `json:"reactions_total" validate:"required,min=0"`
	RepostsTotal      *int64   `json:"reposts_total" validate:"required,min=0"`
	EngagementRate    *float64 `json:"engagement_rate" validate:"required,min=0,max=1"`
}

func (*ContentEntryDTO) Table() model.Table { return model.TableContentMetrics }

// PostEntryDTO posts 录入
type PostEntryDTO struct {
	PostTitle        string   `json:"post_title" validate:"required,max=512"`
	PostLink         string   `json:"post_link" validate:"omitempty,url,max=1024"`
	CreatedDate      string   `json:"created_date" validate:"required,datetime=2006-01-02"`
	Impressions      *int64   `json:"impressions" validate:"required,min=0"`
	Clicks           *int64   `json:"clicks" validate:"required,min=0"`
	ClickThroughRate *float64 `json:"click_through_rate" validate:"required,min=0,max=1"`
	Likes            *int64   `json:"likes" validate:"required,min=0"`
	Comments         *int64   `json:"comments" validate:"required,min=0"`
	Reposts          *int64   `json:"reposts" validate:"required,min=0"`
	Follows          *int64   `json:"follows" validate:"required,min=0"`
	EngagementRate   *float64 `json:"engagement_rate" validate:"required,min=0,max=1"`
}

func (*PostEntryDTO) Table() model.Table { return model.TablePosts }

// NewManualEntry 按表名返回对应的空录入结构
func NewManualEntry(table model.Table) ManualEntry {
	switch table {
	case model.TableFollowers:
		return &FollowerEntryDTO{}
	case model.TableVisitorMetrics:
		return &VisitorEntryDTO{}
	case model.TableContentMetrics:
		return &ContentEntryDTO{}
	case model.TablePosts:
		return &PostEntryDTO{}
	default:
		return nil
	}
}

// DeleteRangeDTO 按日期闭区间删除
type DeleteRangeDTO struct {
	Start string `form:"start" validate:"required,datetime=2006-01-02"`
	End   string `form:"end" validate:"required,datetime=2006-01-02"`
}

// DeleteResultDTO 删除结果
type DeleteResultDTO struct {
	Deleted bool  `json:"deleted"`
	Count   int64 `json:"count"`
}

// TableFieldsDTO 某张表手工录入需要的字段
type TableFieldsDTO struct {
	Table  string   `json:"table"`
	Fields []string `json:"fields"`
}
