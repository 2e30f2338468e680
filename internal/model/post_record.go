package model

// PostRecord 单条帖子的表现数据，同一工作区内以标题为唯一标识
type PostRecord struct {
	ID               uint64  `gorm:"primaryKey;column:id" json:"id"`
	Workspace        string  `gorm:"not null;size:128;uniqueIndex:idx_posts_ws_title;column:workspace" json:"workspace"`
	PostTitle        string  `gorm:"not null;size:512;uniqueIndex:idx_posts_ws_title;column:post_title" json:"postTitle"`
	PostLink         string  `gorm:"size:1024;column:post_link" json:"postLink"`
	CreatedDate      Date    `gorm:"type:varchar(10);index;column:created_date" json:"createdDate"`
	Impressions      int64   `gorm:"not null;default:0;column:impressions" json:"impressions"`
	Clicks           int64   `gorm:"not null;default:0;column:clicks" json:"clicks"`
	ClickThroughRate float64 `gorm:"not null;default:0;column:click_through_rate" json:"clickThroughRate"`
	Likes            int64   `gorm:"not null;default:0;column:likes" json:"likes"`
	Comments         int64   `gorm:"not null;default:0;column:comments" json:"comments"`
	Reposts          int64   `gorm:"not null;default:0;column:reposts" json:"reposts"`
	Follows          int64   `gorm:"not null;default:0;column:follows" json:"follows"`
	EngagementRate   float64 `gorm:"not null;default:0;column:engagement_rate" json:"engagementRate"`
}

func (PostRecord) TableName() string {
	return string(TablePosts)
}

func (r *PostRecord) MetricDate() Date { return r.CreatedDate }
