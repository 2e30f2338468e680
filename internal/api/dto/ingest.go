package dto

import "time"

// IngestResultDTO 一次导入的结果
type IngestResultDTO struct {
	Workspace string `json:"workspace"`
	Source    string `json:"source"`
	Persisted bool   `json:"persisted"`
	// Rows 各表提取到的行数
	Rows map[string]int `json:"rows"`
	// Failed 写入失败的表，其余表可能已经提交
	Failed   []string          `json:"failed,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
	Archived map[string]string `json:"archived,omitempty"`
	Summary  *SummaryDTO       `json:"summary,omitempty"`
}

// ImportRequestDTO 通过 Kafka 下发的导入任务，文件已在归档桶中
type ImportRequestDTO struct {
	Workspace       string `json:"workspace" validate:"required,max=128"`
	FollowersObject string `json:"followers_object" validate:"omitempty"`
	VisitorsObject  string `json:"visitors_object" validate:"omitempty"`
	ContentObject   string `json:"content_object" validate:"omitempty"`
	// Persist 缺省为 true
	Persist *bool `json:"persist"`
}

// IngestEventDTO 导入完成后发布的事件
type IngestEventDTO struct {
	Workspace  string            `json:"workspace"`
	Persisted  bool              `json:"persisted"`
	Rows       map[string]int    `json:"rows"`
	Failed     []string          `json:"failed,omitempty"`
	Archived   map[string]string `json:"archived,omitempty"`
	TraceID    string            `json:"trace_id"`
	OccurredAt time.Time         `json:"occurred_at"`
}
