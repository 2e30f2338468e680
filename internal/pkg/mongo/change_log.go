package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChangeLogModel 手工录入、删除与导入的变更记录
type ChangeLogModel struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Workspace string             `bson:"workspace" json:"workspace"`
	Table     string             `bson:"table" json:"table"`          // 涉及的表，导入时为空
	Action    string             `bson:"action" json:"action"`        // create / delete / delete_range / ingest
	Operator  uint64             `bson:"operator" json:"operator"`    // JWT 中的用户ID，后台任务为 0
	Affected  int64              `bson:"affected" json:"affected"`    // 影响行数
	Payload   map[string]any     `bson:"payload" json:"payload"`      // 录入内容或删除区间
	TraceID   string             `bson:"trace_id" json:"traceId"`     // 对应请求的 trace_id
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"` // 创建时间
}
