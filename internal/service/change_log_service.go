package service

import (
	"context"
	log "log/slog"
	"time"

	"Pulseboard/internal/api/dto"
	"Pulseboard/internal/pkg/logger"
	"Pulseboard/internal/pkg/mongo"
)

const defaultChangeLogLimit = 20

type ChangeLogService interface {
	Record(ctx context.Context, entry *mongo.ChangeLogModel)
	List(ctx context.Context, workspace string, query *dto.ChangeLogQueryDTO) ([]*mongo.ChangeLogModel, error)
}

type changeLogServiceImpl struct {
	changeLogRepo mongo.ChangeLogRepo
}

// NewChangeLogService repo 为 nil 时不记录
func NewChangeLogService(changeLogRepo mongo.ChangeLogRepo) ChangeLogService {
	return &changeLogServiceImpl{changeLogRepo: changeLogRepo}
}

// Record 写入失败只记日志，不影响业务结果
func (s *changeLogServiceImpl) Record(ctx context.Context, entry *mongo.ChangeLogModel) {
	if s.changeLogRepo == nil || entry == nil {
		return
	}
	if traceID, ok := ctx.Value(logger.TraceIDKey).(string); ok {
		entry.TraceID = traceID
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.changeLogRepo.Append(ctx, entry); err != nil {
		log.ErrorContext(ctx, "append change log failed", "action", entry.Action, "err", err)
	}
}

func (s *changeLogServiceImpl) List(ctx context.Context, workspace string, query *dto.ChangeLogQueryDTO) ([]*mongo.ChangeLogModel, error) {
	if s.changeLogRepo == nil {
		return nil, ErrChangeLogDisabled
	}
	limit, offset := int64(defaultChangeLogLimit), int64(0)
	if query != nil {
		if query.Limit > 0 {
			limit = query.Limit
		}
		offset = query.Offset
	}
	return s.changeLogRepo.ListByWorkspace(ctx, workspace, limit, offset)
}
