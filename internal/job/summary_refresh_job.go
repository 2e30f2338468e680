package job

import (
	"context"
	"errors"
	log "log/slog"
	"time"

	"Pulseboard/internal/pkg/consts"
	"Pulseboard/internal/pkg/logger"
	"Pulseboard/internal/pkg/redis"
	"Pulseboard/internal/service"

	"github.com/google/uuid"
)

// SummaryRefreshJob 零点后清理并预热各工作区的汇总缓存
type SummaryRefreshJob struct {
	metricsSvc service.MetricsService
}

func NewSummaryRefreshJob(metricsSvc service.MetricsService) *SummaryRefreshJob {
	return &SummaryRefreshJob{
		metricsSvc: metricsSvc,
	}
}

func (s *SummaryRefreshJob) Run() {
	traceID := "job-" + uuid.NewString()
	ctx := logger.WithTrace(context.Background(), traceID)

	lockValue := uuid.NewString()
	lock, err := redis.TryLock(ctx, consts.SummaryRefreshLock, lockValue, time.Minute*10, 1)
	if err != nil {
		log.ErrorContext(ctx, "summary refresh lock error", "err", err)
		return
	}
	if !lock {
		log.InfoContext(ctx, "summary refresh is running on another instance")
		return
	}
	defer redis.UnLock(ctx, consts.SummaryRefreshLock, lockValue)

	n, err := s.RunOnce(ctx)
	if err != nil {
		log.ErrorContext(ctx, "summary refresh failed", "err", err)
		return
	}
	log.InfoContext(ctx, "summary refresh finished", "workspaces", n)
}

// RunOnce 返回成功预热的工作区数量
func (s *SummaryRefreshJob) RunOnce(ctx context.Context) (int, error) {
	if err := redis.DeleteKey(ctx, consts.WorkspaceListKey); err != nil {
		return 0, err
	}
	names, err := s.metricsSvc.ListWorkspaces(ctx)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, ws := range names {
		wsCtx := logger.WithWorkspace(ctx, ws)
		if err = s.metricsSvc.InvalidateCache(wsCtx, ws); err != nil {
			log.WarnContext(wsCtx, "invalidate cache failed", "err", err)
			continue
		}
		if err = s.metricsSvc.WarmCache(wsCtx, ws); err != nil {
			// 只有帖子的工作区没有汇总
			if !errors.Is(err, service.ErrNoData) {
				log.WarnContext(wsCtx, "warm cache failed", "err", err)
			}
			continue
		}
		refreshed++
	}
	return refreshed, nil
}
