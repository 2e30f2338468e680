package cron

import (
	"fmt"
	log "log/slog"
	"time"

	"Pulseboard/internal/job"

	"github.com/robfig/cron/v3"
)

const defaultSummaryRefreshSpec = "@daily"

type Manager struct {
	engine            *cron.Cron
	summaryRefreshJob *job.SummaryRefreshJob
	summaryRefresh    string
}

// NewCronManager spec 为空时每天零点执行，支持秒级表达式；按 loc 时区调度
func NewCronManager(loc *time.Location, summaryRefresh string, summaryRefreshJob *job.SummaryRefreshJob) *Manager {
	if loc == nil {
		loc = time.Local
	}
	if summaryRefresh == "" {
		summaryRefresh = defaultSummaryRefreshSpec
	}
	return &Manager{
		// 上一次刷新未结束时跳过本次
		engine:            cron.New(cron.WithSeconds(), cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		summaryRefreshJob: summaryRefreshJob,
		summaryRefresh:    summaryRefresh,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.summaryRefresh, s.summaryRefreshJob); err != nil {
		return fmt.Errorf("summary refresh spec %q: %w", s.summaryRefresh, err)
	}
	log.Info("Cron job registered", "job", "summary_refresh", "spec", s.summaryRefresh)
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
