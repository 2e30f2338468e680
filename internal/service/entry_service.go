package service

import (
	"context"
	"fmt"
	log "log/slog"

	"Pulseboard/internal/api/dto"
	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/consts"
	"Pulseboard/internal/pkg/logger"
	"Pulseboard/internal/pkg/mongo"
	"Pulseboard/internal/pkg/util"
	"Pulseboard/internal/repository"
)

type EntryService interface {
	AddEntry(ctx context.Context, workspace string, operator uint64, entry dto.ManualEntry) error
	ListEntries(ctx context.Context, workspace string, table model.Table, limit int) ([]*repository.Entry, error)
	DeleteEntry(ctx context.Context, workspace string, operator uint64, table model.Table, id uint64) (*dto.DeleteResultDTO, error)
	DeleteRange(ctx context.Context, workspace string, operator uint64, table model.Table, req *dto.DeleteRangeDTO) (*dto.DeleteResultDTO, error)
	TableFields(table model.Table) (*dto.TableFieldsDTO, error)
}

type entryServiceImpl struct {
	metricsRepo    repository.MetricsRepo
	metricsService MetricsService
	changeLog      ChangeLogService
	postSearch     PostSearchService
}

// NewEntryService postSearch 可为 nil，此时帖子变更不重建检索索引
func NewEntryService(metricsRepo repository.MetricsRepo, metricsService MetricsService, changeLog ChangeLogService, postSearch PostSearchService) EntryService {
	return &entryServiceImpl{
		metricsRepo:    metricsRepo,
		metricsService: metricsService,
		changeLog:      changeLog,
		postSearch:     postSearch,
	}
}

// AddEntry 校验字段完整后作为单行批次写入，同键覆盖
func (s *entryServiceImpl) AddEntry(ctx context.Context, workspace string, operator uint64, entry dto.ManualEntry) error {
	if workspace == "" || entry == nil {
		return ErrParamInvalid
	}
	ctx = logger.WithWorkspace(ctx, workspace)

	if err := util.ValidateDTO(entry); err != nil {
		return fmt.Errorf("%w: %s", ErrEntryIncomplete, err.Error())
	}

	var err error
	switch e := entry.(type) {
	case *dto.FollowerEntryDTO:
		err = s.metricsRepo.SaveFollowers(ctx, workspace, []*model.FollowerRecord{{
			Date:           mustDate(e.Date),
			TotalFollowers: *e.TotalFollowers,
		}})
	case *dto.VisitorEntryDTO:
		err = s.metricsRepo.SaveVisitorMetrics(ctx, workspace, []*model.VisitorMetricRecord{{
			Date:                mustDate(e.Date),
			TotalUniqueVisitors: *e.TotalUniqueVisitors,
			TotalPageViews:      *e.TotalPageViews,
		}})
	case *dto.ContentEntryDTO:
		err = s.metricsRepo.SaveContentMetrics(ctx, workspace, []*model.ContentMetricRecord{{
			Date:              mustDate(e.Date),
			UniqueImpressions: *e.UniqueImpressions,
			ClicksTotal:       *e.ClicksTotal,
			ReactionsTotal:    *e.ReactionsTotal,
			RepostsTotal:      *e.RepostsTotal,
			EngagementRate:    *e.EngagementRate,
		}})
	case *dto.PostEntryDTO:
		err = s.metricsRepo.SavePosts(ctx, workspace, []*model.PostRecord{{
			PostTitle:        e.PostTitle,
			PostLink:         e.PostLink,
			CreatedDate:      mustDate(e.CreatedDate),
			Impressions:      *e.Impressions,
			Clicks:           *e.Clicks,
			ClickThroughRate: *e.ClickThroughRate,
			Likes:            *e.Likes,
			Comments:         *e.Comments,
			Reposts:          *e.Reposts,
			Follows:          *e.Follows,
			EngagementRate:   *e.EngagementRate,
		}})
	default:
		return ErrUnknownTable
	}
	if err != nil {
		log.ErrorContext(ctx, "add entry failed", "table", entry.Table(), "err", err)
		return ErrPersistenceWrite
	}

	s.changed(ctx, &mongo.ChangeLogModel{
		Workspace: workspace,
		Table:     string(entry.Table()),
		Action:    consts.ChangeActionCreate,
		Operator:  operator,
		Affected:  1,
		Payload:   map[string]any{"entry": entry},
	})
	return nil
}

func (s *entryServiceImpl) ListEntries(ctx context.Context, workspace string, table model.Table, limit int) ([]*repository.Entry, error) {
	if table.NewModel() == nil {
		return nil, ErrUnknownTable
	}
	if limit <= 0 {
		limit = consts.DefaultEntryLimit
	}
	if limit > consts.MaxEntryLimit {
		limit = consts.MaxEntryLimit
	}
	return s.metricsRepo.ListEntries(ctx, table, workspace, limit)
}

// DeleteEntry 按行ID删除，不存在时 Deleted=false
func (s *entryServiceImpl) DeleteEntry(ctx context.Context, workspace string, operator uint64, table model.Table, id uint64) (*dto.DeleteResultDTO, error) {
	if table.NewModel() == nil {
		return nil, ErrUnknownTable
	}
	if id == 0 {
		return nil, ErrParamInvalid
	}
	ctx = logger.WithWorkspace(ctx, workspace)

	ok, err := s.metricsRepo.DeleteByID(ctx, table, workspace, id)
	if err != nil {
		log.ErrorContext(ctx, "delete entry failed", "table", table, "id", id, "err", err)
		return nil, ErrPersistenceWrite
	}
	result := &dto.DeleteResultDTO{Deleted: ok}
	if ok {
		result.Count = 1
		s.changed(ctx, &mongo.ChangeLogModel{
			Workspace: workspace,
			Table:     string(table),
			Action:    consts.ChangeActionDelete,
			Operator:  operator,
			Affected:  1,
			Payload:   map[string]any{"id": id},
		})
	}
	return result, nil
}

// DeleteRange 闭区间删除，返回删除条数
func (s *entryServiceImpl) DeleteRange(ctx context.Context, workspace string, operator uint64, table model.Table, req *dto.DeleteRangeDTO) (*dto.DeleteResultDTO, error) {
	if table.NewModel() == nil {
		return nil, ErrUnknownTable
	}
	if err := util.ValidateDTO(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParamInvalid, err.Error())
	}
	start, end := mustDate(req.Start), mustDate(req.End)
	if start.After(end) {
		return nil, fmt.Errorf("%w: start 晚于 end", ErrParamInvalid)
	}
	ctx = logger.WithWorkspace(ctx, workspace)

	n, err := s.metricsRepo.DeleteByDateRange(ctx, table, workspace, start, end)
	if err != nil {
		log.ErrorContext(ctx, "delete range failed", "table", table, "start", start, "end", end, "err", err)
		return nil, ErrPersistenceWrite
	}
	if n > 0 {
		s.changed(ctx, &mongo.ChangeLogModel{
			Workspace: workspace,
			Table:     string(table),
			Action:    consts.ChangeActionDeleteRange,
			Operator:  operator,
			Affected:  n,
			Payload:   map[string]any{"start": req.Start, "end": req.End},
		})
	}
	return &dto.DeleteResultDTO{Deleted: n > 0, Count: n}, nil
}

// TableFields 手工录入某张表需要填写的字段
func (s *entryServiceImpl) TableFields(table model.Table) (*dto.TableFieldsDTO, error) {
	entry := dto.NewManualEntry(table)
	if entry == nil {
		return nil, ErrUnknownTable
	}
	return &dto.TableFieldsDTO{
		Table:  string(table),
		Fields: util.RequiredFields(entry),
	}, nil
}

func (s *entryServiceImpl) changed(ctx context.Context, entry *mongo.ChangeLogModel) {
	if err := s.metricsService.InvalidateCache(ctx, entry.Workspace); err != nil {
		log.WarnContext(ctx, "invalidate cache failed", "err", err)
	}
	if entry.Table == string(model.TablePosts) && s.postSearch != nil {
		if err := s.postSearch.Reindex(ctx, entry.Workspace); err != nil {
			log.WarnContext(ctx, "reindex posts failed", "err", err)
		}
	}
	s.changeLog.Record(ctx, entry)
}

// mustDate 只用于已通过 datetime 校验的字段
func mustDate(s string) model.Date {
	d, _ := model.ParseDate(s)
	return d
}
