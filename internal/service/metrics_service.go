package service

import (
	"context"
	log "log/slog"

	"Pulseboard/internal/api/dto"
	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/aggregate"
	"Pulseboard/internal/pkg/consts"
	"Pulseboard/internal/pkg/period"
	"Pulseboard/internal/pkg/redis"
	"Pulseboard/internal/repository"

	"github.com/jinzhu/copier"
)

type MetricsService interface {
	GetSummary(ctx context.Context, workspace string, tag period.Tag) (*dto.SummaryDTO, error)
	GetSeries(ctx context.Context, workspace string, tag period.Tag) (*dto.SeriesDTO, error)
	GetMetricSeries(ctx context.Context, workspace string, tag period.Tag, metric aggregate.Metric) ([]aggregate.Point, error)
	ListPosts(ctx context.Context, workspace string) ([]*dto.PostDTO, error)
	GetPost(ctx context.Context, workspace, title string) (*dto.PostDTO, error)
	ListWorkspaces(ctx context.Context) ([]string, error)
	InvalidateCache(ctx context.Context, workspace string) error
	WarmCache(ctx context.Context, workspace string) error
}

type metricsServiceImpl struct {
	metricsRepo repository.MetricsRepo
	resolver    WorkspaceResolver
	clock       period.Clock
}

func NewMetricsService(metricsRepo repository.MetricsRepo, resolver WorkspaceResolver, clock period.Clock) MetricsService {
	return &metricsServiceImpl{
		metricsRepo: metricsRepo,
		resolver:    resolver,
		clock:       clock,
	}
}

// GetSummary 区间汇总，结果缓存到当天结束
func (s *metricsServiceImpl) GetSummary(ctx context.Context, workspace string, tag period.Tag) (*dto.SummaryDTO, error) {
	key := summaryKey(workspace, tag)
	var cached dto.SummaryDTO
	if hit, err := redis.GetJSON(ctx, key, &cached); err != nil {
		log.WarnContext(ctx, "read summary cache failed", "key", key, "err", err)
	} else if hit {
		return &cached, nil
	}

	resolved, err := s.resolver.Resolve(ctx, ResolveRequest{Workspace: workspace})
	if err != nil {
		return nil, err
	}
	summary := Summarize(resolved, tag, s.clock.Today())

	if err = redis.SetWithMidnightExpiration(ctx, key, summary, s.clock.Now()); err != nil {
		log.WarnContext(ctx, "write summary cache failed", "key", key, "err", err)
	}
	return summary, nil
}

// GetSeries 各指标独立过滤后的图表序列
func (s *metricsServiceImpl) GetSeries(ctx context.Context, workspace string, tag period.Tag) (*dto.SeriesDTO, error) {
	key := consts.SeriesKey + workspace + ":" + tag.Short()
	var cached dto.SeriesDTO
	if hit, err := redis.GetJSON(ctx, key, &cached); err != nil {
		log.WarnContext(ctx, "read series cache failed", "key", key, "err", err)
	} else if hit {
		return &cached, nil
	}

	resolved, err := s.resolver.Resolve(ctx, ResolveRequest{Workspace: workspace})
	if err != nil {
		return nil, err
	}
	ref := s.clock.Today()
	data := filterDataset(resolved.Data, tag, ref)
	series := &dto.SeriesDTO{
		Workspace:     workspace,
		Period:        string(tag),
		ReferenceDate: ref,
		Source:        string(resolved.Source),
		Series:        aggregate.BuildSeries(data.Followers, data.Visitors, data.Content),
	}

	if err = redis.SetWithMidnightExpiration(ctx, key, series, s.clock.Now()); err != nil {
		log.WarnContext(ctx, "write series cache failed", "key", key, "err", err)
	}
	return series, nil
}

// GetMetricSeries 单个指标的序列，用于导出
func (s *metricsServiceImpl) GetMetricSeries(ctx context.Context, workspace string, tag period.Tag, metric aggregate.Metric) ([]aggregate.Point, error) {
	series, err := s.GetSeries(ctx, workspace, tag)
	if err != nil {
		return nil, err
	}
	points, ok := series.Series[metric]
	if !ok {
		return nil, ErrParamInvalid
	}
	return points, nil
}

func (s *metricsServiceImpl) ListPosts(ctx context.Context, workspace string) ([]*dto.PostDTO, error) {
	posts, err := s.metricsRepo.LoadPosts(ctx, workspace)
	if err != nil {
		return nil, err
	}
	list := make([]*dto.PostDTO, 0, len(posts))
	if err = copier.Copy(&list, &posts); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *metricsServiceImpl) GetPost(ctx context.Context, workspace, title string) (*dto.PostDTO, error) {
	if title == "" {
		return nil, ErrParamInvalid
	}
	post, err := s.metricsRepo.GetPostByTitle(ctx, workspace, title)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	out := &dto.PostDTO{}
	if err = copier.Copy(out, post); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *metricsServiceImpl) ListWorkspaces(ctx context.Context) ([]string, error) {
	var cached []string
	if hit, err := redis.GetJSON(ctx, consts.WorkspaceListKey, &cached); err == nil && hit {
		return cached, nil
	}
	names, err := s.metricsRepo.ListWorkspaces(ctx)
	if err != nil {
		return nil, err
	}
	if err = redis.SetWithMidnightExpiration(ctx, consts.WorkspaceListKey, names, s.clock.Now()); err != nil {
		log.WarnContext(ctx, "write workspace cache failed", "err", err)
	}
	return names, nil
}

// InvalidateCache 数据变更后清理该工作区的所有缓存
func (s *metricsServiceImpl) InvalidateCache(ctx context.Context, workspace string) error {
	if _, err := redis.DeleteByPrefix(ctx, consts.SummaryKey+workspace+":"); err != nil {
		return err
	}
	if _, err := redis.DeleteByPrefix(ctx, consts.SeriesKey+workspace+":"); err != nil {
		return err
	}
	return redis.DeleteKey(ctx, consts.WorkspaceListKey)
}

// WarmCache 预先计算四个区间的汇总
func (s *metricsServiceImpl) WarmCache(ctx context.Context, workspace string) error {
	for _, tag := range period.Tags {
		if _, err := s.GetSummary(ctx, workspace, tag); err != nil {
			return err
		}
	}
	return nil
}

// Summarize 对解析结果做区间过滤与汇总
func Summarize(resolved *Resolved, tag period.Tag, ref model.Date) *dto.SummaryDTO {
	data := filterDataset(resolved.Data, tag, ref)
	summary := &dto.SummaryDTO{
		Workspace:     resolved.Workspace,
		Period:        string(tag),
		ReferenceDate: ref,
		Source:        string(resolved.Source),
		Totals:        aggregate.Sum(data.Followers, data.Visitors, data.Content),
	}
	// 区间内无内容数据时平均值未定义，保持 null
	if avg, ok := aggregate.AverageEngagement(data.Content); ok {
		summary.AverageEngagement = &avg
		summary.EngagementDefined = true
	}
	return summary
}

func filterDataset(ds *model.Dataset, tag period.Tag, ref model.Date) *model.Dataset {
	return &model.Dataset{
		Followers: period.Filter(ds.Followers, tag, ref),
		Visitors:  period.Filter(ds.Visitors, tag, ref),
		Content:   period.Filter(ds.Content, tag, ref),
		Posts:     period.Filter(ds.Posts, tag, ref),
	}
}

func summaryKey(workspace string, tag period.Tag) string {
	return consts.SummaryKey + workspace + ":" + tag.Short()
}
