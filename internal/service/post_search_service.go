package service

import (
	"context"
	log "log/slog"
	"strings"

	"Pulseboard/internal/api/dto"
	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/es"
	"Pulseboard/internal/pkg/util"
	"Pulseboard/internal/repository"

	"github.com/jinzhu/copier"
)

const defaultSearchSize = 20

type PostSearchService interface {
	Search(ctx context.Context, workspace string, query *dto.PostSearchQueryDTO) ([]*dto.PostHitDTO, error)
	// Reindex 用数据库中的帖子重建该工作区的索引
	Reindex(ctx context.Context, workspace string) error
	// PublishIngest 导入完成后重建索引
	PublishIngest(ctx context.Context, event *dto.IngestEventDTO) error
}

type postSearchServiceImpl struct {
	metricsRepo repository.MetricsRepo
	postIndex   es.PostRepo
}

// NewPostSearchService postIndex 为 nil 时在数据库中按标题子串匹配
func NewPostSearchService(metricsRepo repository.MetricsRepo, postIndex es.PostRepo) PostSearchService {
	return &postSearchServiceImpl{
		metricsRepo: metricsRepo,
		postIndex:   postIndex,
	}
}

func (s *postSearchServiceImpl) Search(ctx context.Context, workspace string, query *dto.PostSearchQueryDTO) ([]*dto.PostHitDTO, error) {
	if err := util.ValidateDTO(query); err != nil {
		return nil, ErrParamInvalid
	}
	size := query.Size
	if size == 0 {
		size = defaultSearchSize
	}

	var docs []*es.PostDoc
	var err error
	if s.postIndex != nil {
		docs, err = s.postIndex.Search(ctx, workspace, query.Q, query.From, size)
	} else {
		docs, err = s.scan(ctx, workspace, query.Q, query.From, size)
	}
	if err != nil {
		return nil, err
	}

	hits := make([]*dto.PostHitDTO, 0, len(docs))
	if err = copier.Copy(&hits, &docs); err != nil {
		return nil, err
	}
	return hits, nil
}

func (s *postSearchServiceImpl) Reindex(ctx context.Context, workspace string) error {
	if s.postIndex == nil {
		return nil
	}
	posts, err := s.metricsRepo.LoadPosts(ctx, workspace)
	if err != nil {
		return err
	}
	docs := make([]*es.PostDoc, 0, len(posts))
	for _, p := range posts {
		docs = append(docs, toPostDoc(workspace, p))
	}
	if err = s.postIndex.ReplaceWorkspace(ctx, workspace, docs); err != nil {
		return err
	}
	log.InfoContext(ctx, "post index rebuilt", "posts", len(docs))
	return nil
}

func (s *postSearchServiceImpl) PublishIngest(ctx context.Context, event *dto.IngestEventDTO) error {
	return s.Reindex(ctx, event.Workspace)
}

// scan 不区分大小写的标题子串匹配，顺序与 LoadPosts 一致
func (s *postSearchServiceImpl) scan(ctx context.Context, workspace, queryText string, from, size int) ([]*es.PostDoc, error) {
	posts, err := s.metricsRepo.LoadPosts(ctx, workspace)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(queryText))
	docs := make([]*es.PostDoc, 0)
	for _, p := range posts {
		if !strings.Contains(strings.ToLower(p.PostTitle), needle) {
			continue
		}
		docs = append(docs, toPostDoc(workspace, p))
	}
	if from >= len(docs) {
		return []*es.PostDoc{}, nil
	}
	return docs[from:min(from+size, len(docs))], nil
}

func toPostDoc(workspace string, p *model.PostRecord) *es.PostDoc {
	return &es.PostDoc{
		Workspace:      workspace,
		PostTitle:      p.PostTitle,
		PostLink:       p.PostLink,
		CreatedDate:    p.CreatedDate.String(),
		Impressions:    p.Impressions,
		EngagementRate: p.EngagementRate,
	}
}
