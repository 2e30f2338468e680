package service

import (
	"context"

	"Pulseboard/internal/model"
	"Pulseboard/internal/repository"
)

// Source 本次使用的数据来源
type Source string

const (
	SourceFiles    Source = "files"
	SourceDatabase Source = "database"
)

// Supplied 本次请求中新提取的数据类别
type Supplied struct {
	Followers bool
	Visitors  bool
	Content   bool
}

// All 三类指标文件都已提供
func (s Supplied) All() bool {
	return s.Followers && s.Visitors && s.Content
}

// ResolveRequest 一次解析所需的全部输入
type ResolveRequest struct {
	Workspace string
	// Fresh 本次上传提取到的数据，可以为 nil
	Fresh    *model.Dataset
	Supplied Supplied
}

// Resolved 解析结果，Data 的四类数据都不为 nil
type Resolved struct {
	Workspace string
	Source    Source
	Data      *model.Dataset
}

type WorkspaceResolver interface {
	Resolve(ctx context.Context, req ResolveRequest) (*Resolved, error)
}

type workspaceResolverImpl struct {
	metricsRepo repository.MetricsRepo
}

func NewWorkspaceResolver(metricsRepo repository.MetricsRepo) WorkspaceResolver {
	return &workspaceResolverImpl{metricsRepo: metricsRepo}
}

// Resolve 三类文件齐全时使用新文件，否则读库，库中也没有时返回 ErrNoData
// 只做选择，不做持久化
func (s *workspaceResolverImpl) Resolve(ctx context.Context, req ResolveRequest) (*Resolved, error) {
	if req.Workspace == "" {
		return nil, ErrParamInvalid
	}

	if req.Supplied.All() && req.Fresh != nil {
		data := &model.Dataset{
			Followers: nonNil(req.Fresh.Followers),
			Visitors:  nonNil(req.Fresh.Visitors),
			Content:   nonNil(req.Fresh.Content),
			Posts:     req.Fresh.Posts,
		}
		// 内容文件里没有帖子表时沿用库里的帖子
		if data.Posts == nil {
			posts, err := s.metricsRepo.LoadPosts(ctx, req.Workspace)
			if err != nil {
				return nil, err
			}
			data.Posts = posts
		}
		return &Resolved{Workspace: req.Workspace, Source: SourceFiles, Data: data}, nil
	}

	has, err := s.metricsRepo.HasWorkspaceData(ctx, req.Workspace)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, ErrNoData
	}

	data, err := s.load(ctx, req.Workspace)
	if err != nil {
		return nil, err
	}
	return &Resolved{Workspace: req.Workspace, Source: SourceDatabase, Data: data}, nil
}

func (s *workspaceResolverImpl) load(ctx context.Context, workspace string) (*model.Dataset, error) {
	followers, err := s.metricsRepo.LoadFollowers(ctx, workspace)
	if err != nil {
		return nil, err
	}
	visitors, err := s.metricsRepo.LoadVisitorMetrics(ctx, workspace)
	if err != nil {
		return nil, err
	}
	content, err := s.metricsRepo.LoadContentMetrics(ctx, workspace)
	if err != nil {
		return nil, err
	}
	posts, err := s.metricsRepo.LoadPosts(ctx, workspace)
	if err != nil {
		return nil, err
	}
	return &model.Dataset{
		Followers: followers,
		Visitors:  visitors,
		Content:   content,
		Posts:     posts,
	}, nil
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
