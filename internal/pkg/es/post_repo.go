package es

import (
	"context"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/conflicts"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// MaxSearchDepth from+size 的上限
const MaxSearchDepth = 400

// PostDoc 写入 ES 的帖子文档，只保留检索和列表展示需要的字段
type PostDoc struct {
	Workspace      string  `json:"workspace"`
	PostTitle      string  `json:"post_title"`
	PostLink       string  `json:"post_link"`
	CreatedDate    string  `json:"created_date"`
	Impressions    int64   `json:"impressions"`
	EngagementRate float64 `json:"engagement_rate"`
}

type PostRepo interface {
	// ReplaceWorkspace 清掉工作区原有文档后重新写入
	ReplaceWorkspace(ctx context.Context, workspace string, docs []*PostDoc) error
	Search(ctx context.Context, workspace, queryText string, from, size int) ([]*PostDoc, error)
}

type PostRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewPostRepo(client *elasticsearch.TypedClient) PostRepo {
	return &PostRepoImpl{client: client}
}

// DocID 同一工作区同一标题总是得到同一个文档ID
func DocID(workspace, title string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(workspace+"\x00"+title)).String()
}

func (s *PostRepoImpl) ReplaceWorkspace(ctx context.Context, workspace string, docs []*PostDoc) error {
	resp, err := s.client.DeleteByQuery(PostIndex).
		Query(workspaceFilter(workspace)).
		Conflicts(conflicts.Proceed).
		Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		// 索引还不存在
		if !errors.As(err, &e) || e.Status != NotFoundCode {
			return fmt.Errorf("post index: clear workspace failed: %w", err)
		}
	} else if len(resp.Failures) != 0 {
		return fmt.Errorf("post index: clear workspace has failures, count: %d", len(resp.Failures))
	}

	for _, doc := range docs {
		_, err = s.client.Index(PostIndex).
			Id(DocID(doc.Workspace, doc.PostTitle)).
			Document(doc).
			Do(ctx)
		if err != nil {
			var e *types.ElasticsearchError
			if errors.As(err, &e) && e.Status == ConflictCode {
				continue
			}
			return fmt.Errorf("post index: index %q failed: %w", doc.PostTitle, err)
		}
	}
	return nil
}

func (s *PostRepoImpl) Search(ctx context.Context, workspace, queryText string, from, size int) ([]*PostDoc, error) {
	if from >= MaxSearchDepth {
		return []*PostDoc{}, nil
	}
	if from+size > MaxSearchDepth {
		size = MaxSearchDepth - from
	}

	req := s.client.Search().
		Index(PostIndex).
		Query(&types.Query{
			Bool: &types.BoolQuery{
				Must: []types.Query{
					{
						Match: map[string]types.MatchQuery{
							"post_title": {Query: queryText},
						},
					},
				},
				Filter: []types.Query{*workspaceFilter(workspace)},
			},
		}).
		From(from).
		Size(size)

	return s.executeSearch(ctx, req)
}

func (s *PostRepoImpl) executeSearch(ctx context.Context, req *search.Search) ([]*PostDoc, error) {
	resp, err := req.Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == NotFoundCode {
			return []*PostDoc{}, nil
		}
		return nil, err
	}

	results := make([]*PostDoc, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		var doc PostDoc
		if hit.Source_ == nil {
			continue
		}
		if err = json.Unmarshal(hit.Source_, &doc); err != nil {
			continue
		}
		results = append(results, &doc)
	}
	return results, nil
}

// workspaceFilter 依赖动态映射生成的 keyword 子字段
func workspaceFilter(workspace string) *types.Query {
	return &types.Query{
		Term: map[string]types.TermQuery{
			"workspace.keyword": {Value: workspace},
		},
	}
}
