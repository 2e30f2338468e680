package repository

import (
	"context"
	"errors"
	"sort"

	"Pulseboard/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertBatchSize = 500

// Entry 删除选择器中的一行
type Entry struct {
	ID        uint64     `json:"id"`
	Date      model.Date `json:"date"`
	PostTitle string     `json:"post_title,omitempty"`
}

type MetricsRepo interface {
	SaveFollowers(ctx context.Context, workspace string, rows []*model.FollowerRecord) error
	SaveVisitorMetrics(ctx context.Context, workspace string, rows []*model.VisitorMetricRecord) error
	SaveContentMetrics(ctx context.Context, workspace string, rows []*model.ContentMetricRecord) error
	SavePosts(ctx context.Context, workspace string, rows []*model.PostRecord) error
	// SaveDataset 四类数据在同一个事务中写入
	SaveDataset(ctx context.Context, workspace string, ds *model.Dataset) error

	LoadFollowers(ctx context.Context, workspace string) ([]*model.FollowerRecord, error)
	LoadVisitorMetrics(ctx context.Context, workspace string) ([]*model.VisitorMetricRecord, error)
	LoadContentMetrics(ctx context.Context, workspace string) ([]*model.ContentMetricRecord, error)
	LoadPosts(ctx context.Context, workspace string) ([]*model.PostRecord, error)
	GetPostByTitle(ctx context.Context, workspace, title string) (*model.PostRecord, error)

	HasWorkspaceData(ctx context.Context, workspace string) (bool, error)
	ListWorkspaces(ctx context.Context) ([]string, error)

	ListEntries(ctx context.Context, table model.Table, workspace string, limit int) ([]*Entry, error)
	DeleteByID(ctx context.Context, table model.Table, workspace string, id uint64) (bool, error)
	DeleteByDateRange(ctx context.Context, table model.Table, workspace string, start, end model.Date) (int64, error)
}

type metricsRepoImpl struct {
	db *gorm.DB
}

func NewMetricsRepository(db *gorm.DB) MetricsRepo {
	return &metricsRepoImpl{db: db}
}

var (
	followerConflict = clause.OnConflict{
		Columns:   []clause.Column{{Name: "workspace"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_followers"}),
	}
	visitorConflict = clause.OnConflict{
		Columns:   []clause.Column{{Name: "workspace"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_unique_visitors", "total_page_views"}),
	}
	contentConflict = clause.OnConflict{
		Columns: []clause.Column{{Name: "workspace"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"unique_impressions",
			"clicks_total",
			"reactions_total",
			"reposts_total",
			"engagement_rate",
		}),
	}
	postConflict = clause.OnConflict{
		Columns: []clause.Column{{Name: "workspace"}, {Name: "post_title"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"post_link",
			"created_date",
			"impressions",
			"clicks",
			"click_through_rate",
			"likes",
			"comments",
			"reposts",
			"follows",
			"engagement_rate",
		}),
	}
)

// upsert 复制后写入，不修改调用方的数据；整行按自然键覆盖
func upsert[T any](tx *gorm.DB, rows []*T, conflict clause.OnConflict, stamp func(*T)) error {
	if len(rows) == 0 {
		return nil
	}
	batch := make([]T, len(rows))
	for i, row := range rows {
		batch[i] = *row
		stamp(&batch[i])
	}
	return tx.Clauses(conflict).CreateInBatches(&batch, upsertBatchSize).Error
}

func (r *metricsRepoImpl) SaveFollowers(ctx context.Context, workspace string, rows []*model.FollowerRecord) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveFollowers(tx, workspace, rows)
	})
}

func (r *metricsRepoImpl) SaveVisitorMetrics(ctx context.Context, workspace string, rows []*model.VisitorMetricRecord) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveVisitors(tx, workspace, rows)
	})
}

func (r *metricsRepoImpl) SaveContentMetrics(ctx context.Context, workspace string, rows []*model.ContentMetricRecord) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveContent(tx, workspace, rows)
	})
}

func (r *metricsRepoImpl) SavePosts(ctx context.Context, workspace string, rows []*model.PostRecord) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return savePosts(tx, workspace, rows)
	})
}

func (r *metricsRepoImpl) SaveDataset(ctx context.Context, workspace string, ds *model.Dataset) error {
	if ds.Empty() {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveFollowers(tx, workspace, ds.Followers); err != nil {
			return err
		}
		if err := saveVisitors(tx, workspace, ds.Visitors); err != nil {
			return err
		}
		if err := saveContent(tx, workspace, ds.Content); err != nil {
			return err
		}
		return savePosts(tx, workspace, ds.Posts)
	})
}

func saveFollowers(tx *gorm.DB, workspace string, rows []*model.FollowerRecord) error {
	return upsert(tx, rows, followerConflict, func(m *model.FollowerRecord) {
		m.ID, m.Workspace = 0, workspace
	})
}

func saveVisitors(tx *gorm.DB, workspace string, rows []*model.VisitorMetricRecord) error {
	return upsert(tx, rows, visitorConflict, func(m *model.VisitorMetricRecord) {
		m.ID, m.Workspace = 0, workspace
	})
}

func saveContent(tx *gorm.DB, workspace string, rows []*model.ContentMetricRecord) error {
	return upsert(tx, rows, contentConflict, func(m *model.ContentMetricRecord) {
		m.ID, m.Workspace = 0, workspace
	})
}

func savePosts(tx *gorm.DB, workspace string, rows []*model.PostRecord) error {
	return upsert(tx, rows, postConflict, func(m *model.PostRecord) {
		m.ID, m.Workspace = 0, workspace
	})
}

func (r *metricsRepoImpl) LoadFollowers(ctx context.Context, workspace string) ([]*model.FollowerRecord, error) {
	rows := make([]*model.FollowerRecord, 0)
	err := r.db.WithContext(ctx).
		Where("workspace = ?", workspace).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *metricsRepoImpl) LoadVisitorMetrics(ctx context.Context, workspace string) ([]*model.VisitorMetricRecord, error) {
	rows := make([]*model.VisitorMetricRecord, 0)
	err := r.db.WithContext(ctx).
		Where("workspace = ?", workspace).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *metricsRepoImpl) LoadContentMetrics(ctx context.Context, workspace string) ([]*model.ContentMetricRecord, error) {
	rows := make([]*model.ContentMetricRecord, 0)
	err := r.db.WithContext(ctx).
		Where("workspace = ?", workspace).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *metricsRepoImpl) LoadPosts(ctx context.Context, workspace string) ([]*model.PostRecord, error) {
	rows := make([]*model.PostRecord, 0)
	err := r.db.WithContext(ctx).
		Where("workspace = ?", workspace).
		Order("created_date ASC").
		Order("post_title ASC").
		Find(&rows).Error
	return rows, err
}

func (r *metricsRepoImpl) GetPostByTitle(ctx context.Context, workspace, title string) (*model.PostRecord, error) {
	var post model.PostRecord
	err := r.db.WithContext(ctx).
		Where("workspace = ? AND post_title = ?", workspace, title).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// HasWorkspaceData 只看三张时间序列表，帖子表不参与判断
func (r *metricsRepoImpl) HasWorkspaceData(ctx context.Context, workspace string) (bool, error) {
	for _, t := range []model.Table{model.TableFollowers, model.TableVisitorMetrics, model.TableContentMetrics} {
		var count int64
		err := r.db.WithContext(ctx).
			Model(t.NewModel()).
			Where("workspace = ?", workspace).
			Count(&count).Error
		if err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *metricsRepoImpl) ListWorkspaces(ctx context.Context) ([]string, error) {
	set := make(map[string]struct{})
	for _, t := range model.Tables {
		var names []string
		err := r.db.WithContext(ctx).
			Model(t.NewModel()).
			Distinct("workspace").
			Pluck("workspace", &names).Error
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			set[n] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

// ListEntries 最新的在前，供删除时选择
func (r *metricsRepoImpl) ListEntries(ctx context.Context, table model.Table, workspace string, limit int) ([]*Entry, error) {
	columns := []string{"id", "date"}
	if table == model.TablePosts {
		columns = []string{"id", "created_date AS date", "post_title"}
	}

	entries := make([]*Entry, 0)
	err := r.db.WithContext(ctx).
		Model(table.NewModel()).
		Select(columns).
		Where("workspace = ?", workspace).
		Order(table.DateColumn() + " DESC").
		Order("id DESC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}

func (r *metricsRepoImpl) DeleteByID(ctx context.Context, table model.Table, workspace string, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).Where("workspace = ?", workspace).Delete(table.NewModel(), id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteByDateRange 闭区间删除，返回删除的行数
func (r *metricsRepoImpl) DeleteByDateRange(ctx context.Context, table model.Table, workspace string, start, end model.Date) (int64, error) {
	column := clause.Column{Name: table.DateColumn()}
	result := r.db.WithContext(ctx).
		Where("workspace = ?", workspace).
		Where(clause.Gte{Column: column, Value: start}).
		Where(clause.Lte{Column: column, Value: end}).
		Delete(table.NewModel())
	return result.RowsAffected, result.Error
}
