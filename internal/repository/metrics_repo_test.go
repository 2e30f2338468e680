package repository_test

import (
	"context"
	"testing"
	"time"

	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/database"
	"Pulseboard/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGormDB(database.MemoryConfig(t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func day(m time.Month, d int) model.Date {
	return model.NewDate(2024, m, d)
}

func TestSaveFollowersIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMetricsRepository(newTestDB(t))

	rows := []*model.FollowerRecord{
		{Date: day(time.January, 2), TotalFollowers: 5},
		{Date: day(time.January, 1), TotalFollowers: 3},
	}
	require.NoError(t, repo.SaveFollowers(ctx, "acme", rows))
	require.NoError(t, repo.SaveFollowers(ctx, "acme", rows))

	got, err := repo.LoadFollowers(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// 升序读出，字段原样往返
	assert.Equal(t, "2024-01-01", got[0].Date.String())
	assert.Equal(t, int64(3), got[0].TotalFollowers)
	assert.Equal(t, "2024-01-02", got[1].Date.String())
	assert.Equal(t, int64(5), got[1].TotalFollowers)
	assert.Equal(t, "acme", got[1].Workspace)

	// 调用方的数据不被修改
	assert.Empty(t, rows[0].Workspace)
}

func TestSaveReplacesWholeRow(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMetricsRepository(newTestDB(t))

	require.NoError(t, repo.SaveContentMetrics(ctx, "acme", []*model.ContentMetricRecord{
		{Date: day(time.May, 1), UniqueImpressions: 10, ClicksTotal: 2, ReactionsTotal: 4, RepostsTotal: 1, EngagementRate: 0.2},
	}))
	require.NoError(t, repo.SaveContentMetrics(ctx, "acme", []*model.ContentMetricRecord{
		{Date: day(time.May, 1), UniqueImpressions: 12, EngagementRate: 0.1},
	}))

	got, err := repo.LoadContentMetrics(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(12), got[0].UniqueImpressions)
	assert.Equal(t, int64(0), got[0].ClicksTotal)
	assert.Equal(t, int64(0), got[0].ReactionsTotal)
	assert.InDelta(t, 0.1, got[0].EngagementRate, 1e-9)
}

func TestWorkspacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMetricsRepository(newTestDB(t))

	require.NoError(t, repo.SaveVisitorMetrics(ctx, "acme", []*model.VisitorMetricRecord{
		{Date: day(time.March, 1), TotalUniqueVisitors: 1, TotalPageViews: 2},
	}))
	require.NoError(t, repo.SaveVisitorMetrics(ctx, "globex", []*model.VisitorMetricRecord{
		{Date: day(time.March, 1), TotalUniqueVisitors: 7, TotalPageViews: 9},
	}))

	acme, err := repo.LoadVisitorMetrics(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, acme, 1)
	assert.Equal(t, int64(1), acme[0].TotalUniqueVisitors)

	names, err := repo.ListWorkspaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme", "globex"}, names)
}

func TestEmptyBatchIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMetricsRepository(newTestDB(t))

	require.NoError(t, repo.SaveFollowers(ctx, "acme", nil))
	require.NoError(t, repo.SaveDataset(ctx, "acme", &model.Dataset{}))

	has, err := repo.HasWorkspaceData(ctx, "acme")
	require.NoError(t, err)
	assert.False(t, has)

	rows, err := repo.LoadPosts(ctx, "acme")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestHasWorkspaceDataIgnoresPosts(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMetricsRepository(newTestDB(t))

	require.NoError(t, repo.SavePosts(ctx, "acme", []*model.PostRecord{
		{PostTitle: "Hello", CreatedDate: day(time.April, 2), Impressions: 3},
	}))
	has, err := repo.HasWorkspaceData(ctx, "acme")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, repo.SaveFollowers(ctx, "acme", []*model.FollowerRecord{{Date: day(time.April, 2)}}))
	has, err = repo.HasWorkspaceData(ctx, "acme")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestPostsUpsertByTitle(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMetricsRepository(newTestDB(t))

	require.NoError(t, repo.SavePosts(ctx, "acme", []*model.PostRecord{
		{PostTitle: "Launch", PostLink: "a", CreatedDate: day(time.February, 1), Likes: 1},
		{PostTitle: "Recap", PostLink: "b", CreatedDate: day(time.February, 3), Likes: 2},
	}))
	require.NoError(t, repo.SavePosts(ctx, "acme", []*model.PostRecord{
		{PostTitle: "Launch", PostLink: "a2", CreatedDate: day(time.February, 1), Likes: 9},
	}))

	posts, err := repo.LoadPosts(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Launch", posts[0].PostTitle)
	assert.Equal(t, int64(9), posts[0].Likes)
	assert.Equal(t, "a2", posts[0].PostLink)

	post, err := repo.GetPostByTitle(ctx, "acme", "Recap")
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "2024-02-03", post.CreatedDate.String())

	post, err = repo.GetPostByTitle(ctx, "acme", "Missing")
	require.NoError(t, err)
	assert.Nil(t, post)
}

func TestDeleteByDateRange(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMetricsRepository(newTestDB(t))

	var rows []*model.FollowerRecord
	for d := 1; d <= 5; d++ {
		rows = append(rows, &model.FollowerRecord{Date: day(time.January, d), TotalFollowers: int64(d)})
	}
	require.NoError(t, repo.SaveFollowers(ctx, "acme", rows))
	require.NoError(t, repo.SaveFollowers(ctx, "globex", rows))

	n, err := repo.DeleteByDateRange(ctx, model.TableFollowers, "acme", day(time.January, 2), day(time.January, 4))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	left, err := repo.LoadFollowers(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, left, 2)
	assert.Equal(t, "2024-01-01", left[0].Date.String())
	assert.Equal(t, "2024-01-05", left[1].Date.String())

	other, err := repo.LoadFollowers(ctx, "globex")
	require.NoError(t, err)
	assert.Len(t, other, 5)

	n, err = repo.DeleteByDateRange(ctx, model.TableFollowers, "acme", day(time.January, 4), day(time.January, 2))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeletePostsByCreatedDate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMetricsRepository(newTestDB(t))

	require.NoError(t, repo.SavePosts(ctx, "acme", []*model.PostRecord{
		{PostTitle: "a", CreatedDate: day(time.June, 1)},
		{PostTitle: "b", CreatedDate: day(time.June, 10)},
	}))

	n, err := repo.DeleteByDateRange(ctx, model.TablePosts, "acme", day(time.June, 1), day(time.June, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestListEntriesAndDeleteByID(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMetricsRepository(newTestDB(t))

	require.NoError(t, repo.SaveFollowers(ctx, "acme", []*model.FollowerRecord{
		{Date: day(time.January, 1)},
		{Date: day(time.January, 3)},
		{Date: day(time.January, 2)},
	}))

	entries, err := repo.ListEntries(ctx, model.TableFollowers, "acme", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2024-01-03", entries[0].Date.String())
	assert.Equal(t, "2024-01-02", entries[1].Date.String())

	// 其他工作区删不到
	ok, err := repo.DeleteByID(ctx, model.TableFollowers, "globex", entries[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DeleteByID(ctx, model.TableFollowers, "acme", entries[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeleteByID(ctx, model.TableFollowers, "acme", entries[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)

	left, err := repo.LoadFollowers(ctx, "acme")
	require.NoError(t, err)
	assert.Len(t, left, 2)
}

func TestListEntriesForPosts(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMetricsRepository(newTestDB(t))

	require.NoError(t, repo.SavePosts(ctx, "acme", []*model.PostRecord{
		{PostTitle: "old", CreatedDate: day(time.March, 1)},
		{PostTitle: "new", CreatedDate: day(time.March, 9)},
	}))

	entries, err := repo.ListEntries(ctx, model.TablePosts, "acme", 100)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "new", entries[0].PostTitle)
	assert.Equal(t, "2024-03-09", entries[0].Date.String())
}

func TestSaveDatasetAtomic(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMetricsRepository(newTestDB(t))

	ds := &model.Dataset{
		Followers: []*model.FollowerRecord{{Date: day(time.July, 1), TotalFollowers: 2}},
		Visitors:  []*model.VisitorMetricRecord{{Date: day(time.July, 1), TotalUniqueVisitors: 4}},
		Content:   []*model.ContentMetricRecord{{Date: day(time.July, 1), UniqueImpressions: 8}},
		Posts:     []*model.PostRecord{{PostTitle: "p", CreatedDate: day(time.July, 1)}},
	}
	require.NoError(t, repo.SaveDataset(ctx, "acme", ds))

	for _, load := range []func() (int, error){
		func() (int, error) { r, err := repo.LoadFollowers(ctx, "acme"); return len(r), err },
		func() (int, error) { r, err := repo.LoadVisitorMetrics(ctx, "acme"); return len(r), err },
		func() (int, error) { r, err := repo.LoadContentMetrics(ctx, "acme"); return len(r), err },
		func() (int, error) { r, err := repo.LoadPosts(ctx, "acme"); return len(r), err },
	} {
		n, err := load()
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	}
}
