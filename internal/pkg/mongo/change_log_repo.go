package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const changeLogCollection = "change_log"

type ChangeLogRepo interface {
	Append(ctx context.Context, entry *ChangeLogModel) error
	ListByWorkspace(ctx context.Context, workspace string, limit, offset int64) ([]*ChangeLogModel, error)
}

type changeLogRepoImpl struct {
	col *mongo.Collection
}

func NewChangeLogRepo(db *mongo.Database) ChangeLogRepo {
	return &changeLogRepoImpl{
		col: db.Collection(changeLogCollection),
	}
}

func ensureChangeLogIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(changeLogCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "workspace", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

// Append 插入一条变更记录
func (s *changeLogRepoImpl) Append(ctx context.Context, entry *ChangeLogModel) error {
	_, err := s.col.InsertOne(ctx, entry)
	return err
}

// ListByWorkspace 分页获取工作区的变更记录 (按时间倒序)
func (s *changeLogRepoImpl) ListByWorkspace(ctx context.Context, workspace string, limit, offset int64) ([]*ChangeLogModel, error) {
	filter := bson.M{"workspace": workspace}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	list := make([]*ChangeLogModel, 0)
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}
