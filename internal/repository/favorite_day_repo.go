package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shaikhasif69/GPM/internal/model"
)

// FavoriteDayRepository 收藏日数据访问接口
type FavoriteDayRepository interface {
	Create(ctx context.Context, fav *model.FavoriteDay) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.FavoriteDay, error)
	FindByUserAndDay(ctx context.Context, userID primitive.ObjectID, day time.Time) (*model.FavoriteDay, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.FavoriteDay, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// favoriteDayRepo FavoriteDayRepository 的 MongoDB 实现
type favoriteDayRepo struct {
	coll *mongo.Collection
}

// NewFavoriteDayRepo 创建 FavoriteDayRepository 实例
func NewFavoriteDayRepo(db *mongo.Database) FavoriteDayRepository {
	return &favoriteDayRepo{coll: db.Collection(model.CollectionFavoriteDays)}
}

func (r *favoriteDayRepo) Create(ctx context.Context, fav *model.FavoriteDay) error {
	if fav.ID.IsZero() {
		fav.ID = primitive.NewObjectID()
	}
	fav.Date = fav.Date.UTC()
	fav.Day = model.DayOf(fav.Date)
	if fav.CreatedAt.IsZero() {
		fav.CreatedAt = time.Now().UTC()
	}

	_, err := r.coll.InsertOne(ctx, fav)
	return translateWriteErr(err)
}

func (r *favoriteDayRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.FavoriteDay, error) {
	var fav model.FavoriteDay
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&fav); err != nil {
		return nil, err
	}
	return &fav, nil
}

// FindByUserAndDay 查询 day 所在 UTC 自然日 [00:00:00.000, 23:59:59.999] 内的收藏
// 按原始 date 区间匹配，兼容没有 day 字段的历史文档
func (r *favoriteDayRepo) FindByUserAndDay(ctx context.Context, userID primitive.ObjectID, day time.Time) (*model.FavoriteDay, error) {
	start := model.DayOf(day)
	end := start.Add(24*time.Hour - time.Millisecond)

	var fav model.FavoriteDay
	err := r.coll.FindOne(ctx, bson.M{
		"userId": userID,
		"date":   bson.M{"$gte": start, "$lte": end},
	}).Decode(&fav)
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

func (r *favoriteDayRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.FavoriteDay, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}

	favs := make([]model.FavoriteDay, 0)
	if err := cur.All(ctx, &favs); err != nil {
		return nil, err
	}
	return favs, nil
}

func (r *favoriteDayRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
