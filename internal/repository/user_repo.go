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

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error)
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*model.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	PushFavoriteDay(ctx context.Context, userID, favoriteDayID primitive.ObjectID) error
	PullFavoriteDay(ctx context.Context, userID, favoriteDayID primitive.ObjectID) error
}

// userRepo UserRepository 的 MongoDB 实现
type userRepo struct {
	coll *mongo.Collection
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *mongo.Database) UserRepository {
	return &userRepo{coll: db.Collection(model.CollectionUsers)}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.FavoriteDays == nil {
		user.FavoriteDays = []primitive.ObjectID{}
	}
	user.Touch(time.Now())

	_, err := r.coll.InsertOne(ctx, user)
	return translateWriteErr(err)
}

func (r *userRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var user model.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context) ([]model.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0)
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error) {
	users := make([]model.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Update 以 $set 写入 updates 中的字段并返回更新后的文档
// favoriteDays 只由 PushFavoriteDay / PullFavoriteDay 维护，这里不会覆盖
func (r *userRepo) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*model.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range updates {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user model.User
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		return nil, translateWriteErr(err)
	}
	return &user, nil
}

func (r *userRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// PushFavoriteDay 追加收藏日引用；$addToSet 保证同一 ID 只出现一次
func (r *userRepo) PushFavoriteDay(ctx context.Context, userID, favoriteDayID primitive.ObjectID) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$addToSet": bson.M{"favoriteDays": favoriteDayID},
			"$set":      bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// PullFavoriteDay 移除收藏日引用；用户已不存在时视为成功
func (r *userRepo) PullFavoriteDay(ctx context.Context, userID, favoriteDayID primitive.ObjectID) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$pull": bson.M{"favoriteDays": favoriteDayID},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	return err
}
