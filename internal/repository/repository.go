package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	pkgerrors "github.com/shaikhasif69/GPM/pkg/errors"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	client *mongo.Client

	User        UserRepository
	Project     ProjectRepository
	FavoriteDay FavoriteDayRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(client *mongo.Client, db *mongo.Database) *Repository {
	return &Repository{
		client:      client,
		User:        NewUserRepo(db),
		Project:     NewProjectRepo(db),
		FavoriteDay: NewFavoriteDayRepo(db),
	}
}

// WithTransaction 在 MongoDB 会话事务中执行 fn
//
// fn 收到的 ctx 绑定了会话，其中的所有 Repository 调用都属于同一事务；
// fn 返回错误时整体回滚。驱动会对 TransientTransactionError 自动重试 fn，
// 因此 fn 必须可重入。未注入 client（单元测试）时直接执行 fn。
func (r *Repository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.client == nil {
		return fn(ctx)
	}

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("开启会话失败: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// translateWriteErr 将驱动的唯一索引冲突翻译为 pkgerrors.ErrDuplicateKey
func translateWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", pkgerrors.ErrDuplicateKey, err.Error())
	}
	return err
}
