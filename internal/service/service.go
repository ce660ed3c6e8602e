package service

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shaikhasif69/GPM/config"
	"github.com/shaikhasif69/GPM/internal/repository"
	pkgerrors "github.com/shaikhasif69/GPM/pkg/errors"
	"github.com/shaikhasif69/GPM/pkg/jwt"
	"github.com/shaikhasif69/GPM/pkg/redis"
)

// ErrInvalidID 请求中的 ID 不是合法的 ObjectID
var ErrInvalidID = pkgerrors.ErrInvalidID

// Service 所有 Service 的聚合入口
type Service struct {
	Auth        AuthService
	User        UserService
	Project     ProjectService
	FavoriteDay FavoriteDayService
	Export      ExportService
}

// NewService 创建 Service 聚合
// rdb 可为 nil（Redis 不可用时登出仅在客户端生效）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	cost := cfg.Auth.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	var blacklist TokenBlacklist
	if rdb != nil {
		blacklist = rdb
	}

	return &Service{
		Auth:        NewAuthService(repo, jwtMgr, blacklist, logger),
		User:        NewUserService(repo, cost, logger),
		Project:     NewProjectService(repo, logger),
		FavoriteDay: NewFavoriteDayService(repo, logger),
		Export:      NewExportService(repo, logger),
	}
}

// parseID 将十六进制字符串解析为 ObjectID
func parseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

// parseIDs 批量解析，任一非法即整体失败
func parseIDs(hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := parseID(h)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// hexIDs ObjectID 列表转十六进制字符串
func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}
