package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/shaikhasif69/GPM/internal/dto"
	"github.com/shaikhasif69/GPM/internal/model"
	"github.com/shaikhasif69/GPM/internal/repository"
	pkgerrors "github.com/shaikhasif69/GPM/pkg/errors"
)

// ── 收藏日模块业务错误 ──

var (
	ErrFavoriteDayNotFound = errors.New("收藏日不存在")
	ErrFavoriteDayExists   = errors.New("该日期已收藏")
	ErrInvalidDate         = errors.New("日期格式无效")
)

// 可接受的日期格式，无时区信息的按 UTC 解析
var favoriteDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FavoriteDayService 收藏日业务接口
type FavoriteDayService interface {
	Add(ctx context.Context, req *dto.AddFavoriteDayRequest) (*dto.FavoriteDayResponse, error)
	Remove(ctx context.Context, id string) error
	ListForUser(ctx context.Context, userID string) ([]dto.FavoriteDayResponse, error)
}

type favoriteDayService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewFavoriteDayService 创建 FavoriteDayService 实例
func NewFavoriteDayService(repo *repository.Repository, logger *zap.Logger) FavoriteDayService {
	return &favoriteDayService{repo: repo, logger: logger}
}

// ────────────────────── Add ──────────────────────

// Add 收藏某一天
//
// 同一用户同一 UTC 自然日只允许一条记录：先做区间预检，
// 并发写入由 (userId, day) 唯一索引在事务内拒绝。
// 插入收藏与写入用户引用在同一事务中完成。
func (s *favoriteDayService) Add(ctx context.Context, req *dto.AddFavoriteDayRequest) (*dto.FavoriteDayResponse, error) {
	userID, err := parseID(req.UserID)
	if err != nil {
		return nil, err
	}

	date, err := parseFavoriteDate(req.Date)
	if err != nil {
		return nil, err
	}

	// 1. 校验用户存在
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, err
	}

	// 2. 同日预检
	if _, err := s.repo.FavoriteDay.FindByUserAndDay(ctx, userID, date); err == nil {
		return nil, ErrFavoriteDayExists
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		s.logger.Error("查询收藏日失败", zap.Error(err))
		return nil, err
	}

	// 3. 事务：插入收藏 + 追加用户引用
	fav := &model.FavoriteDay{
		UserID:      userID,
		Date:        date,
		WeatherData: req.WeatherData,
	}
	err = s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.FavoriteDay.Create(txCtx, fav); err != nil {
			return err
		}
		return s.repo.User.PushFavoriteDay(txCtx, userID, fav.ID)
	})
	if err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrDuplicateKey):
			return nil, ErrFavoriteDayExists
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrUserNotFound
		}
		s.logger.Error("添加收藏日失败", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("收藏日已添加",
		zap.String("id", fav.ID.Hex()),
		zap.String("user_id", req.UserID),
		zap.Time("day", fav.Day),
	)
	return toFavoriteDayResponse(fav), nil
}

// ────────────────────── Remove ──────────────────────

// Remove 删除收藏，同一事务内从所属用户的 favoriteDays 中移除
func (s *favoriteDayService) Remove(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	fav, err := s.repo.FavoriteDay.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrFavoriteDayNotFound
		}
		s.logger.Error("查询收藏日失败", zap.String("id", id), zap.Error(err))
		return err
	}

	err = s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.User.PullFavoriteDay(txCtx, fav.UserID, fav.ID); err != nil {
			return err
		}
		return s.repo.FavoriteDay.Delete(txCtx, fav.ID)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrFavoriteDayNotFound
		}
		s.logger.Error("删除收藏日失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("收藏日已删除", zap.String("id", id), zap.String("user_id", fav.UserID.Hex()))
	return nil
}

// ────────────────────── ListForUser ──────────────────────

// ListForUser 按日期倒序返回用户的收藏日
func (s *favoriteDayService) ListForUser(ctx context.Context, userID string) ([]dto.FavoriteDayResponse, error) {
	favs, err := loadUserFavorites(ctx, s.repo, s.logger, userID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.FavoriteDayResponse, 0, len(favs))
	for i := range favs {
		result = append(result, *toFavoriteDayResponse(&favs[i]))
	}
	return result, nil
}

// ── 内部辅助方法 ──

// loadUserFavorites 校验用户存在后查询其收藏日（date 倒序）
func loadUserFavorites(ctx context.Context, repo *repository.Repository, logger *zap.Logger, userID string) ([]model.FavoriteDay, error) {
	oid, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	if _, err := repo.User.GetByID(ctx, oid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	favs, err := repo.FavoriteDay.ListByUser(ctx, oid)
	if err != nil {
		logger.Error("查询收藏日列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return favs, nil
}

// parseFavoriteDate 解析请求中的日期，统一转为 UTC
func parseFavoriteDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range favoriteDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

func toFavoriteDayResponse(fav *model.FavoriteDay) *dto.FavoriteDayResponse {
	return &dto.FavoriteDayResponse{
		ID:          fav.ID.Hex(),
		UserID:      fav.UserID.Hex(),
		Date:        fav.Date,
		WeatherData: fav.WeatherData,
		CreatedAt:   fav.CreatedAt,
	}
}
