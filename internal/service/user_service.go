package service

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shaikhasif69/GPM/internal/dto"
	"github.com/shaikhasif69/GPM/internal/model"
	"github.com/shaikhasif69/GPM/internal/repository"
	pkgerrors "github.com/shaikhasif69/GPM/pkg/errors"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound    = errors.New("用户不存在")
	ErrEmailExists     = errors.New("邮箱已被使用")
	ErrUserNameEmpty   = errors.New("用户名不能为空")
	ErrInvalidRole     = errors.New("无效的角色")
	ErrPasswordTooLong = errors.New("密码长度不能超过 72 字节")
)

// bcrypt 只接受不超过 72 字节的口令，binding 的 max 按字符计数
const maxPasswordBytes = 72

// UserService 用户业务接口
type UserService interface {
	List(ctx context.Context) ([]dto.UserResponse, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	repo       *repository.Repository
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, bcryptCost int, logger *zap.Logger) UserService {
	return &userService{repo: repo, bcryptCost: bcryptCost, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if len(req.Password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	email := normalizeEmail(req.Email)

	// 先查一次给出友好错误；并发写入由唯一索引兜底
	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		s.logger.Error("查询邮箱失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleStudent
	}
	if !model.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户已创建", zap.String("id", user.ID.Hex()), zap.String("role", user.Role))
	return toUserResponse(user), nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	// 仅写入非 nil 字段；favoriteDays 不经过此处
	updates := bson.M{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrUserNameEmpty
		}
		updates["name"] = name
	}
	if req.Role != nil {
		if !model.IsValidRole(*req.Role) {
			return nil, ErrInvalidRole
		}
		updates["role"] = *req.Role
	}
	if req.Password != nil {
		if len(*req.Password) > maxPasswordBytes {
			return nil, ErrPasswordTooLong
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			s.logger.Error("密码哈希失败", zap.Error(err))
			return nil, err
		}
		updates["password_hash"] = string(hash)
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		existing, err := s.repo.User.GetByEmail(ctx, email)
		if err == nil && existing.ID != oid {
			return nil, ErrEmailExists
		} else if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			s.logger.Error("查询邮箱失败", zap.Error(err))
			return nil, err
		}
		updates["email"] = email
	}

	user, err := s.repo.User.Update(ctx, oid, updates)
	if err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrDuplicateKey):
			return nil, ErrEmailExists
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrUserNotFound
		}
		s.logger.Error("更新用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toUserResponse(user), nil
}

// ────────────────────── Delete ──────────────────────

// Delete 删除用户；其收藏日与项目引用不级联处理
func (s *userService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	if err := s.repo.User.Delete(ctx, oid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		s.logger.Error("删除用户失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("用户已删除", zap.String("id", id))
	return nil
}

// ── 内部辅助方法 ──

func (s *userService) loadUser(ctx context.Context, id string) (*model.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.User.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// toUserResponse 将 model.User 转换为 dto.UserResponse
func toUserResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:           user.ID.Hex(),
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		FavoriteDays: hexIDs(user.FavoriteDays),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
