package service

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/shaikhasif69/GPM/internal/dto"
	"github.com/shaikhasif69/GPM/internal/model"
	"github.com/shaikhasif69/GPM/internal/repository"
)

// ── 项目模块业务错误 ──

var ErrProjectNotFound = errors.New("项目不存在")

// ProjectService 项目业务接口
type ProjectService interface {
	List(ctx context.Context) ([]dto.ProjectResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ProjectResponse, error)
	Create(ctx context.Context, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	Delete(ctx context.Context, id string) error
}

type projectService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProjectService 创建 ProjectService 实例
func NewProjectService(repo *repository.Repository, logger *zap.Logger) ProjectService {
	return &projectService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

// List 列出全部项目，仅解析创建者
func (s *projectService) List(ctx context.Context) ([]dto.ProjectResponse, error) {
	projects, err := s.repo.Project.List(ctx)
	if err != nil {
		s.logger.Error("列出项目失败", zap.Error(err))
		return nil, err
	}

	creatorIDs := make([]primitive.ObjectID, 0, len(projects))
	for i := range projects {
		creatorIDs = append(creatorIDs, projects[i].Creator)
	}
	users, err := s.lookupUsers(ctx, creatorIDs)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		resp := toProjectResponse(&projects[i], users)
		// 列表不展开协作者
		resp.Collaborators = briefIDs(projects[i].Collaborators)
		result = append(result, *resp)
	}
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *projectService) GetByID(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	project, err := s.loadProject(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, project)
}

// ────────────────────── Create ──────────────────────

// Create 创建项目；creator 只校验格式，不校验用户是否存在
func (s *projectService) Create(ctx context.Context, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	creator, err := parseID(req.Creator)
	if err != nil {
		return nil, err
	}

	project := &model.Project{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Tech:        req.Tech,
		Creator:     creator,
	}

	if err := s.repo.Project.Create(ctx, project); err != nil {
		s.logger.Error("创建项目失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("项目已创建", zap.String("id", project.ID.Hex()), zap.String("creator", req.Creator))
	return toProjectResponse(project, nil), nil
}

// ────────────────────── Update ──────────────────────

func (s *projectService) Update(ctx context.Context, id string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	// 仅写入非 nil 字段，空串与空数组同样生效
	updates := bson.M{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Tech != nil {
		tech := *req.Tech
		if tech == nil {
			tech = []string{}
		}
		updates["tech"] = tech
	}
	if req.Collaborators != nil {
		ids, err := parseIDs(*req.Collaborators)
		if err != nil {
			return nil, err
		}
		updates["collaborators"] = ids
	}

	project, err := s.repo.Project.Update(ctx, oid, updates)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("更新项目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.resolve(ctx, project)
}

// ────────────────────── Delete ──────────────────────

func (s *projectService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	if err := s.repo.Project.Delete(ctx, oid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrProjectNotFound
		}
		s.logger.Error("删除项目失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("项目已删除", zap.String("id", id))
	return nil
}

// ── 内部辅助方法 ──

func (s *projectService) loadProject(ctx context.Context, id string) (*model.Project, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	project, err := s.repo.Project.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("查询项目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return project, nil
}

// resolve 展开创建者与协作者
func (s *projectService) resolve(ctx context.Context, project *model.Project) (*dto.ProjectResponse, error) {
	ids := append([]primitive.ObjectID{project.Creator}, project.Collaborators...)
	users, err := s.lookupUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(project, users), nil
}

// lookupUsers 批量查询用户并按 ID 建索引
func (s *projectService) lookupUsers(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.User, error) {
	users := make(map[primitive.ObjectID]*model.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	list, err := s.repo.User.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("批量查询用户失败", zap.Error(err))
		return nil, err
	}
	for i := range list {
		users[list[i].ID] = &list[i]
	}
	return users, nil
}

// toProjectResponse 将 model.Project 转换为 dto.ProjectResponse
// 引用的用户不存在时只返回 ID
func toProjectResponse(project *model.Project, users map[primitive.ObjectID]*model.User) *dto.ProjectResponse {
	collaborators := make([]dto.UserBrief, 0, len(project.Collaborators))
	for _, id := range project.Collaborators {
		collaborators = append(collaborators, toUserBrief(id, users))
	}

	tech := project.Tech
	if tech == nil {
		tech = []string{}
	}

	return &dto.ProjectResponse{
		ID:            project.ID.Hex(),
		Title:         project.Title,
		Description:   project.Description,
		Tech:          tech,
		Creator:       toUserBrief(project.Creator, users),
		Collaborators: collaborators,
		CreatedAt:     project.CreatedAt,
		UpdatedAt:     project.UpdatedAt,
	}
}

func toUserBrief(id primitive.ObjectID, users map[primitive.ObjectID]*model.User) dto.UserBrief {
	brief := dto.UserBrief{ID: id.Hex()}
	if u, ok := users[id]; ok {
		brief.Name = u.Name
		brief.Email = u.Email
	}
	return brief
}

func briefIDs(ids []primitive.ObjectID) []dto.UserBrief {
	out := make([]dto.UserBrief, 0, len(ids))
	for _, id := range ids {
		out = append(out, dto.UserBrief{ID: id.Hex()})
	}
	return out
}
