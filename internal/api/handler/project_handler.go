package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/shaikhasif69/GPM/internal/dto"
	"github.com/shaikhasif69/GPM/internal/service"
	"github.com/shaikhasif69/GPM/pkg/response"
)

// ProjectHandler 项目模块 HTTP 处理器
type ProjectHandler struct {
	projectSvc service.ProjectService
}

// NewProjectHandler 创建 ProjectHandler
func NewProjectHandler(projectSvc service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectSvc: projectSvc}
}

// ListProjects GET /api/projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, projects)
}

// GetProject GET /api/projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.OK(c, project)
}

// CreateProject POST /api/projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	project, err := h.projectSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.Created(c, project)
}

// UpdateProject PUT /api/projects/:id
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	project, err := h.projectSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.OK(c, project)
}

// DeleteProject DELETE /api/projects/:id
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.projectSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.Message(c, "Project deleted successfully")
}

func (h *ProjectHandler) handleProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidID):
		response.BadRequest(c, codeInvalidID, "Invalid id")
	case errors.Is(err, service.ErrProjectNotFound):
		response.NotFound(c, codeProjectNotFound, "Project not found")
	default:
		response.InternalError(c, err)
	}
}
