package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shaikhasif69/GPM/internal/dto"
	"github.com/shaikhasif69/GPM/internal/service"
	"github.com/shaikhasif69/GPM/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 用户登录
// POST /api/users/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, codeInvalidCredentials, "Invalid email or password")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout 用户登出，吊销当前 Token
// POST /api/users/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp := tokenIdentity(c)

	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusServiceUnavailable, codeLogoutFailed, "Logout failed, please retry")
		return
	}

	response.Message(c, "Logged out")
}

// Me 获取当前登录用户
// GET /api/users/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, codeUserNotFound, "User not found")
		case errors.Is(err, service.ErrInvalidID):
			response.Unauthorized(c, codeUnauthenticated, "Not authenticated")
		default:
			response.InternalError(c, err)
		}
		return
	}

	response.OK(c, user)
}
