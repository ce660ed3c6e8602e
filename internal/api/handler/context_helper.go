package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shaikhasif69/GPM/pkg/response"
)

// 业务错误码
const (
	codeValidation      = 10001
	codeUnauthenticated = 10002
	codeInvalidID       = 10003
	codeBodyTooLarge    = 10005

	codeInvalidCredentials = 11001
	codeLogoutFailed       = 11002

	codeUserNotFound    = 20001
	codeEmailExists     = 20002
	codeUserNameEmpty   = 20003
	codeInvalidRole     = 20004
	codePasswordTooLong = 20005

	codeProjectNotFound = 30001

	codeFavoriteDayNotFound = 40001
	codeFavoriteDayExists   = 40002
	codeInvalidDate         = 40003

	codeExportUnsupported = 41001
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, codeUnauthenticated, "Not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, codeUnauthenticated, "Not authenticated")
		return "", false
	}
	return s, true
}

// tokenIdentity 取出当前 Token 的 jti 与过期时间，缺失时返回零值
func tokenIdentity(c *gin.Context) (string, time.Time) {
	jti := c.GetString("token_jti")
	exp, _ := c.Get("token_exp")
	t, _ := exp.(time.Time)
	return jti, t
}

// bindFailed 统一的参数校验失败响应
// 请求体在读取时超限返回 413
func bindFailed(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, codeBodyTooLarge, "Request body too large")
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, codeValidation, "Validation failed", err.Error())
}
