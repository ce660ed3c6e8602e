package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/shaikhasif69/GPM/internal/dto"
	"github.com/shaikhasif69/GPM/internal/service"
	"github.com/shaikhasif69/GPM/pkg/response"
)

// FavoriteDayHandler 收藏日模块 HTTP 处理器
type FavoriteDayHandler struct {
	favoriteSvc service.FavoriteDayService
}

// NewFavoriteDayHandler 创建 FavoriteDayHandler
func NewFavoriteDayHandler(favoriteSvc service.FavoriteDayService) *FavoriteDayHandler {
	return &FavoriteDayHandler{favoriteSvc: favoriteSvc}
}

// AddFavoriteDay 收藏某一天
// POST /api/favoritedays
func (h *FavoriteDayHandler) AddFavoriteDay(c *gin.Context) {
	var req dto.AddFavoriteDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	fav, err := h.favoriteSvc.Add(c.Request.Context(), &req)
	if err != nil {
		handleFavoriteDayError(c, err)
		return
	}

	response.Created(c, fav)
}

// ListUserFavoriteDays 用户收藏日列表（日期倒序）
// GET /api/favoritedays/user/:userId
func (h *FavoriteDayHandler) ListUserFavoriteDays(c *gin.Context) {
	favs, err := h.favoriteSvc.ListForUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		handleFavoriteDayError(c, err)
		return
	}

	response.OK(c, favs)
}

// RemoveFavoriteDay 取消收藏
// DELETE /api/favoritedays/:id
func (h *FavoriteDayHandler) RemoveFavoriteDay(c *gin.Context) {
	if err := h.favoriteSvc.Remove(c.Request.Context(), c.Param("id")); err != nil {
		handleFavoriteDayError(c, err)
		return
	}

	response.Message(c, "Favorite day removed successfully")
}

// handleFavoriteDayError 收藏日与导出共用的错误映射
// 同日重复收藏按 400 返回
func handleFavoriteDayError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidID):
		response.BadRequest(c, codeInvalidID, "Invalid id")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, codeInvalidDate, "Invalid date")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, codeUserNotFound, "User not found")
	case errors.Is(err, service.ErrFavoriteDayNotFound):
		response.NotFound(c, codeFavoriteDayNotFound, "Favorite day not found")
	case errors.Is(err, service.ErrFavoriteDayExists):
		response.BadRequest(c, codeFavoriteDayExists, "This day is already a favorite")
	default:
		response.InternalError(c, err)
	}
}
