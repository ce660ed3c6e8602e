package handler

import "github.com/shaikhasif69/GPM/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Project     *ProjectHandler
	FavoriteDay *FavoriteDayHandler
	Export      *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth),
		User:        NewUserHandler(svc.User),
		Project:     NewProjectHandler(svc.Project),
		FavoriteDay: NewFavoriteDayHandler(svc.FavoriteDay),
		Export:      NewExportHandler(svc.Export),
	}
}
