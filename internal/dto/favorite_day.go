package dto

import "github.com/shaikhasif69/GPM/internal/model"

// ── 收藏日模块 DTO ──

// AddFavoriteDayRequest 添加收藏日请求
// Date 支持 RFC3339 时间戳或 YYYY-MM-DD
type AddFavoriteDayRequest struct {
	UserID      string             `json:"userId"      binding:"required"`
	Date        string             `json:"date"        binding:"required"`
	WeatherData *model.WeatherData `json:"weatherData"`
}

// ExportFavoriteDaysRequest 导出收藏日查询参数
type ExportFavoriteDaysRequest struct {
	Format string `form:"format" binding:"omitempty,oneof=xlsx ics"`
}
