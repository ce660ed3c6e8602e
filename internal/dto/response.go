package dto

import (
	"time"

	"github.com/shaikhasif69/GPM/internal/model"
)

// ── 用户模块响应 ──

// UserResponse 用户信息响应（不含密码哈希）
type UserResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	FavoriteDays []string  `json:"favoriteDays"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserBrief 被引用用户的简要信息；引用悬空时仅有 ID
type UserBrief struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// ── 项目模块响应 ──

// ProjectResponse 项目响应
type ProjectResponse struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Tech          []string    `json:"tech"`
	Creator       UserBrief   `json:"creator"`
	Collaborators []UserBrief `json:"collaborators"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// ── 收藏日模块响应 ──

// FavoriteDayResponse 收藏日响应
type FavoriteDayResponse struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId"`
	Date        time.Time          `json:"date"`
	WeatherData *model.WeatherData `json:"weatherData,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}
