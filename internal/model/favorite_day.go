package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeatherData 天气快照，所有字段可选且不做校验
type WeatherData struct {
	Temperature *float64 `bson:"temperature,omitempty" json:"temperature,omitempty"`
	Description *string  `bson:"description,omitempty" json:"description,omitempty"`
	Icon        *string  `bson:"icon,omitempty"        json:"icon,omitempty"`
	Humidity    *float64 `bson:"humidity,omitempty"    json:"humidity,omitempty"`
	WindSpeed   *float64 `bson:"windSpeed,omitempty"   json:"windSpeed,omitempty"`
}

// FavoriteDay 收藏日文档，对应 favoritedays 集合
//
// Date 保存请求中的原始时间；Day 为其 UTC 日界（00:00:00），
// 唯一索引 uniq_favoritedays_user_day 建在 (userId, day) 上，
// 保证同一用户同一自然日最多一条记录。
type FavoriteDay struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId"`
	Date        time.Time          `bson:"date"`
	Day         time.Time          `bson:"day"`
	WeatherData *WeatherData       `bson:"weatherData,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

// DayOf 返回 t 所在 UTC 自然日的 00:00:00
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
