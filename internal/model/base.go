package model

import (
	"time"
)

// 集合名
const (
	CollectionUsers        = "users"
	CollectionProjects     = "projects"
	CollectionFavoriteDays = "favoritedays"
)

// Timestamps 通用审计字段（业务文档内联嵌入）
type Timestamps struct {
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Touch 写入前刷新时间戳；CreatedAt 仅在首次写入时填充
func (t *Timestamps) Touch(now time.Time) {
	now = now.UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}
