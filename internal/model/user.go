package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// 用户角色
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User 用户文档，对应 users 集合
// email 由唯一索引 uniq_users_email 保证全局唯一
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Name         string               `bson:"name"`
	Email        string               `bson:"email"`
	PasswordHash string               `bson:"password_hash" json:"-"`
	Role         string               `bson:"role"`
	FavoriteDays []primitive.ObjectID `bson:"favoriteDays"`
	Timestamps   `bson:",inline"`
}

// IsValidRole 判断角色是否在允许范围内
func IsValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}
