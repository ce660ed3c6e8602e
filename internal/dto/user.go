package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Name     string `json:"name"     binding:"required,max=100"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Role     string `json:"role"     binding:"omitempty,oneof=student teacher admin"`
}

// UpdateUserRequest 更新用户请求（仅非 nil 字段生效）
type UpdateUserRequest struct {
	Name     *string `json:"name"     binding:"omitempty,max=100"`
	Email    *string `json:"email"    binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6,max=72"`
	Role     *string `json:"role"     binding:"omitempty,oneof=student teacher admin"`
}
