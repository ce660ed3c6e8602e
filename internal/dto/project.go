package dto

// ── 项目模块 DTO ──

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Title       string   `json:"title"       binding:"required,max=200"`
	Description string   `json:"description" binding:"omitempty,max=5000"`
	Tech        []string `json:"tech"`
	Creator     string   `json:"creator"     binding:"required"`
}

// UpdateProjectRequest 更新项目请求
// 字段出现在请求体中即视为有意修改（包括空串、空数组）；缺省或 null 保持原值
type UpdateProjectRequest struct {
	Title         *string   `json:"title"         binding:"omitempty,max=200"`
	Description   *string   `json:"description"   binding:"omitempty,max=5000"`
	Tech          *[]string `json:"tech"`
	Collaborators *[]string `json:"collaborators"`
}
