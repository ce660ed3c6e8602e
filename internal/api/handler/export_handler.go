package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/shaikhasif69/GPM/internal/dto"
	"github.com/shaikhasif69/GPM/internal/service"
	"github.com/shaikhasif69/GPM/pkg/response"
)

var exportContentTypes = map[string]string{
	service.ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	service.ExportFormatICS:  "text/calendar; charset=utf-8",
}

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportFavoriteDays 导出用户收藏日
// GET /api/favoritedays/user/:userId/export?format=xlsx|ics
func (h *ExportHandler) ExportFavoriteDays(c *gin.Context) {
	var req dto.ExportFavoriteDaysRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, codeExportUnsupported, "Unsupported export format")
		return
	}
	format := req.Format
	if format == "" {
		format = service.ExportFormatXLSX
	}

	buf, filename, err := h.exportSvc.ExportFavoriteDays(c.Request.Context(), c.Param("userId"), format)
	if err != nil {
		if errors.Is(err, service.ErrExportUnsupportedFormat) {
			response.BadRequest(c, codeExportUnsupported, "Unsupported export format")
			return
		}
		handleFavoriteDayError(c, err)
		return
	}

	// 设置下载响应头
	contentType := exportContentTypes[format]
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", attachmentDisposition(filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// attachmentDisposition 按 RFC 5987 编码文件名，空格需为 %20 而非 +
func attachmentDisposition(filename string) string {
	return "attachment; filename*=UTF-8''" + url.PathEscape(filename)
}
