package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/shaikhasif69/GPM/internal/model"
	"github.com/shaikhasif69/GPM/internal/repository"
)

// 导出格式
const (
	ExportFormatXLSX = "xlsx"
	ExportFormatICS  = "ics"
)

// ── 导出模块业务错误 ──

var (
	ErrExportUnsupportedFormat = errors.New("不支持的导出格式")
	ErrExportGenerateFail      = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportFavoriteDays 导出用户收藏日，format 为 xlsx 或 ics
	ExportFavoriteDays(ctx context.Context, userID, format string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportFavoriteDays 导出收藏日
// ═══════════════════════════════════════════════════════════
//
// xlsx：单 Sheet，每行一个收藏日（日期倒序）
// ics：每个收藏日一个全天事件，UID 为 <id>@student-portal
//
// 返回值：buf（文件内容）, filename（建议文件名）, error

func (s *exportService) ExportFavoriteDays(ctx context.Context, userID, format string) (*bytes.Buffer, string, error) {
	if format == "" {
		format = ExportFormatXLSX
	}
	if format != ExportFormatXLSX && format != ExportFormatICS {
		return nil, "", ErrExportUnsupportedFormat
	}

	favs, err := loadUserFavorites(ctx, s.repo, s.logger, userID)
	if err != nil {
		return nil, "", err
	}

	var buf *bytes.Buffer
	switch format {
	case ExportFormatICS:
		buf = buildFavoriteDaysICS(favs, time.Now().UTC())
	default:
		buf, err = buildFavoriteDaysXLSX(favs)
		if err != nil {
			s.logger.Error("写入 Excel 失败", zap.String("user_id", userID), zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
	}

	filename := fmt.Sprintf("favorite_days_%s.%s", userID, format)
	return buf, filename, nil
}

// ── xlsx ──

var favoriteDaysHeader = []string{"Date", "Temperature", "Description", "Humidity", "Wind Speed", "Added At"}

func buildFavoriteDaysXLSX(favs []model.FavoriteDay) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Favorite Days"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 24)
	f.SetColWidth(sheetName, "D", "E", 12)
	f.SetColWidth(sheetName, "F", "F", 22)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 表头
	for i, title := range favoriteDaysHeader {
		f.SetCellValue(sheetName, cell(colName(i), 1), title)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(favoriteDaysHeader)-1), 1), headerStyle)

	// 数据行
	row := 2
	for _, fav := range favs {
		values := []string{
			model.DayOf(fav.Date).Format("2006-01-02"),
			"", "", "", "",
			fav.CreatedAt.UTC().Format(time.RFC3339),
		}
		if w := fav.WeatherData; w != nil {
			values[1] = formatFloat(w.Temperature)
			values[2] = derefString(w.Description)
			values[3] = formatFloat(w.Humidity)
			values[4] = formatFloat(w.WindSpeed)
		}
		for i, v := range values {
			f.SetCellValue(sheetName, cell(colName(i), row), v)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ── ics ──

func buildFavoriteDaysICS(favs []model.FavoriteDay, now time.Time) *bytes.Buffer {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//student-portal//favorite days//EN")
	cal.SetXWRCalName("Favorite Days")

	for _, fav := range favs {
		day := model.DayOf(fav.Date)

		event := cal.AddEvent(fav.ID.Hex() + "@student-portal")
		event.SetDtStampTime(now)
		event.SetCreatedTime(fav.CreatedAt.UTC())
		event.SetAllDayStartAt(day)
		event.SetAllDayEndAt(day.AddDate(0, 0, 1))
		event.SetSummary(favoriteSummary(fav.WeatherData))
		if desc := weatherDescription(fav.WeatherData); desc != "" {
			event.SetDescription(desc)
		}
	}

	return bytes.NewBufferString(cal.Serialize())
}

func favoriteSummary(w *model.WeatherData) string {
	if w != nil && w.Description != nil && *w.Description != "" {
		return "Favorite day: " + *w.Description
	}
	return "Favorite day"
}

func weatherDescription(w *model.WeatherData) string {
	if w == nil {
		return ""
	}
	var parts []string
	if w.Temperature != nil {
		parts = append(parts, "Temperature: "+formatFloat(w.Temperature))
	}
	if w.Humidity != nil {
		parts = append(parts, "Humidity: "+formatFloat(w.Humidity))
	}
	if w.WindSpeed != nil {
		parts = append(parts, "Wind speed: "+formatFloat(w.WindSpeed))
	}
	return strings.Join(parts, ", ")
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
