package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shaikhasif69/GPM/internal/dto"
	"github.com/shaikhasif69/GPM/internal/model"
)

// ── 测试辅助 ──

func setupTestExportService(t *testing.T) (ExportService, string, []string) {
	t.Helper()
	repos := newTestRepos()
	users := NewUserService(repos.repo, 4, testLogger)
	favs := NewFavoriteDayService(repos.repo, testLogger)
	ctx := context.Background()

	u, err := users.Create(ctx, createUserReq("Asif", "a@x.com"))
	if err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	sunny := "sunny"
	inputs := []*dto.AddFavoriteDayRequest{
		{UserID: u.ID, Date: "2024-05-01T09:00:00Z", WeatherData: &model.WeatherData{Temperature: floatPtr(22), Description: &sunny}},
		{UserID: u.ID, Date: "2024-06-15"},
	}
	ids := make([]string, 0, len(inputs))
	for _, req := range inputs {
		f, err := favs.Add(ctx, req)
		if err != nil {
			t.Fatalf("添加收藏失败: %v", err)
		}
		ids = append(ids, f.ID)
	}

	return NewExportService(repos.repo, testLogger), u.ID, ids
}

// ── xlsx 测试 ──

func TestExportService_XLSX(t *testing.T) {
	svc, userID, _ := setupTestExportService(t)

	buf, filename, err := svc.ExportFavoriteDays(context.Background(), userID, ExportFormatXLSX)
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名应以 .xlsx 结尾，实际=%s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("输出应为合法 xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Favorite Days")
	if err != nil {
		t.Fatalf("读取 Sheet 失败: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("期望 1 行表头 + 2 行数据，实际 %d 行", len(rows))
	}
	if rows[0][0] != "Date" {
		t.Errorf("首列表头期望 Date，实际=%s", rows[0][0])
	}
	// 日期倒序
	if rows[1][0] != "2024-06-15" || rows[2][0] != "2024-05-01" {
		t.Errorf("数据行应按日期倒序，实际=%s, %s", rows[1][0], rows[2][0])
	}
	if rows[2][1] != "22" || rows[2][2] != "sunny" {
		t.Errorf("天气列不正确，实际=%v", rows[2])
	}
}

func TestExportService_DefaultFormatIsXLSX(t *testing.T) {
	svc, userID, _ := setupTestExportService(t)

	_, filename, err := svc.ExportFavoriteDays(context.Background(), userID, "")
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("默认格式应为 xlsx，实际文件名=%s", filename)
	}
}

// ── ics 测试 ──

func TestExportService_ICS(t *testing.T) {
	svc, userID, ids := setupTestExportService(t)

	buf, filename, err := svc.ExportFavoriteDays(context.Background(), userID, ExportFormatICS)
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".ics") {
		t.Errorf("文件名应以 .ics 结尾，实际=%s", filename)
	}

	cal, err := ics.ParseCalendar(buf)
	if err != nil {
		t.Fatalf("输出应为合法日历: %v", err)
	}

	events := cal.Events()
	if len(events) != len(ids) {
		t.Fatalf("期望 %d 个事件，实际 %d", len(ids), len(events))
	}

	uids := make(map[string]bool)
	for _, e := range events {
		uids[e.Id()] = true
	}
	for _, id := range ids {
		if !uids[id+"@student-portal"] {
			t.Errorf("缺少收藏 %s 对应的事件", id)
		}
	}

	found := false
	for _, e := range events {
		if p := e.GetProperty(ics.ComponentPropertySummary); p != nil && p.Value == "Favorite day: sunny" {
			found = true
		}
	}
	if !found {
		t.Error("带天气描述的收藏应生成对应摘要")
	}
}

// ── 错误路径 ──

func TestExportService_UnsupportedFormat(t *testing.T) {
	svc, userID, _ := setupTestExportService(t)

	_, _, err := svc.ExportFavoriteDays(context.Background(), userID, "pdf")
	if !errors.Is(err, ErrExportUnsupportedFormat) {
		t.Errorf("期望 ErrExportUnsupportedFormat，实际: %v", err)
	}
}

func TestExportService_UserNotFound(t *testing.T) {
	svc, _, _ := setupTestExportService(t)

	_, _, err := svc.ExportFavoriteDays(context.Background(), primitive.NewObjectID().Hex(), ExportFormatICS)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestWeatherDescription(t *testing.T) {
	if got := weatherDescription(nil); got != "" {
		t.Errorf("nil 天气应返回空串，实际=%q", got)
	}
	w := &model.WeatherData{Temperature: floatPtr(21.5), WindSpeed: floatPtr(3)}
	if got := weatherDescription(w); got != "Temperature: 21.5, Wind speed: 3" {
		t.Errorf("天气描述不正确，实际=%q", got)
	}
}
