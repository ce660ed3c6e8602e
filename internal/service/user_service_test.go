package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/shaikhasif69/GPM/internal/dto"
	"github.com/shaikhasif69/GPM/internal/model"
)

// ── 测试辅助 ──

func setupTestUserService() (UserService, *testRepos) {
	repos := newTestRepos()
	return NewUserService(repos.repo, bcrypt.MinCost, testLogger), repos
}

func strPtr(s string) *string { return &s }

func createUserReq(name, email string) *dto.CreateUserRequest {
	return &dto.CreateUserRequest{Name: name, Email: email, Password: "password123"}
}

// ── Create 测试 ──

func TestUserService_Create_Success(t *testing.T) {
	svc, repos := setupTestUserService()

	result, err := svc.Create(context.Background(), createUserReq("Asif", "Asif@Example.com "))
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Email != "asif@example.com" {
		t.Errorf("期望邮箱被规范化，实际=%s", result.Email)
	}
	if result.Role != model.RoleStudent {
		t.Errorf("期望默认角色 student，实际=%s", result.Role)
	}
	if len(result.FavoriteDays) != 0 {
		t.Errorf("新用户 favoriteDays 应为空，实际=%v", result.FavoriteDays)
	}

	oid, _ := primitive.ObjectIDFromHex(result.ID)
	stored := repos.user.users[oid]
	if stored.PasswordHash == "password123" {
		t.Fatal("密码不应明文存储")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")); err != nil {
		t.Errorf("存储的哈希应能校验原密码: %v", err)
	}
}

func TestUserService_Create_DistinctEmailsRetrievable(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	emails := []string{"a@example.com", "b@example.com", "c@example.com"}
	ids := make([]string, 0, len(emails))
	for _, e := range emails {
		u, err := svc.Create(ctx, createUserReq("user", e))
		if err != nil {
			t.Fatalf("Create(%s) 失败: %v", e, err)
		}
		ids = append(ids, u.ID)
	}

	for i, id := range ids {
		u, err := svc.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID(%s) 失败: %v", id, err)
		}
		if u.Email != emails[i] {
			t.Errorf("期望 email=%s，实际=%s", emails[i], u.Email)
		}
	}

	list, _ := svc.List(ctx)
	if len(list) != len(emails) {
		t.Errorf("期望 %d 个用户，实际 %d", len(emails), len(list))
	}
	for i := range list {
		if list[i].Email != emails[i] {
			t.Errorf("列表应按创建顺序返回，第 %d 个期望 %s，实际 %s", i, emails[i], list[i].Email)
		}
	}
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	svc, repos := setupTestUserService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, createUserReq("first", "dup@example.com")); err != nil {
		t.Fatalf("首次创建失败: %v", err)
	}
	_, err := svc.Create(ctx, createUserReq("second", "DUP@example.com"))
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("期望 ErrEmailExists，实际: %v", err)
	}
	if len(repos.user.users) != 1 {
		t.Errorf("期望仅存储 1 个用户，实际 %d", len(repos.user.users))
	}
}

func TestUserService_Create_ExplicitRole(t *testing.T) {
	svc, _ := setupTestUserService()

	req := createUserReq("T", "t@example.com")
	req.Role = model.RoleTeacher
	result, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	if result.Role != model.RoleTeacher {
		t.Errorf("期望角色 teacher，实际=%s", result.Role)
	}
}

// ── GetByID 测试 ──

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc, _ := setupTestUserService()

	_, err := svc.GetByID(context.Background(), primitive.NewObjectID().Hex())
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestUserService_GetByID_InvalidID(t *testing.T) {
	svc, _ := setupTestUserService()

	_, err := svc.GetByID(context.Background(), "not-an-object-id")
	if !errors.Is(err, ErrInvalidID) {
		t.Errorf("期望 ErrInvalidID，实际: %v", err)
	}
}

// ── Update 测试 ──

func TestUserService_Update_PartialFields(t *testing.T) {
	svc, repos := setupTestUserService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, createUserReq("Old Name", "old@example.com"))

	result, err := svc.Update(ctx, created.ID, &dto.UpdateUserRequest{Name: strPtr("New Name")})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Name != "New Name" {
		t.Errorf("期望 Name=New Name，实际=%s", result.Name)
	}
	if result.Email != "old@example.com" {
		t.Errorf("未提交的 email 不应改变，实际=%s", result.Email)
	}

	oid, _ := primitive.ObjectIDFromHex(created.ID)
	if err := bcrypt.CompareHashAndPassword([]byte(repos.user.users[oid].PasswordHash), []byte("password123")); err != nil {
		t.Error("未提交密码时哈希不应改变")
	}
}

func TestUserService_Update_PasswordRehashed(t *testing.T) {
	svc, repos := setupTestUserService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, createUserReq("U", "u@example.com"))
	if _, err := svc.Update(ctx, created.ID, &dto.UpdateUserRequest{Password: strPtr("newpass456")}); err != nil {
		t.Fatalf("Update 失败: %v", err)
	}

	oid, _ := primitive.ObjectIDFromHex(created.ID)
	if err := bcrypt.CompareHashAndPassword([]byte(repos.user.users[oid].PasswordHash), []byte("newpass456")); err != nil {
		t.Error("新密码应能通过校验")
	}
}

func TestUserService_Update_EmailConflict(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	svc.Create(ctx, createUserReq("A", "a@example.com"))
	b, _ := svc.Create(ctx, createUserReq("B", "b@example.com"))

	_, err := svc.Update(ctx, b.ID, &dto.UpdateUserRequest{Email: strPtr("a@example.com")})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("期望 ErrEmailExists，实际: %v", err)
	}
}

func TestUserService_Update_SameEmailAllowed(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	a, _ := svc.Create(ctx, createUserReq("A", "a@example.com"))
	if _, err := svc.Update(ctx, a.ID, &dto.UpdateUserRequest{Email: strPtr("A@example.com")}); err != nil {
		t.Errorf("提交自身邮箱不应冲突: %v", err)
	}
}

func TestUserService_Update_EmptyName(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	a, _ := svc.Create(ctx, createUserReq("A", "a@example.com"))
	_, err := svc.Update(ctx, a.ID, &dto.UpdateUserRequest{Name: strPtr("  ")})
	if !errors.Is(err, ErrUserNameEmpty) {
		t.Errorf("期望 ErrUserNameEmpty，实际: %v", err)
	}
}

func TestUserService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestUserService()

	_, err := svc.Update(context.Background(), primitive.NewObjectID().Hex(), &dto.UpdateUserRequest{Name: strPtr("x")})
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestUserService_Update_KeepsConcurrentFavoriteDay(t *testing.T) {
	svc, repos := setupTestUserService()
	favSvc := NewFavoriteDayService(repos.repo, testLogger)
	ctx := context.Background()

	u, _ := svc.Create(ctx, createUserReq("Asif", "asif@example.com"))

	// 资料更新与收藏日写入交错：收藏日在 Update 落库前加入
	var favID string
	repos.user.beforeUpdate = func() {
		repos.user.beforeUpdate = nil
		fav, err := favSvc.Add(ctx, &dto.AddFavoriteDayRequest{UserID: u.ID, Date: "2024-05-01"})
		if err != nil {
			t.Fatalf("Add 应成功: %v", err)
		}
		favID = fav.ID
	}

	result, err := svc.Update(ctx, u.ID, &dto.UpdateUserRequest{Name: strPtr("Asif Shaikh")})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Name != "Asif Shaikh" {
		t.Errorf("期望 Name=Asif Shaikh，实际=%s", result.Name)
	}
	if len(result.FavoriteDays) != 1 || result.FavoriteDays[0] != favID {
		t.Errorf("返回结果应包含并发加入的收藏日 %s，实际=%v", favID, result.FavoriteDays)
	}

	oid, _ := primitive.ObjectIDFromHex(u.ID)
	stored := repos.user.users[oid].FavoriteDays
	if len(stored) != 1 || stored[0].Hex() != favID {
		t.Errorf("资料更新不应覆盖 favoriteDays，实际=%v", stored)
	}
}

func TestUserService_PasswordTooLong(t *testing.T) {
	svc, repos := setupTestUserService()
	ctx := context.Background()

	// 30 个汉字只有 30 个字符，但有 90 字节
	long := strings.Repeat("密", 30)

	req := createUserReq("A", "a@example.com")
	req.Password = long
	if _, err := svc.Create(ctx, req); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("Create 期望 ErrPasswordTooLong，实际: %v", err)
	}
	if len(repos.user.users) != 0 {
		t.Errorf("密码过长时不应写入用户，实际数量=%d", len(repos.user.users))
	}

	a, _ := svc.Create(ctx, createUserReq("A", "a@example.com"))
	if _, err := svc.Update(ctx, a.ID, &dto.UpdateUserRequest{Password: strPtr(long)}); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("Update 期望 ErrPasswordTooLong，实际: %v", err)
	}

	oid, _ := primitive.ObjectIDFromHex(a.ID)
	if err := bcrypt.CompareHashAndPassword([]byte(repos.user.users[oid].PasswordHash), []byte("password123")); err != nil {
		t.Error("更新失败后原密码应保持不变")
	}

	// 恰好 72 字节可以通过
	req = createUserReq("B", "b@example.com")
	req.Password = strings.Repeat("a", 72)
	if _, err := svc.Create(ctx, req); err != nil {
		t.Errorf("72 字节密码应允许，实际: %v", err)
	}
}

// ── Delete 测试 ──

func TestUserService_Delete(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	a, _ := svc.Create(ctx, createUserReq("A", "a@example.com"))
	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, err := svc.GetByID(ctx, a.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("删除后应查不到用户，实际: %v", err)
	}
	if err := svc.Delete(ctx, a.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("重复删除期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestUserService_InvalidRole(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	req := createUserReq("A", "a@example.com")
	req.Role = "member"
	if _, err := svc.Create(ctx, req); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("期望 ErrInvalidRole，实际: %v", err)
	}

	a, _ := svc.Create(ctx, createUserReq("A", "a@example.com"))
	if _, err := svc.Update(ctx, a.ID, &dto.UpdateUserRequest{Role: strPtr("member")}); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("期望 ErrInvalidRole，实际: %v", err)
	}
}
