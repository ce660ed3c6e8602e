package service

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/shaikhasif69/GPM/internal/model"
	"github.com/shaikhasif69/GPM/internal/repository"
	pkgerrors "github.com/shaikhasif69/GPM/pkg/errors"
)

// ── Mock UserRepository ──

// mockUserRepo 模拟 users 集合，含 email 唯一索引
type mockUserRepo struct {
	users map[primitive.ObjectID]*model.User
	order []primitive.ObjectID

	// beforeUpdate 非 nil 时在 Update 写入前执行，用于模拟并发写入
	beforeUpdate func()
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[primitive.ObjectID]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return pkgerrors.ErrDuplicateKey
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.FavoriteDays == nil {
		user.FavoriteDays = []primitive.ObjectID{}
	}
	user.Touch(time.Now())
	cp := *user
	m.users[user.ID] = &cp
	m.order = append(m.order, user.ID)
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		cp.FavoriteDays = append([]primitive.ObjectID{}, u.FavoriteDays...)
		return &cp, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return m.GetByID(ctx, u.ID)
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(m.users))
	for _, id := range m.order {
		if u, ok := m.users[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) ListByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.User, error) {
	result := make([]model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

// Update 按 $set 语义只改写 updates 中的字段
func (m *mockUserRepo) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*model.User, error) {
	if m.beforeUpdate != nil {
		m.beforeUpdate()
	}
	u, ok := m.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if email, ok := updates["email"].(string); ok {
		for _, other := range m.users {
			if other.ID != id && other.Email == email {
				return nil, pkgerrors.ErrDuplicateKey
			}
		}
		u.Email = email
	}
	if v, ok := updates["name"].(string); ok {
		u.Name = v
	}
	if v, ok := updates["password_hash"].(string); ok {
		u.PasswordHash = v
	}
	if v, ok := updates["role"].(string); ok {
		u.Role = v
	}
	u.Touch(time.Now())
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.users[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) PushFavoriteDay(_ context.Context, userID, favoriteDayID primitive.ObjectID) error {
	u, ok := m.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for _, id := range u.FavoriteDays {
		if id == favoriteDayID {
			return nil
		}
	}
	u.FavoriteDays = append(u.FavoriteDays, favoriteDayID)
	return nil
}

func (m *mockUserRepo) PullFavoriteDay(_ context.Context, userID, favoriteDayID primitive.ObjectID) error {
	u, ok := m.users[userID]
	if !ok {
		return nil
	}
	kept := u.FavoriteDays[:0]
	for _, id := range u.FavoriteDays {
		if id != favoriteDayID {
			kept = append(kept, id)
		}
	}
	u.FavoriteDays = kept
	return nil
}

// ── Mock ProjectRepository ──

type mockProjectRepo struct {
	projects     map[primitive.ObjectID]*model.Project
	beforeUpdate func()
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{projects: make(map[primitive.ObjectID]*model.Project)}
}

func (m *mockProjectRepo) Create(_ context.Context, project *model.Project) error {
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	if project.Tech == nil {
		project.Tech = []string{}
	}
	if project.Collaborators == nil {
		project.Collaborators = []primitive.ObjectID{}
	}
	project.Touch(time.Now())
	cp := *project
	m.projects[project.ID] = &cp
	return nil
}

func (m *mockProjectRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.Project, error) {
	if p, ok := m.projects[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockProjectRepo) List(_ context.Context) ([]model.Project, error) {
	result := make([]model.Project, 0, len(m.projects))
	for _, p := range m.projects {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *mockProjectRepo) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*model.Project, error) {
	if m.beforeUpdate != nil {
		m.beforeUpdate()
	}
	p, ok := m.projects[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if v, ok := updates["title"].(string); ok {
		p.Title = v
	}
	if v, ok := updates["description"].(string); ok {
		p.Description = v
	}
	if v, ok := updates["tech"].([]string); ok {
		p.Tech = v
	}
	if v, ok := updates["collaborators"].([]primitive.ObjectID); ok {
		p.Collaborators = v
	}
	p.Touch(time.Now())
	return m.GetByID(ctx, id)
}

func (m *mockProjectRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.projects[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.projects, id)
	return nil
}

// ── Mock FavoriteDayRepository ──

// mockFavoriteDayRepo 模拟 favoritedays 集合，含 (userId, day) 唯一索引
type mockFavoriteDayRepo struct {
	favs map[primitive.ObjectID]*model.FavoriteDay

	// createErr 非 nil 时 Create 直接返回该错误
	createErr error
}

func newMockFavoriteDayRepo() *mockFavoriteDayRepo {
	return &mockFavoriteDayRepo{favs: make(map[primitive.ObjectID]*model.FavoriteDay)}
}

func (m *mockFavoriteDayRepo) Create(_ context.Context, fav *model.FavoriteDay) error {
	if m.createErr != nil {
		return m.createErr
	}
	fav.Date = fav.Date.UTC()
	fav.Day = model.DayOf(fav.Date)
	for _, f := range m.favs {
		if f.UserID == fav.UserID && f.Day.Equal(fav.Day) {
			return pkgerrors.ErrDuplicateKey
		}
	}
	if fav.ID.IsZero() {
		fav.ID = primitive.NewObjectID()
	}
	if fav.CreatedAt.IsZero() {
		fav.CreatedAt = time.Now().UTC()
	}
	cp := *fav
	m.favs[fav.ID] = &cp
	return nil
}

func (m *mockFavoriteDayRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.FavoriteDay, error) {
	if f, ok := m.favs[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockFavoriteDayRepo) FindByUserAndDay(_ context.Context, userID primitive.ObjectID, day time.Time) (*model.FavoriteDay, error) {
	start := model.DayOf(day)
	for _, f := range m.favs {
		if f.UserID == userID && model.DayOf(f.Date).Equal(start) {
			cp := *f
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockFavoriteDayRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]model.FavoriteDay, error) {
	result := make([]model.FavoriteDay, 0)
	for _, f := range m.favs {
		if f.UserID == userID {
			result = append(result, *f)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	return result, nil
}

func (m *mockFavoriteDayRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.favs[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.favs, id)
	return nil
}

// ── 测试辅助 ──

type testRepos struct {
	repo        *repository.Repository
	user        *mockUserRepo
	project     *mockProjectRepo
	favoriteDay *mockFavoriteDayRepo
}

// newTestRepos 组装 mock 仓储；client 为 nil，WithTransaction 直接执行回调
func newTestRepos() *testRepos {
	r := &testRepos{
		user:        newMockUserRepo(),
		project:     newMockProjectRepo(),
		favoriteDay: newMockFavoriteDayRepo(),
	}
	r.repo = &repository.Repository{
		User:        r.user,
		Project:     r.project,
		FavoriteDay: r.favoriteDay,
	}
	return r
}

var testLogger = zap.NewNop()
