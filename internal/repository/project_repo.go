package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shaikhasif69/GPM/internal/model"
)

// ProjectRepository 项目数据访问接口
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Project, error)
	List(ctx context.Context) ([]model.Project, error)
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*model.Project, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// projectRepo ProjectRepository 的 MongoDB 实现
type projectRepo struct {
	coll *mongo.Collection
}

// NewProjectRepo 创建 ProjectRepository 实例
func NewProjectRepo(db *mongo.Database) ProjectRepository {
	return &projectRepo{coll: db.Collection(model.CollectionProjects)}
}

func (r *projectRepo) Create(ctx context.Context, project *model.Project) error {
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

	_, err := r.coll.InsertOne(ctx, project)
	return translateWriteErr(err)
}

func (r *projectRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Project, error) {
	var project model.Project
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepo) List(ctx context.Context) ([]model.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	projects := make([]model.Project, 0)
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Update 以 $set 写入 updates 中的字段并返回更新后的文档
func (r *projectRepo) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*model.Project, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range updates {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var project model.Project
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&project)
	if err != nil {
		return nil, translateWriteErr(err)
	}
	return &project, nil
}

func (r *projectRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
