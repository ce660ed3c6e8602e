package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Project 项目文档，对应 projects 集合
// Creator / Collaborators 为弱引用，删除用户不会级联
type Project struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Title         string               `bson:"title"`
	Description   string               `bson:"description"`
	Tech          []string             `bson:"tech"`
	Creator       primitive.ObjectID   `bson:"creator"`
	Collaborators []primitive.ObjectID `bson:"collaborators"`
	Timestamps    `bson:",inline"`
}
