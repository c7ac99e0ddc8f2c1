package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	HomeImageTitleMax       = 100
	HomeImageDescriptionMax = 500
)

type HomeImage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Image       ImageRef           `bson:"image" json:"image"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	Order       int64              `bson:"order" json:"order"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"-"`
	// Creator is filled by the $lookup on reads and never written back.
	Creator   *UserSummary `bson:"creator,omitempty" json:"createdBy,omitempty"`
	CreatedAt time.Time    `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time    `bson:"updated_at" json:"updatedAt"`
}

type HomeImageInput struct {
	Title       *string `json:"title,omitempty" form:"title"`
	Description *string `json:"description,omitempty" form:"description"`
	Order       *int64  `json:"order,omitempty" form:"order"`
	IsActive    *bool   `json:"isActive,omitempty" form:"isActive"`
}
