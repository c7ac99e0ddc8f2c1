package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type HomeBanner struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title     string             `bson:"title" json:"title"`
	Image     ImageRef           `bson:"image" json:"image"`
	Order     int                `bson:"order" json:"order"`
	IsActive  bool               `bson:"is_active" json:"isActive"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// HomeBannerInput carries the optional form fields of a create or update.
type HomeBannerInput struct {
	Title    *string `json:"title,omitempty" form:"title"`
	Order    *int    `json:"order,omitempty" form:"order"`
	IsActive *bool   `json:"isActive,omitempty" form:"isActive"`
}
