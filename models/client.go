package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client is a customer logo shown on the public site.
type Client struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Logo        string             `bson:"logo" json:"logo"`
	Website     string             `bson:"website" json:"website"`
	Description string             `bson:"description" json:"description"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

type CreateClientRequest struct {
	Name        string `json:"name"`
	Logo        string `json:"logo,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// UpdateClientRequest only touches fields that are present. An empty string is
// a real value and clears the field.
type UpdateClientRequest struct {
	Name        *string `json:"name,omitempty"`
	Logo        *string `json:"logo,omitempty"`
	Website     *string `json:"website,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}
