package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentence is a piece of page text submitted by the recorder.
type Sentence struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Text       string             `bson:"text" json:"text"`
	URL        string             `bson:"url" json:"url"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
	UserAgent  string             `bson:"user_agent" json:"userAgent"`
	RecordedAt time.Time          `bson:"recorded_at" json:"recordedAt"`
}

type CreateSentenceRequest struct {
	Text      string     `json:"text"`
	URL       string     `json:"url"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

type UpdateSentenceRequest struct {
	Text      *string    `json:"text,omitempty"`
	URL       *string    `json:"url,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	UserAgent *string    `json:"userAgent,omitempty"`
}
