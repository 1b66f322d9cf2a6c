package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hashtag is a named tag with a usage counter. Name is normalized
// (trimmed, lower-cased) and unique; Count equals the number of times the
// tag has been referenced across all conversations.
type Hashtag struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Count     int64              `json:"count" bson:"count"`
	CreatedAt time.Time          `json:"created_at" bson:"createdAt"`
}
