package entity

import "time"

// User is the directory record behind an authenticated identity. Credential
// handling lives in the auth service; this entity only carries profile data
// used for listing and @mention lookup.
type User struct {
	ID        string    `json:"id" bson:"_id"`
	Username  string    `json:"username" bson:"username"`
	Email     string    `json:"email" bson:"email"`
	Avatar    string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}
