package models

import "time"

// RegisteredBot is a mirror bot allowed to call the bot-facing API.
// Username is the unique identifier; Token is the per-bot credential used
// as the second authorization factor by the mirror endpoints.
type RegisteredBot struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Username  string    `bson:"username" json:"username"`
	Developer string    `bson:"developer" json:"developer"`
	Token     string    `bson:"token" json:"token"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
