package models

import "time"

// Query is a discussion item raised inside a project.
type Query struct {
	ID          string    `json:"_id" bson:"_id"`
	ProjectCode string    `json:"projectId" bson:"projectId"`
	Text        string    `json:"text" bson:"text"`
	SenderEmail string    `json:"senderEmail" bson:"senderEmail"`
	IsResolved  bool      `json:"isResolved" bson:"isResolved"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}
