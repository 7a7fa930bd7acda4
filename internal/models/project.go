package models

import "time"

// Project is keyed by its caller-chosen code. Members is append-only and
// starts with the admin.
type Project struct {
	Code       string    `json:"projectId" bson:"projectId"`
	Name       string    `json:"projectName" bson:"projectName"`
	AdminEmail string    `json:"adminEmail" bson:"adminEmail"`
	Members    []string  `json:"members" bson:"members"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}
