package models

import "time"

// ActionType is the closed set of events recorded in a project feed.
type ActionType string

const (
	ActionTaskCreated   ActionType = "TASK_CREATED"
	ActionTaskUpdated   ActionType = "TASK_UPDATED"
	ActionQueryAdded    ActionType = "QUERY_ADDED"
	ActionQueryResolved ActionType = "QUERY_RESOLVED"
	ActionMemberJoined  ActionType = "MEMBER_JOINED"
)

// Valid reports whether a is one of the known action types.
func (a ActionType) Valid() bool {
	switch a {
	case ActionTaskCreated, ActionTaskUpdated, ActionQueryAdded, ActionQueryResolved, ActionMemberJoined:
		return true
	}
	return false
}

// Activity is immutable once written.
type Activity struct {
	ID          string     `json:"_id" bson:"_id"`
	ProjectCode string     `json:"projectId" bson:"projectId"`
	UserName    string     `json:"userName" bson:"userName"`
	UserEmail   string     `json:"userEmail,omitempty" bson:"userEmail,omitempty"`
	ActionType  ActionType `json:"actionType" bson:"actionType"`
	Description string     `json:"description" bson:"description"`
	Timestamp   time.Time  `json:"timestamp" bson:"timestamp"`
}
