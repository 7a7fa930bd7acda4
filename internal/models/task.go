package models

import "time"

// Task statuses. Only Done carries meaning elsewhere.
const (
	TaskStatusTodo       = "To-Do"
	TaskStatusInProgress = "In Progress"
	TaskStatusDone       = "Done"

	DefaultTaskPriority = "Medium"
)

type Task struct {
	ID              string    `json:"_id" bson:"_id"`
	ProjectCode     string    `json:"projectId" bson:"projectId"`
	Title           string    `json:"title" bson:"title"`
	Deadline        string    `json:"deadline,omitempty" bson:"deadline,omitempty"`
	Status          string    `json:"status" bson:"status"`
	Priority        string    `json:"priority" bson:"priority"`
	AssigneeName    string    `json:"assigneeName,omitempty" bson:"assigneeName,omitempty"`
	AssigneeInitial string    `json:"assigneeInitial,omitempty" bson:"assigneeInitial,omitempty"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
}
