package models

// NoActiveProjectName is shown when the user has no project name on file.
const NoActiveProjectName = "No Functioning Project"

// Teammate is the public projection of another user in the same project.
type Teammate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Position string `json:"position,omitempty"`
}

// ProjectRef identifies a past project in the dashboard history.
type ProjectRef struct {
	Name string `json:"name"`
	Code string `json:"id"`
}

// DashboardView is assembled from independent reads; nothing in it is
// guaranteed consistent with the others.
type DashboardView struct {
	ActiveProjectName string       `json:"activeProjectName"`
	ActiveProjectCode string       `json:"activeProjectId"`
	Teammates         []Teammate   `json:"teammates"`
	History           []ProjectRef `json:"history"`
}
