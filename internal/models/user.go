package models

import "time"

// Roles a user can claim during onboarding.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User is keyed by email. ProjectCode is the de facto foreign key shared by
// every other collection.
type User struct {
	Email              string    `json:"email" bson:"email"`
	Role               string    `json:"role" bson:"role"`
	Position           string    `json:"position,omitempty" bson:"position,omitempty"`
	TeamName           string    `json:"teamName,omitempty" bson:"teamName,omitempty"`
	TeamSize           string    `json:"teamSize,omitempty" bson:"teamSize,omitempty"`
	ProjectName        string    `json:"projectName,omitempty" bson:"projectName,omitempty"`
	ProjectCode        string    `json:"projectId,omitempty" bson:"projectId,omitempty"`
	MemberRole         string    `json:"memberRole,omitempty" bson:"memberRole,omitempty"`
	OnboardingComplete bool      `json:"onboardingComplete" bson:"onboardingComplete"`
	CreatedAt          time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt" bson:"updatedAt"`
}
