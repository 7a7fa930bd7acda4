package models

import "strings"

// UserNameFromEmail derives the display name used in activity entries: the
// part of the address before '@'.
func UserNameFromEmail(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}
