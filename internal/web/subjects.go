package web

import "strings"

// Subjects offered by the companion builder and library filter.
var Subjects = []string{"maths", "language", "science", "history", "coding", "economics"}

// Voices and Styles offered by the companion builder.
var (
	Voices = []string{"male", "female"}
	Styles = []string{"formal", "casual"}
)

var subjectColors = map[string]string{
	"science":   "#E5D0FF",
	"maths":     "#FFDA6E",
	"language":  "#BDE7FF",
	"coding":    "#FFC8E4",
	"history":   "#FFECC8",
	"economics": "#C8FFDF",
}

// DefaultSubjectColor is used for subjects without a palette entry.
const DefaultSubjectColor = "#E5E5E5"

// SubjectColor returns the card color of subject.
func SubjectColor(subject string) string {
	if color, ok := subjectColors[strings.ToLower(strings.TrimSpace(subject))]; ok {
		return color
	}
	return DefaultSubjectColor
}
