// Package normalize trims and case-folds user input before it is stored or
// compared.
package normalize

import (
	"strings"

	"github.com/dalemusser/bughub/internal/domain/models"
)

// Email lowercases and trims; emails are unique case-insensitively.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Title trims and collapses internal runs of whitespace.
func Title(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// BugStatus lowercases, trims and accepts "in_progress"/"in-progress" as
// spellings of "in progress".
func BugStatus(s string) models.BugStatus {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return models.BugStatus(s)
}

// BugPriority lowercases and trims.
func BugPriority(s string) models.BugPriority {
	return models.BugPriority(strings.ToLower(strings.TrimSpace(s)))
}

// RequestStatus lowercases and trims a resolution value.
func RequestStatus(s string) models.RequestStatus {
	return models.RequestStatus(strings.ToLower(strings.TrimSpace(s)))
}

// QueryParam trims and preserves case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// GroupID trims a group filter; "all" means no filter and becomes "".
func GroupID(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}
