package normalize

import (
	"testing"

	"github.com/dalemusser/bughub/internal/domain/models"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"USER@EXAMPLE.COM", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
		{"   ", ""},
		{"Mixed.Case@Domain.ORG", "mixed.case@domain.org"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Email(tt.input)
			if got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"John Doe", "John Doe"},
		{"  John Doe  ", "John Doe"},
		{"", ""},
		{"   ", ""},
		{"UPPERCASE NAME", "UPPERCASE NAME"}, // Name preserves case
		{"lowercase name", "lowercase name"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Name(tt.input)
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Crash on save", "Crash on save"},
		{"  Crash   on\tsave  ", "Crash on save"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Title(tt.input)
			if got != tt.want {
				t.Errorf("Title(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBugStatus(t *testing.T) {
	tests := []struct {
		input string
		want  models.BugStatus
	}{
		{"open", models.BugOpen},
		{"  CLOSED ", models.BugClosed},
		{"in progress", models.BugInProgress},
		{"In_Progress", models.BugInProgress},
		{"in-progress", models.BugInProgress},
		{"done", "done"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := BugStatus(tt.input)
			if got != tt.want {
				t.Errorf("BugStatus(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBugPriority(t *testing.T) {
	tests := []struct {
		input string
		want  models.BugPriority
	}{
		{"high", models.PriorityHigh},
		{"  LOW ", models.PriorityLow},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := BugPriority(tt.input)
			if got != tt.want {
				t.Errorf("BugPriority(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRequestStatus(t *testing.T) {
	if got := RequestStatus(" Accepted "); got != models.RequestAccepted {
		t.Errorf("RequestStatus = %q, want accepted", got)
	}
}

func TestQueryParam(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"search term", "search term"},
		{"  trimmed  ", "trimmed"},
		{"", ""},
		{"   ", ""},
		{"UPPERCASE", "UPPERCASE"}, // Preserves case
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := QueryParam(tt.input)
			if got != tt.want {
				t.Errorf("QueryParam(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGroupID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"507f1f77bcf86cd799439011", "507f1f77bcf86cd799439011"},
		{"  507f1f77bcf86cd799439011  ", "507f1f77bcf86cd799439011"},
		{"all", ""},      // "all" converts to empty
		{"ALL", ""},      // case-insensitive
		{"  All  ", ""},  // with whitespace
		{"", ""},
		{"   ", ""},
		{"somevalue", "somevalue"}, // non-"all" values preserved
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := GroupID(tt.input)
			if got != tt.want {
				t.Errorf("GroupID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
