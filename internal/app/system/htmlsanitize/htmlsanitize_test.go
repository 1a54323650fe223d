package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/bughub/internal/app/system/htmlsanitize"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "Crash on save", "Crash on save"},
		{"ampersand survives", "Tom & Jerry", "Tom & Jerry"},
		{"tags stripped", "<b>Crash</b> on save", "Crash on save"},
		{"script dropped with content", "<script>alert(1)</script>Boom", "Boom"},
		{"trimmed", "  spaced  ", "spaced"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.PlainText(tt.input); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDescription_RemovesScript(t *testing.T) {
	got := htmlsanitize.Description("<p>Hello</p><script>alert('xss')</script>")
	if got != "<p>Hello</p>" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestDescription_RemovesOnclick(t *testing.T) {
	got := htmlsanitize.Description(`<a href="https://example.com" onclick="alert('xss')">Link</a>`)
	if strings.Contains(got, "onclick") {
		t.Errorf("expected onclick removed, got %q", got)
	}
	if !strings.Contains(got, "https://example.com") {
		t.Errorf("expected safe href kept, got %q", got)
	}
}

func TestDescription_RemovesJavascriptHref(t *testing.T) {
	got := htmlsanitize.Description(`<a href="javascript:alert('xss')">Click</a>`)
	if strings.Contains(got, "javascript:") {
		t.Errorf("expected javascript: href removed, got %q", got)
	}
}

func TestDescription_KeepsCodeBlocks(t *testing.T) {
	input := "<pre><code>panic: nil map</code></pre>"
	if got := htmlsanitize.Description(input); got != input {
		t.Errorf("expected code block preserved, got %q", got)
	}
}
