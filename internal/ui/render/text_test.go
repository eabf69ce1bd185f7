package render

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean", "Hello", "Hello"},
		{"control chars", "Hel\x00lo\x07", "Hello"},
		{"tab kept", "a\tb", "a\tb"},
		{"newline dropped", "line\nbreak", "linebreak"},
		{"nbsp", "Daft\u00a0Punk", "Daft Punk"},
		{"invalid byte", "ab\xffcd", "abcd"},
		{"unicode kept", "Beyoncé 音楽", "Beyoncé 音楽"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"no truncation needed", "hello", 10, "hello"},
		{"exact fit", "hello", 5, "hello"},
		{"truncation with ellipsis", "hello world", 8, "hello w…"},
		{"zero width", "hello", 0, ""},
		{"empty string", "", 10, ""},
		{"sanitized first", "he\x00llo", 5, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxWidth)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestTruncate_WideCharacters(t *testing.T) {
	got := Truncate("音楽音楽音楽", 7)
	if w := runewidth.StringWidth(got); w > 7 {
		t.Errorf("Truncate width = %d, want <= 7", w)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("Truncate(%q) should end with an ellipsis", got)
	}
}

func TestTruncateStyled(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("hello world")

	got := TruncateStyled(styled, 6)
	if w := ansi.StringWidth(got); w > 6 {
		t.Errorf("TruncateStyled width = %d, want <= 6", w)
	}
	if plain := ansi.Strip(got); plain != "hello…" {
		t.Errorf("TruncateStyled stripped = %q, want %q", plain, "hello…")
	}
	if got := TruncateStyled(styled, 0); got != "" {
		t.Errorf("TruncateStyled(_, 0) = %q, want empty", got)
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{"padding needed", "hello", 10, "hello     "},
		{"exact width", "hello", 5, "hello"},
		{"already wider", "hello world", 5, "hello world"},
		{"empty string", "", 5, "     "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pad(tt.input, tt.width); got != tt.want {
				t.Errorf("Pad(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
			}
		})
	}
}

func TestTruncateAndPad(t *testing.T) {
	tests := []struct {
		input string
		width int
	}{
		{"hello world", 8},
		{"hi", 8},
		{"音楽音楽音楽", 5},
	}

	for _, tt := range tests {
		got := TruncateAndPad(tt.input, tt.width)
		if w := runewidth.StringWidth(got); w != tt.width {
			t.Errorf("TruncateAndPad(%q, %d) width = %d", tt.input, tt.width, w)
		}
	}
}

func TestRow(t *testing.T) {
	tests := []struct {
		name      string
		left      string
		right     string
		width     int
		wantWidth int
	}{
		{"basic row", "left", "right", 20, 20},
		{"tight fit", "left", "right", 10, 10},
		{"overflow keeps a gap", "left", "right", 4, 10},
		{"styled sides", lipgloss.NewStyle().Bold(true).Render("left"), "right", 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Row(tt.left, tt.right, tt.width)
			if w := ansi.StringWidth(got); w != tt.wantWidth {
				t.Errorf("Row width = %d, want %d", w, tt.wantWidth)
			}
			if !strings.HasPrefix(got, tt.left) || !strings.HasSuffix(got, tt.right) {
				t.Errorf("Row(%q, %q) = %q", tt.left, tt.right, got)
			}
		})
	}
}

func TestSeparator(t *testing.T) {
	if got := Separator(10); got != "──────────" {
		t.Errorf("Separator(10) = %q", got)
	}
	if got := Separator(-1); got != "" {
		t.Errorf("Separator(-1) = %q, want empty", got)
	}
}

func TestEmptyLine(t *testing.T) {
	if got := EmptyLine(5); got != "     " {
		t.Errorf("EmptyLine(5) = %q", got)
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{30 * time.Second, "0:30"},
		{3*time.Minute + 58*time.Second, "3:58"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
		{1500 * time.Millisecond, "0:01"},
	}

	for _, tt := range tests {
		if got := Duration(tt.in); got != tt.want {
			t.Errorf("Duration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
