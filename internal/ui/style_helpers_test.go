package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"showroom", 5, "show…"},
		{"anything", 0, ""},
	}
	for _, c := range cases {
		if got := truncate(c.in, c.width); got != c.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", c.in, c.width, got, c.want)
		}
	}
}

func TestBgStyle_Widths(t *testing.T) {
	bg := NewBgStyle("#000000")
	if got := lipgloss.Width(bg.Spaces(4)); got != 4 {
		t.Fatalf("Spaces(4) width = %d", got)
	}
	if bg.Spaces(0) != "" {
		t.Fatal("Spaces(0) should be empty")
	}
	if got := lipgloss.Width(bg.Render("a  b", lipgloss.NewStyle())); got != 4 {
		t.Fatalf("Render keeps spaces, width = %d", got)
	}
	if got := lipgloss.Width(bg.FillLine("x", 12)); got != 12 {
		t.Fatalf("FillLine width = %d", got)
	}
	if got := lipgloss.Width(bg.Join([]string{"a", "b"}, " | ")); got != 5 {
		t.Fatalf("Join width = %d", got)
	}
}

func TestBadgePadsToWidth(t *testing.T) {
	styles := GetTheme("Slate").Styles()
	if got := lipgloss.Width(badge(styles, "live", 10)); got != 10 {
		t.Fatalf("badge width = %d, want 10", got)
	}
	if got := badge(styles, "", 6); got != "      " {
		t.Fatalf("empty badge = %q", got)
	}
}
