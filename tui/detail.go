package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// renderers are cached per wrap width
var renderers sync.Map

func markdownRenderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := renderers.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	renderers.Store(width, r)
	return r, nil
}

// renderDescription renders a task description as markdown, falling back to
// the raw text when rendering fails.
func renderDescription(description string, width int) string {
	if strings.TrimSpace(description) == "" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true).Render("No description")
	}
	r, err := markdownRenderer(width)
	if err != nil {
		return description
	}
	out, err := r.Render(description)
	if err != nil {
		return description
	}
	return strings.TrimSpace(out)
}
