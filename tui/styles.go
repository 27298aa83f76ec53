package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the board colour scheme.
type Theme struct {
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color
	Primary       lipgloss.Color
	Success       lipgloss.Color
	Warning       lipgloss.Color
	Error         lipgloss.Color
	Border        lipgloss.Color
	BorderFocus   lipgloss.Color
	Selection     lipgloss.Color
}

var DefaultTheme = Theme{
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),
	Primary:       lipgloss.Color("#7aa2f7"),
	Success:       lipgloss.Color("#9ece6a"),
	Warning:       lipgloss.Color("#e0af68"),
	Error:         lipgloss.Color("#f7768e"),
	Border:        lipgloss.Color("#3b4261"),
	BorderFocus:   lipgloss.Color("#7aa2f7"),
	Selection:     lipgloss.Color("#33467c"),
}

// Styles holds the pre-computed styles for the board.
type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	Column        lipgloss.Style
	ColumnFocused lipgloss.Style
	ColumnHeader  lipgloss.Style

	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardPending  lipgloss.Style
	Overdue      lipgloss.Style

	PriorityHigh   lipgloss.Style
	PriorityMedium lipgloss.Style
	PriorityLow    lipgloss.Style

	Dashboard lipgloss.Style
	FilterBar lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Label        lipgloss.Style

	Dialog    lipgloss.Style
	StatusOK  lipgloss.Style
	StatusErr lipgloss.Style
}

func NewStyles(t Theme) *Styles {
	column := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	return &Styles{
		Title:      lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		TitleMuted: lipgloss.NewStyle().Foreground(t.ForegroundDim),

		Column:        column,
		ColumnFocused: column.BorderForeground(t.BorderFocus),
		ColumnHeader:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),

		Card:         lipgloss.NewStyle().Foreground(t.Foreground),
		CardSelected: lipgloss.NewStyle().Foreground(t.Primary).Background(t.Selection).Bold(true),
		CardPending:  lipgloss.NewStyle().Foreground(t.ForegroundDim).Italic(true),
		Overdue:      lipgloss.NewStyle().Foreground(t.Error).Bold(true),

		PriorityHigh:   lipgloss.NewStyle().Foreground(t.Error),
		PriorityMedium: lipgloss.NewStyle().Foreground(t.Warning),
		PriorityLow:    lipgloss.NewStyle().Foreground(t.Success),

		Dashboard: lipgloss.NewStyle().Foreground(t.ForegroundDim).Padding(0, 1),
		FilterBar: lipgloss.NewStyle().Foreground(t.Foreground).Padding(0, 1),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		InputFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),
		Label: lipgloss.NewStyle().Foreground(t.ForegroundDim),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Warning).
			Padding(1, 2),
		StatusOK:  lipgloss.NewStyle().Foreground(t.Success),
		StatusErr: lipgloss.NewStyle().Foreground(t.Error),
	}
}
