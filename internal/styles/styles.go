// Package styles holds the terminal palette and the text helpers of the
// xbasedump command.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for xbasedump
var (
	Primary   = lipgloss.Color("#7D56F4") // Purple
	Secondary = lipgloss.Color("#04B575") // Green
	Accent    = lipgloss.Color("#F25D94") // Pink

	ErrorColor   = lipgloss.Color("#FF6B6B") // Red
	WarningColor = lipgloss.Color("#FFB347") // Orange
	InfoColor    = lipgloss.Color("#54A6FF") // Blue

	Text    = lipgloss.Color("#FAFAFA") // Light
	TextDim = lipgloss.Color("#A8A8A8") // Dim
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			PaddingTop(1).
			PaddingBottom(1)

	SubHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(InfoColor)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ErrorColor)

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(WarningColor)

	BoldStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Text)

	DimStyle = lipgloss.NewStyle().
			Foreground(TextDim)

	DeletedStyle = lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(TextDim)

	ColumnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)
)

func Header(text string) string {
	return HeaderStyle.Render(text)
}

func SubHeader(text string) string {
	return SubHeaderStyle.Render(text)
}

func Error(text string) string {
	return ErrorStyle.Render("error: " + text)
}

func Warning(text string) string {
	return WarningStyle.Render(text)
}

func Bold(text string) string {
	return BoldStyle.Render(text)
}

func Dim(text string) string {
	return DimStyle.Render(text)
}

func Column(text string) string {
	return ColumnStyle.Render(text)
}

// Deleted renders a record line carrying the deletion tombstone.
func Deleted(text string) string {
	return DeletedStyle.Render(text)
}

// Box frames a block of prerendered lines.
func Box(text string) string {
	return BoxStyle.Render(text)
}
