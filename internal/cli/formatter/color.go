package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// TypeColor returns the accent color for an entry type.
func TypeColor(t domain.EntryType) lipgloss.Color {
	switch t {
	case domain.EntryShot:
		return ColorGreen
	case domain.EntrySetup:
		return ColorBlue
	case domain.EntryBreak:
		return ColorYellow
	case domain.EntryMove:
		return ColorPurple
	case domain.EntryBanner:
		return ColorHeader
	default:
		return ColorDim
	}
}

// TypeBadge renders a short colored tag such as "SHOT" or "MOVE".
func TypeBadge(t domain.EntryType) string {
	return lipgloss.NewStyle().Foreground(TypeColor(t)).Bold(true).Render(strings.ToUpper(string(t)))
}

// HighlightColor resolves an entry's highlight to a lipgloss color, falling
// back to the type accent when no custom color is set.
func HighlightColor(e domain.Entry) lipgloss.Color {
	if e.Highlight != nil && e.Highlight.Color != "" {
		return lipgloss.Color(e.Highlight.Color)
	}
	return TypeColor(e.Type)
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
