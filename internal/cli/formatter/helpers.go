package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/alexanderramin/callsheet/internal/scheduler"
	"github.com/charmbracelet/lipgloss"
)

// ShortIDLen is how many id characters the CLI shows and accepts as a prefix.
const ShortIDLen = 8

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title == "" {
		return boxStyle.Render(content)
	}
	return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
}

// ShortID returns the display prefix of an id.
func ShortID(id string) string {
	if len(id) > ShortIDLen {
		return id[:ShortIDLen]
	}
	return id
}

// TruncID returns the display prefix of an id, dimmed.
func TruncID(id string) string {
	return StyleDim.Render(ShortID(id))
}

// Truncate shortens s to at most n visible runes, ending in "…".
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// FormatCall renders the start column of a projected row: the clock time
// with a dim "~" for derived times, the legacy call text, or a dash.
func FormatCall(r scheduler.Row) string {
	if r.HasTime {
		clock := r.StartClock()
		if r.TimeSource == domain.TimeDerived {
			return StyleDim.Render("~") + clock
		}
		return " " + clock
	}
	if call := r.CallText(); call != "" {
		return StyleYellow.Render(call)
	}
	return StyleDim.Render("--")
}

// FormatDuration renders a row's effective duration, dimming it when the
// schedule default is standing in for a missing value.
func FormatDuration(r scheduler.Row) string {
	if r.DurationMin <= 0 {
		return StyleDim.Render("--")
	}
	span := domain.FormatSpan(r.DurationMin)
	if !r.Entry.HasDuration() {
		return StyleDim.Render(span)
	}
	return span
}

// FormatSettings renders schedule policy as key/value lines.
func FormatSettings(s domain.Settings) string {
	cascade := StyleGreen.Render("on")
	if !s.CascadeChanges {
		cascade = StyleDim.Render("off")
	}
	return fmt.Sprintf("%s %s\n%s %s\n%s %s",
		Dim("Cascade:         "), cascade,
		Dim("Day start:       "), s.DayStartTime,
		Dim("Default duration:"), domain.FormatSpan(s.DefaultEntryDurationMin),
	)
}
