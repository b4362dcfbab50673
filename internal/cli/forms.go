package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/callsheet/internal/cli/formatter"
	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// callsheetHuhTheme returns a huh theme using the formatter palette.
func callsheetHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// confirmForm creates a huh form for a yes/no confirmation.
func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(callsheetHuhTheme()).WithShowHelp(false)
}

// confirm asks a yes/no question on a terminal. Without one, destructive
// commands must be forced explicitly.
func confirm(app *App, title string) (bool, error) {
	if !app.interactive() {
		return false, fmt.Errorf("refusing to continue without confirmation (use --force)")
	}
	var ok bool
	if err := confirmForm(title, &ok).Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// entryFormValues backs the interactive entry form. Numeric and time fields
// stay strings until the form is submitted.
type entryFormValues struct {
	entryType string
	title     string
	trackID   string
	start     string
	duration  string
	notes     string
}

// entryForm builds the "entry add" form. Track options include the shared
// group for banners and all-track entries.
func entryForm(tracks []domain.Track, v *entryFormValues) *huh.Form {
	typeOptions := make([]huh.Option[string], 0, len(domain.AllEntryTypes))
	for _, t := range domain.AllEntryTypes {
		typeOptions = append(typeOptions, huh.NewOption(t.Label(), string(t)))
	}

	trackOptions := make([]huh.Option[string], 0, len(tracks)+1)
	for _, t := range domain.SortTracks(tracks) {
		trackOptions = append(trackOptions, huh.NewOption(t.Name, t.ID))
	}
	trackOptions = append(trackOptions, huh.NewOption(formatter.SharedGroupName, domain.SharedTrackID))

	if v.entryType == "" {
		v.entryType = string(domain.EntryShot)
	}
	if v.trackID == "" && len(tracks) > 0 {
		v.trackID = domain.SortTracks(tracks)[0].ID
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Type").
				Options(typeOptions...).
				Value(&v.entryType),
			huh.NewInput().
				Title("Title").
				Value(&v.title).
				Validate(validateRequired),
			huh.NewSelect[string]().
				Title("Track").
				Options(trackOptions...).
				Value(&v.trackID),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Start (blank to follow the previous entry)").
				Placeholder("09:00").
				Value(&v.start).
				Validate(validateOptionalTime),
			huh.NewInput().
				Title("Duration minutes (blank for the schedule default)").
				Placeholder("30").
				Value(&v.duration).
				Validate(validatePositiveInt),
			huh.NewText().
				Title("Notes").
				Value(&v.notes),
		),
	).WithTheme(callsheetHuhTheme()).WithShowHelp(false)
}

// apply copies submitted form values onto e.
func (v *entryFormValues) apply(e *domain.Entry) error {
	t, err := domain.ParseEntryType(v.entryType)
	if err != nil {
		return err
	}
	e.Type = t
	e.Title = strings.TrimSpace(v.title)
	e.TrackID = v.trackID
	e.StartTime = strings.TrimSpace(v.start)
	e.Notes = v.notes
	e.DurationMin = 0
	if v.duration != "" {
		if e.DurationMin, err = strconv.Atoi(v.duration); err != nil {
			return fmt.Errorf("invalid duration %q: %w", v.duration, err)
		}
	}
	return nil
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

// validatePositiveInt accepts empty or a positive integer.
func validatePositiveInt(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

// validateOptionalTime accepts empty or any time-of-day the clock parser reads.
func validateOptionalTime(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := domain.ParseTimeOfDay(s); err != nil {
		return fmt.Errorf("use a time like 09:00, 6:30pm or noon")
	}
	return nil
}
