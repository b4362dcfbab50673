package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/alexanderramin/callsheet/internal/scheduler"
	"github.com/charmbracelet/lipgloss"
)

// SharedGroupName labels entries that span every track.
const SharedGroupName = "All tracks"

// FormatScheduleList renders the schedules inside a bordered box.
func FormatScheduleList(schedules []*domain.Schedule) string {
	headers := []string{"ID", "NAME", "DATE", "TRACKS", "DAY START"}
	rows := make([][]string, 0, len(schedules))
	for _, s := range schedules {
		rows = append(rows, []string{
			TruncID(s.ID),
			Bold(s.Name),
			s.DisplayDate(),
			fmt.Sprintf("%d", len(s.Tracks)),
			s.Settings.DayStartTime,
		})
	}
	return RenderBox("Schedules", RenderTable(headers, rows))
}

// FormatScheduleDetail renders schedule metadata beside a track tree of its
// projected entries.
func FormatScheduleDetail(s *domain.Schedule, rows []scheduler.Row) string {
	var meta strings.Builder
	meta.WriteString(StyleBold.Render(s.Name) + "\n")
	meta.WriteString(StyleBlue.Render(s.DisplayDate()) + "\n\n")
	meta.WriteString(fmt.Sprintf("%s  %s\n", Dim("ID     "), TruncID(s.ID)))
	meta.WriteString(fmt.Sprintf("%s  %d\n", Dim("TRACKS "), len(s.Tracks)))
	meta.WriteString(fmt.Sprintf("%s  %d\n\n", Dim("ENTRIES"), len(rows)))
	meta.WriteString(FormatSettings(s.Settings))

	tree := RenderTree(scheduleTree(s, rows))
	if tree == "" {
		tree = Dim("No entries yet.")
	}
	return RenderBox("", lipgloss.JoinHorizontal(lipgloss.Top, meta.String(), "    ", tree))
}

func scheduleTree(s *domain.Schedule, rows []scheduler.Row) []TreeItem {
	byTrack := make(map[string][]scheduler.Row)
	for _, r := range rows {
		byTrack[r.TrackID] = append(byTrack[r.TrackID], r)
	}

	type group struct {
		id, name string
	}
	groups := make([]group, 0, len(s.Tracks)+1)
	for _, t := range domain.SortTracks(s.Tracks) {
		groups = append(groups, group{t.ID, t.Name})
	}
	if len(byTrack[domain.SharedTrackID]) > 0 {
		groups = append(groups, group{domain.SharedTrackID, SharedGroupName})
	}

	var items []TreeItem
	for _, g := range groups {
		members := byTrack[g.id]
		items = append(items, TreeItem{
			Title:  StyleHeader.Render(g.name),
			Detail: fmt.Sprintf("%d", len(members)),
		})
		for i, r := range members {
			items = append(items, TreeItem{
				Title:  FormatCall(r) + "  " + r.Entry.Title,
				Level:  1,
				IsLast: i == len(members)-1,
				Marker: TypeBadge(r.Entry.Type),
				Detail: domain.FormatSpan(r.DurationMin),
			})
		}
	}
	return items
}

// FormatTrackList renders tracks in order with their entry counts.
func FormatTrackList(tracks []domain.Track, counts map[string]int) string {
	headers := []string{"#", "ID", "NAME", "ENTRIES"}
	rows := make([][]string, 0, len(tracks))
	for i, t := range domain.SortTracks(tracks) {
		name := t.Name
		if i == 0 {
			name = Bold(name) + " " + Dim("(primary)")
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			TruncID(t.ID),
			name,
			fmt.Sprintf("%d", counts[t.ID]),
		})
	}
	return RenderTable(headers, rows)
}

// FormatAgenda renders the chronological projection as a table.
func FormatAgenda(rows []scheduler.Row) string {
	headers := []string{"ID", "START", "END", "DUR", "TYPE", "TITLE", "TRACK"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		end := Dim("--")
		if r.HasTime {
			end = r.EndClock()
		}
		track := r.TrackName
		if r.Shared {
			track = StyleHeader.Render(SharedGroupName)
		}
		out = append(out, []string{
			TruncID(r.Entry.ID),
			FormatCall(r),
			end,
			FormatDuration(r),
			TypeBadge(r.Entry.Type),
			entryTitle(r.Entry),
			track,
		})
	}
	return RenderTable(headers, out)
}

func entryTitle(e domain.Entry) string {
	title := Truncate(e.Title, 40)
	if e.Highlight != nil {
		if e.Highlight.Emoji != "" {
			title = e.Highlight.Emoji + " " + title
		}
		title = lipgloss.NewStyle().Foreground(HighlightColor(e)).Render(title)
	}
	return title
}

// FormatConflicts lists overlapping entry pairs grouped by track.
func FormatConflicts(conflicts []scheduler.Conflict) string {
	if len(conflicts) == 0 {
		return StyleGreen.Render("✔ No conflicts.")
	}
	headers := []string{"TRACK", "ENTRY", "OVERLAPS"}
	rows := make([][]string, 0, len(conflicts))
	for _, c := range conflicts {
		rows = append(rows, []string{
			c.TrackName,
			c.FirstTitle + " " + TruncID(c.FirstEntryID),
			c.SecondTitle + " " + TruncID(c.SecondEntryID),
		})
	}
	return StyleRed.Render(fmt.Sprintf("✘ %d conflict(s)", len(conflicts))) + "\n\n" + RenderTable(headers, rows)
}

// FormatPatches lists the field changes a committed edit wrote. titles maps
// entry ids to display titles; unknown ids fall back to the short id.
func FormatPatches(patches []domain.EntryPatch, titles map[string]string) string {
	if len(patches) == 0 {
		return Dim("No changes.")
	}
	var b strings.Builder
	for _, p := range patches {
		name := titles[p.EntryID]
		if name == "" {
			name = ShortID(p.EntryID)
		}
		b.WriteString(fmt.Sprintf("  %s %s  %s\n", StyleGreen.Render("•"), name, Dim(p.Patch.String())))
	}
	return strings.TrimRight(b.String(), "\n")
}
