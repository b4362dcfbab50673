package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/alexanderramin/callsheet/internal/scheduler"
	"github.com/jedib0t/go-pretty/v6/table"
)

// DocumentFormat is an output format for the printable call sheet.
type DocumentFormat string

const (
	DocumentText     DocumentFormat = "text"
	DocumentMarkdown DocumentFormat = "markdown"
	DocumentCSV      DocumentFormat = "csv"
	DocumentHTML     DocumentFormat = "html"
)

// ParseDocumentFormat validates a --format value.
func ParseDocumentFormat(s string) (DocumentFormat, error) {
	switch f := DocumentFormat(strings.ToLower(s)); f {
	case DocumentText, DocumentMarkdown, DocumentCSV, DocumentHTML:
		return f, nil
	case "md":
		return DocumentMarkdown, nil
	default:
		return "", fmt.Errorf("unknown document format %q (expected text, markdown, csv or html)", s)
	}
}

// RenderDocument renders the call sheet as a plain, uncolored table suitable
// for printing or pasting elsewhere.
func RenderDocument(s *domain.Schedule, rows []scheduler.Row, format DocumentFormat) (string, error) {
	tw := table.NewWriter()
	tw.SetTitle(fmt.Sprintf("%s · %s", s.Name, s.DisplayDate()))
	tw.AppendHeader(table.Row{"Call", "End", "Duration", "Type", "Title", "Track", "Notes"})
	for _, r := range rows {
		call := r.StartClock()
		if !r.HasTime {
			call = r.CallText()
		}
		track := r.TrackName
		if r.Shared {
			track = SharedGroupName
		}
		dur := ""
		if r.DurationMin > 0 {
			dur = domain.FormatSpan(r.DurationMin)
		}
		tw.AppendRow(table.Row{call, r.EndClock(), dur, r.Entry.Type.Label(), r.Entry.Title, track, r.Entry.Notes})
	}
	tw.AppendFooter(table.Row{"", "", "", "", fmt.Sprintf("%d entries", len(rows)), "", ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Title", WidthMax: 40},
		{Name: "Notes", WidthMax: 40},
	})

	switch format {
	case DocumentText:
		tw.SetStyle(table.StyleLight)
		return tw.Render() + "\n", nil
	case DocumentMarkdown:
		return tw.RenderMarkdown() + "\n", nil
	case DocumentCSV:
		return tw.RenderCSV() + "\n", nil
	case DocumentHTML:
		return tw.RenderHTML() + "\n", nil
	default:
		return "", fmt.Errorf("unknown document format %q", string(format))
	}
}
