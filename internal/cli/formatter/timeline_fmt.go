package formatter

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/alexanderramin/callsheet/internal/scheduler"
	"github.com/charmbracelet/lipgloss"
)

// DefaultPxPerLine maps timeline pixels to terminal lines.
const DefaultPxPerLine = 30

const gutterWidth = 7

// TimelineLayout sizes the terminal rendering of a segmented timeline.
type TimelineLayout struct {
	Width     int
	PxPerLine float64
}

// DefaultTimelineLayout fits an 80-column terminal.
func DefaultTimelineLayout() TimelineLayout {
	return TimelineLayout{Width: 80, PxPerLine: DefaultPxPerLine}
}

func (l TimelineLayout) lines(px float64) int {
	if l.PxPerLine <= 0 {
		return 1
	}
	n := int(math.Round(px / l.PxPerLine))
	if n < 1 {
		return 1
	}
	return n
}

// FormatTimeline renders banner, gap, and dense segments top to bottom.
// Dense blocks get one column per track; cards are placed by their pixel
// offsets and sized by their pixel heights.
func FormatTimeline(seg scheduler.Segmentation, layout TimelineLayout) string {
	if layout.Width < gutterWidth+10 {
		layout.Width = gutterWidth + 10
	}
	if len(seg.Segments) == 0 && len(seg.Unscheduled) == 0 {
		return Dim("Nothing scheduled.")
	}

	var b strings.Builder
	for _, s := range seg.Segments {
		switch s.Kind {
		case scheduler.SegmentBanner:
			b.WriteString(renderBanner(s, layout))
		case scheduler.SegmentGap:
			b.WriteString(renderGap(s, layout))
		case scheduler.SegmentDense:
			b.WriteString(renderDense(s, layout))
		default:
			panic(fmt.Sprintf("unhandled segment kind %q", string(s.Kind)))
		}
	}

	if len(seg.Unscheduled) > 0 {
		titles := make([]string, 0, len(seg.Unscheduled))
		for _, r := range seg.Unscheduled {
			t := r.Entry.Title
			if call := r.CallText(); call != "" {
				t += " (" + call + ")"
			}
			titles = append(titles, t)
		}
		b.WriteString("\n" + Dim("Unscheduled: ") + strings.Join(titles, ", ") + "\n")
	}
	return b.String()
}

func renderBanner(s scheduler.Segment, layout TimelineLayout) string {
	color := ColorHeader
	if s.Banner != nil {
		color = HighlightColor(s.Banner.Entry)
	}
	text := fmt.Sprintf("%s–%s  %s", domain.FormatClock(s.StartMin), domain.FormatClock(s.EndMin), strings.ToUpper(s.Label))
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#282828")).
		Background(color).
		Width(layout.Width).
		Align(lipgloss.Center)

	n := layout.lines(s.HeightPx)
	lines := make([]string, n)
	lines[n/2] = Truncate(text, layout.Width)
	return style.Render(strings.Join(lines, "\n")) + "\n"
}

func renderGap(s scheduler.Segment, layout TimelineLayout) string {
	label := fmt.Sprintf(" %s (%s–%s) ", s.Label, domain.FormatClock(s.StartMin), domain.FormatClock(s.EndMin))
	fill := layout.Width - lipgloss.Width(label)
	if fill < 2 {
		return Dim(Truncate(label, layout.Width)) + "\n"
	}
	left := fill / 2
	return Dim(strings.Repeat("┄", left)+label+strings.Repeat("┄", fill-left)) + "\n"
}

type cell struct {
	text  string
	color lipgloss.Color
	clash bool
}

func renderDense(s scheduler.Segment, layout TimelineLayout) string {
	cols := len(s.Columns)
	if cols == 0 {
		return ""
	}
	colWidth := (layout.Width - gutterWidth) / cols
	if colWidth < 4 {
		colWidth = 4
	}
	total := layout.lines(s.HeightPx)

	grid := make([][]*cell, cols)
	starts := make(map[int]int)
	for ci, col := range s.Columns {
		grid[ci] = make([]*cell, total)
		for _, c := range col.Cards {
			top := int(c.TopPx / layout.PxPerLine)
			height := layout.lines(c.HeightPx)
			if top >= total {
				top = total - 1
			}
			if _, ok := starts[top]; !ok {
				starts[top] = c.Row.StartMin
			}
			color := HighlightColor(c.Row.Entry)
			for i := 0; i < height && top+i < total; i++ {
				text := ""
				switch i {
				case 0:
					text = c.Row.StartClock() + " " + c.Row.Entry.Title
				case 1:
					text = domain.FormatSpan(c.Row.DurationMin)
				}
				clash := grid[ci][top+i] != nil
				grid[ci][top+i] = &cell{text: text, color: color, clash: clash}
			}
		}
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gutterWidth))
	for _, col := range s.Columns {
		b.WriteString(padCell(StyleHeader.Render(Truncate(col.TrackName, colWidth-1)), colWidth))
	}
	b.WriteString("\n")

	for line := 0; line < total; line++ {
		gutter := ""
		if start, ok := starts[line]; ok {
			gutter = domain.FormatClock(start)
		} else if line == 0 {
			gutter = domain.FormatClock(s.StartMin)
		}
		b.WriteString(padCell(Dim(gutter), gutterWidth))
		for ci := range s.Columns {
			b.WriteString(renderCell(grid[ci][line], colWidth))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderCell(c *cell, width int) string {
	if c == nil {
		return padCell(Dim("·"), width)
	}
	bar := lipgloss.NewStyle().Foreground(c.color).Render("▌")
	if c.clash {
		bar = StyleRed.Render("!")
	}
	return padCell(bar+Truncate(c.text, width-2), width)
}

func padCell(s string, width int) string {
	pad := width - lipgloss.Width(s)
	if pad < 0 {
		pad = 0
	}
	return s + strings.Repeat(" ", pad)
}
