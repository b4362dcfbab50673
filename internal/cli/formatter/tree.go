package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is a single node in a tree display.
type TreeItem struct {
	Title  string
	Level  int
	IsLast bool
	// Marker is an optional styled prefix, such as a type badge.
	Marker string
	// Detail is shown right-aligned in brackets.
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders items as an indented tree with box-drawing connectors
// and right-aligned detail badges.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	badges := make([]string, len(items))
	width := 0
	for i, item := range items {
		var prefix string
		if item.Level > 0 {
			prefix = strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}
		line := StyleDim.Render(prefix)
		if item.Marker != "" {
			line += item.Marker + " "
		}
		line += item.Title
		contents[i] = line
		if item.Detail != "" {
			badges[i] = StyleBlue.Render("[ " + item.Detail + " ]")
		}
		if w := lipgloss.Width(line); w > width {
			width = w
		}
	}

	var b strings.Builder
	for i, line := range contents {
		b.WriteString(line)
		if badges[i] != "" {
			b.WriteString(strings.Repeat(" ", width-lipgloss.Width(line)+2))
			b.WriteString(badges[i])
		}
		b.WriteString("\n")
	}
	return b.String()
}
