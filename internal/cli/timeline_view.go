package cli

import (
	"fmt"

	"github.com/alexanderramin/callsheet/internal/cli/formatter"
	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/alexanderramin/callsheet/internal/scheduler"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	minPxPerLine = 2.5
	maxPxPerLine = 240

	// header and footer lines around the viewport
	timelineChrome = 2
)

// timelineModel is a scrollable, zoomable view of a segmented timeline.
type timelineModel struct {
	schedule *domain.Schedule
	seg      scheduler.Segmentation
	layout   formatter.TimelineLayout
	vp       viewport.Model
	quitting bool
}

func newTimelineModel(s *domain.Schedule, seg scheduler.Segmentation, layout formatter.TimelineLayout) timelineModel {
	vp := viewport.New(layout.Width, 20)
	vp.KeyMap = timelineKeyMap()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	m := timelineModel{schedule: s, seg: seg, layout: layout, vp: vp}
	m.render()
	return m
}

// timelineKeyMap leaves +, - and q free for zoom and quit.
func timelineKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown", " ")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up", "k")),
		Down:         key.NewBinding(key.WithKeys("down", "j")),
	}
}

func (m *timelineModel) render() {
	m.vp.SetContent(formatter.FormatTimeline(m.seg, m.layout))
}

func (m timelineModel) Init() tea.Cmd {
	return nil
}

func (m timelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.Width = msg.Width
		m.vp.Width = msg.Width
		m.vp.Height = msg.Height - timelineChrome
		if m.vp.Height < 1 {
			m.vp.Height = 1
		}
		m.render()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "+", "=":
			m.zoom(0.5)
			return m, nil
		case "-":
			m.zoom(2)
			return m, nil
		case "g", "home":
			m.vp.GotoTop()
			return m, nil
		case "G", "end":
			m.vp.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// zoom scales how many pixels one terminal line covers; a smaller value
// stretches the dense blocks.
func (m *timelineModel) zoom(factor float64) {
	next := m.layout.PxPerLine * factor
	if next < minPxPerLine {
		next = minPxPerLine
	}
	if next > maxPxPerLine {
		next = maxPxPerLine
	}
	m.layout.PxPerLine = next
	m.render()
}

func (m timelineModel) View() string {
	if m.quitting {
		return ""
	}
	header := formatter.StyleHeader.Render(m.schedule.Name) + "  " + formatter.Dim(m.schedule.DisplayDate())
	footer := formatter.Dim(fmt.Sprintf("↑/↓ scroll  +/- zoom (%.1f px/line)  q quit  ", m.layout.PxPerLine)) + scrollIndicator(m.vp)
	return header + "\n" + m.vp.View() + "\n" + footer
}

// scrollIndicator returns a dim scroll position string for the status bar.
func scrollIndicator(vp viewport.Model) string {
	if vp.AtTop() {
		return formatter.Dim("[TOP]")
	}
	if vp.AtBottom() {
		return formatter.Dim("[END]")
	}
	return formatter.Dim(fmt.Sprintf("[%d%%]", int(vp.ScrollPercent()*100)))
}

func runTimelineViewer(m timelineModel) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
