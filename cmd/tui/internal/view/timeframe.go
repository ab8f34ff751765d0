package view

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/wealth/internal/ledger"
)

// Timeframe is a predefined or custom date range for the transaction list.
type Timeframe int

const (
	TimeframeAll Timeframe = iota
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeThisYear
	TimeframeCustom
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeAll:
		return "All Time"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeThisYear:
		return "This Year"
	case TimeframeCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// Range returns the inclusive calendar dates covered by t relative to now.
// ok is false for TimeframeAll and TimeframeCustom.
func (t Timeframe) Range(now time.Time) (start, end time.Time, ok bool) {
	today := ledger.DateOf(now)
	firstOfMonth := today.AddDate(0, 0, 1-today.Day())

	switch t {
	case TimeframeThisMonth:
		return firstOfMonth, today, true
	case TimeframeLastMonth:
		return firstOfMonth.AddDate(0, -1, 0), firstOfMonth.AddDate(0, 0, -1), true
	case TimeframeThisYear:
		return time.Date(today.Year(), 1, 1, 0, 0, 0, 0, time.UTC), today, true
	}

	return time.Time{}, time.Time{}, false
}

// TimeframeSelectedMsg is emitted when the user has picked a range. A nil
// Start or End leaves that side open.
type TimeframeSelectedMsg struct {
	Label string
	Start *time.Time
	End   *time.Time
}

// Filter narrows f to the selected range.
func (msg TimeframeSelectedMsg) Filter(f ledger.TransactionFilter) ledger.TransactionFilter {
	f.StartDate = msg.Start
	f.EndDate = msg.End

	return f
}

// presets lists the choices in display order.
var presets = []Timeframe{TimeframeAll, TimeframeThisMonth, TimeframeLastMonth, TimeframeThisYear, TimeframeCustom}

var (
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// TimeframePicker lets the user choose a Timeframe or type a custom range.
type TimeframePicker struct {
	now    func() time.Time
	cursor int

	custom bool
	inputs [2]textinput.Model // start, end
	focus  int

	err error
}

func NewTimeframePicker(now func() time.Time) TimeframePicker {
	if now == nil {
		now = time.Now
	}

	return TimeframePicker{
		now:    now,
		cursor: slices.Index(presets, TimeframeThisMonth),
		inputs: [2]textinput.Model{newDateInput("From: "), newDateInput("To:   ")},
	}
}

func newDateInput(prompt string) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = time.DateOnly
	in.CharLimit = len(time.DateOnly)
	in.Width = 12

	return in
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

// IsSelecting reports whether the picker shows the preset list rather than the
// custom range inputs.
func (m TimeframePicker) IsSelecting() bool {
	return !m.custom
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)

	if !m.custom {
		if !isKey {
			return m, nil
		}

		return m.choosePreset(keyMsg)
	}

	if isKey {
		switch keyMsg.String() {
		case "esc":
			m.custom = false
			m.err = nil

			return m, nil
		case "tab", "shift+tab", "up", "down":
			return m.focusInput(1 - m.focus)
		case "enter":
			start, end, err := m.parseRange()
			if err != nil {
				m.err = err
				return m, nil
			}

			m.err = nil
			selected := TimeframeSelectedMsg{
				Label: FormatDate(start) + " to " + FormatDate(end),
				Start: &start,
				End:   &end,
			}

			return m, func() tea.Msg { return selected }
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	return m, cmd
}

func (m TimeframePicker) choosePreset(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		m.cursor = max(m.cursor-1, 0)
	case tea.KeyDown:
		m.cursor = min(m.cursor+1, len(presets)-1)
	case tea.KeyEnter:
		choice := presets[m.cursor]
		if choice == TimeframeCustom {
			m.custom = true
			return m.focusInput(0)
		}

		selected := TimeframeSelectedMsg{Label: choice.String()}
		if start, end, ok := choice.Range(m.now()); ok {
			selected.Start, selected.End = &start, &end
		}

		return m, func() tea.Msg { return selected }
	}

	return m, nil
}

func (m TimeframePicker) focusInput(i int) (TimeframePicker, tea.Cmd) {
	m.focus = i
	m.inputs[1-i].Blur()

	return m, m.inputs[i].Focus()
}

func (m TimeframePicker) parseRange() (start, end time.Time, err error) {
	start, err = time.Parse(time.DateOnly, strings.TrimSpace(m.inputs[0].Value()))
	if err != nil {
		return start, end, fmt.Errorf("start date must be YYYY-MM-DD")
	}

	end, err = time.Parse(time.DateOnly, strings.TrimSpace(m.inputs[1].Value()))
	if err != nil {
		return start, end, fmt.Errorf("end date must be YYYY-MM-DD")
	}

	if end.Before(start) {
		return start, end, fmt.Errorf("end date is before start date")
	}

	return start, end, nil
}

func (m TimeframePicker) View() string {
	var b strings.Builder

	if m.custom {
		b.WriteString("Custom range\n\n")
		b.WriteString(m.inputs[0].View() + "\n")
		b.WriteString(m.inputs[1].View() + "\n\n")
		b.WriteString(lipgloss.NewStyle().Faint(true).Render("Enter: apply | Tab: switch field | Esc: presets"))
	} else {
		b.WriteString("Show transactions for\n\n")

		for i, tf := range presets {
			if i == m.cursor {
				b.WriteString(cursorStyle.Render("> "+tf.String()) + "\n")
				continue
			}

			b.WriteString("  " + tf.String() + "\n")
		}

		b.WriteString("\n" + lipgloss.NewStyle().Faint(true).Render("Enter: select | Esc: back"))
	}

	if m.err != nil {
		b.WriteString("\n\n" + errorStyle.Render(m.err.Error()))
	}

	return b.String()
}
