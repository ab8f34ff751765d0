package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is a screen reachable from the main menu.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel tracks the terminal size for a view.
type CommonModel struct {
	Width  int
	Height int
}

// Resize records the new terminal size and returns the height left for content
// once the header and help lines are drawn.
func (c *CommonModel) Resize(msg tea.WindowSizeMsg) int {
	c.Width, c.Height = msg.Width, msg.Height
	return max(msg.Height-chromeHeight, minContentHeight)
}

const (
	chromeHeight     = 8
	minContentHeight = 5
)

// BackMsg returns control to the main menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
