package view_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/wealth/cmd/tui/internal/view"
)

func TestCommonModel_Resize(t *testing.T) {
	var c view.CommonModel

	assert.Equal(t, 32, c.Resize(tea.WindowSizeMsg{Width: 120, Height: 40}))
	assert.Equal(t, 120, c.Width)
	assert.Equal(t, 40, c.Height)

	assert.Equal(t, 5, c.Resize(tea.WindowSizeMsg{Width: 20, Height: 6}), "content never shrinks below the minimum")
}
