package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/natari/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestKeyMapMapsPlayers(t *testing.T) {
	tests := []struct {
		game   string
		msg    tea.KeyMsg
		want   core.InputEvent
		mapped bool
	}{
		{"pong", runeKey('w'), core.Press(core.Player1, core.ActionUp), true},
		{"pong", runeKey('s'), core.Press(core.Player1, core.ActionDown), true},
		{"pong", tea.KeyMsg{Type: tea.KeyUp}, core.Press(core.Player2, core.ActionUp), true},
		{"pong", runeKey('k'), core.Press(core.Player2, core.ActionDown), true},
		{"pong3d", runeKey('a'), core.Press(core.Player1, core.ActionFront), true},
		{"pong3d", tea.KeyMsg{Type: tea.KeyRight}, core.Press(core.Player2, core.ActionBack), true},
		{"snake", runeKey('d'), core.Press(core.Player1, core.ActionRight), true},
		{"snake", runeKey('j'), core.Press(core.Player2, core.ActionLeft), true},
		{"arcade", runeKey('9'), core.Press(core.Player1, core.ActionFire), true},
		{"arcade", runeKey('1'), core.Press(core.Player1, core.ActionLeft), true},
		{"puzzle", runeKey('f'), core.Press(core.Player1, core.ActionUndo), true},
		{"puzzle", runeKey('r'), core.Press(core.Player1, core.ActionShuffle), true},
		{"puzzle", runeKey('R'), core.Press(core.Player1, core.ActionRestart), true},
		{"snake", runeKey('p'), core.Press(core.Player1, core.ActionPause), true},
		{"pong", runeKey('x'), core.InputEvent{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.game+"/"+tt.msg.String(), func(t *testing.T) {
			got, ok := KeyMapFor(tt.game).Map(tt.msg)
			assert.Equal(t, tt.mapped, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyMapFullHelpColumns(t *testing.T) {
	assert.Len(t, KeyMapFor("snake").FullHelp(), 3)
	assert.Len(t, KeyMapFor("puzzle").FullHelp(), 2)
}

func TestMapKeyToMenuAction(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey('j'), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{runeKey('o'), MenuActionOnline},
		{runeKey('q'), MenuActionQuit},
		{runeKey('z'), MenuActionNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapKeyToMenuAction(tt.msg), tt.msg.String())
	}
}
