package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/natari/internal/core"
)

// GameBinding maps a key binding to one player's action.
type GameBinding struct {
	key.Binding
	Player core.PlayerID
	Action core.Action
}

func bind(p core.PlayerID, a core.Action, help string, keys ...string) GameBinding {
	return GameBinding{
		Binding: key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help)),
		Player:  p,
		Action:  a,
	}
}

// KeyMap holds the game keys of one game plus the global ones.
// It implements help.KeyMap.
type KeyMap struct {
	Game    []GameBinding
	Pause   key.Binding
	Restart key.Binding
	Back    key.Binding
	Quit    key.Binding
	Help    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Restart, k.Quit, k.Help}
}

// FullHelp returns key bindings for the full help view, one column per
// player plus the global keys.
func (k KeyMap) FullHelp() [][]key.Binding {
	var p1, p2 []key.Binding
	for _, b := range k.Game {
		if b.Player == core.Player2 {
			p2 = append(p2, b.Binding)
		} else {
			p1 = append(p1, b.Binding)
		}
	}
	cols := [][]key.Binding{p1}
	if len(p2) > 0 {
		cols = append(cols, p2)
	}
	return append(cols, []key.Binding{k.Pause, k.Restart, k.Back, k.Quit})
}

// Map translates a key message into a game event. ok is false for keys the
// game does not use.
func (k KeyMap) Map(msg tea.KeyMsg) (core.InputEvent, bool) {
	if key.Matches(msg, k.Pause) {
		return core.Press(core.Player1, core.ActionPause), true
	}
	if key.Matches(msg, k.Restart) {
		return core.Press(core.Player1, core.ActionRestart), true
	}
	for _, b := range k.Game {
		if key.Matches(msg, b.Binding) {
			return core.Press(b.Player, b.Action), true
		}
	}
	return core.InputEvent{}, false
}

// KeyMapFor returns the key map for a game.
func KeyMapFor(gameID string) KeyMap {
	km := KeyMap{
		Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Restart: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "restart")),
		Back:    key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "menu")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "keys")),
	}

	p1, p2 := core.Player1, core.Player2
	switch gameID {
	case "pong":
		km.Game = []GameBinding{
			bind(p1, core.ActionUp, "up", "w"),
			bind(p1, core.ActionDown, "down", "s"),
			bind(p2, core.ActionUp, "up", "i", "up"),
			bind(p2, core.ActionDown, "down", "k", "down"),
		}
	case "pong3d":
		km.Game = []GameBinding{
			bind(p1, core.ActionUp, "up", "w"),
			bind(p1, core.ActionDown, "down", "s"),
			bind(p1, core.ActionFront, "front", "a"),
			bind(p1, core.ActionBack, "back", "d"),
			bind(p2, core.ActionUp, "up", "i", "up"),
			bind(p2, core.ActionDown, "down", "k", "down"),
			bind(p2, core.ActionFront, "front", "j", "left"),
			bind(p2, core.ActionBack, "back", "l", "right"),
		}
	case "snake":
		km.Game = []GameBinding{
			bind(p1, core.ActionUp, "up", "w"),
			bind(p1, core.ActionDown, "down", "s"),
			bind(p1, core.ActionLeft, "left", "a"),
			bind(p1, core.ActionRight, "right", "d"),
			bind(p2, core.ActionUp, "up", "i", "up"),
			bind(p2, core.ActionDown, "down", "k", "down"),
			bind(p2, core.ActionLeft, "left", "j", "left"),
			bind(p2, core.ActionRight, "right", "l", "right"),
		}
	case "arcade":
		km.Game = []GameBinding{
			bind(p1, core.ActionLeft, "left", "1", "left"),
			bind(p1, core.ActionRight, "right", "2", "right"),
			bind(p1, core.ActionFire, "fire", "9", " ", "space"),
		}
	case "puzzle":
		km.Game = []GameBinding{
			bind(p1, core.ActionUp, "up", "w", "up"),
			bind(p1, core.ActionLeft, "left", "a", "left"),
			bind(p1, core.ActionDown, "down", "s", "down"),
			bind(p1, core.ActionRight, "right", "d", "right"),
			bind(p1, core.ActionShuffle, "random move", "r"),
			bind(p1, core.ActionUndo, "find home", "f"),
		}
	default:
		km.Game = []GameBinding{
			bind(p1, core.ActionUp, "up", "w", "up"),
			bind(p1, core.ActionDown, "down", "s", "down"),
			bind(p1, core.ActionLeft, "left", "a", "left"),
			bind(p1, core.ActionRight, "right", "d", "right"),
			bind(p1, core.ActionFire, "fire", " ", "space"),
		}
	}
	return km
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionOnline
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	case "o":
		return MenuActionOnline
	}
	return MenuActionNone
}
