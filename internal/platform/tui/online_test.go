package tui

import (
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/natari/internal/core"
	"github.com/vovakirdan/natari/internal/multiplayer"
)

type fakeLobby struct {
	mu   sync.Mutex
	sent []multiplayer.CoordinatorMessage
}

func (l *fakeLobby) Send(msg multiplayer.CoordinatorMessage) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sent = append(l.sent, msg)
}

func (l *fakeLobby) last() multiplayer.CoordinatorMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.sent) == 0 {
		return nil
	}
	return l.sent[len(l.sent)-1]
}

var stubItem = MenuItem{GameID: "tui-stub", Title: "Stub", Players: 2}

func feed(t *testing.T, m OnlineModel, msgs ...tea.Msg) OnlineModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(OnlineModel)
	}
	return m
}

func event(e multiplayer.SessionEvent) tea.Msg {
	return sessionEventMsg{Event: e}
}

func TestOnlineHostPlaysMatch(t *testing.T) {
	lobby := &fakeLobby{}
	m := NewOnlineModel(stubItem, "s1", lobby, nil, nil)
	assert.Equal(t, OnlineChooseMode, m.State())
	assert.Contains(t, m.View(), "ONLINE STUB")

	m = feed(t, m, runeKey('h'))
	assert.Equal(t, multiplayer.CreateLobbyMsg{SessionID: "s1", GameID: "tui-stub"}, lobby.last())

	m = feed(t, m, event(multiplayer.LobbyCreatedEvent{Code: "ABC234", GameID: "tui-stub"}))
	assert.Equal(t, OnlineHostWaiting, m.State())
	assert.Contains(t, m.View(), "ABC234")

	m = feed(t, m, event(multiplayer.MatchStartedEvent{MatchID: "m1", GameID: "tui-stub", Side: core.Player1}))
	assert.Equal(t, OnlineInMatch, m.State())
	assert.Contains(t, m.View(), "Waiting for the first frame")

	f := frame(3, core.GameState{Scores: []int{1, 2}}).Frame
	m = feed(t, m,
		event(multiplayer.FrameEvent{MatchID: "m1", Frame: f}),
		event(multiplayer.FrameEvent{MatchID: "other", Frame: frame(9, core.GameState{}).Frame}),
	)
	assert.Equal(t, uint64(3), m.frame.Tick)
	view := m.View()
	assert.Contains(t, view, "You: P1")
	assert.Contains(t, view, "P1 1 : 2 P2")

	m = feed(t, m, runeKey('w'))
	assert.Equal(t, multiplayer.InputMsg{SessionID: "s1", Action: core.ActionUp}, lobby.last())
	m = feed(t, m, runeKey('p'))
	assert.Equal(t, multiplayer.InputMsg{SessionID: "s1", Action: core.ActionPause}, lobby.last())

	m = feed(t, m, event(multiplayer.MatchEndedEvent{
		MatchID: "m1",
		Reason:  multiplayer.EndCompleted,
		Winner:  1,
		Scores:  [2]int{3, 1},
	}))
	assert.Equal(t, OnlineMatchEnded, m.State())
	assert.Contains(t, m.View(), "YOU WIN")
	assert.Contains(t, m.View(), "P1 3 : 1 P2")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, BackToMenuMsg{}, cmd())
}

func TestOnlineJoinCodeEntry(t *testing.T) {
	lobby := &fakeLobby{}
	m := NewOnlineModel(stubItem, "s2", lobby, nil, nil)

	m = feed(t, m, runeKey('j'))
	assert.Equal(t, OnlineJoinEnterCode, m.State())

	m = feed(t, m, runeKey('a'), runeKey('b'), runeKey('c'), runeKey('2'), runeKey('!'))
	assert.Equal(t, "ABC2", m.input)

	m = feed(t, m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, OnlineJoinWaiting, m.State())
	assert.Equal(t, multiplayer.JoinLobbyMsg{SessionID: "s2", Code: "ABC"}, lobby.last())

	m = feed(t, m, event(multiplayer.LobbyErrorEvent{Message: "Lobby not found"}))
	assert.Equal(t, OnlineJoinEnterCode, m.State())
	assert.Contains(t, m.View(), "Error: Lobby not found")
}

func TestOnlineLeavingMatch(t *testing.T) {
	lobby := &fakeLobby{}
	m := NewOnlineModel(stubItem, "s2", lobby, nil, nil)
	m = feed(t, m, event(multiplayer.MatchStartedEvent{MatchID: "m1", Side: core.Player2}))
	assert.Equal(t, core.Player2, m.Side())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackToMenuMsg{}, cmd())
	assert.Equal(t, multiplayer.LeaveMsg{SessionID: "s2"}, lobby.last())

	m = feed(t, m, event(multiplayer.MatchEndedEvent{MatchID: "m1", Reason: multiplayer.EndDisconnect, Winner: 1}))
	assert.Contains(t, m.View(), "YOU LOSE")
	assert.Contains(t, m.View(), "Opponent left")
}

func TestOnlineExpiredLobbyReturnsToChoice(t *testing.T) {
	m := NewOnlineModel(stubItem, "s1", &fakeLobby{}, nil, nil)
	m = feed(t, m,
		event(multiplayer.LobbyCreatedEvent{Code: "ABC234"}),
		event(multiplayer.LobbyErrorEvent{Message: "Lobby expired"}),
	)
	assert.Equal(t, OnlineChooseMode, m.State())
	assert.Empty(t, m.Code())
	assert.Contains(t, m.View(), "Lobby expired")
}

func TestMenuOffersOnlineForTwoPlayerGames(t *testing.T) {
	m := NewMenuModel(80, 24).Embedded(nil)
	for i, it := range m.items {
		if it.GameID == "tui-stub" {
			m.cursor = i
		}
	}

	_, cmd := m.Update(runeKey('o'))
	assert.Nil(t, cmd)

	m = m.WithOnline()
	_, cmd = m.Update(runeKey('o'))
	require.NotNil(t, cmd)
	assert.Equal(t, OnlineRequestedMsg{Item: stubItem}, cmd())
	assert.Contains(t, m.View(), "O: Online")
}

func TestSessionRoutesOnlineEvents(t *testing.T) {
	lobby := &fakeLobby{}
	handle := multiplayer.NewChannelSession("s1", 8)
	t.Cleanup(handle.Close)

	s := NewSessionModel(SessionOptions{Width: 60, Height: 20, Lobby: lobby, Online: handle})
	require.NotNil(t, s.Init())

	next, _ := s.Update(OnlineRequestedMsg{Item: stubItem})
	s = next.(SessionModel)
	require.Equal(t, screenOnline, s.screen)

	next, _ = s.Update(runeKey('h'))
	s = next.(SessionModel)
	assert.Equal(t, multiplayer.CreateLobbyMsg{SessionID: "s1", GameID: "tui-stub"}, lobby.last())

	handle.Send(multiplayer.LobbyCreatedEvent{Code: "XYZ234"})
	msg := s.pump()()
	next, cmd := s.Update(msg)
	s = next.(SessionModel)
	assert.NotNil(t, cmd)
	assert.Equal(t, "XYZ234", s.online.Code())
	assert.Contains(t, s.View(), "XYZ234")
}

func TestSessionWithoutOnlineIgnoresRequests(t *testing.T) {
	s := NewSessionModel(SessionOptions{Width: 60, Height: 20})
	next, cmd := s.Update(OnlineRequestedMsg{Item: stubItem})
	assert.Nil(t, cmd)
	assert.Equal(t, screenMenu, next.(SessionModel).screen)
	assert.Nil(t, s.pump())
}
