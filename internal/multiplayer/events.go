package multiplayer

import (
	"github.com/vovakirdan/natari/internal/core"
	"github.com/vovakirdan/natari/internal/engine"
)

// SessionEvent is sent from the coordinator or a match to a session.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent is sent to the host once its lobby exists.
type LobbyCreatedEvent struct {
	Code   string
	GameID string
}

func (LobbyCreatedEvent) sessionEvent() {}

// LobbyErrorEvent is sent when a lobby operation fails.
type LobbyErrorEvent struct {
	Message string
}

func (LobbyErrorEvent) sessionEvent() {}

// MatchStartedEvent is sent to both players when the joiner arrives.
type MatchStartedEvent struct {
	MatchID MatchID
	GameID  string
	Code    string
	Side    PlayerID
}

func (MatchStartedEvent) sessionEvent() {}

// FrameEvent carries one published frame of a running match.
type FrameEvent struct {
	MatchID MatchID
	Frame   engine.Frame
}

func (FrameEvent) sessionEvent() {}

// MatchEndedEvent is sent to both players when the match is over.
type MatchEndedEvent struct {
	MatchID MatchID
	Reason  EndReason
	Winner  int // 1-based, 0 for none
	Scores  [2]int
}

func (MatchEndedEvent) sessionEvent() {}

// CoordinatorMessage is sent from a session to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg requests a new lobby for a two-player game.
type CreateLobbyMsg struct {
	SessionID SessionID
	GameID    string
}

func (CreateLobbyMsg) coordinatorMessage() {}

// JoinLobbyMsg requests joining the lobby with the given code.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (JoinLobbyMsg) coordinatorMessage() {}

// LeaveMsg withdraws a session from its lobby or match.
type LeaveMsg struct {
	SessionID SessionID
}

func (LeaveMsg) coordinatorMessage() {}

// InputMsg forwards one action of a session to its match.
type InputMsg struct {
	SessionID SessionID
	Action    core.Action
}

func (InputMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent when a session's connection closes.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}
