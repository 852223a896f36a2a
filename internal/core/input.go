package core

import "sync"

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // paddle/snake/blank tile up
	ActionDown           // paddle/snake/blank tile down
	ActionLeft           // snake, ship or blank tile left
	ActionRight          // snake, ship or blank tile right
	ActionFront          // 3D paddle toward the viewer
	ActionBack           // 3D paddle away from the viewer
	ActionFire           // shoot a bullet
	ActionShuffle        // puzzle: one random move
	ActionUndo           // puzzle: walk back home
	ActionPause          // pause/unpause
	ActionRestart        // restart the round
	ActionQuit           // leave the game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionFront:
		return "Front"
	case ActionBack:
		return "Back"
	case ActionFire:
		return "Fire"
	case ActionShuffle:
		return "Shuffle"
	case ActionUndo:
		return "Undo"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// PlayerID identifies who produced an input event.
type PlayerID int

const (
	Player1 PlayerID = iota
	Player2
)

// InputEvent is one key press translated to an action for a player.
type InputEvent struct {
	Player PlayerID
	Action Action
}

// Press is shorthand for an InputEvent.
func Press(p PlayerID, a Action) InputEvent {
	return InputEvent{Player: p, Action: a}
}

// Has reports whether any event in events is action a for player p.
func Has(events []InputEvent, p PlayerID, a Action) bool {
	for _, e := range events {
		if e.Player == p && e.Action == a {
			return true
		}
	}
	return false
}

// HasAny reports whether any player triggered action a.
func HasAny(events []InputEvent, a Action) bool {
	for _, e := range events {
		if e.Action == a {
			return true
		}
	}
	return false
}

// InputQueue collects events from the input goroutine until the game loop
// drains them. Events keep their arrival order.
type InputQueue struct {
	mu     sync.Mutex
	events []InputEvent
}

// NewInputQueue creates an empty queue.
func NewInputQueue() *InputQueue {
	return &InputQueue{}
}

// Push appends an event. Safe for concurrent use.
func (q *InputQueue) Push(e InputEvent) {
	q.mu.Lock()
	q.events = append(q.events, e)
	q.mu.Unlock()
}

// Drain returns all queued events and empties the queue.
func (q *InputQueue) Drain() []InputEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = nil
	return out
}

// Len returns the number of pending events.
func (q *InputQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
