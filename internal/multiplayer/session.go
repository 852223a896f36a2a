package multiplayer

import "sync"

// SessionHandle is the transport-neutral view of a connected player.
// The coordinator and matches talk to sessions only through it.
type SessionHandle interface {
	// ID returns the unique session identifier.
	ID() SessionID

	// Send delivers an event without blocking.
	Send(evt SessionEvent)

	// Done is closed when the session ends.
	Done() <-chan struct{}
}

// ChannelSession is a SessionHandle backed by a buffered channel.
// The TUI reads Events from its Bubble Tea loop.
type ChannelSession struct {
	mu       sync.Mutex // serializes senders
	id       SessionID
	events   chan SessionEvent
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelSession creates a session handle buffering up to size events.
func NewChannelSession(id SessionID, size int) *ChannelSession {
	if size < 1 {
		size = 64
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, size),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Send queues an event without blocking. Frames that do not fit are
// skipped; a control event that does not fit displaces the oldest pending
// frame, or the oldest event when no frame is queued.
func (s *ChannelSession) Send(evt SessionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- evt:
		return
	default:
	}

	if _, isFrame := evt.(FrameEvent); isFrame {
		// A late frame is worthless; skip it rather than evict anything.
		return
	}
	s.evict()
	select {
	case s.events <- evt:
	default:
	}
}

// evict frees one slot and keeps the order of what remains. Must be called
// with mu held.
func (s *ChannelSession) evict() {
	pending := make([]SessionEvent, 0, cap(s.events))
drain:
	for {
		select {
		case e := <-s.events:
			pending = append(pending, e)
		default:
			break drain
		}
	}
	if len(pending) == 0 {
		return
	}

	drop := 0
	for i, e := range pending {
		if _, isFrame := e.(FrameEvent); isFrame {
			drop = i
			break
		}
	}
	pending = append(pending[:drop], pending[drop+1:]...)

	for _, e := range pending {
		select {
		case s.events <- e:
		default:
		}
	}
}

// Events returns the channel the session's UI reads from.
func (s *ChannelSession) Events() <-chan SessionEvent {
	return s.events
}

// Done returns the done channel.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close marks the session as finished. Safe to call more than once.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// SessionRegistry tracks connected sessions by ID.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]SessionHandle),
	}
}

// Register adds a session.
func (r *SessionRegistry) Register(session SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
}

// Unregister removes a session.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get retrieves a session by ID.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
