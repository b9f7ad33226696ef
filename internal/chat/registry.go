package chat

import (
	"log/slog"
	"strings"
	"time"
)

// Registry is the single owner of all shared chat state: the live session
// set, the name table and the room membership map. It runs as one goroutine
// consuming events, so joins, renames and broadcasts from concurrent
// connections are applied one at a time and the invariants (unique names,
// single-room membership) hold without locks.
type Registry struct {
	events  chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	logger  *slog.Logger
	maxBody int
}

func NewRegistry(buffer, maxBody int, logger *slog.Logger) *Registry {
	if buffer <= 0 {
		buffer = 64
	}
	if maxBody <= 0 {
		maxBody = 512
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		events:  make(chan Event, buffer),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		logger:  logger,
		maxBody: maxBody,
	}
}

func (r *Registry) Events() chan<- Event {
	return r.events
}

// Stop signals the Run loop to exit.
func (r *Registry) Stop() {
	close(r.stopCh)
}

// Wait blocks until the Run loop has completely finished.
func (r *Registry) Wait() {
	<-r.doneCh
}

// registryState is the mutable state owned by the Run goroutine. Rooms are
// created on first join and never deleted, even once empty.
type registryState struct {
	sessions map[uint64]*Session
	rooms    map[string]map[uint64]*Session
}

func (r *Registry) Run() {
	defer close(r.doneCh)
	// Single-writer ownership: these maps are only accessed in this goroutine.
	st := &registryState{
		sessions: make(map[uint64]*Session),
		rooms:    make(map[string]map[uint64]*Session),
	}

	for {
		select {
		case ev := <-r.events:
			start := time.Now()
			eventType := ""

			switch ev.Type {
			case EventAttach:
				eventType = "attach"
				r.handleAttach(st, ev.Session)
				ConnectedSessions.Set(float64(len(st.sessions)))
			case EventDetach:
				eventType = "detach"
				r.teardown(st, ev.Session, false)
				ConnectedSessions.Set(float64(len(st.sessions)))
			case EventCommand:
				eventType = commandEventType(ev.Cmd.Kind)
				r.handleCommand(st, ev.Session, ev.Cmd)
				ConnectedSessions.Set(float64(len(st.sessions)))
			}

			EventsTotal.WithLabelValues(eventType).Inc()
			EventProcessingDuration.WithLabelValues(eventType).Observe(time.Since(start).Seconds())
		case <-r.stopCh:
			return
		}
	}
}

func commandEventType(k CommandKind) string {
	switch k {
	case CmdPlain:
		return "message"
	case CmdRename:
		return "rename"
	case CmdJoin:
		return "join"
	case CmdLeave:
		return "leave"
	case CmdPrivate:
		return "private"
	case CmdQuit:
		return "quit"
	default:
		return "unknown"
	}
}

func (r *Registry) handleAttach(st *registryState, s *Session) {
	if s == nil {
		return
	}
	st.sessions[s.ID] = s
	r.logger.Info("session attached", "session", s.ID, "addr", remoteAddr(s))
}

func (r *Registry) handleCommand(st *registryState, s *Session, cmd Command) {
	if s == nil {
		return
	}
	if _, live := st.sessions[s.ID]; !live {
		// Commands raced with teardown; the session is already gone.
		return
	}

	switch cmd.Kind {
	case CmdRename:
		r.handleRename(st, s, cmd.Arg)
	case CmdJoin:
		r.handleJoin(st, s, cmd.Arg)
	case CmdLeave:
		r.handleLeave(st, s)
	case CmdPrivate:
		r.handlePrivate(st, s, cmd.Arg, cmd.Body)
	case CmdPlain:
		r.handleMessage(st, s, cmd.Body)
	case CmdQuit:
		r.teardown(st, s, true)
	}
}

// handleRename applies /nick. The name must be free among every named
// session, compared case-insensitively; the current holder counts, so
// renaming to your own name is rejected too. The NEWNICK broadcast goes to
// the whole room, renamer included, and carries the old name first.
func (r *Registry) handleRename(st *registryState, s *Session, name string) {
	if r.isNameTaken(st, name) {
		sendLine(s, lineError)
		return
	}

	if s.State == StateInside {
		r.broadcast(st, s.Room, lineNewNick(s.Name, name))
	}

	old := s.Name
	s.Name = name
	if s.State == StateInit {
		s.State = StateOutside
	}
	sendLine(s, lineOK)

	r.logger.Info("session renamed", "session", s.ID, "old", old, "new", name)
}

// handleJoin applies /join. Reply ordering follows the wire contract: the
// joiner gets OK, the existing members get JOINED, and only then does the
// joiner become a member, so it never sees its own JOINED.
func (r *Registry) handleJoin(st *registryState, s *Session, room string) {
	if s.State == StateInit {
		sendLine(s, lineError)
		return
	}

	if s.State == StateInside {
		r.removeFromRoom(st, s)
	}

	sendLine(s, lineOK)
	r.broadcast(st, room, lineJoined(s.Name))

	members, ok := st.rooms[room]
	if !ok {
		members = make(map[uint64]*Session)
		st.rooms[room] = members
		ActiveRooms.Set(float64(len(st.rooms)))
	}
	members[s.ID] = s
	s.Room = room
	s.State = StateInside

	r.logger.Info("session joined room", "session", s.ID, "name", s.Name, "room", room)
}

func (r *Registry) handleLeave(st *registryState, s *Session) {
	if s.State != StateInside {
		sendLine(s, lineError)
		return
	}

	sendLine(s, lineOK)
	room := s.Room
	r.removeFromRoom(st, s)
	s.State = StateOutside

	r.logger.Info("session left room", "session", s.ID, "name", s.Name, "room", room)
}

// handlePrivate applies /priv. Allowed from any state; the target is looked
// up case-insensitively among all live sessions.
func (r *Registry) handlePrivate(st *registryState, s *Session, target, body string) {
	body = r.clampBody(body)
	dest := r.findByName(st, target)
	if dest == nil {
		sendLine(s, lineError)
		return
	}
	sendLine(dest, linePrivate(s.Name, body))
	sendLine(s, lineOK)
}

// handleMessage applies a plain chat line: broadcast to the current room,
// sender included. Outside a room it is a protocol error.
func (r *Registry) handleMessage(st *registryState, s *Session, body string) {
	if s.State != StateInside {
		sendLine(s, lineError)
		return
	}
	r.broadcast(st, s.Room, lineMessage(s.Name, r.clampBody(body)))
}

// teardown removes a session entirely: BYE if this was an explicit /bye, a
// LEFT broadcast to its room if it was inside one, deregistration and the
// close of its Out channel (which makes the writer flush and close the
// socket). Safe to call twice; detach events race quit on every /bye.
func (r *Registry) teardown(st *registryState, s *Session, sendBye bool) {
	if s == nil {
		return
	}
	if _, live := st.sessions[s.ID]; !live {
		return
	}

	if sendBye {
		sendLine(s, lineBye)
	}

	state := s.State
	delete(st.sessions, s.ID)
	if s.State == StateInside {
		r.removeFromRoom(st, s)
	}

	// Closing Out stops the writer goroutine, which closes the connection.
	close(s.Out)

	r.logger.Info("session detached", "session", s.ID, "name", s.Name, "state", state.String())
}

// removeFromRoom drops s from its current room and tells the remaining
// members it left. The room entry itself is retained even when empty.
func (r *Registry) removeFromRoom(st *registryState, s *Session) {
	if members, ok := st.rooms[s.Room]; ok {
		delete(members, s.ID)
	}
	r.broadcast(st, s.Room, lineLeft(s.Name))
	s.Room = ""
}

func (r *Registry) broadcast(st *registryState, room, line string) {
	for _, member := range st.rooms[room] {
		sendLine(member, line)
	}
}

func (r *Registry) isNameTaken(st *registryState, name string) bool {
	for _, s := range st.sessions {
		if s.State == StateInit {
			continue
		}
		if strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}

func (r *Registry) findByName(st *registryState, name string) *Session {
	for _, s := range st.sessions {
		if s.Name != "" && strings.EqualFold(s.Name, name) {
			return s
		}
	}
	return nil
}

func (r *Registry) clampBody(body string) string {
	if len(body) > r.maxBody {
		return body[:r.maxBody]
	}
	return body
}

func remoteAddr(s *Session) string {
	if s.Conn == nil {
		return ""
	}
	return s.Conn.RemoteAddr().String()
}

func sendLine(s *Session, line string) {
	// Non-blocking send prevents slow/disconnected clients from blocking the registry.
	select {
	case s.Out <- line:
	default:
		// Drop when the client is slow.
	}
}
