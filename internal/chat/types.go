package chat

import "net"

// State is the protocol state of a session. A session starts in StateInit
// (no name yet), moves to StateOutside on its first accepted /nick and
// bounces between StateOutside and StateInside as it joins and leaves rooms.
// It never returns to StateInit.
type State int

const (
	StateInit State = iota
	StateOutside
	StateInside
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateOutside:
		return "outside"
	case StateInside:
		return "inside"
	default:
		return "unknown"
	}
}

// Session is the server-side state for one client connection.
//
// Ownership: Conn, ID and Out are set once at accept time. Name, State and
// Room are read and written only by the registry goroutine; the reader
// goroutine must never touch them.
type Session struct {
	ID   uint64
	Conn net.Conn
	Out  chan string // outbound lines drained by the writer goroutine

	Name  string
	State State
	Room  string // meaningful only while State == StateInside
}

type EventType int

const (
	EventAttach EventType = iota
	EventDetach
	EventCommand
)

// Event is the unit of work handed to the registry goroutine. Attach and
// detach bracket a connection's lifetime; everything in between is a parsed
// command.
type Event struct {
	Type    EventType
	Session *Session
	Cmd     Command
}

type errorString string

func (e errorString) Error() string { return string(e) }
