package chat

import (
	"errors"
	"io"
	"log/slog"
	"net"
)

// HandleSession is the per-connection reader loop. It owns the inbound side
// of the connection only: raw reads, line framing and command parsing. Every
// parsed command is forwarded to the registry goroutine, which owns all
// session and room state.
//
// The loop ends on /bye (quit event), on EOF or on a transport error (detach
// event). The registry closes the Out channel during teardown and the writer
// closes the connection, so nothing is closed here.
func HandleSession(s *Session, events chan<- Event, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	var framer LineFramer
	buf := make([]byte, 4096)

	for {
		n, err := s.Conn.Read(buf)
		if n > 0 {
			for _, line := range framer.Feed(buf[:n]) {
				cmd, ok := ParseCommand(line)
				if !ok {
					// Unrecognized /-command: dropped without feedback.
					continue
				}
				events <- Event{Type: EventCommand, Session: s, Cmd: cmd}
				if cmd.Kind == CmdQuit {
					return
				}
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				logger.Warn("session read failed", "session", s.ID, "error", err)
			}
			events <- Event{Type: EventDetach, Session: s}
			return
		}
	}
}
