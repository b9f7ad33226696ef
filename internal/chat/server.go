package chat

import (
	"log/slog"
	"net"
	"sync/atomic"
)

var ErrAlreadyStarted = errorString("server_already_started")

// Server ties the pieces together: it accepts connections, creates a Session
// per connection in the init state and hands it to a reader goroutine, with
// the one Registry goroutine owning all shared state.
type Server struct {
	addr     string
	logger   *slog.Logger
	reg      *Registry
	listener net.Listener
	nextID   atomic.Uint64
	outBuf   int
}

// Options tune the server's internal buffers. Zero values pick defaults.
type Options struct {
	EventBuffer   int // registry event channel capacity
	OutBuffer     int // per-session outbound line buffer
	MaxBodyLength int // longest accepted message body in bytes
}

func NewServer(addr string, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	outBuf := opts.OutBuffer
	if outBuf <= 0 {
		outBuf = 32
	}
	return &Server{
		addr:   addr,
		logger: logger,
		reg:    NewRegistry(opts.EventBuffer, opts.MaxBodyLength, logger),
		outBuf: outBuf,
	}
}

func (s *Server) Start() error {
	if s.listener != nil {
		return ErrAlreadyStarted
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln

	go s.reg.Run()
	go s.acceptLoop(ln)

	s.logger.Info("server started", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound listen address, useful when addr was ":0".
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) Stop() {
	s.logger.Info("shutting down")

	if s.listener != nil {
		s.listener.Close()
	}

	s.reg.Stop()
	s.reg.Wait()

	s.logger.Info("shutdown complete")
}

func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			// The listener was closed; normal shutdown path.
			return
		}

		s.logger.Info("client connected", "addr", conn.RemoteAddr().String())

		sess := &Session{
			ID:    s.nextID.Add(1),
			Conn:  conn,
			Out:   make(chan string, s.outBuf),
			State: StateInit,
		}

		StartOutboundWriter(conn, sess.Out)
		s.reg.Events() <- Event{Type: EventAttach, Session: sess}
		go HandleSession(sess, s.reg.Events(), s.logger)
	}
}
