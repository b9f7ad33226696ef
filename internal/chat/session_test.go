package chat

import (
	"net"
	"testing"
	"time"
)

func expectEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for event")
		return Event{}
	}
}

func TestHandleSession_ForwardsParsedCommands(t *testing.T) {
	events := make(chan Event, 16)
	client, server := net.Pipe()
	defer client.Close()

	s := &Session{ID: 1, Conn: server, Out: make(chan string, 16)}
	go HandleSession(s, events, nil)

	// One write carrying several lines plus the start of another; the rest
	// of the split line arrives in a second write.
	if _, err := client.Write([]byte("/nick alice\n/join lo")); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Write([]byte("bby\nhi there\n")); err != nil {
		t.Fatal(err)
	}

	want := []Command{
		{Kind: CmdRename, Arg: "alice"},
		{Kind: CmdJoin, Arg: "lobby"},
		{Kind: CmdPlain, Body: "hi there"},
	}
	for _, w := range want {
		ev := expectEvent(t, events)
		if ev.Type != EventCommand {
			t.Fatalf("got event type %d, want command", ev.Type)
		}
		if ev.Cmd != w {
			t.Fatalf("got command %+v, want %+v", ev.Cmd, w)
		}
	}
}

func TestHandleSession_UnknownCommandDropped(t *testing.T) {
	events := make(chan Event, 16)
	client, server := net.Pipe()
	defer client.Close()

	s := &Session{ID: 1, Conn: server, Out: make(chan string, 16)}
	go HandleSession(s, events, nil)

	if _, err := client.Write([]byte("/dance\nhello\n")); err != nil {
		t.Fatal(err)
	}

	ev := expectEvent(t, events)
	if ev.Cmd.Kind != CmdPlain || ev.Cmd.Body != "hello" {
		t.Fatalf("expected the dropped /dance to be skipped, got %+v", ev.Cmd)
	}
}

func TestHandleSession_QuitEndsLoop(t *testing.T) {
	events := make(chan Event, 16)
	client, server := net.Pipe()
	defer client.Close()

	s := &Session{ID: 1, Conn: server, Out: make(chan string, 16)}
	done := make(chan struct{})
	go func() {
		HandleSession(s, events, nil)
		close(done)
	}()

	if _, err := client.Write([]byte("/bye\n")); err != nil {
		t.Fatal(err)
	}

	ev := expectEvent(t, events)
	if ev.Type != EventCommand || ev.Cmd.Kind != CmdQuit {
		t.Fatalf("got %+v, want quit command", ev)
	}

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("reader loop kept running after /bye")
	}
}

func TestHandleSession_DisconnectEmitsDetach(t *testing.T) {
	events := make(chan Event, 16)
	client, server := net.Pipe()

	s := &Session{ID: 1, Conn: server, Out: make(chan string, 16)}
	go HandleSession(s, events, nil)

	// An unterminated fragment followed by EOF is not a line.
	if _, err := client.Write([]byte("half a lin")); err != nil {
		t.Fatal(err)
	}
	client.Close()

	ev := expectEvent(t, events)
	if ev.Type != EventDetach {
		t.Fatalf("got event %+v, want detach", ev)
	}
}
