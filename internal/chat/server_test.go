package chat

import (
	"bufio"
	"net"
	"testing"
	"time"
)

func startTestServer(t *testing.T) *Server {
	t.Helper()
	srv := NewServer("127.0.0.1:0", nil, Options{})
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return srv
}

type testClient struct {
	conn net.Conn
	r    *bufio.Reader
}

func dialTestServer(t *testing.T, srv *Server) *testClient {
	t.Helper()
	conn, err := net.Dial("tcp", srv.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return &testClient{conn: conn, r: bufio.NewReader(conn)}
}

func (c *testClient) sendLine(t *testing.T, line string) {
	t.Helper()
	if _, err := c.conn.Write([]byte(line + "\n")); err != nil {
		t.Fatalf("write %q: %v", line, err)
	}
}

func (c *testClient) expect(t *testing.T, want string) {
	t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := c.r.ReadString('\n')
	if err != nil {
		t.Fatalf("read (want %q): %v", want, err)
	}
	if got := line[:len(line)-1]; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestServer_EndToEnd(t *testing.T) {
	srv := startTestServer(t)

	alice := dialTestServer(t, srv)
	bob := dialTestServer(t, srv)

	alice.sendLine(t, "/nick alice")
	alice.expect(t, "OK")

	bob.sendLine(t, "/nick alice")
	bob.expect(t, "ERROR")
	bob.sendLine(t, "/nick bob")
	bob.expect(t, "OK")

	// Not in a room yet.
	alice.sendLine(t, "hello")
	alice.expect(t, "ERROR")

	alice.sendLine(t, "/join lobby")
	alice.expect(t, "OK")
	bob.sendLine(t, "/join lobby")
	bob.expect(t, "OK")
	alice.expect(t, "JOINED bob")

	alice.sendLine(t, "hi there")
	alice.expect(t, "MESSAGE alice hi there")
	bob.expect(t, "MESSAGE alice hi there")

	// An escaped leading slash comes out as a message starting with one.
	bob.sendLine(t, "//slash message")
	alice.expect(t, "MESSAGE bob /slash message")
	bob.expect(t, "MESSAGE bob /slash message")

	alice.sendLine(t, "/priv bob secret")
	alice.expect(t, "OK")
	bob.expect(t, "PRIVATE alice secret")

	alice.sendLine(t, "/bye")
	alice.expect(t, "BYE")
	bob.expect(t, "LEFT alice")

	// The server closed alice's connection after BYE.
	alice.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := alice.r.ReadString('\n'); err == nil {
		t.Fatal("expected closed connection after BYE")
	}
}

func TestServer_AbruptDisconnectBroadcastsLeft(t *testing.T) {
	srv := startTestServer(t)

	alice := dialTestServer(t, srv)
	bob := dialTestServer(t, srv)

	alice.sendLine(t, "/nick alice")
	alice.expect(t, "OK")
	bob.sendLine(t, "/nick bob")
	bob.expect(t, "OK")

	alice.sendLine(t, "/join lobby")
	alice.expect(t, "OK")
	bob.sendLine(t, "/join lobby")
	bob.expect(t, "OK")
	alice.expect(t, "JOINED bob")

	alice.conn.Close()
	bob.expect(t, "LEFT alice")

	// The name is reusable once the connection is gone.
	carol := dialTestServer(t, srv)
	carol.sendLine(t, "/nick alice")
	carol.expect(t, "OK")
}

func TestServer_StartTwiceFails(t *testing.T) {
	srv := startTestServer(t)
	if err := srv.Start(); err != ErrAlreadyStarted {
		t.Fatalf("got %v, want ErrAlreadyStarted", err)
	}
}
