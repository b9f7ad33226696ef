package chat

import (
	"bufio"
	"net"
)

// StartOutboundWriter drains out onto conn, one line per message. When out is
// closed it flushes whatever is queued (a final BYE, typically) and then
// closes the connection, so teardown never races a pending reply.
func StartOutboundWriter(conn net.Conn, out <-chan string) {
	go func() {
		defer conn.Close()
		w := bufio.NewWriter(conn)
		for msg := range out {
			// Best-effort. If the connection breaks, just stop the writer.
			if _, err := w.WriteString(msg + "\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}()
}
