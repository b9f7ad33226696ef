package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
)

func main() {
	addr := flag.String("addr", "localhost:5000", "chat server address")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	ui, err := NewChatUI(func(line string) {
		// Errors surface on the read side; the server closes on /bye anyway.
		fmt.Fprintf(conn, "%s\n", line)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "start ui: %v\n", err)
		os.Exit(1)
	}

	go func() {
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			text, closed := renderServerLine(scanner.Text())
			ui.AppendMessage(text)
			if closed {
				break
			}
		}
		ui.Close()
	}()

	if err := ui.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ui: %v\n", err)
		os.Exit(1)
	}
}
