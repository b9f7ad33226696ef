package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderServerLine(t *testing.T) {
	tests := []struct {
		line   string
		text   string
		closed bool
	}{
		{"MESSAGE alice hi there", "alice: hi there", false},
		{"PRIVATE alice secret", "Private Message: alice: secret", false},
		{"JOINED alice", "The user alice has joined the chatroom", false},
		{"LEFT alice", "The user alice has left the chatroom", false},
		{"NEWNICK alice bob2", "The user alice has changed to the nick bob2", false},
		{"OK", "Successful", false},
		{"ERROR", "ERROR", false},
		{"BYE", "Connection closed", true},
		{"MESSAGE", "MESSAGE", false},
		{"something else entirely", "something else entirely", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			text, closed := renderServerLine(tt.line)
			require.Equal(t, tt.text, text)
			require.Equal(t, tt.closed, closed)
		})
	}
}
