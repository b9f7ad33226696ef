package main

import "strings"

// renderServerLine turns a protocol line from the server into the text shown
// to the user. closed reports that the server said BYE and the connection is
// about to go away. Lines that match no known form are shown verbatim.
func renderServerLine(line string) (text string, closed bool) {
	verb, rest, _ := strings.Cut(line, " ")
	switch verb {
	case "MESSAGE":
		if name, body, ok := strings.Cut(rest, " "); ok {
			return name + ": " + body, false
		}
	case "PRIVATE":
		if name, body, ok := strings.Cut(rest, " "); ok {
			return "Private Message: " + name + ": " + body, false
		}
	case "JOINED":
		if rest != "" {
			return "The user " + rest + " has joined the chatroom", false
		}
	case "LEFT":
		if rest != "" {
			return "The user " + rest + " has left the chatroom", false
		}
	case "NEWNICK":
		if oldName, newName, ok := strings.Cut(rest, " "); ok {
			return "The user " + oldName + " has changed to the nick " + newName, false
		}
	case "OK":
		if rest == "" {
			return "Successful", false
		}
	case "BYE":
		if rest == "" {
			return "Connection closed", true
		}
	}
	return line, false
}
