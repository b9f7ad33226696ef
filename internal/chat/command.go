package chat

import "strings"

// CommandKind discriminates the parsed form of an inbound line.
type CommandKind int

const (
	CmdPlain CommandKind = iota // plain chat message, body in Body
	CmdRename
	CmdJoin
	CmdLeave
	CmdPrivate
	CmdQuit
)

// Command is an inbound line decoded into its structured form. Arg carries
// the name for CmdRename, the room for CmdJoin and the target for CmdPrivate;
// Body carries the text of CmdPlain and CmdPrivate.
type Command struct {
	Kind CommandKind
	Arg  string
	Body string
}

// ParseCommand decodes one wire line. A line is a command iff it starts with
// "/"; the recognized forms are /nick, /join, /priv, /leave and /bye. A
// "/"-prefixed line matching none of them is dropped: ok is false and the
// caller must not act on it. A leading "//" escapes the command prefix, so
// the line is a plain message starting with a single "/".
func ParseCommand(line string) (cmd Command, ok bool) {
	if !strings.HasPrefix(line, "/") {
		return Command{Kind: CmdPlain, Body: line}, true
	}
	if strings.HasPrefix(line, "//") {
		return Command{Kind: CmdPlain, Body: line[1:]}, true
	}

	verb, rest, _ := strings.Cut(line, " ")
	switch verb {
	case "/nick":
		name, _, _ := strings.Cut(rest, " ")
		if !validName(name) {
			return Command{}, false
		}
		return Command{Kind: CmdRename, Arg: name}, true
	case "/join":
		room, _, _ := strings.Cut(rest, " ")
		if !validName(room) {
			return Command{}, false
		}
		return Command{Kind: CmdJoin, Arg: room}, true
	case "/priv":
		target, body, _ := strings.Cut(rest, " ")
		if !validName(target) || body == "" {
			return Command{}, false
		}
		return Command{Kind: CmdPrivate, Arg: target, Body: body}, true
	case "/leave":
		return Command{Kind: CmdLeave}, true
	case "/bye":
		return Command{Kind: CmdQuit}, true
	default:
		return Command{}, false
	}
}

// validName reports whether s is a legal nick or room name: one or more
// characters from [A-Za-z0-9_].
func validName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return true
}

// Server-to-client wire lines. The writer goroutine appends the terminating
// newline, so these return bare lines.

func lineMessage(name, body string) string { return "MESSAGE " + name + " " + body }
func linePrivate(name, body string) string { return "PRIVATE " + name + " " + body }
func lineJoined(name string) string { return "JOINED " + name }
func lineLeft(name string) string { return "LEFT " + name }

func lineNewNick(oldName, newName string) string { return "NEWNICK " + oldName + " " + newName }

const (
	lineOK    = "OK"
	lineError = "ERROR"
	lineBye   = "BYE"
)
