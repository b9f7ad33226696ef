package chat

import "bytes"

// LineFramer turns an arbitrary byte stream into newline-terminated lines.
// Partial lines are retained across Feed calls, so a line split over several
// reads and several lines arriving in one read both come out the same.
type LineFramer struct {
	buf []byte
}

// Feed appends p to the internal buffer and returns every complete line now
// available, in arrival order, with the terminator (and a preceding \r, for
// telnet-style peers) stripped. The unterminated tail stays buffered for the
// next call. Empty input yields no lines.
func (f *LineFramer) Feed(p []byte) []string {
	if len(p) == 0 {
		return nil
	}
	f.buf = append(f.buf, p...)

	var lines []string
	for {
		i := bytes.IndexByte(f.buf, '\n')
		if i < 0 {
			break
		}
		line := f.buf[:i]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
		lines = append(lines, string(line))
		f.buf = f.buf[i+1:]
	}
	if len(f.buf) == 0 {
		f.buf = nil
	}
	return lines
}

// Pending reports whether an unterminated fragment is buffered.
func (f *LineFramer) Pending() bool {
	return len(f.buf) > 0
}
