// samio: a tool for parsing and serializing files in the SAM format.
// Copyright (c) 2026 the samio authors.
//
// This program is free software distributed under the terms of the MIT
// license. See the LICENSE file in the repository root for details.

package sam

import (
	"bufio"
	"io"
)

// A lineReader is a cursor over the lines of a SAM input, with a
// single line of lookahead. The header and alignment phases of a
// parse share one lineReader, so that the header parser can stop at,
// without consuming, the first alignment line.
type lineReader struct {
	buf        *bufio.Reader
	lookahead  string
	peeked     bool
	done       bool
	lineNumber int // 1-based number of the last line returned by next
}

func newLineReader(buf *bufio.Reader) *lineReader {
	return &lineReader{buf: buf}
}

// peek returns the next line without consuming it. ok is false when
// the input is exhausted.
func (lr *lineReader) peek() (line string, ok bool, err error) {
	if lr.peeked {
		return lr.lookahead, true, nil
	}
	if lr.done {
		return "", false, nil
	}
	line, rerr := lr.buf.ReadString('\n')
	switch rerr {
	case nil:
	case io.EOF:
		lr.done = true
		if line == "" {
			return "", false, nil
		}
	default:
		return "", false, rerr
	}
	lr.lookahead = trimNewline(line)
	lr.peeked = true
	return lr.lookahead, true, nil
}

// next consumes and returns the next line, advancing the line
// counter. ok is false when the input is exhausted.
func (lr *lineReader) next() (line string, ok bool, err error) {
	line, ok, err = lr.peek()
	if !ok || err != nil {
		return
	}
	lr.peeked = false
	lr.lineNumber++
	return
}

func trimNewline(line string) string {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
	}
	return line
}
