package commands

import (
	"bufio"
	"io"
)

// Console reads command lines from a reader on its own goroutine and hands them to the frame
// loop through Poll.
type Console struct {
	lines chan string
}

// NewConsole starts reading r line by line. Lines beyond the buffer are dropped while the
// frame loop is behind.
func NewConsole(r io.Reader, buffer int) *Console {
	if buffer <= 0 {
		buffer = 16
	}
	c := &Console{lines: make(chan string, buffer)}
	go func() {
		s := bufio.NewScanner(r)
		for s.Scan() {
			select {
			case c.lines <- s.Text():
			default:
			}
		}
	}()
	return c
}

// Poll returns the lines received since the last call without blocking.
func (c *Console) Poll() []string {
	var out []string
	for {
		select {
		case l := <-c.lines:
			out = append(out, l)
		default:
			return out
		}
	}
}
