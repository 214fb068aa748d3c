// SPDX-License-Identifier: GPL-2.0-or-later

// Package cbuf buffers probe script text and runs it line by line.
package cbuf

import (
	"strings"

	"bgsim/cmd"
)

// CommandBuffer holds text not yet executed. A "wait" command stops
// Execute, the remaining text runs on the next call.
type CommandBuffer struct {
	buf  string
	wait bool
	ex   executors
}

func (c *CommandBuffer) SetCommandExecutors(e []Efunc) {
	c.ex = e
}

func (c *CommandBuffer) AddText(text string) {
	c.buf = c.buf + text
}

func (c *CommandBuffer) InsertText(text string) {
	c.buf = text + "\n" + c.buf
}

// Clear drops all text not yet executed.
func (c *CommandBuffer) Clear() {
	c.buf = ""
	c.wait = false
}

func (c *CommandBuffer) Empty() bool {
	return len(c.buf) == 0
}

// Wait makes Execute return after the current command.
func (c *CommandBuffer) Wait() {
	c.wait = true
}

// Execute runs commands until the buffer is empty or a wait is hit.
func (c *CommandBuffer) Execute() error {
	for len(c.buf) != 0 {
		i := 0
		quote := false
	LineLoop:
		for i = 0; i < len(c.buf); i++ {
			switch c.buf[i] {
			case '"':
				quote = !quote
				continue LineLoop
			case ';':
				if quote {
					continue LineLoop
				}
				break LineLoop
			case '\n':
				break LineLoop
			}
		}
		// do not put ';' or '\n' in line
		line := c.buf[:i]
		// but remove this char as well
		if i < len(c.buf) {
			i++
		}
		c.buf = c.buf[i:]
		if err := c.execute(line); err != nil {
			return err
		}
		if c.wait {
			c.wait = false
			return nil
		}
	}
	return nil
}

// Run executes the whole buffer, treating waits as step boundaries.
func (c *CommandBuffer) Run() error {
	for !c.Empty() {
		if err := c.Execute(); err != nil {
			return err
		}
	}
	return nil
}

func (c *CommandBuffer) execute(line string) error {
	a := cmd.Parse(line)
	args := a.Args()
	if len(args) == 0 {
		return nil
	}
	if strings.EqualFold(args[0].String(), "wait") {
		c.Wait()
		return nil
	}
	return c.ex.execute(c, a)
}
