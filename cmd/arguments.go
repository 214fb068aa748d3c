// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"strconv"
	"strings"
	"unicode"

	"bgsim/math/vec"
)

type QArg struct {
	a string
}

func (a QArg) String() string {
	return a.a
}

func (a QArg) Int() int {
	r, err := strconv.ParseInt(a.a, 0, 0)
	if err != nil {
		return 0
	}
	return int(r)
}

// Angle parses a binary angle. Hex and values up to 0xFFFF are accepted,
// the latter wrap into the signed range.
func (a QArg) Angle() (int16, bool) {
	r, err := strconv.ParseInt(a.a, 0, 32)
	if err != nil || r < -0x8000 || r > 0xFFFF {
		return 0, false
	}
	return int16(uint16(r)), true
}

func (a QArg) Float32() float32 {
	r, err := strconv.ParseFloat(a.a, 32)
	if err != nil {
		return 0
	}
	return float32(r)
}

func (a QArg) Bool() bool {
	switch a.a {
	case "1", "t", "T", "true", "TRUE", "True", "On", "ON", "on":
		return true
	default:
		return false
	}
}

type Arguments struct {
	// each arg on its own
	args []QArg
	// the trimmed input
	full string
}

func (c *Arguments) Argv(i int) QArg {
	if i < 0 || i >= len(c.args) {
		return QArg{""}
	}
	return c.args[i]
}

func (c *Arguments) Full() string {
	return c.full
}

func (c *Arguments) Args() []QArg {
	return c.args
}

// Vec3 reads three floats starting at argument i.
func (c *Arguments) Vec3(i int) (vec.Vec3, bool) {
	if i < 0 || i+3 > len(c.args) {
		return vec.Vec3{}, false
	}
	var r [3]float32
	for j := range r {
		f, err := strconv.ParseFloat(c.args[i+j].a, 32)
		if err != nil {
			return vec.Vec3{}, false
		}
		r[j] = float32(f)
	}
	return vec.VFromA(r), true
}

func (c *Arguments) ArgumentString() string {
	// args[0] is the cmd
	if len(c.args) < 2 {
		return ""
	}
	r := strings.TrimPrefix(c.full, c.args[0].String())
	r = strings.TrimLeftFunc(r, unicode.IsSpace)
	if len(r) > 1 && r[0] == '"' {
		r = strings.Trim(r, "\"\t\n\v\f\r ")
	}
	return r
}

// Parse splits one command line into arguments. Double quotes group words,
// "//" and "#" start a comment and a line break ends the command.
func Parse(s string) (args Arguments) {
	args.full = strings.TrimFunc(s, unicode.IsSpace)
	args.args = []QArg{}

	in := args.full
	for i := 0; i < len(in); {
		switch c := in[i]; {
		case c == '\n' || c == '\r':
			return
		case c == ' ' || c == '\t':
			i++
		case c == '#' || strings.HasPrefix(in[i:], "//"):
			return
		case c == '"':
			end := strings.IndexAny(in[i+1:], "\"\n")
			if end < 0 {
				args.args = append(args.args, QArg{in[i+1:]})
				return
			}
			args.args = append(args.args, QArg{in[i+1 : i+1+end]})
			i += end + 2
		default:
			end := strings.IndexAny(in[i:], " \t\r\n\"")
			if end < 0 {
				end = len(in) - i
			}
			args.args = append(args.args, QArg{in[i : i+end]})
			i += end
		}
	}
	return
}
