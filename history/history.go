// SPDX-License-Identifier: GPL-2.0-or-later

// Package history keeps the lines typed into an interactive probe session.
package history

import (
	"os"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	// add a max size to prevent the file from growing indefinitely
	maxHistory = 32

	// repeated string entries = 1;
	fieldEntries protowire.Number = 1
)

type History struct {
	txt []string
	idx int
}

func (h *History) String() string {
	if len(h.txt) == h.idx {
		return ""
	}
	return h.txt[h.idx]
}

func (h *History) Up() {
	if h.idx > 0 {
		h.idx--
	}
}

func (h *History) Down() {
	if h.idx < len(h.txt) {
		h.idx++
	}
}

func (h *History) Add(s string) {
	h.txt = append(h.txt, s)
	h.idx = len(h.txt)
}

func (h *History) Entries() []string {
	return h.txt
}

// Load replaces the entries with the ones stored at path. A missing file is
// an empty history.
func (h *History) Load(path string) error {
	in, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "history")
	}
	var txt []string
	for len(in) > 0 {
		num, typ, n := protowire.ConsumeTag(in)
		if n < 0 {
			return errors.Wrap(protowire.ParseError(n), "history: failed to decode")
		}
		in = in[n:]
		if num != fieldEntries || typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, in)
		} else {
			var s string
			s, n = protowire.ConsumeString(in)
			txt = append(txt, s)
		}
		if n < 0 {
			return errors.Wrap(protowire.ParseError(n), "history: failed to decode")
		}
		in = in[n:]
	}
	h.txt = txt
	h.idx = len(h.txt)
	return nil
}

// Save writes the newest maxHistory entries to path.
func (h *History) Save(path string) error {
	l := max(len(h.txt)-maxHistory, 0)
	var out []byte
	for _, s := range h.txt[l:] {
		out = protowire.AppendTag(out, fieldEntries, protowire.BytesType)
		out = protowire.AppendString(out, s)
	}
	if err := os.WriteFile(path, out, 0660); err != nil {
		return errors.Wrap(err, "history: failed to write history file")
	}
	return nil
}
