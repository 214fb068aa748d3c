// SPDX-License-Identifier: GPL-2.0-or-later

package cbuf

import (
	"log/slog"

	"github.com/pkg/errors"

	"bgsim/cmd"
)

// Efunc reports whether it handled the command.
type Efunc func(*CommandBuffer, cmd.Arguments) (bool, error)

type executors []Efunc

// Registry wraps a command registry as an executor.
func Registry(c *cmd.Commands) Efunc {
	return func(_ *CommandBuffer, a cmd.Arguments) (bool, error) {
		return c.Execute(a)
	}
}

func (ex executors) execute(c *CommandBuffer, a cmd.Arguments) error {
	for _, e := range ex {
		if ok, err := e(c, a); err != nil {
			return err
		} else if ok {
			return nil
		}
	}

	name := a.Argv(0).String()
	slog.Warn("Unknown command", slog.String("name", name))
	return errors.Errorf("unknown command %q", name)
}
