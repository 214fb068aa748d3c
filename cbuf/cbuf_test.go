// SPDX-License-Identifier: GPL-2.0-or-later

package cbuf

import (
	"testing"

	"bgsim/cmd"
)

func TestWait(t *testing.T) {
	c := CommandBuffer{}
	runCount := 0
	c.SetCommandExecutors([]Efunc{
		func(cb *CommandBuffer, a cmd.Arguments) (bool, error) {
			runCount++
			return true, nil
		}})
	c.AddText("wait\n")
	c.AddText("test\n")
	c.AddText("test\n")
	c.AddText("wait\n")
	c.AddText("test\n")
	c.Execute()
	if runCount != 0 {
		t.Errorf("runCount=%v, want %v", runCount, 0)
	}
	c.Execute()
	if runCount != 2 {
		t.Errorf("runCount=%v, want %v", runCount, 2)
	}
	c.Execute()
	if runCount != 3 {
		t.Errorf("runCount=%v, want %v", runCount, 3)
	}
}

func TestSplit(t *testing.T) {
	var got []string
	c := CommandBuffer{}
	c.SetCommandExecutors([]Efunc{
		func(cb *CommandBuffer, a cmd.Arguments) (bool, error) {
			got = append(got, a.Full())
			return true, nil
		}})
	c.AddText("a 1; b \"x;y\"\nc\n\n// comment\n")
	c.InsertText("first")
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// the comment line parses to no arguments
	want := []string{"first", "a 1", `b "x;y"`, "c"}
	if len(got) != len(want) {
		t.Fatalf("executed %q want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q want %q", i, got[i], want[i])
		}
	}
}

func TestUnknown(t *testing.T) {
	reg := cmd.New()
	called := false
	cmd.Must(reg.Add("known", func(cmd.Arguments) error {
		called = true
		return nil
	}))
	c := CommandBuffer{}
	c.SetCommandExecutors([]Efunc{Registry(reg)})
	c.AddText("known\nunknown\nknown\n")
	if err := c.Run(); err == nil {
		t.Errorf("Run of an unknown command succeeded")
	}
	if !called {
		t.Errorf("known command was not run")
	}
	if c.Empty() {
		t.Errorf("buffer drained past the failing command")
	}
	c.Clear()
	if !c.Empty() {
		t.Errorf("Clear left text behind")
	}
}
