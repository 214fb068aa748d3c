// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/pkg/errors"

	"bgsim/bgcheck"
	"bgsim/cbuf"
	"bgsim/cmd"
	cl "bgsim/commandline"
	"bgsim/config"
	"bgsim/conlog"
	"bgsim/floormap"
	"bgsim/history"
	"bgsim/probe"
	"bgsim/record"
	"bgsim/search"
)

const defaultScenario = `
name: kakariko gate
mesh:
  builtin: kakariko_gate
`

func main() {
	flag.Parse()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx)
	stop()
	if err != nil {
		slog.Error("bgsim failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func loadScenario() (*config.Scenario, error) {
	if cl.Config() == "" {
		return config.Parse([]byte(defaultScenario))
	}
	return config.Load(cl.Config())
}

func run(ctx context.Context) error {
	s, err := loadScenario()
	if err != nil {
		return err
	}
	level, format := s.Logging.Level, s.Logging.Format
	if cl.LogLevel() != "" {
		level = cl.LogLevel()
	}
	if cl.LogFormat() != "" {
		format = cl.LogFormat()
	}
	conlog.Init(conlog.Config{Level: level, Format: format})

	if cl.Age() != "" {
		if _, err := config.ParseAge(cl.Age()); err != nil {
			return err
		}
		s.Age = cl.Age()
	}
	if cl.Seed() != 0 {
		s.Search.Seed = cl.Seed()
	}
	if cl.SearchWorkers() > 0 {
		s.Search.Workers = cl.SearchWorkers()
	}
	slog.Info("scenario loaded", slog.String("name", s.Name), slog.String("age", s.Age))

	ran := false
	if cl.Script() != "" {
		ran = true
		if err := runScript(s, cl.Script()); err != nil {
			return err
		}
	}
	if cl.Search() {
		ran = true
		if err := runSearch(ctx, s); err != nil {
			return err
		}
	}
	if out := cl.FloorMap(); out != "" || s.FloorMap.Out != "" {
		ran = true
		if out == "" {
			out = s.FloorMap.Out
		}
		if err := runFloorMap(s, out); err != nil {
			return err
		}
	}
	if !ran {
		flag.Usage()
		return errors.New("nothing to do: give -script, -search or -floormap")
	}
	return nil
}

func newProbe(s *config.Scenario) (*cbuf.CommandBuffer, error) {
	w, err := s.World()
	if err != nil {
		return nil, err
	}
	c := cmd.New()
	if err := probe.New(w).Register(c); err != nil {
		return nil, err
	}
	b := &cbuf.CommandBuffer{}
	b.SetCommandExecutors([]cbuf.Efunc{cbuf.Registry(c)})
	return b, nil
}

func runScript(s *config.Scenario, name string) error {
	b, err := newProbe(s)
	if err != nil {
		return err
	}
	if name == "-" {
		return interactive(b, os.Stdin)
	}
	text, err := os.ReadFile(name)
	if err != nil {
		return errors.Wrap(err, "script")
	}
	b.AddText(string(text))
	return errors.Wrapf(b.Run(), "script %s", name)
}

func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "bgsim", "history.pb")
}

// interactive reads probe commands line by line. Errors are printed and
// the session continues.
func interactive(b *cbuf.CommandBuffer, in io.Reader) error {
	var h history.History
	hf := historyFile()
	if hf != "" {
		if err := h.Load(hf); err != nil {
			slog.Warn("history not loaded", slog.Any("err", err))
		}
	}
	sc := bufio.NewScanner(in)
	fmt.Print("] ")
	for sc.Scan() {
		line := sc.Text()
		if line != "" {
			h.Add(line)
			b.AddText(line + "\n")
			if err := b.Run(); err != nil {
				conlog.Printf("%v\n", err)
				b.Clear()
			}
		}
		fmt.Print("] ")
	}
	fmt.Println()
	if hf != "" {
		if err := os.MkdirAll(filepath.Dir(hf), 0o755); err == nil {
			if err := h.Save(hf); err != nil {
				slog.Warn("history not saved", slog.Any("err", err))
			}
		}
	}
	return errors.Wrap(sc.Err(), "stdin")
}

func runSearch(ctx context.Context, s *config.Scenario) error {
	cfg := search.Config{
		Min:     s.Search.Min.Vec(),
		Max:     s.Search.Max.Vec(),
		Step:    s.Search.Step,
		Yaws:    s.Search.Yaws,
		Speed:   s.Search.Speed,
		Jitter:  s.Search.Jitter,
		Seed:    s.Search.Seed,
		Workers: s.Search.Workers,
	}
	rep, err := search.Run(ctx, cfg, s.World)
	if err != nil {
		return err
	}
	hits := rep.Hits()
	for _, h := range hits {
		conlog.Printf("clip %d start (%g %g %g) yaw %#04x -> (%g %g %g) through %v\n",
			h.Index, h.Start.X, h.Start.Y, h.Start.Z, uint16(h.Yaw), h.Pos.X, h.Pos.Y, h.Pos.Z, h.Crossed)
	}
	conlog.Printf("run %v: %d clips in %d candidates\n", rep.Run, len(hits), len(rep.Results))
	if s.Search.Out != "" {
		return record.WriteFile(s.Search.Out, rep)
	}
	return nil
}

func runFloorMap(s *config.Scenario, out string) error {
	w, err := s.World()
	if err != nil {
		return err
	}
	m, err := floormap.Build(w, floormap.Config{
		Min:   s.FloorMap.Min.Vec(),
		Max:   s.FloorMap.Max.Vec(),
		Step:  s.FloorMap.Step,
		Scale: s.FloorMap.Scale,
	})
	if err != nil {
		return err
	}
	if err := floormap.WriteFile(out, m.Render(s.FloorMap.Scale)); err != nil {
		return err
	}
	lo, hi := m.Lo, m.Hi
	if lo == bgcheck.MinHeight {
		slog.Warn("floormap found no floor", slog.String("out", out))
	}
	slog.Info("floormap written", slog.String("out", out), slog.Int("w", m.W), slog.Int("h", m.H),
		slog.Float64("lo", float64(lo)), slog.Float64("hi", float64(hi)))
	return nil
}
