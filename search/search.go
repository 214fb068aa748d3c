// SPDX-License-Identifier: GPL-2.0-or-later

// Package search moves an entity from every point of a grid along a set of
// facings and reports the moves that end on the far side of a wall.
package search

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"bgsim/bgcheck"
	"bgsim/math/vec"
	"bgsim/rand"
)

// JitterUnit is the size of one jitter step.
const JitterUnit = 1.0 / 16

// Config describes the candidate grid. Each axis runs from Min to Max in
// Step increments. A candidate is moved Speed units along each of Yaws.
// Jitter offsets the horizontal start by up to Jitter*JitterUnit, drawn
// from Seed and the candidate index.
type Config struct {
	Min, Max vec.Vec3
	Step     float32
	Yaws     []int16
	Speed    float32
	Jitter   int
	Seed     uint32
	Workers  int
}

// Candidate is one start position and facing.
type Candidate struct {
	Index int
	Start vec.Vec3
	Yaw   int16
}

// Result is the outcome of one candidate.
type Result struct {
	Candidate
	Intended vec.Vec3
	Pos      vec.Vec3
	// last wall that moved the entity
	Wall bgcheck.PolyRef
	// wall between Start and Pos, set for clips
	Crossed bgcheck.PolyRef
	Clip    bool
}

// Report is a finished run. Results are in candidate order.
type Report struct {
	Run     uuid.UUID
	Results []Result
}

// Hits returns the clips of r.
func (r *Report) Hits() []Result {
	var h []Result
	for _, res := range r.Results {
		if res.Clip {
			h = append(h, res)
		}
	}
	return h
}

func steps(lo, hi, step float32) int {
	if hi < lo {
		return 0
	}
	if step <= 0 {
		return 1
	}
	return int((hi-lo)/step) + 1
}

// Candidates lists the grid of cfg: y outermost, then z, x and yaw.
func Candidates(cfg Config) []Candidate {
	nx := steps(cfg.Min.X, cfg.Max.X, cfg.Step)
	ny := steps(cfg.Min.Y, cfg.Max.Y, cfg.Step)
	nz := steps(cfg.Min.Z, cfg.Max.Z, cfg.Step)
	g := rand.New(cfg.Seed)
	c := make([]Candidate, 0, nx*ny*nz*len(cfg.Yaws))
	for iy := 0; iy < ny; iy++ {
		for iz := 0; iz < nz; iz++ {
			for ix := 0; ix < nx; ix++ {
				for _, yaw := range cfg.Yaws {
					idx := len(c)
					p := vec.Vec3{
						X: cfg.Min.X + float32(float32(ix)*cfg.Step),
						Y: cfg.Min.Y + float32(float32(iy)*cfg.Step),
						Z: cfg.Min.Z + float32(float32(iz)*cfg.Step),
					}
					if cfg.Jitter > 0 {
						j := g.Fork(uint32(idx))
						p.X += float32(j.Jitter(cfg.Jitter)) * JitterUnit
						p.Z += float32(j.Jitter(cfg.Jitter)) * JitterUnit
					}
					c = append(c, Candidate{Index: idx, Start: p, Yaw: yaw})
				}
			}
		}
	}
	return c
}

// Evaluate runs one candidate against w.
func Evaluate(w *bgcheck.World, c Candidate, speed float32) Result {
	tr := w.Trig()
	in := c.Start
	in.X += float32(tr.SinS(c.Yaw) * speed)
	in.Z += float32(tr.CosS(c.Yaw) * speed)
	r := w.RunChecks(c.Start, in)
	res := Result{
		Candidate: c,
		Intended:  in,
		Pos:       r.Pos,
		Wall:      r.Wall,
		Crossed:   bgcheck.NoPoly,
	}
	if _, ref, ok := w.EntityLineTest(c.Start, r.Pos, true, false, false); ok {
		res.Crossed = ref
		res.Clip = true
	}
	return res
}

// Run evaluates all candidates of cfg. Every worker owns the world
// newWorld built for it. Results do not depend on the number of workers.
func Run(ctx context.Context, cfg Config, newWorld func() (*bgcheck.World, error)) (*Report, error) {
	run, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "search: run id")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	cands := Candidates(cfg)
	total := len(cands)
	results := make([]Result, total)
	var processed atomic.Int64
	log := slog.With(slog.String("run", run.String()))
	log.Info("search started", slog.Int("candidates", total), slog.Int("workers", workers))

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					log.Info("search progress", slog.Int64("done", p), slog.Int("total", total),
						slog.Float64("rate", float64(p)/elapsed))
				}
			}
		}
	}()

	// Worker pool
	work := make(chan int, workers*2)
	var (
		wg      sync.WaitGroup
		errOnce sync.Once
		werr    error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w, err := newWorld()
			if err != nil {
				errOnce.Do(func() { werr = errors.Wrap(err, "search: world") })
			}
			for idx := range work {
				if w == nil || ctx.Err() != nil {
					continue
				}
				results[idx] = Evaluate(w, cands[idx], cfg.Speed)
				processed.Add(1)
			}
		}()
	}

	// Send work
send:
	for i := range cands {
		select {
		case work <- i:
		case <-ctx.Done():
			break send
		}
	}
	close(work)

	wg.Wait()
	close(done)

	if werr != nil {
		return nil, werr
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "search")
	}
	rep := &Report{Run: run, Results: results}
	log.Info("search finished", slog.Int("clips", len(rep.Hits())), slog.Duration("took", time.Since(start)))
	return rep, nil
}
