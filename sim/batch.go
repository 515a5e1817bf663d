package sim

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/flocklab/murmur/config"
	"github.com/flocklab/murmur/telemetry"
)

// AgentState is one agent's full-precision state in a captured frame.
type AgentState struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Frame is the whole flock at the end of one step, in creation order.
type Frame []AgentState

// Result is the outcome of a batch run: exactly one frame per step.
type Result struct {
	RunID     string  `json:"runId"`
	Seed      int64   `json:"seed"`
	StepCount int     `json:"stepCount"`
	Frames    []Frame `json:"frames"`
}

// Run executes a batch run of exactly cfg.Steps steps and captures a
// frame after each one. Equal config and seed give an identical Result
// (bar the RunID), which is what sweeps and regression baselines rely
// on.
func Run(cfg config.Config, opts Options) (*Result, error) {
	if cfg.Steps < 1 {
		return nil, fmt.Errorf("sim: batch run needs steps >= 1, got %d", cfg.Steps)
	}

	s, err := New(cfg, opts)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	s.started = s.now()

	res := &Result{
		RunID:  s.RunID(),
		Seed:   opts.Seed,
		Frames: make([]Frame, 0, cfg.Steps),
	}

	for i := 0; i < cfg.Steps; i++ {
		s.Step()
		res.Frames = append(res.Frames, s.frame())
	}
	res.StepCount = s.step

	s.drain()

	return res, nil
}

// frame copies the post-step snapshot into an exportable frame.
func (s *Sim) frame() Frame {
	f := make(Frame, len(s.parallel.snapshots))
	for i, b := range s.parallel.snapshots {
		f[i] = AgentState{X: b.Pos.X, Y: b.Pos.Y, DX: b.Vel.DX, DY: b.Vel.DY}
	}
	return f
}

// drain flushes a trailing partial stats window.
func (s *Sim) drain() {
	if s.collector.Pending() > 0 {
		s.flushWindow()
	}
}

// RunAll executes one batch run per config over a fixed-size worker
// pool and returns results in input order. Every config is validated
// before any run starts, so a bad entry fails the whole batch instead
// of wasting the runs scheduled ahead of it. Run i derives its seed as
// opts.Seed+i, keeping results independent of scheduling.
//
// Per-run telemetry (sink, output manager, stats callback) is disabled;
// aggregate outputs are the caller's concern.
func RunAll(cfgs []config.Config, opts Options) ([]*Result, error) {
	for i, cfg := range cfgs {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("sim: config %d: %w", i, err)
		}
		if cfg.Steps < 1 {
			return nil, fmt.Errorf("sim: config %d: batch run needs steps >= 1, got %d", i, cfg.Steps)
		}
	}

	results := make([]*Result, len(cfgs))
	errs := make([]error, len(cfgs))

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(cfgs) {
		numWorkers = len(cfgs)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				runOpts := opts
				runOpts.Seed = opts.Seed + int64(idx)
				runOpts.Sink = telemetry.Discard
				runOpts.Output = nil
				runOpts.StatsCallback = nil
				results[idx], errs[idx] = Run(cfgs[idx], runOpts)
			}
		}()
	}

	for i := range cfgs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("sim: run %d: %w", i, err)
		}
	}

	return results, nil
}
