// Package sim owns the simulation lifecycle: the agent store, the step
// loop, the batch and live runners and the telemetry plumbing around
// them. A Sim carries all of its state explicitly; two Sims never share
// anything, so runs can execute concurrently in one process.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/flocklab/murmur/components"
	"github.com/flocklab/murmur/config"
	"github.com/flocklab/murmur/systems"
	"github.com/flocklab/murmur/telemetry"
)

// Sim holds the complete simulation state.
type Sim struct {
	cfg config.Config
	rng *rand.Rand
	log *slog.Logger
	now func() time.Time

	world  *ecs.World
	mapper *ecs.Map3[components.Position, components.Velocity, components.Trail]

	// Individual component mappers for lookups
	posMap   *ecs.Map1[components.Position]
	velMap   *ecs.Map1[components.Velocity]
	trailMap *ecs.Map1[components.Trail]

	trailFilter *ecs.Filter2[components.Position, components.Trail]

	// entities in creation order. Per-step iteration goes through this
	// slice, never through a filter, so results cannot depend on
	// archetype iteration order.
	entities []ecs.Entity

	parallel *parallelState

	// State
	runID    uuid.UUID
	step     int
	started  time.Time
	running  bool
	sentMeta bool

	// Telemetry
	sink          telemetry.Sink
	throttle      *telemetry.Throttle
	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	output        *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	logStats      bool

	lastOrder telemetry.OrderParameters
}

// New creates a simulation from a validated configuration. The flock is
// rolled immediately: per agent the RNG yields x, y, dx, dy in that
// order, positions uniform over the world and velocity components
// uniform over [-5, 5).
func New(cfg config.Config, opts Options) (*Sim, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	window := opts.StatsWindow
	if window < 1 {
		window = DefaultStatsWindow
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := opts.Sink
	if sink == nil {
		sink = telemetry.Discard
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	world := ecs.NewWorld()

	s := &Sim{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		log:    logger,
		now:    now,
		world:  world,
		mapper: ecs.NewMap3[components.Position, components.Velocity, components.Trail](world),

		posMap:   ecs.NewMap1[components.Position](world),
		velMap:   ecs.NewMap1[components.Velocity](world),
		trailMap: ecs.NewMap1[components.Trail](world),

		trailFilter: ecs.NewFilter2[components.Position, components.Trail](world),

		parallel: newParallelState(),

		runID:    uuid.New(),
		sink:     sink,
		throttle: telemetry.NewThrottle(cfg.TeleThrottle),

		collector:     telemetry.NewCollector(window),
		perf:          telemetry.NewPerfCollector(window),
		output:        opts.Output,
		statsCallback: opts.StatsCallback,
		logStats:      opts.LogStats,
	}

	s.spawn(cfg.NumBoids)

	if err := s.output.WriteConfig(cfg); err != nil {
		return nil, fmt.Errorf("sim: writing config artifact: %w", err)
	}

	return s, nil
}

// spawn creates n agents. The RNG consumption order per agent (x, y,
// dx, dy) is contract: changing it changes every seeded run.
func (s *Sim) spawn(n int) {
	for i := 0; i < n; i++ {
		pos := components.Position{
			X: s.rng.Float64() * s.cfg.Width,
			Y: s.rng.Float64() * s.cfg.Height,
		}
		vel := components.Velocity{
			DX: s.rng.Float64()*10 - 5,
			DY: s.rng.Float64()*10 - 5,
		}
		var trail components.Trail

		s.entities = append(s.entities, s.mapper.NewEntity(&pos, &vel, &trail))
	}
}

// despawn removes every agent.
func (s *Sim) despawn() {
	for _, e := range s.entities {
		s.mapper.Remove(e)
	}
	s.entities = s.entities[:0]
}

// Step advances the simulation by one step: rule forces over an
// immutable snapshot, integration, trail capture, then the windowed
// observations.
func (s *Sim) Step() {
	s.perf.StartStep()

	s.perf.StartPhase(telemetry.PhaseForces)
	s.buildSnapshots()
	s.computeIntents()

	s.perf.StartPhase(telemetry.PhaseIntegrate)
	s.applyIntents()
	if s.cfg.DrawTrail {
		s.recordTrails()
	}
	s.step++

	s.perf.StartPhase(telemetry.PhaseOrder)
	s.lastOrder = telemetry.ComputeOrderParameters(s.parallel.snapshots)

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.observe()

	s.perf.EndStep()
}

// buildSnapshots captures the flock state read by every rule this step.
func (s *Sim) buildSnapshots() {
	p := s.parallel
	p.snapshots = p.snapshots[:0]

	for _, e := range s.entities {
		p.snapshots = append(p.snapshots, systems.Boid{
			Pos: *s.posMap.Get(e),
			Vel: *s.velMap.Get(e),
		})
	}

	n := len(p.snapshots)
	if cap(p.intents) < n {
		p.intents = make([]intent, n)
	}
	p.intents = p.intents[:n]
}

// applyIntents writes computed results back to the store, single
// threaded so determinism never depends on chunk boundaries. The
// snapshot slice is updated in place and becomes the post-step view
// that the order parameters and the encoder read.
func (s *Sim) applyIntents() {
	p := s.parallel
	for i, e := range s.entities {
		in := &p.intents[i]

		pos := s.posMap.Get(e)
		vel := s.velMap.Get(e)
		pos.X, pos.Y = in.px, in.py
		vel.DX, vel.DY = in.vx, in.vy

		p.snapshots[i].Pos = *pos
		p.snapshots[i].Vel = *vel
	}
}

// recordTrails pushes the new position of every agent onto its trail.
func (s *Sim) recordTrails() {
	query := s.trailFilter.Query()
	for query.Next() {
		pos, trail := query.Get()
		trail.Push(*pos)
	}
}

// observe feeds the windowed collector and flushes full windows to the
// configured outputs.
func (s *Sim) observe() {
	s.collector.Record(s.step, s.elapsedMs(), len(s.entities), s.lastOrder)
	if s.collector.ShouldFlush() {
		s.flushWindow()
	}
}

// flushWindow drains the stats window into the callback, the log and
// the output files. Write failures are logged, never fatal.
func (s *Sim) flushWindow() {
	stats := s.collector.Flush()
	perfStats := s.perf.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		s.log.Info("stats", "window", stats)
		perfStats.LogStats()
	}

	if err := s.output.WriteStats(stats); err != nil {
		s.log.Error("failed to write stats", "error", err)
	}
	if err := s.output.WritePerf(perfStats, stats.WindowEnd); err != nil {
		s.log.Error("failed to write perf", "error", err)
	}
}

func (s *Sim) elapsedMs() int64 {
	if s.started.IsZero() {
		return 0
	}
	return s.now().Sub(s.started).Milliseconds()
}

// Config returns the effective configuration.
func (s *Sim) Config() config.Config { return s.cfg }

// StepCount returns the number of steps taken since creation or the
// last reset.
func (s *Sim) StepCount() int { return s.step }

// RunID identifies this run in artifacts and logs.
func (s *Sim) RunID() string { return s.runID.String() }

// Running reports whether live mode is started.
func (s *Sim) Running() bool { return s.running }

// Order returns the order parameters of the last completed step.
func (s *Sim) Order() telemetry.OrderParameters { return s.lastOrder }

// N returns the current agent count.
func (s *Sim) N() int { return len(s.entities) }

// TrailPoints appends agent i's recorded trail, oldest first, to dst
// and returns the extended slice. Trails fill only when the
// configuration enables them.
func (s *Sim) TrailPoints(i int, dst []components.Position) []components.Position {
	return s.trailMap.Get(s.entities[i]).Points(dst)
}

// Close stops the worker pool. The Sim must not be stepped afterwards.
func (s *Sim) Close() {
	s.parallel.stopWorkers()
}
