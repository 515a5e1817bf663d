package sim

import (
	"github.com/flocklab/murmur/config"
	"github.com/flocklab/murmur/telemetry"
)

// Start enters live mode. The first start of a run emits a one-shot
// metadata payload so consumers learn the world dimensions and
// parameters before any position data arrives; later starts resume
// silently.
func (s *Sim) Start() {
	if s.running {
		return
	}
	s.running = true
	if s.started.IsZero() {
		s.started = s.now()
	}
	if !s.sentMeta {
		s.sentMeta = true
		s.emit(telemetry.FormatMeta)
	}
}

// Stop pauses live mode. Tick becomes a no-op until the next Start.
func (s *Sim) Stop() {
	s.running = false
}

// Tick advances one step in live mode and emits a position payload when
// the wall-clock throttle allows. Pacing belongs to the caller: drive
// it from a time.Ticker, a render loop or a test clock.
func (s *Sim) Tick() {
	if !s.running {
		return
	}
	s.Step()
	if s.throttle.Ready(s.now()) {
		s.emit(telemetry.FormatU16XY)
	}
}

// emit builds and sends one payload. Send failures are logged, never
// fatal: a broken consumer must not stall the simulation.
func (s *Sim) emit(format string) {
	if err := s.sink.Send(s.payload(format)); err != nil {
		s.log.Error("failed to send telemetry", "error", err, "format", format)
	}
}

// payload assembles the wire payload for the current state.
func (s *Sim) payload(format string) *telemetry.Payload {
	p := &telemetry.Payload{
		TMs:       s.elapsedMs(),
		StepCount: s.step,
		N:         len(s.entities),
		W:         s.cfg.Width,
		H:         s.cfg.Height,
		Format:    format,
		Params:    telemetry.ParamsFrom(s.cfg),

		Velocity:      s.lastOrder.Velocity,
		Vector:        s.lastOrder.Mean,
		Polarization:  s.lastOrder.Polarization,
		RotationOrder: s.lastOrder.RotationOrder,
	}
	if format == telemetry.FormatU16XY {
		p.Data = telemetry.EncodePositions(s.parallel.snapshots, s.cfg.Width, s.cfg.Height)
	}
	return p
}

// SetParams applies configuration overrides to a running simulation.
// Force and containment factors take effect from the next step. A
// change to the agent count rebuilds the flock from the continuing RNG
// stream and resets the step counter and clock; a change to the
// telemetry rate rebuilds the throttle. Invalid overrides leave the
// simulation untouched.
func (s *Sim) SetParams(o config.Overrides) error {
	next, err := s.cfg.With(o)
	if err != nil {
		return err
	}

	reinit := next.NumBoids != s.cfg.NumBoids
	rethrottle := next.TeleThrottle != s.cfg.TeleThrottle
	s.cfg = next

	if rethrottle {
		s.throttle = telemetry.NewThrottle(next.TeleThrottle)
	}
	if reinit {
		s.reset()
	}
	s.log.Info("params applied", "boids", next.NumBoids, "reinit", reinit)
	return nil
}

// Reload re-rolls the flock without touching the configuration. The
// RNG stream continues where it is rather than rewinding, so a seeded
// run's n-th reload is itself reproducible.
func (s *Sim) Reload() {
	s.reset()
	s.log.Info("flock reloaded", "boids", s.cfg.NumBoids)
}

// Resize updates the world dimensions, leaving agents where they are:
// anyone stranded outside the new bounds is herded back by containment
// over the following steps.
func (s *Sim) Resize(width, height float64) error {
	next, err := s.cfg.With(config.Overrides{Width: &width, Height: &height})
	if err != nil {
		return err
	}
	s.cfg = next
	s.log.Info("world resized", "w", width, "h", height)
	return nil
}

// reset rebuilds the flock and rewinds the step counter and clock.
func (s *Sim) reset() {
	s.despawn()
	s.spawn(s.cfg.NumBoids)
	s.step = 0
	s.lastOrder = telemetry.OrderParameters{}
	if !s.started.IsZero() {
		s.started = s.now()
	}
}
