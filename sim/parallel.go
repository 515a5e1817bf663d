package sim

import (
	"runtime"
	"sync"

	"github.com/flocklab/murmur/systems"
)

// parallelThreshold is the minimum agent count to use parallel rule
// evaluation. Below this, single-threaded is faster due to goroutine
// overhead.
const parallelThreshold = 64

// intent captures one agent's computed post-step state, applied after
// the compute phase.
type intent struct {
	px, py float64
	vx, vy float64
}

// workerScratch holds per-worker reusable buffers.
type workerScratch struct {
	neighbors []systems.Neighbor
}

// workChunk is a range of agents for a worker to process.
type workChunk struct {
	start, end int
}

// parallelState holds resources for parallel rule evaluation.
type parallelState struct {
	snapshots  []systems.Boid
	intents    []intent
	scratches  []workerScratch
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState() *parallelState {
	numWorkers := runtime.GOMAXPROCS(0)
	scratches := make([]workerScratch, numWorkers)
	for i := range scratches {
		scratches[i].neighbors = make([]systems.Neighbor, 0, 64)
	}
	return &parallelState{
		numWorkers: numWorkers,
		scratches:  scratches,
		snapshots:  make([]systems.Boid, 0, 512),
		intents:    make([]intent, 0, 512),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(s *Sim) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(s, i)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(s *Sim, workerID int) {
	defer p.wg.Done()
	scratch := &p.scratches[workerID]

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			s.computeChunk(chunk.start, chunk.end, scratch)
			p.doneChan <- struct{}{}
		}
	}
}

// computeIntents evaluates the rules for every agent, single-threaded
// below the threshold and chunked across the worker pool above it.
func (s *Sim) computeIntents() {
	n := len(s.parallel.snapshots)
	if n == 0 {
		return
	}

	if n < parallelThreshold {
		s.computeChunk(0, n, &s.parallel.scratches[0])
		return
	}
	s.computeParallel(n)
}

// computeParallel dispatches work to the worker pool.
func (s *Sim) computeParallel(n int) {
	// Ensure workers are running
	if !s.parallel.running {
		s.parallel.startWorkers(s)
	}

	numWorkers := s.parallel.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	// Dispatch chunks to workers
	chunksDispatched := 0
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		s.parallel.workChan <- workChunk{start: start, end: end}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-s.parallel.doneChan
	}
}

// computeChunk evaluates the flocking rules for a range of agents.
// Every read goes to the snapshot slice and every write to the intent
// slice, so chunks never contend and parallel evaluation is
// bit-identical to serial.
//
// Rule order is contract: cohesion, separation, alignment, containment,
// then the speed clamp last, so no step ever ends above the limit. Each
// rule reads the velocity as accumulated by the ones before it.
func (s *Sim) computeChunk(i0, i1 int, scratch *workerScratch) {
	cfg := &s.cfg
	flock := s.parallel.snapshots

	for i := i0; i < i1; i++ {
		snap := &flock[i]
		vx, vy := snap.Vel.DX, snap.Vel.DY

		scratch.neighbors = systems.NeighborsInto(scratch.neighbors[:0], flock, i, cfg.VisualRange, true)
		dx, dy := systems.Cohesion(flock, i, scratch.neighbors, cfg.AttractiveFactor)
		vx += dx
		vy += dy

		scratch.neighbors = systems.NeighborsInto(scratch.neighbors[:0], flock, i, cfg.MinDistance, false)
		dx, dy = systems.Separation(scratch.neighbors, cfg.AvoidFactor)
		vx += dx
		vy += dy

		scratch.neighbors = systems.NeighborsInto(scratch.neighbors[:0], flock, i, cfg.VisualRange, true)
		dx, dy = systems.Alignment(flock, scratch.neighbors, vx, vy, cfg.AlignmentFactor)
		vx += dx
		vy += dy

		dx, dy = systems.BoundaryNudge(snap.Pos, cfg.Width, cfg.Height, cfg.Margin, cfg.TurnFactor)
		vx += dx
		vy += dy

		vx, vy = systems.LimitSpeed(vx, vy, cfg.SpeedLimit)

		s.parallel.intents[i] = intent{
			px: snap.Pos.X + vx,
			py: snap.Pos.Y + vy,
			vx: vx,
			vy: vy,
		}
	}
}
