package worker

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"ethvanity/internal/logger"
	"ethvanity/pkg/matcher"
)

// resultBuffer is the capacity of the pool's result channel. Producers block
// on a full channel (bounded backpressure) unless the pool is shutting down.
const resultBuffer = 100

// GPUOptions configures the optional OpenCL worker.
type GPUOptions struct {
	Enabled     bool
	DeviceIndex int
	// WorkSize is the number of lanes per kernel dispatch. Zero selects
	// the default (1<<20).
	WorkSize int
}

// Config configures a Pool.
type Config struct {
	// Workers is the CPU worker count; zero or negative means NumCPU.
	Workers int
	Pattern *matcher.Pattern
	Deriver Deriver
	GPU     GPUOptions
	// Logger receives GPU warnings and batch errors. Nil means stderr.
	Logger *logger.Logger
}

// Pool owns a set of workers searching in parallel. Workers share one
// bounded result channel, one stop signal, and one stats block; the pool is
// the only external-facing handle.
type Pool struct {
	numWorkers int
	pattern    *matcher.Pattern

	results chan FoundRecord
	quit    chan struct{}
	stopped atomic.Bool

	stats *Stats
	wg    sync.WaitGroup
	start time.Time
}

// NewPool spawns all workers and starts the search immediately. If the GPU
// worker is requested but cannot be constructed, the pool logs a warning and
// proceeds CPU-only; GPU construction failure is never fatal.
func NewPool(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	log := cfg.Logger
	if log == nil {
		log = logger.New()
	}

	p := &Pool{
		numWorkers: workers,
		pattern:    cfg.Pattern,
		results:    make(chan FoundRecord, resultBuffer),
		quit:       make(chan struct{}),
		stats:      &Stats{},
		start:      time.Now(),
	}

	for id := 0; id < workers; id++ {
		w := &cpuWorker{
			id:      id,
			pattern: cfg.Pattern,
			deriver: cfg.Deriver,
			results: p.results,
			quit:    p.quit,
			stats:   p.stats,
		}
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			w.run()
		}()
	}

	if cfg.GPU.Enabled {
		workSize := cfg.GPU.WorkSize
		if workSize <= 0 {
			workSize = defaultGPUWorkSize
		}
		gw, err := newGPUWorker(workers, cfg.Pattern, cfg.Deriver, p.results, p.quit,
			p.stats, log, cfg.GPU.DeviceIndex, workSize)
		if err != nil {
			log.Printf("warning: GPU initialization failed: %v", err)
			log.Printf("continuing with CPU-only workers")
		} else {
			p.numWorkers++
			p.wg.Add(1)
			go func() {
				defer p.wg.Done()
				gw.run()
			}()
		}
	}

	// Close the channel once every worker has exited so receivers observe
	// end-of-results. Buffered records stay drainable after Join.
	go func() {
		p.wg.Wait()
		close(p.results)
	}()

	return p
}

// WaitForResult blocks until a match arrives or the timeout expires. The
// second return is false on timeout or when all workers have exited.
func (p *Pool) WaitForResult(timeout time.Duration) (FoundRecord, bool) {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case rec, ok := <-p.results:
		return rec, ok
	case <-t.C:
		return FoundRecord{}, false
	}
}

// TryResult receives a match without blocking.
func (p *Pool) TryResult() (FoundRecord, bool) {
	select {
	case rec, ok := <-p.results:
		return rec, ok
	default:
		return FoundRecord{}, false
	}
}

// Stop signals all workers to finish their current batch and exit.
// Idempotent.
func (p *Pool) Stop() {
	if p.stopped.CompareAndSwap(false, true) {
		close(p.quit)
	}
}

// Join stops the pool and waits for every worker to terminate. After Join
// the counters are frozen and no further results are produced; records
// already buffered remain drainable via TryResult.
func (p *Pool) Join() {
	p.Stop()
	p.wg.Wait()
}

// IsStopped reports whether Stop has been called.
func (p *Pool) IsStopped() bool {
	return p.stopped.Load()
}

// NumWorkers returns the number of workers actually running (CPU plus GPU if
// its construction succeeded).
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Pattern returns the pattern being searched.
func (p *Pool) Pattern() *matcher.Pattern {
	return p.pattern
}

// TotalTested returns the aggregate number of candidates tested.
func (p *Pool) TotalTested() uint64 {
	return p.stats.TotalTested()
}

// TotalMatches returns the aggregate number of matches found.
func (p *Pool) TotalMatches() uint64 {
	return p.stats.TotalMatches()
}

// Elapsed returns the time since the pool was created.
func (p *Pool) Elapsed() time.Duration {
	return time.Since(p.start)
}

// PerSecond returns the tested-candidate throughput, 0 before any time has
// elapsed.
func (p *Pool) PerSecond() float64 {
	secs := p.Elapsed().Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(p.TotalTested()) / secs
}
