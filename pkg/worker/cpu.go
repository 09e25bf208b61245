package worker

import (
	"ethvanity/pkg/matcher"
)

// batchSize is the number of candidates a CPU worker processes between stop
// checks and stats updates. Amortizes atomic-counter cost; worst-case
// shutdown latency is one batch.
const batchSize = 1000

// cpuWorker runs a sequential generate-test loop over one derivation scheme.
type cpuWorker struct {
	id      int
	pattern *matcher.Pattern
	deriver Deriver
	results chan<- FoundRecord
	quit    <-chan struct{}
	stats   *Stats
}

// run loops until the pool signals shutdown. The stop signal is checked once
// per batch, not per candidate.
func (w *cpuWorker) run() {
	var secret [32]byte
	if err := w.deriver.SeedSecret(&secret); err != nil {
		return
	}

	for {
		select {
		case <-w.quit:
			return
		default:
		}

		for i := 0; i < batchSize; i++ {
			addr, err := w.deriver.Derive(&secret)
			if err == nil && w.pattern.Matches(addr) {
				w.stats.Matches.Add(1)
				rec := FoundRecord{
					Secret:      secret,
					Address:     addr,
					WorkerID:    w.id,
					NonceSecret: w.deriver.NonceSecret(),
				}
				// Best effort: backpressure on a full channel is
				// intentional, but shutdown aborts the push.
				select {
				case w.results <- rec:
				case <-w.quit:
					return
				}
			}
			if err := w.deriver.NextSecret(&secret); err != nil {
				return
			}
		}

		w.stats.Tested.Add(batchSize)
	}
}
