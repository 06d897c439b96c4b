package trace

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-eir/internal/log"
)

var logger = log.New("trace")

// Accumulator collects the hit events of one worker. Each worker owns its
// accumulator exclusively.
type Accumulator interface {
	Add(HitEvent)
}

// Run traces Options.Rays rays for every emission. The (emission, ray) work
// items are split into contiguous shards, one per worker; worker w feeds the
// accumulator returned by newAcc(w). Accumulators are returned in worker
// order so callers can reduce them deterministically.
//
// workers <= 0 uses one worker per CPU.
func Run(tr *Tracer, emissions []Emission, workers int, newAcc func(worker int) Accumulator) ([]Accumulator, Stats) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	rays := tr.opts.Rays
	total := len(emissions) * rays
	if total < workers {
		workers = max(total, 1)
	}

	for _, w := range tr.Warnings() {
		logger.Warningf("%s", w)
	}
	logger.Debugf("tracing %d emission(s) x %d rays on %d worker(s), mode %s, horizon %.1f m",
		len(emissions), rays, workers, tr.mode, tr.horizon)

	accs := make([]Accumulator, workers)
	stats := make([]Stats, workers)
	for w := range accs {
		accs[w] = newAcc(w)
	}

	var done int64
	report := int64(max(total/10, 1))

	per, rem := total/workers, total%workers
	var wg sync.WaitGroup
	wg.Add(workers)
	start := 0
	for w := range workers {
		count := per
		if w < rem {
			count++
		}
		go func(wid, from, n int) {
			defer wg.Done()
			acc, st := accs[wid], &stats[wid]
			for i := from; i < from+n; i++ {
				for hit := range tr.Trace(emissions[i/rays], i%rays, st) {
					acc.Add(hit)
				}
				if fired := atomic.AddInt64(&done, 1); fired%report == 0 {
					logger.Infof("traced %d/%d rays (%.0f%%)", fired, total, 100*float64(fired)/float64(total))
				}
			}
		}(w, start, count)
		start += count
	}
	wg.Wait()

	var sum Stats
	for _, st := range stats {
		sum.Merge(st)
	}
	if sum.Degenerate > 0 {
		logger.Warningf("%d ray(s) with degenerate direction skipped", sum.Degenerate)
	}
	if sum.NonConverged > 0 {
		logger.Warningf("%d intersection search(es) did not converge and were treated as misses", sum.NonConverged)
	}
	return accs, sum
}
