package runner

import (
	"context"
	"sync"

	"github.com/rustyeddy/dealersim/rng"
	"github.com/rustyeddy/dealersim/sim"
)

// runParallel spreads replications over workers. Every worker owns a clone
// of the dealer; since each replication resets its agents first, which
// worker runs a replication has no effect on its results.
func runParallel(ctx context.Context, d *sim.Dealer, exp int, opts Options, workers int) ([]sim.Result, error) {
	n := opts.Periods + 1
	results := make([]sim.Result, opts.Simulations*n)
	if workers > opts.Simulations {
		workers = opts.Simulations
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dealer := d.Clone()
			buf := make([]sim.Result, 0, n)
			for rep := range jobs {
				rnd := rng.ForReplication(opts.Seed, exp, rep)
				buf = dealer.RunReplication(buf[:0], rnd, rep, opts.Periods)
				copy(results[rep*n:], buf)
			}
		}()
	}

	var err error
feed:
	for rep := 0; rep < opts.Simulations; rep++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- rep:
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return results, nil
}
