package mining

import (
	"context"
	"runtime"
	"sync"

	"github.com/felixgeelhaar/upgrowth/domain/utilitytree"
)

// MineParallel mines disjoint top-level items concurrently. Each
// surviving item after Phase B pruning is an independent branch with
// its own projected databases, so the branches need no locking; only
// the final merge deduplicates by itemset content. Output is
// set-identical to Mine.
//
// workers bounds concurrency; zero or negative means GOMAXPROCS.
func (m *Miner) MineParallel(ctx context.Context, tree *utilitytree.Tree, opts Options, workers int) (ResultSet, error) {
	if err := opts.Validate(); err != nil {
		return ResultSet{}, err
	}
	if tree == nil {
		return ResultSet{}, ErrNilTree
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	order := phaseOrder(tree)
	results := make([]ResultSet, len(order))

	// The global itemset ceiling cannot be enforced inside independent
	// branches; it is applied deterministically after the merge.
	branchOpts := opts
	branchOpts.MaxItemsets = 0

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				c := newCollector(0)
				m.mineTopLevel(ctx, tree, order[i], branchOpts, c)
				results[i] = c.result()
			}
		}()
	}
	for i := range order {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var merged ResultSet
	for _, rs := range results {
		merged = Merge(merged, rs)
	}
	if ctx.Err() != nil {
		merged.Partial = true
		merged.Stopped = StopCancelled
	}

	if opts.MaxItemsets > 0 && len(merged.Itemsets) > opts.MaxItemsets {
		merged.Itemsets = merged.Itemsets[:opts.MaxItemsets]
		merged.Partial = true
		merged.Stopped = StopLimit
	}
	return merged, nil
}
