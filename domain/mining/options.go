package mining

import "errors"

var (
	// ErrInvalidThreshold indicates a negative minimum-utility threshold.
	ErrInvalidThreshold = errors.New("minimum utility threshold must be non-negative")

	// ErrNilTree indicates mining was attempted without a built tree.
	ErrNilTree = errors.New("nil utility tree")

	// ErrInvalidWorkers indicates a non-positive worker count.
	ErrInvalidWorkers = errors.New("worker count must be positive")
)

// Options configures a mining run. The threshold is passed explicitly
// through every recursive call; the miner holds no ambient state.
type Options struct {
	// MinUtility is the minimum exact utility an itemset must reach to
	// be emitted. Zero admits every non-empty candidate with
	// non-negative utility; negative is a configuration error.
	MinUtility float64

	// MaxItemsets is the safety ceiling on emitted itemsets. When hit,
	// mining stops early and the result is flagged partial. Zero means
	// unlimited.
	MaxItemsets int

	// MaxDepth bounds the recursion depth (itemset size). Zero means
	// unlimited. Hitting it flags the result partial.
	MaxDepth int
}

// Validate rejects configurations that would produce silently wrong
// results, before any mining work starts.
func (o Options) Validate() error {
	if o.MinUtility < 0 {
		return ErrInvalidThreshold
	}
	return nil
}
