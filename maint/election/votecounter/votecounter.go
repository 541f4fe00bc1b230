// Package votecounter implements the shared 16-bit vote-weight
// compression used by every authority-rebuild path in §4.F and §4.E,
// in both its legacy and modern forms.
package votecounter

import (
	"math/bits"

	"github.com/crashoveride1/blockchain/chainmodel"
	"github.com/crashoveride1/blockchain/objectstore"
)

// BitsToDrop computes max(msb(total)-15, 0), the legacy builder's
// compression shift. §9 requires keeping this computation even where
// the resulting total is otherwise unused, for binary equivalence with
// the source.
func BitsToDrop(total uint64) uint {
	if total == 0 {
		return 0
	}
	msb := uint(bits.Len64(total)) - 1
	if msb < 15 {
		return 0
	}
	return msb - 15
}

// CompressWeight applies the legacy compression to one vote count:
// max(vote >> bitsToDrop, 1).
func CompressWeight(votes uint64, bitsToDrop uint) uint16 {
	w := votes >> bitsToDrop
	if w == 0 {
		w = 1
	}
	if w > 0xffff {
		w = 0xffff
	}
	return uint16(w)
}

// LegacyBuild sums winners' raw vote weights, computes bits_to_drop
// over that sum (discarded after use, kept only for binary
// equivalence per §9's open question), compresses every winner's
// weight, and sets threshold = floor(sum_of_weights/2)+1.
func LegacyBuild(winners []objectstore.ID, votesOf func(objectstore.ID) uint64) chainmodel.Authority {
	var total uint64
	for _, w := range winners {
		total += votesOf(w)
	}
	bitsToDrop := BitsToDrop(total)

	entries := make([]chainmodel.AuthorityEntry, 0, len(winners))
	var sumWeights uint32
	for _, w := range winners {
		weight := CompressWeight(votesOf(w), bitsToDrop)
		entries = append(entries, chainmodel.AuthorityEntry{Account: w, Weight: weight})
		sumWeights += uint32(weight)
	}
	return chainmodel.Authority{
		Threshold: sumWeights/2 + 1,
		Entries:   entries,
	}
}

// Counter is the modern vote_counter abstraction: it folds duplicate
// accounts (an account may appear more than once, e.g. as both a top-N
// holder and an election winner in callers that share one counter) and
// finalizes the compression and threshold in a single step.
type Counter struct {
	total   uint64
	weights map[objectstore.ID]uint64
	order   []objectstore.ID
}

// New constructs an empty modern vote counter.
func New() *Counter {
	return &Counter{weights: make(map[objectstore.ID]uint64)}
}

// Add folds votes into account's running weight.
func (c *Counter) Add(account objectstore.ID, votes uint64) {
	if _, ok := c.weights[account]; !ok {
		c.order = append(c.order, account)
	}
	c.weights[account] += votes
	c.total += votes
}

// Finalize applies the 16-bit compression and returns the resulting
// authority with its threshold, in insertion order.
func (c *Counter) Finalize() chainmodel.Authority {
	bitsToDrop := BitsToDrop(c.total)
	entries := make([]chainmodel.AuthorityEntry, 0, len(c.order))
	var sumWeights uint32
	for _, acct := range c.order {
		weight := CompressWeight(c.weights[acct], bitsToDrop)
		entries = append(entries, chainmodel.AuthorityEntry{Account: acct, Weight: weight})
		sumWeights += uint32(weight)
	}
	return chainmodel.Authority{
		Threshold: sumWeights/2 + 1,
		Entries:   entries,
	}
}
