// Package scratch holds the per-maintenance scratch buffers of §3:
// process-wide vectors whose lifetime is exactly one maintenance call
// and which must be released on every exit path, success or failure.
package scratch

// Buffers is acquired once at the start of a maintenance call and
// released via Release, which callers invoke with defer immediately
// after acquisition so release happens on every exit path including a
// panic or an early return from a fatal error.
type Buffers struct {
	VoteTally                  []uint64
	WitnessCountHistogram      []uint64
	CommitteeCountHistogram    []uint64
	TotalVotingStake           uint64

	released bool
}

// Acquire allocates scratch buffers sized for nextAvailableVoteID vote
// slots and the given histogram lengths.
func Acquire(nextAvailableVoteID uint32, witnessHistogramLen, committeeHistogramLen int) *Buffers {
	return &Buffers{
		VoteTally:               make([]uint64, nextAvailableVoteID),
		WitnessCountHistogram:   make([]uint64, witnessHistogramLen),
		CommitteeCountHistogram: make([]uint64, committeeHistogramLen),
	}
}

// Release clears every buffer so the next interval begins with fresh
// allocations (§3's scope-bound release invariant, I5). Idempotent.
func (b *Buffers) Release() {
	if b.released {
		return
	}
	b.VoteTally = nil
	b.WitnessCountHistogram = nil
	b.CommitteeCountHistogram = nil
	b.TotalVotingStake = 0
	b.released = true
}

// Empty reports whether every buffer has been released, for I5
// assertions in tests.
func (b *Buffers) Empty() bool {
	return b.released && b.VoteTally == nil && b.WitnessCountHistogram == nil && b.CommitteeCountHistogram == nil && b.TotalVotingStake == 0
}

// AddVote adds stake to the vote tally slot for voteID's instance, if
// in range. Out-of-range instances are silently ignored per §4.C.4.
func (b *Buffers) AddVote(instance uint32, stake uint64) {
	if int(instance) < len(b.VoteTally) {
		b.VoteTally[instance] += stake
	}
}
