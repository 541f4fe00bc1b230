// Package election implements §4.F: producer election, shared between
// witnesses and committee members. Both paths walk their own size
// histogram but always exclude bucket zero of the *witness* histogram
// from the stake-target denominator — an intentional latent bug in the
// source that consensus compatibility requires preserving, not fixing.
package election

import (
	"sort"

	"github.com/crashoveride1/blockchain/chainmodel"
	"github.com/crashoveride1/blockchain/maint/election/votecounter"
	"github.com/crashoveride1/blockchain/maint/scratch"
	"github.com/crashoveride1/blockchain/objectstore"
	"github.com/crashoveride1/blockchain/pkg/chainerr"
)

// Candidate is one votable producer record: a witness or committee
// member along with the vote-id instance the tally buffer attributed
// stake to.
type Candidate struct {
	ID         objectstore.ID
	VoteID     objectstore.ID
	TotalVotes uint64 // filled in from the tally buffer before sorting
}

// SortVotable sorts candidates by (-votes, id) ascending id tie-break
// and returns the top count. If count exceeds len(candidates), the
// result is padded by repeating the highest-ranked candidate — the
// source's refs.resize(count, refs.front()) quirk. candidates must be
// non-empty if count > 0; that precondition is the caller's
// responsibility per §9.
func SortVotable(candidates []Candidate, count int) []Candidate {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].TotalVotes != candidates[j].TotalVotes {
			return candidates[i].TotalVotes > candidates[j].TotalVotes
		}
		return candidates[i].ID.Instance < candidates[j].ID.Instance
	})
	if count <= len(candidates) {
		out := make([]Candidate, count)
		copy(out, candidates[:count])
		return out
	}
	out := make([]Candidate, count)
	copy(out, candidates)
	if len(candidates) == 0 {
		return out // caller violated the precondition; zero-value pad
	}
	front := candidates[0]
	for i := len(candidates); i < count; i++ {
		out[i] = front
	}
	return out
}

// DesiredCount walks histogram from index 1 upward accumulating stake
// until the running sum exceeds target, then returns
// max(2k+1, minCount) where k is the last index reached. A zero target
// skips the walk, so k is 0 and the result is max(1, minCount).
func DesiredCount(histogram []uint64, target uint64, minCount uint32) int {
	var sum uint64
	k := 0
	if target > 0 {
		for i := 1; i < len(histogram); i++ {
			sum += histogram[i]
			k = i
			if sum > target {
				break
			}
		}
	}
	desired := 2*k + 1
	if desired < int(minCount) {
		desired = int(minCount)
	}
	return desired
}

// StakeTarget computes (total_voting_stake - witnessHistogram[0]) / 2.
// Both the witness and the committee path call this with the *witness*
// histogram's bucket zero, by design (§4.F.1, §9).
func StakeTarget(totalVotingStake uint64, witnessHistogram []uint64) uint64 {
	bucket0 := uint64(0)
	if len(witnessHistogram) > 0 {
		bucket0 = witnessHistogram[0]
	}
	if totalVotingStake < bucket0 {
		return 0
	}
	return (totalVotingStake - bucket0) / 2
}

// Result is the outcome of one election run.
type Result struct {
	Winners   []objectstore.ID
	Authority chainmodel.Authority
}

// WriteBackVotes persists TotalVotes onto every candidate record,
// winners and losers alike, per §4.F.5.
func WriteBackVotes(candidates []Candidate, setter func(id objectstore.ID, votes uint64)) {
	for _, c := range candidates {
		setter(c.ID, c.TotalVotes)
	}
}

// Elect runs steps 1-4 and 6 of §4.F for one role; step 5, writing
// TotalVotes back onto the candidate records, is WriteBackVotes, which
// the caller invokes separately. histogram is that role's
// own count histogram; witnessHistogram is always the witness
// histogram, used only for StakeTarget. candidates must already carry
// TotalVotes looked up from the tally buffer. legacyAuthority selects
// the hardfork-gated authority builder.
func Elect(buf *scratch.Buffers, histogram, witnessHistogram []uint64, minCount uint32, candidates []Candidate, legacyAuthority bool) (Result, error) {
	if len(candidates) == 0 {
		return Result{}, chainerr.Fatalf("election: candidate histogram is empty")
	}
	target := StakeTarget(buf.TotalVotingStake, witnessHistogram)
	desired := DesiredCount(histogram, target, minCount)

	winners := SortVotable(candidates, desired)

	winnerIDs := make([]objectstore.ID, len(winners))
	votesByID := make(map[objectstore.ID]uint64, len(winners))
	for i, w := range winners {
		winnerIDs[i] = w.ID
		votesByID[w.ID] = w.TotalVotes
	}

	var authority chainmodel.Authority
	if legacyAuthority {
		authority = votecounter.LegacyBuild(winnerIDs, func(id objectstore.ID) uint64 { return votesByID[id] })
	} else {
		vc := votecounter.New()
		for _, w := range winners {
			vc.Add(w.ID, w.TotalVotes)
		}
		authority = vc.Finalize()
	}

	return Result{Winners: winnerIDs, Authority: authority}, nil
}
