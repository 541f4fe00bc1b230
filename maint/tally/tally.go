// Package tally implements §4.C and §4.D: the single account-index
// traversal that attributes weighted stake to vote ids and two size
// histograms, folding in per-account fee statistics along the way.
package tally

import (
	"github.com/crashoveride1/blockchain/chainmodel"
	"github.com/crashoveride1/blockchain/maint/scratch"
	"github.com/crashoveride1/blockchain/objectstore"
)

// Run walks every account in name order, attributing its stake to its
// opinion account's votes and preferred committee sizes, and folds its
// accumulated fees into its statistics object in the same pass.
func Run(store objectstore.Store, buf *scratch.Buffers, countNonMemberVotes bool, maxWitness, maxCommittee uint16, isMember func(acct *chainmodel.Account) bool) {
	store.Iterate(chainmodel.SpaceAccount, chainmodel.TypeDefault, objectstore.ByName, func(id objectstore.ID, obj interface{}) bool {
		acct := obj.(*chainmodel.Account)
		tallyOne(store, buf, acct, countNonMemberVotes, maxWitness, maxCommittee, isMember)
		processFees(store, acct)
		return true
	})
}

func resolveOpinionAccount(store objectstore.Store, acct *chainmodel.Account) *chainmodel.Account {
	if acct.Options.VotingAccount.Zero() {
		return acct
	}
	raw, ok := store.Get(acct.Options.VotingAccount)
	if !ok {
		return acct
	}
	// Single hop only: a proxy pointing at another proxy is not chased.
	return raw.(*chainmodel.Account)
}

func votingStake(store objectstore.Store, acct *chainmodel.Account) uint64 {
	stake := acct.TotalCoreInOrders
	if !acct.CashbackVB.Zero() {
		if raw, ok := store.Get(acct.CashbackVB); ok {
			if vb, ok := raw.(*chainmodel.Account); ok {
				stake += uint64(vb.CoreBalance)
			}
		}
	}
	if acct.CoreBalance > 0 {
		stake += uint64(acct.CoreBalance)
	}
	return stake
}

func tallyOne(store objectstore.Store, buf *scratch.Buffers, acct *chainmodel.Account, countNonMemberVotes bool, maxWitness, maxCommittee uint16, isMember func(*chainmodel.Account) bool) {
	if !countNonMemberVotes && !isMember(acct) {
		return
	}
	opinion := resolveOpinionAccount(store, acct)
	stake := votingStake(store, acct)

	for _, voteID := range opinion.Options.Votes {
		buf.AddVote(uint32(voteID.Instance), stake)
	}

	if opinion.Options.NumWitness <= maxWitness {
		offset := int(opinion.Options.NumWitness) / 2
		if offset > len(buf.WitnessCountHistogram)-1 {
			offset = len(buf.WitnessCountHistogram) - 1
		}
		if offset >= 0 {
			buf.WitnessCountHistogram[offset] += stake
		}
	}
	if opinion.Options.NumCommittee <= maxCommittee {
		offset := int(opinion.Options.NumCommittee) / 2
		if offset > len(buf.CommitteeCountHistogram)-1 {
			offset = len(buf.CommitteeCountHistogram) - 1
		}
		if offset >= 0 {
			buf.CommitteeCountHistogram[offset] += stake
		}
	}

	buf.TotalVotingStake += stake
}

func processFees(store objectstore.Store, acct *chainmodel.Account) {
	if acct.Statistics.Zero() {
		return
	}
	_ = store.Modify(acct.Statistics, func(obj interface{}) {
		stats := obj.(*chainmodel.AccountStatistics)
		stats.LifetimeFeesPaid += stats.PendingFees
		stats.PendingFees = 0
	})
}
