// Package maint is the maintenance driver: it runs components A
// through M of SPEC_FULL §4 in fixed order against one database
// snapshot, owning the per-call scratch buffers with guaranteed release
// on every exit path.
package maint

import (
	"time"

	"github.com/crashoveride1/blockchain/chainmodel"
	"github.com/crashoveride1/blockchain/config"
	"github.com/crashoveride1/blockchain/evaluator"
	"github.com/crashoveride1/blockchain/maint/accumulator"
	"github.com/crashoveride1/blockchain/maint/bonus"
	"github.com/crashoveride1/blockchain/maint/bonus/referral"
	"github.com/crashoveride1/blockchain/maint/budget"
	"github.com/crashoveride1/blockchain/maint/buyback"
	"github.com/crashoveride1/blockchain/maint/election"
	"github.com/crashoveride1/blockchain/maint/funds"
	"github.com/crashoveride1/blockchain/maint/history"
	"github.com/crashoveride1/blockchain/maint/membership"
	"github.com/crashoveride1/blockchain/maint/payroll"
	"github.com/crashoveride1/blockchain/maint/rollover"
	"github.com/crashoveride1/blockchain/maint/schedule"
	"github.com/crashoveride1/blockchain/maint/scratch"
	"github.com/crashoveride1/blockchain/maint/tally"
	"github.com/crashoveride1/blockchain/maint/topn"
	"github.com/crashoveride1/blockchain/objectstore"
	"github.com/crashoveride1/blockchain/pkg/chainerr"
)

// Singletons names the fixed-id singleton objects maintenance reads and
// writes every call.
type Singletons struct {
	GlobalProperties        objectstore.ID
	DynamicGlobalProperties objectstore.ID
	CoreAsset               objectstore.ID
	CoreAssetDynamicData    objectstore.ID
}

// Lists are the enumerable inputs the driver needs that a real
// deployment would obtain from the relevant secondary index; tests and
// callers supply them directly.
type Lists struct {
	FBAAccumulators   []objectstore.ID
	BuybackAssets     []objectstore.ID
	TopNAccounts      []objectstore.ID
	Witnesses         []objectstore.ID
	CommitteeMembers  []objectstore.ID
	Workers           []objectstore.ID
	Funds             []objectstore.ID
	Cheques           []objectstore.ID
	AnnualMembers     []objectstore.ID
	BonusAssets       []objectstore.ID
	ReferralNodes     []referral.Node
}

// Deps bundles every external collaborator and policy callback the
// driver needs beyond the object store and evaluator.
type Deps struct {
	Eval          evaluator.Evaluator
	BuybackBalances buyback.BalanceLister
	OrderStillOpen  buyback.OrderStillOpen
	IsMember        func(acct *chainmodel.Account) bool
	VotesForVoteID  func(voteID objectstore.ID) uint64 // resolves a vote id to its tallied stake
	TopNHolders     topn.HolderLister
	WitnessVotes    []election.Candidate // populated by caller from the witness index, TotalVotes left zero
	CommitteeVotes  []election.Candidate
	RelaxedCommittee objectstore.ID
	WorkerPayout    payroll.PayoutFunc
	FundProcessor   funds.Processor
	BonusBalances   bonus.BalanceLister
	Blacklists      map[objectstore.ID]bonus.Blacklists // keyed by asset id
	OnlineFraction  bonus.OnlineFraction
	RecentTransfer  bonus.RecentTransfer
	MatureOne       func(store objectstore.Store, account objectstore.ID) error
	CoreReserved    uint64
	BlockNumber     uint64
	AccountsOnline  map[objectstore.ID]uint16 // backing map for OnlineFraction, cleared from Hardfork618 onward
}

// Run executes components A-M against store in fixed order. now is the
// timestamp of the block that triggered maintenance.
func Run(store objectstore.Store, params config.Parameters, upgrades *config.Upgrades, now time.Time, s Singletons, l Lists, d Deps) error {
	gpRaw, ok := store.Get(s.GlobalProperties)
	if !ok {
		return chainerr.Fatalf("maint: global properties singleton missing")
	}
	gp := gpRaw.(*chainmodel.GlobalProperties)

	dgpRaw, ok := store.Get(s.DynamicGlobalProperties)
	if !ok {
		return chainerr.Fatalf("maint: dynamic global properties singleton missing")
	}
	dgp := dgpRaw.(*chainmodel.DynamicGlobalProperties)

	buf := scratch.Acquire(gp.NextAvailableVoteID, len(d.WitnessVotes)/2+2, len(d.CommitteeVotes)/2+2)
	defer buf.Release()

	// A. Accumulator distribution.
	if err := accumulator.Distribute(store, d.Eval, l.FBAAccumulators, params.FBASplit, s.CoreAsset, s.CoreAssetDynamicData); err != nil {
		return err
	}

	// B. Buyback order synthesis.
	buyback.CreateOrders(store, d.Eval, l.BuybackAssets, d.BuybackBalances, d.OrderStillOpen)

	// C+D. Vote tally and fee processing, single account-index pass.
	tally.Run(store, buf, params.CountNonMemberVotes, uint16(params.MaximumWitnessCount), uint16(params.MaximumCommitteeCount), d.IsMember)

	// E. Top-N authority refresh.
	for _, acctID := range l.TopNAccounts {
		refreshTopN(store, acctID, d.TopNHolders)
	}

	// F. Producer election (witnesses, then committee).
	legacy := upgrades == nil || upgrades.IsPre(config.Hardfork533, now)
	witnessCandidates := withTallyVotes(d.WitnessVotes, buf.VoteTally)
	witnessResult, err := election.Elect(buf, buf.WitnessCountHistogram, buf.WitnessCountHistogram, params.MinWitnessCount, witnessCandidates, legacy)
	if err != nil {
		return err
	}
	election.WriteBackVotes(witnessCandidates, func(id objectstore.ID, votes uint64) {
		_ = store.Modify(id, func(obj interface{}) { obj.(*chainmodel.Witness).TotalVotes = votes })
	})

	committeeCandidates := withTallyVotes(d.CommitteeVotes, buf.VoteTally)
	committeeResult, err := election.Elect(buf, buf.CommitteeCountHistogram, buf.WitnessCountHistogram, params.MinCommitteeMemberCount, committeeCandidates, legacy)
	if err != nil {
		return err
	}
	election.WriteBackVotes(committeeCandidates, func(id objectstore.ID, votes uint64) {
		_ = store.Modify(id, func(obj interface{}) { obj.(*chainmodel.CommitteeMember).TotalVotes = votes })
	})
	if err := store.Modify(s.GlobalProperties, func(obj interface{}) {
		g := obj.(*chainmodel.GlobalProperties)
		g.ActiveWitnesses = witnessResult.Winners
		g.ActiveCommitteeMembers = committeeResult.Winners
	}); err != nil {
		return chainerr.Fatal(err, "maint: write active producer sets")
	}
	if !d.RelaxedCommittee.Zero() {
		if err := store.Modify(d.RelaxedCommittee, func(obj interface{}) {
			obj.(*chainmodel.Account).Active = committeeResult.Authority
		}); err != nil {
			return chainerr.Fatal(err, "maint: mirror relaxed committee authority")
		}
	}

	// G. Worker-vote refresh: write each worker's approving-stake total
	// back here; the workers are paid later, as part of the budget in J.
	payroll.WriteBackVotes(store, l.Workers, d.VotesForVoteID)

	// H. Parameter rollover.
	if err := rollover.Run(store, s.GlobalProperties, dgp.AccountsRegisteredThisInterval, params.AccountsPerFeeScale, params.AccountFeeScaleBitshift); err != nil {
		return err
	}

	// I. Maintenance-time advance.
	nextMaint := schedule.Advance(d.BlockNumber, dgp.HeadBlockTime, dgp.NextMaintenanceTime, params.MaintenanceInterval, upgrades)
	if !nextMaint.After(dgp.HeadBlockTime) {
		return chainerr.Fatalf("maint: next_maintenance_time_new must be after head_block_time")
	}

	// Annual-member deprecation runs exactly once, on the interval whose
	// advance crosses Hardfork613, not on every interval after it
	// (SPEC_FULL §5).
	if upgrades != nil && upgrades.Crossed(config.Hardfork613, dgp.NextMaintenanceTime, nextMaint) {
		membership.DeprecateAnnualMembers(store, d.Eval, l.AnnualMembers, now)
	}

	if err := store.Modify(s.DynamicGlobalProperties, func(obj interface{}) {
		d := obj.(*chainmodel.DynamicGlobalProperties)
		d.NextMaintenanceTime = nextMaint
		d.AccountsRegisteredThisInterval = 0
	}); err != nil {
		return chainerr.Fatal(err, "maint: advance maintenance time")
	}

	// J. Budget process.
	coreDynRaw, ok := store.Get(s.CoreAssetDynamicData)
	if !ok {
		return chainerr.Fatalf("maint: core asset dynamic data missing")
	}
	coreDyn := coreDynRaw.(*chainmodel.AssetDynamicData)
	workers := make([]*chainmodel.Worker, 0, len(l.Workers))
	for _, id := range l.Workers {
		if raw, ok := store.Get(id); ok {
			workers = append(workers, raw.(*chainmodel.Worker))
		}
	}
	_, err = budget.Run(store, s.CoreAsset, s.CoreAssetDynamicData, s.DynamicGlobalProperties, budget.Params{
		CoreAssetCycleRate:     params.CoreAssetCycleRate,
		CoreAssetCycleRateBits: params.CoreAssetCycleRateBits,
		BlockInterval:          params.BlockInterval,
		WitnessPayPerBlock:     params.WitnessPayPerBlock,
		WorkerBudgetPerDay:     params.WorkerBudgetPerDay,
	}, budget.Inputs{
		Now:                 now,
		LastBudgetTime:      dgp.LastBudgetTime,
		NextMaintenanceTime: nextMaint,
		CoreReserved:        d.CoreReserved,
		AccumulatedFees:     coreDyn.AccumulatedFees,
		PriorWitnessBudget:  dgp.WitnessBudget,
	}, workers, d.WorkerPayout)
	if err != nil {
		return err
	}

	// K. Fund / cheque lifecycle.
	if upgrades == nil || upgrades.IsPost(config.Hardfork622, now) {
		funds.AdvanceFunds(store, d.FundProcessor, l.Funds, now, nextMaint, params.MaintenanceInterval)
	}
	funds.ExpireCheques(store, d.Eval, l.Cheques, nextMaint, params.MaintenanceInterval)

	// L. Daily issuance.
	if err := runBonusPass(store, d.Eval, upgrades, now, l, d); err != nil {
		return err
	}

	// M. History pruning.
	if err := history.PruneAll(store, now, params.HistoryRetention); err != nil {
		return err
	}
	if upgrades != nil && upgrades.IsPost(config.Hardfork618, now) {
		history.ClearAccountsOnline(d.AccountsOnline)
	}

	return nil
}

func refreshTopN(store objectstore.Store, acctID objectstore.ID, holders topn.HolderLister) {
	raw, ok := store.Get(acctID)
	if !ok {
		return
	}
	acct := raw.(*chainmodel.Account)
	refreshOne := func(sa chainmodel.SpecialAuthority, set func(chainmodel.Authority)) uint8 {
		if sa.Kind != chainmodel.SpecialAuthorityTopHolders {
			return 0
		}
		authority, nonEmpty := topn.Rebuild(acctID, sa, holders)
		set(authority)
		if nonEmpty {
			return 1
		}
		return 0
	}
	var flags uint8
	_ = store.Modify(acctID, func(obj interface{}) {
		a := obj.(*chainmodel.Account)
		flags |= refreshOne(acct.OwnerSpecial, func(auth chainmodel.Authority) { a.Owner = auth }) << 0
		flags |= refreshOne(acct.ActiveSpecial, func(auth chainmodel.Authority) { a.Active = auth }) << 1
		a.TopNControlFlags = flags
	})
}

func withTallyVotes(candidates []election.Candidate, tallyBuffer []uint64) []election.Candidate {
	out := make([]election.Candidate, len(candidates))
	for i, c := range candidates {
		c.TotalVotes = tallyLookup(tallyBuffer, c.VoteID)
		out[i] = c
	}
	return out
}

func tallyLookup(tallyBuffer []uint64, voteID objectstore.ID) uint64 {
	if int(voteID.Instance) >= len(tallyBuffer) {
		return 0
	}
	return tallyBuffer[voteID.Instance]
}

func runBonusPass(store objectstore.Store, eval evaluator.Evaluator, upgrades *config.Upgrades, now time.Time, l Lists, d Deps) error {
	regime := bonus.RegimeCurrent
	if upgrades != nil {
		if upgrades.IsPre(config.Hardfork617, now) {
			regime = bonus.RegimeOld
		} else if upgrades.IsPre(config.Hardfork620, now) {
			regime = bonus.RegimeBefore620
		}
	}

	atHF616 := upgrades != nil && upgrades.AtExactly(config.Hardfork616MaintenanceChange, now)
	if err := bonus.MatureBalances(store, accountsOf(l.ReferralNodes), atHF616, d.MatureOne); err != nil {
		return err
	}

	online := d.OnlineFraction
	if regime == bonus.RegimeCurrent {
		online = nil
	}

	for _, assetID := range l.BonusAssets {
		raw, ok := store.Get(assetID)
		if !ok {
			continue
		}
		asset := raw.(*chainmodel.Asset)
		if asset.IsCore {
			continue
		}
		assetDynID := assetID // caller is expected to key dynamic data by the same id in test doubles
		issued := bonus.IssueAssetBonus(store, eval, assetID, assetDynID, asset, d.BonusBalances, d.Blacklists[assetID], regime, online)
		bonus.IssueReferrals(store, eval, assetID, l.ReferralNodes, issued, regime, d.RecentTransfer)
		if asset.Params.MaturingBonusBalance {
			if err := bonus.ProcessBonusBalances(store, assetDynID, assetID); err != nil {
				return err
			}
		}
	}
	return nil
}

func accountsOf(nodes []referral.Node) []objectstore.ID {
	out := make([]objectstore.ID, len(nodes))
	for i, n := range nodes {
		out[i] = n.Account
	}
	return out
}
