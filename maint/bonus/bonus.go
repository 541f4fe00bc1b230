// Package bonus implements §4.L: the daily issuance ("bonus") pass,
// across the three hardfork-gated regimes SPEC_FULL §5 restores from
// original_source, with referral propagation.
package bonus

import (
	"time"

	"github.com/crashoveride1/blockchain/chainmodel"
	"github.com/crashoveride1/blockchain/evaluator"
	"github.com/crashoveride1/blockchain/maint/bonus/referral"
	"github.com/crashoveride1/blockchain/objectstore"
	"github.com/crashoveride1/blockchain/pkg/chainerr"
	"github.com/crashoveride1/blockchain/pkg/log"
)

// Balance is one account's bonus-eligible balance of an asset.
type Balance struct {
	Account objectstore.ID
	Balance uint64
}

// BalanceLister enumerates bonus-eligible balances of asset.
type BalanceLister func(asset objectstore.ID) []Balance

// Blacklists are the issuer's and the global blacklist checked per
// §4.L.2.
type Blacklists struct {
	Global map[objectstore.ID]bool
	Issuer map[objectstore.ID]bool
}

func (b Blacklists) blocked(account objectstore.ID) bool {
	return b.Global[account] || b.Issuer[account]
}

// OnlineFraction returns an account's "minutes online today" fraction
// as minutes-of-1440, for the pre-620 regimes' online gating. The
// modern regime passes nil and every account is treated as fully
// online.
type OnlineFraction func(account objectstore.ID) uint16

// RecentTransfer reports whether account moved at least one unit of
// asset in the last 24 hours, the referral-eligibility gate of the
// oldest (pre-Hardfork617) regime.
type RecentTransfer func(account, asset objectstore.ID, within time.Duration) bool

// MatureBalances rolls per-block mining accruals into matured buckets
// ahead of the bonus pass. It is skipped on the exact
// Hardfork616MaintenanceChange block, matching the original's one-block
// maintenance-time patch interaction.
func MatureBalances(store objectstore.Store, accounts []objectstore.ID, atHardfork616Block bool, mature func(store objectstore.Store, account objectstore.ID) error) error {
	if atHardfork616Block {
		return nil
	}
	for _, id := range accounts {
		if err := mature(store, id); err != nil {
			return chainerr.Fatal(err, "bonus: mature balances")
		}
	}
	return nil
}

// Regime selects which hardfork-gated eligibility rules apply.
type Regime int

const (
	RegimeCurrent     Regime = iota // post-Hardfork620
	RegimeBefore620                 // Hardfork617..Hardfork620
	RegimeOld                       // pre-Hardfork617
)

// IssueAssetBonus runs §4.L.2 for one non-core asset, returning the
// per-account amounts actually credited (for referral.Scan and for
// deferred bonus-balance processing).
func IssueAssetBonus(
	store objectstore.Store,
	eval evaluator.Evaluator,
	assetID objectstore.ID,
	assetDynID objectstore.ID,
	asset *chainmodel.Asset,
	listBalances BalanceLister,
	blacklists Blacklists,
	regime Regime,
	online OnlineFraction,
) map[objectstore.ID]uint64 {
	if !asset.Params.DailyBonus || asset.Params.BonusPercent == 0 {
		return nil
	}
	state := &evaluator.EvalState{Store: store}
	issued := make(map[objectstore.ID]uint64)

	for _, bal := range listBalances(assetID) {
		if blacklists.blocked(bal.Account) {
			continue
		}
		quantity := uint64(bal.Balance) * uint64(asset.Params.BonusPercent) / 10000
		if regime != RegimeCurrent && online != nil {
			frac := online(bal.Account)
			quantity = quantity * uint64(frac) / 1440
		}
		if quantity < 1 {
			continue
		}

		if asset.Params.MaturingBonusBalance {
			if err := store.Modify(assetDynID, func(obj interface{}) {
				dd := obj.(*chainmodel.AssetDynamicData)
				if dd.BonusBalances == nil {
					dd.BonusBalances = make(map[objectstore.ID]uint64)
				}
				dd.BonusBalances[bal.Account] += quantity
			}); err != nil {
				log.S().Warnw("bonus: credit maturing balance failed", "account", bal.Account.String(), "err", err)
				continue
			}
		} else {
			if err := eval.ApplyOperation(state, evaluator.DailyIssue{Account: bal.Account, Asset: assetID, Amount: quantity}); err != nil {
				log.S().Warnw("bonus: daily issue failed", "account", bal.Account.String(), "err", chainerr.BestEffort(err))
				continue
			}
		}
		issued[bal.Account] = quantity
	}
	return issued
}

// IssueReferrals computes and emits referral_issue virtual operations
// for every account that received a bonus this pass. In RegimeOld
// (pre-Hardfork617), a referee's bonus only propagates to its referrer
// if recentTransfer reports a qualifying transfer in the last 24 hours;
// the other regimes apply no transfer gate.
func IssueReferrals(
	store objectstore.Store,
	eval evaluator.Evaluator,
	assetID objectstore.ID,
	nodes []referral.Node,
	issued map[objectstore.ID]uint64,
	regime Regime,
	recentTransfer RecentTransfer,
) {
	if len(issued) == 0 {
		return
	}
	nodesByAccount := make(map[objectstore.ID]referral.Node, len(nodes))
	for _, n := range nodes {
		nodesByAccount[n.Account] = n
	}

	filtered := issued
	if regime == RegimeOld && recentTransfer != nil {
		filtered = make(map[objectstore.ID]uint64, len(issued))
		for acct, amount := range issued {
			if recentTransfer(acct, assetID, 24*time.Hour) {
				filtered[acct] = amount
			}
		}
	}

	state := &evaluator.EvalState{Store: store}
	for _, award := range referral.Scan(nodesByAccount, filtered, assetID) {
		if err := eval.ApplyOperation(state, evaluator.ReferralIssue{
			Referrer: award.Referrer, Referee: award.Referee, Asset: award.Asset, Amount: award.Amount,
		}); err != nil {
			log.S().Warnw("bonus: referral issue failed", "referrer", award.Referrer.String(), "err", chainerr.BestEffort(err))
		}
	}
}

// ProcessBonusBalances moves every account's deferred bonus balance
// into a real credited balance and clears the deferred map, per
// §4.L.4.
func ProcessBonusBalances(store objectstore.Store, assetDynID objectstore.ID, assetID objectstore.ID) error {
	raw, ok := store.Get(assetDynID)
	if !ok {
		return chainerr.Fatalf("bonus: no dynamic data %s", assetDynID)
	}
	dd := raw.(*chainmodel.AssetDynamicData)
	for account, amount := range dd.BonusBalances {
		if err := store.AdjustBalance(account, assetID, int64(amount)); err != nil {
			return chainerr.Fatal(err, "bonus: credit deferred balance")
		}
	}
	return store.Modify(assetDynID, func(obj interface{}) {
		obj.(*chainmodel.AssetDynamicData).BonusBalances = make(map[objectstore.ID]uint64)
	})
}
