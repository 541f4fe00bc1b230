package bonus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crashoveride1/blockchain/chainmodel"
	"github.com/crashoveride1/blockchain/evaluator"
	"github.com/crashoveride1/blockchain/maint/bonus/referral"
	"github.com/crashoveride1/blockchain/objectstore"
	"github.com/crashoveride1/blockchain/objectstore/memstore"
)

type capturingEvaluator struct{ ops []interface{} }

func (c *capturingEvaluator) ApplyOperation(_ *evaluator.EvalState, op interface{}) error {
	c.ops = append(c.ops, op)
	return nil
}

func TestIssueAssetBonusMaturingBalanceDefersCredit(t *testing.T) {
	// Scenario 5 of spec.md §8: maturing_bonus_balance, bonus_percent=1%,
	// balance 10000 -> no daily_issue op, bonus_balances += 100.
	store := memstore.New()
	assetID := objectstore.ID{Instance: 1}
	account := objectstore.ID{Instance: 2}
	asset := &chainmodel.Asset{ID: assetID, Params: chainmodel.AssetParameters{DailyBonus: true, BonusPercent: 100, MaturingBonusBalance: true}}

	assetDynID := store.Create(chainmodel.SpaceAsset, chainmodel.TypeDefault, func(id objectstore.ID) interface{} {
		return &chainmodel.AssetDynamicData{ID: id, Asset: assetID, BonusBalances: map[objectstore.ID]uint64{}}
	})

	eval := &capturingEvaluator{}
	issued := IssueAssetBonus(store, eval, assetID, assetDynID, asset, func(objectstore.ID) []Balance {
		return []Balance{{Account: account, Balance: 10_000}}
	}, Blacklists{}, RegimeCurrent, nil)

	require.Empty(t, eval.ops)
	require.Equal(t, uint64(100), issued[account])

	raw, _ := store.Get(assetDynID)
	require.Equal(t, uint64(100), raw.(*chainmodel.AssetDynamicData).BonusBalances[account])
}

func TestIssueAssetBonusSkipsBlacklistedAccounts(t *testing.T) {
	store := memstore.New()
	assetID := objectstore.ID{Instance: 1}
	assetDynID := assetID
	account := objectstore.ID{Instance: 2}
	asset := &chainmodel.Asset{ID: assetID, Params: chainmodel.AssetParameters{DailyBonus: true, BonusPercent: 5000}}

	eval := &capturingEvaluator{}
	issued := IssueAssetBonus(store, eval, assetID, assetDynID, asset, func(objectstore.ID) []Balance {
		return []Balance{{Account: account, Balance: 1000}}
	}, Blacklists{Global: map[objectstore.ID]bool{account: true}}, RegimeCurrent, nil)

	require.Empty(t, issued)
	require.Empty(t, eval.ops)
}

func TestIssueReferralsComputesReferrerCut(t *testing.T) {
	store := memstore.New()
	assetID := objectstore.ID{Instance: 1}
	referrer := objectstore.ID{Instance: 10}
	referee := objectstore.ID{Instance: 11}

	eval := &capturingEvaluator{}
	nodes := []referral.Node{{Account: referee, Referrer: referrer, RewardPercent: 1000}} // 10%
	issued := map[objectstore.ID]uint64{referee: 200}

	IssueReferrals(store, eval, assetID, nodes, issued, RegimeCurrent, nil)

	require.Len(t, eval.ops, 1)
	award := eval.ops[0].(evaluator.ReferralIssue)
	require.Equal(t, referrer, award.Referrer)
	require.Equal(t, uint64(20), award.Amount)
}

func TestIssueReferralsPropagatesUpMultipleLevels(t *testing.T) {
	store := memstore.New()
	assetID := objectstore.ID{Instance: 1}
	grandReferrer := objectstore.ID{Instance: 9}
	referrer := objectstore.ID{Instance: 10}
	referee := objectstore.ID{Instance: 11}

	eval := &capturingEvaluator{}
	nodes := []referral.Node{
		{Account: referee, Referrer: referrer, RewardPercent: 1000},      // 10%
		{Account: referrer, Referrer: grandReferrer, RewardPercent: 1000}, // 10%
	}
	issued := map[objectstore.ID]uint64{referee: 200}

	IssueReferrals(store, eval, assetID, nodes, issued, RegimeCurrent, nil)

	require.Len(t, eval.ops, 2)
	byReferrer := map[objectstore.ID]uint64{}
	for _, op := range eval.ops {
		award := op.(evaluator.ReferralIssue)
		require.Equal(t, referee, award.Referee)
		byReferrer[award.Referrer] = award.Amount
	}
	// Direct referrer (rank 1) earns the full 10% cut; the grand-referrer
	// (rank 2) earns half of what the same percentage would pay at rank 1.
	require.Equal(t, uint64(20), byReferrer[referrer])
	require.Equal(t, uint64(10), byReferrer[grandReferrer])
}
