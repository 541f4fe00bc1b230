// Package accumulator implements §4.A: the three-way split and
// distribution of fee-bucket accumulator (FBA) balances at the start of
// a maintenance interval.
package accumulator

import (
	"github.com/pkg/errors"

	"github.com/crashoveride1/blockchain/chainmodel"
	"github.com/crashoveride1/blockchain/config"
	"github.com/crashoveride1/blockchain/evaluator"
	"github.com/crashoveride1/blockchain/objectstore"
	"github.com/crashoveride1/blockchain/pkg/fixedpoint"
)

// Distribute walks every accumulator id in ids and splits its balance
// per the configured percentages, or burns it whole if the accumulator
// is not fully configured. coreAssetDynID identifies coreAsset's
// dynamic data, whose CurrentSupply every burn path must shrink (§4.A,
// I2/I3).
func Distribute(store objectstore.Store, eval evaluator.Evaluator, ids []objectstore.ID, params config.FBASplitPercentages, coreAsset, coreAssetDynID objectstore.ID) error {
	if err := validateSplit(params); err != nil {
		return err
	}
	state := &evaluator.EvalState{Store: store}
	for _, id := range ids {
		if err := distributeOne(store, eval, state, id, params, coreAsset, coreAssetDynID); err != nil {
			return err
		}
	}
	return nil
}

func validateSplit(p config.FBASplitPercentages) error {
	total := uint32(p.Network) + uint32(p.Buyback) + uint32(p.Issuer)
	if total != 10000 {
		return errors.Errorf("accumulator: split percentages sum to %d, want 10000", total)
	}
	return nil
}

func distributeOne(store objectstore.Store, eval evaluator.Evaluator, state *evaluator.EvalState, id objectstore.ID, params config.FBASplitPercentages, coreAsset, coreAssetDynID objectstore.ID) error {
	raw, ok := store.Get(id)
	if !ok {
		return errors.Errorf("accumulator: no such accumulator %s", id)
	}
	acc := raw.(*chainmodel.FBAAccumulator)
	total := acc.AccumulatedFBAFees
	if total == 0 {
		return nil
	}

	if acc.DesignatedAsset.Zero() {
		if err := burnCoreSupply(store, coreAsset, coreAssetDynID, total); err != nil {
			return err
		}
		return store.Modify(id, func(obj interface{}) {
			obj.(*chainmodel.FBAAccumulator).AccumulatedFBAFees = 0
		})
	}

	assetRaw, ok := store.Get(acc.DesignatedAsset)
	if !ok {
		return errors.Errorf("accumulator: designated asset %s missing", acc.DesignatedAsset)
	}
	asset := assetRaw.(*chainmodel.Asset)
	if asset.BuybackAccount.Zero() {
		if err := burnCoreSupply(store, coreAsset, coreAssetDynID, total); err != nil {
			return err
		}
		return store.Modify(id, func(obj interface{}) {
			obj.(*chainmodel.FBAAccumulator).AccumulatedFBAFees = 0
		})
	}

	buyback := fixedpoint.MulPctFloor(total, params.Buyback)
	issuer := fixedpoint.MulPctFloor(total, params.Issuer)
	if buyback+issuer > total {
		return errors.Errorf("accumulator: buyback+issuer %d exceeds total %d", buyback+issuer, total)
	}
	network := total - buyback - issuer

	if buyback > 0 {
		if err := store.AdjustBalance(asset.BuybackAccount, coreAsset, int64(buyback)); err != nil {
			return err
		}
		if err := eval.ApplyOperation(state, evaluator.FBADistribute{
			Accumulator: id, Recipient: asset.BuybackAccount, Asset: coreAsset, Amount: buyback,
		}); err != nil {
			return err
		}
	}
	if issuer > 0 {
		if err := store.AdjustBalance(asset.Issuer, coreAsset, int64(issuer)); err != nil {
			return err
		}
		if err := eval.ApplyOperation(state, evaluator.FBADistribute{
			Accumulator: id, Recipient: asset.Issuer, Asset: coreAsset, Amount: issuer,
		}); err != nil {
			return err
		}
	}
	if network > 0 {
		if err := burnCoreSupply(store, coreAsset, coreAssetDynID, network); err != nil {
			return err
		}
	}

	return store.Modify(id, func(obj interface{}) {
		obj.(*chainmodel.FBAAccumulator).AccumulatedFBAFees = 0
	})
}

// burnCoreSupply removes amount from circulation: it debits amount from
// the balance ledger under the zero account id (§4.A's "network" burn
// has no holder) and shrinks coreAsset's CurrentSupply, exactly as
// maint/budget.Run reconciles supply deltas.
func burnCoreSupply(store objectstore.Store, coreAsset, coreAssetDynID objectstore.ID, amount uint64) error {
	if err := store.AdjustBalance(objectstore.ID{}, coreAsset, -int64(amount)); err != nil {
		return err
	}
	return store.Modify(coreAssetDynID, func(obj interface{}) {
		obj.(*chainmodel.AssetDynamicData).CurrentSupply -= int64(amount)
	})
}
