package accumulator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crashoveride1/blockchain/chainmodel"
	"github.com/crashoveride1/blockchain/config"
	"github.com/crashoveride1/blockchain/evaluator"
	"github.com/crashoveride1/blockchain/objectstore"
	"github.com/crashoveride1/blockchain/objectstore/memstore"
)

type noopEvaluator struct{}

func (noopEvaluator) ApplyOperation(*evaluator.EvalState, interface{}) error { return nil }

func TestDistributeSplitsFBABalance(t *testing.T) {
	// Scenario 3 of spec.md §8: balance 1000, splits 20/60/20.
	store := memstore.New()
	coreAsset := objectstore.ID{Space: chainmodel.SpaceAsset, Instance: 0}
	issuer := objectstore.ID{Space: chainmodel.SpaceAccount, Instance: 1}
	buyback := objectstore.ID{Space: chainmodel.SpaceAccount, Instance: 2}

	coreAssetDynID := store.Create(chainmodel.SpaceAsset, chainmodel.TypeDefault, func(id objectstore.ID) interface{} {
		return &chainmodel.AssetDynamicData{ID: id, Asset: coreAsset, CurrentSupply: 10_000}
	})
	assetID := store.Create(chainmodel.SpaceAsset, chainmodel.TypeDefault, func(id objectstore.ID) interface{} {
		return &chainmodel.Asset{ID: id, Issuer: issuer, BuybackAccount: buyback}
	})
	accID := store.Create(chainmodel.SpaceAccumulator, chainmodel.TypeDefault, func(id objectstore.ID) interface{} {
		return &chainmodel.FBAAccumulator{ID: id, AccumulatedFBAFees: 1000, DesignatedAsset: assetID}
	})

	err := Distribute(store, noopEvaluator{}, []objectstore.ID{accID}, config.FBASplitPercentages{
		Network: 6000, Buyback: 2000, Issuer: 2000,
	}, coreAsset, coreAssetDynID)
	require.NoError(t, err)

	raw, _ := store.Get(accID)
	acc := raw.(*chainmodel.FBAAccumulator)
	require.Equal(t, uint64(0), acc.AccumulatedFBAFees)
	require.Equal(t, int64(200), store.Balance(buyback, coreAsset))
	require.Equal(t, int64(200), store.Balance(issuer, coreAsset))

	dynRaw, _ := store.Get(coreAssetDynID)
	// Only the 600-unit network share is burned from supply; the
	// buyback/issuer shares are credited to live accounts, not burned.
	require.Equal(t, int64(9400), dynRaw.(*chainmodel.AssetDynamicData).CurrentSupply)
}

func TestDistributeBurnsUnconfiguredAccumulator(t *testing.T) {
	store := memstore.New()
	coreAsset := objectstore.ID{Space: chainmodel.SpaceAsset, Instance: 0}
	coreAssetDynID := store.Create(chainmodel.SpaceAsset, chainmodel.TypeDefault, func(id objectstore.ID) interface{} {
		return &chainmodel.AssetDynamicData{ID: id, Asset: coreAsset, CurrentSupply: 10_000}
	})
	accID := store.Create(chainmodel.SpaceAccumulator, chainmodel.TypeDefault, func(id objectstore.ID) interface{} {
		return &chainmodel.FBAAccumulator{ID: id, AccumulatedFBAFees: 500}
	})

	err := Distribute(store, noopEvaluator{}, []objectstore.ID{accID}, config.FBASplitPercentages{
		Network: 6000, Buyback: 2000, Issuer: 2000,
	}, coreAsset, coreAssetDynID)
	require.NoError(t, err)

	raw, _ := store.Get(accID)
	require.Equal(t, uint64(0), raw.(*chainmodel.FBAAccumulator).AccumulatedFBAFees)

	dynRaw, _ := store.Get(coreAssetDynID)
	require.Equal(t, int64(9500), dynRaw.(*chainmodel.AssetDynamicData).CurrentSupply)
}

func TestValidateSplitRejectsBadTotal(t *testing.T) {
	store := memstore.New()
	err := Distribute(store, noopEvaluator{}, nil, config.FBASplitPercentages{
		Network: 100, Buyback: 100, Issuer: 100,
	}, objectstore.ID{}, objectstore.ID{})
	require.Error(t, err)
}
