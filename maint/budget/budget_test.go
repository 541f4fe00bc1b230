package budget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crashoveride1/blockchain/chainmodel"
	"github.com/crashoveride1/blockchain/objectstore"
	"github.com/crashoveride1/blockchain/objectstore/memstore"
)

func setupStore(t *testing.T) (objectstore.Store, objectstore.ID, objectstore.ID, objectstore.ID) {
	store := memstore.New()
	coreAsset := objectstore.ID{Space: chainmodel.SpaceAsset, Instance: 0}
	coreDynID := store.Create(chainmodel.SpaceAsset, chainmodel.TypeDefault, func(id objectstore.ID) interface{} {
		return &chainmodel.AssetDynamicData{ID: id, Asset: coreAsset, CurrentSupply: 1_000_000, AccumulatedFees: 0}
	})
	dgpID := store.Create(chainmodel.SpaceGlobal, chainmodel.TypeDefault, func(id objectstore.ID) interface{} {
		return &chainmodel.DynamicGlobalProperties{ID: id}
	})
	return store, coreAsset, coreDynID, dgpID
}

func noopPayout(store objectstore.Store, w *chainmodel.Worker, amount uint64) (uint64, error) {
	return amount, nil
}

func TestRunBudgetOverflowClampsToReserve(t *testing.T) {
	store, coreAsset, coreDynID, dgpID := setupStore(t)
	now := time.Unix(1_700_000_000, 0)

	record, err := Run(store, coreAsset, coreDynID, dgpID, Params{
		CoreAssetCycleRate:     1 << 40, // deliberately huge so the raw product overflows reserve
		CoreAssetCycleRateBits: 32,
		BlockInterval:          3 * time.Second,
		WitnessPayPerBlock:     10,
		WorkerBudgetPerDay:     100,
	}, Inputs{
		Now:                 now,
		LastBudgetTime:      now.Add(-24 * time.Hour),
		NextMaintenanceTime: now.Add(time.Hour),
		CoreReserved:        1000,
		AccumulatedFees:     0,
		PriorWitnessBudget:  0,
	}, nil, noopPayout)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), record.TotalBudget)
	require.LessOrEqual(t, record.WitnessShare+record.WorkerShare, uint64(1000))
}

func TestRunPaysWorkersByStake(t *testing.T) {
	store, coreAsset, coreDynID, dgpID := setupStore(t)
	now := time.Unix(1_700_000_000, 0)

	w1 := &chainmodel.Worker{ID: objectstore.ID{Instance: 1}, DailyPay: 50, ApprovingStake: 10, WorkBegin: now.Add(-time.Hour), WorkEnd: now.Add(time.Hour)}
	w2 := &chainmodel.Worker{ID: objectstore.ID{Instance: 2}, DailyPay: 50, ApprovingStake: 20, WorkBegin: now.Add(-time.Hour), WorkEnd: now.Add(time.Hour)}

	var paidOrder []uint64
	payout := func(store objectstore.Store, w *chainmodel.Worker, amount uint64) (uint64, error) {
		paidOrder = append(paidOrder, w.ID.Instance)
		return amount, nil
	}

	_, err := Run(store, coreAsset, coreDynID, dgpID, Params{
		CoreAssetCycleRate:     1 << 40,
		CoreAssetCycleRateBits: 0,
		BlockInterval:          3 * time.Second,
		WitnessPayPerBlock:     0,
		WorkerBudgetPerDay:     1000,
	}, Inputs{
		Now:                 now,
		LastBudgetTime:      now.Add(-24 * time.Hour),
		NextMaintenanceTime: now.Add(time.Hour),
		CoreReserved:        10_000_000,
		AccumulatedFees:     0,
		PriorWitnessBudget:  0,
	}, []*chainmodel.Worker{w1, w2}, payout)
	require.NoError(t, err)
	require.Equal(t, []uint64{2, 1}, paidOrder) // higher approving_stake pays first
}
