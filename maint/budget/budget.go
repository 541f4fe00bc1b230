// Package budget implements §4.J: computing the total inflation
// budget for one maintenance interval, splitting it into witness and
// worker shares, paying workers, and reconciling core supply.
package budget

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/crashoveride1/blockchain/chainmodel"
	"github.com/crashoveride1/blockchain/maint/payroll"
	"github.com/crashoveride1/blockchain/objectstore"
	"github.com/crashoveride1/blockchain/pkg/chainerr"
	"github.com/crashoveride1/blockchain/pkg/fixedpoint"
)

// Params are the budget-relevant tunables of §6.
type Params struct {
	CoreAssetCycleRate     uint64
	CoreAssetCycleRateBits uint
	BlockInterval          time.Duration
	WitnessPayPerBlock     uint64
	WorkerBudgetPerDay     uint64
}

// Inputs are the runtime values the budget computation reads.
type Inputs struct {
	Now                 time.Time
	LastBudgetTime      time.Time
	NextMaintenanceTime time.Time
	CoreReserved        uint64
	AccumulatedFees     uint64
	PriorWitnessBudget  uint64
}

// Run computes the budget, pays workers via payroll.Pay, mutates
// coreAssetID's dynamic data and the global dynamic properties, and
// creates exactly one budget_record object, per §4.J.7.
func Run(store objectstore.Store, coreAssetID, coreAssetDynID, dgpID objectstore.ID, params Params, in Inputs, workers []*chainmodel.Worker, payout payroll.PayoutFunc) (*chainmodel.BudgetRecord, error) {
	dt := in.Now.Sub(in.LastBudgetTime)
	if in.LastBudgetTime.IsZero() || dt < 0 {
		dt = 0
	}

	reserve := in.CoreReserved + in.AccumulatedFees + in.PriorWitnessBudget

	totalBudget := computeTotalBudget(reserve, dt, params.CoreAssetCycleRate, params.CoreAssetCycleRateBits)

	blocksToMaint := int64(in.NextMaintenanceTime.Sub(in.Now) / params.BlockInterval)
	if in.NextMaintenanceTime.Sub(in.Now)%params.BlockInterval != 0 {
		blocksToMaint++
	}
	if blocksToMaint <= 0 {
		return nil, chainerr.Fatalf("budget: blocks_to_maint must be positive, got %d", blocksToMaint)
	}

	available := totalBudget
	witnessShare := fixedpoint.Min64(totalBudget, params.WitnessPayPerBlock*uint64(blocksToMaint))
	available -= witnessShare

	workerShare := fixedpoint.Min64(available, fixedpoint.MulDivFloor(params.WorkerBudgetPerDay, uint64(dt/time.Second), 86400))
	available -= workerShare

	leftover, err := payroll.Pay(store, workers, in.Now, dt, workerShare, payout)
	if err != nil {
		return nil, err
	}

	supplyDelta := int64(witnessShare) + int64(workerShare) - int64(leftover) - int64(in.AccumulatedFees) - int64(in.PriorWitnessBudget)

	if err := store.Modify(coreAssetDynID, func(obj interface{}) {
		dd := obj.(*chainmodel.AssetDynamicData)
		dd.CurrentSupply += supplyDelta
		dd.AccumulatedFees = 0
	}); err != nil {
		return nil, chainerr.Fatal(err, "budget: mutate core asset dynamic data")
	}

	if err := store.Modify(dgpID, func(obj interface{}) {
		dgp := obj.(*chainmodel.DynamicGlobalProperties)
		dgp.WitnessBudget = witnessShare
		dgp.LastBudgetTime = in.Now
	}); err != nil {
		return nil, chainerr.Fatal(err, "budget: mutate dynamic global properties")
	}

	record := &chainmodel.BudgetRecord{
		Time:                    in.Now,
		TotalBudget:             totalBudget,
		WitnessShare:            witnessShare,
		WorkerShare:             workerShare,
		LeftoverWorker:          leftover,
		AccumulatedFeesConsumed: in.AccumulatedFees,
		PriorWitnessBudget:      in.PriorWitnessBudget,
		SupplyDelta:             supplyDelta,
	}
	id := store.Create(chainmodel.SpaceBudgetRecord, chainmodel.TypeDefault, func(id objectstore.ID) interface{} {
		record.ID = id
		return record
	})
	record.ID = id
	return record, nil
}

// computeTotalBudget implements the §4.J ceiling-division formula:
// total_budget = min(reserve, ceil(reserve*dt*CYCLE_RATE / 2^bits)).
func computeTotalBudget(reserve uint64, dt time.Duration, cycleRate uint64, bits uint) uint64 {
	if reserve == 0 || dt <= 0 {
		return 0
	}
	dtSeconds := uint64(dt / time.Second)
	prod := new(uint256.Int).Mul(uint256.NewInt(reserve), uint256.NewInt(dtSeconds))
	prod.Mul(prod, uint256.NewInt(cycleRate))
	ceil := fixedpoint.CeilDivShift(prod, bits)
	if !ceil.IsUint64() || ceil.Uint64() > reserve {
		return reserve
	}
	return ceil.Uint64()
}
