// Package funds implements §4.K: advancing each enabled fund and
// expiring cheques whose deadline has passed.
package funds

import (
	"time"

	"github.com/crashoveride1/blockchain/chainmodel"
	"github.com/crashoveride1/blockchain/evaluator"
	"github.com/crashoveride1/blockchain/objectstore"
	"github.com/crashoveride1/blockchain/pkg/chainerr"
	"github.com/crashoveride1/blockchain/pkg/log"
)

// Processor performs a fund's own per-tick payment-rate math, out of
// scope per §4.K; maintenance only decides which funds to advance and
// when.
type Processor interface {
	Process(store objectstore.Store, fund *chainmodel.Fund) error
	Finish(store objectstore.Store, fund *chainmodel.Fund) error
}

// reached implements the "next_maintenance_time - interval >= deadline"
// boundary test §4.K and §4.L share for expiring time-bound entities.
func reached(nextMaintenanceTime time.Time, interval time.Duration, deadline time.Time) bool {
	return !nextMaintenanceTime.Add(-interval).Before(deadline)
}

// AdvanceFunds processes every enabled fund in ids, additionally
// finishing any fund whose deadline has been reached this interval.
// Process and Finish are not alternatives: a fund that expires this
// interval still takes its last process step before finishing.
func AdvanceFunds(store objectstore.Store, proc Processor, ids []objectstore.ID, now, nextMaintenanceTime time.Time, interval time.Duration) {
	for _, id := range ids {
		raw, ok := store.Get(id)
		if !ok {
			continue
		}
		fund := raw.(*chainmodel.Fund)
		if !fund.Enabled || fund.DatetimeEnd.Before(now) {
			continue
		}
		if err := proc.Process(store, fund); err != nil {
			log.S().Warnw("funds: process failed", "fund", id.String(), "err", err)
		}
		if reached(nextMaintenanceTime, interval, fund.DatetimeEnd) {
			if err := proc.Finish(store, fund); err != nil {
				log.S().Warnw("funds: finish failed", "fund", id.String(), "err", err)
			}
		}
	}
}

// ExpireCheques synthesizes a cheque_reverse virtual operation for every
// new-status cheque in ids whose expiration has been reached,
// swallowing per-cheque assertion failures from the evaluator.
func ExpireCheques(store objectstore.Store, eval evaluator.Evaluator, ids []objectstore.ID, nextMaintenanceTime time.Time, interval time.Duration) {
	state := &evaluator.EvalState{Store: store}
	for _, id := range ids {
		raw, ok := store.Get(id)
		if !ok {
			continue
		}
		cheque := raw.(*chainmodel.Cheque)
		if cheque.Status != chainmodel.ChequeNew {
			continue
		}
		if !reached(nextMaintenanceTime, interval, cheque.DatetimeExpiration) {
			continue
		}
		if err := expireOne(store, eval, state, id, cheque); err != nil {
			log.S().Warnw("funds: cheque reversal failed", "cheque", id.String(), "err", err)
		}
	}
}

func expireOne(store objectstore.Store, eval evaluator.Evaluator, state *evaluator.EvalState, id objectstore.ID, cheque *chainmodel.Cheque) error {
	op := evaluator.ChequeReverse{
		Cheque: id,
		Drawer: cheque.Drawer,
		Asset:  cheque.Asset,
		Amount: cheque.AmountRemaining,
	}
	if err := eval.ApplyOperation(state, op); err != nil {
		return chainerr.BestEffort(err)
	}
	return store.Modify(id, func(obj interface{}) {
		c := obj.(*chainmodel.Cheque)
		c.Status = chainmodel.ChequeReversed
		c.AmountRemaining = 0
	})
}
