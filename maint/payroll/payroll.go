// Package payroll implements §4.G: writing back worker vote totals and
// paying active workers out of the worker budget by approving stake.
package payroll

import (
	"sort"
	"time"

	"github.com/crashoveride1/blockchain/chainmodel"
	"github.com/crashoveride1/blockchain/objectstore"
	"github.com/crashoveride1/blockchain/pkg/fixedpoint"
)

// WriteBackVotes sets each worker's ApprovingStake to its vote_for
// total minus its vote_against total, both as reported by votesOf,
// mirroring producer election's write-back step for the worker table.
func WriteBackVotes(store objectstore.Store, workers []objectstore.ID, votesOf func(voteID objectstore.ID) uint64) {
	for _, id := range workers {
		_ = store.Modify(id, func(obj interface{}) {
			w := obj.(*chainmodel.Worker)
			w.ApprovingStake = int64(votesOf(w.VoteFor)) - int64(votesOf(w.VoteAgainst))
		})
	}
}

// PayoutFunc applies one worker's payout per its payout-strategy
// variant and reports how much of amount was actually disbursed.
type PayoutFunc func(store objectstore.Store, w *chainmodel.Worker, amount uint64) (uint64, error)

// Pay walks active, positively-approved workers by (-approving_stake,
// id), paying each min(budget, requested) where requested scales
// daily_pay to the actual elapsed interval when dt != 1 day. It returns
// the unspent remainder, which the caller (budget process) refunds to
// available supply.
func Pay(store objectstore.Store, workers []*chainmodel.Worker, now time.Time, dt time.Duration, budget uint64, payout PayoutFunc) (uint64, error) {
	active := make([]*chainmodel.Worker, 0, len(workers))
	for _, w := range workers {
		if w.Active(now) && w.ApprovingStake > 0 {
			active = append(active, w)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].ApprovingStake != active[j].ApprovingStake {
			return active[i].ApprovingStake > active[j].ApprovingStake
		}
		return active[i].ID.Instance < active[j].ID.Instance
	})

	const dayMicroseconds = 24 * 60 * 60 * 1_000_000
	dtMicroseconds := uint64(dt.Microseconds())

	for _, w := range active {
		if budget == 0 {
			break
		}
		requested := w.DailyPay
		if dt != 24*time.Hour {
			requested = fixedpoint.MulDivFloor(w.DailyPay, dtMicroseconds, dayMicroseconds)
		}
		pay := fixedpoint.Min64(budget, requested)
		if pay == 0 {
			continue
		}
		paid, err := payout(store, w, pay)
		if err != nil {
			return budget, err
		}
		budget -= paid
	}
	return budget, nil
}
