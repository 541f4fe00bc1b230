// Package history implements §4.M: pruning time-indexed history
// entries older than the retention window, and SPEC_FULL §5's
// accounts-online clearing sweep, gated on Hardfork618.
package history

import (
	"time"

	"github.com/crashoveride1/blockchain/chainmodel"
	"github.com/crashoveride1/blockchain/objectstore"
	"github.com/crashoveride1/blockchain/pkg/chainerr"
)

// Prune removes every entry of the given (space, type) table whose
// timestamp predates cutoff, walking the by_time index so removal order
// is deterministic. Pruning is strictly append-consistent: once an
// entry is removed it is never referenced again by consensus, so
// callers must not hold references to pruned ids past this call.
func Prune(store objectstore.Store, space objectstore.Space, typ uint8, cutoff time.Time) error {
	var toRemove []objectstore.ID
	store.Iterate(space, typ, objectstore.ByTime, func(id objectstore.ID, obj interface{}) bool {
		entry := obj.(*chainmodel.HistoryEntry)
		if entry.Time.Before(cutoff) {
			toRemove = append(toRemove, id)
			return true
		}
		return false // by_time order means everything after this is newer
	})
	for _, id := range toRemove {
		if err := store.Remove(id); err != nil {
			return chainerr.Fatal(err, "history: prune")
		}
	}
	return nil
}

// PruneAll prunes every history kind tracked by the maintenance core:
// operation history, account-transaction history, and
// fund-transaction history.
func PruneAll(store objectstore.Store, headBlockTime time.Time, retention time.Duration) error {
	cutoff := headBlockTime.Add(-retention)
	kinds := []uint8{
		chainmodel.TypeOperationHistory,
		chainmodel.TypeAccountTransactionHistory,
		chainmodel.TypeFundTransactionHistory,
	}
	for _, k := range kinds {
		if err := Prune(store, chainmodel.SpaceHistory, k, cutoff); err != nil {
			return err
		}
	}
	return nil
}

// ClearAccountsOnline resets the accounts-online singleton every
// maintenance interval, active from Hardfork618 onward.
func ClearAccountsOnline(online map[objectstore.ID]uint16) {
	for k := range online {
		delete(online, k)
	}
}
