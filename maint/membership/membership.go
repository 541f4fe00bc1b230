// Package membership implements the annual-member deprecation sweep
// (SPEC_FULL §5): at the Hardfork613 boundary, every annual member is
// upgraded to lifetime membership via a best-effort account_upgrade
// virtual operation.
package membership

import (
	"time"

	"github.com/crashoveride1/blockchain/chainmodel"
	"github.com/crashoveride1/blockchain/evaluator"
	"github.com/crashoveride1/blockchain/objectstore"
	"github.com/crashoveride1/blockchain/pkg/chainerr"
	"github.com/crashoveride1/blockchain/pkg/log"
)

// DeprecateAnnualMembers upgrades every expired-or-active annual member
// in ids to lifetime membership, catching evaluator failures per
// account.
func DeprecateAnnualMembers(store objectstore.Store, eval evaluator.Evaluator, ids []objectstore.ID, now time.Time) {
	state := &evaluator.EvalState{Store: store}
	for _, id := range ids {
		raw, ok := store.Get(id)
		if !ok {
			continue
		}
		acct := raw.(*chainmodel.Account)
		if !acct.IsAnnualMember || acct.IsLifetimeMember {
			continue
		}
		if err := upgradeOne(store, eval, state, id); err != nil {
			log.S().Warnw("membership: upgrade failed", "account", id.String(), "err", err)
		}
	}
}

func upgradeOne(store objectstore.Store, eval evaluator.Evaluator, state *evaluator.EvalState, id objectstore.ID) error {
	if err := eval.ApplyOperation(state, evaluator.AccountUpgrade{Account: id, ToLifetime: true}); err != nil {
		return chainerr.BestEffort(err)
	}
	return store.Modify(id, func(obj interface{}) {
		acct := obj.(*chainmodel.Account)
		acct.IsLifetimeMember = true
		acct.IsAnnualMember = false
	})
}
