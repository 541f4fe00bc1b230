// Package topn implements §4.E: rebuilding an account's owner/active
// authority from the top N holders of a designated asset when that
// authority is tagged as a top_holders special authority.
package topn

import (
	"sort"

	"github.com/crashoveride1/blockchain/chainmodel"
	"github.com/crashoveride1/blockchain/maint/election/votecounter"
	"github.com/crashoveride1/blockchain/objectstore"
)

// Holder is one row from the by_asset_balance index.
type Holder struct {
	Owner   objectstore.ID
	Asset   objectstore.ID
	Balance uint64
}

// HolderLister enumerates holders of asset ordered by
// (asset_type asc, balance desc, owner asc) per §9's key specification.
type HolderLister func(asset objectstore.ID) []Holder

// Rebuild computes the top-N, self-excluded, authority for the given
// special authority tag and reports whether the result is non-empty
// (the caller uses this to set top_n_control_flags only when true).
func Rebuild(self objectstore.ID, sa chainmodel.SpecialAuthority, list HolderLister) (chainmodel.Authority, bool) {
	holders := list(sa.Asset)
	sort.SliceStable(holders, func(i, j int) bool {
		if holders[i].Balance != holders[j].Balance {
			return holders[i].Balance > holders[j].Balance
		}
		return holders[i].Owner.Instance < holders[j].Owner.Instance
	})

	vc := votecounter.New()
	count := 0
	for _, h := range holders {
		if h.Owner == self || h.Balance == 0 {
			continue
		}
		vc.Add(h.Owner, h.Balance)
		count++
		if count >= sa.N {
			break
		}
	}
	authority := vc.Finalize()
	return authority, len(authority.Entries) > 0
}
