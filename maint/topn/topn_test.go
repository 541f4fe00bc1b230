package topn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crashoveride1/blockchain/chainmodel"
	"github.com/crashoveride1/blockchain/objectstore"
)

func TestRebuildExcludesSelfAndZeroBalances(t *testing.T) {
	self := objectstore.ID{Instance: 1}
	asset := objectstore.ID{Instance: 99}
	other1 := objectstore.ID{Instance: 2}
	other2 := objectstore.ID{Instance: 3}

	lister := func(a objectstore.ID) []Holder {
		return []Holder{
			{Owner: self, Asset: a, Balance: 10_000},
			{Owner: other1, Asset: a, Balance: 500},
			{Owner: other2, Asset: a, Balance: 0},
		}
	}

	auth, nonEmpty := Rebuild(self, chainmodel.SpecialAuthority{Kind: chainmodel.SpecialAuthorityTopHolders, Asset: asset, N: 5}, lister)
	assert.True(t, nonEmpty)
	if assert.Len(t, auth.Entries, 1) {
		assert.Equal(t, other1, auth.Entries[0].Account)
	}
}

func TestRebuildReportsEmptyWhenNoEligibleHolders(t *testing.T) {
	self := objectstore.ID{Instance: 1}
	lister := func(objectstore.ID) []Holder { return nil }
	_, nonEmpty := Rebuild(self, chainmodel.SpecialAuthority{Kind: chainmodel.SpecialAuthorityTopHolders, N: 5}, lister)
	assert.False(t, nonEmpty)
}
