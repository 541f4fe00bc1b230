package tally

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crashoveride1/blockchain/chainmodel"
	"github.com/crashoveride1/blockchain/maint/scratch"
	"github.com/crashoveride1/blockchain/objectstore"
	"github.com/crashoveride1/blockchain/objectstore/memstore"
)

func registerAccountIndex(store *memstore.Store) {
	store.RegisterIndex(chainmodel.SpaceAccount, chainmodel.TypeDefault, objectstore.ByName, func(id objectstore.ID, obj interface{}) memstore.Key {
		return memstore.Key{String: obj.(*chainmodel.Account).Name}
	})
}

func TestRunAttributesStakeToOpinionAccountVotes(t *testing.T) {
	store := memstore.New()
	registerAccountIndex(store)

	voteID := objectstore.ID{Instance: 5}
	acctID := store.Create(chainmodel.SpaceAccount, chainmodel.TypeDefault, func(id objectstore.ID) interface{} {
		return &chainmodel.Account{
			ID: id, Name: "alice", CoreBalance: 1000,
			Options: chainmodel.AccountOptions{Votes: []objectstore.ID{voteID}, NumWitness: 9, NumCommittee: 9},
		}
	})

	buf := scratch.Acquire(10, 6, 6)
	Run(store, buf, true, 100, 100, func(*chainmodel.Account) bool { return true })

	require.Equal(t, uint64(1000), buf.VoteTally[5])
	require.Equal(t, uint64(1000), buf.TotalVotingStake)
	require.Equal(t, uint64(1000), buf.WitnessCountHistogram[4])
	_ = acctID
}

func TestRunSkipsNonMembersWhenConfigured(t *testing.T) {
	store := memstore.New()
	registerAccountIndex(store)
	store.Create(chainmodel.SpaceAccount, chainmodel.TypeDefault, func(id objectstore.ID) interface{} {
		return &chainmodel.Account{ID: id, Name: "bob", CoreBalance: 500}
	})

	buf := scratch.Acquire(1, 2, 2)
	Run(store, buf, false, 100, 100, func(*chainmodel.Account) bool { return false })
	require.Equal(t, uint64(0), buf.TotalVotingStake)
}

func TestResolveOpinionAccountIsSingleHop(t *testing.T) {
	store := memstore.New()
	registerAccountIndex(store)

	proxyTargetID := store.Create(chainmodel.SpaceAccount, chainmodel.TypeDefault, func(id objectstore.ID) interface{} {
		return &chainmodel.Account{ID: id, Name: "proxy", Options: chainmodel.AccountOptions{NumWitness: 3}}
	})
	store.Create(chainmodel.SpaceAccount, chainmodel.TypeDefault, func(id objectstore.ID) interface{} {
		return &chainmodel.Account{ID: id, Name: "stakeholder", CoreBalance: 777, Options: chainmodel.AccountOptions{VotingAccount: proxyTargetID}}
	})

	buf := scratch.Acquire(1, 4, 4)
	Run(store, buf, true, 100, 100, func(*chainmodel.Account) bool { return true })
	require.Equal(t, uint64(777), buf.TotalVotingStake)
	require.Equal(t, uint64(777), buf.WitnessCountHistogram[1]) // proxy's num_witness=3 -> offset 1
}
