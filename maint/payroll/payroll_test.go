package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crashoveride1/blockchain/chainmodel"
	"github.com/crashoveride1/blockchain/objectstore"
	"github.com/crashoveride1/blockchain/objectstore/memstore"
)

func TestWriteBackVotesSetsNetApprovingStake(t *testing.T) {
	store := memstore.New()
	voteFor := objectstore.ID{Instance: 1}
	voteAgainst := objectstore.ID{Instance: 2}
	workerID := store.Create(chainmodel.SpaceWorker, chainmodel.TypeDefault, func(id objectstore.ID) interface{} {
		return &chainmodel.Worker{ID: id, VoteFor: voteFor, VoteAgainst: voteAgainst}
	})

	votes := map[objectstore.ID]uint64{voteFor: 700, voteAgainst: 300}
	WriteBackVotes(store, []objectstore.ID{workerID}, func(id objectstore.ID) uint64 { return votes[id] })

	raw, _ := store.Get(workerID)
	require.Equal(t, int64(400), raw.(*chainmodel.Worker).ApprovingStake)
}

func TestPayOrdersByStakeDescendingAndRespectsBudget(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	begin := now.Add(-time.Hour)
	end := now.Add(time.Hour)

	w1 := &chainmodel.Worker{ID: objectstore.ID{Instance: 1}, DailyPay: 50, ApprovingStake: 100, WorkBegin: begin, WorkEnd: end}
	w2 := &chainmodel.Worker{ID: objectstore.ID{Instance: 2}, DailyPay: 50, ApprovingStake: 900, WorkBegin: begin, WorkEnd: end}
	w3 := &chainmodel.Worker{ID: objectstore.ID{Instance: 3}, DailyPay: 50, ApprovingStake: 0, WorkBegin: begin, WorkEnd: end}

	var paidOrder []uint64
	payout := func(_ objectstore.Store, w *chainmodel.Worker, amount uint64) (uint64, error) {
		paidOrder = append(paidOrder, w.ID.Instance)
		return amount, nil
	}

	leftover, err := Pay(nil, []*chainmodel.Worker{w1, w2, w3}, now, 24*time.Hour, 1000, payout)
	require.NoError(t, err)
	require.Equal(t, []uint64{2, 1}, paidOrder) // w3 is inactive (zero stake), excluded
	require.Equal(t, uint64(900), leftover)
}

func TestPayScalesRequestedPayByElapsedInterval(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	begin := now.Add(-time.Hour)
	end := now.Add(time.Hour)
	w := &chainmodel.Worker{ID: objectstore.ID{Instance: 1}, DailyPay: 2400, ApprovingStake: 1, WorkBegin: begin, WorkEnd: end}

	var paid uint64
	payout := func(_ objectstore.Store, _ *chainmodel.Worker, amount uint64) (uint64, error) {
		paid = amount
		return amount, nil
	}

	_, err := Pay(nil, []*chainmodel.Worker{w}, now, time.Hour, 10_000, payout)
	require.NoError(t, err)
	require.Equal(t, uint64(100), paid) // 2400/day * 1h/24h = 100
}
