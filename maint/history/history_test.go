package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crashoveride1/blockchain/chainmodel"
	"github.com/crashoveride1/blockchain/objectstore"
	"github.com/crashoveride1/blockchain/objectstore/memstore"
)

func registerHistoryIndex(store *memstore.Store) {
	store.RegisterIndex(chainmodel.SpaceHistory, chainmodel.TypeOperationHistory, objectstore.ByTime, func(id objectstore.ID, obj interface{}) memstore.Key {
		return memstore.Key{Primary: obj.(*chainmodel.HistoryEntry).Time.Unix()}
	})
}

func TestPruneRemovesOnlyEntriesOlderThanCutoff(t *testing.T) {
	store := memstore.New()
	registerHistoryIndex(store)

	base := time.Unix(1_700_000_000, 0)
	oldID := store.Create(chainmodel.SpaceHistory, chainmodel.TypeOperationHistory, func(id objectstore.ID) interface{} {
		return &chainmodel.HistoryEntry{Time: base.Add(-2 * time.Hour)}
	})
	freshID := store.Create(chainmodel.SpaceHistory, chainmodel.TypeOperationHistory, func(id objectstore.ID) interface{} {
		return &chainmodel.HistoryEntry{Time: base.Add(-time.Minute)}
	})

	require.NoError(t, Prune(store, chainmodel.SpaceHistory, chainmodel.TypeOperationHistory, base.Add(-time.Hour)))

	_, ok := store.Get(oldID)
	require.False(t, ok)
	_, ok = store.Get(freshID)
	require.True(t, ok)
}

func TestClearAccountsOnlineEmptiesMap(t *testing.T) {
	online := map[objectstore.ID]uint16{
		{Instance: 1}: 500,
		{Instance: 2}: 1440,
	}
	ClearAccountsOnline(online)
	require.Empty(t, online)
}
