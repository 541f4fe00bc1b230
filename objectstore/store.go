// Package objectstore defines the external-collaborator contract that
// maintenance consumes: typed ids, transactional mutation, and the
// named secondary orderings spec.md §6 assumes the persistent object
// store offers.
package objectstore

import "fmt"

// Space identifies an entity's table, the first component of its typed
// id (space + type + serial).
type Space uint8

// ID is a typed, space-qualified identifier (space + type + serial).
type ID struct {
	Space    Space
	Type     uint8
	Instance uint64
}

func (id ID) String() string {
	return fmt.Sprintf("%d.%d.%d", id.Space, id.Type, id.Instance)
}

// Zero reports whether id is the unset value.
func (id ID) Zero() bool { return id == ID{} }

// Index names the secondary orderings §6 requires the store to expose.
type Index string

const (
	ByID               Index = "by_id"
	ByName             Index = "by_name"
	ByAccount          Index = "by_account"
	ByAccountAsset     Index = "by_account_asset"
	ByAssetBalance     Index = "by_asset_balance"
	BySymbol           Index = "by_symbol"
	ByTime             Index = "by_time"
	ByDatetime         Index = "by_datetime"
	ByDatetimeCreation Index = "by_datetime_creation"
)

// Store is the persistent object store contract. Implementations:
// objectstore/memstore (the in-memory, deterministic default used by
// every test) and objectstore/boltstore (a durable bbolt-backed store
// with the same contract).
type Store interface {
	Get(id ID) (interface{}, bool)
	Create(space Space, typ uint8, init func(id ID) interface{}) ID
	Modify(id ID, mutate func(obj interface{})) error
	Remove(id ID) error
	AdjustBalance(account ID, asset ID, delta int64) error
	PushAppliedOperation(op interface{})

	// Iterate walks space's entities of the given type ordered by idx,
	// calling visit for each. visit returns false to stop early.
	Iterate(space Space, typ uint8, idx Index, visit func(id ID, obj interface{}) bool)
}
