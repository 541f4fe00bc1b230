// Package memstore is the in-memory reference implementation of
// objectstore.Store. It is deterministic and is what every maintenance
// test runs against.
package memstore

import (
	"sort"
	"sync"

	"github.com/crashoveride1/blockchain/objectstore"
)

// KeyFunc extracts a sortable key for one secondary ordering. Keys must
// be comparable with a total order via Less; ties are broken by the
// object's id, ascending, unless the KeyFunc itself already encodes the
// tie-break (as §4.F's "(-votes, id)" orderings do).
type KeyFunc func(id objectstore.ID, obj interface{}) Key

// Key is an opaque, comparable sort key produced by a KeyFunc.
type Key struct {
	// Primary orders keys; ties fall through to Secondary, then to id.
	Primary   int64
	Secondary int64
	String    string
}

// Less reports whether a sorts before b.
func (a Key) Less(b Key) bool {
	if a.Primary != b.Primary {
		return a.Primary < b.Primary
	}
	if a.Secondary != b.Secondary {
		return a.Secondary < b.Secondary
	}
	return a.String < b.String
}

type entry struct {
	id  objectstore.ID
	obj interface{}
}

// Store is the in-memory object store.
type Store struct {
	mu       sync.Mutex
	objects  map[objectstore.ID]interface{}
	nextSeq  map[tableKey]uint64
	indices  map[indexKey]KeyFunc
	ops      []interface{}
	balances map[objectstore.ID]map[objectstore.ID]int64
}

type tableKey struct {
	space objectstore.Space
	typ   uint8
}

type indexKey struct {
	space objectstore.Space
	typ   uint8
	idx   objectstore.Index
}

// New constructs an empty store.
func New() *Store {
	return &Store{
		objects:  make(map[objectstore.ID]interface{}),
		nextSeq:  make(map[tableKey]uint64),
		indices:  make(map[indexKey]KeyFunc),
		balances: make(map[objectstore.ID]map[objectstore.ID]int64),
	}
}

// RegisterIndex installs the key function for one (space, type, index)
// triple. Maintenance components that depend on a specific secondary
// ordering must register it before running; this mirrors the source
// contract's "get_index<T>()" returning a fixed set of named orderings
// per table.
func (s *Store) RegisterIndex(space objectstore.Space, typ uint8, idx objectstore.Index, fn KeyFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indices[indexKey{space, typ, idx}] = fn
}

// Get implements objectstore.Store.
func (s *Store) Get(id objectstore.ID) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[id]
	return obj, ok
}

// Create implements objectstore.Store.
func (s *Store) Create(space objectstore.Space, typ uint8, init func(id objectstore.ID) interface{}) objectstore.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	tk := tableKey{space, typ}
	inst := s.nextSeq[tk]
	s.nextSeq[tk] = inst + 1
	id := objectstore.ID{Space: space, Type: typ, Instance: inst}
	s.objects[id] = init(id)
	return id
}

// Restore inserts obj at id exactly, advancing id's table sequence past
// id.Instance so subsequent Create calls never collide with it. Used by
// objectstore/boltstore to repopulate the in-memory graph from a
// checkpoint.
func (s *Store) Restore(id objectstore.ID, obj interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[id] = obj
	tk := tableKey{id.Space, id.Type}
	if id.Instance+1 > s.nextSeq[tk] {
		s.nextSeq[tk] = id.Instance + 1
	}
}

// Modify implements objectstore.Store.
func (s *Store) Modify(id objectstore.ID, mutate func(obj interface{})) error {
	s.mu.Lock()
	obj, ok := s.objects[id]
	s.mu.Unlock()
	if !ok {
		return errNotFound(id)
	}
	mutate(obj)
	return nil
}

// Remove implements objectstore.Store.
func (s *Store) Remove(id objectstore.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[id]; !ok {
		return errNotFound(id)
	}
	delete(s.objects, id)
	return nil
}

// AdjustBalance implements objectstore.Store.
func (s *Store) AdjustBalance(account objectstore.ID, asset objectstore.ID, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bal := s.balances[account]
	if bal == nil {
		bal = make(map[objectstore.ID]int64)
		s.balances[account] = bal
	}
	bal[asset] += delta
	return nil
}

// Balance returns account's balance of asset.
func (s *Store) Balance(account, asset objectstore.ID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[account][asset]
}

// PushAppliedOperation implements objectstore.Store.
func (s *Store) PushAppliedOperation(op interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, op)
}

// AppliedOperations returns every virtual operation pushed so far, in
// emission order.
func (s *Store) AppliedOperations() []interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]interface{}, len(s.ops))
	copy(out, s.ops)
	return out
}

// Iterate implements objectstore.Store.
func (s *Store) Iterate(space objectstore.Space, typ uint8, idx objectstore.Index, visit func(id objectstore.ID, obj interface{}) bool) {
	s.mu.Lock()
	fn, ok := s.indices[indexKey{space, typ, idx}]
	var entries []entry
	for id, obj := range s.objects {
		if id.Space == space && id.Type == typ {
			entries = append(entries, entry{id, obj})
		}
	}
	s.mu.Unlock()

	if !ok {
		panic("memstore: no index registered for " + string(idx))
	}
	sort.Slice(entries, func(i, j int) bool {
		ki, kj := fn(entries[i].id, entries[i].obj), fn(entries[j].id, entries[j].obj)
		if ki.Less(kj) || kj.Less(ki) {
			return ki.Less(kj)
		}
		return entries[i].id.Instance < entries[j].id.Instance
	})
	for _, e := range entries {
		if !visit(e.id, e.obj) {
			return
		}
	}
}

type notFoundError struct{ id objectstore.ID }

func (e *notFoundError) Error() string { return "memstore: no object " + e.id.String() }

func errNotFound(id objectstore.ID) error { return &notFoundError{id} }
