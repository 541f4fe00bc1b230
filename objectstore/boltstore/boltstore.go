// Package boltstore is a durable objectstore.Store backed by
// go.etcd.io/bbolt, one bucket per (space, type) table, grounded in the teacher's
// use of bbolt as its default persistence backend. The live object
// graph is held in memory exactly like objectstore/memstore (consensus
// mutation happens against in-process values); Checkpoint and Load move
// gob-encoded snapshots to and from bbolt so a maintenance run's
// resulting state survives process restarts.
package boltstore

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/crashoveride1/blockchain/objectstore"
	"github.com/crashoveride1/blockchain/objectstore/memstore"
)

var metaBucket = []byte("meta")

// Store wraps memstore.Store with bbolt-backed checkpointing.
type Store struct {
	*memstore.Store
	db *bolt.DB
}

// Open opens (creating if absent) a bbolt database at path and returns
// a Store with an empty in-memory object graph. Call Load to populate
// it from a prior checkpoint.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrap(err, "boltstore: open")
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(metaBucket)
		return err
	}); err != nil {
		return nil, errors.Wrap(err, "boltstore: init")
	}
	return &Store{Store: memstore.New(), db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error { return s.db.Close() }

// bucketName returns the bbolt bucket holding the checkpoint blob for
// one (space, type) table.
func bucketName(space objectstore.Space, typ uint8) []byte {
	return []byte{'t', byte(space), typ}
}

// Checkpoint gob-encodes every object in the given (space, type) table
// and writes it to its bucket in a single bbolt transaction.
func (s *Store) Checkpoint(space objectstore.Space, typ uint8, idx objectstore.Index) error {
	type row struct {
		ID  objectstore.ID
		Obj interface{}
	}
	var rows []row
	s.Iterate(space, typ, idx, func(id objectstore.ID, obj interface{}) bool {
		rows = append(rows, row{id, obj})
		return true
	})

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(rows); err != nil {
		return errors.Wrap(err, "boltstore: encode checkpoint")
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName(space, typ))
		if err != nil {
			return err
		}
		return b.Put([]byte("snapshot"), buf.Bytes())
	})
}

// Load reads back a table checkpointed by Checkpoint, restoring each row
// into the in-memory object graph at its original id. A missing bucket
// or snapshot key is not an error: it means the table was never
// checkpointed, and Load leaves the in-memory table empty.
func (s *Store) Load(space objectstore.Space, typ uint8) error {
	type row struct {
		ID  objectstore.ID
		Obj interface{}
	}
	var blob []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName(space, typ))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte("snapshot")); v != nil {
			blob = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		return errors.Wrap(err, "boltstore: read checkpoint")
	}
	if blob == nil {
		return nil
	}

	var rows []row
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&rows); err != nil {
		return errors.Wrap(err, "boltstore: decode checkpoint")
	}
	for _, r := range rows {
		s.Restore(r.ID, r.Obj)
	}
	return nil
}

// RegisterGob registers a concrete type for gob so it can appear inside
// a checkpointed interface{} value. Callers must register every
// chainmodel entity type before calling Checkpoint or Load.
func RegisterGob(v interface{}) { gob.Register(v) }
