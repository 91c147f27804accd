// Package storage implements the disk-backed adapters behind the node's
// Storage boundary: block persistence (badger) and the wallet file's
// atomic-write fallback (cespare/cp).
package storage

import (
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger"

	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/errs"
	"github.com/saito-io/saito-node/internal/log"
	"github.com/saito-io/saito-node/internal/wire"
)

var logger = log.NewModuleLogger(log.ModuleStorage)

const (
	gcThreshold      = int64(1 << 30)
	sizeGCTickerTime = 1 * time.Minute
)

// Storage is the badger-backed implementation of blockchain.BlockPersister
// and netio.BlockSource: blocks are stored by hash, values holding their
// full wire encoding.
type Storage struct {
	db       *badger.DB
	gcTicker *time.Ticker
	done     chan struct{}
}

// Open creates or opens a badger database rooted at dir.
func Open(dir string) (*Storage, error) {
	if fi, err := os.Stat(dir); err == nil {
		if !fi.IsDir() {
			return nil, errs.Newf(errs.StorageIO, "storage: %s exists and is not a directory", dir)
		}
	} else if os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errs.Wrap(errs.StorageIO, err, "storage: failed to create data directory")
		}
	} else {
		return nil, errs.Wrap(errs.StorageIO, err, "storage: failed to stat data directory")
	}

	opts := badger.DefaultOptions
	opts.Dir = dir
	opts.ValueDir = dir

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errs.Wrap(errs.StorageIO, err, "storage: failed to open badger database")
	}

	s := &Storage{
		db:       db,
		gcTicker: time.NewTicker(sizeGCTickerTime),
		done:     make(chan struct{}),
	}
	go s.runValueLogGC()
	return s, nil
}

func (s *Storage) runValueLogGC() {
	_, lastSize := s.db.Size()
	for {
		select {
		case <-s.gcTicker.C:
			_, curSize := s.db.Size()
			if curSize-lastSize < gcThreshold {
				continue
			}
			if err := s.db.RunValueLogGC(0.5); err != nil {
				logger.Warn("value log gc failed", "err", err.Error())
				continue
			}
			_, lastSize = s.db.Size()
		case <-s.done:
			return
		}
	}
}

func blockKey(hash core.Hash) []byte {
	return append([]byte("block/"), hash[:]...)
}

// PersistBlock implements blockchain.BlockPersister: stores b's full
// wire encoding keyed by its hash.
func (s *Storage) PersistBlock(b *core.Block) error {
	raw := wire.EncodeBlock(b)
	txn := s.db.NewTransaction(true)
	defer txn.Discard()
	if err := txn.Set(blockKey(b.Hash()), raw); err != nil {
		return errs.Wrap(errs.StorageIO, err, "storage: failed to stage block write")
	}
	if err := txn.Commit(nil); err != nil {
		return errs.Wrap(errs.StorageIO, err, "storage: failed to commit block write")
	}
	return nil
}

// BlockBytes implements netio.BlockSource: raw wire bytes by hash.
func (s *Storage) BlockBytes(hash core.Hash) ([]byte, bool) {
	txn := s.db.NewTransaction(false)
	defer txn.Discard()
	item, err := txn.Get(blockKey(hash))
	if err != nil {
		return nil, false
	}
	val, err := item.Value()
	if err != nil {
		return nil, false
	}
	return val, true
}

// GetBlock reads and decodes a block by hash.
func (s *Storage) GetBlock(hash core.Hash) (*core.Block, bool) {
	raw, ok := s.BlockBytes(hash)
	if !ok {
		return nil, false
	}
	b, err := wire.DecodeBlock(raw)
	if err != nil {
		logger.Warn("stored block failed to decode", "hash", hash.String(), "err", err.Error())
		return nil, false
	}
	return b, true
}

// ReplayBlocks iterates every persisted block in storage order and
// invokes fn for each, letting a node replay on-disk blocks on startup
// before accepting live events. Iteration order is not block-id order;
// callers that need ordering should sort after collecting.
func (s *Storage) ReplayBlocks(fn func(*core.Block) error) error {
	txn := s.db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	prefix := []byte("block/")
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		val, err := it.Item().Value()
		if err != nil {
			return errs.Wrap(errs.StorageIO, err, "storage: failed to read block during replay")
		}
		b, err := wire.DecodeBlock(val)
		if err != nil {
			return errs.Wrap(errs.Invalid, err, "storage: failed to decode block during replay")
		}
		if err := fn(b); err != nil {
			return err
		}
	}
	return nil
}

// Close stops the GC loop and closes the database.
func (s *Storage) Close() error {
	close(s.done)
	s.gcTicker.Stop()
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("storage: failed to close badger database: %w", err)
	}
	return nil
}
