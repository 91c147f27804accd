// Package mempool holds unconfirmed transactions and the block-bundling
// policy.
package mempool

import (
	"hash"
	"hash/fnv"
	"sync"

	"github.com/steakknife/bloomfilter"
	"gopkg.in/karalabe/cookiejar.v2/collections/queue"

	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/errs"
	"github.com/saito-io/saito-node/internal/log"
)

var logger = log.NewModuleLogger(log.ModuleMempool)

// MinInterBlockIntervalMs is the default minimum spacing between
// locally produced blocks.
const MinInterBlockIntervalMs = 1000

// bloomM/bloomK size the "already seen" pre-check; false positives only
// cost a wasted map lookup, they never cause incorrect bundling, so a
// modest size is fine.
const bloomM = 1 << 20
const bloomK = 7

// Signer is the minimal key-holding surface Mempool needs to produce a
// signed block: the node's own identity.
type Signer interface {
	PublicKey() core.PublicKey
	Sign(hash core.Hash) core.Signature
}

// ChainReader is the minimal Blockchain surface Mempool's bundling
// policy depends on.
type ChainReader interface {
	Tip() (core.Hash, uint64)
	GetBlock(hash core.Hash) (*core.Block, bool)
}

// Mempool holds unconfirmed transactions keyed by signing-hash
// (insertion order preserved), a FIFO of golden tickets awaiting
// inclusion, and a queue of locally produced but not-yet-applied blocks.
type Mempool struct {
	mu sync.RWMutex

	order   []core.Hash
	byHash  map[core.Hash]*core.Transaction
	seen    *bloomfilter.Filter
	tickets *queue.Queue
	pending *queue.Queue

	signer Signer

	lastBlockProducedAtMs uint64
}

// New creates an empty Mempool. signer supplies the keys used to sign
// locally bundled blocks.
func New(signer Signer) *Mempool {
	filter, err := bloomfilter.NewOptimal(bloomM, 1e-6)
	if err != nil {
		filter, _ = bloomfilter.New(uint64(bloomM), uint64(bloomK))
	}
	return &Mempool{
		byHash:  make(map[core.Hash]*core.Transaction),
		seen:    filter,
		tickets: queue.New(),
		pending: queue.New(),
		signer:  signer,
	}
}

func bloomKeyForHash(h core.Hash) hash.Hash64 {
	sum := fnv.New64a()
	sum.Write(h[:])
	return sum
}

// AddTransaction inserts tx if its signing hash is not already present.
// Per the mempool invariant, tx must already pass single-transaction
// validity checks; AddTransaction re-asserts that rather than trusting
// the caller blindly.
func (m *Mempool) AddTransaction(tx *core.Transaction) error {
	if !tx.IsValid() {
		return errs.New(errs.Invalid, "mempool: transaction fails single-transaction validity check")
	}
	h := tx.SigningHash()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byHash[h]; exists {
		return errs.New(errs.Invalid, "mempool: duplicate signing-hash")
	}
	m.byHash[h] = tx
	m.order = append(m.order, h)
	m.seen.Add(bloomKeyForHash(h))
	return nil
}

// RemoveTransaction deletes tx (by signing hash) from the mempool, used
// after its block is applied.
func (m *Mempool) RemoveTransaction(h core.Hash) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byHash[h]; !ok {
		return
	}
	delete(m.byHash, h)
	for i, oh := range m.order {
		if oh == h {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Contains reports whether a transaction with signing hash h is
// currently in the mempool. The bloom filter short-circuits misses
// cheaply; a hit falls through to the authoritative map lookup.
func (m *Mempool) Contains(h core.Hash) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.seen.Contains(bloomKeyForHash(h)) {
		return false
	}
	_, ok := m.byHash[h]
	return ok
}

// Len returns the number of unconfirmed transactions.
func (m *Mempool) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

// PushGoldenTicket enqueues a mined golden ticket awaiting inclusion.
func (m *Mempool) PushGoldenTicket(gt core.GoldenTicket) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickets.Push(gt)
}

// PendingGoldenTickets reports how many golden tickets are queued.
func (m *Mempool) PendingGoldenTickets() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tickets.Size()
}

// EnqueueProducedBlock records a locally bundled block as pending
// application: enqueue, then drain by removing its transactions from
// the mempool and applying it to the chain.
func (m *Mempool) EnqueueProducedBlock(b *core.Block) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending.Push(b)
}

// DrainProducedBlock pops the next produced-but-not-applied block, or
// returns nil if the queue is empty.
func (m *Mempool) DrainProducedBlock() *core.Block {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending.Size() == 0 {
		return nil
	}
	return m.pending.Pop().(*core.Block)
}
