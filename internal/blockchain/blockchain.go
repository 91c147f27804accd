// Package blockchain owns the set of known blocks, the blockring height
// index, the UTXO set, and the fork-choice/reorg logic.
package blockchain

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/multierr"

	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/errs"
	"github.com/saito-io/saito-node/internal/log"
)

var logger = log.NewModuleLogger(log.ModuleBlockchain)

// WalletNotifier is the minimal callback surface the wallet implements
// so Blockchain can drive UTXO tracking during block application and
// reorgs without importing the wallet package (wallet imports
// blockchain's types, not the reverse).
type WalletNotifier interface {
	OnBlockApplied(b *core.Block, isLongestChain bool)
	OnBlockUnwound(b *core.Block)
}

// BlockPersister is the storage boundary: fire-and-forget persistence of
// a block's bytes. Errors are logged, not propagated.
type BlockPersister interface {
	PersistBlock(b *core.Block) error
}

// recentHeaderCacheSize sizes the headerCache LRU that New allocates;
// AddBlock and the lookups neither store blocks in it nor read from it.
const recentHeaderCacheSize = 4096

// Blockchain is the universe of known blocks plus the blockring, the
// UTXO set, and the current longest-chain tip.
type Blockchain struct {
	mu sync.RWMutex

	blocksByHash map[core.Hash]*core.Block
	ring         *Blockring
	utxo         *UTXOSet
	headerCache  *lru.Cache

	tipHash core.Hash
	tipID   uint64

	wallet  WalletNotifier
	storage BlockPersister

	minInterBlockIntervalMs uint64
	lastBlockProducedAt     uint64
}

// New creates an empty Blockchain. wallet and storage may be nil; set
// them with SetWalletNotifier/SetStorage before accepting live blocks if
// UTXO tracking or persistence is required.
func New() *Blockchain {
	cache, _ := lru.New(recentHeaderCacheSize)
	return &Blockchain{
		blocksByHash:            make(map[core.Hash]*core.Block),
		ring:                    NewBlockring(0),
		utxo:                    NewUTXOSet(),
		headerCache:             cache,
		minInterBlockIntervalMs: 1000,
	}
}

// SetWalletNotifier wires the wallet so block application drives UTXO
// bookkeeping.
func (bc *Blockchain) SetWalletNotifier(w WalletNotifier) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.wallet = w
}

// SetStorage wires the persistence adapter used after a block is
// accepted.
func (bc *Blockchain) SetStorage(s BlockPersister) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.storage = s
}

// Tip returns the current longest-chain tip hash and id.
func (bc *Blockchain) Tip() (core.Hash, uint64) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.tipHash, bc.tipID
}

// GetBlock returns the block known by hash, if any.
func (bc *Blockchain) GetBlock(hash core.Hash) (*core.Block, bool) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	b, ok := bc.blocksByHash[hash]
	return b, ok
}

// HasBlock reports whether hash is already indexed.
func (bc *Blockchain) HasBlock(hash core.Hash) bool {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	_, ok := bc.blocksByHash[hash]
	return ok
}

// HashAtLongestChain implements longestChainHasher for forkid.go.
func (bc *Blockchain) HashAtLongestChain(id uint64) (core.Hash, bool) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.ring.LongestChainHash(id)
}

// ForkID fingerprints the chain as seen from the current tip.
func (bc *Blockchain) ForkID() core.Hash {
	bc.mu.RLock()
	tip := bc.tipID
	bc.mu.RUnlock()
	return GenerateForkID(bc, tip)
}

// LongestChainBlocksFrom returns, in ascending id order, every
// longest-chain block with id in (fromID, tipID] — used to answer a
// BlockchainRequest by streaming BlockHeaderHash messages.
func (bc *Blockchain) LongestChainBlocksFrom(fromID uint64) []core.Hash {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	var out []core.Hash
	for id := fromID + 1; id <= bc.tipID; id++ {
		if h, ok := bc.ring.LongestChainHash(id); ok {
			out = append(out, h)
		}
	}
	return out
}

// AddResult reports what happened when a block was submitted.
type AddResult struct {
	Accepted        bool
	BecameTip       bool
	AlreadyIndexed  bool
	NewDifficulty   uint64
}

// AddBlock implements the block-application algorithm: short-circuit if
// already known, verify signature and ancestry, extend or fork, reorg
// if the new block becomes the longest-chain tip, then persist.
func (bc *Blockchain) AddBlock(b *core.Block) (AddResult, error) {
	hash := b.Hash()

	bc.mu.Lock()
	if _, exists := bc.blocksByHash[hash]; exists {
		bc.mu.Unlock()
		return AddResult{Accepted: true, AlreadyIndexed: true}, nil
	}
	bc.mu.Unlock()

	if !b.IsGenesis() {
		if !b.VerifySignature() {
			return AddResult{}, errs.New(errs.Invalid, "block: invalid signature")
		}
		if _, ok := bc.GetBlock(b.PreviousHash); !ok {
			return AddResult{}, errs.New(errs.Invalid, "block: previous hash not indexed")
		}
	}

	bc.mu.Lock()
	bc.blocksByHash[hash] = b
	bc.ring.AddHash(b.ID, hash)
	extendsTip := b.IsGenesis() || b.PreviousHash == bc.tipHash
	becomesLongest := b.IsGenesis() || b.ID > bc.tipID || (b.ID == bc.tipID && extendsTip)
	bc.mu.Unlock()

	result := AddResult{Accepted: true, NewDifficulty: b.Difficulty}

	if becomesLongest {
		if err := bc.reorganizeTo(b); err != nil {
			return result, err
		}
		result.BecameTip = true
	}

	if bc.storage != nil {
		if err := bc.storage.PersistBlock(b); err != nil {
			logger.Warn("failed to persist block, keeping in memory", "hash", hash.String(), "err", err.Error())
		}
	}

	return result, nil
}

// reorganizeTo switches the longest-chain pointer to target: it walks
// back from the current tip and from target to their last shared
// ancestor, unwinds UTXO/wallet effects along the abandoned branch, and
// applies them along the new one.
func (bc *Blockchain) reorganizeTo(target *core.Block) error {
	bc.mu.Lock()
	oldTip, hadOldTip := bc.blocksByHash[bc.tipHash]
	if !hadOldTip {
		oldTip = nil
	}
	bc.mu.Unlock()

	var oldChain, newChain []*core.Block
	oldCursor, newCursor := oldTip, target

	oldSeen := make(map[core.Hash]bool)
	for oldCursor != nil {
		oldSeen[oldCursor.Hash()] = true
		if oldCursor.IsGenesis() {
			break
		}
		parent, ok := bc.GetBlock(oldCursor.PreviousHash)
		if !ok {
			break
		}
		oldCursor = parent
	}

	oldCursor = oldTip
	for newCursor != nil && !oldSeen[newCursor.Hash()] {
		newChain = append([]*core.Block{newCursor}, newChain...)
		if newCursor.IsGenesis() {
			break
		}
		parent, ok := bc.GetBlock(newCursor.PreviousHash)
		if !ok {
			break
		}
		newCursor = parent
	}

	ancestor := newCursor
	for oldCursor != nil && (ancestor == nil || oldCursor.Hash() != ancestor.Hash()) {
		oldChain = append(oldChain, oldCursor)
		if oldCursor.IsGenesis() {
			break
		}
		parent, ok := bc.GetBlock(oldCursor.PreviousHash)
		if !ok {
			break
		}
		oldCursor = parent
	}

	var errAll error
	for _, b := range oldChain {
		errAll = multierr.Append(errAll, bc.unwindBlock(b))
	}
	for _, b := range newChain {
		errAll = multierr.Append(errAll, bc.applyBlock(b))
	}

	bc.mu.Lock()
	bc.tipHash = target.Hash()
	bc.tipID = target.ID
	bc.ring.SetLongestChain(target.ID, target.Hash())
	bc.mu.Unlock()

	return errAll
}

func (bc *Blockchain) unwindBlock(b *core.Block) error {
	bc.mu.Lock()
	bc.ring.ClearLongestChain(b.ID)
	wallet := bc.wallet
	bc.mu.Unlock()

	for _, tx := range b.Transactions {
		for _, in := range tx.Inputs {
			bc.utxo.MarkUnspent(in.UTXOKey())
		}
		for _, out := range tx.Outputs {
			bc.utxo.Remove(out.UTXOKey())
		}
	}
	if wallet != nil {
		wallet.OnBlockUnwound(b)
	}
	return nil
}

func (bc *Blockchain) applyBlock(b *core.Block) error {
	bc.mu.Lock()
	bc.ring.SetLongestChain(b.ID, b.Hash())
	wallet := bc.wallet
	bc.mu.Unlock()

	for _, tx := range b.Transactions {
		for _, in := range tx.Inputs {
			bc.utxo.MarkSpent(in.UTXOKey(), b.ID)
		}
		for _, out := range tx.Outputs {
			bc.utxo.MarkUnspent(out.UTXOKey())
		}
	}
	if wallet != nil {
		wallet.OnBlockApplied(b, true)
	}
	return nil
}

// IsSpendable reports whether a slip's UTXOKey is known and unspent.
func (bc *Blockchain) IsSpendable(key [core.UTXOKeySize]byte) bool {
	return bc.utxo.IsSpendable(key)
}
