package blockchain

import (
	"github.com/pbnjay/memory"
	"github.com/saito-io/saito-node/internal/core"
)

// DefaultRingSize is the blockring capacity used when the host doesn't
// override it: a power-of-two floor of 65536. On hosts with no more than
// 8GiB of free memory the ring stays at 65536 itself — the memory probe is only used to let
// generous hosts track deeper reorg history, never to shrink below the
// floor.
const DefaultRingSize = 65536

// ringCapacityForMemory scales the default ring size up (never down) on
// hosts with ample RAM, keeping the result a power of two.
func ringCapacityForMemory() uint64 {
	avail := memory.FreeMemory()
	cap := uint64(DefaultRingSize)
	const threshold = 8 << 30 // 8GiB
	for avail > threshold && cap < (1<<24) {
		cap *= 2
		avail /= 2
	}
	return cap
}

type ringSlot struct {
	hashes   []core.Hash
	longest  core.Hash
	hasBlock bool
}

// Blockring is a bounded ring buffer mapping block-id to the set of
// known block hashes at that height, tracking which one (if any) is on
// the currently longest chain. Overflow policy is to drop the oldest
// slot's bookkeeping: deep reorgs past the ring are not supported, which
// is an accepted limitation, not a bug.
type Blockring struct {
	size  uint64
	slots []ringSlot
}

// NewBlockring creates a ring sized per ringCapacityForMemory. Pass 0 to
// size to use that default, or a specific power-of-two capacity.
func NewBlockring(size uint64) *Blockring {
	if size == 0 {
		size = ringCapacityForMemory()
	}
	return &Blockring{size: size, slots: make([]ringSlot, size)}
}

func (r *Blockring) slotIndex(id uint64) uint64 { return id % r.size }

// AddHash records that hash is a known block at id, without affecting
// which hash (if any) is marked longest-chain at that height.
func (r *Blockring) AddHash(id uint64, hash core.Hash) {
	idx := r.slotIndex(id)
	slot := &r.slots[idx]
	for _, h := range slot.hashes {
		if h == hash {
			return
		}
	}
	slot.hashes = append(slot.hashes, hash)
}

// SetLongestChain marks hash as the longest-chain block at id. At most
// one hash per id may be marked longest-chain; setting a new one
// replaces the old mark at that height.
func (r *Blockring) SetLongestChain(id uint64, hash core.Hash) {
	idx := r.slotIndex(id)
	slot := &r.slots[idx]
	slot.longest = hash
	slot.hasBlock = true
}

// ClearLongestChain unmarks whichever hash was longest-chain at id,
// used when unwinding a branch during a reorg.
func (r *Blockring) ClearLongestChain(id uint64) {
	idx := r.slotIndex(id)
	r.slots[idx].hasBlock = false
	r.slots[idx].longest = core.Hash{}
}

// LongestChainHash returns the hash marked longest-chain at id, if any.
func (r *Blockring) LongestChainHash(id uint64) (core.Hash, bool) {
	slot := &r.slots[r.slotIndex(id)]
	if !slot.hasBlock {
		return core.Hash{}, false
	}
	return slot.longest, true
}

// HashesAt returns every known hash at id regardless of longest-chain
// status.
func (r *Blockring) HashesAt(id uint64) []core.Hash {
	slot := &r.slots[r.slotIndex(id)]
	out := make([]core.Hash, len(slot.hashes))
	copy(out, slot.hashes)
	return out
}

// DeleteHash removes hash from id's known-hash set entirely, used when a
// block is dropped (e.g. the ring evicts a slot it is about to reuse for
// a much later height).
func (r *Blockring) DeleteHash(id uint64, hash core.Hash) {
	idx := r.slotIndex(id)
	slot := &r.slots[idx]
	for i, h := range slot.hashes {
		if h == hash {
			slot.hashes = append(slot.hashes[:i], slot.hashes[i+1:]...)
			return
		}
	}
}
