package blockchain

import (
	"encoding/binary"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/saito-io/saito-node/internal/core"
)

// utxoSetCacheBytes sizes the backing fastcache; UTXOKeys are 74 bytes
// and values are 9 bytes (status + consumed-in block id), so this holds
// on the order of several hundred thousand outputs before fastcache
// starts evicting old entries.
const utxoSetCacheBytes = 64 * 1024 * 1024

// UTXOSet tracks every slip the node has seen, keyed by its UTXOKey, as
// unspent, spent, or consumed-in-block-N. It is backed by fastcache
// rather than a plain map because UTXOKey is already a fixed-width byte
// key and the cache keeps lookups off the GC-scanned heap as the set
// grows into the millions of entries.
type UTXOSet struct {
	cache *fastcache.Cache
}

// NewUTXOSet creates an empty UTXO set.
func NewUTXOSet() *UTXOSet {
	return &UTXOSet{cache: fastcache.New(utxoSetCacheBytes)}
}

func encodeStatus(status core.UTXOStatus, consumedInBlock uint64) []byte {
	buf := make([]byte, 9)
	buf[0] = byte(status)
	binary.BigEndian.PutUint64(buf[1:], consumedInBlock)
	return buf
}

func decodeStatus(b []byte) (core.UTXOStatus, uint64) {
	if len(b) != 9 {
		return core.UTXOUnspent, 0
	}
	return core.UTXOStatus(b[0]), binary.BigEndian.Uint64(b[1:])
}

// MarkUnspent records slip as unspent (its creating transaction is now
// on the longest chain).
func (u *UTXOSet) MarkUnspent(key [core.UTXOKeySize]byte) {
	u.cache.Set(key[:], encodeStatus(core.UTXOUnspent, 0))
}

// MarkSpent records slip as consumed by blockID.
func (u *UTXOSet) MarkSpent(key [core.UTXOKeySize]byte, blockID uint64) {
	u.cache.Set(key[:], encodeStatus(core.UTXOConsumedInBlock, blockID))
}

// Remove deletes all knowledge of slip, used when unwinding a branch
// during a reorg undoes the transaction that created it.
func (u *UTXOSet) Remove(key [core.UTXOKeySize]byte) {
	u.cache.Del(key[:])
}

// Status reports what is known about key, or ok=false if the set has
// never seen it.
func (u *UTXOSet) Status(key [core.UTXOKeySize]byte) (status core.UTXOStatus, consumedInBlock uint64, ok bool) {
	val, found := u.cache.HasGet(nil, key[:])
	if !found {
		return 0, 0, false
	}
	status, consumedInBlock = decodeStatus(val)
	return status, consumedInBlock, true
}

// IsSpendable reports whether key is known and currently unspent.
func (u *UTXOSet) IsSpendable(key [core.UTXOKeySize]byte) bool {
	status, _, ok := u.Status(key)
	return ok && status == core.UTXOUnspent
}
