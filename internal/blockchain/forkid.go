package blockchain

import "github.com/saito-io/saito-node/internal/core"

// ForkIDOffsets pins the exact sampling schedule a fork-id fingerprint is
// built from: the tip itself, then geometrically increasing depths below
// it. This schedule must not be guessed differently by two peers or their
// fork-ids would never compare equal.
var ForkIDOffsets = []uint64{0, 10, 50, 100, 500, 1000, 5000, 10000, 50000, 100000}

// longestChainHasher is the minimal read surface forkid needs from a
// Blockchain: the hash of the block at id on the current longest chain.
type longestChainHasher interface {
	HashAtLongestChain(id uint64) (core.Hash, bool)
}

// GenerateForkID fingerprints the chain as seen from tipID by hashing
// together the longest-chain block hash at each offset in ForkIDOffsets
// below tipID (offsets deeper than the chain collapse to the genesis
// hash contribution being repeated, which is fine: both peers compute
// the same collapse).
func GenerateForkID(chain longestChainHasher, tipID uint64) core.Hash {
	var parts [][]byte
	for _, off := range ForkIDOffsets {
		id := uint64(0)
		if tipID > off {
			id = tipID - off
		} else {
			id = 1
		}
		h, ok := chain.HashAtLongestChain(id)
		if !ok {
			h = core.Hash{}
		}
		parts = append(parts, h[:])
	}
	return core.Hash256(parts...)
}

// GenerateLastSharedAncestor compares our fork-id against a peer's
// advertised tip id and fork-id, returning a lower-bound id we both
// plausibly share. Any mismatch in the fingerprint falls back to id 0,
// leaving the subsequent header-hash stream to let the peer trim
// further by recognizing hashes it already has.
func GenerateLastSharedAncestor(ourForkID core.Hash, ourTipID uint64, theirTipID uint64, theirForkID core.Hash) uint64 {
	if ourForkID != theirForkID {
		return 0
	}
	if ourTipID < theirTipID {
		return ourTipID
	}
	return theirTipID
}
