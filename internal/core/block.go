package core

// Block is the fundamental unit of the chain.
type Block struct {
	ID               uint64
	Timestamp        Timestamp
	PreviousHash     Hash
	Creator          PublicKey
	MerkleRoot       Hash
	Signature        Signature
	Treasury         Currency
	BurnFee          Currency
	Difficulty       uint64
	StakingTreasury  Currency
	Transactions     []Transaction

	hash    Hash
	hashSet bool
}

// IsGenesis reports whether this is the chain's first block.
func (b *Block) IsGenesis() bool { return b.ID == 1 }

// Hash returns the block's hash, a pure function of its header fields,
// computing and caching it on first access.
func (b *Block) Hash() Hash {
	if b.hashSet {
		return b.hash
	}
	b.hash = b.computeHash()
	b.hashSet = true
	return b.hash
}

func (b *Block) computeHash() Hash {
	var buf []byte
	buf = appendUint64(buf, b.ID)
	buf = appendUint64(buf, uint64(b.Timestamp))
	buf = append(buf, b.PreviousHash[:]...)
	buf = append(buf, b.Creator[:]...)
	buf = append(buf, b.MerkleRoot[:]...)
	buf = appendUint64(buf, uint64(b.Treasury))
	buf = appendUint64(buf, uint64(b.BurnFee))
	buf = appendUint64(buf, b.Difficulty)
	buf = appendUint64(buf, uint64(b.StakingTreasury))
	return Hash256(buf)
}

// WithHash sets the cached hash read back off the wire.
func (b *Block) WithHash(h Hash) {
	b.hash = h
	b.hashSet = true
}

// VerifyHash recomputes the header hash fresh and reports whether it
// matches the cached value.
func (b *Block) VerifyHash() bool {
	return b.computeHash() == b.hash
}

// VerifySignature reports whether Signature is a valid signature by
// Creator over the block's hash.
func (b *Block) VerifySignature() bool {
	return Verify(b.Creator, b.Hash(), b.Signature)
}

// MerkleRootOf computes a merkle root over transaction signing hashes.
// The exact tree layout is an opaque consensus predicate; this is a
// simple binary tree sufficient to make MerkleRoot a deterministic
// function of the transaction set, which is all the pipeline above
// depends on.
func MerkleRootOf(txs []Transaction) Hash {
	if len(txs) == 0 {
		return Hash{}
	}
	level := make([]Hash, len(txs))
	for i := range txs {
		level[i] = txs[i].SigningHash()
	}
	for len(level) > 1 {
		next := make([]Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, Hash256(level[i][:], level[i+1][:]))
			} else {
				next = append(next, Hash256(level[i][:], level[i][:]))
			}
		}
		level = next
	}
	return level[0]
}
