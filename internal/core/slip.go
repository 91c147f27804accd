package core

import "encoding/binary"

// SlipType classifies what a Slip's value represents.
type SlipType byte

const (
	SlipNormal SlipType = iota
	SlipStakerDeposit
	SlipStakerOutput
	SlipStakerWithdrawalStaking
	SlipStakerWithdrawalPending
	SlipVipOutput
	SlipOther
)

// Slip is a single spendable output. It is uniquely identified by
// (UUID, Ordinal); UTXOKey is a pure function of that pair plus the
// owning public key and amount.
type Slip struct {
	PublicKey PublicKey
	Amount    Currency
	UUID      Hash // signing-hash of the transaction that created this slip
	Ordinal   byte // position within that transaction's outputs
	Type      SlipType
}

// UTXOKey returns the 74-byte key uniquely identifying this slip in the
// global unspent-output set: publickey(33) || uuid(32) || ordinal(1) ||
// amount(8).
func (s Slip) UTXOKey() [UTXOKeySize]byte {
	var k [UTXOKeySize]byte
	copy(k[0:33], s.PublicKey[:])
	copy(k[33:65], s.UUID[:])
	k[65] = s.Ordinal
	binary.BigEndian.PutUint64(k[66:74], uint64(s.Amount))
	return k
}

// UTXOStatus is the lifecycle state of a slip in the global UTXO set.
type UTXOStatus byte

const (
	UTXOUnspent UTXOStatus = iota
	UTXOSpent
	UTXOConsumedInBlock // blockchain.UTXOSet.Status also returns which block id
)
