package wire

import "github.com/saito-io/saito-node/internal/core"

// EncodeBlockHeader serializes just the header fields: id(8) ||
// timestamp(8) || previous-hash(32) || creator(33) || merkle-root(32) ||
// signature(64) || treasury(8) || burnfee(8) || difficulty(8) ||
// staking-treasury(8). Full blocks append the transaction list.
func EncodeBlockHeader(b *core.Block) []byte {
	var buf []byte
	buf = putUint64(buf, b.ID)
	buf = putUint64(buf, uint64(b.Timestamp))
	buf = append(buf, b.PreviousHash[:]...)
	buf = append(buf, b.Creator[:]...)
	buf = append(buf, b.MerkleRoot[:]...)
	buf = append(buf, b.Signature[:]...)
	buf = putUint64(buf, uint64(b.Treasury))
	buf = putUint64(buf, uint64(b.BurnFee))
	buf = putUint64(buf, b.Difficulty)
	buf = putUint64(buf, uint64(b.StakingTreasury))
	return buf
}

const blockHeaderSize = 8 + 8 + 32 + 33 + 32 + 64 + 8 + 8 + 8 + 8

func decodeBlockHeader(r *reader, b *core.Block) error {
	id, err := r.uint64()
	if err != nil {
		return err
	}
	b.ID = id

	ts, err := r.uint64()
	if err != nil {
		return err
	}
	b.Timestamp = core.Timestamp(ts)

	prev, err := r.hash()
	if err != nil {
		return err
	}
	b.PreviousHash = prev

	creator, err := r.publicKey()
	if err != nil {
		return err
	}
	b.Creator = creator

	merkle, err := r.hash()
	if err != nil {
		return err
	}
	b.MerkleRoot = merkle

	sig, err := r.signature()
	if err != nil {
		return err
	}
	b.Signature = sig

	treasury, err := r.uint64()
	if err != nil {
		return err
	}
	b.Treasury = core.Currency(treasury)

	burnfee, err := r.uint64()
	if err != nil {
		return err
	}
	b.BurnFee = core.Currency(burnfee)

	difficulty, err := r.uint64()
	if err != nil {
		return err
	}
	b.Difficulty = difficulty

	staking, err := r.uint64()
	if err != nil {
		return err
	}
	b.StakingTreasury = core.Currency(staking)
	return nil
}

// EncodeBlock serializes a full block: header || tx-count(4) ||
// length-prefixed encoded transactions.
func EncodeBlock(b *core.Block) []byte {
	buf := EncodeBlockHeader(b)
	buf = putUint32(buf, uint32(len(b.Transactions)))
	for i := range b.Transactions {
		buf = putBytes(buf, EncodeTransaction(&b.Transactions[i]))
	}
	return buf
}

// DecodeBlock parses the encoding produced by EncodeBlock.
func DecodeBlock(raw []byte) (*core.Block, error) {
	r := &reader{b: raw}
	b := &core.Block{}
	if err := decodeBlockHeader(r, b); err != nil {
		return nil, err
	}
	txCount, err := r.uint32()
	if err != nil {
		return nil, err
	}
	b.Transactions = make([]core.Transaction, txCount)
	for i := range b.Transactions {
		txBytes, err := r.bytes()
		if err != nil {
			return nil, err
		}
		tx, err := DecodeTransaction(txBytes)
		if err != nil {
			return nil, err
		}
		b.Transactions[i] = *tx
	}
	if r.remaining() != 0 {
		return nil, errTrailing
	}
	return b, nil
}

// DecodeBlockHeaderOnly parses just the fixed-width header prefix,
// ignoring any transaction bytes that follow — useful for peers that
// only want block metadata.
func DecodeBlockHeaderOnly(raw []byte) (*core.Block, error) {
	if len(raw) < blockHeaderSize {
		return nil, errTrailing
	}
	r := &reader{b: raw[:blockHeaderSize]}
	b := &core.Block{}
	if err := decodeBlockHeader(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
