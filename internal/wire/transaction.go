package wire

import (
	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/errs"
)

// EncodeTransaction serializes a transaction in full: timestamp(8) ||
// signing-hash(32) || signature(64) || path-count(4) || path hops ||
// type(1) || inputs-count(4) || inputs || outputs-count(4) || outputs ||
// message (length-prefixed).
func EncodeTransaction(tx *core.Transaction) []byte {
	var buf []byte
	buf = putUint64(buf, uint64(tx.Timestamp))
	h := tx.SigningHash()
	buf = append(buf, h[:]...)
	buf = append(buf, tx.Signature[:]...)

	buf = putUint32(buf, uint32(len(tx.Path)))
	for _, hop := range tx.Path {
		buf = append(buf, hop.From[:]...)
		buf = append(buf, hop.To[:]...)
		buf = append(buf, hop.Sig[:]...)
	}

	buf = append(buf, byte(tx.Type))

	buf = putUint32(buf, uint32(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		buf = append(buf, EncodeSlip(in)...)
	}
	buf = putUint32(buf, uint32(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		buf = append(buf, EncodeSlip(out)...)
	}

	buf = putBytes(buf, tx.Message)
	return buf
}

// DecodeTransaction parses the encoding produced by EncodeTransaction.
// The cached signing hash is restored via WithSigningHash and then
// checked with VerifySigningHash; a transaction whose encoded hash does
// not match its decoded contents is rejected as invalid.
func DecodeTransaction(b []byte) (*core.Transaction, error) {
	r := &reader{b: b}
	tx := &core.Transaction{}

	ts, err := r.uint64()
	if err != nil {
		return nil, err
	}
	tx.Timestamp = core.Timestamp(ts)

	h, err := r.hash()
	if err != nil {
		return nil, err
	}

	sig, err := r.signature()
	if err != nil {
		return nil, err
	}
	tx.Signature = sig

	pathCount, err := r.uint32()
	if err != nil {
		return nil, err
	}
	tx.Path = make([]core.PathHop, pathCount)
	for i := range tx.Path {
		from, err := r.publicKey()
		if err != nil {
			return nil, err
		}
		to, err := r.publicKey()
		if err != nil {
			return nil, err
		}
		s, err := r.signature()
		if err != nil {
			return nil, err
		}
		tx.Path[i] = core.PathHop{From: from, To: to, Sig: s}
	}

	typeByte, err := r.take(1)
	if err != nil {
		return nil, err
	}
	tx.Type = core.TransactionType(typeByte[0])

	inCount, err := r.uint32()
	if err != nil {
		return nil, err
	}
	tx.Inputs = make([]core.Slip, inCount)
	for i := range tx.Inputs {
		s, err := r.slip()
		if err != nil {
			return nil, err
		}
		tx.Inputs[i] = s
	}

	outCount, err := r.uint32()
	if err != nil {
		return nil, err
	}
	tx.Outputs = make([]core.Slip, outCount)
	for i := range tx.Outputs {
		s, err := r.slip()
		if err != nil {
			return nil, err
		}
		tx.Outputs[i] = s
	}

	msg, err := r.bytes()
	if err != nil {
		return nil, err
	}
	tx.Message = msg

	if r.remaining() != 0 {
		return nil, errTrailing
	}

	tx.WithSigningHash(h)
	if !tx.VerifySigningHash() {
		return nil, errs.New(errs.Invalid, "wire: signing hash does not match transaction contents")
	}
	return tx, nil
}
