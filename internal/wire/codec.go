// Package wire implements the peer-to-peer tagged-union message codec
// and the byte-exact Transaction/Block/Slip encodings. It is hand-rolled
// over encoding/binary rather than a generic serialization library
// because the wire format pins an exact byte layout per message type;
// a schema-driven codec would not reproduce that layout without
// fighting its own conventions. All integer fields are little-endian.
package wire

import (
	"encoding/binary"

	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/errs"
)

var errTrailing = errs.New(errs.Invalid, "wire: trailing bytes after decoding")

func putUint32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func putUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

func putBytes(buf []byte, b []byte) []byte {
	buf = putUint32(buf, uint32(len(b)))
	return append(buf, b...)
}

type reader struct {
	b   []byte
	pos int
}

func (r *reader) remaining() int { return len(r.b) - r.pos }

func (r *reader) take(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, errs.Newf(errs.Invalid, "wire: need %d bytes, have %d", n, r.remaining())
	}
	out := r.b[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *reader) uint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) uint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *reader) bytes() ([]byte, error) {
	n, err := r.uint32()
	if err != nil {
		return nil, err
	}
	return r.take(int(n))
}

func (r *reader) hash() (core.Hash, error) {
	b, err := r.take(core.HashSize)
	if err != nil {
		return core.Hash{}, err
	}
	return core.HashFromBytes(b), nil
}

func (r *reader) publicKey() (core.PublicKey, error) {
	b, err := r.take(core.PublicKeySize)
	if err != nil {
		return core.PublicKey{}, err
	}
	var pk core.PublicKey
	copy(pk[:], b)
	return pk, nil
}

func (r *reader) signature() (core.Signature, error) {
	b, err := r.take(core.SignatureSize)
	if err != nil {
		return core.Signature{}, err
	}
	var sig core.Signature
	copy(sig[:], b)
	return sig, nil
}
