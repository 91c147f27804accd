package wire

import "github.com/saito-io/saito-node/internal/core"

// EncodeSlip serializes a Slip as publickey(33) || amount(8) || uuid(32)
// || ordinal(1) || type(1) = 75 bytes.
func EncodeSlip(s core.Slip) []byte {
	buf := make([]byte, 0, 75)
	buf = append(buf, s.PublicKey[:]...)
	buf = putUint64(buf, uint64(s.Amount))
	buf = append(buf, s.UUID[:]...)
	buf = append(buf, s.Ordinal, byte(s.Type))
	return buf
}

func (r *reader) slip() (core.Slip, error) {
	pk, err := r.publicKey()
	if err != nil {
		return core.Slip{}, err
	}
	amount, err := r.uint64()
	if err != nil {
		return core.Slip{}, err
	}
	uuid, err := r.hash()
	if err != nil {
		return core.Slip{}, err
	}
	ob, err := r.take(2)
	if err != nil {
		return core.Slip{}, err
	}
	return core.Slip{
		PublicKey: pk,
		Amount:    core.Currency(amount),
		UUID:      uuid,
		Ordinal:   ob[0],
		Type:      core.SlipType(ob[1]),
	}, nil
}

// DecodeSlip parses a 75-byte slip encoding.
func DecodeSlip(b []byte) (core.Slip, error) {
	r := &reader{b: b}
	s, err := r.slip()
	if err != nil {
		return core.Slip{}, err
	}
	if r.remaining() != 0 {
		return core.Slip{}, errTrailing
	}
	return s, nil
}
