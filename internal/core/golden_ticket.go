package core

import "math/big"

// GoldenTicketWireSize is the exact byte length of a GoldenTicket when
// embedded in a GoldenTicket transaction's Message: target(32) ||
// random(32) || publickey(33).
const GoldenTicketWireSize = HashSize + HashSize + PublicKeySize

// GoldenTicket is a proof-of-work submission over a recent block's hash.
type GoldenTicket struct {
	Target    Hash
	Random    Hash
	PublicKey PublicKey
}

// NewGoldenTicket constructs a GoldenTicket from its three fields.
func NewGoldenTicket(target, random Hash, pk PublicKey) GoldenTicket {
	return GoldenTicket{Target: target, Random: random, PublicKey: pk}
}

// GenerateSolution computes H(target || random || publickey).
func GenerateSolution(target, random Hash, pk PublicKey) Hash {
	return Hash256(target[:], random[:], pk[:])
}

// Solution returns this ticket's solution hash.
func (g GoldenTicket) Solution() Hash {
	return GenerateSolution(g.Target, g.Random, g.PublicKey)
}

// SerializeForTransaction returns the 97-byte wire payload carried in a
// GoldenTicket transaction's Message field.
func (g GoldenTicket) SerializeForTransaction() []byte {
	out := make([]byte, 0, GoldenTicketWireSize)
	out = append(out, g.Target[:]...)
	out = append(out, g.Random[:]...)
	out = append(out, g.PublicKey[:]...)
	return out
}

// DeserializeGoldenTicket parses the 97-byte wire payload produced by
// SerializeForTransaction.
func DeserializeGoldenTicket(b []byte) (GoldenTicket, bool) {
	if len(b) != GoldenTicketWireSize {
		return GoldenTicket{}, false
	}
	var g GoldenTicket
	copy(g.Target[:], b[0:32])
	copy(g.Random[:], b[32:64])
	copy(g.PublicKey[:], b[64:97])
	return g, true
}

// DifficultyTarget computes the 256-bit bitmask for difficulty d: the
// first d/16 nibbles are 0, the next nibble is 15-(d mod 16), and every
// remaining nibble is F. d=0 yields all-F (everything passes); raising d
// never enlarges the target (d=16k-1 and d=16k give the same target).
func DifficultyTarget(d uint64) Hash {
	leadingZeroNibbles := d / 16
	finalDigit := byte(15 - (d % 16))

	var nibbles [64]byte
	for i := range nibbles {
		switch {
		case uint64(i) < leadingZeroNibbles:
			nibbles[i] = 0x0
		case uint64(i) == leadingZeroNibbles:
			nibbles[i] = finalDigit
		default:
			nibbles[i] = 0xF
		}
	}

	var out Hash
	for i := 0; i < HashSize; i++ {
		out[i] = nibbles[2*i]<<4 | nibbles[2*i+1]
	}
	return out
}

// IsValidSolution reports whether solution <= DifficultyTarget(difficulty)
// when both are read as 256-bit big-endian unsigned integers. This is
// monotone in difficulty: if valid at d, it is valid at every d' < d,
// because DifficultyTarget only shrinks as d grows.
func IsValidSolution(solution Hash, difficulty uint64) bool {
	target := DifficultyTarget(difficulty)
	sol := new(big.Int).SetBytes(solution[:])
	tgt := new(big.Int).SetBytes(target[:])
	return sol.Cmp(tgt) <= 0
}
