// Package core holds the node's primitive data model: the fixed-width
// wire types (Hash, PublicKey, PrivateKey, Signature), the Slip / UTXOKey
// keying scheme, the Transaction and Block shapes, and the golden-ticket
// proof-of-work primitive. Nothing in this package does I/O.
package core

import (
	"encoding/hex"

	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/schnorr"
	"golang.org/x/crypto/sha3"
)

const (
	HashSize      = 32
	PublicKeySize = 33
	PrivateKeySize = 32
	SignatureSize = 64
	UTXOKeySize   = 74
)

// Hash is a 32-byte digest.
type Hash [HashSize]byte

func (h Hash) String() string   { return hex.EncodeToString(h[:]) }
func (h Hash) IsZero() bool     { return h == Hash{} }
func (h Hash) Bytes() []byte    { b := make([]byte, HashSize); copy(b, h[:]); return b }

// HashFromBytes copies b (which must be exactly HashSize long) into a Hash.
func HashFromBytes(b []byte) Hash {
	var h Hash
	copy(h[:], b)
	return h
}

// Hash256 computes the node's canonical digest: Keccak-256, matching the
// hashing convention of the broader codebase's lineage.
func Hash256(data ...[]byte) Hash {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	var h Hash
	d.Sum(h[:0])
	return h
}

// PublicKey is a compressed secp256k1 point.
type PublicKey [PublicKeySize]byte

func (p PublicKey) String() string { return hex.EncodeToString(p[:]) }
func (p PublicKey) IsZero() bool   { return p == PublicKey{} }

// PrivateKey is a secp256k1 scalar.
type PrivateKey [PrivateKeySize]byte

// Signature is a 64-byte secp256k1 signature (r||s, fixed width).
type Signature [SignatureSize]byte

func (s Signature) IsZero() bool { return s == Signature{} }

// GenerateKeypair creates a fresh secp256k1 keypair.
func GenerateKeypair() (PrivateKey, PublicKey, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return PrivateKey{}, PublicKey{}, err
	}
	var sk PrivateKey
	copy(sk[:], priv.Serialize())
	var pk PublicKey
	copy(pk[:], priv.PubKey().SerializeCompressed())
	return sk, pk, nil
}

// PublicKeyFromPrivate derives the compressed public key for sk.
func PublicKeyFromPrivate(sk PrivateKey) PublicKey {
	priv := secp256k1.PrivKeyFromBytes(sk[:])
	var pk PublicKey
	copy(pk[:], priv.PubKey().SerializeCompressed())
	return pk
}

// Sign produces a fixed-width 64-byte Schnorr signature over hash using
// sk. Schnorr signatures are used instead of DER-encoded ECDSA ones
// because the wire format requires a fixed 64-byte Signature.
func Sign(sk PrivateKey, hash Hash) Signature {
	priv := secp256k1.PrivKeyFromBytes(sk[:])
	sig, err := schnorr.Sign(priv, hash[:])
	if err != nil {
		return Signature{}
	}
	var out Signature
	copy(out[:], sig.Serialize())
	return out
}

// Verify reports whether sig is a valid signature over hash by pk.
func Verify(pk PublicKey, hash Hash, sig Signature) bool {
	pub, err := secp256k1.ParsePubKey(pk[:])
	if err != nil {
		return false
	}
	s, err := schnorr.ParseSignature(sig[:])
	if err != nil {
		return false
	}
	return s.Verify(hash[:], pub)
}

// Currency is an amount of nolan, the network's integer currency unit.
type Currency uint64

// Timestamp is milliseconds since the Unix epoch.
type Timestamp uint64

// PeerIndex is a locally assigned, monotonically increasing peer id.
type PeerIndex uint64
