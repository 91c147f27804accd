package wire

import (
	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/errs"
)

var errUnknownMessageType = errs.New(errs.Invalid, "wire: unknown message type")

// MessageType is the first byte of every peer-to-peer wire message.
type MessageType byte

const (
	MsgHandshakeChallenge MessageType = iota + 1
	MsgHandshakeResponse
	MsgHandshakeCompletion
	MsgApplicationMessage
	MsgBlock
	MsgTransaction
	MsgBlockchainRequest
	MsgBlockHeaderHash
)

// HandshakeChallenge is tag 1: publickey(33) || challenge-nonce(32).
type HandshakeChallenge struct {
	PublicKey core.PublicKey
	Nonce     core.Hash
}

// HandshakeResponse is tag 2: publickey(33) || signature(64) || nonce(32).
type HandshakeResponse struct {
	PublicKey core.PublicKey
	Signature core.Signature
	Nonce     core.Hash
}

// HandshakeCompletion is tag 3: signature(64).
type HandshakeCompletion struct {
	Signature core.Signature
}

// ApplicationMessage is tag 4: length-prefixed opaque bytes.
type ApplicationMessage struct {
	Payload []byte
}

// BlockMessage is tag 5: a full block.
type BlockMessage struct {
	Block *core.Block
}

// TransactionMessage is tag 6: a full transaction.
type TransactionMessage struct {
	Transaction *core.Transaction
}

// BlockchainRequest is tag 7: u64 latest_id || 32-byte latest_hash ||
// 32-byte fork_id.
type BlockchainRequest struct {
	LatestID   uint64
	LatestHash core.Hash
	ForkID     core.Hash
}

// BlockHeaderHash is tag 8: a 32-byte hash.
type BlockHeaderHash struct {
	Hash core.Hash
}

// Encode serializes any of the message payload types above, tag-prefixed.
func Encode(msg interface{}) ([]byte, error) {
	switch m := msg.(type) {
	case HandshakeChallenge:
		buf := []byte{byte(MsgHandshakeChallenge)}
		buf = append(buf, m.PublicKey[:]...)
		buf = append(buf, m.Nonce[:]...)
		return buf, nil
	case HandshakeResponse:
		buf := []byte{byte(MsgHandshakeResponse)}
		buf = append(buf, m.PublicKey[:]...)
		buf = append(buf, m.Signature[:]...)
		buf = append(buf, m.Nonce[:]...)
		return buf, nil
	case HandshakeCompletion:
		buf := []byte{byte(MsgHandshakeCompletion)}
		buf = append(buf, m.Signature[:]...)
		return buf, nil
	case ApplicationMessage:
		buf := []byte{byte(MsgApplicationMessage)}
		buf = putBytes(buf, m.Payload)
		return buf, nil
	case BlockMessage:
		buf := []byte{byte(MsgBlock)}
		buf = append(buf, EncodeBlock(m.Block)...)
		return buf, nil
	case TransactionMessage:
		buf := []byte{byte(MsgTransaction)}
		buf = append(buf, EncodeTransaction(m.Transaction)...)
		return buf, nil
	case BlockchainRequest:
		buf := []byte{byte(MsgBlockchainRequest)}
		buf = putUint64(buf, m.LatestID)
		buf = append(buf, m.LatestHash[:]...)
		buf = append(buf, m.ForkID[:]...)
		return buf, nil
	case BlockHeaderHash:
		buf := []byte{byte(MsgBlockHeaderHash)}
		buf = append(buf, m.Hash[:]...)
		return buf, nil
	default:
		return nil, errUnknownMessageType
	}
}

// Decode dispatches on the first byte and returns one of the typed
// payload structs above as an interface{}.
func Decode(raw []byte) (interface{}, error) {
	if len(raw) < 1 {
		return nil, errTrailing
	}
	tag := MessageType(raw[0])
	r := &reader{b: raw[1:]}

	switch tag {
	case MsgHandshakeChallenge:
		pk, err := r.publicKey()
		if err != nil {
			return nil, err
		}
		nonce, err := r.hash()
		if err != nil {
			return nil, err
		}
		return HandshakeChallenge{PublicKey: pk, Nonce: nonce}, nil
	case MsgHandshakeResponse:
		pk, err := r.publicKey()
		if err != nil {
			return nil, err
		}
		sig, err := r.signature()
		if err != nil {
			return nil, err
		}
		nonce, err := r.hash()
		if err != nil {
			return nil, err
		}
		return HandshakeResponse{PublicKey: pk, Signature: sig, Nonce: nonce}, nil
	case MsgHandshakeCompletion:
		sig, err := r.signature()
		if err != nil {
			return nil, err
		}
		return HandshakeCompletion{Signature: sig}, nil
	case MsgApplicationMessage:
		payload, err := r.bytes()
		if err != nil {
			return nil, err
		}
		return ApplicationMessage{Payload: payload}, nil
	case MsgBlock:
		b, err := DecodeBlock(r.b[r.pos:])
		if err != nil {
			return nil, err
		}
		return BlockMessage{Block: b}, nil
	case MsgTransaction:
		tx, err := DecodeTransaction(r.b[r.pos:])
		if err != nil {
			return nil, err
		}
		return TransactionMessage{Transaction: tx}, nil
	case MsgBlockchainRequest:
		id, err := r.uint64()
		if err != nil {
			return nil, err
		}
		latest, err := r.hash()
		if err != nil {
			return nil, err
		}
		fork, err := r.hash()
		if err != nil {
			return nil, err
		}
		return BlockchainRequest{LatestID: id, LatestHash: latest, ForkID: fork}, nil
	case MsgBlockHeaderHash:
		h, err := r.hash()
		if err != nil {
			return nil, err
		}
		return BlockHeaderHash{Hash: h}, nil
	default:
		return nil, errUnknownMessageType
	}
}
