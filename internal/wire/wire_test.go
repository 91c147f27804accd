package wire

import (
	"testing"

	"github.com/saito-io/saito-node/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRoundTrip(t *testing.T) {
	tx := &core.Transaction{
		Timestamp: 42,
		Type:      core.TxNormal,
		Path:      []core.PathHop{{From: core.PublicKey{1}, To: core.PublicKey{2}, Sig: core.Signature{3}}},
		Inputs:    []core.Slip{{PublicKey: core.PublicKey{4}, Amount: 10, UUID: core.Hash{5}, Ordinal: 0}},
		Outputs:   []core.Slip{{PublicKey: core.PublicKey{6}, Amount: 8, UUID: core.Hash{5}, Ordinal: 1}},
		Message:   []byte("hello"),
	}
	tx.Signature = core.Signature{9, 9, 9}
	wantHash := tx.SigningHash()

	encoded := EncodeTransaction(tx)
	got, err := DecodeTransaction(encoded)
	require.NoError(t, err)

	assert.Equal(t, tx.Timestamp, got.Timestamp)
	assert.Equal(t, tx.Signature, got.Signature)
	assert.Equal(t, tx.Path, got.Path)
	assert.Equal(t, tx.Type, got.Type)
	assert.Equal(t, tx.Inputs, got.Inputs)
	assert.Equal(t, tx.Outputs, got.Outputs)
	assert.Equal(t, tx.Message, got.Message)
	assert.Equal(t, wantHash, got.SigningHash())
	assert.True(t, got.VerifySigningHash())
}

func TestBlockRoundTrip(t *testing.T) {
	tx := core.Transaction{Type: core.TxNormal, Inputs: []core.Slip{{Amount: 5}}, Outputs: []core.Slip{{Amount: 4}}}
	b := &core.Block{
		ID:              7,
		Timestamp:       100,
		PreviousHash:    core.Hash{1},
		Creator:         core.PublicKey{2},
		MerkleRoot:      core.MerkleRootOf([]core.Transaction{tx}),
		Signature:       core.Signature{3},
		Treasury:        1000,
		BurnFee:         5,
		Difficulty:      16,
		StakingTreasury: 0,
		Transactions:    []core.Transaction{tx},
	}

	encoded := EncodeBlock(b)
	got, err := DecodeBlock(encoded)
	require.NoError(t, err)

	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, b.PreviousHash, got.PreviousHash)
	assert.Equal(t, b.Creator, got.Creator)
	assert.Equal(t, b.MerkleRoot, got.MerkleRoot)
	assert.Equal(t, b.Signature, got.Signature)
	assert.Equal(t, b.Treasury, got.Treasury)
	assert.Equal(t, b.BurnFee, got.BurnFee)
	assert.Equal(t, b.Difficulty, got.Difficulty)
	assert.Len(t, got.Transactions, 1)

	header, err := DecodeBlockHeaderOnly(encoded)
	require.NoError(t, err)
	assert.Equal(t, b.ID, header.ID)
}

func TestMessageRoundTrip(t *testing.T) {
	cases := []interface{}{
		HandshakeChallenge{PublicKey: core.PublicKey{1}, Nonce: core.Hash{2}},
		HandshakeResponse{PublicKey: core.PublicKey{1}, Signature: core.Signature{2}, Nonce: core.Hash{3}},
		HandshakeCompletion{Signature: core.Signature{1}},
		ApplicationMessage{Payload: []byte("app")},
		BlockchainRequest{LatestID: 5, LatestHash: core.Hash{1}, ForkID: core.Hash{2}},
		BlockHeaderHash{Hash: core.Hash{7}},
	}
	for _, c := range cases {
		encoded, err := Encode(c)
		require.NoError(t, err)
		assert.Equal(t, byte(encoded[0]), encoded[0])

		got, err := Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestSlipRoundTrip(t *testing.T) {
	s := core.Slip{PublicKey: core.PublicKey{1}, Amount: 99, UUID: core.Hash{2}, Ordinal: 3, Type: core.SlipVipOutput}
	encoded := EncodeSlip(s)
	require.Len(t, encoded, 75)
	got, err := DecodeSlip(encoded)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}
