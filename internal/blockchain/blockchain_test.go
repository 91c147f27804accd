package blockchain

import (
	"testing"

	"github.com/saito-io/saito-node/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedBlock(t *testing.T, sk core.PrivateKey, pk core.PublicKey, id uint64, prev core.Hash) *core.Block {
	t.Helper()
	b := &core.Block{ID: id, PreviousHash: prev, Creator: pk, Timestamp: core.Timestamp(id * 1000)}
	b.Signature = core.Sign(sk, b.Hash())
	require.True(t, b.VerifySignature())
	return b
}

func TestAddBlockGenesisAndExtend(t *testing.T) {
	sk, pk, err := core.GenerateKeypair()
	require.NoError(t, err)

	bc := New()
	genesis := &core.Block{ID: 1, Creator: pk}
	res, err := bc.AddBlock(genesis)
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.True(t, res.BecameTip)

	tipHash, tipID := bc.Tip()
	assert.Equal(t, genesis.Hash(), tipHash)
	assert.Equal(t, uint64(1), tipID)

	b2 := signedBlock(t, sk, pk, 2, genesis.Hash())
	res, err = bc.AddBlock(b2)
	require.NoError(t, err)
	assert.True(t, res.BecameTip)

	_, tipID = bc.Tip()
	assert.Equal(t, uint64(2), tipID)
}

func TestAddBlockRejectsBadSignature(t *testing.T) {
	_, pk, err := core.GenerateKeypair()
	require.NoError(t, err)

	bc := New()
	genesis := &core.Block{ID: 1, Creator: pk}
	_, err = bc.AddBlock(genesis)
	require.NoError(t, err)

	bad := &core.Block{ID: 2, PreviousHash: genesis.Hash(), Creator: pk}
	bad.Signature = core.Signature{1, 2, 3}
	_, err = bc.AddBlock(bad)
	assert.Error(t, err)
}

func TestAddBlockAlreadyIndexedShortCircuits(t *testing.T) {
	_, pk, err := core.GenerateKeypair()
	require.NoError(t, err)

	bc := New()
	genesis := &core.Block{ID: 1, Creator: pk}
	_, err = bc.AddBlock(genesis)
	require.NoError(t, err)

	res, err := bc.AddBlock(genesis)
	require.NoError(t, err)
	assert.True(t, res.AlreadyIndexed)
}

// Chain A (g->a1->a2) is delivered first, then chain B (g->b1->b2->b3)
// which overtakes it by height. After delivering B, the tip must be b3
// and UTXO effects from A must be fully unwound.
func TestReorgSwitchesUTXOEffects(t *testing.T) {
	sk, pk, err := core.GenerateKeypair()
	require.NoError(t, err)

	bc := New()
	genesis := &core.Block{ID: 1, Creator: pk}
	_, err = bc.AddBlock(genesis)
	require.NoError(t, err)

	slipA := core.Slip{PublicKey: pk, Amount: 10, UUID: core.Hash{0xA}, Ordinal: 0}
	txA := core.Transaction{Type: core.TxNormal, Outputs: []core.Slip{slipA}}
	a1 := &core.Block{ID: 2, PreviousHash: genesis.Hash(), Creator: pk, Transactions: []core.Transaction{txA}}
	a1.Signature = core.Sign(sk, a1.Hash())
	_, err = bc.AddBlock(a1)
	require.NoError(t, err)
	assert.True(t, bc.IsSpendable(slipA.UTXOKey()))

	a2 := signedBlock(t, sk, pk, 3, a1.Hash())
	_, err = bc.AddBlock(a2)
	require.NoError(t, err)

	// Chain B overtakes A at the same heights then extends one further.
	slipB := core.Slip{PublicKey: pk, Amount: 20, UUID: core.Hash{0xB}, Ordinal: 0}
	txB := core.Transaction{Type: core.TxNormal, Outputs: []core.Slip{slipB}}
	b1 := &core.Block{ID: 2, PreviousHash: genesis.Hash(), Creator: pk, Timestamp: 1, Transactions: []core.Transaction{txB}}
	b1.Signature = core.Sign(sk, b1.Hash())
	_, err = bc.AddBlock(b1)
	require.NoError(t, err)

	b2 := signedBlock(t, sk, pk, 3, b1.Hash())
	b2.Timestamp = 2
	b2.Signature = core.Sign(sk, b2.Hash())
	_, err = bc.AddBlock(b2)
	require.NoError(t, err)

	b3 := signedBlock(t, sk, pk, 4, b2.Hash())
	res, err := bc.AddBlock(b3)
	require.NoError(t, err)
	assert.True(t, res.BecameTip)

	tipHash, tipID := bc.Tip()
	assert.Equal(t, b3.Hash(), tipHash)
	assert.Equal(t, uint64(4), tipID)

	assert.False(t, bc.IsSpendable(slipA.UTXOKey()), "chain A's UTXO effects should be unwound")
	assert.True(t, bc.IsSpendable(slipB.UTXOKey()), "chain B's UTXO effects should be applied")
}
