package mempool

import (
	"testing"

	"github.com/saito-io/saito-node/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSigner struct {
	sk core.PrivateKey
	pk core.PublicKey
}

func newFakeSigner(t *testing.T) *fakeSigner {
	t.Helper()
	sk, pk, err := core.GenerateKeypair()
	require.NoError(t, err)
	return &fakeSigner{sk: sk, pk: pk}
}

func (f *fakeSigner) PublicKey() core.PublicKey            { return f.pk }
func (f *fakeSigner) Sign(h core.Hash) core.Signature       { return core.Sign(f.sk, h) }

type fakeChain struct {
	tipHash core.Hash
	tipID   uint64
	blocks  map[core.Hash]*core.Block
}

func newFakeChain() *fakeChain {
	return &fakeChain{blocks: make(map[core.Hash]*core.Block)}
}

func (c *fakeChain) Tip() (core.Hash, uint64) { return c.tipHash, c.tipID }
func (c *fakeChain) GetBlock(h core.Hash) (*core.Block, bool) {
	b, ok := c.blocks[h]
	return b, ok
}

// S3 — Bundle gating: fresh blockchain, empty mempool, tick with dt=1s.
// can_bundle_block returns false; no block produced.
func TestS3EmptyMempoolCannotBundle(t *testing.T) {
	signer := newFakeSigner(t)
	m := New(signer)
	chain := newFakeChain()

	assert.False(t, m.CanBundleBlock(chain, 1000))
}

// S4 — Single-tx bundle: one valid Normal transaction with fee
// sufficient to clear burnfee; tick with dt>=1s; expect one block
// produced with an incremented tip id.
func TestS4SingleTransactionBundles(t *testing.T) {
	signer := newFakeSigner(t)
	m := New(signer)
	chain := newFakeChain()

	tx := &core.Transaction{
		Type:    core.TxNormal,
		Inputs:  []core.Slip{{Amount: 100}},
		Outputs: []core.Slip{{Amount: 50}}, // fee = 50, clears any small burnfee
	}
	require.NoError(t, m.AddTransaction(tx))

	assert.True(t, m.CanBundleBlock(chain, 2000))

	b, err := m.BundleBlock(chain, 2000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), b.ID)
	assert.Len(t, b.Transactions, 1)
	assert.True(t, b.VerifySignature())
}

func TestAddTransactionRejectsDuplicateSigningHash(t *testing.T) {
	signer := newFakeSigner(t)
	m := New(signer)

	tx := &core.Transaction{Type: core.TxNormal, Inputs: []core.Slip{{Amount: 5}}, Outputs: []core.Slip{{Amount: 1}}}
	require.NoError(t, m.AddTransaction(tx))

	dup := &core.Transaction{Type: core.TxNormal, Inputs: []core.Slip{{Amount: 5}}, Outputs: []core.Slip{{Amount: 1}}}
	assert.Error(t, m.AddTransaction(dup))
}

func TestCanBundleBlockRespectsMinInterval(t *testing.T) {
	signer := newFakeSigner(t)
	m := New(signer)
	chain := newFakeChain()

	tx := &core.Transaction{Type: core.TxNormal, Inputs: []core.Slip{{Amount: 100}}, Outputs: []core.Slip{{Amount: 1}}}
	require.NoError(t, m.AddTransaction(tx))
	require.True(t, m.CanBundleBlock(chain, 2000))

	_, err := m.BundleBlock(chain, 2000)
	require.NoError(t, err)

	assert.False(t, m.CanBundleBlock(chain, 2500), "should not bundle again before the minimum inter-block interval elapses")
}
