package locks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireInMandatedOrderSucceeds(t *testing.T) {
	g := NewGuard()
	relMempool, err := g.Acquire(Mempool)
	require.NoError(t, err)
	relBlockchain, err := g.Acquire(Blockchain)
	require.NoError(t, err)
	assert.Equal(t, []Resource{Mempool, Blockchain}, g.Held())
	relBlockchain()
	relMempool()
	assert.Empty(t, g.Held())
}

func TestAcquireOutOfOrderFails(t *testing.T) {
	g := NewGuard()
	_, err := g.Acquire(Blockchain)
	require.NoError(t, err)

	_, err = g.Acquire(Wallet)
	require.Error(t, err)
}

func TestAcquireSameResourceTwiceFails(t *testing.T) {
	g := NewGuard()
	_, err := g.Acquire(Mempool)
	require.NoError(t, err)

	_, err = g.Acquire(Mempool)
	require.Error(t, err)
}

func TestReleaseAllowsReacquiringLater(t *testing.T) {
	g := NewGuard()
	rel, err := g.Acquire(Mempool)
	require.NoError(t, err)
	rel()

	_, err = g.Acquire(Mempool)
	assert.NoError(t, err)
}

func TestCheckOrderMatchesMandatedSequence(t *testing.T) {
	assert.NoError(t, CheckOrder(Configuration, Wallet, Mempool, Blockchain, Miner, Peers))
	assert.Error(t, CheckOrder(Blockchain, Wallet))
	assert.Error(t, CheckOrder(Miner, Miner))
}
