package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saito-io/saito-node/internal/blockchain"
	"github.com/saito-io/saito-node/internal/config"
	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/mempool"
	"github.com/saito-io/saito-node/internal/mining"
	"github.com/saito-io/saito-node/internal/routing"
)

// TestDriverMinesAGoldenTicketIntoTheMempool is a small end-to-end smoke
// test of the wiring (S5-shaped): the test publishes a
// LongestChainBlockAddedEvent itself to arm the miner (the chain stays
// empty); within a bounded number of
// ticks the Mining Processor should solve a zero-difficulty ticket and
// the Consensus Processor should pick it up.
func TestDriverMinesAGoldenTicketIntoTheMempool(t *testing.T) {
	signer := newFakeSigner(t)
	mp := mempool.New(signer)
	chain := blockchain.New()
	bus := NewBus()

	consensus := NewConsensusProcessor(mp, chain, bus)
	miner := mining.New(signer.pk)
	miningProc := NewMiningProcessor(miner, bus)

	sk, pk, err := core.GenerateKeypair()
	require.NoError(t, err)
	peers := routing.NewPeerCollection()
	dispatcher := routing.NewDispatcher(peers, &fakeIdentity{sk: sk, pk: pk}, chain, fakeSender{}, fakeFetcher{}, consensus)
	routingProc := NewRoutingProcessor(peers, dispatcher, &fakeNetwork{}, &config.Configuration{})

	driver := NewDriver(bus, consensus, routingProc, miningProc)
	driver.tickInterval = time.Millisecond
	require.NoError(t, driver.Run())
	defer driver.Stop()

	miner.Start()
	require.NoError(t, bus.Publish(TopicMinerEvents, LongestChainBlockAddedEvent{Hash: core.Hash{1}, Difficulty: 0}))

	assert.Eventually(t, func() bool {
		return mp.PendingGoldenTickets() > 0
	}, 2*time.Second, 5*time.Millisecond, "expected a solved golden ticket to reach the mempool")
}
