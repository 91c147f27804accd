package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/mining"
)

func TestMiningProcessorHandleEventArmsMiner(t *testing.T) {
	_, pk, err := core.GenerateKeypair()
	require.NoError(t, err)

	m := mining.New(pk)
	m.Start()
	bus := NewBus()
	p := NewMiningProcessor(m, bus)

	p.HandleEvent(LongestChainBlockAddedEvent{Hash: core.Hash{1}, Difficulty: 0})
	p.Tick(mining.MinerIntervalMicros)

	select {
	case ev := <-bus.Subscribe(TopicConsensusEvents):
		_, ok := ev.(NewGoldenTicketEvent)
		assert.True(t, ok)
	default:
		t.Fatal("expected a solved golden ticket to publish a NewGoldenTicketEvent")
	}
}

func TestMiningProcessorTickNoOpUntilArmed(t *testing.T) {
	_, pk, err := core.GenerateKeypair()
	require.NoError(t, err)

	m := mining.New(pk)
	m.Start()
	bus := NewBus()
	p := NewMiningProcessor(m, bus)

	p.Tick(mining.MinerIntervalMicros)
	assert.Len(t, bus.Subscribe(TopicConsensusEvents), 0)
}
