package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribeDeliversInOrder(t *testing.T) {
	b := NewBus()
	require.NoError(t, b.Publish(TopicConsensusEvents, NewGoldenTicketEvent{}))
	require.NoError(t, b.Publish(TopicConsensusEvents, BlockFetchedEvent{Raw: []byte("x")}))

	ch := b.Subscribe(TopicConsensusEvents)
	first := <-ch
	second := <-ch

	assert.IsType(t, NewGoldenTicketEvent{}, first)
	assert.IsType(t, BlockFetchedEvent{}, second)
}

func TestPublishReturnsResourceExhaustedWhenFull(t *testing.T) {
	b := NewBus()
	for i := 0; i < ChannelCapacity; i++ {
		require.NoError(t, b.Publish(TopicMinerEvents, LongestChainBlockAddedEvent{}))
	}
	err := b.Publish(TopicMinerEvents, LongestChainBlockAddedEvent{})
	assert.Error(t, err)
}

func TestTopicsAreIndependent(t *testing.T) {
	b := NewBus()
	require.NoError(t, b.Publish(TopicNetworkEvents, PeerDisconnectedEvent{}))
	assert.Len(t, b.Subscribe(TopicConsensusEvents), 0)
	assert.Len(t, b.Subscribe(TopicNetworkEvents), 1)
}
