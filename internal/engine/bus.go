package engine

import (
	"sync"

	"github.com/saito-io/saito-node/internal/errs"
)

// ChannelCapacity is the bounded FIFO depth of each of the three
// inter-processor channels.
const ChannelCapacity = 100

// Topic names one of the Bus's bounded channels.
type Topic string

const (
	TopicConsensusEvents Topic = "consensus"
	TopicMinerEvents     Topic = "miner"
	TopicNetworkEvents   Topic = "network"
)

// Bus lets each processor subscribe to the topic it owns instead of
// holding a back-reference handle to whichever processor happens to
// publish into it. A topic's channel is created lazily on first use and
// capacity-bounded at ChannelCapacity.
type Bus struct {
	mu     sync.Mutex
	topics map[Topic]chan interface{}
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{topics: make(map[Topic]chan interface{})}
}

func (b *Bus) channel(name Topic) chan interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.topics[name]
	if !ok {
		ch = make(chan interface{}, ChannelCapacity)
		b.topics[name] = ch
	}
	return ch
}

// Publish enqueues event on topic's channel. A full channel is resource
// exhaustion: Publish never blocks the caller indefinitely — it returns
// a retriable errs.ResourceExhausted error instead.
func (b *Bus) Publish(topic Topic, event interface{}) error {
	select {
	case b.channel(topic) <- event:
		return nil
	default:
		return errs.New(errs.ResourceExhausted, "engine: bus topic channel full")
	}
}

// Subscribe returns the receive side of topic's channel.
func (b *Bus) Subscribe(topic Topic) <-chan interface{} {
	return b.channel(topic)
}
