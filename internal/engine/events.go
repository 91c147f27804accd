// Package engine wires the three processors — Consensus, Routing,
// Mining — behind a shared event Bus and a Driver that pumps timer
// ticks and channel receives for each.
package engine

import (
	"github.com/saito-io/saito-node/internal/config"
	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/routing"
)

// ConsensusEvent is the tagged-union the Consensus Processor consumes,
// delivered via Bus topic TopicConsensusEvents.
type ConsensusEvent interface{ isConsensusEvent() }

// NewGoldenTicketEvent carries a solved golden ticket from the Mining
// Processor into the mempool's ticket queue.
type NewGoldenTicketEvent struct {
	Ticket core.GoldenTicket
}

func (NewGoldenTicketEvent) isConsensusEvent() {}

// BlockFetchedEvent carries a fetched block's raw wire bytes from the
// Routing Processor for direct application to the chain.
type BlockFetchedEvent struct {
	Peer core.PeerIndex
	Raw  []byte
}

func (BlockFetchedEvent) isConsensusEvent() {}

// MinerEvent is the tagged union the Mining Processor consumes, delivered
// via Bus topic TopicMinerEvents.
type MinerEvent interface{ isMinerEvent() }

// LongestChainBlockAddedEvent retargets the miner whenever the chain
// head changes.
type LongestChainBlockAddedEvent struct {
	Hash       core.Hash
	Difficulty uint64
}

func (LongestChainBlockAddedEvent) isMinerEvent() {}

// NetworkEvent is the tagged union the Routing Processor consumes,
// delivered via Bus topic TopicNetworkEvents by whatever adapter owns
// the live socket/HTTP connections.
type NetworkEvent interface{ isNetworkEvent() }

// IncomingNetworkMessageEvent carries an undecoded wire message from a
// known peer connection.
type IncomingNetworkMessageEvent struct {
	Peer core.PeerIndex
	Raw  []byte
}

func (IncomingNetworkMessageEvent) isNetworkEvent() {}

// PeerConnectionResultEvent reports the outcome of a dial attempt this
// node initiated, or an inbound connection being accepted. Endpoint is
// the zero value for inbound connections and for dials that weren't
// sourced from the static peer list.
type PeerConnectionResultEvent struct {
	Direction routing.Direction
	Endpoint  config.Endpoint
	Success   bool
}

func (PeerConnectionResultEvent) isNetworkEvent() {}

// PeerDisconnectedEvent reports a peer dropping off, by the index it was
// previously assigned.
type PeerDisconnectedEvent struct {
	Peer core.PeerIndex
}

func (PeerDisconnectedEvent) isNetworkEvent() {}
