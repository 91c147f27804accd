// Package routing owns the peer table and the Routing Processor's
// message dispatch.
package routing

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/log"
)

var logger = log.NewModuleLogger(log.ModuleRouting)

// HandshakeState tracks a peer's progress through the challenge/response
// handshake.
type HandshakeState int

const (
	StateConnecting HandshakeState = iota
	StateChallenging
	StateResponding
	StateCompleted
	StateDisconnected
)

func (s HandshakeState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateChallenging:
		return "challenging"
	case StateResponding:
		return "responding"
	case StateCompleted:
		return "completed"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Direction records whether this node initiated the connection
// (Outbound, a static peer we dialed) or accepted it (Inbound). Outbound
// peers send the first HandshakeChallenge.
type Direction int

const (
	Inbound Direction = iota
	Outbound
)

// knownSetCap bounds the per-peer recently-seen dedup cache; beyond this
// size the least-recently-seen hash is evicted rather than growing
// without bound per connected peer.
const knownSetCap = 4096

// Peer is one connection's routing-level state.
type Peer struct {
	mu sync.RWMutex

	Index     core.PeerIndex
	PublicKey core.PublicKey
	State     HandshakeState
	Direction Direction

	// StaticURL is the block-fetch URL template for a statically
	// configured peer; empty for inbound peers until they advertise one.
	StaticURL string
	IsStatic  bool

	nonce core.Hash

	knownBlocks *lru.Cache
	knownTxs    *lru.Cache
}

// NewPeer constructs a Peer in StateConnecting.
func NewPeer(index core.PeerIndex, direction Direction, staticURL string) *Peer {
	blocks, _ := lru.New(knownSetCap)
	txs, _ := lru.New(knownSetCap)
	return &Peer{
		Index:     index,
		State:     StateConnecting,
		Direction: direction,
		StaticURL: staticURL,
		IsStatic:  staticURL != "",
		knownBlocks: blocks,
		knownTxs:    txs,
	}
}

func (p *Peer) setState(s HandshakeState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.State = s
}

func (p *Peer) getState() HandshakeState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.State
}

// MarkBlockKnown records that this peer has already told us about, or
// been told about, a block hash — later sightings are deduplicated.
func (p *Peer) MarkBlockKnown(h core.Hash) { p.knownBlocks.Add(h, struct{}{}) }

// KnowsBlock reports whether h was previously marked known.
func (p *Peer) KnowsBlock(h core.Hash) bool { return p.knownBlocks.Contains(h) }

// MarkTxKnown records that this peer has already told us about, or been
// told about, a transaction signing hash.
func (p *Peer) MarkTxKnown(h core.Hash) { p.knownTxs.Add(h, struct{}{}) }

// KnowsTx reports whether h was previously marked known.
func (p *Peer) KnowsTx(h core.Hash) bool { return p.knownTxs.Contains(h) }
