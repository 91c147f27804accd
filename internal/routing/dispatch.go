package routing

import (
	"crypto/rand"

	"github.com/saito-io/saito-node/internal/blockchain"
	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/errs"
	"github.com/saito-io/saito-node/internal/wire"
)

// ChainSource is the blockchain surface the Routing Processor reads from
// to answer BlockchainRequest and to compute fork-id/shared-ancestor.
type ChainSource interface {
	Tip() (core.Hash, uint64)
	ForkID() core.Hash
	HasBlock(hash core.Hash) bool
	LongestChainBlocksFrom(fromID uint64) []core.Hash
}

// Sender abstracts the netio transport: deliver raw wire bytes to a
// specific connected peer.
type Sender interface {
	Send(peerIdx core.PeerIndex, raw []byte) error
}

// BlockFetcher implements fetch_block_from_peer: given a header hash and
// the peer that advertised it, retrieve the full block's wire bytes.
type BlockFetcher interface {
	FetchBlock(hash core.Hash, peer *Peer) ([]byte, error)
}

// ConsensusSink is how the Routing Processor hands a fetched block to
// the Consensus Processor (ConsensusEvent::BlockFetched).
type ConsensusSink interface {
	BlockFetched(raw []byte)
}

// Identity is the minimal signing surface the handshake needs.
type Identity interface {
	PublicKey() core.PublicKey
	Sign(hash core.Hash) core.Signature
}

// Dispatcher implements the per-peer message-dispatch table over a
// PeerCollection.
type Dispatcher struct {
	peers     *PeerCollection
	identity  Identity
	chain     ChainSource
	sender    Sender
	fetcher   BlockFetcher
	consensus ConsensusSink
}

// NewDispatcher wires a Dispatcher from its component dependencies.
func NewDispatcher(peers *PeerCollection, identity Identity, chain ChainSource, sender Sender, fetcher BlockFetcher, consensus ConsensusSink) *Dispatcher {
	return &Dispatcher{peers: peers, identity: identity, chain: chain, sender: sender, fetcher: fetcher, consensus: consensus}
}

// HandleIncoming decodes raw as a wire Message and dispatches it to the
// matching handler. Unknown peer indices never panic — the message is
// logged and dropped.
func (d *Dispatcher) HandleIncoming(peerIdx core.PeerIndex, raw []byte) error {
	peer, ok := d.peers.Get(peerIdx)
	if !ok {
		logger.Warn("message from unknown peer index, dropping", "peer", peerIdx)
		return nil
	}

	msg, err := wire.Decode(raw)
	if err != nil {
		return errs.Wrap(errs.Invalid, err, "routing: failed to decode incoming message")
	}

	switch m := msg.(type) {
	case wire.HandshakeChallenge:
		return d.onHandshakeChallenge(peer, m)
	case wire.HandshakeResponse:
		return d.onHandshakeResponse(peer, m)
	case wire.HandshakeCompletion:
		return d.onHandshakeCompletion(peer, m)
	case wire.BlockchainRequest:
		return d.onBlockchainRequest(peer, m)
	case wire.BlockHeaderHash:
		return d.onBlockHeaderHash(peer, m)
	case wire.BlockMessage, wire.TransactionMessage, wire.ApplicationMessage:
		// Relay hooks: must deserialize without error but are otherwise
		// unused by this node's own pipeline.
		return nil
	default:
		return errs.New(errs.Protocol, "routing: unexpected decoded message type")
	}
}

// onHandshakeChallenge: whether this peer was outbound or inbound, a
// challenge is answered the same way — sign the nonce and respond.
func (d *Dispatcher) onHandshakeChallenge(peer *Peer, m wire.HandshakeChallenge) error {
	peer.setState(StateResponding)
	sig := d.identity.Sign(m.Nonce)
	resp := wire.HandshakeResponse{PublicKey: d.identity.PublicKey(), Signature: sig, Nonce: m.Nonce}
	return d.send(peer, resp)
}

func (d *Dispatcher) onHandshakeResponse(peer *Peer, m wire.HandshakeResponse) error {
	if !core.Verify(m.PublicKey, m.Nonce, m.Signature) {
		return errs.New(errs.Protocol, "routing: handshake response has invalid signature")
	}
	peer.mu.Lock()
	peer.PublicKey = m.PublicKey
	peer.mu.Unlock()
	peer.setState(StateCompleted)

	completion := wire.HandshakeCompletion{Signature: d.identity.Sign(m.Nonce)}
	if err := d.send(peer, completion); err != nil {
		return err
	}
	return d.sendBlockchainRequest(peer)
}

func (d *Dispatcher) onHandshakeCompletion(peer *Peer, m wire.HandshakeCompletion) error {
	peer.setState(StateCompleted)
	return d.sendBlockchainRequest(peer)
}

func (d *Dispatcher) sendBlockchainRequest(peer *Peer) error {
	tipHash, tipID := d.chain.Tip()
	req := wire.BlockchainRequest{LatestID: tipID, LatestHash: tipHash, ForkID: d.chain.ForkID()}
	return d.send(peer, req)
}

// onBlockchainRequest computes the last shared ancestor and streams
// BlockHeaderHash for every longest-chain block above it.
func (d *Dispatcher) onBlockchainRequest(peer *Peer, m wire.BlockchainRequest) error {
	_, tipID := d.chain.Tip()
	ourForkID := d.chain.ForkID()
	lastShared := blockchain.GenerateLastSharedAncestor(ourForkID, tipID, m.LatestID, m.ForkID)

	for _, h := range d.chain.LongestChainBlocksFrom(lastShared) {
		if err := d.send(peer, wire.BlockHeaderHash{Hash: h}); err != nil {
			return err
		}
	}
	return nil
}

// onBlockHeaderHash requests the full block if not already indexed.
func (d *Dispatcher) onBlockHeaderHash(peer *Peer, m wire.BlockHeaderHash) error {
	if d.chain.HasBlock(m.Hash) || peer.KnowsBlock(m.Hash) {
		return nil
	}
	peer.MarkBlockKnown(m.Hash)

	raw, err := d.fetcher.FetchBlock(m.Hash, peer)
	if err != nil {
		logger.Warn("fetch_block_from_peer failed", "hash", m.Hash.String(), "peer", peer.Index, "err", err.Error())
		return nil
	}
	d.consensus.BlockFetched(raw)
	return nil
}

func (d *Dispatcher) send(peer *Peer, msg interface{}) error {
	raw, err := wire.Encode(msg)
	if err != nil {
		return errs.Wrap(errs.Invalid, err, "routing: failed to encode outgoing message")
	}
	return d.sender.Send(peer.Index, raw)
}

// OnPeerConnectionResult implements NetworkEvent::PeerConnectionResult:
// insert the peer, and if we initiated (direction == Outbound), send the
// opening HandshakeChallenge.
func (d *Dispatcher) OnPeerConnectionResult(direction Direction, staticURL string, success bool) (*Peer, error) {
	if !success {
		return nil, nil
	}
	peer := NewPeer(d.peers.NextIndex(), direction, staticURL)
	d.peers.Insert(peer)

	if direction == Outbound {
		peer.setState(StateChallenging)
		var nonce core.Hash
		if _, err := rand.Read(nonce[:]); err != nil {
			return peer, errs.Wrap(errs.Fatal, err, "routing: failed to draw handshake nonce")
		}
		peer.mu.Lock()
		peer.nonce = nonce
		peer.mu.Unlock()
		if err := d.send(peer, wire.HandshakeChallenge{PublicKey: d.identity.PublicKey(), Nonce: nonce}); err != nil {
			return peer, err
		}
	}
	return peer, nil
}

// OnPeerDisconnected implements NetworkEvent::PeerDisconnected: static
// peers are reported for reconnect by the caller (the engine owns the
// backoff timer); the peer is always removed from the table here
// regardless.
func (d *Dispatcher) OnPeerDisconnected(idx core.PeerIndex) (shouldReconnect bool) {
	shouldReconnect = d.peers.IsStatic(idx)
	d.peers.Remove(idx)
	return shouldReconnect
}
