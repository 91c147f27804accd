package routing

import (
	"testing"

	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentity struct {
	sk core.PrivateKey
	pk core.PublicKey
}

func (f *fakeIdentity) PublicKey() core.PublicKey      { return f.pk }
func (f *fakeIdentity) Sign(h core.Hash) core.Signature { return core.Sign(f.sk, h) }

type fakeChain struct {
	tipHash core.Hash
	tipID   uint64
	forkID  core.Hash
	known   map[core.Hash]bool
}

func (c *fakeChain) Tip() (core.Hash, uint64)               { return c.tipHash, c.tipID }
func (c *fakeChain) ForkID() core.Hash                      { return c.forkID }
func (c *fakeChain) HasBlock(h core.Hash) bool              { return c.known[h] }
func (c *fakeChain) LongestChainBlocksFrom(from uint64) []core.Hash {
	var out []core.Hash
	for id := from + 1; id <= c.tipID; id++ {
		out = append(out, core.Hash{byte(id)})
	}
	return out
}

type fakeSender struct {
	sent []core.Hash
	last interface{}
}

func (s *fakeSender) Send(peerIdx core.PeerIndex, raw []byte) error {
	s.last = raw
	return nil
}

type fakeFetcher struct {
	raw []byte
	err error
}

func (f *fakeFetcher) FetchBlock(h core.Hash, p *Peer) ([]byte, error) { return f.raw, f.err }

type fakeConsensusSink struct {
	got []byte
}

func (c *fakeConsensusSink) BlockFetched(raw []byte) { c.got = raw }

func newTestIdentity(t *testing.T) *fakeIdentity {
	t.Helper()
	sk, pk, err := core.GenerateKeypair()
	require.NoError(t, err)
	return &fakeIdentity{sk: sk, pk: pk}
}

func TestOnHandshakeChallengeRespondsSigned(t *testing.T) {
	id := newTestIdentity(t)
	peers := NewPeerCollection()
	chain := &fakeChain{known: map[core.Hash]bool{}}
	sender := &fakeSender{}
	d := NewDispatcher(peers, id, chain, sender, &fakeFetcher{}, &fakeConsensusSink{})

	peer := NewPeer(peers.NextIndex(), Inbound, "")
	peers.Insert(peer)

	remote := newTestIdentity(t)
	nonce := core.Hash{7}
	raw, err := wire.Encode(wire.HandshakeChallenge{PublicKey: remote.PublicKey(), Nonce: nonce})
	require.NoError(t, err)

	require.NoError(t, d.HandleIncoming(peer.Index, raw))
	assert.Equal(t, StateResponding, peer.getState())

	decoded, err := wire.Decode(sender.last.([]byte))
	require.NoError(t, err)
	resp, ok := decoded.(wire.HandshakeResponse)
	require.True(t, ok)
	assert.True(t, core.Verify(resp.PublicKey, nonce, resp.Signature))
}

func TestOnHandshakeResponseRejectsBadSignature(t *testing.T) {
	id := newTestIdentity(t)
	peers := NewPeerCollection()
	chain := &fakeChain{known: map[core.Hash]bool{}}
	d := NewDispatcher(peers, id, chain, &fakeSender{}, &fakeFetcher{}, &fakeConsensusSink{})

	peer := NewPeer(peers.NextIndex(), Outbound, "")
	peers.Insert(peer)

	remote := newTestIdentity(t)
	raw, err := wire.Encode(wire.HandshakeResponse{PublicKey: remote.PublicKey(), Signature: core.Signature{1, 2, 3}, Nonce: core.Hash{1}})
	require.NoError(t, err)

	err = d.HandleIncoming(peer.Index, raw)
	assert.Error(t, err)
}

func TestOnBlockchainRequestStreamsHeaderHashes(t *testing.T) {
	id := newTestIdentity(t)
	peers := NewPeerCollection()
	chain := &fakeChain{tipID: 3, forkID: core.Hash{9}, known: map[core.Hash]bool{}}
	sender := &fakeSender{}
	d := NewDispatcher(peers, id, chain, sender, &fakeFetcher{}, &fakeConsensusSink{})

	peer := NewPeer(peers.NextIndex(), Inbound, "")
	peers.Insert(peer)

	raw, err := wire.Encode(wire.BlockchainRequest{LatestID: 0, LatestHash: core.Hash{}, ForkID: core.Hash{9}})
	require.NoError(t, err)
	require.NoError(t, d.HandleIncoming(peer.Index, raw))
	assert.NotNil(t, sender.last)
}

func TestOnBlockHeaderHashFetchesUnknownBlock(t *testing.T) {
	id := newTestIdentity(t)
	peers := NewPeerCollection()
	chain := &fakeChain{known: map[core.Hash]bool{}}
	sink := &fakeConsensusSink{}
	fetcher := &fakeFetcher{raw: []byte{0xAB, 0xCD}}
	d := NewDispatcher(peers, id, chain, &fakeSender{}, fetcher, sink)

	peer := NewPeer(peers.NextIndex(), Inbound, "")
	peers.Insert(peer)

	raw, err := wire.Encode(wire.BlockHeaderHash{Hash: core.Hash{5}})
	require.NoError(t, err)
	require.NoError(t, d.HandleIncoming(peer.Index, raw))
	assert.Equal(t, []byte{0xAB, 0xCD}, sink.got)
	assert.True(t, peer.KnowsBlock(core.Hash{5}))
}

func TestOnPeerDisconnectedReportsReconnectForStaticPeers(t *testing.T) {
	id := newTestIdentity(t)
	peers := NewPeerCollection()
	chain := &fakeChain{known: map[core.Hash]bool{}}
	d := NewDispatcher(peers, id, chain, &fakeSender{}, &fakeFetcher{}, &fakeConsensusSink{})

	staticPeer := NewPeer(peers.NextIndex(), Outbound, "http://example.invalid/block/")
	peers.Insert(staticPeer)

	assert.True(t, d.OnPeerDisconnected(staticPeer.Index))
	_, ok := peers.Get(staticPeer.Index)
	assert.False(t, ok)
}
