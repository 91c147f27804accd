package scenarios

import (
	"sync"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/routing"
	"github.com/saito-io/saito-node/internal/wire"
)

type syncIdentity struct {
	sk core.PrivateKey
	pk core.PublicKey
}

func (f *syncIdentity) PublicKey() core.PublicKey      { return f.pk }
func (f *syncIdentity) Sign(h core.Hash) core.Signature { return core.Sign(f.sk, h) }

type ourChain struct {
	tipID  uint64
	forkID core.Hash
}

func (c *ourChain) Tip() (core.Hash, uint64)                  { return core.Hash{byte(c.tipID)}, c.tipID }
func (c *ourChain) ForkID() core.Hash                         { return c.forkID }
func (c *ourChain) HasBlock(core.Hash) bool                   { return false }
func (c *ourChain) LongestChainBlocksFrom(uint64) []core.Hash { return nil }

type recordingSender struct {
	mu   sync.Mutex
	sent []interface{}
}

func (s *recordingSender) Send(peerIdx core.PeerIndex, raw []byte) error {
	msg, err := wire.Decode(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	return nil
}

type countingFetcher struct {
	mu    sync.Mutex
	calls int
}

func (f *countingFetcher) FetchBlock(core.Hash, *routing.Peer) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return []byte{0x00}, nil
}

type noopSink struct{}

func (noopSink) BlockFetched([]byte) {}

var _ = Describe("Sync on handshake", func() {
	// A peer at tip id 100 completes handshake with us at tip id 95; we
	// emit a BlockchainRequest, the peer answers with 5 BlockHeaderHash
	// messages for ids 96..100 in order, and we must issue exactly 5
	// block-fetch requests.
	It("fetches exactly one block per unseen BlockHeaderHash the peer streams back", func() {
		sk, pk, err := core.GenerateKeypair()
		Expect(err).NotTo(HaveOccurred())

		peers := routing.NewPeerCollection()
		chain := &ourChain{tipID: 95, forkID: core.Hash{0x01}}
		sender := &recordingSender{}
		fetcher := &countingFetcher{}
		d := routing.NewDispatcher(peers, &syncIdentity{sk: sk, pk: pk}, chain, sender, fetcher, noopSink{})

		peer := routing.NewPeer(peers.NextIndex(), routing.Outbound, "http://peer.invalid/block/")
		peers.Insert(peer)

		completion := wire.HandshakeCompletion{Signature: core.Signature{}}
		raw, err := wire.Encode(completion)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.HandleIncoming(peer.Index, raw)).To(Succeed())

		sender.mu.Lock()
		Expect(sender.sent).To(HaveLen(1))
		_, isRequest := sender.sent[0].(wire.BlockchainRequest)
		sender.mu.Unlock()
		Expect(isRequest).To(BeTrue(), "completing the handshake must emit a BlockchainRequest")

		for id := 96; id <= 100; id++ {
			msg := wire.BlockHeaderHash{Hash: core.Hash{byte(id)}}
			raw, err := wire.Encode(msg)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.HandleIncoming(peer.Index, raw)).To(Succeed())
		}

		fetcher.mu.Lock()
		defer fetcher.mu.Unlock()
		Expect(fetcher.calls).To(Equal(5))
	})
})
