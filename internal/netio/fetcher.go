package netio

import (
	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/errs"
	"github.com/saito-io/saito-node/internal/routing"
)

// PeerFetcher adapts Client to routing.BlockFetcher: fetch_block_from_peer
// derives the URL from the peer's static config.
type PeerFetcher struct {
	client *Client
}

// NewPeerFetcher wraps client as a routing.BlockFetcher.
func NewPeerFetcher(client *Client) *PeerFetcher {
	return &PeerFetcher{client: client}
}

// FetchBlock implements routing.BlockFetcher.
func (f *PeerFetcher) FetchBlock(hash core.Hash, peer *routing.Peer) ([]byte, error) {
	if peer.StaticURL == "" {
		return nil, errs.New(errs.Protocol, "netio: peer has no advertised block-fetch URL")
	}
	return f.client.FetchBlock(peer.StaticURL, hash)
}
