// Package netio is the I/O boundary the core depends on through narrow
// ports: an HTTP block-fetch server (httprouter + cors) and a fasthttp
// client implementing fetch_block_from_peer.
package netio

import (
	"github.com/saito-io/saito-node/internal/core"
)

// Network is the port the Routing Processor depends on to talk to
// peers; NetworkEvent::PeerConnectionResult, PeerDisconnected and
// IncomingNetworkMessage all originate from an adapter implementing
// this on the other side of a channel the engine owns.
type Network interface {
	// Connect dials a configured peer, returning once the TCP/HTTP
	// handshake below the wire protocol succeeds or fails.
	Connect(host string, port uint16, protocol string) error
	// Send delivers raw wire bytes to a connected peer by index.
	Send(peerIdx core.PeerIndex, raw []byte) error
	// Disconnect tears down a peer's connection.
	Disconnect(peerIdx core.PeerIndex) error
}
