package netio

import (
	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/log"
)

var netLogger = log.NewModuleLogger(log.ModuleNetio)

// NoopNetwork satisfies Network without dialing anything. Socket
// transport for the handshake/gossip wire protocol isn't implemented
// here; this adapter exists purely so cmd/saitonode has something
// concrete to hand the Routing Processor until a real transport is
// plugged in behind the same Network port.
type NoopNetwork struct{}

func (NoopNetwork) Connect(host string, port uint16, protocol string) error {
	netLogger.Warn("Connect called against the no-op network adapter, nothing was dialed", "host", host, "port", port, "protocol", protocol)
	return nil
}

func (NoopNetwork) Send(peerIdx core.PeerIndex, raw []byte) error {
	netLogger.Warn("Send called against the no-op network adapter, message was dropped", "peer", peerIdx)
	return nil
}

func (NoopNetwork) Disconnect(peerIdx core.PeerIndex) error {
	return nil
}
