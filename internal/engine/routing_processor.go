package engine

import (
	"sync"
	"time"

	"github.com/saito-io/saito-node/internal/config"
	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/log"
	"github.com/saito-io/saito-node/internal/netio"
	"github.com/saito-io/saito-node/internal/routing"
)

// ReconnectBackoff is the minimum delay before re-dialing a disconnected
// static peer, to avoid reconnect churn.
const ReconnectBackoff = 1 * time.Second

// RoutingProcessor owns the peer table, the Dispatcher built over it,
// and the Network port.
type RoutingProcessor struct {
	mu sync.Mutex

	peers      *routing.PeerCollection
	dispatcher *routing.Dispatcher
	network    netio.Network
	cfg        *config.Configuration

	staticEndpoints map[core.PeerIndex]config.Endpoint
	reconnectBackoff time.Duration

	logger log.Logger
}

// NewRoutingProcessor wires a RoutingProcessor from its components.
func NewRoutingProcessor(peers *routing.PeerCollection, dispatcher *routing.Dispatcher, network netio.Network, cfg *config.Configuration) *RoutingProcessor {
	return &RoutingProcessor{
		peers:            peers,
		dispatcher:       dispatcher,
		network:          network,
		cfg:              cfg,
		staticEndpoints:  make(map[core.PeerIndex]config.Endpoint),
		reconnectBackoff: ReconnectBackoff,
		logger:           log.NewModuleLogger(log.ModuleRouting),
	}
}

// OnInit dials every statically configured peer.
func (rp *RoutingProcessor) OnInit() {
	rp.cfg.RLock()
	staticPeers := make([]config.Peer, len(rp.cfg.Peers))
	copy(staticPeers, rp.cfg.Peers)
	rp.cfg.RUnlock()

	for _, p := range staticPeers {
		err := rp.network.Connect(p.Host, p.Port, p.Protocol)
		if err != nil {
			rp.logger.Warn("failed to dial static peer", "host", p.Host, "port", p.Port, "err", err.Error())
		}
		rp.HandleEvent(PeerConnectionResultEvent{
			Direction: routing.Outbound,
			Endpoint:  p.Endpoint,
			Success:   err == nil,
		})
	}
}

// HandleEvent applies a NetworkEvent to the peer table and Dispatcher.
func (rp *RoutingProcessor) HandleEvent(ev NetworkEvent) {
	switch e := ev.(type) {
	case IncomingNetworkMessageEvent:
		if err := rp.dispatcher.HandleIncoming(e.Peer, e.Raw); err != nil {
			rp.logger.Warn("failed to handle incoming message", "peer", e.Peer, "err", err.Error())
		}

	case PeerConnectionResultEvent:
		peer, err := rp.dispatcher.OnPeerConnectionResult(e.Direction, endpointToStaticURL(e.Endpoint), e.Success)
		if err != nil {
			rp.logger.Warn("failed to process peer connection result", "err", err.Error())
		}
		if peer != nil && e.Endpoint != (config.Endpoint{}) {
			rp.mu.Lock()
			rp.staticEndpoints[peer.Index] = e.Endpoint
			rp.mu.Unlock()
		}

	case PeerDisconnectedEvent:
		shouldReconnect := rp.dispatcher.OnPeerDisconnected(e.Peer)
		rp.mu.Lock()
		endpoint, tracked := rp.staticEndpoints[e.Peer]
		delete(rp.staticEndpoints, e.Peer)
		rp.mu.Unlock()
		if shouldReconnect && tracked {
			rp.scheduleReconnect(endpoint)
		}
	}
}

func (rp *RoutingProcessor) scheduleReconnect(endpoint config.Endpoint) {
	time.AfterFunc(rp.reconnectBackoff, func() {
		err := rp.network.Connect(endpoint.Host, endpoint.Port, endpoint.Protocol)
		rp.HandleEvent(PeerConnectionResultEvent{
			Direction: routing.Outbound,
			Endpoint:  endpoint,
			Success:   err == nil,
		})
	})
}

func endpointToStaticURL(e config.Endpoint) string {
	if e == (config.Endpoint{}) {
		return ""
	}
	return e.URL() + "/block/"
}
