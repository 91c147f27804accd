package routing

import (
	"sync"

	set "gopkg.in/fatih/set.v0"

	"github.com/saito-io/saito-node/internal/core"
)

// PeerCollection is the routing processor's peer table: every connected
// peer keyed by index, plus a fatih/set.v0 set of indices that belong to
// statically configured peers so PeerDisconnected can decide whether to
// reconnect without a second map lookup.
type PeerCollection struct {
	mu sync.RWMutex

	peers      map[core.PeerIndex]*Peer
	staticIdx  *set.Set
	nextIndex  core.PeerIndex
}

// NewPeerCollection creates an empty peer table.
func NewPeerCollection() *PeerCollection {
	return &PeerCollection{
		peers:     make(map[core.PeerIndex]*Peer),
		staticIdx: set.New(set.ThreadSafe),
	}
}

// Insert adds p to the table, tracking it as static if p.IsStatic.
func (c *PeerCollection) Insert(p *Peer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.peers[p.Index] = p
	if p.IsStatic {
		c.staticIdx.Add(p.Index)
	}
}

// Remove deletes a peer by index. Removing an unknown index is a no-op,
// never a panic.
func (c *PeerCollection) Remove(idx core.PeerIndex) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.peers, idx)
}

// Get returns the peer at idx, if any.
func (c *PeerCollection) Get(idx core.PeerIndex) (*Peer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.peers[idx]
	return p, ok
}

// IsStatic reports whether idx belongs to a statically configured peer.
func (c *PeerCollection) IsStatic(idx core.PeerIndex) bool {
	return c.staticIdx.Has(idx)
}

// NextIndex allocates the next PeerIndex for a freshly connected peer.
func (c *PeerCollection) NextIndex() core.PeerIndex {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextIndex++
	return c.nextIndex
}

// All returns a snapshot slice of every currently known peer.
func (c *PeerCollection) All() []*Peer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Peer, 0, len(c.peers))
	for _, p := range c.peers {
		out = append(out, p)
	}
	return out
}

// Len reports how many peers are currently tracked.
func (c *PeerCollection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.peers)
}
