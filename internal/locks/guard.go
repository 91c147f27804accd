// Package locks mechanizes the node's lock-ordering discipline: every
// component still owns and acquires its own sync.RWMutex internally
// (Configuration, Wallet, Mempool, Blockchain, Miner, PeerCollection each
// lock themselves), so this package never takes a lock on a caller's
// behalf. What it gives call sites that must hold more than one of those
// locks at once is a cheap, panic-on-violation check that the resources
// are being acquired in the mandated order, so a reviewer (or a test)
// catches an inversion before it becomes a deadlock.
package locks

import (
	"fmt"
)

// Resource names one of the six components whose acquisition order this
// package governs. The integer values ARE the mandated order:
// Configuration first, Peers last.
type Resource int

const (
	Configuration Resource = iota
	Wallet
	Mempool
	Blockchain
	Miner
	Peers
)

func (r Resource) String() string {
	switch r {
	case Configuration:
		return "Configuration"
	case Wallet:
		return "Wallet"
	case Mempool:
		return "Mempool"
	case Blockchain:
		return "Blockchain"
	case Miner:
		return "Miner"
	case Peers:
		return "Peers"
	default:
		return "unknown"
	}
}

// Guard tracks which resources the calling goroutine currently holds, in
// acquisition order. It is not itself a mutex and serializes nothing; it
// exists so a call site that must nest several locks can assert the nest
// order is the mandated one instead of silently risking a deadlock
// against some other call site that nests them the other way.
//
// A Guard is built fresh per call chain (it is not safe to share across
// goroutines) — typically a local variable at the top of whichever
// function is about to acquire the first of several locks.
type Guard struct {
	held []Resource
}

// NewGuard returns an empty Guard.
func NewGuard() *Guard {
	return &Guard{}
}

// Acquire records that resource r is about to be locked, after checking
// that r sorts after every resource already held. It returns a release
// func the caller defers to pop r back off once its lock is released.
// Acquiring a resource already on the stack (re-acquiring the same
// non-reentrant lock) is itself an ordering violation and also rejected.
func (g *Guard) Acquire(r Resource) (release func(), err error) {
	for _, h := range g.held {
		if h == r {
			return nil, fmt.Errorf("locks: %s already held by this call chain (non-reentrant)", r)
		}
		if h > r {
			return nil, fmt.Errorf("locks: acquiring %s after %s violates mandated order %s",
				r, h, orderedNames())
		}
	}
	g.held = append(g.held, r)
	return func() { g.pop(r) }, nil
}

func (g *Guard) pop(r Resource) {
	for i := len(g.held) - 1; i >= 0; i-- {
		if g.held[i] == r {
			g.held = append(g.held[:i], g.held[i+1:]...)
			return
		}
	}
}

// Held reports the resources currently recorded as held, in acquisition
// order. Intended for assertions in tests, not production control flow.
func (g *Guard) Held() []Resource {
	out := make([]Resource, len(g.held))
	copy(out, g.held)
	return out
}

func orderedNames() string {
	return "Configuration < Wallet < Mempool < Blockchain < Miner < Peers"
}

// CheckOrder validates a fixed sequence of resources against the
// mandated order without needing a live Guard — useful for a one-shot
// assertion, e.g. in a test documenting a call site's locking sequence.
func CheckOrder(sequence ...Resource) error {
	g := NewGuard()
	for _, r := range sequence {
		if _, err := g.Acquire(r); err != nil {
			return err
		}
	}
	return nil
}
