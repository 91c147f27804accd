package mining

import (
	"sync"

	"github.com/saito-io/saito-node/internal/core"
)

// MiningDriver is an alternative pacing model to the engine's timer
// loop: instead of Miner.Tick being driven by an external ticker, it
// runs its own background goroutine racing ahead at a fixed cadence,
// forwarding any solved ticket onto a channel. Useful for a standalone
// miner that isn't wired into the event bus.
type MiningDriver struct {
	mu sync.Mutex

	miner   *Miner
	tickets chan core.GoldenTicket
	stop    chan struct{}
	running bool
}

// NewDriver wraps miner with a background goroutine that calls Tick at
// a fixed cadence and forwards any solved ticket onto Tickets().
func NewDriver(miner *Miner) *MiningDriver {
	return &MiningDriver{
		miner:   miner,
		tickets: make(chan core.GoldenTicket, 1),
	}
}

// Tickets returns the channel solved golden tickets are delivered on.
func (d *MiningDriver) Tickets() <-chan core.GoldenTicket { return d.tickets }

// Start begins a loop that calls sleep and then ticks the miner by the
// amount tick returns, until Stop is called. Safe to call once; a second call before Stop is a
// no-op.
func (d *MiningDriver) Start(tick func() uint64, sleep func()) {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.stop = make(chan struct{})
	stop := d.stop
	d.mu.Unlock()

	d.miner.Start()
	go d.loop(tick, sleep, stop)
}

func (d *MiningDriver) loop(tick func() uint64, sleep func(), stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}
		sleep()
		if gt, ok := d.miner.Tick(tick()); ok {
			select {
			case d.tickets <- gt:
			case <-stop:
				return
			}
		}
	}
}

// Stop halts the background loop and disarms the miner.
func (d *MiningDriver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return
	}
	d.running = false
	close(d.stop)
	d.miner.Stop()
}

// Retarget forwards to the underlying Miner's OnLongestChainBlockAdded.
func (d *MiningDriver) Retarget(hash core.Hash, difficulty uint64) {
	d.miner.OnLongestChainBlockAdded(hash, difficulty)
}
