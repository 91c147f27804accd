package engine

import (
	"sync"
	"time"

	"github.com/aristanetworks/goarista/monotime"

	"github.com/saito-io/saito-node/internal/log"
)

// DefaultTickInterval is how often the Driver wakes each processor to
// advance its timers, independent of how large the miner interval or
// the Consensus Processor's one-second timers are — the tick
// granularity just needs to be fine enough that their microsecond
// accumulators cross their thresholds promptly.
const DefaultTickInterval = 10 * time.Millisecond

var driverLogger = log.NewModuleLogger(log.ModuleEngine)

// Driver pumps timer ticks and channel receives for the three
// processors, each on its own goroutine. Suspension points — channel
// receive, ticker fire, stop signal — are the only places a goroutine
// blocks.
type Driver struct {
	bus       *Bus
	consensus *ConsensusProcessor
	routing   *RoutingProcessor
	mining    *MiningProcessor

	replay ReplaySource

	tickInterval time.Duration
	stop         chan struct{}
	wg           sync.WaitGroup
}

// NewDriver wires a Driver around the three already-constructed
// processors sharing bus.
func NewDriver(bus *Bus, consensus *ConsensusProcessor, routing *RoutingProcessor, mining *MiningProcessor) *Driver {
	return &Driver{
		bus:          bus,
		consensus:    consensus,
		routing:      routing,
		mining:       mining,
		tickInterval: DefaultTickInterval,
	}
}

// WithReplaySource sets the storage adapter replayed into the chain
// during Run's on-init step.
func (d *Driver) WithReplaySource(source ReplaySource) *Driver {
	d.replay = source
	return d
}

// Run executes each processor's on-init step, then starts their event
// loops. It returns once all three goroutines are running; call Stop to
// shut them down.
func (d *Driver) Run() error {
	if err := d.consensus.OnInit(d.replay); err != nil {
		return err
	}
	d.routing.OnInit()

	d.stop = make(chan struct{})
	d.wg.Add(3)
	go d.runConsensus()
	go d.runMining()
	go d.runRouting()
	return nil
}

// Stop signals all three loops to exit and waits for them to finish.
func (d *Driver) Stop() {
	if d.stop == nil {
		return
	}
	close(d.stop)
	d.wg.Wait()
}

func (d *Driver) runConsensus() {
	defer d.wg.Done()
	events := d.bus.Subscribe(TopicConsensusEvents)
	ticker := time.NewTicker(d.tickInterval)
	defer ticker.Stop()

	last := monotime.Now()
	for {
		select {
		case <-d.stop:
			return
		case ev := <-events:
			if ce, ok := ev.(ConsensusEvent); ok {
				d.consensus.HandleEvent(ce)
			}
		case <-ticker.C:
			now := monotime.Now()
			dtMicros := (now - last) / uint64(time.Microsecond)
			last = now
			d.consensus.Tick(dtMicros, uint64(time.Now().UnixMilli()))
		}
	}
}

func (d *Driver) runMining() {
	defer d.wg.Done()
	events := d.bus.Subscribe(TopicMinerEvents)
	ticker := time.NewTicker(d.tickInterval)
	defer ticker.Stop()

	last := monotime.Now()
	for {
		select {
		case <-d.stop:
			return
		case ev := <-events:
			if me, ok := ev.(MinerEvent); ok {
				d.mining.HandleEvent(me)
			}
		case <-ticker.C:
			now := monotime.Now()
			dtMicros := (now - last) / uint64(time.Microsecond)
			last = now
			d.mining.Tick(dtMicros)
		}
	}
}

func (d *Driver) runRouting() {
	defer d.wg.Done()
	events := d.bus.Subscribe(TopicNetworkEvents)
	for {
		select {
		case <-d.stop:
			return
		case ev := <-events:
			ne, ok := ev.(NetworkEvent)
			if !ok {
				driverLogger.Warn("dropping unrecognized network event")
				continue
			}
			d.routing.HandleEvent(ne)
		}
	}
}
