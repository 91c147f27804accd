package engine

import (
	"github.com/saito-io/saito-node/internal/log"
	"github.com/saito-io/saito-node/internal/mining"
)

// MiningProcessor owns the Miner: retarget on LongestChainBlockAddedEvent,
// attempt a solution once per elapsed tick interval, and publish a
// NewGoldenTicketEvent on success.
type MiningProcessor struct {
	miner *mining.Miner
	bus   *Bus

	logger log.Logger
}

// NewMiningProcessor wires a MiningProcessor around miner.
func NewMiningProcessor(miner *mining.Miner, bus *Bus) *MiningProcessor {
	return &MiningProcessor{miner: miner, bus: bus, logger: log.NewModuleLogger(log.ModuleMining)}
}

// HandleEvent applies a MinerEvent to the owned miner.
func (p *MiningProcessor) HandleEvent(ev MinerEvent) {
	switch e := ev.(type) {
	case LongestChainBlockAddedEvent:
		p.miner.OnLongestChainBlockAdded(e.Hash, e.Difficulty)
	}
}

// Tick advances the miner by dtMicros and, on a solved ticket, publishes
// it to the Consensus Processor.
func (p *MiningProcessor) Tick(dtMicros uint64) {
	gt, ok := p.miner.Tick(dtMicros)
	if !ok {
		return
	}
	if err := p.bus.Publish(TopicConsensusEvents, NewGoldenTicketEvent{Ticket: gt}); err != nil {
		p.logger.Warn("failed to publish golden ticket event", "err", err.Error())
	}
}
