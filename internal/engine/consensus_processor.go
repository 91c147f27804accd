package engine

import (
	"github.com/saito-io/saito-node/internal/blockchain"
	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/log"
	"github.com/saito-io/saito-node/internal/mempool"
	"github.com/saito-io/saito-node/internal/wire"
)

// TxProducingIntervalMicros and BlockProducingIntervalMicros are the two
// timers the Consensus Processor owns, both firing once per elapsed
// second.
const (
	TxProducingIntervalMicros    = 1_000_000
	BlockProducingIntervalMicros = 1_000_000
)

// TransactionSynthesizer is the test-mode hook for synthesizing a batch
// of signed transactions on each tx-producing timer tick. Production
// wiring leaves this nil; only a test-mode driver sets one.
type TransactionSynthesizer interface {
	SynthesizeTransactions(nowMs uint64) []*core.Transaction
}

// ReplaySource is the on-init replay boundary: every previously
// persisted block, in storage's own iteration order.
type ReplaySource interface {
	ReplayBlocks(fn func(*core.Block) error) error
}

// ConsensusProcessor owns the mempool and blockchain: timer-driven block
// bundling, golden-ticket intake, and application of fetched blocks.
type ConsensusProcessor struct {
	mempool *mempool.Mempool
	chain   *blockchain.Blockchain
	bus     *Bus

	txTimerMicros    uint64
	blockTimerMicros uint64

	testMode bool
	synth    TransactionSynthesizer

	logger log.Logger
}

// NewConsensusProcessor wires a ConsensusProcessor from its components.
func NewConsensusProcessor(mp *mempool.Mempool, chain *blockchain.Blockchain, bus *Bus) *ConsensusProcessor {
	return &ConsensusProcessor{
		mempool: mp,
		chain:   chain,
		bus:     bus,
		logger:  log.NewModuleLogger(log.ModuleConsensus),
	}
}

// EnableTestMode arms the tx_producing_timer synthesis path with synth.
func (c *ConsensusProcessor) EnableTestMode(synth TransactionSynthesizer) {
	c.testMode = true
	c.synth = synth
}

// OnInit replays every block in source into the chain before the
// processor accepts live events.
func (c *ConsensusProcessor) OnInit(source ReplaySource) error {
	if source == nil {
		return nil
	}
	return source.ReplayBlocks(func(b *core.Block) error {
		_, err := c.chain.AddBlock(b)
		return err
	})
}

// Tick advances both owned timers by dtMicros, using nowMs as the
// wall-clock reading for burnfee elapsed-time math and for the
// minimum-inter-block-interval check.
func (c *ConsensusProcessor) Tick(dtMicros uint64, nowMs uint64) {
	c.txTimerMicros += dtMicros
	if c.testMode && c.synth != nil && c.txTimerMicros >= TxProducingIntervalMicros {
		c.txTimerMicros = 0
		for _, tx := range c.synth.SynthesizeTransactions(nowMs) {
			if err := c.mempool.AddTransaction(tx); err != nil {
				c.logger.Debug("test-mode synthesized transaction rejected", "err", err.Error())
			}
		}
	}

	c.blockTimerMicros += dtMicros
	if c.blockTimerMicros < BlockProducingIntervalMicros {
		return
	}
	c.blockTimerMicros = 0

	if !c.mempool.CanBundleBlock(c.chain, nowMs) {
		return
	}
	b, err := c.mempool.BundleBlock(c.chain, nowMs)
	if err != nil {
		c.logger.Warn("failed to bundle block", "err", err.Error())
		return
	}
	c.mempool.EnqueueProducedBlock(b)
	c.drainProducedBlocks()
}

// drainProducedBlocks removes each produced block's transactions from
// the mempool and applies it to the chain, for every block the mempool
// has queued.
func (c *ConsensusProcessor) drainProducedBlocks() {
	for {
		b := c.mempool.DrainProducedBlock()
		if b == nil {
			return
		}
		result, err := c.chain.AddBlock(b)
		if err != nil {
			c.logger.Warn("failed to apply locally produced block", "err", err.Error())
			continue
		}
		for _, tx := range b.Transactions {
			c.mempool.RemoveTransaction(tx.SigningHash())
		}
		c.announceIfTipChanged(b, result)
	}
}

func (c *ConsensusProcessor) announceIfTipChanged(b *core.Block, result blockchain.AddResult) {
	if !result.BecameTip {
		return
	}
	if err := c.bus.Publish(TopicMinerEvents, LongestChainBlockAddedEvent{
		Hash:       b.Hash(),
		Difficulty: result.NewDifficulty,
	}); err != nil {
		c.logger.Warn("failed to publish miner retarget event", "err", err.Error())
	}
}

// HandleEvent applies a ConsensusEvent to the owned mempool and chain.
func (c *ConsensusProcessor) HandleEvent(ev ConsensusEvent) {
	switch e := ev.(type) {
	case NewGoldenTicketEvent:
		c.mempool.PushGoldenTicket(e.Ticket)
	case BlockFetchedEvent:
		c.applyFetchedBlock(e.Raw)
	}
}

func (c *ConsensusProcessor) applyFetchedBlock(raw []byte) {
	b, err := wire.DecodeBlock(raw)
	if err != nil {
		c.logger.Warn("failed to decode fetched block, dropping", "err", err.Error())
		return
	}
	result, err := c.chain.AddBlock(b)
	if err != nil {
		c.logger.Warn("rejected fetched block", "hash", b.Hash().String(), "err", err.Error())
		return
	}
	c.announceIfTipChanged(b, result)
}

// BlockFetched implements routing.ConsensusSink: it hands the raw block
// bytes across the channel boundary instead of applying them inline, so
// the Consensus Processor's own goroutine — not Routing's — does the
// chain mutation.
func (c *ConsensusProcessor) BlockFetched(raw []byte) {
	if err := c.bus.Publish(TopicConsensusEvents, BlockFetchedEvent{Raw: raw}); err != nil {
		c.logger.Warn("failed to publish fetched block event", "err", err.Error())
	}
}
