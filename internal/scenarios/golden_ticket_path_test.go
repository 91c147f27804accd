package scenarios

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/engine"
	"github.com/saito-io/saito-node/internal/mining"
)

var _ = Describe("Golden-ticket path", func() {
	// A just-added longest-chain block arms the Mining Processor; ticking
	// repeatedly must, within a bounded number of ticks, emit a
	// NewGoldenTicketEvent whose target is that block's hash.
	It("emits a NewGoldenTicketEvent targeting the armed block within a bounded number of ticks", func() {
		_, pk, err := core.GenerateKeypair()
		Expect(err).NotTo(HaveOccurred())

		miner := mining.New(pk)
		miner.Start()
		bus := engine.NewBus()
		proc := engine.NewMiningProcessor(miner, bus)

		blockHash := core.Hash{0xAB, 0xCD}
		proc.HandleEvent(engine.LongestChainBlockAddedEvent{Hash: blockHash, Difficulty: 0})

		var ticket core.GoldenTicket
		found := false
		const maxTicks = 64
		for i := 0; i < maxTicks && !found; i++ {
			proc.Tick(mining.MinerIntervalMicros)
			select {
			case ev := <-bus.Subscribe(engine.TopicConsensusEvents):
				if gt, ok := ev.(engine.NewGoldenTicketEvent); ok {
					ticket = gt.Ticket
					found = true
				}
			default:
			}
		}

		Expect(found).To(BeTrue(), "expected a solved golden ticket within %d ticks", maxTicks)
		Expect(ticket.Target).To(Equal(blockHash))
		Expect(core.IsValidSolution(ticket.Solution(), 0)).To(BeTrue())
	})
})
