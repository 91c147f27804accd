package mempool

import (
	"github.com/saito-io/saito-node/internal/blockchain"
	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/errs"
)

// CanBundleBlock reports whether the mempool is ready to bundle a new
// block: (a) there is unmined work — a non-golden-ticket transaction or
// a pending golden ticket; (b) cumulative mempool fee work clears the
// burnfee threshold derived from elapsed time since the previous block;
// (c) the minimum inter-block interval has passed since this node's
// last locally produced block.
func (m *Mempool) CanBundleBlock(chain ChainReader, nowMs uint64) bool {
	m.mu.RLock()
	hasWork := m.tickets.Size() > 0
	for _, h := range m.order {
		if m.byHash[h].Type != core.TxGoldenTicket {
			hasWork = true
			break
		}
	}
	sinceLast := nowMs - m.lastBlockProducedAtMs
	cumulativeFees := m.cumulativeFeeWorkLocked()
	m.mu.RUnlock()

	if !hasWork {
		return false
	}
	if m.lastBlockProducedAtMs != 0 && sinceLast < MinInterBlockIntervalMs {
		return false
	}

	tipHash, _ := chain.Tip()
	prev, ok := chain.GetBlock(tipHash)
	var burnFee core.Currency
	var elapsed uint64 = MinInterBlockIntervalMs
	if ok {
		burnFee = prev.BurnFee
		if nowMs > uint64(prev.Timestamp) {
			elapsed = nowMs - uint64(prev.Timestamp)
		}
	}
	threshold := blockchain.RequiredFees(burnFee, elapsed)
	return cumulativeFees >= threshold
}

func (m *Mempool) cumulativeFeeWorkLocked() core.Currency {
	var sum core.Currency
	for _, h := range m.order {
		sum += m.byHash[h].Fee()
	}
	return sum
}

// BundleBlock builds one block from the mempool's current contents: all
// pending transactions plus, if present, one golden ticket wrapped as a
// GoldenTicket transaction. It removes the wrapped ticket from the
// pending-ticket queue and records nowMs as this node's last production
// time; the bundled transactions stay in the mempool until the caller
// removes them.
func (m *Mempool) BundleBlock(chain ChainReader, nowMs uint64) (*core.Block, error) {
	if m.signer == nil {
		return nil, errs.New(errs.Fatal, "mempool: no signer configured, cannot bundle a block")
	}

	m.mu.Lock()
	txs := make([]core.Transaction, 0, len(m.order)+1)
	for _, h := range m.order {
		txs = append(txs, *m.byHash[h])
	}
	var ticket core.GoldenTicket
	hasTicket := m.tickets.Size() > 0
	if hasTicket {
		ticket = m.tickets.Pop().(core.GoldenTicket)
	}
	m.mu.Unlock()

	if hasTicket {
		gtTx := core.Transaction{
			Timestamp: core.Timestamp(nowMs),
			Type:      core.TxGoldenTicket,
			Inputs:    []core.Slip{{Amount: 0}},
			Outputs:   []core.Slip{{Amount: 0}},
			Message:   ticket.SerializeForTransaction(),
		}
		txs = append(txs, gtTx)
	}

	tipHash, tipID := chain.Tip()
	prev, hasPrev := chain.GetBlock(tipHash)

	var prevBurnFee core.Currency
	var elapsed uint64 = MinInterBlockIntervalMs
	if hasPrev {
		prevBurnFee = prev.BurnFee
		if nowMs > uint64(prev.Timestamp) {
			elapsed = nowMs - uint64(prev.Timestamp)
		}
	}

	b := &core.Block{
		ID:           tipID + 1,
		Timestamp:    core.Timestamp(nowMs),
		PreviousHash: tipHash,
		Creator:      m.signer.PublicKey(),
		MerkleRoot:   core.MerkleRootOf(txs),
		BurnFee:      blockchain.NextBurnFee(prevBurnFee, elapsed),
		Difficulty:   0,
		Transactions: txs,
	}
	b.Signature = m.signer.Sign(b.Hash())

	m.mu.Lock()
	m.lastBlockProducedAtMs = nowMs
	m.mu.Unlock()

	return b, nil
}
