// Package wallet tracks the node's own spendable and staked slips across
// block application and reorg unwind.
package wallet

import (
	"sync"

	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/log"
)

var logger = log.NewModuleLogger(log.ModuleWallet)

// WalletSlip is a locally observed slip owned by this wallet's public
// key, annotated with the block it was seen in and whether that block
// is currently on the longest chain.
type WalletSlip struct {
	UUID         core.Hash
	UTXOKey      [core.UTXOKeySize]byte
	Amount       core.Currency
	BlockID      uint64
	BlockHash    core.Hash
	LongestChain bool
	Ordinal      byte
	Spent        bool
}

func isStaked(t core.SlipType) bool {
	switch t {
	case core.SlipStakerDeposit, core.SlipStakerOutput,
		core.SlipStakerWithdrawalStaking, core.SlipStakerWithdrawalPending:
		return true
	default:
		return false
	}
}

// Wallet holds this node's keypair and the two slip lists (spendable and
// staked) it tracks as blocks are applied and unwound.
type Wallet struct {
	mu sync.RWMutex

	publicKey  core.PublicKey
	privateKey core.PrivateKey

	slips      []WalletSlip
	stakedSlips []WalletSlip
}

// New generates a fresh keypair and an empty wallet.
func New() (*Wallet, error) {
	sk, pk, err := core.GenerateKeypair()
	if err != nil {
		return nil, err
	}
	return &Wallet{privateKey: sk, publicKey: pk}, nil
}

// FromKeypair builds a wallet around an existing keypair, e.g. one
// loaded from disk.
func FromKeypair(sk core.PrivateKey, pk core.PublicKey) *Wallet {
	return &Wallet{privateKey: sk, publicKey: pk}
}

func (w *Wallet) PublicKey() core.PublicKey   { return w.publicKey }
func (w *Wallet) PrivateKey() core.PrivateKey { return w.privateKey }

// Sign signs hash with the wallet's own private key.
func (w *Wallet) Sign(hash core.Hash) core.Signature {
	return core.Sign(w.privateKey, hash)
}

// OnBlockApplied implements the blockchain.WalletNotifier side of a
// forward walk: slips this wallet owns that are spent by an input are
// removed from tracking; slips created in an output are added.
func (w *Wallet) OnBlockApplied(b *core.Block, isLongestChain bool) {
	if !isLongestChain {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, tx := range b.Transactions {
		for _, in := range tx.Inputs {
			if in.Amount > 0 && in.PublicKey == w.publicKey {
				if isStaked(in.Type) {
					w.deleteStakedSlipLocked(in)
				} else {
					w.deleteSlipLocked(in)
				}
			}
		}
		for ord, out := range tx.Outputs {
			if out.Amount > 0 && out.PublicKey == w.publicKey {
				w.addSlipLocked(b, &tx, out, byte(ord), true)
			}
		}
	}
}

// OnBlockUnwound undoes a reorg'd-away block: the operations are swapped
// relative to OnBlockApplied — inputs are restored, outputs removed.
func (w *Wallet) OnBlockUnwound(b *core.Block) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, tx := range b.Transactions {
		for _, in := range tx.Inputs {
			if in.Amount > 0 && in.PublicKey == w.publicKey {
				ws := WalletSlip{UUID: in.UUID, UTXOKey: in.UTXOKey(), Amount: in.Amount, BlockID: b.ID, BlockHash: b.Hash(), LongestChain: true, Ordinal: in.Ordinal}
				if isStaked(in.Type) {
					w.stakedSlips = append(w.stakedSlips, ws)
				} else {
					w.slips = append(w.slips, ws)
				}
			}
		}
		for ord, out := range tx.Outputs {
			if out.Amount > 0 && out.PublicKey == w.publicKey {
				key := core.Slip{UUID: tx.SigningHash(), Ordinal: byte(ord)}
				if isStaked(out.Type) {
					w.deleteStakedSlipLocked(key)
				} else {
					w.deleteSlipLocked(key)
				}
			}
		}
	}
}

func (w *Wallet) addSlipLocked(b *core.Block, tx *core.Transaction, slip core.Slip, ordinal byte, lc bool) {
	ws := WalletSlip{
		UUID:         tx.SigningHash(),
		UTXOKey:      slip.UTXOKey(),
		Amount:       slip.Amount,
		BlockID:      b.ID,
		BlockHash:    b.Hash(),
		LongestChain: lc,
		Ordinal:      ordinal,
	}
	if isStaked(slip.Type) {
		w.stakedSlips = append(w.stakedSlips, ws)
	} else {
		w.slips = append(w.slips, ws)
	}
}

// deleteSlipLocked and deleteStakedSlipLocked match on (uuid, ordinal).
// Deleting a slip that isn't tracked is a no-op, not an error.
func (w *Wallet) deleteSlipLocked(slip core.Slip) {
	w.slips = filterSlips(w.slips, slip)
}

func (w *Wallet) deleteStakedSlipLocked(slip core.Slip) {
	w.stakedSlips = filterSlips(w.stakedSlips, slip)
}

func filterSlips(in []WalletSlip, slip core.Slip) []WalletSlip {
	out := in[:0]
	for _, ws := range in {
		if ws.UUID == slip.UUID && ws.Ordinal == slip.Ordinal {
			continue
		}
		out = append(out, ws)
	}
	return out
}

// AvailableBalance sums every unspent, untracked-as-staked slip.
func (w *Wallet) AvailableBalance() core.Currency {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var sum core.Currency
	for _, ws := range w.slips {
		if !ws.Spent {
			sum += ws.Amount
		}
	}
	return sum
}

// generateSlips greedily selects unspent slips in insertion order until
// their sum covers amount, marks them spent, and returns them as
// transaction inputs paired with a single change output for any
// overflow. If the wallet cannot cover amount it still returns what it
// has — this function stays pure and leaves validity failure to the
// caller.
func (w *Wallet) generateSlips(amount core.Currency) ([]core.Slip, []core.Slip) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var inputs, outputs []core.Slip
	var totalIn core.Currency

	for i := range w.slips {
		if w.slips[i].Spent {
			continue
		}
		if totalIn >= amount {
			break
		}
		s := &w.slips[i]
		totalIn += s.Amount
		inputs = append(inputs, core.Slip{
			PublicKey: w.publicKey,
			Amount:    s.Amount,
			UUID:      s.UUID,
			Ordinal:   s.Ordinal,
		})
		s.Spent = true
	}

	var change core.Currency
	if totalIn > amount {
		change = totalIn - amount
	}
	outputs = append(outputs, core.Slip{PublicKey: w.publicKey, Amount: change})

	if len(inputs) == 0 {
		inputs = append(inputs, core.Slip{PublicKey: w.publicKey, Amount: 0})
	}
	return inputs, outputs
}
