package wallet

import (
	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/errs"
)

// ErrInsufficientFunds is returned by CreateTransactionWithDefaultFees
// when the wallet's spendable balance cannot cover the requested amount.
// The builder fails loudly rather than returning an empty, unsigned
// transaction, so a caller cannot mistake an insolvent wallet for a
// zero-value transfer.
var ErrInsufficientFunds = errs.New(errs.Invalid, "wallet: insufficient funds to cover requested amount")

// DefaultFee is the flat fee CreateTransactionWithDefaultFees adds on
// top of the requested payment amount.
const DefaultFee = core.Currency(2)

// CreateTransactionWithDefaultFees builds and signs a Normal transaction
// paying amount to recipient: select inputs via generateSlips, add the
// payment output, sign over the resulting SigningHash. Returns
// ErrInsufficientFunds if the wallet cannot cover amount+DefaultFee.
func (w *Wallet) CreateTransactionWithDefaultFees(recipient core.PublicKey, amount core.Currency) (*core.Transaction, error) {
	total := amount + DefaultFee
	if w.AvailableBalance() < total {
		return nil, ErrInsufficientFunds
	}

	inputs, changeOutputs := w.generateSlips(total)

	tx := &core.Transaction{
		Type:    core.TxNormal,
		Inputs:  inputs,
		Outputs: append([]core.Slip{{PublicKey: recipient, Amount: amount}}, changeOutputs...),
	}
	if tx.TotalIn() < tx.TotalOut() {
		// generateSlips is allowed to under-fill per its purity contract;
		// the balance check above should make this unreachable.
		return nil, ErrInsufficientFunds
	}

	h := tx.SigningHash()
	tx.Signature = w.Sign(h)
	return tx, nil
}

// CreateGoldenTicketTransaction wraps a mined GoldenTicket as the
// zero-value, single-input/single-output transaction the data model
// requires (core.Transaction.IsValid's GoldenTicket case), signed by
// this wallet.
func (w *Wallet) CreateGoldenTicketTransaction(gt core.GoldenTicket) *core.Transaction {
	tx := &core.Transaction{
		Type:    core.TxGoldenTicket,
		Inputs:  []core.Slip{{PublicKey: w.publicKey, Amount: 0}},
		Outputs: []core.Slip{{PublicKey: w.publicKey, Amount: 0}},
		Message: gt.SerializeForTransaction(),
	}
	h := tx.SigningHash()
	tx.Signature = w.Sign(h)
	return tx
}
