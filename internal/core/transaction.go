package core

// TransactionType classifies the purpose of a transaction.
type TransactionType byte

const (
	TxNormal TransactionType = iota
	TxFee
	TxGoldenTicket
	TxATR
	TxVip
	TxStakerDeposit
	TxStakerWithdrawal
	TxOther
)

// PathHop is one routing hop a transaction passed through on its way to
// being included in a block: who forwarded it (From), to whom (To), and
// that forwarder's signature over the transaction.
type PathHop struct {
	From PublicKey
	To   PublicKey
	Sig  Signature
}

// Transaction is the node's fundamental unit of value transfer.
type Transaction struct {
	Timestamp Timestamp
	Signature Signature
	Path      []PathHop
	Type      TransactionType
	Inputs    []Slip
	Outputs   []Slip
	Message   []byte

	hash    Hash
	hashSet bool
}

// TotalIn sums the amounts of all input slips.
func (t *Transaction) TotalIn() Currency {
	var sum Currency
	for _, s := range t.Inputs {
		sum += s.Amount
	}
	return sum
}

// TotalOut sums the amounts of all output slips.
func (t *Transaction) TotalOut() Currency {
	var sum Currency
	for _, s := range t.Outputs {
		sum += s.Amount
	}
	return sum
}

// Fee returns TotalIn - TotalOut, or 0 if outputs exceed inputs (callers
// validate non-negativity separately; this never underflows because
// Currency is unsigned — a negative "fee" is instead a validity failure
// surfaced by IsValid).
func (t *Transaction) Fee() Currency {
	in, out := t.TotalIn(), t.TotalOut()
	if out > in {
		return 0
	}
	return in - out
}

// IsValid checks the single-transaction invariants from the data model:
// Normal transactions must not spend more than they receive; a
// GoldenTicket transaction carries exactly one zero-amount input/output
// pair and a 97-byte payload in Message.
func (t *Transaction) IsValid() bool {
	switch t.Type {
	case TxGoldenTicket:
		if len(t.Inputs) != 1 || len(t.Outputs) != 1 {
			return false
		}
		if t.Inputs[0].Amount != 0 || t.Outputs[0].Amount != 0 {
			return false
		}
		return len(t.Message) == GoldenTicketWireSize
	case TxNormal:
		return t.TotalIn() >= t.TotalOut()
	default:
		return t.TotalIn() >= t.TotalOut()
	}
}

// SigningHash computes and caches the transaction's signing hash, a pure
// function of every field except Signature and Path. Once computed it is
// treated as an invariant: later calls return the cached value, and
// deserialization code asserts it still matches rather than recomputing
// blindly (see WithSigningHash).
func (t *Transaction) SigningHash() Hash {
	if t.hashSet {
		return t.hash
	}
	t.hash = t.computeSigningHash()
	t.hashSet = true
	return t.hash
}

func (t *Transaction) computeSigningHash() Hash {
	var buf []byte
	buf = appendUint64(buf, uint64(t.Timestamp))
	buf = append(buf, byte(t.Type))
	for _, in := range t.Inputs {
		buf = appendSlip(buf, in)
	}
	for _, out := range t.Outputs {
		buf = appendSlip(buf, out)
	}
	buf = append(buf, t.Message...)
	return Hash256(buf)
}

// WithSigningHash sets the cached signing hash read back from the wire,
// so deserialized transactions don't recompute it — but the caller must
// call VerifySigningHash to assert it is correct before trusting it.
func (t *Transaction) WithSigningHash(h Hash) {
	t.hash = h
	t.hashSet = true
}

// VerifySigningHash recomputes the signing hash fresh and reports
// whether it matches the cached value, catching any wire corruption of
// the cached-hash invariant.
func (t *Transaction) VerifySigningHash() bool {
	return t.computeSigningHash() == t.hash
}

func appendUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return append(buf, b[:]...)
}

func appendSlip(buf []byte, s Slip) []byte {
	buf = append(buf, s.PublicKey[:]...)
	buf = appendUint64(buf, uint64(s.Amount))
	buf = append(buf, s.UUID[:]...)
	buf = append(buf, s.Ordinal, byte(s.Type))
	return buf
}
