package blockchain

import (
	"math/big"

	"github.com/saito-io/saito-node/internal/core"
)

// BurnFeeHeartbeatMs is the target inter-block interval the burnfee
// threshold is calibrated against. A block produced exactly on the
// heartbeat leaves the burnfee unchanged; a faster block raises it
// (discouraging rapid production), a slower block lowers it.
const BurnFeeHeartbeatMs = 1000

// RequiredFees computes the minimum cumulative fee work the mempool must
// clear before a block may be bundled, given the block-in-force burnfee
// and the milliseconds elapsed since the previous block. The computation
// is pure integer arithmetic (big.Int, not floating point) specifically
// so that every peer reaches the identical threshold bit-for-bit —
// fork choice depends on this being reproducible across implementations.
//
//	required = burnfee * heartbeat / max(elapsed, 1)
func RequiredFees(burnFee core.Currency, elapsedMs uint64) core.Currency {
	if elapsedMs == 0 {
		elapsedMs = 1
	}
	num := new(big.Int).Mul(big.NewInt(int64(burnFee)), big.NewInt(BurnFeeHeartbeatMs))
	den := big.NewInt(int64(elapsedMs))
	q := new(big.Int).Div(num, den)
	if !q.IsUint64() {
		return core.Currency(^uint64(0))
	}
	return core.Currency(q.Uint64())
}

// NextBurnFee computes the burnfee a newly bundled block will carry,
// adjusting the previous block's burnfee toward the heartbeat: blocks
// produced faster than the heartbeat raise it, slower blocks lower it,
// using the same integer ratio as RequiredFees so the two stay
// consistent with each other.
func NextBurnFee(previousBurnFee core.Currency, elapsedMs uint64) core.Currency {
	if elapsedMs == 0 {
		elapsedMs = 1
	}
	num := new(big.Int).Mul(big.NewInt(int64(previousBurnFee)), big.NewInt(BurnFeeHeartbeatMs))
	den := big.NewInt(int64(elapsedMs))
	q := new(big.Int).Div(num, den)
	if !q.IsUint64() {
		return core.Currency(^uint64(0))
	}
	return core.Currency(q.Uint64())
}
