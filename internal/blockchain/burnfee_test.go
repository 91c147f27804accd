package blockchain

import (
	"testing"

	"github.com/saito-io/saito-node/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestRequiredFeesDeterministic(t *testing.T) {
	a := RequiredFees(core.Currency(5000), 2500)
	b := RequiredFees(core.Currency(5000), 2500)
	assert.Equal(t, a, b)
}

func TestRequiredFeesMonotoneInElapsed(t *testing.T) {
	fast := RequiredFees(core.Currency(1000), 100)
	slow := RequiredFees(core.Currency(1000), 10000)
	assert.Greater(t, uint64(fast), uint64(slow), "less elapsed time since the previous block should demand more fees")
}

func TestRequiredFeesZeroElapsedDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		RequiredFees(core.Currency(100), 0)
	})
}
