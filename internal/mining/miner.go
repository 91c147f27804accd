// Package mining implements the Mining Processor: a target/difficulty
// pair updated on every longest-chain change, and a tick-paced
// proof-of-work attempt loop that emits a GoldenTicket on success.
package mining

import (
	"crypto/rand"
	"sync"

	"github.com/rcrowley/go-metrics"
	"go.uber.org/atomic"

	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/log"
)

var logger = log.NewModuleLogger(log.ModuleMining)

// MinerIntervalMicros paces mining attempts: one attempt is made per
// elapsed 100ms, never tighter, so the event loop stays responsive
// between ticks.
const MinerIntervalMicros = 100_000

var (
	attemptsCounter = metrics.NewRegisteredCounter("mining.attempts", nil)
	solvedCounter   = metrics.NewRegisteredCounter("mining.solved", nil)
)

// Miner holds the current proof-of-work target, the active/armed flags,
// and the tick accumulator that paces mining attempts.
type Miner struct {
	mu sync.RWMutex

	target     core.Hash
	difficulty uint64

	active *atomic.Bool // mining is enabled at all
	armed  *atomic.Bool // a new target arrived since the last attempt

	timerMicros uint64

	publicKey core.PublicKey
}

// New creates a Miner for the given identity, initially inactive and
// unarmed.
func New(pk core.PublicKey) *Miner {
	return &Miner{
		active:    atomic.NewBool(false),
		armed:     atomic.NewBool(false),
		publicKey: pk,
	}
}

// Start enables mining attempts on subsequent ticks.
func (m *Miner) Start() { m.active.Store(true) }

// Stop disables mining attempts; in-flight state is left untouched so a
// later Start resumes against the same target.
func (m *Miner) Stop() { m.active.Store(false) }

// Active reports whether mining attempts are currently enabled.
func (m *Miner) Active() bool { return m.active.Load() }

// OnLongestChainBlockAdded implements the MinerEvent::LongestChainBlockAdded
// handler: retarget to the new tip and arm the next attempt.
func (m *Miner) OnLongestChainBlockAdded(hash core.Hash, difficulty uint64) {
	m.mu.Lock()
	m.target = hash
	m.difficulty = difficulty
	m.mu.Unlock()
	m.armed.Store(true)
}

// Tick advances the miner's internal timer by dtMicros and, once it has
// armed and the interval has elapsed, makes exactly one mining attempt.
// It returns a solved GoldenTicket and true on success.
func (m *Miner) Tick(dtMicros uint64) (core.GoldenTicket, bool) {
	if !m.active.Load() || !m.armed.Load() {
		return core.GoldenTicket{}, false
	}

	m.mu.Lock()
	m.timerMicros += dtMicros
	if m.timerMicros < MinerIntervalMicros {
		m.mu.Unlock()
		return core.GoldenTicket{}, false
	}
	m.timerMicros = 0
	target := m.target
	difficulty := m.difficulty
	m.mu.Unlock()
	m.armed.Store(false)

	return m.attempt(target, difficulty)
}

func (m *Miner) attempt(target core.Hash, difficulty uint64) (core.GoldenTicket, bool) {
	attemptsCounter.Inc(1)

	var random core.Hash
	if _, err := rand.Read(random[:]); err != nil {
		logger.Warn("failed to draw mining randomness", "err", err.Error())
		return core.GoldenTicket{}, false
	}

	gt := core.NewGoldenTicket(target, random, m.publicKey)
	if !core.IsValidSolution(gt.Solution(), difficulty) {
		return core.GoldenTicket{}, false
	}

	solvedCounter.Inc(1)
	logger.Info("found golden ticket", "target", target.String(), "difficulty", difficulty)
	return gt, true
}
