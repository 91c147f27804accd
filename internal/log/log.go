// Package log provides the node's module-scoped logger. The call
// convention (NewModuleLogger, then level methods taking alternating
// key/value pairs) matches the rest of the stack's logging idiom; the
// implementation is backed by zap instead of a hand-rolled formatter.
package log

import (
	"github.com/go-stack/stack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Module names used across the node, mirroring the per-package module
// constants the rest of the stack declares for its own logger.
const (
	ModuleConsensus = "consensus"
	ModuleRouting   = "routing"
	ModuleMining    = "mining"
	ModuleMempool   = "mempool"
	ModuleBlockchain = "blockchain"
	ModuleWallet    = "wallet"
	ModuleStorage   = "storage"
	ModuleNetio     = "netio"
	ModuleEngine    = "engine"
)

var base *zap.Logger

func init() {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewNop()
	}
	base = l
}

// Logger is a module-scoped structured logger.
type Logger struct {
	module string
	z      *zap.SugaredLogger
}

// NewModuleLogger returns a Logger tagged with the given module name.
func NewModuleLogger(module string) Logger {
	return Logger{module: module, z: base.Sugar().With("module", module)}
}

// NewWith returns a derived logger with extra static key/value context,
// e.g. a peer index or a database directory.
func (l Logger) NewWith(kv ...interface{}) Logger {
	return Logger{module: l.module, z: l.z.With(kv...)}
}

func (l Logger) Trace(msg string, kv ...interface{}) { l.z.Debugw(msg, kv...) }
func (l Logger) Debug(msg string, kv ...interface{}) { l.z.Debugw(msg, kv...) }
func (l Logger) Info(msg string, kv ...interface{})  { l.z.Infow(msg, kv...) }
func (l Logger) Warn(msg string, kv ...interface{})  { l.z.Warnw(msg, kv...) }
func (l Logger) Error(msg string, kv ...interface{}) { l.z.Errorw(msg, kv...) }

// Fatal logs at error level with a caller-frame stack attached, then
// panics — reserved for the internal-invariant corruption case the
// error design calls Fatal. It never calls os.Exit, so deferred
// functions on the panicking goroutine still run; nothing in the node
// recovers the panic.
func (l Logger) Fatal(msg string, kv ...interface{}) {
	frames := stack.Trace().TrimRuntime()
	kv = append(kv, "stack", frames.String())
	l.z.Errorw(msg, kv...)
	panic(msg)
}

// Sync flushes any buffered log entries; call on shutdown.
func Sync() { _ = base.Sync() }
