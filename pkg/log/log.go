// Package log wraps zap for the chain maintenance core, mirroring the
// global-logger-plus-accessor shape of the teacher's pkg/log package.
package log

import (
	"sync"

	"go.uber.org/zap"
)

var (
	_globalL *zap.Logger
	_globalS *zap.SugaredLogger
	_mu      sync.RWMutex
)

func init() {
	l, _ := zap.NewProduction()
	_globalL = l
	_globalS = l.Sugar()
}

// L returns the global structured logger.
func L() *zap.Logger {
	_mu.RLock()
	defer _mu.RUnlock()
	return _globalL
}

// S returns the global sugared logger, used at the best-effort call sites
// where loosely typed key-value pairs read more naturally than zap.Field
// values.
func S() *zap.SugaredLogger {
	_mu.RLock()
	defer _mu.RUnlock()
	return _globalS
}

// SetLogger overrides the global loggers, e.g. to inject a test observer
// or a differently configured production logger.
func SetLogger(l *zap.Logger) {
	_mu.Lock()
	defer _mu.Unlock()
	_globalL = l
	_globalS = l.Sugar()
}
