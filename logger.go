package sgp4

import (
	"os"
	"sync"

	kitlog "github.com/go-kit/kit/log"
)

var (
	loggerMu sync.RWMutex
	logger   = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
)

// SetLogger replaces the package logger. Pass kitlog.NewNopLogger() to silence it.
func SetLogger(l kitlog.Logger) {
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}

// Logger returns the package logger scoped to the provided subsystem.
func Logger(subsys string) kitlog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return kitlog.With(logger, "subsys", subsys)
}
