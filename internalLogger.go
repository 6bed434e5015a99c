package gelf

import (
	"log"
	"os"
	"sync/atomic"
)

var internalLogger atomic.Value

func init() {
	internalLogger.Store(log.New(os.Stderr, "[gelf] ", log.LstdFlags))
}

// InternalLogger returns the Logger used to write out internal logs, where
// logs get written when something goes wrong in the shipping stack itself.
// The GELF pipeline never reports asynchronous failures to logging call
// sites, so this is the diagnostic side channel.
func InternalLogger() *log.Logger { return internalLogger.Load().(*log.Logger) }

// SetInternalLogger makes l the internal logger.
func SetInternalLogger(l *log.Logger) {
	internalLogger.Store(l)
}
