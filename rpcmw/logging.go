package rpcmw

import (
	"time"

	"go.uber.org/zap"
)

// LoggingMiddleware records one structured log line per outgoing RPC,
// replacing the ad hoc db.DPrintf call sites the teacher sprinkles through
// its own RPC clients with a single middleware every client gets for free.
type LoggingMiddleware struct {
	logger *zap.Logger
}

// NewLoggingMiddleware builds a LoggingMiddleware that logs through logger.
func NewLoggingMiddleware(logger *zap.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

// Handle implements Middleware.
func (m *LoggingMiddleware) Handle(c *MiddlewareCallContext) error {
	start := time.Now()
	err := c.Next()
	m.logger.Debug("rpc call",
		zap.String("method", c.GetCall().Method),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
	return err
}
