// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and attaches request ids from the Fiber web framework.
//
// # Context Awareness
//
// Request handlers log with the RayID (request id) of the call.
// The WithRayID helper extracts the RayID from a Fiber context and attaches it to the
// log entry, so every line of one request can be correlated.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// Output goes to stderr so that interactive prompts own stdout.
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
