// Package logging provides structured logging for claudeyes.
//
// This package wraps Go's log/slog to provide JSON-formatted logs. Every poll
// tick can be traced at DEBUG level (text length, decision, action taken), which
// is the main tool for tuning the classifier's pattern tables against real
// terminal output.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/path/to/logs", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	runLogger := logger.WithRun(runID).WithComponent("controller")
//	runLogger.Info("keystroke sent", "proceed_count", 3)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"keystroke sent","run_id":"...","component":"controller","proceed_count":3}
//
// # Log Rotation
//
// [NewLoggerWithRotation] bounds the log file size; rotated files are named
// claudeyes.log.1 (newest) through claudeyes.log.N.
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. Child loggers created
// via With* methods share the underlying writer.
package logging
