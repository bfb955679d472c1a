package logger_test

import (
	"log/slog"

	"github.com/tempograph/tempograph/pkg/logger"
)

func ExampleNewDefaultLogger() {
	// Create a logger with default settings
	log := logger.NewDefaultLogger(slog.LevelDebug)

	// Log different levels
	log.Debug("This is a debug message")
	log.Info("This is an info message")
	log.Warn("This is a warning message") // Will be yellow in terminal
	log.Error("This is an error message") // Will be red in terminal
}

func ExampleNew() {
	// Create a logger from string configuration
	log := logger.New("info", "text")

	// Log with attributes
	log.Info("Processing request", "request_id", "12345", "action", "reason")
	log.Info("Propagation pass complete", "inferences", 42, "constraints", 100)
	log.Warn("Parser collaborator degraded", "failures", 3)
}
