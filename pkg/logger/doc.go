// Package logger provides structured logging for tokscraper built on zerolog.
//
// A single global logger is initialized from config.LoggingConfig and used
// throughout the engine; components receive the Logger interface so tests can
// substitute NewTestLogger.
package logger
