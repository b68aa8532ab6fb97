// Package logger provides structured logging for the application.
//
// It builds JSON loggers on log/slog and carries request-scoped loggers
// through context.Context so handlers and stores share trace attributes.
package logger
