package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	shutdownTimeout    = 10 * time.Second
	sessionSweepPeriod = time.Minute
	readHeaderTimeout  = 10 * time.Second
)

// idleSweeper drops sessions nobody has touched recently.
type idleSweeper interface {
	SweepIdle() int
}

// startHTTPServer serves router until ctx is cancelled, then shuts down
// gracefully and runs cleanup.
func (app *application) startHTTPServer(ctx context.Context, router http.Handler) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	go app.sweepSessions(serverCtx, sessionSweepPeriod, app.quizService, app.reviewService)

	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("server failed", "error", err)
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		app.logger.Info("shutting down server...")
	case err, ok := <-serveErr:
		if ok {
			runErr = err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server shutdown failed", "error", err)
		runErr = errors.Join(runErr, fmt.Errorf("server shutdown failed: %w", err))
	}

	app.cleanup()

	app.logger.Info("server shutdown completed")
	return runErr
}

// sweepSessions evicts idle sessions every period until ctx is done.
func (app *application) sweepSessions(ctx context.Context, period time.Duration, sweepers ...idleSweeper) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := 0
			for _, s := range sweepers {
				removed += s.SweepIdle()
			}
			if removed > 0 {
				app.logger.Debug("evicted idle sessions", "count", removed)
			}
		}
	}
}
