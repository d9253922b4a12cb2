// Package health exposes the tiny HTTP endpoint hosting platforms probe to
// keep the worker alive.
package health

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"
)

// Serve runs a plain-text "ok" responder on addr until ctx is cancelled.
// It blocks; run it in its own goroutine.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	ok := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
	mux.HandleFunc("/", ok)
	mux.HandleFunc("/healthz", ok)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[INFO] health server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
