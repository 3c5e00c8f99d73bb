package server

import (
	"errors"
	"net/http"
	"os"
)

// Serve starts srv in the background. The returned channel receives the
// error that stopped it, unless that was a normal Shutdown.
func Serve(srv *http.Server) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return errCh
}

// Wait blocks until a signal arrives on quit or the server fails. It returns
// nil for a signal.
func Wait(quit <-chan os.Signal, serverErr <-chan error) error {
	select {
	case <-quit:
		return nil
	case err := <-serverErr:
		return err
	}
}
