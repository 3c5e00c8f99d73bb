package server

import (
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestServe_ReportsListenFailure(t *testing.T) {
	errCh := Serve(&http.Server{Addr: "127.0.0.1:not-a-port"})

	select {
	case err := <-errCh:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("listen failure was not reported")
	}
}

func TestWait_Signal(t *testing.T) {
	quit := make(chan os.Signal, 1)
	quit <- syscall.SIGTERM

	require.NoError(t, Wait(quit, make(chan error)))
}

func TestWait_ServerFailure(t *testing.T) {
	serverErr := make(chan error, 1)
	serverErr <- http.ErrHandlerTimeout

	require.ErrorIs(t, Wait(make(chan os.Signal), serverErr), http.ErrHandlerTimeout)
}
