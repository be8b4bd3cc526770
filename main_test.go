package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getwebfast/site-backend/api"
	"github.com/getwebfast/site-backend/errs"
)

func newTestServer(addr string) api.Server {
	return api.Server{Server: &http.Server{Addr: addr, Handler: http.NotFoundHandler()}}
}

func runAsync(server api.Server, interrupt <-chan os.Signal) <-chan error {
	done := make(chan error, 1)
	go func() { done <- run(server, interrupt, time.Second) }()
	return done
}

func TestRunStopsOnInterrupt(t *testing.T) {
	server := newTestServer("127.0.0.1:0")
	interrupt := make(chan os.Signal, 1)
	done := runAsync(server, interrupt)

	interrupt <- syscall.SIGTERM

	select {
	case err := <-done:
		assert.EqualError(t, err, syscall.SIGTERM.String())
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after interrupt")
	}

	// the server goroutine reports ErrServerClosed after run has returned
	time.Sleep(50 * time.Millisecond)
}

func TestRunReturnsListenError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	done := runAsync(newTestServer(l.Addr().String()), make(chan os.Signal))

	select {
	case err := <-done:
		require.Error(t, err)
		assert.NotErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after listen failure")
	}
}

func TestNewBucket(t *testing.T) {
	ctx := context.Background()

	_, _, err := newBucket(ctx, map[string]string{"STORAGE_DRIVER": "ftp"})
	assert.True(t, errs.IsConfigError(err))

	_, _, err = newBucket(ctx, map[string]string{"STORAGE_DRIVER": "s3"})
	assert.True(t, errs.IsEnvironmentVariableError(err))

	bucket, local, err := newBucket(ctx, map[string]string{"LOCAL_UPLOAD_DIR": t.TempDir(), "PORT": "9000"})
	require.NoError(t, err)
	require.NotNil(t, local)
	assert.Equal(t, "http://localhost:9000/uploads/a.png", bucket.PublicURL("a.png"))
}
