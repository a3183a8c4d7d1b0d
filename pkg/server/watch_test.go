package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/routeview/pkg/router"
)

const extraRoute = `
      - path: about
        component: UserProfile
`

func TestWatchRoutesReloads(t *testing.T) {
	file := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(file, []byte(routeTable), 0o644))

	build := func() (*router.Router, error) {
		r := router.New()
		return r, r.LoadTableFile(file, registry())
	}
	initial, err := build()
	require.NoError(t, err)
	srv := New(initial, WithLogger(quietLogger()))
	require.Equal(t, http.StatusNotFound, get(t, srv, "/about").Code)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.WatchRoutes(ctx, file, build, 10*time.Millisecond) }()

	// Rewrite on every tick: the watcher may not be registered yet when
	// the first write lands.
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(file, []byte(routeTable+extraRoute), 0o644)
		return get(t, srv, "/about").Code == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestWatchRoutesKeepsRouterOnBadTable(t *testing.T) {
	file := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(file, []byte(routeTable), 0o644))

	builds := make(chan error, 16)
	build := func() (*router.Router, error) {
		r := router.New()
		err := r.LoadTableFile(file, registry())
		select {
		case builds <- err:
		default:
		}
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	initial, err := build()
	require.NoError(t, err)
	<-builds
	srv := New(initial, WithLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = srv.WatchRoutes(ctx, file, build, 10*time.Millisecond) }()

	assert.Eventually(t, func() bool {
		_ = os.WriteFile(file, []byte("routes: [unclosed"), 0o644)
		select {
		case err := <-builds:
			return err != nil
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	assert.Same(t, initial, srv.Router())
	assert.Equal(t, http.StatusOK, get(t, srv, "/").Code)
}

func TestWatchRoutesMissingDirectory(t *testing.T) {
	srv := New(router.New(), WithLogger(quietLogger()))
	err := srv.WatchRoutes(context.Background(), filepath.Join(t.TempDir(), "missing", "routes.yaml"), nil, 0)
	assert.Error(t, err)
}
