package connectivity_test

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/runways/pkg/connectivity"
	"github.com/aretw0/runways/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listen(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			_ = c.Close()
		}
	}()
	return ln.Addr().String()
}

func TestMonitor_DefaultsOnline(t *testing.T) {
	m := connectivity.NewMonitor(connectivity.Config{})
	assert.True(t, m.Online())
}

func TestMonitor_ProbeReachable(t *testing.T) {
	m := connectivity.NewMonitor(connectivity.Config{Address: listen(t), Timeout: time.Second})
	assert.True(t, m.Probe(context.Background()))
	assert.True(t, m.Online())

	state := m.State().(connectivity.State)
	assert.Equal(t, 1, state.Probes)
	assert.Empty(t, state.LastError)
}

func TestMonitor_ProbeTransitions(t *testing.T) {
	var fail atomic.Bool
	dial := func(ctx context.Context, network, address string) (net.Conn, error) {
		if fail.Load() {
			return nil, errors.New("network unreachable")
		}
		return (&net.Dialer{}).DialContext(ctx, network, address)
	}
	m := connectivity.NewMonitor(connectivity.Config{Address: listen(t), Dial: dial})
	events, cancel := m.Subscribe()
	defer cancel()

	fail.Store(true)
	assert.False(t, m.Probe(context.Background()))
	assert.False(t, m.Online())
	e := <-events
	assert.Equal(t, core.StoreConnectivity, e.Store)
	assert.Equal(t, "offline", e.ID)

	assert.False(t, m.Probe(context.Background()))
	select {
	case e := <-events:
		t.Fatalf("unexpected event %v", e)
	default:
	}

	fail.Store(false)
	assert.True(t, m.Probe(context.Background()))
	assert.Equal(t, "online", (<-events).ID)
}

func TestMonitor_StartStop(t *testing.T) {
	var calls atomic.Int32
	dial := func(ctx context.Context, network, address string) (net.Conn, error) {
		calls.Add(1)
		return nil, errors.New("no route")
	}
	m := connectivity.NewMonitor(connectivity.Config{Address: "192.0.2.1:443", Interval: 5 * time.Millisecond, Dial: dial})

	require.NoError(t, m.Start(context.Background()))
	assert.Error(t, m.Start(context.Background()))

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.False(t, m.Online())
	assert.True(t, m.State().(connectivity.State).Running)

	m.Stop()
	m.Stop()
	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
	assert.False(t, m.State().(connectivity.State).Running)
}

func TestStatic(t *testing.T) {
	var p connectivity.Provider = connectivity.Static(false)
	assert.False(t, p.Online())
	assert.True(t, connectivity.Static(true).Online())
}

func TestMonitor_ProbeRetries(t *testing.T) {
	var calls atomic.Int32
	addr := listen(t)
	dial := func(ctx context.Context, network, address string) (net.Conn, error) {
		if calls.Add(1) < 3 {
			return nil, errors.New("connection refused")
		}
		return (&net.Dialer{}).DialContext(ctx, network, address)
	}

	m := connectivity.NewMonitor(connectivity.Config{Address: addr, Dial: dial, Retries: 2, RetryDelay: time.Millisecond})
	assert.True(t, m.Probe(context.Background()))
	assert.Equal(t, int32(3), calls.Load())

	calls.Store(-10)
	strict := connectivity.NewMonitor(connectivity.Config{Address: addr, Dial: dial, Retries: 1, RetryDelay: time.Millisecond})
	assert.False(t, strict.Probe(context.Background()))
	assert.Equal(t, int32(-8), calls.Load())
}

func TestMonitor_CancelledProbeKeepsState(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	dial := func(ctx context.Context, network, address string) (net.Conn, error) {
		cancel()
		<-ctx.Done()
		return nil, ctx.Err()
	}
	m := connectivity.NewMonitor(connectivity.Config{Address: "127.0.0.1:1", Dial: dial, Retries: 3, RetryDelay: time.Millisecond})
	events, unsubscribe := m.Subscribe()
	defer unsubscribe()

	assert.True(t, m.Probe(ctx))
	assert.True(t, m.Online())
	state := m.State().(connectivity.State)
	assert.Zero(t, state.Probes)
	assert.Empty(t, state.LastError)

	select {
	case e := <-events:
		t.Fatalf("unexpected transition %s", e)
	case <-time.After(50 * time.Millisecond):
	}
}
