package upstream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		ConnectAddr: "localhost:4222",
		StoreURI:    "mongodb://localhost/",
		Database:    "PlaytimeTracking",
		Collection:  "Activity",
	}
}

func TestNew_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing connect address", mutate: func(c *Config) { c.ConnectAddr = "" }},
		{name: "missing store uri", mutate: func(c *Config) { c.StoreURI = "" }},
		{name: "missing database", mutate: func(c *Config) { c.Database = "" }},
		{name: "missing collection", mutate: func(c *Config) { c.Collection = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			_, err := New(cfg)
			assert.Error(t, err)
		})
	}

	_, err := New(nil)
	assert.Error(t, err)
}

func TestReconnectDelay_DoublesAndCaps(t *testing.T) {
	manager, err := New(validConfig())
	require.NoError(t, err)

	testCases := []struct {
		attempts int
		want     time.Duration
	}{
		{attempts: 0, want: time.Second},
		{attempts: 1, want: 2 * time.Second},
		{attempts: 2, want: 4 * time.Second},
		{attempts: 10, want: 1024 * time.Second},
		{attempts: 12, want: time.Hour},
		{attempts: 100, want: time.Hour},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, manager.reconnectDelay(tc.attempts), "attempts=%d", tc.attempts)
	}
}

func TestReconnectDelay_CustomBounds(t *testing.T) {
	cfg := validConfig()
	cfg.InitialDelay = 100 * time.Millisecond
	cfg.MaxDelay = time.Second

	manager, err := New(cfg)
	require.NoError(t, err)

	assert.Equal(t, 100*time.Millisecond, manager.reconnectDelay(0))
	assert.Equal(t, 400*time.Millisecond, manager.reconnectDelay(2))
	assert.Equal(t, time.Second, manager.reconnectDelay(4))
	assert.Equal(t, time.Second, manager.reconnectDelay(50))
}

func TestNotifyConnected_InvokesListenersInOrder(t *testing.T) {
	manager, err := New(validConfig())
	require.NoError(t, err)

	var calls []string
	manager.AddConnectListener(func() { calls = append(calls, "first") })
	manager.AddConnectListener(func() { calls = append(calls, "second") })

	manager.notifyConnected()
	assert.Equal(t, []string{"first", "second"}, calls)

	// Reconnection notifies again
	manager.notifyConnected()
	assert.Equal(t, []string{"first", "second", "first", "second"}, calls)
}

func TestConn_NotConnected(t *testing.T) {
	manager, err := New(validConfig())
	require.NoError(t, err)

	_, err = manager.Conn()
	assert.ErrorIs(t, err, ErrNotConnected)
}
