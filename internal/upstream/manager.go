package upstream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	// defaultInitialDelay is the reconnect delay after the first drop
	defaultInitialDelay = time.Second

	// defaultMaxDelay bounds the exponential reconnect backoff
	defaultMaxDelay = time.Hour

	// storePoolSize sizes the store's connection pool for the modest
	// concurrent query load the sealer produces
	storePoolSize = 5
)

// ErrNotConnected is returned when the upstream connection has not been
// established yet
var ErrNotConnected = errors.New("not connected to upstream")

// ConnectListener is invoked after every successful (re)connection, in
// registration order
type ConnectListener func()

// Config holds configuration for the connection manager
type Config struct {
	// ConnectAddr is the address of the network message bus
	ConnectAddr string

	// Credentials for the bus
	Username string
	Password string

	// InitialDelay is the reconnect delay after the first drop; defaults to 1s
	InitialDelay time.Duration

	// MaxDelay bounds the exponential reconnect backoff; defaults to 1h
	MaxDelay time.Duration

	// StoreURI is the MongoDB connection string
	StoreURI string

	// Database and Collection locate the activity documents
	Database   string
	Collection string

	// Logger for connection lifecycle events
	Logger *zap.Logger
}

// Manager owns the connection to the upstream event source and the pooled
// handle to the session store. It reconnects with exponential backoff, resets
// the delay on success, and notifies its listeners on every (re)connection.
type Manager struct {
	connectAddr  string
	username     string
	password     string
	initialDelay time.Duration
	maxDelay     time.Duration
	storeURI     string
	database     string
	collection   string
	logger       *zap.Logger

	mu        sync.Mutex
	listeners []ConnectListener
	conn      *nats.Conn

	storeOnce   sync.Once
	storeClient *mongo.Client
	storeErr    error
}

// New creates a new connection manager
func New(cfg *Config) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.ConnectAddr == "" {
		return nil, errors.New("connect address cannot be empty")
	}

	if cfg.StoreURI == "" {
		return nil, errors.New("store uri cannot be empty")
	}

	if cfg.Database == "" || cfg.Collection == "" {
		return nil, errors.New("database and collection cannot be empty")
	}

	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = defaultInitialDelay
	}

	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = defaultMaxDelay
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Manager{
		connectAddr:  cfg.ConnectAddr,
		username:     cfg.Username,
		password:     cfg.Password,
		initialDelay: cfg.InitialDelay,
		maxDelay:     cfg.MaxDelay,
		storeURI:     cfg.StoreURI,
		database:     cfg.Database,
		collection:   cfg.Collection,
		logger:       cfg.Logger,
	}, nil
}

// AddConnectListener registers a callback to run after every successful
// (re)connection. Listeners must be registered before Connect.
func (m *Manager) AddConnectListener(listener ConnectListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, listener)
}

// Connect establishes the upstream connection. An initial dial failure is a
// startup error and is returned; once connected, drops are redialed forever
// with exponential backoff, and the delay resets after each success.
func (m *Manager) Connect(ctx context.Context) error {
	opts := []nats.Option{
		nats.Name("playtimetracker"),
		nats.MaxReconnects(-1),
		nats.CustomReconnectDelay(m.reconnectDelay),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				m.logger.Warn("lost connection to upstream", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			m.logger.Info("reconnected to upstream", zap.String("url", nc.ConnectedUrl()))
			m.notifyConnected()
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			m.logger.Info("upstream connection closed")
		}),
	}
	if m.username != "" {
		opts = append(opts, nats.UserInfo(m.username, m.password))
	}

	nc, err := nats.Connect(m.connectAddr, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to upstream at %s: %w", m.connectAddr, err)
	}

	m.mu.Lock()
	m.conn = nc
	m.mu.Unlock()

	m.logger.Info("connected to upstream", zap.String("url", nc.ConnectedUrl()))
	m.notifyConnected()

	return nil
}

// reconnectDelay doubles from the initial delay on every consecutive failed
// attempt, capped at the maximum. The attempt counter resets after a
// successful reconnection, which resets the delay to its initial value.
func (m *Manager) reconnectDelay(attempts int) time.Duration {
	delay := m.initialDelay
	for i := 0; i < attempts; i++ {
		delay *= 2
		if delay >= m.maxDelay {
			return m.maxDelay
		}
	}

	return delay
}

func (m *Manager) notifyConnected() {
	m.mu.Lock()
	listeners := make([]ConnectListener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, listener := range listeners {
		listener()
	}
}

// Conn returns the upstream connection
func (m *Manager) Conn() (*nats.Conn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		return nil, ErrNotConnected
	}

	return m.conn, nil
}

// Store returns the activity collection, constructing the pooled client on
// first use. Every caller receives the same handle.
func (m *Manager) Store(ctx context.Context) (*mongo.Collection, error) {
	m.storeOnce.Do(func() {
		opts := options.Client().
			ApplyURI(m.storeURI).
			SetMaxPoolSize(storePoolSize)

		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			m.storeErr = fmt.Errorf("failed to construct store client: %w", err)
			return
		}

		if err := client.Ping(ctx, nil); err != nil {
			m.storeErr = fmt.Errorf("failed to reach store: %w", err)
			return
		}

		m.storeClient = client
	})

	if m.storeErr != nil {
		return nil, m.storeErr
	}

	return m.storeClient.Database(m.database).Collection(m.collection), nil
}

// Close drains the upstream connection and releases the store client
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()

	if conn != nil {
		if err := conn.Drain(); err != nil {
			m.logger.Warn("failed to drain upstream connection", zap.Error(err))
		}
	}

	if m.storeClient != nil {
		if err := m.storeClient.Disconnect(ctx); err != nil {
			return fmt.Errorf("failed to disconnect store client: %w", err)
		}
	}

	return nil
}
