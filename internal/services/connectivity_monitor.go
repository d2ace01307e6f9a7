package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KimJesus22/LanaSync/internal/gateway"
)

// ConnectivityMonitor tracks reachability of the remote store. It is a pure
// observer: SetOnline deduplicates so subscribers see exactly one
// notification per actual transition, however noisy the underlying signal.
// The monitor can be wrong about being online; a failed remote write is the
// authoritative signal and callers feed it back through SetOnline(false).
type ConnectivityMonitor struct {
	mu          sync.RWMutex
	online      bool
	subscribers []chan bool

	gateway       gateway.RemoteGateway
	probeInterval time.Duration
	logger        *slog.Logger
}

func NewConnectivityMonitor(gw gateway.RemoteGateway, probeInterval time.Duration, startOnline bool) ConnectivityMonitorInterface {
	return &ConnectivityMonitor{
		online:        startOnline,
		gateway:       gw,
		probeInterval: probeInterval,
		logger:        slog.Default(),
	}
}

func (m *ConnectivityMonitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// SetOnline records the reachability state. Repeated calls with the same
// value are no-ops; only genuine transitions reach subscribers.
func (m *ConnectivityMonitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}

	m.online = online
	subscribers := make([]chan bool, len(m.subscribers))
	copy(subscribers, m.subscribers)
	m.mu.Unlock()

	for _, sub := range subscribers {
		select {
		case sub <- online:
		default:
			m.logger.Warn("connectivity subscriber channel full, dropping transition",
				slog.Bool("online", online),
			)
		}
	}
}

// Subscribe returns a channel receiving one value per connectivity transition
func (m *ConnectivityMonitor) Subscribe() <-chan bool {
	ch := make(chan bool, 16)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch
}

// RunProber periodically pings the gateway and feeds the result into
// SetOnline. It returns when the context is cancelled.
func (m *ConnectivityMonitor) RunProber(ctx context.Context) {
	if m.gateway == nil || m.probeInterval <= 0 {
		return
	}

	ticker := time.NewTicker(m.probeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := m.gateway.Ping(ctx)
			m.SetOnline(err == nil)
		}
	}
}
