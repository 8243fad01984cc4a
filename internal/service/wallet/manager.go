// internal/service/wallet/manager.go

package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"basedsprings/internal/domain/wallet"
)

// SessionManagerConfig contains configuration for the session manager
type SessionManagerConfig struct {
	RetryDelay    time.Duration
	MaxRetries    int
	GlobalTimeout time.Duration
}

// SessionManager implements the wallet.Manager interface as a single
// finite-state machine. One goroutine owns every transition, so there is at
// most one in-flight resolution attempt at any time.
type SessionManager struct {
	provider wallet.Provider
	config   SessionManagerConfig

	mu      sync.RWMutex
	session wallet.Session

	trigger chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewSessionManager creates a new session manager and starts its run loop.
// A nil provider means the host capability is absent; the manager resolves
// to a quiet disconnected state rather than an error.
func NewSessionManager(provider wallet.Provider, config SessionManagerConfig) *SessionManager {
	ctx, cancel := context.WithCancel(context.Background())

	m := &SessionManager{
		provider: provider,
		config:   config,
		session: wallet.Session{
			Loading: true,
			Phase:   wallet.PhaseInitializing,
		},
		trigger: make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
	}

	m.wg.Add(1)
	go m.run()

	return m
}

// Connect triggers a connection attempt. It is idempotent while connected
// and restarts the state machine from any terminal phase. It never blocks
// and never returns an error.
func (m *SessionManager) Connect() {
	if m.Session().Connected {
		return
	}

	select {
	case m.trigger <- struct{}{}:
	default:
		// An attempt is already pending.
	}
}

// Session returns a snapshot of the current session state
func (m *SessionManager) Session() wallet.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.session
}

// Stop gracefully stops the session manager
func (m *SessionManager) Stop(ctx context.Context) error {
	m.cancel()

	c := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(c)
	}()

	select {
	case <-c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the state machine loop. Each iteration performs one full
// connection attempt; a true return means the wallet disconnected while
// watching and resolution starts over immediately. After a terminal phase
// it waits for a Connect trigger before starting over.
func (m *SessionManager) run() {
	defer m.wg.Done()

	for {
		for m.attempt() {
		}

		select {
		case <-m.ctx.Done():
			return
		case <-m.trigger:
		}
	}
}

// attempt drives one pass from Initializing to a terminal phase. When it
// reaches Connected it keeps watching account-change notifications and only
// returns once the wallet disconnects or the manager stops. The return
// value reports a disconnect that should restart resolution.
func (m *SessionManager) attempt() bool {
	if m.provider == nil {
		// Capability absent is a non-error condition: disconnected, no
		// error message, manual connect still available.
		m.setSession(wallet.Session{Phase: wallet.PhaseCapabilityAbsent})
		return false
	}

	attemptCtx, cancel := context.WithTimeout(m.ctx, m.config.GlobalTimeout)
	defer cancel()

	retries := 0
	for {
		m.setSession(wallet.Session{Loading: true, Phase: wallet.PhaseResolving})

		address, err := m.resolve(attemptCtx)
		if err == nil {
			m.setSession(wallet.Session{
				Address:   address,
				Connected: true,
				Phase:     wallet.PhaseConnected,
			})
			return m.watch(address)
		}

		if errors.Is(err, wallet.ErrRejected) {
			// User rejection is terminal for this attempt and never
			// auto-retried.
			m.setSession(wallet.Session{
				Error: "wallet authorization was rejected",
				Phase: wallet.PhaseRejected,
			})
			return false
		}

		if attemptCtx.Err() != nil || m.ctx.Err() != nil {
			m.setSession(wallet.Session{
				Error: fmt.Sprintf("wallet connection timed out after %s", m.config.GlobalTimeout),
				Phase: wallet.PhaseFailed,
			})
			return false
		}

		retries++
		if retries > m.config.MaxRetries {
			m.setSession(wallet.Session{
				Error: fmt.Sprintf("wallet connection failed after %d attempts: %v", retries, err),
				Phase: wallet.PhaseFailed,
			})
			return false
		}

		m.setSession(wallet.Session{Loading: true, Phase: wallet.PhaseRetrying})

		select {
		case <-attemptCtx.Done():
			m.setSession(wallet.Session{
				Error: fmt.Sprintf("wallet connection timed out after %s", m.config.GlobalTimeout),
				Phase: wallet.PhaseFailed,
			})
			return false
		case <-time.After(m.config.RetryDelay):
		}
	}
}

// resolve performs one probe of the capability: a non-interactive account
// read first, then an interactive authorization request when no account is
// already authorized.
func (m *SessionManager) resolve(ctx context.Context) (string, error) {
	accounts, err := m.provider.Accounts(ctx)
	if err != nil {
		return "", fmt.Errorf("error reading accounts: %w", err)
	}

	if len(accounts) > 0 {
		return accounts[0], nil
	}

	m.setSession(wallet.Session{Loading: true, Phase: wallet.PhaseRequesting})

	accounts, err = m.provider.RequestAccounts(ctx)
	if err != nil {
		return "", err
	}

	if len(accounts) == 0 {
		return "", errors.New("no accounts returned from wallet")
	}

	return accounts[0], nil
}

// watch consumes account-change notifications while connected, when the
// capability offers them. An empty account list means the wallet
// disconnected; watch reports that back to the run loop for a fresh
// resolution pass rather than re-entering the attempt itself.
func (m *SessionManager) watch(address string) bool {
	watcher, ok := m.provider.(wallet.AccountWatcher)
	if !ok {
		// No notification support: stay connected until Stop or a new
		// trigger after an external disconnect.
		<-m.ctx.Done()
		return false
	}

	changes, err := watcher.WatchAccounts(m.ctx)
	if err != nil {
		// Watching is best effort; the session stays connected.
		return false
	}

	for {
		select {
		case <-m.ctx.Done():
			return false
		case accounts, open := <-changes:
			if !open {
				return false
			}
			if len(accounts) == 0 {
				m.setSession(wallet.Session{Loading: true, Phase: wallet.PhaseResolving})
				return true
			}
			if accounts[0] != address {
				address = accounts[0]
				m.setSession(wallet.Session{
					Address:   address,
					Connected: true,
					Phase:     wallet.PhaseConnected,
				})
			}
		}
	}
}

func (m *SessionManager) setSession(s wallet.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = s
}
