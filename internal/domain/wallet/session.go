// internal/domain/wallet/session.go

package wallet

import (
	"context"
	"errors"
)

// Phase represents the current stage of the wallet session state machine.
type Phase string

const (
	PhaseInitializing     Phase = "initializing"
	PhaseCapabilityAbsent Phase = "capability_absent"
	PhaseResolving        Phase = "resolving"
	PhaseRequesting       Phase = "requesting"
	PhaseRetrying         Phase = "retrying"
	PhaseConnected        Phase = "connected"
	PhaseRejected         Phase = "rejected"
	PhaseFailed           Phase = "failed"
)

// Terminal reports whether the phase ends the current connection attempt.
// Connect restarts the machine from any terminal phase.
func (p Phase) Terminal() bool {
	switch p {
	case PhaseCapabilityAbsent, PhaseConnected, PhaseRejected, PhaseFailed:
		return true
	}
	return false
}

// Session is the read model exposed to consumers needing an identity.
// The address is opaque and never validated for format.
type Session struct {
	Address   string `json:"address,omitempty"`
	Connected bool   `json:"connected"`
	Loading   bool   `json:"loading"`
	Error     string `json:"error,omitempty"`
	Phase     Phase  `json:"phase"`
}

var (
	// ErrRejected indicates the user explicitly declined the authorization
	// request. It is terminal for the attempt and is not retried.
	ErrRejected = errors.New("authorization rejected by user")

	// ErrCancelled indicates the user backed out of a compose action.
	ErrCancelled = errors.New("compose cancelled by user")
)

// Provider is the typed handle for the host capability surface. The session
// manager consumes only this interface and never inspects the host
// environment directly. A nil Provider means the capability is absent.
type Provider interface {
	// Ready signals the host that initial layout is complete. Called once
	// at startup, fire-and-forget.
	Ready(ctx context.Context) error

	// Accounts returns the already-authorized account list without
	// prompting the user. An empty list is not an error.
	Accounts(ctx context.Context) ([]string, error)

	// RequestAccounts interactively asks the user to authorize. Returns
	// ErrRejected when the user declines.
	RequestAccounts(ctx context.Context) ([]string, error)

	// Compose asks the host to let the user post a pre-filled message with
	// up to two embedded links. Returns a cast token on success or
	// ErrCancelled when the user backs out.
	Compose(ctx context.Context, text string, embeds []string) (string, error)
}

// AccountWatcher is an optional Provider extension for capabilities that
// offer account-change notifications. An empty account list on the channel
// means the wallet disconnected.
type AccountWatcher interface {
	WatchAccounts(ctx context.Context) (<-chan []string, error)
}

// Manager defines the interface for wallet session management.
type Manager interface {
	// Connect triggers a connection attempt. It is a no-op while already
	// connected, restarts the state machine from any terminal phase, and
	// never returns an error; failures are captured into the session.
	Connect()

	// Session returns a snapshot of the current session state.
	Session() Session

	// Stop gracefully stops the session manager.
	Stop(ctx context.Context) error
}
