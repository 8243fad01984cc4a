// internal/adapter/host/watcher.go

package host

import (
	"context"
	"time"
)

// WatchAccounts implements the wallet.AccountWatcher extension by polling
// the bridge's account list. The channel carries a snapshot whenever the
// list changes; an empty snapshot means the wallet disconnected. The
// channel closes when the context is cancelled.
func (c *BridgeClient) WatchAccounts(ctx context.Context) (<-chan []string, error) {
	interval := c.watchInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	changes := make(chan []string, 1)

	go func() {
		defer close(changes)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var last []string
		first := true

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				accounts, err := c.Accounts(ctx)
				if err != nil {
					// Poll failures are transient; keep the last known
					// snapshot rather than reporting a disconnect.
					continue
				}

				if first || !equalAccounts(last, accounts) {
					first = false
					last = accounts

					select {
					case changes <- accounts:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return changes, nil
}

func equalAccounts(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
