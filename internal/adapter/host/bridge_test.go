// internal/adapter/host/bridge_test.go

package host

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basedsprings/internal/domain/wallet"
)

func newTestBridge(t *testing.T, handler http.Handler) *BridgeClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewBridgeClient(BridgeConfig{
		BaseURL:       srv.URL,
		AuthToken:     "secret",
		Timeout:       time.Second,
		WatchInterval: 5 * time.Millisecond,
	})
}

func TestAccounts(t *testing.T) {
	t.Parallel()

	c := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(accountsResponse{Accounts: []string{"0xabc"}})
	}))

	accounts, err := c.Accounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0xabc"}, accounts)
}

func TestRequestAccountsRejection(t *testing.T) {
	t.Parallel()

	c := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/request", r.URL.Path)
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := c.RequestAccounts(context.Background())
	assert.ErrorIs(t, err, wallet.ErrRejected)
}

func TestRequestAccountsServerError(t *testing.T) {
	t.Parallel()

	c := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.RequestAccounts(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, wallet.ErrRejected)
}

func TestComposeSuccess(t *testing.T) {
	t.Parallel()

	c := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req composeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Text)
		assert.Len(t, req.Embeds, MaxEmbeds)

		json.NewEncoder(w).Encode(composeResponse{CastID: "cast-123"})
	}))

	// The third embed is dropped before the request is sent.
	castID, err := c.Compose(context.Background(), "hello", []string{"https://a", "https://b", "https://c"})
	require.NoError(t, err)
	assert.Equal(t, "cast-123", castID)
}

func TestComposeCancelled(t *testing.T) {
	t.Parallel()

	byStatus := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	_, err := byStatus.Compose(context.Background(), "hello", nil)
	assert.ErrorIs(t, err, wallet.ErrCancelled)

	byBody := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(composeResponse{Cancelled: true})
	}))
	_, err = byBody.Compose(context.Background(), "hello", nil)
	assert.ErrorIs(t, err, wallet.ErrCancelled)
}

func TestWatchAccountsEmitsOnChange(t *testing.T) {
	t.Parallel()

	accounts := make(chan []string, 4)
	accounts <- []string{"0xabc"}
	accounts <- []string{"0xabc"}
	accounts <- []string{"0xnew"}
	accounts <- nil

	var current []string
	c := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case current = <-accounts:
		default:
		}
		json.NewEncoder(w).Encode(accountsResponse{Accounts: current})
	}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	changes, err := c.WatchAccounts(ctx)
	require.NoError(t, err)

	// The first snapshot arrives, the identical one is suppressed, then the
	// change and the disconnect come through.
	assert.Equal(t, []string{"0xabc"}, <-changes)
	assert.Equal(t, []string{"0xnew"}, <-changes)
	assert.Empty(t, <-changes)

	cancel()
	_, open := <-changes
	assert.False(t, open)
}
