// internal/adapter/host/bridge.go

package host

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"basedsprings/internal/domain/wallet"
)

// BridgeClient talks to the mini-app host's capability bridge over HTTP and
// implements the wallet.Provider interface. The rest of the application
// consumes only the typed handle and never inspects the host environment.
type BridgeClient struct {
	baseURL       string
	authToken     string
	httpClient    *http.Client
	watchInterval time.Duration
}

// BridgeConfig contains configuration for the bridge client
type BridgeConfig struct {
	BaseURL       string
	AuthToken     string
	Timeout       time.Duration
	WatchInterval time.Duration
}

// NewBridgeClient creates a new host bridge client
func NewBridgeClient(config BridgeConfig) *BridgeClient {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &BridgeClient{
		baseURL:       config.BaseURL,
		authToken:     config.AuthToken,
		watchInterval: config.WatchInterval,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type accountsResponse struct {
	Accounts []string `json:"accounts"`
}

type composeRequest struct {
	Text   string   `json:"text"`
	Embeds []string `json:"embeds,omitempty"`
}

type composeResponse struct {
	CastID    string `json:"cast_id"`
	Cancelled bool   `json:"cancelled"`
}

// Ready signals the host that initial layout is complete
func (c *BridgeClient) Ready(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, "/ready", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("host bridge returned status code %d", resp.StatusCode)
	}

	return nil
}

// Accounts returns the already-authorized account list without prompting
func (c *BridgeClient) Accounts(ctx context.Context) ([]string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/accounts", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("host bridge returned status code %d", resp.StatusCode)
	}

	var body accountsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("error decoding accounts response: %w", err)
	}

	return body.Accounts, nil
}

// RequestAccounts interactively asks the user to authorize. A 403 from the
// bridge means the user declined and maps to wallet.ErrRejected.
func (c *BridgeClient) RequestAccounts(ctx context.Context) ([]string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/accounts/request", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return nil, wallet.ErrRejected
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("host bridge returned status code %d", resp.StatusCode)
	}

	var body accountsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("error decoding accounts response: %w", err)
	}

	return body.Accounts, nil
}

// Compose asks the host to let the user post a pre-filled message with up
// to two embedded links. User cancellation maps to wallet.ErrCancelled.
func (c *BridgeClient) Compose(ctx context.Context, text string, embeds []string) (string, error) {
	if len(embeds) > MaxEmbeds {
		embeds = embeds[:MaxEmbeds]
	}

	payload, err := json.Marshal(composeRequest{Text: text, Embeds: embeds})
	if err != nil {
		return "", fmt.Errorf("error marshaling compose request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/compose", payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return "", wallet.ErrCancelled
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("host bridge returned status code %d", resp.StatusCode)
	}

	var body composeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("error decoding compose response: %w", err)
	}

	if body.Cancelled {
		return "", wallet.ErrCancelled
	}

	return body.CastID, nil
}

// do executes one authenticated request against the bridge
func (c *BridgeClient) do(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	var reader *bytes.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	if c.authToken != "" {
		req.Header.Add("Authorization", "Bearer "+c.authToken)
	}
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling host bridge: %w", err)
	}

	return resp, nil
}
