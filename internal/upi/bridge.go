package upi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"
)

// BridgeOpener opens URIs through an HTTP bridge running on the user's
// device. Calls go through a circuit breaker and are never retried, since a
// retried open could launch the payment twice.
type BridgeOpener struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
}

// NewBridgeOpener creates a new BridgeOpener.
func NewBridgeOpener(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker) *BridgeOpener {
	return &BridgeOpener{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		cb:         cb,
	}
}

type canOpenResponse struct {
	CanOpen bool `json:"can_open"`
}

// CanOpen asks the bridge whether an app is registered for uri.
func (b *BridgeOpener) CanOpen(ctx context.Context, uri string) (bool, error) {
	result, err := b.cb.Execute(func() (any, error) {
		endpoint := b.baseURL + "/can-open?uri=" + url.QueryEscape(uri)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		resp, err := b.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("bridge returned status %d", resp.StatusCode)
		}
		var body canOpenResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("decode bridge response: %w", err)
		}
		return body.CanOpen, nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

// Open asks the bridge to launch uri.
func (b *BridgeOpener) Open(ctx context.Context, uri string) error {
	_, err := b.cb.Execute(func() (any, error) {
		payload, err := json.Marshal(map[string]string{"uri": uri})
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/open", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := b.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("bridge returned status %d", resp.StatusCode)
		}
		return nil, nil
	})
	return err
}
