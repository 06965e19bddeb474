// Package brokerage provides the HTTP client for the brokerage API. It
// implements the transaction feed the lot reconstructor and the
// recommendation engine consume.
package brokerage

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const requestTimeout = 30 * time.Second

// ServiceResponse is the standard response envelope of the brokerage API.
type ServiceResponse struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     *string         `json:"error"`
	Timestamp string          `json:"timestamp"`
}

// Client for the brokerage API.
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a new brokerage client. Empty credentials are
// accepted; authenticated calls will fail with an explicit error.
func NewClient(baseURL, apiKey, apiSecret string, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log.With().Str("client", "brokerage").Logger(),
	}
}

// call makes a signed request and unmarshals the envelope's data field
// into dest.
func (c *Client) call(cmd string, params interface{}, dest interface{}) error {
	if c.apiKey == "" || c.apiSecret == "" {
		return fmt.Errorf("brokerage credentials not configured")
	}

	payload, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	signature := sign(c.apiSecret, string(payload)+timestamp)

	requestURL := fmt.Sprintf("%s/%s", c.baseURL, cmd)
	req, err := http.NewRequest(http.MethodPost, requestURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-PublicKey", c.apiKey)
	req.Header.Set("X-Api-Timestamp", timestamp)
	req.Header.Set("X-Api-Sig", signature)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Error().
			Int("status_code", resp.StatusCode).
			Str("url", requestURL).
			Msg("API returned non-200 status")
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, resp.Status)
	}

	var envelope ServiceResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if !envelope.Success {
		msg := "unknown error"
		if envelope.Error != nil {
			msg = *envelope.Error
		}
		return fmt.Errorf("API error for %s: %s", cmd, msg)
	}

	if dest != nil {
		if err := json.Unmarshal(envelope.Data, dest); err != nil {
			return fmt.Errorf("failed to parse %s data: %w", cmd, err)
		}
	}

	return nil
}

// sign computes the hex HMAC-SHA256 of message with the API secret.
func sign(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}
