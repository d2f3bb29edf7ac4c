// Package daraja implements the push-payment gateway adapter over the
// Daraja REST API: short-lived bearer tokens, STK push initiation and
// status queries.
package daraja

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fundilink/verification-service/internal/config"
	"github.com/fundilink/verification-service/internal/domain/gateway"
)

const (
	oauthPath     = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath   = "/mpesa/stkpush/v1/processrequest"
	stkQueryPath  = "/mpesa/stkpushquery/v1/query"
	timeLayout    = "20060102150405"
	tokenSafety   = 30 * time.Second
	defaultExpiry = 3600
)

// Client talks to the Daraja gateway. It caches the OAuth bearer token
// until shortly before its expiry and refreshes once on 401 responses.
type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	shortCode      string
	passkey        string
	callbackURL    string

	client *http.Client
	logger *zap.Logger
	now    func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates a gateway client from configuration
func NewClient(cfg *config.GatewayConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout.Std()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:        cfg.BaseURL,
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		shortCode:      cfg.ShortCode,
		passkey:        cfg.Passkey,
		callbackURL:    cfg.CallbackURL,
		client:         &http.Client{Timeout: timeout},
		logger:         logger,
		now:            time.Now,
	}
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   json.Number `json:"expires_in"`
}

// accessToken returns a cached bearer token, fetching a fresh one when the
// cache is empty, expired, or force is set.
func (c *Client) accessToken(force bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !force && c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	req, err := http.NewRequest(http.MethodGet, c.baseURL+oauthPath, nil)
	if err != nil {
		return "", &gateway.GatewayError{Code: "REQUEST_ERROR", Message: "Failed to create token request", Details: err.Error()}
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.consumerKey + ":" + c.consumerSecret))
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Gateway token request failed", zap.Error(err))
		return "", &gateway.GatewayError{Code: "NETWORK_ERROR", Message: "Gateway token request failed", Details: err.Error(), Transient: true}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &gateway.GatewayError{Code: "RESPONSE_ERROR", Message: "Failed to read token response", Details: err.Error(), Transient: true}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Gateway token request rejected",
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(body)))
		return "", &gateway.GatewayError{
			Code:      strconv.Itoa(resp.StatusCode),
			Message:   "Gateway rejected token request",
			Details:   string(body),
			Transient: resp.StatusCode >= http.StatusInternalServerError,
		}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil || tr.AccessToken == "" {
		return "", &gateway.GatewayError{Code: "PARSE_ERROR", Message: "Failed to parse token response", Details: string(body)}
	}

	expiresIn, err := tr.ExpiresIn.Int64()
	if err != nil || expiresIn <= 0 {
		expiresIn = defaultExpiry
	}

	c.token = tr.AccessToken
	c.tokenExpiry = c.now().Add(time.Duration(expiresIn)*time.Second - tokenSafety)

	c.logger.Debug("Gateway token refreshed",
		zap.Time("expires_at", c.tokenExpiry))

	return c.token, nil
}

// password derives the request credential: base64(shortcode+passkey+timestamp)
func (c *Client) password(timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(c.shortCode + c.passkey + timestamp))
}

// postJSON sends an authenticated JSON request, refreshing the bearer token
// once if the gateway answers 401.
func (c *Client) postJSON(ctx context.Context, path string, payload interface{}) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, &gateway.GatewayError{Code: "MARSHAL_ERROR", Message: "Failed to prepare request", Details: err.Error()}
	}

	force := false
	for attempt := 0; attempt < 2; attempt++ {
		token, err := c.accessToken(force)
		if err != nil {
			return 0, nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return 0, nil, &gateway.GatewayError{Code: "REQUEST_ERROR", Message: "Failed to create request", Details: err.Error()}
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			c.logger.Error("Gateway request failed",
				zap.String("path", path),
				zap.Error(err))
			return 0, nil, &gateway.GatewayError{Code: "NETWORK_ERROR", Message: "Gateway request failed", Details: err.Error(), Transient: true}
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return 0, nil, &gateway.GatewayError{Code: "RESPONSE_ERROR", Message: "Failed to read response", Details: readErr.Error(), Transient: true}
		}

		if resp.StatusCode == http.StatusUnauthorized && !force {
			c.logger.Warn("Gateway returned 401, refreshing token", zap.String("path", path))
			force = true
			continue
		}

		return resp.StatusCode, respBody, nil
	}

	return 0, nil, &gateway.GatewayError{Code: "AUTH_ERROR", Message: "Gateway authentication failed after token refresh"}
}

func errorFromResponse(statusCode int, body []byte) *gateway.GatewayError {
	var errResp struct {
		ErrorCode    string `json:"errorCode"`
		ErrorMessage string `json:"errorMessage"`
	}
	_ = json.Unmarshal(body, &errResp)

	code := errResp.ErrorCode
	if code == "" {
		code = strconv.Itoa(statusCode)
	}
	message := errResp.ErrorMessage
	if message == "" {
		message = fmt.Sprintf("gateway returned status %d", statusCode)
	}

	return &gateway.GatewayError{
		Code:      code,
		Message:   message,
		Details:   string(body),
		Transient: statusCode >= http.StatusInternalServerError || statusCode == http.StatusTooManyRequests,
	}
}
