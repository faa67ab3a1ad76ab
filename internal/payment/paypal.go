// Package payment verifies claimed payment transactions against the external
// payment provider. It reports a judgment only; acting on it is the order
// service's job.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"proshop/internal/config"
	"proshop/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Verification is the provider's judgment on a claimed transaction id.
type Verification struct {
	Verified   bool
	Amount     decimal.Decimal
	PayerEmail string
	RawStatus  string
}

// Verifier confirms a claimed payment with the provider's system of record.
type Verifier interface {
	// Verify queries the provider for the given transaction id. Provider
	// unavailability, timeout or a malformed response yields an error wrapping
	// model.ErrProviderUnavailable, never a positive verification.
	Verify(ctx context.Context, transactionID string) (Verification, error)
}

// paypalVerifier implements Verifier against the PayPal Orders v2 API.
type paypalVerifier struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       zerolog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewPayPalVerifier creates a verifier backed by the PayPal REST API.
func NewPayPalVerifier(cfg config.PayPalConfig, logger zerolog.Logger) Verifier {
	return &paypalVerifier{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		logger:       logger.With().Str("component", "paypal-verifier").Logger(),
	}
}

// tokenResponse is the shape of the OAuth2 client-credentials response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// orderResponse is the provider order payload. Only the fields the verifier
// judges on are parsed; the shape is validated here at the boundary.
type orderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Amount struct {
			CurrencyCode string `json:"currency_code"`
			Value        string `json:"value"`
		} `json:"amount"`
	} `json:"purchase_units"`
	Payer struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
}

// Verify queries the provider for the given transaction id.
func (v *paypalVerifier) Verify(ctx context.Context, transactionID string) (Verification, error) {
	token, err := v.token(ctx)
	if err != nil {
		return Verification{}, err
	}

	endpoint := fmt.Sprintf("%s/v2/checkout/orders/%s", v.baseURL, url.PathEscape(transactionID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Verification{}, fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		v.logger.Error().Err(err).Str("transaction_id", transactionID).Msg("provider request failed")
		return Verification{}, fmt.Errorf("provider request failed: %w", errors.Join(model.ErrProviderUnavailable, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		v.logger.Warn().Str("transaction_id", transactionID).Msg("transaction not found at provider")
		return Verification{Verified: false}, nil
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		v.logger.Error().
			Int("status", resp.StatusCode).
			Str("transaction_id", transactionID).
			Str("body", string(body)).
			Msg("unexpected provider response status")
		return Verification{}, fmt.Errorf("unexpected provider status %d: %w", resp.StatusCode, model.ErrProviderUnavailable)
	}

	var order orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		v.logger.Error().Err(err).Str("transaction_id", transactionID).Msg("malformed provider response")
		return Verification{}, fmt.Errorf("malformed provider response: %w", errors.Join(model.ErrProviderUnavailable, err))
	}

	if len(order.PurchaseUnits) == 0 {
		v.logger.Error().Str("transaction_id", transactionID).Msg("provider response has no purchase units")
		return Verification{}, fmt.Errorf("provider response has no purchase units: %w", model.ErrProviderUnavailable)
	}

	amount, err := decimal.NewFromString(order.PurchaseUnits[0].Amount.Value)
	if err != nil {
		v.logger.Error().
			Err(err).
			Str("transaction_id", transactionID).
			Str("value", order.PurchaseUnits[0].Amount.Value).
			Msg("unparseable amount in provider response")
		return Verification{}, fmt.Errorf("unparseable provider amount: %w", errors.Join(model.ErrProviderUnavailable, err))
	}

	verification := Verification{
		Verified:   order.Status == "COMPLETED",
		Amount:     amount,
		PayerEmail: order.Payer.EmailAddress,
		RawStatus:  order.Status,
	}

	v.logger.Debug().
		Str("transaction_id", transactionID).
		Str("status", order.Status).
		Str("amount", amount.String()).
		Bool("verified", verification.Verified).
		Msg("transaction verified with provider")

	return verification, nil
}

// token returns a cached OAuth2 access token, fetching a new one when the
// cached token is missing or about to expire.
func (v *paypalVerifier) token(ctx context.Context) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.accessToken != "" && time.Now().Before(v.tokenExpiry) {
		return v.accessToken, nil
	}

	endpoint := v.baseURL + "/v1/oauth2/token"
	body := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.SetBasicAuth(v.clientID, v.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		v.logger.Error().Err(err).Msg("provider token request failed")
		return "", fmt.Errorf("provider token request failed: %w", errors.Join(model.ErrProviderUnavailable, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		v.logger.Error().Int("status", resp.StatusCode).Msg("provider token request rejected")
		return "", fmt.Errorf("provider token request rejected with status %d: %w", resp.StatusCode, model.ErrProviderUnavailable)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil || tr.AccessToken == "" {
		v.logger.Error().Err(err).Msg("malformed provider token response")
		return "", fmt.Errorf("malformed provider token response: %w", model.ErrProviderUnavailable)
	}

	v.accessToken = tr.AccessToken
	// Renew a minute early so in-flight requests never carry a stale token.
	v.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn)*time.Second - time.Minute)

	return v.accessToken, nil
}
