package payment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"proshop/internal/config"
	"proshop/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newProviderStub builds a test server that answers the OAuth2 token endpoint
// and serves the given handler for order lookups.
func newProviderStub(t *testing.T, orders http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "test-token", "expires_in": 3600}`)
	})
	mux.HandleFunc("/v2/checkout/orders/", orders)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestVerifier(baseURL string) Verifier {
	return NewPayPalVerifier(config.PayPalConfig{
		BaseURL:      baseURL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Timeout:      2 * time.Second,
	}, zerolog.Nop())
}

func TestPayPalVerifier_Verify_CompletedOrder(t *testing.T) {
	server := newProviderStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "TXN-1",
			"status": "COMPLETED",
			"purchase_units": [{"amount": {"currency_code": "USD", "value": "110.00"}}],
			"payer": {"email_address": "buyer@example.com"}
		}`)
	})

	verifier := newTestVerifier(server.URL)

	verification, err := verifier.Verify(context.Background(), "TXN-1")
	require.NoError(t, err)

	assert.True(t, verification.Verified)
	assert.True(t, verification.Amount.Equal(decimal.RequireFromString("110.00")))
	assert.Equal(t, "buyer@example.com", verification.PayerEmail)
	assert.Equal(t, "COMPLETED", verification.RawStatus)
}

func TestPayPalVerifier_Verify_PendingOrderIsNotVerified(t *testing.T) {
	server := newProviderStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "TXN-2",
			"status": "CREATED",
			"purchase_units": [{"amount": {"currency_code": "USD", "value": "50.00"}}],
			"payer": {}
		}`)
	})

	verifier := newTestVerifier(server.URL)

	verification, err := verifier.Verify(context.Background(), "TXN-2")
	require.NoError(t, err)

	assert.False(t, verification.Verified)
	assert.Equal(t, "CREATED", verification.RawStatus)
}

func TestPayPalVerifier_Verify_UnknownTransaction(t *testing.T) {
	server := newProviderStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	verifier := newTestVerifier(server.URL)

	verification, err := verifier.Verify(context.Background(), "NO-SUCH-TXN")
	require.NoError(t, err)
	assert.False(t, verification.Verified)
}

func TestPayPalVerifier_Verify_ProviderError(t *testing.T) {
	server := newProviderStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	verifier := newTestVerifier(server.URL)

	_, err := verifier.Verify(context.Background(), "TXN-3")
	assert.ErrorIs(t, err, model.ErrProviderUnavailable)
}

func TestPayPalVerifier_Verify_MalformedResponse(t *testing.T) {
	server := newProviderStub(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{not json`)
	})

	verifier := newTestVerifier(server.URL)

	_, err := verifier.Verify(context.Background(), "TXN-4")
	assert.ErrorIs(t, err, model.ErrProviderUnavailable)
}

func TestPayPalVerifier_Verify_MissingPurchaseUnits(t *testing.T) {
	server := newProviderStub(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "TXN-5", "status": "COMPLETED", "purchase_units": []}`)
	})

	verifier := newTestVerifier(server.URL)

	_, err := verifier.Verify(context.Background(), "TXN-5")
	assert.ErrorIs(t, err, model.ErrProviderUnavailable)
}

func TestPayPalVerifier_Verify_UnreachableProvider(t *testing.T) {
	// Point at a server that is already closed.
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	verifier := newTestVerifier(server.URL)

	_, err := verifier.Verify(context.Background(), "TXN-6")
	assert.ErrorIs(t, err, model.ErrProviderUnavailable)
}

func TestPayPalVerifier_Verify_TokenIsCachedAcrossCalls(t *testing.T) {
	tokenRequests := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		tokenRequests++
		fmt.Fprint(w, `{"access_token": "test-token", "expires_in": 3600}`)
	})
	mux.HandleFunc("/v2/checkout/orders/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"id": "TXN-7",
			"status": "COMPLETED",
			"purchase_units": [{"amount": {"currency_code": "USD", "value": "10.00"}}]
		}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	verifier := newTestVerifier(server.URL)

	_, err := verifier.Verify(context.Background(), "TXN-7")
	require.NoError(t, err)
	_, err = verifier.Verify(context.Background(), "TXN-7")
	require.NoError(t, err)

	assert.Equal(t, 1, tokenRequests, "second verification should reuse the cached token")
}

func TestPayPalVerifier_Verify_RejectedTokenRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	verifier := newTestVerifier(server.URL)

	_, err := verifier.Verify(context.Background(), "TXN-8")
	assert.ErrorIs(t, err, model.ErrProviderUnavailable)
}
