package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockbook/internal/config"
)

func TestSignInWithPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts:signInWithPassword", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.co", body["email"])
		assert.Equal(t, true, body["returnSecureToken"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"localId":"uid-1","email":"a@b.co","idToken":"tok","expiresIn":"3600"}`))
	}))
	defer srv.Close()

	client := NewClient(config.IdentityConfig{BaseURL: srv.URL + "/v1/", APIKey: "test-key"})
	account, err := client.SignInWithPassword(context.Background(), "a@b.co", "secret")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", account.LocalID)
	assert.False(t, account.IsNewUser)
}

func TestProviderErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"WEAK_PASSWORD : Password should be at least 6 characters"}}`))
	}))
	defer srv.Close()

	client := NewClient(config.IdentityConfig{BaseURL: srv.URL, APIKey: "k"})
	_, err := client.SignUp(context.Background(), "a@b.co", "123")
	require.Error(t, err)

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "WEAK_PASSWORD", perr.Code)
	assert.Equal(t, http.StatusBadRequest, perr.Status)
}

func TestSignInWithIdpSendsPostBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "id_token=gtoken&providerId=google.com", body["postBody"])
		assert.Equal(t, "http://localhost", body["requestUri"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"localId":"uid-2","email":"g@b.co","isNewUser":true}`))
	}))
	defer srv.Close()

	client := NewClient(config.IdentityConfig{BaseURL: srv.URL, APIKey: "k"})
	account, err := client.SignInWithIdp(context.Background(), IdpRequest{ProviderID: "google.com", IDToken: "gtoken"})
	require.NoError(t, err)
	assert.True(t, account.IsNewUser)
}
