package identity

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/stockbook/internal/config"
)

// Client exposes the identity provider operations used by the application.
type Client interface {
	SignUp(ctx context.Context, email, password string) (*Account, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Account, error)
	SignInWithIdp(ctx context.Context, req IdpRequest) (*Account, error)
}

// APIClient is a resty-backed implementation of Client speaking the
// Identity Toolkit REST protocol.
type APIClient struct {
	httpClient *resty.Client
	apiKey     string
}

// NewClient builds an identity client using the provided configuration values.
func NewClient(cfg config.IdentityConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		apiKey:     cfg.APIKey,
	}
}

// Account is the provider's view of a signed-in user.
type Account struct {
	LocalID   string `json:"localId"`
	Email     string `json:"email"`
	IDToken   string `json:"idToken"`
	ExpiresIn string `json:"expiresIn"`
	IsNewUser bool   `json:"isNewUser"`
}

// IdpRequest carries a federated credential such as a Google id_token.
type IdpRequest struct {
	ProviderID string
	IDToken    string
	RequestURI string
}

// ProviderError is a failed provider call. Code is the provider's error
// message identifier, e.g. EMAIL_EXISTS.
type ProviderError struct {
	Status  int
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity api error: status=%d, code=%s", e.Status, e.Code)
}

// apiError represents an Identity Toolkit error payload.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *APIClient) SignUp(ctx context.Context, email, password string) (*Account, error) {
	payload := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	account, err := c.post(ctx, "accounts:signUp", payload)
	if err != nil {
		return nil, err
	}
	account.IsNewUser = true
	return account, nil
}

func (c *APIClient) SignInWithPassword(ctx context.Context, email, password string) (*Account, error) {
	payload := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	return c.post(ctx, "accounts:signInWithPassword", payload)
}

func (c *APIClient) SignInWithIdp(ctx context.Context, req IdpRequest) (*Account, error) {
	postBody := url.Values{}
	postBody.Set("id_token", req.IDToken)
	postBody.Set("providerId", req.ProviderID)

	requestURI := req.RequestURI
	if requestURI == "" {
		requestURI = "http://localhost"
	}

	payload := map[string]any{
		"postBody":            postBody.Encode(),
		"requestUri":          requestURI,
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}
	return c.post(ctx, "accounts:signInWithIdp", payload)
}

func (c *APIClient) post(ctx context.Context, method string, payload map[string]any) (*Account, error) {
	result := new(Account)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Post("/" + method)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Error.Message
		code := message
		// Messages look like "WEAK_PASSWORD : Password should be at least 6 characters".
		if i := strings.Index(message, " : "); i >= 0 {
			code = message[:i]
		}
		return nil, &ProviderError{Status: resp.StatusCode(), Code: strings.TrimSpace(code), Message: message}
	}

	return result, nil
}
