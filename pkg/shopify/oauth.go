package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// AuthorizeURL builds the OAuth authorization URL a merchant is redirected
// to when installing the app.
func AuthorizeURL(shopDomain, apiKey, scopes, redirectURI, state string) string {
	params := url.Values{}
	params.Set("client_id", apiKey)
	params.Set("scope", scopes)
	params.Set("redirect_uri", redirectURI)
	params.Set("state", state)

	return fmt.Sprintf("https://%s/admin/oauth/authorize?%s", NormalizeDomain(shopDomain), params.Encode())
}

// ExchangeAccessToken exchanges an OAuth authorization code for a permanent
// per-shop access token.
func ExchangeAccessToken(ctx context.Context, shopDomain, apiKey, apiSecret, code string) (*AccessTokenResponse, error) {
	body, err := json.Marshal(map[string]string{
		"client_id":     apiKey,
		"client_secret": apiSecret,
		"code":          code,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal token request: %w", err)
	}

	tokenURL := fmt.Sprintf("https://%s/admin/oauth/access_token", NormalizeDomain(shopDomain))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := &http.Client{Timeout: 30 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read token response: %v", ErrNetwork, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: token exchange failed with status %d: %s", ErrUnauthorized, resp.StatusCode, string(respBody))
	}

	var token AccessTokenResponse
	if err := json.Unmarshal(respBody, &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token returned", ErrUnauthorized)
	}
	return &token, nil
}
