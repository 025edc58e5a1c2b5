package service

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/jasher/unlimited-options-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthServiceTest(t *testing.T) (*testRepos, AuthService) {
	repos := setupRepos(t)
	cfg := &config.ShopifyConfig{
		APIKey:        "test-api-key",
		APISecret:     "test-api-secret",
		Scopes:        "read_products,write_products",
		AppURL:        "https://app.example.com",
		JWTSecret:     "test-jwt-secret",
		SessionExpiry: time.Hour,
	}
	return repos, NewAuthService(repos.shop, cfg)
}

// Without redis the install flow leans on the oauth_states table, so the
// state issued in the authorize URL must round-trip through the DB.
func TestBuildInstallURL_StateSurvivesWithoutCache(t *testing.T) {
	repos, svc := setupAuthServiceTest(t)

	installURL, err := svc.BuildInstallURL(context.Background(), "https://demo.myshopify.com/")
	require.NoError(t, err)

	parsed, err := url.Parse(installURL)
	require.NoError(t, err)
	state := parsed.Query().Get("state")
	require.NotEmpty(t, state)

	stored, err := repos.shop.TakeOAuthState("demo.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, state, stored)

	// Single use: a second take finds nothing.
	stored, err = repos.shop.TakeOAuthState("demo.myshopify.com")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestHandleCallback_StateMismatch(t *testing.T) {
	_, svc := setupAuthServiceTest(t)

	_, err := svc.BuildInstallURL(context.Background(), "demo.myshopify.com")
	require.NoError(t, err)

	_, err = svc.HandleCallback(context.Background(), "demo.myshopify.com", "code", "forged-state")
	assert.ErrorIs(t, err, ErrInvalidState)

	// The mismatch consumed the pending state, so a replay with any value
	// fails too.
	_, err = svc.HandleCallback(context.Background(), "demo.myshopify.com", "code", "forged-state")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestHandleCallback_RequiresShop(t *testing.T) {
	_, svc := setupAuthServiceTest(t)

	_, err := svc.HandleCallback(context.Background(), "", "code", "state")
	assert.ErrorIs(t, err, ErrShopRequired)

	_, err = svc.BuildInstallURL(context.Background(), "")
	assert.ErrorIs(t, err, ErrShopRequired)
}

func TestTakeOAuthState_Expired(t *testing.T) {
	repos, _ := setupAuthServiceTest(t)

	require.NoError(t, repos.shop.SaveOAuthState("demo.myshopify.com", "stale", time.Now().Add(-time.Minute)))

	stored, err := repos.shop.TakeOAuthState("demo.myshopify.com")
	require.NoError(t, err)
	assert.Empty(t, stored)
}
