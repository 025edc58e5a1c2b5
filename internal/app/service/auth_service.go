package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jasher/unlimited-options-backend/config"
	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/internal/app/repository"
	"github.com/jasher/unlimited-options-backend/pkg/logger"
	"github.com/jasher/unlimited-options-backend/pkg/redis"
	"github.com/jasher/unlimited-options-backend/pkg/shopify"
	"github.com/jasher/unlimited-options-backend/pkg/util"
)

var (
	ErrShopRequired = errors.New("shop domain is required")
	ErrInvalidState = errors.New("oauth state mismatch")
	ErrShopNotFound = errors.New("shop not installed")
)

const oauthStateTTL = 10 * time.Minute

// InstallSession is the result of a completed OAuth callback.
type InstallSession struct {
	ShopDomain   string `json:"shop"`
	SessionToken string `json:"session_token"`
}

type AuthService interface {
	// BuildInstallURL returns the Shopify authorize URL for the shop, with
	// a one-time state value bound to the flow.
	BuildInstallURL(ctx context.Context, shopDomain string) (string, error)
	// HandleCallback verifies state, exchanges the code for a per-shop
	// access token, persists the shop and issues a session token.
	HandleCallback(ctx context.Context, shopDomain, code, state string) (*InstallSession, error)
	// ValidateSession returns the shop domain a session token was issued for.
	ValidateSession(token string) (string, error)
	GetShop(domain string) (*model.Shop, error)
}

type authService struct {
	shopRepo repository.ShopRepository
	cfg      *config.ShopifyConfig
}

func NewAuthService(shopRepo repository.ShopRepository, cfg *config.ShopifyConfig) AuthService {
	return &authService{
		shopRepo: shopRepo,
		cfg:      cfg,
	}
}

func (s *authService) BuildInstallURL(ctx context.Context, shopDomain string) (string, error) {
	if shopDomain == "" {
		return "", ErrShopRequired
	}
	domain := shopify.NormalizeDomain(shopDomain)

	state := uuid.NewString()
	// Redis is the fast path; the oauth_states table keeps installs working
	// when it is down.
	if err := redis.StoreOAuthState(ctx, domain, state, oauthStateTTL); err != nil {
		if err := s.shopRepo.SaveOAuthState(domain, state, time.Now().Add(oauthStateTTL)); err != nil {
			logger.Error("Failed to store oauth state", err, map[string]interface{}{
				"shop": domain,
			})
			return "", err
		}
	}

	redirectURI := s.cfg.AppURL + "/api/v1/auth/callback"
	return shopify.AuthorizeURL(domain, s.cfg.APIKey, s.cfg.Scopes, redirectURI, state), nil
}

func (s *authService) HandleCallback(ctx context.Context, shopDomain, code, state string) (*InstallSession, error) {
	if shopDomain == "" {
		return nil, ErrShopRequired
	}
	domain := shopify.NormalizeDomain(shopDomain)

	stored, err := redis.TakeOAuthState(ctx, domain)
	if err != nil || stored == "" {
		stored, err = s.shopRepo.TakeOAuthState(domain)
		if err != nil {
			stored = ""
		}
	}
	if stored == "" || stored != state {
		logger.Warn("OAuth state mismatch", map[string]interface{}{
			"shop": domain,
		})
		return nil, ErrInvalidState
	}

	token, err := shopify.ExchangeAccessToken(ctx, domain, s.cfg.APIKey, s.cfg.APISecret, code)
	if err != nil {
		logger.Error("Token exchange failed", err, map[string]interface{}{
			"shop": domain,
		})
		return nil, err
	}

	shop := model.Shop{
		Domain:      domain,
		AccessToken: token.AccessToken,
		Scope:       token.Scope,
		InstalledAt: time.Now(),
	}
	if err := s.shopRepo.Upsert(&shop); err != nil {
		return nil, err
	}

	sessionToken, err := util.GenerateSessionToken(domain, s.cfg.JWTSecret, s.cfg.SessionExpiry)
	if err != nil {
		return nil, err
	}

	logger.Info("Shop installed", map[string]interface{}{
		"shop":  domain,
		"scope": token.Scope,
	})
	return &InstallSession{
		ShopDomain:   domain,
		SessionToken: sessionToken,
	}, nil
}

func (s *authService) ValidateSession(token string) (string, error) {
	return util.ValidateSessionToken(token, s.cfg.JWTSecret)
}

func (s *authService) GetShop(domain string) (*model.Shop, error) {
	shop, err := s.shopRepo.FindByDomain(shopify.NormalizeDomain(domain))
	if err != nil {
		return nil, ErrShopNotFound
	}
	return shop, nil
}
