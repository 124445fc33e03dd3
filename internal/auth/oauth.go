package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/pawsit/pawsit/internal/domain"
)

// HTTPClient is the subset of http.Client used to fetch user info. Tests
// inject a mock implementation.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// UserInfo is the provider-side identity returned by ExchangeCode.
type UserInfo struct {
	ProviderID string
	Email      string
	Name       string
	AvatarURL  string
}

// OAuthProvider holds the configuration for an OAuth2 identity provider.
type OAuthProvider struct {
	Name         string
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	Scopes       []string
	RedirectURL  string

	// HTTPClient fetches user info; defaults to http.DefaultClient.
	HTTPClient HTTPClient

	// oauthConfig is the compiled oauth2.Config.
	oauthConfig *oauth2.Config
}

// NewGoogleProvider returns an OAuth2 configuration for Google.
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *OAuthProvider {
	p := &OAuthProvider{
		Name:         "google",
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AuthURL:      google.Endpoint.AuthURL,
		TokenURL:     google.Endpoint.TokenURL,
		UserInfoURL:  "https://www.googleapis.com/oauth2/v2/userinfo",
		Scopes:       []string{"openid", "email", "profile"},
		RedirectURL:  redirectURL,
		HTTPClient:   http.DefaultClient,
	}
	p.oauthConfig = p.buildConfig()
	return p
}

// NewGitHubProvider returns an OAuth2 configuration for GitHub.
func NewGitHubProvider(clientID, clientSecret, redirectURL string) *OAuthProvider {
	p := &OAuthProvider{
		Name:         "github",
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AuthURL:      github.Endpoint.AuthURL,
		TokenURL:     github.Endpoint.TokenURL,
		UserInfoURL:  "https://api.github.com/user",
		Scopes:       []string{"read:user", "user:email"},
		RedirectURL:  redirectURL,
		HTTPClient:   http.DefaultClient,
	}
	p.oauthConfig = p.buildConfig()
	return p
}

func (p *OAuthProvider) buildConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  p.AuthURL,
			TokenURL: p.TokenURL,
		},
		Scopes:      p.Scopes,
		RedirectURL: p.RedirectURL,
	}
}

// NewState returns an unguessable state parameter for the authorization
// redirect.
func NewState() string {
	return uuid.NewString()
}

// AuthorizationURL returns the OAuth2 authorization URL with the given state parameter.
func (p *OAuthProvider) AuthorizationURL(state string) string {
	return p.oauthConfig.AuthCodeURL(state)
}

// ExchangeCode exchanges an authorization code for tokens and fetches the
// provider-side user identity.
func (p *OAuthProvider) ExchangeCode(ctx context.Context, code string) (*UserInfo, error) {
	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth.ExchangeCode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("auth.ExchangeCode: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	client := p.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth.ExchangeCode: fetching user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth.ExchangeCode: user info returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("auth.ExchangeCode: reading user info: %w", err)
	}

	switch p.Name {
	case "google":
		return parseGoogleUserInfo(body)
	case "github":
		return parseGitHubUserInfo(body)
	default:
		return nil, fmt.Errorf("auth.ExchangeCode: unsupported provider %q", p.Name)
	}
}

// LoginWithOAuth completes the code exchange and signs the user in, creating
// the account and the provider link on first login. Returns the user plus
// access and refresh tokens.
func (s *Service) LoginWithOAuth(ctx context.Context, p *OAuthProvider, code string) (*domain.User, string, string, error) {
	info, err := p.ExchangeCode(ctx, code)
	if err != nil {
		return nil, "", "", fmt.Errorf("auth.LoginWithOAuth: %w", err)
	}

	user, err := s.findOrCreateOAuthUser(ctx, p.Name, info)
	if err != nil {
		return nil, "", "", fmt.Errorf("auth.LoginWithOAuth: %w", err)
	}

	access, err := IssueAccessToken(s.jwtSecret, user.ID, user.IsAdmin, s.accessTTL)
	if err != nil {
		return nil, "", "", fmt.Errorf("auth.LoginWithOAuth: %w", err)
	}

	refresh, err := IssueRefreshToken(s.jwtSecret, user.ID, user.IsAdmin, s.refreshTTL)
	if err != nil {
		return nil, "", "", fmt.Errorf("auth.LoginWithOAuth: %w", err)
	}

	return user, access, refresh, nil
}

func (s *Service) findOrCreateOAuthUser(ctx context.Context, provider string, info *UserInfo) (*domain.User, error) {
	account, err := s.userRepo.GetOAuthAccount(ctx, provider, info.ProviderID)
	if err == nil {
		return s.userRepo.GetByID(ctx, account.UserID)
	}

	// Link to an existing account by email, or create a fresh one without a
	// password hash.
	user, err := s.userRepo.GetByEmail(ctx, info.Email)
	if err != nil {
		first, last := splitName(info.Name)
		now := time.Now()
		user = &domain.User{
			Email:     info.Email,
			FirstName: first,
			LastName:  last,
			AvatarURL: info.AvatarURL,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	account = &domain.OAuthAccount{
		UserID:     user.ID,
		Provider:   provider,
		ProviderID: info.ProviderID,
		Email:      info.Email,
		CreatedAt:  time.Now(),
	}
	if err := s.userRepo.CreateOAuthAccount(ctx, account); err != nil {
		return nil, err
	}

	return user, nil
}

func splitName(name string) (first, last string) {
	parts := strings.SplitN(strings.TrimSpace(name), " ", 2)
	first = parts[0]
	if len(parts) == 2 {
		last = parts[1]
	}
	return first, last
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func parseGoogleUserInfo(data []byte) (*UserInfo, error) {
	var info googleUserInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("auth.parseGoogleUserInfo: %w", err)
	}

	return &UserInfo{
		ProviderID: info.ID,
		Email:      info.Email,
		Name:       info.Name,
		AvatarURL:  info.Picture,
	}, nil
}

type gitHubUserInfo struct {
	ID        int    `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

func parseGitHubUserInfo(data []byte) (*UserInfo, error) {
	var info gitHubUserInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("auth.parseGitHubUserInfo: %w", err)
	}

	displayName := info.Name
	if displayName == "" {
		displayName = info.Login
	}

	return &UserInfo{
		ProviderID: fmt.Sprintf("%d", info.ID),
		Email:      info.Email,
		Name:       displayName,
		AvatarURL:  info.AvatarURL,
	}, nil
}
