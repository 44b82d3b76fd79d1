package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

type AuthConfig struct {
	Type         string `mapstructure:"type"` // token, bearer, basic, oauth2, none
	Username     string `mapstructure:"username,omitempty"`
	Password     string `mapstructure:"password,omitempty"`
	Token        string `mapstructure:"token,omitempty"`
	ClientID     string `mapstructure:"client_id,omitempty"`
	ClientSecret string `mapstructure:"client_secret,omitempty"`
	TokenURL     string `mapstructure:"token_url,omitempty"`
	RefreshToken string `mapstructure:"refresh_token,omitempty"`
}

// AuthProvider yields the Authorization header for Home Assistant requests.
type AuthProvider interface {
	GetAuthHeader() (string, error)
}

// AccessTokenProvider is implemented by providers that can hand out a raw token,
// which the WebSocket API expects inside its auth message.
type AccessTokenProvider interface {
	AccessToken() (string, error)
}

type BasicAuth struct {
	Username string
	Password string
}

func (b *BasicAuth) GetAuthHeader() (string, error) {
	encoded := base64.StdEncoding.EncodeToString([]byte(b.Username + ":" + b.Password))
	return "Basic " + encoded, nil
}

// BearerAuth carries a Home Assistant long-lived access token.
type BearerAuth struct {
	Token string
}

func (b *BearerAuth) GetAuthHeader() (string, error) {
	if b.Token == "" {
		return "", errors.New("bearer token is empty")
	}
	return "Bearer " + b.Token, nil
}

func (b *BearerAuth) AccessToken() (string, error) {
	if b.Token == "" {
		return "", errors.New("bearer token is empty")
	}
	return b.Token, nil
}

type OAuth2Auth struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	RefreshToken string
	HTTPClient   *http.Client

	accessToken string
	expiresAt   time.Time
	mu          sync.Mutex
}

func (o *OAuth2Auth) GetAuthHeader() (string, error) {
	token, err := o.AccessToken()
	if err != nil {
		return "", err
	}
	return "Bearer " + token, nil
}

func (o *OAuth2Auth) AccessToken() (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if time.Now().Before(o.expiresAt) && o.accessToken != "" {
		return o.accessToken, nil
	}
	return o.refreshAccessToken()
}

func (o *OAuth2Auth) refreshAccessToken() (string, error) {
	values := url.Values{}
	values.Set("grant_type", "refresh_token")
	values.Set("refresh_token", o.RefreshToken)
	values.Set("client_id", o.ClientID)
	if o.ClientSecret != "" {
		values.Set("client_secret", o.ClientSecret)
	}

	client := o.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.PostForm(o.TokenURL, values)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token error: %s", body)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("token parse error: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", errors.New("token response without access_token")
	}

	o.accessToken = tokenResp.AccessToken
	o.expiresAt = time.Now().Add(time.Duration(tokenResp.ExpiresIn-10) * time.Second)

	return o.accessToken, nil
}

// BuildAuthProvider returns nil, nil for type "none" or an empty type.
func BuildAuthProvider(cfg AuthConfig) (AuthProvider, error) {
	switch strings.ToLower(cfg.Type) {
	case "token", "bearer":
		if cfg.Token == "" {
			return nil, errors.New("auth type " + cfg.Type + " requires a token")
		}
		return &BearerAuth{
			Token: cfg.Token,
		}, nil
	case "basic":
		return &BasicAuth{
			Username: cfg.Username,
			Password: cfg.Password,
		}, nil
	case "oauth2":
		if cfg.TokenURL == "" {
			return nil, errors.New("auth type oauth2 requires a token_url")
		}
		return &OAuth2Auth{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			RefreshToken: cfg.RefreshToken,
		}, nil
	case "none", "":
		return nil, nil
	default:
		return nil, errors.New("unknown auth type: " + cfg.Type)
	}
}
