package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleService interface {
	// GenerateState returns a random value to round-trip through the consent screen.
	GenerateState() (string, error)
	// RedirectURL builds the consent screen URL for state.
	RedirectURL(state string) string
	// FetchProfile exchanges the authorization code and reads the userinfo endpoint.
	FetchProfile(ctx context.Context, code string) (auth.GoogleProfile, error)
}

type GoogleServiceImpl struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogleService(clientID string, clientSecret string, redirectURL string, scopes []string) GoogleService {
	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       scopes,
		Endpoint:     google.Endpoint,
	}
	return &GoogleServiceImpl{config: config, userInfoURL: userInfoURL}
}

func (g *GoogleServiceImpl) GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (g *GoogleServiceImpl) RedirectURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (g *GoogleServiceImpl) FetchProfile(ctx context.Context, code string) (auth.GoogleProfile, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return auth.GoogleProfile{}, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return auth.GoogleProfile{}, err
	}
	resp, err := g.config.Client(ctx, token).Do(req)
	if err != nil {
		return auth.GoogleProfile{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return auth.GoogleProfile{}, fmt.Errorf("userinfo returned %d", resp.StatusCode)
	}

	var profile auth.GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return auth.GoogleProfile{}, fmt.Errorf("decode userinfo: %w", err)
	}
	return profile, nil
}
