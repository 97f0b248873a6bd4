// Package auth handles the Google OAuth code exchange used by the web
// client's one-tap sign-in.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProfile is the subset of the userinfo response we keep.
type GoogleProfile struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// Exchanger swaps an authorization code for a Google profile.
type Exchanger interface {
	ExchangeCode(ctx context.Context, code string) (*GoogleProfile, error)
}

// GoogleClient implements Exchanger against Google's OAuth endpoints.
type GoogleClient struct {
	conf        *oauth2.Config
	userInfoURL string
}

func NewGoogleClient(clientID, clientSecret, redirectURL string) (*GoogleClient, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("google client id and secret are required")
	}
	return &GoogleClient{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: userInfoURL,
	}, nil
}

func (c *GoogleClient) ExchangeCode(ctx context.Context, code string) (*GoogleProfile, error) {
	token, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google code exchange failed: %w", err)
	}

	resp, err := c.conf.Client(ctx, token).Get(c.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("google userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo request failed: status %d", resp.StatusCode)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("google userinfo: invalid response: %w", err)
	}
	if profile.Email == "" {
		return nil, errors.New("google userinfo: missing email")
	}

	return &profile, nil
}
