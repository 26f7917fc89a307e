// Package google verifies Google ID tokens against the tokeninfo endpoint.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/UsagiiTsukino/medchain-api/internal/core/ports"
)

// DefaultTokeninfoURL is Google's public token introspection endpoint.
const DefaultTokeninfoURL = "https://oauth2.googleapis.com/tokeninfo"

var ErrTokenRejected = errors.New("google token rejected")

type Verifier struct {
	endpoint string
	client   *http.Client
}

func NewVerifier(endpoint string) *Verifier {
	if endpoint == "" {
		endpoint = DefaultTokeninfoURL
	}
	return &Verifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify introspects the ID token. Any non-200 answer means the token is
// invalid or expired.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*ports.GoogleIdentity, error) {
	u := v.endpoint + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("google verify: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google verify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrTokenRejected
	}

	var body struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified string `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("google verify: %w", err)
	}
	if body.Sub == "" || body.Email == "" {
		return nil, ErrTokenRejected
	}

	return &ports.GoogleIdentity{
		Subject:  body.Sub,
		Email:    body.Email,
		FullName: body.Name,
		Avatar:   body.Picture,
	}, nil
}
