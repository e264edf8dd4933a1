package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const metadataTokenURL = "http://metadata.google.internal/computeMetadata/v1/instance/service-accounts/default/token"

// metadataTokenSource fetches service-account tokens from the runtime
// metadata server. Wrapped in oauth2.ReuseTokenSource so tokens are reused
// until close to expiry instead of being fetched per request.
type metadataTokenSource struct {
	client *http.Client
	url    string
}

type metadataTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

func (s *metadataTokenSource) Token() (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build metadata request: %w", err)
	}
	req.Header.Set("Metadata-Flavor", "Google")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata token endpoint returned HTTP %d", resp.StatusCode)
	}

	var body metadataTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode metadata token: %w", err)
	}
	if body.AccessToken == "" {
		return nil, fmt.Errorf("metadata token endpoint returned empty token")
	}

	return &oauth2.Token{
		AccessToken: body.AccessToken,
		TokenType:   body.TokenType,
		Expiry:      time.Now().Add(time.Duration(body.ExpiresIn) * time.Second),
	}, nil
}

// NewTokenSource returns a caching token source. A static token (local
// development) takes precedence; otherwise tokens come from the metadata
// server and are refreshed shortly before expiry.
func NewTokenSource(staticToken string, client *http.Client) oauth2.TokenSource {
	if staticToken != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: staticToken})
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return oauth2.ReuseTokenSource(nil, &metadataTokenSource{client: client, url: metadataTokenURL})
}
