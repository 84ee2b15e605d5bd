package adminsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// SDKClient is a client for the taxonomy admin API.
// It calls public procedures anonymously and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a client without a cookie jar, so every call is anonymous.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login calls auth.login and returns a Session holding the auth-token cookie.
func (c *SDKClient) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	s := &Session{
		client: c,
		http: &http.Client{
			Transport: c.HTTPClient.Transport,
			Timeout:   c.HTTPClient.Timeout,
			Jar:       jar,
		},
	}

	var identity Identity
	if err := c.mutate(ctx, s.http, "auth.login", req, &identity); err != nil {
		return nil, err
	}
	s.identity = identity

	return s, nil
}

// Me calls auth.me anonymously. It returns nil, nil when the server sees no session.
func (c *SDKClient) Me(ctx context.Context) (*Identity, error) {
	var identity *Identity
	if err := c.query(ctx, c.HTTPClient, "auth.me", nil, &identity); err != nil {
		return nil, err
	}
	return identity, nil
}
