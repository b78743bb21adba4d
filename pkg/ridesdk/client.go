package ridesdk

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://api.lyft.com"

const (
	authorizePath = "/oauth/authorize"
	tokenPath     = "/oauth/token"
	revokePath    = "/oauth/revoke_refresh_token"
)

// sandboxPrefix is prepended to the client secret to route token requests to
// the sandbox environment.
const sandboxPrefix = "SANDBOX-"

// Client is the low-level client for the Lyft platform. It owns the OAuth2
// token operations and creates grant flows; authenticated API calls go
// through a RidesClient.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Sandbox routes the app to the sandbox environment by applying the
	// sandbox prefix to the client secret on token requests.
	Sandbox bool

	// Limiter, when set, throttles outbound API calls client-side before
	// they are sent. Nil disables throttling.
	Limiter *rate.Limiter
}

// NewClient creates a new platform client. An empty baseURL selects the
// production API host.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// clientSecret returns the secret to present to the token endpoint,
// applying the sandbox prefix when sandbox mode is enabled.
func (c *Client) clientSecret(secret string) string {
	if c.Sandbox && secret != "" {
		return sandboxPrefix + secret
	}
	return secret
}
