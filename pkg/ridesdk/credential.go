package ridesdk

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GrantType identifies the OAuth2 grant a credential was obtained through.
// The grant type decides how the credential is refreshed.
type GrantType string

const (
	// GrantAuthorizationCode is the three-legged flow on behalf of a user.
	GrantAuthorizationCode GrantType = "authorization_code"

	// GrantClientCredentials is the two-legged app-only flow.
	GrantClientCredentials GrantType = "client_credentials"
)

// Credential holds one set of OAuth2 credentials. The expiry is resolved to
// an absolute instant once, at construction; staleness checks never re-derive
// it.
type Credential struct {
	ClientID     string
	ClientSecret string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Scopes       []string
	GrantType    GrantType
}

// IsStale reports whether the access token has reached its expiry.
func (c *Credential) IsStale() bool {
	return c.StaleAt(time.Now())
}

// StaleAt reports whether the access token is expired at the given instant.
// The boundary itself counts as stale.
func (c *Credential) StaleAt(t time.Time) bool {
	return !t.Before(c.ExpiresAt)
}

// CredentialRecord is the flat persisted form of a Credential. The remaining
// lifetime is captured as relative seconds at save time so a reloaded
// credential expires at the same wall-clock moment.
type CredentialRecord struct {
	ClientID         string    `yaml:"client_id" json:"client_id"`
	ClientSecret     string    `yaml:"client_secret,omitempty" json:"client_secret,omitempty"`
	AccessToken      string    `yaml:"access_token" json:"access_token"`
	ExpiresInSeconds int64     `yaml:"expires_in_seconds" json:"expires_in_seconds"`
	Scopes           []string  `yaml:"scopes" json:"scopes"`
	GrantType        GrantType `yaml:"grant_type" json:"grant_type"`
	RefreshToken     string    `yaml:"refresh_token,omitempty" json:"refresh_token,omitempty"`
}

// Record converts the credential to its persisted form. A negative remaining
// lifetime is kept as-is; the reloaded credential is then immediately stale,
// which is the correct behavior.
func (c *Credential) Record() *CredentialRecord {
	return &CredentialRecord{
		ClientID:         c.ClientID,
		ClientSecret:     c.ClientSecret,
		AccessToken:      c.AccessToken,
		ExpiresInSeconds: int64(time.Until(c.ExpiresAt) / time.Second),
		Scopes:           append([]string(nil), c.Scopes...),
		GrantType:        c.GrantType,
		RefreshToken:     c.RefreshToken,
	}
}

// NewCredentialFromRecord rebuilds a Credential from its persisted form,
// resolving the relative lifetime against the current clock.
func NewCredentialFromRecord(rec *CredentialRecord) (*Credential, error) {
	if rec == nil || rec.AccessToken == "" {
		return nil, illegalState("credential record is missing an access token")
	}
	if rec.GrantType != GrantAuthorizationCode && rec.GrantType != GrantClientCredentials {
		return nil, illegalState("%s is not a recognised grant type", rec.GrantType)
	}

	return &Credential{
		ClientID:     rec.ClientID,
		ClientSecret: rec.ClientSecret,
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(rec.ExpiresInSeconds) * time.Second),
		Scopes:       dedupeScopes(rec.Scopes),
		GrantType:    rec.GrantType,
	}, nil
}

// tokenResponse is the wire shape of the OAuth2 token endpoint response.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope"`
	RefreshToken string `json:"refresh_token"`
}

// newCredentialFromTokenResponse builds a Credential from a token endpoint
// response, resolving expires_in against the current clock. When the server
// omits expires_in the expiry falls back to the access token's exp claim;
// absent both, the credential is immediately stale. The response body is
// consumed and closed.
func newCredentialFromTokenResponse(
	resp *http.Response,
	grantType GrantType,
	clientID, clientSecret string,
) (*Credential, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, clientErrorFromResponse(
			resp,
			fmt.Sprintf("error with access token request: %s", http.StatusText(resp.StatusCode)),
		)
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	expiresAt := time.Now()
	if tr.ExpiresIn > 0 {
		expiresAt = expiresAt.Add(time.Duration(tr.ExpiresIn) * time.Second)
	} else if exp, ok := accessTokenExpiry(tr.AccessToken); ok {
		expiresAt = exp
	}

	return &Credential{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    expiresAt,
		Scopes:       splitScopes(tr.Scope),
		GrantType:    grantType,
	}, nil
}

// accessTokenExpiry extracts the exp claim from a JWT access token without
// verifying the signature. The token is opaque to this SDK; the claim is only
// a hint for when to refresh, never an authorization decision.
func accessTokenExpiry(accessToken string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
