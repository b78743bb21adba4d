package ridesdk

import (
	"context"
	"fmt"
	"net/url"

	"github.com/aussiebroadwan/lyftrides/pkg/cryptox"
)

const responseTypeCode = "code"

// AuthorizationCodeGrant drives the three-legged OAuth2 flow: build an
// authorization URL, send the user there, then exchange the code on the
// redirect URL for a Session. Each grant instance carries its own CSRF state
// token.
type AuthorizationCodeGrant struct {
	client       *Client
	clientID     string
	clientSecret string
	scopes       []string
	stateToken   string
	responseType string
}

// NewAuthorizationCodeGrant creates an authorization code flow for the given
// app credentials. An empty stateToken generates a fresh random one;
// supplying a token is intended for callers that persist the state across
// process boundaries.
func (c *Client) NewAuthorizationCodeGrant(
	clientID, clientSecret string,
	scopes []string,
	stateToken string,
) (*AuthorizationCodeGrant, error) {
	if stateToken == "" {
		token, err := cryptox.GenerateStateToken(cryptox.StateTokenLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate state token: %w", err)
		}
		stateToken = token
	}

	return &AuthorizationCodeGrant{
		client:       c,
		clientID:     clientID,
		clientSecret: clientSecret,
		scopes:       dedupeScopes(scopes),
		stateToken:   stateToken,
		responseType: responseTypeCode,
	}, nil
}

// StateToken returns the CSRF state token bound to this grant. The redirect
// callback must carry it back unchanged.
func (g *AuthorizationCodeGrant) StateToken() string {
	return g.stateToken
}

// AuthorizationURL builds the URL to send the user to for consent.
func (g *AuthorizationCodeGrant) AuthorizationURL() (string, error) {
	if g.responseType != responseTypeCode {
		return "", illegalState("%s is not a supported response type", g.responseType)
	}

	params := url.Values{}
	params.Set("response_type", g.responseType)
	params.Set("client_id", g.clientID)
	params.Set("scope", joinScopes(g.scopes))
	params.Set("state", g.stateToken)

	return g.client.url(authorizePath) + "?" + params.Encode(), nil
}

// GetSession completes the flow from the URL the user was redirected to.
// It verifies the CSRF state token, enforces that the callback carries
// exactly one of code/error, exchanges the code and returns a new Session.
func (g *AuthorizationCodeGrant) GetSession(ctx context.Context, redirectURL string) (*Session, error) {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return nil, illegalState("invalid redirect url: %v", err)
	}

	code, err := g.verifyQuery(u.Query())
	if err != nil {
		return nil, err
	}

	resp, err := g.client.requestAccessToken(ctx, tokenRequest{
		grantType:    string(GrantAuthorizationCode),
		clientID:     g.clientID,
		clientSecret: g.clientSecret,
		code:         code,
	})
	if err != nil {
		return nil, err
	}

	credential, err := newCredentialFromTokenResponse(resp, GrantAuthorizationCode, g.clientID, g.clientSecret)
	if err != nil {
		return nil, err
	}

	return NewSession(credential)
}

// verifyQuery checks the redirect callback's query parameters and returns
// the authorization code. Order matters: state problems are reported before
// code/error problems so a forged callback never reaches the exchange.
func (g *AuthorizationCodeGrant) verifyQuery(query url.Values) (string, error) {
	if !query.Has("state") {
		return "", illegalState("bad request: missing state parameter")
	}
	if g.stateToken == "" {
		return "", illegalState("bad request: missing state token on grant")
	}
	if state := query.Get("state"); state != g.stateToken {
		return "", illegalState("CSRF error: expected %s, got %s", g.stateToken, state)
	}

	code := query.Get("code")
	errorCode := query.Get("error")

	switch {
	case code != "" && errorCode != "":
		return "", illegalState("bad request: both code and error are set")
	case code == "" && errorCode == "":
		return "", illegalState("bad request: neither code nor error is set")
	case errorCode != "":
		return "", illegalState("%s", errorCode)
	}

	return code, nil
}

// ClientCredentialsGrant drives the two-legged OAuth2 flow: the app
// authenticates as itself, no user involvement, no refresh token.
type ClientCredentialsGrant struct {
	client       *Client
	clientID     string
	clientSecret string
	scopes       []string
}

// NewClientCredentialsGrant creates a client credentials flow for the given
// app credentials.
func (c *Client) NewClientCredentialsGrant(clientID, clientSecret string, scopes []string) *ClientCredentialsGrant {
	return &ClientCredentialsGrant{
		client:       c,
		clientID:     clientID,
		clientSecret: clientSecret,
		scopes:       dedupeScopes(scopes),
	}
}

// GetSession requests an access token and returns a new Session.
func (g *ClientCredentialsGrant) GetSession(ctx context.Context) (*Session, error) {
	resp, err := g.client.requestAccessToken(ctx, tokenRequest{
		grantType:    string(GrantClientCredentials),
		clientID:     g.clientID,
		clientSecret: g.clientSecret,
		scopes:       g.scopes,
	})
	if err != nil {
		return nil, err
	}

	credential, err := newCredentialFromTokenResponse(resp, GrantClientCredentials, g.clientID, g.clientSecret)
	if err != nil {
		return nil, err
	}

	return NewSession(credential)
}
