package ridesdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// grantRefreshToken is the grant_type for exchanging a refresh token. It is
// a request parameter only, never a Credential.GrantType value.
const grantRefreshToken = "refresh_token"

// tokenRequest carries the form parameters for one token endpoint call. Only
// non-empty fields are sent.
type tokenRequest struct {
	grantType    string
	clientID     string
	clientSecret string
	scopes       []string
	code         string
	refreshToken string
}

// requestAccessToken performs one POST against the token endpoint with HTTP
// Basic app authentication. The sandbox prefix is applied to the secret here
// so every grant and refresh path picks it up. Non-200 responses surface as
// a ClientError carrying the status text.
func (c *Client) requestAccessToken(ctx context.Context, tr tokenRequest) (*http.Response, error) {
	secret := c.clientSecret(tr.clientSecret)

	data := url.Values{}
	data.Set("grant_type", tr.grantType)
	if tr.clientID != "" {
		data.Set("client_id", tr.clientID)
	}
	if secret != "" {
		data.Set("client_secret", secret)
	}
	if len(tr.scopes) > 0 {
		data.Set("scope", joinScopes(tr.scopes))
	}
	if tr.code != "" {
		data.Set("code", tr.code)
	}
	if tr.refreshToken != "" {
		data.Set("refresh_token", tr.refreshToken)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.url(tokenPath),
		strings.NewReader(data.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(tr.clientID, secret)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, clientErrorFromResponse(
			resp,
			fmt.Sprintf("failed to request access token: %s", http.StatusText(resp.StatusCode)),
		)
	}

	return resp, nil
}

// RefreshAccessToken obtains fresh credentials for a stale credential and
// returns a brand-new Session. The request shape depends on the grant type
// the credential was obtained through: authorization_code credentials are
// refreshed with their refresh token, client_credentials credentials simply
// re-authenticate with the app secret and scopes.
func (c *Client) RefreshAccessToken(ctx context.Context, cred *Credential) (*Session, error) {
	if cred == nil {
		return nil, illegalState("session must have OAuth 2.0 credentials")
	}

	var (
		resp *http.Response
		err  error
	)

	switch cred.GrantType {
	case GrantAuthorizationCode:
		resp, err = c.requestAccessToken(ctx, tokenRequest{
			grantType:    grantRefreshToken,
			clientID:     cred.ClientID,
			clientSecret: cred.ClientSecret,
			refreshToken: cred.RefreshToken,
		})

	case GrantClientCredentials:
		resp, err = c.requestAccessToken(ctx, tokenRequest{
			grantType:    string(GrantClientCredentials),
			clientID:     cred.ClientID,
			clientSecret: cred.ClientSecret,
			scopes:       cred.Scopes,
		})

	default:
		return nil, illegalState("%s grant type does not support refreshing access tokens", cred.GrantType)
	}
	if err != nil {
		return nil, err
	}

	fresh, err := newCredentialFromTokenResponse(resp, cred.GrantType, cred.ClientID, cred.ClientSecret)
	if err != nil {
		return nil, err
	}

	return NewSession(fresh)
}

// RevokeAccessToken invalidates the credential's access token server-side.
// Only the status code of the response matters; the body is discarded.
func (c *Client) RevokeAccessToken(ctx context.Context, cred *Credential) error {
	if cred == nil {
		return illegalState("session must have OAuth 2.0 credentials")
	}

	query := url.Values{"token": {cred.AccessToken}}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.url(revokePath)+"?"+query.Encode(),
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return clientErrorFromResponse(
			resp,
			fmt.Sprintf("failed to revoke access token: %s", http.StatusText(resp.StatusCode)),
		)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}
