package ridesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/oklog/ulid/v2"

	"github.com/aussiebroadwan/lyftrides/pkg/slogx"
)

// RidesClient is the authenticated API facade. It wraps one Client and one
// Session and refreshes the credential transparently before each call.
//
// A RidesClient holds a single mutable Session reference and is not safe for
// unsynchronized concurrent use.
type RidesClient struct {
	client  *Client
	session *Session
}

// NewRidesClient creates an API facade for an authenticated session.
func NewRidesClient(client *Client, session *Session) (*RidesClient, error) {
	if client == nil {
		return nil, illegalState("rides client must have a platform client")
	}
	if session == nil {
		return nil, illegalState("rides client must have an authenticated session")
	}

	return &RidesClient{
		client:  client,
		session: session,
	}, nil
}

// Session returns the currently held session. After a refresh this is a
// different Session than the one the client was constructed with; callers
// persisting credentials should read it back after API calls.
func (rc *RidesClient) Session() *Session {
	return rc.session
}

// RefreshOAuthCredential swaps in a fresh session if the held credential is
// stale. A fresh credential is a no-op.
func (rc *RidesClient) RefreshOAuthCredential(ctx context.Context) error {
	credential := rc.session.Credential()
	if !credential.IsStale() {
		return nil
	}

	session, err := rc.client.RefreshAccessToken(ctx, credential)
	if err != nil {
		return err
	}
	rc.session = session

	slogx.FromContext(ctx).Debug("oauth credential refreshed",
		"client_id", credential.ClientID,
		"grant_type", string(credential.GrantType),
	)
	return nil
}

// RevokeOAuthCredential revokes the held credential's access token. The
// session reference is kept; subsequent calls will fail server-side until a
// new session is established.
func (rc *RidesClient) RevokeOAuthCredential(ctx context.Context) error {
	return rc.client.RevokeAccessToken(ctx, rc.session.Credential())
}

// doAPIRequest performs one authenticated API call: refresh if stale, wait
// on the limiter if configured, send with a Bearer token and a unique
// request ID. On 2xx the raw response is returned and the caller owns the
// body; on anything else the response is adapted into a typed error.
func (rc *RidesClient) doAPIRequest(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
) (*http.Response, error) {
	if err := rc.RefreshOAuthCredential(ctx); err != nil {
		return nil, err
	}

	if rc.client.Limiter != nil {
		if err := rc.client.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	endpoint := rc.client.url(path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	reqID := ulid.Make().String()
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("Authorization", rc.session.TokenType()+" "+rc.session.Credential().AccessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slogx.FromContext(ctx).Debug("api request", "method", method, "path", path, "req_id", reqID)

	resp, err := rc.client.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	return nil, adaptHTTPError(resp)
}
