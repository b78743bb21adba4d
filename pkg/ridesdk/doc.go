/*
Package ridesdk provides a client SDK for the Lyft ride-hailing platform API.

# Overview

The package is organized around three main types:

  - Client: the low-level API client. Holds the base URL, HTTP client and
    sandbox flag, and owns the OAuth2 token operations (request, refresh,
    revoke).
  - Session: an immutable pairing of one OAuth2 credential with the Bearer
    token type. Sessions are replaced wholesale when a credential is
    refreshed, never mutated.
  - RidesClient: the API facade. Wraps a Client and a Session and exposes one
    method per platform endpoint, refreshing the credential transparently
    before each call.

# Authentication Flows

Authorization Code Grant (three-legged, on behalf of a user):

	client := ridesdk.NewClient("")
	grant, err := client.NewAuthorizationCodeGrant(clientID, clientSecret, scopes, "")

	authURL, err := grant.AuthorizationURL()
	// Send the user to authURL, then collect the URL they were redirected to.

	session, err := grant.GetSession(ctx, redirectURL)
	rides, err := ridesdk.NewRidesClient(client, session)

Client Credentials Grant (two-legged, app-only):

	grant := client.NewClientCredentialsGrant(clientID, clientSecret, scopes)
	session, err := grant.GetSession(ctx)

# Credential Persistence

Credentials convert to and from a flat CredentialRecord for storage. The
record captures the remaining lifetime as relative seconds at save time, so a
reloaded credential expires at the same wall-clock moment:

	rec := session.Credential().Record()
	// ... store rec, reload it later ...
	cred, err := ridesdk.NewCredentialFromRecord(rec)
	session, err := ridesdk.NewSession(cred)

# Concurrency

A RidesClient holds a single mutable Session reference and is not safe for
unsynchronized concurrent use. Callers that share one across goroutines must
serialize access.

# Errors

API failures surface as typed errors: ClientError (4xx), ServerError (5xx),
UnknownHTTPError (unparseable responses) and IllegalStateError (misuse of the
SDK itself, such as a CSRF state mismatch).
*/
package ridesdk
