package ridesdk

// bearerTokenType is the only token type the platform issues.
const bearerTokenType = "Bearer"

// Session pairs one OAuth2 credential with its token type. Sessions are
// immutable: a refresh produces a brand-new Session, the old one is simply
// discarded.
type Session struct {
	credential *Credential
	tokenType  string
}

// NewSession creates a session for the given credential. A session cannot
// exist without one.
func NewSession(credential *Credential) (*Session, error) {
	if credential == nil {
		return nil, illegalState("session must have OAuth 2.0 credentials")
	}

	return &Session{
		credential: credential,
		tokenType:  bearerTokenType,
	}, nil
}

// Credential returns the credential held by this session.
func (s *Session) Credential() *Credential {
	return s.credential
}

// TokenType returns the Authorization scheme for this session's access token.
func (s *Session) TokenType() string {
	return s.tokenType
}
