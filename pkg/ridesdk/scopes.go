package ridesdk

import "strings"

// Scopes recognised by the platform.
const (
	ScopePublic       = "public"
	ScopeRidesRead    = "rides.read"
	ScopeOffline      = "offline"
	ScopeRidesRequest = "rides.request"
	ScopeProfile      = "profile"
)

// AllScopes returns every scope the platform supports.
func AllScopes() []string {
	return []string{
		ScopePublic,
		ScopeRidesRead,
		ScopeOffline,
		ScopeRidesRequest,
		ScopeProfile,
	}
}

// joinScopes serializes scopes as the space-delimited form used by the OAuth2
// endpoints.
func joinScopes(scopes []string) string {
	return strings.Join(scopes, " ")
}

// splitScopes parses a space-delimited scope string into a slice,
// deduplicating while preserving first-seen order.
func splitScopes(s string) []string {
	return dedupeScopes(strings.Fields(s))
}

// dedupeScopes removes duplicate and empty entries, preserving first-seen
// order.
func dedupeScopes(scopes []string) []string {
	out := make([]string, 0, len(scopes))
	seen := make(map[string]struct{}, len(scopes))
	for _, scope := range scopes {
		scope = strings.TrimSpace(scope)
		if scope == "" {
			continue
		}
		if _, ok := seen[scope]; ok {
			continue
		}
		seen[scope] = struct{}{}
		out = append(out, scope)
	}
	return out
}
