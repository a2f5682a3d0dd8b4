package auth

import "github.com/golang-jwt/jwt/v5"

// SupabaseClaims is the payload of a Supabase Auth access token.
type SupabaseClaims struct {
	jwt.RegisteredClaims
	Email        string                 `json:"email"`
	Phone        string                 `json:"phone"`
	AppMetadata  map[string]interface{} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	Role         string                 `json:"role"` // "authenticated" or "anon"
	AAL          string                 `json:"aal"`
	SessionID    string                 `json:"session_id"`
	IsAnonymous  bool                   `json:"is_anonymous"`
}

// GetUserID returns the sub claim.
func (c *SupabaseClaims) GetUserID() string {
	return c.Subject
}
