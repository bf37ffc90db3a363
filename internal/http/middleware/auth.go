package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

type contextKey string

// TeamIDKey carries the authenticated service account's team id.
const TeamIDKey contextKey = "team_id"

// ServiceAccountLookup resolves a hashed bearer token to the owning team.
type ServiceAccountLookup interface {
	TeamForTokenDigest(ctx context.Context, digest string) (int64, error)
}

// RequireServiceAccount authenticates requests with a service account
// bearer token. Tokens are stored hashed, so the lookup happens on the
// digest and raw tokens never reach the data store.
func RequireServiceAccount(lookup ServiceAccountLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}

			teamID, err := lookup.TeamForTokenDigest(r.Context(), TokenDigest(token))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), TeamIDKey, teamID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TeamID returns the authenticated team id from the request context.
func TeamID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(TeamIDKey).(int64)
	return id, ok
}

// TokenDigest hashes a raw bearer token for storage and lookup.
func TokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
