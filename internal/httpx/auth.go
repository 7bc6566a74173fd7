package httpx

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/lpagani/go-shop-orders/internal/redisx"
)

type ctxKey int

const userKey ctxKey = iota

// UserID returns the acting user resolved by the auth middleware.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userKey).(string)
	return id, ok
}

// Auth resolves the acting user from a bearer session token held in Redis.
// Session creation itself belongs to the auth service; this middleware only
// looks the token up.
type Auth struct {
	Redis *redis.Client
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing session token"})
			return
		}
		userID, err := a.Redis.Get(r.Context(), fmt.Sprintf(redisx.KeySession, token)).Result()
		if err != nil || userID == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid session token"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, userID)))
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if t, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(t)
	}
	return ""
}
