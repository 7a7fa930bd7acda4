package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nikhil/togglenest/internal/logger"
)

type ContextKey string

// EmailContextKey holds the email of a verified identity token.
const EmailContextKey ContextKey = "verifiedEmail"

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// BearerToken extracts the token from an Authorization header.
func BearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// VerifyToken checks an HS256 token signed with secret and returns its
// email claim.
func VerifyToken(tokenStr, secret string) (string, error) {
	if secret == "" {
		return "", ErrInvalidToken
	}
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", ErrInvalidToken
	}
	return email, nil
}

// IdentityMiddleware attaches the verified email when a valid bearer token
// is present. Requests without one, or with a bad one, still proceed.
func IdentityMiddleware(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := BearerToken(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			email, err := VerifyToken(tokenStr, secret)
			if err != nil {
				log.WithContext(r.Context()).Warn("Identity token rejected", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), EmailContextKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EmailFromContext returns the verified email, if any.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailContextKey).(string)
	return email, ok && email != ""
}

func ResponseWrapperMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// IssueToken signs an identity token for email. Production tokens come from
// the identity provider; this backs the `token` command for local clients.
func IssueToken(email, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}
