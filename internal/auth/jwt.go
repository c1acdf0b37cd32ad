package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nikhilbhutani/dinehub/internal/apperror"
	"github.com/nikhilbhutani/dinehub/internal/models"
	"github.com/nikhilbhutani/dinehub/internal/tenant"
)

type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (ti *TokenIssuer) Issue(u *models.User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ti.ttl)
	claims := &Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

func (ti *TokenIssuer) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ti.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}

type JWTMiddleware struct {
	tokens *TokenIssuer
	users  UserStore
	render apperror.Renderer
}

func NewJWTMiddleware(tokens *TokenIssuer, users UserStore, render apperror.Renderer) *JWTMiddleware {
	return &JWTMiddleware{tokens: tokens, users: users, render: render}
}

// Authenticate attaches the principal when a bearer token is present. Requests
// without a token continue anonymously; a bad token is rejected.
func (m *JWTMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := extractBearerToken(r)
		if tokenStr == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.tokens.Parse(tokenStr)
		if err != nil {
			m.render.Write(w, r, apperror.ErrUnauthenticated.WithDetails("invalid token: %v", err))
			return
		}

		userID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			m.render.Write(w, r, apperror.ErrUnauthenticated.WithDetails("invalid subject"))
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if errors.Is(err, ErrUserNotFound) {
			m.render.Write(w, r, apperror.ErrUnauthenticated.WithDetails("user %d no longer exists", userID))
			return
		}
		if err != nil {
			m.render.Write(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(tenant.WithUser(r.Context(), user)))
	})
}

// RequireAuth rejects anonymous requests.
func (m *JWTMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tenant.UserFromContext(r.Context()) == nil {
			m.render.Write(w, r, apperror.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
