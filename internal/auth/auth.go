// Package auth resolves the calling identity from an incoming request.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/comments-api/internal/config"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrNoCredentials means the request carried no access token
	ErrNoCredentials = errors.New("no credentials")
	// ErrInvalidToken means a token was present but did not verify
	ErrInvalidToken = errors.New("invalid access token")
)

// Identity is the authenticated caller
type Identity struct {
	ID   string
	Role string
}

// Provider resolves the caller of a request
type Provider interface {
	Identify(r *http.Request) (*Identity, error)
}

// Claims are the access token claims this service reads
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTProvider verifies HS256 access tokens issued by the identity service
type JWTProvider struct {
	secret     []byte
	cookieName string
	parser     *jwt.Parser
}

// NewJWTProvider creates a provider from the auth configuration
func NewJWTProvider(cfg *config.AuthConfig) *JWTProvider {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &JWTProvider{
		secret:     []byte(cfg.JWTSecret),
		cookieName: cfg.CookieName,
		parser:     jwt.NewParser(opts...),
	}
}

// Identify verifies the bearer token (or session cookie) of r
func (p *JWTProvider) Identify(r *http.Request) (*Identity, error) {
	raw := p.token(r)
	if raw == "" {
		return nil, ErrNoCredentials
	}

	claims := &Claims{}
	_, err := p.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	sub, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, errors.New("subject is not a UUID"))
	}

	return &Identity{
		ID:   sub.String(),
		Role: claims.Role,
	}, nil
}

func (p *JWTProvider) token(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, tok, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
		return ""
	}
	if p.cookieName != "" {
		if c, err := r.Cookie(p.cookieName); err == nil {
			return c.Value
		}
	}
	return ""
}
