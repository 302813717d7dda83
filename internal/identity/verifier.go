// Package identity verifies ID tokens issued by the sign-in provider.
package identity

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/golang-jwt/jwt/v5"

	"github.com/foodmood/foodmood/internal/foodmood"
)

var (
	ErrInvalidToken  = errors.New("invalid id token")
	ErrNotConfigured = errors.New("identity verification not configured")
)

// Claims are the ID token fields the service reads.
type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type Config struct {
	// ClientID is the expected audience.
	ClientID string
	// Issuers lists accepted iss values; empty accepts any.
	Issuers []string
	// JWKSURL serves the provider's RSA signing keys.
	JWKSURL string
	// HMACSecret enables HS256 tokens, for local development.
	HMACSecret string
}

type Verifier struct {
	cfg    Config
	keys   *KeySet
	parser *jwt.Parser
}

func NewVerifier(cfg Config, keys *KeySet) *Verifier {
	var methods []string
	if keys != nil {
		methods = append(methods, jwt.SigningMethodRS256.Alg())
	}
	if cfg.HMACSecret != "" {
		methods = append(methods, jwt.SigningMethodHS256.Alg())
	}
	return &Verifier{
		cfg:  cfg,
		keys: keys,
		parser: jwt.NewParser(
			jwt.WithValidMethods(methods),
			jwt.WithAudience(cfg.ClientID),
			jwt.WithExpirationRequired(),
		),
	}
}

// Verify checks the token signature, audience, issuer and expiry and returns
// the identity it carries.
func (v *Verifier) Verify(ctx context.Context, token string) (foodmood.Identity, error) {
	if v.keys == nil && v.cfg.HMACSecret == "" {
		return foodmood.Identity{}, ErrNotConfigured
	}

	var claims Claims
	_, err := v.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		switch t.Method.(type) {
		case *jwt.SigningMethodHMAC:
			return []byte(v.cfg.HMACSecret), nil
		case *jwt.SigningMethodRSA:
			kid, _ := t.Header["kid"].(string)
			return v.keys.Key(ctx, kid)
		default:
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
	})
	if err != nil {
		return foodmood.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if len(v.cfg.Issuers) > 0 && !slices.Contains(v.cfg.Issuers, claims.Issuer) {
		return foodmood.Identity{}, fmt.Errorf("%w: issuer %q not accepted", ErrInvalidToken, claims.Issuer)
	}
	if claims.Subject == "" {
		return foodmood.Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return foodmood.Identity{
		Token:   token,
		Subject: claims.Subject,
		Name:    claims.Name,
	}, nil
}
