package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const clientID = "client-123.apps.example"

func jwksServer(t *testing.T, kid string, key *rsa.PublicKey) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"keys": []map[string]string{{
				"kid": kid,
				"kty": "RSA",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func sign(t *testing.T, method jwt.SigningMethod, kid string, key any, claims Claims) string {
	t.Helper()
	tok := jwt.NewWithClaims(method, claims)
	if kid != "" {
		tok.Header["kid"] = kid
	}
	s, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}
	return s
}

func validClaims() Claims {
	return Claims{
		Name: "Dana",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1100",
			Issuer:    "https://accounts.example.com",
			Audience:  jwt.ClaimStrings{clientID},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestVerifyRS256(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	srv, hits := jwksServer(t, "k1", &priv.PublicKey)

	v := NewVerifier(Config{
		ClientID: clientID,
		Issuers:  []string{"accounts.example.com", "https://accounts.example.com"},
	}, NewKeySet(srv.URL, srv.Client()))

	ctx := context.Background()
	token := sign(t, jwt.SigningMethodRS256, "k1", priv, validClaims())
	id, err := v.Verify(ctx, token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.Subject != "1100" || id.Name != "Dana" || id.Token != token {
		t.Errorf("identity = %+v", id)
	}

	// A second verification is served from the cache.
	if _, err := v.Verify(ctx, token); err != nil {
		t.Fatalf("Verify again: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("jwks fetched %d times, want 1", hits.Load())
	}

	wrongAud := validClaims()
	wrongAud.Audience = jwt.ClaimStrings{"someone-else"}
	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	badIssuer := validClaims()
	badIssuer.Issuer = "evil.example"
	noSubject := validClaims()
	noSubject.Subject = ""

	tests := []struct {
		name  string
		token string
	}{
		{"wrong audience", sign(t, jwt.SigningMethodRS256, "k1", priv, wrongAud)},
		{"expired", sign(t, jwt.SigningMethodRS256, "k1", priv, expired)},
		{"bad issuer", sign(t, jwt.SigningMethodRS256, "k1", priv, badIssuer)},
		{"no subject", sign(t, jwt.SigningMethodRS256, "k1", priv, noSubject)},
		{"wrong key", sign(t, jwt.SigningMethodRS256, "k1", other, validClaims())},
		{"unknown kid", sign(t, jwt.SigningMethodRS256, "k2", priv, validClaims())},
		{"hmac not enabled", sign(t, jwt.SigningMethodHS256, "", []byte("secret"), validClaims())},
		{"garbage", "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Verify(ctx, tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestVerifyHMAC(t *testing.T) {
	v := NewVerifier(Config{ClientID: clientID, HMACSecret: "dev-secret"}, nil)
	ctx := context.Background()

	id, err := v.Verify(ctx, sign(t, jwt.SigningMethodHS256, "", []byte("dev-secret"), validClaims()))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.Subject != "1100" {
		t.Errorf("subject = %q", id.Subject)
	}

	if _, err := v.Verify(ctx, sign(t, jwt.SigningMethodHS256, "", []byte("other"), validClaims())); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyNotConfigured(t *testing.T) {
	v := NewVerifier(Config{ClientID: clientID}, nil)
	if _, err := v.Verify(context.Background(), "x.y.z"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestKeySetRefreshesStaleKeys(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	srv, hits := jwksServer(t, "k1", &priv.PublicKey)

	ks := NewKeySet(srv.URL, srv.Client())
	now := time.Now()
	ks.now = func() time.Time { return now }

	ctx := context.Background()
	if _, err := ks.Key(ctx, "k1"); err != nil {
		t.Fatal(err)
	}
	// Unknown ids inside the refetch window do not hit the server.
	if _, err := ks.Key(ctx, "k9"); err == nil {
		t.Error("expected unknown key error")
	}
	if hits.Load() != 1 {
		t.Errorf("hits = %d, want 1", hits.Load())
	}

	now = now.Add(2 * time.Hour)
	if _, err := ks.Key(ctx, "k1"); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("hits = %d, want 2 after keys went stale", hits.Load())
	}
}
