// Package kv stores small JSON values per browser session. Session ids are
// never stored in the clear: both backends key rows by a BLAKE2b digest.
package kv

import (
	"context"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/blake2b"
)

var ErrNotFound = errors.New("not found")

// Store is a per-session key/value store holding JSON documents.
type Store interface {
	// Get decodes the value stored under name into dest, or returns ErrNotFound.
	Get(ctx context.Context, sessionID, name string, dest any) error
	Put(ctx context.Context, sessionID, name string, v any) error
	// Delete is a no-op when nothing is stored under name.
	Delete(ctx context.Context, sessionID, name string) error
	Ping(ctx context.Context) error
}

func sessionKey(sessionID string) string {
	sum := blake2b.Sum256([]byte(sessionID))
	return hex.EncodeToString(sum[:])
}
