package functions

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 10_000
	defaultKeyLength = 32
)

type environmentRequest struct {
	Password  string `json:"password"  validate:"required"`
	KeyLength *int   `json:"keyLength" validate:"omitempty,min=1,max=1024"`
}

// Environment derives a password hash with a salt taken from the process environment.
type Environment struct {
	salt string
	log  *slog.Logger
}

// NewEnvironment creates the function. An empty salt makes every invocation fail with ErrUnavailable.
func NewEnvironment(salt string, log *slog.Logger) *Environment {
	return &Environment{salt: salt, log: log}
}

func (f *Environment) Name() string { return "environment" }

// Invoke returns the hex encoded PBKDF2-HMAC-SHA512 derivation of the password.
func (f *Environment) Invoke(ctx context.Context, event Event) (any, error) {
	f.log.InfoContext(ctx, fmt.Sprintf("Invoking %s with payload %s", f.Name(), payloadString(event.Data)))

	var req environmentRequest
	if err := decodePayload(event.Data, &req); err != nil {
		return nil, err
	}

	if f.salt == "" {
		return nil, fmt.Errorf("%w: please setup PASSWORD_SALT as environment variable", ErrUnavailable)
	}

	keyLength := defaultKeyLength
	if req.KeyLength != nil {
		keyLength = *req.KeyLength
	}

	key := pbkdf2.Key([]byte(req.Password), []byte(f.salt), pbkdf2Iterations, keyLength, sha512.New)

	return hex.EncodeToString(key), nil
}
