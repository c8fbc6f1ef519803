// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidAdminKey = errors.New("invalid admin key")

// NewID returns a random identifier for polls, candidates and ballots.
func NewID() string {
	return uuid.NewString()
}

// AdminKey derives the key that authorizes closing a poll. It is never
// stored: the same poll ID and salt always give the same key.
func AdminKey(pollID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(pollID))
	return strings.TrimRight(base64.URLEncoding.EncodeToString(h.Sum(nil)), "=")
}

// CheckAdminKey compares in constant time.
func CheckAdminKey(pollID, key, salt string) error {
	if key == "" || !hmac.Equal([]byte(key), []byte(AdminKey(pollID, salt))) {
		return ErrInvalidAdminKey
	}
	return nil
}
