// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// decoyHash is compared against when an account does not exist, so a login for an
// unknown username costs the same as one with a wrong password.
var decoyHash, _ = bcrypt.GenerateFromPassword([]byte("pipemill-decoy-password"), bcrypt.DefaultCost)

// HashPassword hashes a plain-text password using the bcrypt algorithm.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
// An empty hash is compared against a decoy and always fails.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	if existingHash == "" {
		_ = bcrypt.CompareHashAndPassword(decoyHash, []byte(plainTextPassword))
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
