// internal/app/system/authutil/authutil.go

// Package authutil holds credential hashing helpers shared by the user
// (username + password) and staff (phone + PIN) credential spaces.
package authutil

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is deliberately above the library default; login is rare
// enough that the extra work factor is affordable.
const bcryptCost = 12

// HashSecret hashes a password or PIN with bcrypt.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifySecret reports whether the presented secret matches the stored
// bcrypt hash.
func VerifySecret(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// ValidPIN reports whether the value looks like a staff PIN: exactly
// 4 digits.
func ValidPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidMobile reports whether the value looks like a mobile number:
// 10 digits with an optional leading +country prefix.
func ValidMobile(mobile string) bool {
	mobile = strings.TrimSpace(mobile)
	mobile = strings.TrimPrefix(mobile, "+91")
	if len(mobile) != 10 {
		return false
	}
	for _, r := range mobile {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
