package authutil

import (
	"strings"
	"testing"
)

func TestHashSecret_RoundTrip(t *testing.T) {
	hash, err := HashSecret("s3cret-password")
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected bcrypt hash, got %q", hash)
	}
	if !VerifySecret(hash, "s3cret-password") {
		t.Error("expected matching secret to verify")
	}
	if VerifySecret(hash, "wrong-password") {
		t.Error("expected wrong secret to fail verification")
	}
}

func TestVerifySecret_EmptyHash(t *testing.T) {
	if VerifySecret("", "anything") {
		t.Error("expected empty hash to fail verification")
	}
}

func TestValidPIN(t *testing.T) {
	valid := []string{"1234", "0000", "9071"}
	for _, pin := range valid {
		if !ValidPIN(pin) {
			t.Errorf("expected %q to be a valid PIN", pin)
		}
	}

	invalid := []string{"", "123", "12345", "123456", "12a4", "12 4"}
	for _, pin := range invalid {
		if ValidPIN(pin) {
			t.Errorf("expected %q to be an invalid PIN", pin)
		}
	}
}

func TestValidMobile(t *testing.T) {
	if !ValidMobile("9876543210") {
		t.Error("expected bare 10-digit number to be valid")
	}
	if !ValidMobile("+919876543210") {
		t.Error("expected +91-prefixed number to be valid")
	}
	if ValidMobile("98765") {
		t.Error("expected short number to be invalid")
	}
	if ValidMobile("987654321x") {
		t.Error("expected non-digit number to be invalid")
	}
}
