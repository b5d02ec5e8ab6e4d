package auth

import (
	"strings"
	"testing"
	"time"
)

func TestHashAndVerifySecret(t *testing.T) {
	t.Parallel()

	hash, err := HashSecret("s3cr3t")
	if err != nil {
		t.Fatalf("HashSecret returned error: %v", err)
	}
	if hash == "s3cr3t" {
		t.Fatalf("hash must not equal plaintext")
	}

	if !VerifySecret(hash, "s3cr3t") {
		t.Error("VerifySecret = false for correct secret; want true")
	}
	if VerifySecret(hash, "wrong") {
		t.Error("VerifySecret = true for wrong secret; want false")
	}
	if VerifySecret("not-a-bcrypt-hash", "s3cr3t") {
		t.Error("VerifySecret = true for malformed hash; want false")
	}
}

func TestGenerateAndParseJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("scheduler-client")
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("token %q is not a three-part JWT", token)
	}

	claims, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("ParseJWT returned error: %v", err)
	}
	if claims.ClientID != "scheduler-client" {
		t.Errorf("ClientID = %q; want %q", claims.ClientID, "scheduler-client")
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Errorf("token must expire in the future, got %v", claims.ExpiresAt)
	}
}

func TestParseJWT_RejectsBadTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := ParseJWT(""); err == nil {
		t.Error("ParseJWT(\"\") = nil error; want error")
	}
	if _, err := ParseJWT("not.a.jwt"); err == nil {
		t.Error("ParseJWT(garbage) = nil error; want error")
	}

	token, err := GenerateJWT("client")
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}

	// A token signed under a different secret must not validate.
	t.Setenv("JWT_SECRET", "another-secret")
	if _, err := ParseJWT(token); err == nil {
		t.Error("ParseJWT with wrong secret = nil error; want error")
	}
}

func TestParseJWTExpiry(t *testing.T) {
	t.Parallel()

	if d := parseJWTExpiry(""); d != time.Duration(DefaultJWTExpiry)*time.Hour {
		t.Errorf("parseJWTExpiry(\"\") = %v; want default", d)
	}
	if d := parseJWTExpiry("abc"); d != time.Duration(DefaultJWTExpiry)*time.Hour {
		t.Errorf("parseJWTExpiry(invalid) = %v; want default", d)
	}
	if d := parseJWTExpiry("2"); d != 2*time.Hour {
		t.Errorf("parseJWTExpiry(\"2\") = %v; want 2h", d)
	}
}
