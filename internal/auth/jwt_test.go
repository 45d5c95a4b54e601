package auth

import (
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("secret", "key-ab12", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}

	claims, err := ParseJWT("secret", token)
	if err != nil {
		t.Fatalf("ParseJWT returned error: %v", err)
	}
	if claims.ClientID != "key-ab12" {
		t.Errorf("ClientID = %q, want %q", claims.ClientID, "key-ab12")
	}
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("secret", "key-ab12", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}

	if _, err := ParseJWT("other-secret", token); err == nil {
		t.Error("ParseJWT accepted a token signed with a different secret")
	}
}

func TestJWTGarbage(t *testing.T) {
	if _, err := ParseJWT("secret", "not.a.token"); err == nil {
		t.Error("ParseJWT accepted garbage")
	}
}
