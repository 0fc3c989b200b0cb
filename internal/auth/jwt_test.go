package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret-key"

	token, err := GenerateToken(secret, 1, "admin", true)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if claims.UserID != 1 {
		t.Errorf("expected user_id 1, got %d", claims.UserID)
	}
	if claims.Username != "admin" {
		t.Errorf("expected username 'admin', got %q", claims.Username)
	}
	if !claims.IsAdmin {
		t.Error("expected admin claim")
	}
	if claims.ID == "" {
		t.Error("expected a JTI")
	}
}

func TestTokensHaveDistinctIDs(t *testing.T) {
	a, _ := GenerateToken("s", 1, "alice", false)
	b, _ := GenerateToken("s", 1, "alice", false)

	ca, _ := ValidateToken("s", a)
	cb, _ := ValidateToken("s", b)
	if ca == nil || cb == nil || ca.ID == cb.ID {
		t.Error("expected distinct JTIs for separate sessions")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _ := GenerateToken("secret1", 1, "admin", true)

	_, err := ValidateToken("secret2", token)
	if err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestValidateTokenInvalid(t *testing.T) {
	_, err := ValidateToken("secret", "not-a-token")
	if err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestTokenExpiry(t *testing.T) {
	secret := "test"
	token, _ := GenerateToken(secret, 1, "test", false)
	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	diff := time.Now().Add(TokenExpiry).Sub(claims.Expiry())
	if diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("token expiry too far from expected: diff=%v", diff)
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(hash, "correct horse") {
		t.Error("expected matching password")
	}
	if CheckPassword(hash, "wrong horse") {
		t.Error("expected mismatch")
	}
	if CheckPassword("not-a-hash", "correct horse") {
		t.Error("malformed hash must not match")
	}
}

func TestValidateTokenRejectsForeignIssuer(t *testing.T) {
	claims := &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti",
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}
	if _, err := ValidateToken("secret", token); err == nil {
		t.Error("expected error for a token from another issuer")
	}
}

func TestValidateTokenRequiresExpiry(t *testing.T) {
	claims := &Claims{
		UserID:           1,
		RegisteredClaims: jwt.RegisteredClaims{ID: "jti", Issuer: Issuer},
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if _, err := ValidateToken("secret", token); err == nil {
		t.Error("expected error for a token without expiry")
	}
}

func TestTokenSubject(t *testing.T) {
	token, _ := GenerateToken("secret", 42, "bob", false)
	claims, err := ValidateToken("secret", token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Subject != "42" {
		t.Errorf("expected subject 42, got %q", claims.Subject)
	}
}
