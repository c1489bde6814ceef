package auth

import (
	"testing"
	"time"
)

func TestMintAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	token, err := m.Mint(42, "ilopez")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("user id = %d, want 42", claims.UserID)
	}
	if claims.Username != "ilopez" {
		t.Errorf("username = %q, want ilopez", claims.Username)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Mint(1, "u")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := NewManager("secret-b", time.Hour).Parse(token); err == nil {
		t.Error("token signed with another secret accepted")
	}
}

func TestParse_Expired(t *testing.T) {
	m := NewManager("secret", -time.Minute)
	token, err := m.Mint(1, "u")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := m.Parse(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestParse_Garbage(t *testing.T) {
	m := NewManager("secret", time.Hour)
	if _, err := m.Parse("not.a.token"); err == nil {
		t.Error("garbage token accepted")
	}
}
