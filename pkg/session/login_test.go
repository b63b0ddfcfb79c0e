package session

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/google/uuid"
)

func TestOfflineModeSkipsIdentityService(t *testing.T) {
	flow, err := NewLoginFlow("server-id", false, nil)
	if err != nil {
		t.Fatalf("new login flow: %v", err)
	}

	token, err := flow.GenerateVerifyToken()
	if err != nil {
		t.Fatalf("generate verify token: %v", err)
	}

	secret := []byte("0123456789abcdef")
	encSecret, err := rsaEncrypt(&flow.PrivateKey.PublicKey, secret)
	if err != nil {
		t.Fatalf("encrypt secret: %v", err)
	}
	encToken, err := rsaEncrypt(&flow.PrivateKey.PublicKey, token)
	if err != nil {
		t.Fatalf("encrypt token: %v", err)
	}

	loginUUID := uuid.New()
	shared, identity, err := flow.CompleteEncryption(encSecret, encToken, token, "Steve", loginUUID, "1.2.3.4")
	if err != nil {
		t.Fatalf("complete encryption: %v", err)
	}
	if string(shared) != string(secret) {
		t.Fatalf("expected decrypted shared secret to round trip")
	}
	if identity.Name != "Steve" || identity.UUID != loginUUID {
		t.Fatalf("expected offline identity to echo login_start fields, got %+v", identity)
	}
}

func TestVerifyTokenMismatchRejected(t *testing.T) {
	flow, err := NewLoginFlow("server-id", false, nil)
	if err != nil {
		t.Fatalf("new login flow: %v", err)
	}
	token, _ := flow.GenerateVerifyToken()
	wrongToken := make([]byte, len(token))
	copy(wrongToken, token)
	wrongToken[0] ^= 0xFF

	secret := []byte("0123456789abcdef")
	encSecret, _ := rsaEncrypt(&flow.PrivateKey.PublicKey, secret)
	encToken, _ := rsaEncrypt(&flow.PrivateKey.PublicKey, token)

	_, _, err = flow.CompleteEncryption(encSecret, encToken, wrongToken, "Steve", uuid.New(), "")
	if err == nil {
		t.Fatalf("expected verify-token mismatch to be rejected")
	}
}

func rsaEncrypt(pub *rsa.PublicKey, plaintext []byte) ([]byte, error) {
	return rsa.EncryptPKCS1v15(rand.Reader, pub, plaintext)
}
