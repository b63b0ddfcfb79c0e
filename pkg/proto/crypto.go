package proto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/subtle"
	"crypto/x509"
	"errors"
	"math/big"
)

// ErrCryptoFailure is returned for encryption-setup and RSA-decrypt faults
// (spec.md §7). Terminal for the connection.
var ErrCryptoFailure = errors.New("proto: crypto failure")

// GenerateServerKeyPair creates the RSA-2048 keypair the login phase uses to
// negotiate a shared secret (spec.md §9 Design Notes: "Cryptographic primitives").
func GenerateServerKeyPair() (*rsa.PrivateKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, errors.Join(ErrCryptoFailure, err)
	}
	return key, nil
}

// PublicKeyDER returns the i2d_PUBKEY-equivalent DER encoding (X.509
// SubjectPublicKeyInfo) of the server's RSA public key.
func PublicKeyDER(pub *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, errors.Join(ErrCryptoFailure, err)
	}
	return der, nil
}

// DecryptPKCS1v15 undoes the client's RSA/PKCS#1-v1.5 encryption of the shared
// secret or verify token during the login handshake.
func DecryptPKCS1v15(priv *rsa.PrivateKey, ciphertext []byte) ([]byte, error) {
	out, err := rsa.DecryptPKCS1v15(rand.Reader, priv, ciphertext)
	if err != nil {
		return nil, errors.Join(ErrCryptoFailure, err)
	}
	return out, nil
}

// ConstantTimeEqual compares two verify-token byte slices without leaking
// timing information. spec.md §9 flags the reference implementation's memcmp
// as acceptable-but-improvable; this is the improved (and cost-free) form.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// ServerHash computes the SHA-1 "server hash" spec.md §4.9/§9/GLOSSARY define:
// SHA1(serverID || sharedSecret || publicKeyDER) rendered as a Java BigInteger
// two's-complement signed hex string (leading '-' for negative values, lowercase
// hex, leading zeros stripped except for a lone "0").
func ServerHash(serverID string, sharedSecret, publicKeyDER []byte) string {
	h := sha1.New()
	h.Write([]byte(serverID))
	h.Write(sharedSecret)
	h.Write(publicKeyDER)
	digest := h.Sum(nil)
	return javaHexDigest(digest)
}

// javaHexDigest reproduces java.math.BigInteger(digest).toString(16): the
// digest bytes are interpreted as a signed two's-complement big integer, and
// printed as lowercase hex with no leading zeros (other than a lone "0"), with
// a leading '-' if negative.
func javaHexDigest(digest []byte) string {
	negative := digest[0]&0x80 != 0
	n := new(big.Int).SetBytes(digest)
	if negative {
		// Two's complement negation over len(digest)*8 bits.
		max := new(big.Int).Lsh(big.NewInt(1), uint(len(digest)*8))
		n.Sub(n, max)
		n.Neg(n)
		return "-" + n.Text(16)
	}
	return n.Text(16)
}

// NewCFB8Stream returns matched AES-128/CFB8 encrypt and decrypt streams using
// the 16-byte shared secret as both key and IV, per spec.md §4.1/§9. Each
// direction of a connection must use its own instance — the stream state
// advances byte-by-byte and distinct directions must not share it.
func NewCFB8Stream(sharedSecret []byte) (encrypt cipher.Stream, decrypt cipher.Stream, err error) {
	block, err := aes.NewCipher(sharedSecret)
	if err != nil {
		return nil, nil, errors.Join(ErrCryptoFailure, err)
	}
	encrypt = newCFB8(block, sharedSecret, true)
	decrypt = newCFB8(block, sharedSecret, false)
	return encrypt, decrypt, nil
}
