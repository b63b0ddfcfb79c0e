package session

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ChickenIQ/vanillago/pkg/auth"
	"github.com/ChickenIQ/vanillago/pkg/proto"
)

// verifyTokenSize is the 16-byte verify token spec.md §4.9 requires.
const verifyTokenSize = 16

// LoginIdentity is what the login phase resolves to supply the play phase:
// the player's final uuid/name and (if online-mode) their signed profile
// properties.
type LoginIdentity struct {
	UUID          uuid.UUID
	Name          string
	TexturesValue string
	TexturesSig   string
}

// LoginFlow drives the cryptographic handshake and identity-service round
// trip (spec.md §4.9 "Login phase"), grounded on the teacher's
// handleLoginStart generalized from a single online_mode-less accept into
// the full RSA/AES/hasJoined sequence.
type LoginFlow struct {
	ServerID    string
	OnlineMode  bool
	PrivateKey  *rsa.PrivateKey
	PublicKeyDER []byte
	AuthClient  *auth.Client
}

// NewLoginFlow generates a fresh RSA keypair for serverID.
func NewLoginFlow(serverID string, onlineMode bool, authClient *auth.Client) (*LoginFlow, error) {
	priv, err := proto.GenerateServerKeyPair()
	if err != nil {
		return nil, err
	}
	der, err := proto.PublicKeyDER(&priv.PublicKey)
	if err != nil {
		return nil, err
	}
	return &LoginFlow{ServerID: serverID, OnlineMode: onlineMode, PrivateKey: priv, PublicKeyDER: der, AuthClient: authClient}, nil
}

// EncryptionRequest is what the caller must send after GenerateVerifyToken
// (spec.md §4.9 "send an encryption request (server_id, public_key_der,
// verify_token, should_authenticate)").
type EncryptionRequest struct {
	ServerID          string
	PublicKeyDER      []byte
	VerifyToken       []byte
	ShouldAuthenticate bool
}

// GenerateVerifyToken produces the per-session 16-byte verify token.
func (f *LoginFlow) GenerateVerifyToken() ([]byte, error) {
	token := make([]byte, verifyTokenSize)
	if _, err := rand.Read(token); err != nil {
		return nil, errors.Join(proto.ErrCryptoFailure, err)
	}
	return token, nil
}

func (f *LoginFlow) EncryptionRequest(verifyToken []byte) EncryptionRequest {
	return EncryptionRequest{
		ServerID:           f.ServerID,
		PublicKeyDER:       f.PublicKeyDER,
		VerifyToken:        verifyToken,
		ShouldAuthenticate: f.OnlineMode,
	}
}

// CompleteEncryption decrypts the client's encryption response, checks the
// verify token, computes the server hash, and (if online) authenticates
// against the identity service (spec.md §4.9). clientIP is used only for
// the hasJoined call. Returns the shared secret (to enable AES/CFB8 on the
// connection) and the resolved identity.
func (f *LoginFlow) CompleteEncryption(encryptedSharedSecret, encryptedVerifyToken, sentVerifyToken []byte, loginName string, loginUUID uuid.UUID, clientIP string) (sharedSecret []byte, identity LoginIdentity, err error) {
	sharedSecret, err = proto.DecryptPKCS1v15(f.PrivateKey, encryptedSharedSecret)
	if err != nil {
		return nil, LoginIdentity{}, err
	}
	echoedToken, err := proto.DecryptPKCS1v15(f.PrivateKey, encryptedVerifyToken)
	if err != nil {
		return nil, LoginIdentity{}, err
	}
	if !proto.ConstantTimeEqual(echoedToken, sentVerifyToken) {
		return nil, LoginIdentity{}, fmt.Errorf("%w: verify token mismatch", proto.ErrCryptoFailure)
	}

	if !f.OnlineMode {
		return sharedSecret, LoginIdentity{UUID: loginUUID, Name: loginName}, nil
	}

	hash := proto.ServerHash(f.ServerID, sharedSecret, f.PublicKeyDER)
	profile, authErr := f.AuthClient.HasJoined(loginName, hash, clientIP)
	if authErr != nil {
		return nil, LoginIdentity{}, authErr
	}
	if profile.Name != loginName {
		return nil, LoginIdentity{}, fmt.Errorf("%w: name mismatch", auth.ErrAuthFailure)
	}
	authedUUID, parseErr := uuid.Parse(profile.ID)
	if parseErr != nil {
		// Mojang returns undashed ids; retry with dashes inserted.
		authedUUID, parseErr = uuid.Parse(insertUUIDDashes(profile.ID))
		if parseErr != nil {
			return nil, LoginIdentity{}, fmt.Errorf("%w: malformed profile id", auth.ErrAuthFailure)
		}
	}

	identity = LoginIdentity{UUID: authedUUID, Name: profile.Name}
	for _, p := range profile.Properties {
		if p.Name == "textures" {
			identity.TexturesValue = p.Value
			identity.TexturesSig = p.Signature
		}
	}
	return sharedSecret, identity, nil
}

func insertUUIDDashes(id string) string {
	if len(id) != 32 {
		return id
	}
	return id[0:8] + "-" + id[8:12] + "-" + id[12:16] + "-" + id[16:20] + "-" + id[20:32]
}
