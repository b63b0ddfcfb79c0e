package session

import (
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"net"
	"testing"

	"github.com/google/uuid"

	"github.com/ChickenIQ/vanillago/pkg/proto"
)

func decodeDERPublicKey(der []byte) (*rsa.PublicKey, error) {
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, err
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("not an rsa public key")
	}
	return rsaPub, nil
}

type noopPlayHandler struct {
	entered chan LoginIdentity
}

func (h *noopPlayHandler) EnterPlay(conn *Connection, identity LoginIdentity) error {
	h.entered <- identity
	return nil
}

func writeClientPacket(t *testing.T, conn *proto.Conn, id int32, payload []byte) {
	t.Helper()
	if err := conn.WritePacket(&proto.Packet{ID: id, Payload: payload}); err != nil {
		t.Fatalf("write packet %x: %v", id, err)
	}
}

func handshakePayload(t *testing.T, protocolVersion int32, addr string, port uint16, next int32) []byte {
	t.Helper()
	var buf bytes.Buffer
	if _, err := proto.WriteVarInt(&buf, protocolVersion); err != nil {
		t.Fatal(err)
	}
	if err := proto.WriteString(&buf, addr); err != nil {
		t.Fatal(err)
	}
	if err := proto.WriteUint16(&buf, port); err != nil {
		t.Fatal(err)
	}
	if _, err := proto.WriteVarInt(&buf, next); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// TestScenarioAHandshakeStatusPing reproduces spec.md §8 scenario A.
func TestScenarioAHandshakeStatusPing(t *testing.T) {
	serverSide, clientSide := net.Pipe()
	defer serverSide.Close()
	defer clientSide.Close()

	serverConn := proto.NewConn(serverSide)
	clientConn := proto.NewConn(clientSide)

	flow, err := NewLoginFlow("server-id", false, nil)
	if err != nil {
		t.Fatalf("new login flow: %v", err)
	}
	conn := NewConnection(serverConn, flow, "127.0.0.1", -1)
	handler := &noopPlayHandler{entered: make(chan LoginIdentity, 1)}

	done := make(chan error, 1)
	go func() {
		done <- conn.Bootstrap(handler, ConfigurationHooks{}, func() StatusResponse {
			return StatusResponse{
				Version:     StatusVersion{Name: "1.21.3", Protocol: 768},
				Players:     StatusPlayers{Max: 20, Online: 0},
				Description: "A server",
			}
		})
	}()

	writeClientPacket(t, clientConn, idHandshake, handshakePayload(t, 764, "localhost", 25565, handshakeNextStatus))
	writeClientPacket(t, clientConn, idStatusRequest, nil)

	resp, err := clientConn.ReadPacket()
	if err != nil {
		t.Fatalf("read status response: %v", err)
	}
	if resp.ID != idStatusResponse {
		t.Fatalf("expected status response id, got %x", resp.ID)
	}
	body, err := proto.ReadString(bytes.NewReader(resp.Payload))
	if err != nil {
		t.Fatalf("read status json: %v", err)
	}
	if !bytes.Contains([]byte(body), []byte(`"protocol":768`)) {
		t.Fatalf("expected protocol 768 in status json, got %s", body)
	}

	pingPayload := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF, 0x00, 0x11}
	writeClientPacket(t, clientConn, idPingRequest, pingPayload)

	pong, err := clientConn.ReadPacket()
	if err != nil {
		t.Fatalf("read pong: %v", err)
	}
	if pong.ID != idPongResponse {
		t.Fatalf("expected pong id, got %x", pong.ID)
	}
	if !bytes.Equal(pong.Payload, pingPayload) {
		t.Fatalf("expected pong payload to echo ping, got %v want %v", pong.Payload, pingPayload)
	}

	if err := <-done; err != nil {
		t.Fatalf("bootstrap returned error: %v", err)
	}
}

// TestOfflineLoginReachesPlay drives a full offline-mode login and
// configuration handshake through to EnterPlay.
func TestOfflineLoginReachesPlay(t *testing.T) {
	serverSide, clientSide := net.Pipe()
	defer serverSide.Close()
	defer clientSide.Close()

	serverConn := proto.NewConn(serverSide)
	clientConn := proto.NewConn(clientSide)

	flow, err := NewLoginFlow("server-id", false, nil)
	if err != nil {
		t.Fatalf("new login flow: %v", err)
	}
	conn := NewConnection(serverConn, flow, "127.0.0.1", -1)
	handler := &noopPlayHandler{entered: make(chan LoginIdentity, 1)}

	done := make(chan error, 1)
	go func() {
		done <- conn.Bootstrap(handler, ConfigurationHooks{Brand: "vanillago"}, nil)
	}()

	writeClientPacket(t, clientConn, idHandshake, handshakePayload(t, 768, "localhost", 25565, handshakeNextLogin))

	loginUUID := uuid.New()
	var loginStart bytes.Buffer
	if err := proto.WriteString(&loginStart, "Steve"); err != nil {
		t.Fatal(err)
	}
	rawUUID := [16]byte(loginUUID)
	if err := proto.WriteUUID(&loginStart, rawUUID); err != nil {
		t.Fatal(err)
	}
	writeClientPacket(t, clientConn, idLoginStart, loginStart.Bytes())

	encReqPkt, err := clientConn.ReadPacket()
	if err != nil {
		t.Fatalf("read encryption request: %v", err)
	}
	if encReqPkt.ID != idEncryptionRequest {
		t.Fatalf("expected encryption request id, got %x", encReqPkt.ID)
	}
	r := bytes.NewReader(encReqPkt.Payload)
	if _, err := proto.ReadString(r); err != nil {
		t.Fatal(err)
	}
	pubDER, err := proto.ReadBytes(r)
	if err != nil {
		t.Fatal(err)
	}
	verifyToken, err := proto.ReadBytes(r)
	if err != nil {
		t.Fatal(err)
	}

	pub, err := decodeDERPublicKey(pubDER)
	if err != nil {
		t.Fatalf("decode server public key: %v", err)
	}
	secret := []byte("0123456789abcdef")
	encSecret, err := rsaEncrypt(pub, secret)
	if err != nil {
		t.Fatal(err)
	}
	encToken, err := rsaEncrypt(pub, verifyToken)
	if err != nil {
		t.Fatal(err)
	}

	var encResp bytes.Buffer
	if err := proto.WriteBytes(&encResp, encSecret); err != nil {
		t.Fatal(err)
	}
	if err := proto.WriteBytes(&encResp, encToken); err != nil {
		t.Fatal(err)
	}
	writeClientPacket(t, clientConn, idEncryptionResponse, encResp.Bytes())

	if err := clientConn.EnableEncryption(secret); err != nil {
		t.Fatalf("enable client-side encryption: %v", err)
	}

	successPkt, err := clientConn.ReadPacket()
	if err != nil {
		t.Fatalf("read login success: %v", err)
	}
	if successPkt.ID != idLoginSuccess {
		t.Fatalf("expected login success id, got %x", successPkt.ID)
	}

	writeClientPacket(t, clientConn, idLoginAcknowledged, nil)

	brandPkt, err := clientConn.ReadPacket()
	if err != nil {
		t.Fatalf("read plugin message: %v", err)
	}
	if brandPkt.ID != idPluginMessage {
		t.Fatalf("expected plugin message id, got %x", brandPkt.ID)
	}

	finishPkt, err := clientConn.ReadPacket()
	if err != nil {
		t.Fatalf("read finish configuration: %v", err)
	}
	if finishPkt.ID != idFinishConfiguration {
		t.Fatalf("expected finish configuration id, got %x", finishPkt.ID)
	}
	writeClientPacket(t, clientConn, idAckFinishConfiguration, nil)

	identity := <-handler.entered
	if identity.Name != "Steve" || identity.UUID != loginUUID {
		t.Fatalf("expected EnterPlay to receive login_start identity, got %+v", identity)
	}

	if err := <-done; err != nil {
		t.Fatalf("bootstrap returned error: %v", err)
	}
}
