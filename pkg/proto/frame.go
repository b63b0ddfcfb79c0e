package proto

import (
	"bytes"
	"crypto/cipher"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// Packet is a decoded (packet_id, payload) pair (spec.md §3).
type Packet struct {
	ID      int32
	Payload []byte
}

// Conn wraps a byte stream with the stateful per-connection framing spec.md
// §4.1 describes: optional zlib compression above a threshold, optional
// AES-128/CFB8 encryption, and an exclusive send lock so packet order on the
// wire matches program order of Write calls (spec.md §5, §8 property 8).
type Conn struct {
	r io.Reader
	w io.Writer

	compressionThreshold int // <0 disables compression
	encryptReader        cipher.Stream
	encryptWriter        cipher.Stream

	sendMu sync.Mutex
}

// NewConn wraps rw with framing disabled for compression/encryption; enable
// either with EnableCompression/EnableEncryption once negotiated.
func NewConn(rw io.ReadWriter) *Conn {
	return &Conn{r: rw, w: rw, compressionThreshold: -1}
}

// EnableCompression activates the compressed frame preamble for subsequent
// writes and reads, with the given threshold (spec.md §3 invariant: bodies
// below threshold are sent uncompressed with data_length == 0).
func (c *Conn) EnableCompression(threshold int) {
	c.compressionThreshold = threshold
}

// EnableEncryption installs matched AES-128/CFB8 streams for both directions
// using sharedSecret as key and IV (spec.md §4.9).
func (c *Conn) EnableEncryption(sharedSecret []byte) error {
	enc, dec, err := NewCFB8Stream(sharedSecret)
	if err != nil {
		return err
	}
	c.r = &cipher.StreamReader{S: dec, R: c.r}
	c.w = &cipher.StreamWriter{S: enc, W: c.w}
	c.encryptReader, c.encryptWriter = dec, enc
	return nil
}

// ReadPacket drains exactly one frame and decodes it into a Packet.
func (c *Conn) ReadPacket() (*Packet, error) {
	length, _, err := ReadVarInt(c.r)
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, ErrCorruptFrame
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(c.r, body); err != nil {
		return nil, ErrTruncated
	}
	br := bytes.NewReader(body)

	if c.compressionThreshold < 0 {
		id, idLen, err := ReadVarInt(br)
		if err != nil {
			return nil, err
		}
		return &Packet{ID: id, Payload: body[idLen:]}, nil
	}

	dataLength, dlLen, err := ReadVarInt(br)
	if err != nil {
		return nil, err
	}
	rest := body[dlLen:]
	if dataLength == 0 {
		id, idLen, err := ReadVarInt(bytes.NewReader(rest))
		if err != nil {
			return nil, err
		}
		return &Packet{ID: id, Payload: rest[idLen:]}, nil
	}

	zr, err := zlib.NewReader(bytes.NewReader(rest))
	if err != nil {
		return nil, ErrCorruptFrame
	}
	defer zr.Close()
	decompressed := make([]byte, dataLength)
	if _, err := io.ReadFull(zr, decompressed); err != nil {
		return nil, ErrCorruptFrame
	}
	id, idLen, err := ReadVarInt(bytes.NewReader(decompressed))
	if err != nil {
		return nil, err
	}
	return &Packet{ID: id, Payload: decompressed[idLen:]}, nil
}

// WritePacket serializes and sends p, applying compression (if enabled and
// large enough) then encryption, under the connection's exclusive send lock.
func (c *Conn) WritePacket(p *Packet) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	var body bytes.Buffer
	WriteVarInt(&body, p.ID)
	body.Write(p.Payload)

	if c.compressionThreshold < 0 {
		return c.writeFrame(body.Bytes())
	}
	return c.writeCompressedFrame(body.Bytes())
}

func (c *Conn) writeFrame(body []byte) error {
	var out bytes.Buffer
	WriteVarInt(&out, int32(len(body)))
	out.Write(body)
	_, err := c.w.Write(out.Bytes())
	return err
}

func (c *Conn) writeCompressedFrame(uncompressed []byte) error {
	var wireBody bytes.Buffer
	if len(uncompressed) < c.compressionThreshold {
		WriteVarInt(&wireBody, 0)
		wireBody.Write(uncompressed)
	} else {
		WriteVarInt(&wireBody, int32(len(uncompressed)))
		zw := zlib.NewWriter(&wireBody)
		if _, err := zw.Write(uncompressed); err != nil {
			zw.Close()
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
	}

	var out bytes.Buffer
	WriteVarInt(&out, int32(wireBody.Len()))
	out.Write(wireBody.Bytes())
	_, err := c.w.Write(out.Bytes())
	return err
}
