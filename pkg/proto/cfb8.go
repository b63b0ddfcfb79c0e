package proto

import "crypto/cipher"

// cfb8 implements AES-CFB8 (8-bit shift register feedback), which the
// standard library's crypto/cipher.NewCFB does not provide (it only
// implements full-block CFB-128). Minecraft's protocol encryption is
// specifically CFB8: the shift register encrypts and consumes exactly one
// byte at a time, which is why the VarInt length prefix of an encrypted frame
// must be decrypted one byte at a time (spec.md §4.1).
type cfb8 struct {
	block     cipherBlock
	register  []byte
	tmp       []byte
	encrypt   bool
}

// cipherBlock is the minimal surface of cipher.Block this stream needs.
type cipherBlock interface {
	BlockSize() int
	Encrypt(dst, src []byte)
}

func newCFB8(block cipherBlock, iv []byte, encrypt bool) cipher.Stream {
	reg := make([]byte, len(iv))
	copy(reg, iv)
	return &cfb8{
		block:    block,
		register: reg,
		tmp:      make([]byte, block.BlockSize()),
		encrypt:  encrypt,
	}
}

// XORKeyStream encrypts or decrypts src into dst, one byte at a time, updating
// the shift register after every byte.
func (c *cfb8) XORKeyStream(dst, src []byte) {
	for i := 0; i < len(src); i++ {
		c.block.Encrypt(c.tmp, c.register)
		b := src[i]
		out := b ^ c.tmp[0]
		dst[i] = out

		// Shift register left by one byte; append the ciphertext byte
		// (encrypt: out; decrypt: the input byte itself) per CFB feedback.
		var feedback byte
		if c.encrypt {
			feedback = out
		} else {
			feedback = b
		}
		copy(c.register, c.register[1:])
		c.register[len(c.register)-1] = feedback
	}
}
