package model

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"

	"github.com/mr-tron/base58/base58"
	"golang.org/x/crypto/blake2b"
)

const (
	metaFlagSigner   byte = 1 << 0
	metaFlagWritable byte = 1 << 1
)

// EncodeMessage returns the canonical bytes that signers sign.
//
//	u64 LE recent slot
//	u8 instruction count
//	per instruction: program id, u8 account count, (pubkey, flags) per account, u32 LE data length, data
func EncodeMessage(msg Message) []byte {
	var buf bytes.Buffer

	buf.Write(binary.LittleEndian.AppendUint64(nil, msg.RecentSlot))
	buf.WriteByte(byte(len(msg.Instructions)))

	for _, ix := range msg.Instructions {
		buf.Write(ix.ProgramID[:])
		buf.WriteByte(byte(len(ix.Accounts)))

		for _, meta := range ix.Accounts {
			var flags byte
			if meta.IsSigner {
				flags |= metaFlagSigner
			}

			if meta.IsWritable {
				flags |= metaFlagWritable
			}

			buf.Write(meta.Pubkey[:])
			buf.WriteByte(flags)
		}

		buf.Write(binary.LittleEndian.AppendUint32(nil, uint32(len(ix.Data))))
		buf.Write(ix.Data)
	}

	return buf.Bytes()
}

// TransactionID is the base58 blake2b-256 digest of the encoded message.
func TransactionID(msg Message) string {
	sum := blake2b.Sum256(EncodeMessage(msg))

	return base58.Encode(sum[:])
}

// RequiredSigners lists every pubkey flagged as signer, in first-seen order.
func (msg Message) RequiredSigners() []Pubkey {
	seen := map[Pubkey]bool{}
	signers := []Pubkey{}

	for _, ix := range msg.Instructions {
		for _, meta := range ix.Accounts {
			if meta.IsSigner && !seen[meta.Pubkey] {
				seen[meta.Pubkey] = true
				signers = append(signers, meta.Pubkey)
			}
		}
	}

	return signers
}

// VerifiedSigners returns the set of pubkeys with a valid signature over the message.
func (tx Transaction) VerifiedSigners() map[Pubkey]bool {
	payload := EncodeMessage(tx.Message)
	verified := map[Pubkey]bool{}

	for _, sig := range tx.Signatures {
		if ed25519.Verify(ed25519.PublicKey(sig.Pubkey[:]), payload, sig.Signature) {
			verified[sig.Pubkey] = true
		}
	}

	return verified
}
