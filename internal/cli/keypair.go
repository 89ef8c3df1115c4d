package cli

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	ledger "todochain/internal/domains/ledger/model"
)

const keypairFileMode = 0o600

var ErrInvalidKeypair = errors.New("invalid keypair file")

// Keypair is an ed25519 signing key stored as a JSON array of the 64 private key bytes.
type Keypair struct {
	Private ed25519.PrivateKey
}

func (k Keypair) Pubkey() ledger.Pubkey {
	pub, _ := k.Private.Public().(ed25519.PublicKey)

	return ledger.PubkeyFromPublicKey(pub)
}

func LoadKeypair(path string) (Keypair, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Keypair{}, fmt.Errorf("failed to read keypair %s: %w", path, err)
	}

	var secret byteArray
	if err := json.Unmarshal(raw, &secret); err != nil {
		return Keypair{}, fmt.Errorf("%w %s: %v", ErrInvalidKeypair, path, err)
	}

	if len(secret) != ed25519.PrivateKeySize {
		return Keypair{}, fmt.Errorf("%w %s: want %d bytes, got %d", ErrInvalidKeypair, path, ed25519.PrivateKeySize, len(secret))
	}

	private := ed25519.NewKeyFromSeed(secret[:ed25519.SeedSize])
	if !private.Equal(ed25519.PrivateKey(secret)) {
		return Keypair{}, fmt.Errorf("%w %s: public half does not match seed", ErrInvalidKeypair, path)
	}

	return Keypair{Private: private}, nil
}

// GenerateKeypair writes a fresh keypair to path, refusing to overwrite an existing file.
func GenerateKeypair(path string) (Keypair, error) {
	_, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return Keypair{}, fmt.Errorf("failed to generate keypair: %w", err)
	}

	raw, err := json.Marshal(byteArray(private))
	if err != nil {
		return Keypair{}, fmt.Errorf("failed to encode keypair: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return Keypair{}, fmt.Errorf("failed to create keypair directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, keypairFileMode)
	if err != nil {
		return Keypair{}, fmt.Errorf("failed to create keypair %s: %w", path, err)
	}
	defer file.Close()

	if _, err := file.Write(raw); err != nil {
		return Keypair{}, fmt.Errorf("failed to write keypair %s: %w", path, err)
	}

	return Keypair{Private: private}, nil
}

// byteArray encodes bytes as a JSON number array rather than base64.
type byteArray []byte

func (b byteArray) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(b))
	for i, v := range b {
		ints[i] = int(v)
	}

	return json.Marshal(ints)
}

func (b *byteArray) UnmarshalJSON(data []byte) error {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return err
	}

	out := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return fmt.Errorf("byte %d out of range: %d", i, v)
		}

		out[i] = byte(v)
	}

	*b = out

	return nil
}
