package model

import (
	"crypto/ed25519"
	"database/sql/driver"
	"fmt"

	"github.com/mr-tron/base58/base58"
	"golang.org/x/crypto/blake2b"
)

const PubkeySize = 32

// Pubkey identifies an account or a program. Text form is base58.
type Pubkey [PubkeySize]byte

var (
	// SystemProgramID owns every freshly created account.
	SystemProgramID = Pubkey{}
	// ClockSysvarID is the account the runtime materializes the clock into.
	ClockSysvarID = MustPubkeyFromBase58("SysvarC1ock11111111111111111111111111111111")
)

func PubkeyFromBase58(s string) (Pubkey, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Pubkey{}, fmt.Errorf("invalid base58 pubkey %q: %w", s, err)
	}

	return PubkeyFromBytes(raw)
}

func MustPubkeyFromBase58(s string) Pubkey {
	key, err := PubkeyFromBase58(s)
	if err != nil {
		panic(err)
	}

	return key
}

func PubkeyFromBytes(raw []byte) (Pubkey, error) {
	var key Pubkey
	if len(raw) != PubkeySize {
		return key, fmt.Errorf("invalid pubkey length: %d", len(raw))
	}

	copy(key[:], raw)

	return key, nil
}

// DerivePubkey returns a deterministic address for a seed. Used for program ids.
func DerivePubkey(seed string) Pubkey {
	return Pubkey(blake2b.Sum256([]byte(seed)))
}

func PubkeyFromPublicKey(pub ed25519.PublicKey) Pubkey {
	var key Pubkey
	copy(key[:], pub)

	return key
}

func (k Pubkey) String() string {
	return base58.Encode(k[:])
}

func (k Pubkey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Pubkey) UnmarshalText(text []byte) error {
	key, err := PubkeyFromBase58(string(text))
	if err != nil {
		return err
	}

	*k = key

	return nil
}

// Value stores the pubkey as base58 text.
func (k Pubkey) Value() (driver.Value, error) {
	return k.String(), nil
}

func (k *Pubkey) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return k.UnmarshalText([]byte(v))
	case []byte:
		return k.UnmarshalText(v)
	default:
		return fmt.Errorf("unsupported pubkey column type %T", src)
	}
}
