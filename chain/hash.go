package chain

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"

	"pawpad.dev/pawpad/model"
)

// LinkSize is the size of every chain link in bytes.
const LinkSize = 32

// Hash names a keyed-hash construction producing LinkSize-byte digests.
type Hash string

const (
	// HMACSHA256 is the default construction.
	HMACSHA256 Hash = "hmac-sha256"
	// HMACSHA3_256 is HMAC over SHA3-256.
	HMACSHA3_256 Hash = "hmac-sha3-256"
	// BLAKE3 is BLAKE3 in keyed mode. The 32-byte BLAKE3 key is derived from
	// the key blob with blake3.DeriveKey.
	BLAKE3 Hash = "blake3"
)

const blake3KeyContext = "pawpad 2024 chain link key"

// Hashes lists the supported constructions.
var Hashes = []Hash{HMACSHA256, HMACSHA3_256, BLAKE3}

// ParseHash validates a construction name.
func ParseHash(s string) (Hash, error) {
	for _, h := range Hashes {
		if string(h) == s {
			return h, nil
		}
	}
	return "", model.NewError(model.KindConfig, "PAWPAD-CHAIN-002", fmt.Sprintf("unsupported keyed hash %q", s))
}

// keyedHash computes a keyed digest of a single message.
type keyedHash func(message []byte) []byte

func newKeyedHash(h Hash, key []byte) (keyedHash, error) {
	switch h {
	case HMACSHA256:
		return func(message []byte) []byte {
			mac := hmac.New(sha256.New, key)
			mac.Write(message)
			return mac.Sum(nil)
		}, nil
	case HMACSHA3_256:
		return func(message []byte) []byte {
			mac := hmac.New(sha3.New256, key)
			mac.Write(message)
			return mac.Sum(nil)
		}, nil
	case BLAKE3:
		derived := make([]byte, 32)
		blake3.DeriveKey(blake3KeyContext, key, derived)
		return func(message []byte) []byte {
			hasher, err := blake3.NewKeyed(derived)
			if err != nil {
				// NewKeyed only rejects keys that are not 32 bytes.
				panic("chain: BLAKE3 keyed hash initialization failed: " + err.Error())
			}
			hasher.Write(message)
			return hasher.Sum(nil)
		}, nil
	default:
		return nil, model.NewError(model.KindConfig, "PAWPAD-CHAIN-002", fmt.Sprintf("unsupported keyed hash %q", h))
	}
}
