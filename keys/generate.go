package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/dilithium/mode3"

	"pawpad.dev/pawpad/model"
)

// Algorithm names an asymmetric key-pair type.
type Algorithm string

const (
	AlgRSA        Algorithm = "rsa"
	AlgEd25519    Algorithm = "ed25519"
	AlgDilithium3 Algorithm = "dilithium3"
)

// RSABits is the modulus size of generated RSA keys.
const RSABits = 2048

const (
	pemPrivate           = "PRIVATE KEY"
	pemPublic            = "PUBLIC KEY"
	pemDilithium3Private = "DILITHIUM3 PRIVATE KEY"
	pemDilithium3Public  = "DILITHIUM3 PUBLIC KEY"
)

// Algorithms lists the supported key-pair types.
var Algorithms = []Algorithm{AlgRSA, AlgEd25519, AlgDilithium3}

// ParseAlgorithm validates an algorithm name.
func ParseAlgorithm(s string) (Algorithm, error) {
	for _, a := range Algorithms {
		if string(a) == s {
			return a, nil
		}
	}
	return "", model.NewError(model.KindConfig, "PAWPAD-KEY-001", fmt.Sprintf("unsupported key algorithm %q", s))
}

// KeyPair is a generated key pair serialized as PEM blobs.
type KeyPair struct {
	Algorithm Algorithm
	Private   []byte
	Public    []byte
}

// Generate creates a new key pair. A nil random source means crypto/rand.
func Generate(alg Algorithm, random io.Reader) (*KeyPair, error) {
	if random == nil {
		random = rand.Reader
	}
	switch alg {
	case AlgRSA:
		priv, err := rsa.GenerateKey(random, RSABits)
		if err != nil {
			return nil, model.WrapError(model.KindKey, "PAWPAD-KEY-002", "generate rsa key", err)
		}
		return marshalPKCS8(alg, priv, &priv.PublicKey)
	case AlgEd25519:
		pub, priv, err := ed25519.GenerateKey(random)
		if err != nil {
			return nil, model.WrapError(model.KindKey, "PAWPAD-KEY-002", "generate ed25519 key", err)
		}
		return marshalPKCS8(alg, priv, pub)
	case AlgDilithium3:
		pub, priv, err := mode3.GenerateKey(random)
		if err != nil {
			return nil, model.WrapError(model.KindKey, "PAWPAD-KEY-002", "generate dilithium3 key", err)
		}
		privBytes, err := priv.MarshalBinary()
		if err != nil {
			return nil, model.WrapError(model.KindKey, "PAWPAD-KEY-003", "marshal dilithium3 private key", err)
		}
		pubBytes, err := pub.MarshalBinary()
		if err != nil {
			return nil, model.WrapError(model.KindKey, "PAWPAD-KEY-003", "marshal dilithium3 public key", err)
		}
		return &KeyPair{
			Algorithm: alg,
			Private:   pem.EncodeToMemory(&pem.Block{Type: pemDilithium3Private, Bytes: privBytes}),
			Public:    pem.EncodeToMemory(&pem.Block{Type: pemDilithium3Public, Bytes: pubBytes}),
		}, nil
	default:
		return nil, model.NewError(model.KindConfig, "PAWPAD-KEY-001", fmt.Sprintf("unsupported key algorithm %q", alg))
	}
}

func marshalPKCS8(alg Algorithm, priv, pub any) (*KeyPair, error) {
	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, model.WrapError(model.KindKey, "PAWPAD-KEY-003", fmt.Sprintf("marshal %s private key", alg), err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, model.WrapError(model.KindKey, "PAWPAD-KEY-003", fmt.Sprintf("marshal %s public key", alg), err)
	}
	return &KeyPair{
		Algorithm: alg,
		Private:   pem.EncodeToMemory(&pem.Block{Type: pemPrivate, Bytes: privDER}),
		Public:    pem.EncodeToMemory(&pem.Block{Type: pemPublic, Bytes: pubDER}),
	}, nil
}

// DescribePrivate reports the algorithm of a private PEM blob.
func DescribePrivate(blob []byte) (Algorithm, error) {
	block, _ := pem.Decode(blob)
	if block == nil {
		return "", model.NewError(model.KindKey, "PAWPAD-KEY-004", "no PEM block found")
	}
	switch block.Type {
	case pemDilithium3Private:
		var sk mode3.PrivateKey
		if err := sk.UnmarshalBinary(block.Bytes); err != nil {
			return "", model.WrapError(model.KindKey, "PAWPAD-KEY-005", "invalid dilithium3 private key", err)
		}
		return AlgDilithium3, nil
	case pemPrivate:
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return "", model.WrapError(model.KindKey, "PAWPAD-KEY-005", "invalid PKCS#8 private key", err)
		}
		switch key.(type) {
		case *rsa.PrivateKey:
			return AlgRSA, nil
		case ed25519.PrivateKey:
			return AlgEd25519, nil
		}
		return "", model.NewError(model.KindKey, "PAWPAD-KEY-006", fmt.Sprintf("unsupported private key type %T", key))
	default:
		return "", model.NewError(model.KindKey, "PAWPAD-KEY-006", fmt.Sprintf("unsupported PEM block %q", block.Type))
	}
}
