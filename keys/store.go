package keys

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"pawpad.dev/pawpad/model"
)

const (
	privateKeyFile = "private.pem"
	publicKeyFile  = "public.pem"
)

// KeyStore represents a simple local-first key store.
//
// EXPERIMENTAL: this filesystem-backed storage surface is not part of the
// stable API and may change in MINOR releases.
//
// Layout: <Directory>/<name>/private.pem (0600) and public.pem (0644). Blobs
// are stored and returned byte for byte.
type KeyStore struct {
	Directory string
}

type KeyEntry struct {
	Name      string
	Algorithm Algorithm
}

func GetDefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".pawpad", "keys"), nil
}

func CreateKeyStore(directory string) (*KeyStore, error) {
	if directory == "" {
		var err error
		directory, err = GetDefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return &KeyStore{Directory: directory}, nil
}

func (ks *KeyStore) privateKeyPath(name string) string {
	return filepath.Join(ks.Directory, name, privateKeyFile)
}

func (ks *KeyStore) publicKeyPath(name string) string {
	return filepath.Join(ks.Directory, name, publicKeyFile)
}

func CheckKeyName(name string) error {
	if name == "" {
		return model.NewError(model.KindKey, "PAWPAD-KEY-010", "key name cannot be empty")
	}
	for _, char := range name {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return model.NewError(model.KindKey, "PAWPAD-KEY-010", fmt.Sprintf("invalid character %q in key name", char))
	}
	return nil
}

func writeBlob(filePath string, blob []byte, perm os.FileMode, overwrite bool) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(filePath, flags, perm)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := file.Write(blob); err != nil {
		return err
	}
	return file.Close()
}

func readBlob(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, model.NewError(model.KindKey, "PAWPAD-KEY-011", fmt.Sprintf("key file %s is empty", filePath))
	}
	return data, nil
}

// Save writes kp under name. Existing files are kept unless overwrite is set.
func (ks *KeyStore) Save(name string, kp *KeyPair, overwrite bool) (privatePath string, err error) {
	if err := CheckKeyName(name); err != nil {
		return "", err
	}
	if kp == nil || len(kp.Private) == 0 || len(kp.Public) == 0 {
		return "", model.NewError(model.KindKey, "PAWPAD-KEY-012", "incomplete key pair")
	}
	privatePath = ks.privateKeyPath(name)
	publicPath := ks.publicKeyPath(name)
	if !overwrite {
		for _, p := range []string{privatePath, publicPath} {
			if _, err := os.Lstat(p); err == nil {
				return "", fmt.Errorf("key %q: %s: %w", name, filepath.Base(p), os.ErrExist)
			}
		}
	}
	if err := writeBlob(privatePath, kp.Private, 0o600, overwrite); err != nil {
		return "", err
	}
	if err := writeBlob(publicPath, kp.Public, 0o644, overwrite); err != nil {
		// Do not leave a private key without its public half.
		_ = os.Remove(privatePath)
		return "", err
	}
	return privatePath, nil
}

// LoadPrivate returns the private blob stored under name.
func (ks *KeyStore) LoadPrivate(name string) ([]byte, error) {
	if err := CheckKeyName(name); err != nil {
		return nil, err
	}
	return readBlob(ks.privateKeyPath(name))
}

// LoadKey resolves the signing key from either a stored key name or a key file
// path. Exactly one must be given.
func (ks *KeyStore) LoadKey(name, keyFile string) ([]byte, error) {
	switch {
	case name != "" && keyFile != "":
		return nil, errors.New("conflicting key sources: use a key name or a key file, not both")
	case keyFile != "":
		return readBlob(keyFile)
	case name != "":
		return ks.LoadPrivate(name)
	default:
		return nil, errors.New("no signing key provided")
	}
}

// ListKeys returns the stored keys sorted by name. Directories without a
// readable private key are skipped.
func (ks *KeyStore) ListKeys() ([]KeyEntry, error) {
	entries, err := os.ReadDir(ks.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var result []KeyEntry
	for _, name := range names {
		blob, rerr := readBlob(ks.privateKeyPath(name))
		if rerr != nil {
			continue
		}
		alg, derr := DescribePrivate(blob)
		if derr != nil {
			alg = "unknown"
		}
		result = append(result, KeyEntry{Name: name, Algorithm: alg})
	}
	return result, nil
}
