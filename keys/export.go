package keys

import (
	"encoding/pem"
	"fmt"

	"pawpad.dev/pawpad/model"
)

// ExportPublic returns the public PEM blob of a stored key after checking that
// it decodes as PEM.
func (ks *KeyStore) ExportPublic(name string) ([]byte, error) {
	if err := CheckKeyName(name); err != nil {
		return nil, err
	}
	blob, err := readBlob(ks.publicKeyPath(name))
	if err != nil {
		return nil, err
	}
	if block, _ := pem.Decode(blob); block == nil {
		return nil, model.NewError(model.KindKey, "PAWPAD-KEY-004", fmt.Sprintf("public key %q is not PEM", name))
	}
	return blob, nil
}
