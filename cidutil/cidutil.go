// Package cidutil derives content identifiers for recovered texts.
package cidutil

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// TextCID returns a CIDv1 string using the "raw" multicodec and a sha2-256
// multihash of the UTF-8 bytes of text.
func TextCID(text string) string {
	c, err := TextCIDv1(text)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with SHA2_256 and -1 length,
		// this should be unreachable.
		return ""
	}
	return c.String()
}

// TextCIDv1 returns the CIDv1 (raw + sha2-256) of text.
func TextCIDv1(text string) (cid.Cid, error) {
	sum, err := multihash.Sum([]byte(text), multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}
