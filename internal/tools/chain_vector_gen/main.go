package main

import (
	"encoding/hex"
	"fmt"

	"pawpad.dev/pawpad/chain"
	"pawpad.dev/pawpad/cidutil"
)

const vectorKey = "test-key"

func mustSigner(h chain.Hash) *chain.Signer {
	s, err := chain.New([]byte(vectorKey), chain.WithHash(h))
	if err != nil {
		panic(err)
	}
	return s
}

// Prints link vectors for every keyed hash and a signed sample with the CID of
// its recovered text.
func main() {
	for _, h := range chain.Hashes {
		s := mustSigner(h)
		l0 := s.ComputeLink('a', 0, nil)
		l1 := s.ComputeLink('é', 1, l0)
		fmt.Printf("HASH=%s\n", h)
		fmt.Printf("LINK(a,0)=%s\n", hex.EncodeToString(l0))
		fmt.Printf("LINK(é,1)=%s\n", hex.EncodeToString(l1))
	}

	s := mustSigner(chain.HMACSHA256)
	signed := s.Sign("aé")
	res := s.Verify(signed)
	if !res.Valid {
		panic("sample does not verify")
	}
	fmt.Printf("SIGNED-HEX=%s\n", hex.EncodeToString([]byte(signed)))
	fmt.Printf("ORIGINAL-CID=%s\n", cidutil.TextCID(chain.ExtractOriginal(signed)))
}
