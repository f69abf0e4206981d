// Package chain signs text with a keyed hash chain hidden behind every
// character and verifies it again.
//
// The link of the character c at position p is
//
//	KeyedHash(key, utf8(c) || "|" || decimal(p) || "|" || previous)
//
// where previous is the link of position p-1 (empty for position 0). Each link
// is attached to its character as variation selectors.
package chain

import (
	"crypto/hmac"
	"strconv"
	"strings"

	"pawpad.dev/pawpad/model"
	"pawpad.dev/pawpad/selector"
)

// Recovery selects which link continues the chain after a mismatch.
type Recovery string

const (
	// CarryObserved continues with the observed (mismatching) link, so a
	// substituted character is reported only at its own position.
	CarryObserved Recovery = "carry-observed"
	// Resync continues with the expected link, so a replaced link is reported
	// only at its own position.
	Resync Recovery = "resync"
)

// ParseRecovery validates a recovery mode name.
func ParseRecovery(s string) (Recovery, error) {
	switch Recovery(s) {
	case CarryObserved, Resync:
		return Recovery(s), nil
	default:
		return "", model.NewError(model.KindConfig, "PAWPAD-CHAIN-003", "unsupported recovery mode "+strconv.Quote(s))
	}
}

// Reasons recorded for flagged positions.
const (
	ReasonMismatch = "mismatch"
	ReasonMissing  = "missing"
)

// Tampered is a position whose link did not verify.
type Tampered struct {
	Position int
	Char     rune
	Reason   string
}

// Result is the outcome of Verify. It is data: a failed verification is not an
// error.
type Result struct {
	Valid bool
	// Original is the text with every link removed.
	Original string
	Tampered []Tampered
	// TotalChars counts base characters; SignedChars counts those carrying a
	// link; ValidChars counts those whose link verified.
	TotalChars  int
	SignedChars int
	ValidChars  int
}

// Report projects r onto the serializable boundary type.
func (r *Result) Report() model.VerifyReport {
	report := model.VerifyReport{
		Valid:       r.Valid,
		Original:    r.Original,
		TotalChars:  r.TotalChars,
		SignedChars: r.SignedChars,
		ValidChars:  r.ValidChars,
		Tampered:    make([]model.TamperedChar, 0, len(r.Tampered)),
	}
	for _, t := range r.Tampered {
		report.Tampered = append(report.Tampered, model.TamperedChar{Position: t.Position, Char: string(t.Char), Reason: t.Reason})
	}
	return report
}

// Option configures a Signer.
type Option func(*Signer)

// WithHash selects the keyed-hash construction.
func WithHash(h Hash) Option {
	return func(s *Signer) { s.hash = h }
}

// WithRecovery selects the mismatch recovery mode used by Verify.
func WithRecovery(r Recovery) Option {
	return func(s *Signer) { s.recovery = r }
}

// Signer holds the key and settings for signing and verification. It is
// immutable after New and safe for concurrent use.
type Signer struct {
	hash     Hash
	recovery Recovery
	mac      keyedHash
}

// New returns a Signer keyed with the raw bytes of key. The bytes are used as
// the keyed-hash key without interpretation.
func New(key []byte, opts ...Option) (*Signer, error) {
	if len(key) == 0 {
		return nil, model.NewError(model.KindKey, "PAWPAD-CHAIN-001", "signing key is empty")
	}
	s := &Signer{hash: HMACSHA256, recovery: CarryObserved}
	for _, opt := range opts {
		opt(s)
	}
	if _, err := ParseRecovery(string(s.recovery)); err != nil {
		return nil, err
	}
	mac, err := newKeyedHash(s.hash, append([]byte(nil), key...))
	if err != nil {
		return nil, err
	}
	s.mac = mac
	return s, nil
}

// Hash returns the keyed-hash construction in use.
func (s *Signer) Hash() Hash { return s.hash }

// Recovery returns the mismatch recovery mode in use.
func (s *Signer) Recovery() Recovery { return s.recovery }

// ComputeLink returns the link binding char to its position and the previous
// link.
func (s *Signer) ComputeLink(char rune, position int, previous []byte) []byte {
	return s.mac(linkMessage(char, position, previous))
}

func linkMessage(char rune, position int, previous []byte) []byte {
	msg := make([]byte, 0, 4+1+20+1+len(previous))
	msg = append(msg, string(char)...)
	msg = append(msg, '|')
	msg = strconv.AppendInt(msg, int64(position), 10)
	msg = append(msg, '|')
	return append(msg, previous...)
}

// Sign attaches the chain link of every character of text.
func (s *Signer) Sign(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	var previous []byte
	position := 0
	for _, r := range text {
		link := s.ComputeLink(r, position, previous)
		selector.Append(&b, r, link)
		previous = link
		position++
	}
	return b.String()
}

// Verify recomputes the chain over signed.
//
// A character without a link is flagged as missing and does not advance the
// chain. A character whose link mismatches is flagged; the chain then
// continues with the observed link (CarryObserved) or the expected one
// (Resync).
func (s *Signer) Verify(signed string) *Result {
	segments := selector.Scan(signed)
	res := &Result{TotalChars: len(segments)}

	var original strings.Builder
	var previous []byte
	for position, seg := range segments {
		original.WriteRune(seg.Base)
		if !seg.Hidden() {
			res.Tampered = append(res.Tampered, Tampered{Position: position, Char: seg.Base, Reason: ReasonMissing})
			continue
		}
		res.SignedChars++

		expected := s.ComputeLink(seg.Base, position, previous)
		if hmac.Equal(expected, seg.Payload) {
			res.ValidChars++
			previous = expected
			continue
		}
		res.Tampered = append(res.Tampered, Tampered{Position: position, Char: seg.Base, Reason: ReasonMismatch})
		if s.recovery == Resync {
			previous = expected
		} else {
			previous = seg.Payload
		}
	}
	res.Original = original.String()
	res.Valid = len(res.Tampered) == 0
	return res
}

// ExtractOriginal removes every attached link, regardless of validity.
func ExtractOriginal(signed string) string {
	return selector.Strip(signed)
}
