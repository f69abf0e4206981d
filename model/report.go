package model

// TamperedChar is one flagged position of a verification report.
type TamperedChar struct {
	Position int    `json:"position" yaml:"position"`
	Char     string `json:"char" yaml:"char"`
	Reason   string `json:"reason" yaml:"reason"`
}

// VerifyReport is the serializable view of a chain verification.
//
// OriginalCID is the CIDv1 (raw, sha2-256) of Original and is empty when the
// caller did not compute it.
type VerifyReport struct {
	Valid       bool           `json:"valid" yaml:"valid"`
	Original    string         `json:"original" yaml:"original"`
	OriginalCID string         `json:"originalCID,omitempty" yaml:"originalCID,omitempty"`
	TotalChars  int            `json:"totalChars" yaml:"totalChars"`
	SignedChars int            `json:"signedChars" yaml:"signedChars"`
	ValidChars  int            `json:"validChars" yaml:"validChars"`
	Tampered    []TamperedChar `json:"tampered" yaml:"tampered"`
}

// CharRow describes one base character found by the scanner.
type CharRow struct {
	Index      int    `json:"index" yaml:"index"`
	Char       string `json:"char" yaml:"char"`
	CodePoint  string `json:"codePoint" yaml:"codePoint"`
	Name       string `json:"name" yaml:"name"`
	Width      int    `json:"width" yaml:"width"`
	Hidden     bool   `json:"hidden" yaml:"hidden"`
	PayloadHex string `json:"payloadHex,omitempty" yaml:"payloadHex,omitempty"`
}

// AnalysisReport is the serializable view of a character analysis.
type AnalysisReport struct {
	Chars       []CharRow `json:"chars" yaml:"chars"`
	HiddenChars int       `json:"hiddenChars" yaml:"hiddenChars"`
	HiddenBytes int       `json:"hiddenBytes" yaml:"hiddenBytes"`
}
