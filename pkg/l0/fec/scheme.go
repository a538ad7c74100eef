// Package fec provides the forward error correction codes and the
// Manchester line code of the link layer.
//
// Golay23, the default, is a perfect code: every word decodes, so four
// bit errors in a block are miscorrected and Result.Err stays nil. Only
// Golay24 reports them as uncorrectable.
package fec

import "strings"

// SchemeID identifies a block code.
type SchemeID uint8

const (
	// SchemeNone passes data through unchanged.
	SchemeNone SchemeID = iota
	// SchemeGolay23 is the perfect binary Golay (23,12) code.
	SchemeGolay23
	// SchemeGolay24 is the extended Golay (24,12) code.
	SchemeGolay24
)

// String implements fmt.Stringer.
func (id SchemeID) String() string {
	switch id {
	case SchemeNone:
		return "none"
	case SchemeGolay23:
		return "golay23"
	case SchemeGolay24:
		return "golay24"
	}
	return "unknown"
}

// ParseScheme parses a scheme name as printed by SchemeID.String.
func ParseScheme(name string) (SchemeID, error) {
	switch strings.ToLower(name) {
	case "none", "":
		return SchemeNone, nil
	case "golay23", "golay":
		return SchemeGolay23, nil
	case "golay24":
		return SchemeGolay24, nil
	}
	return SchemeNone, ErrUnknownScheme
}

// Scheme is a block code.
type Scheme interface {
	ID() SchemeID
	// EncodedSize returns the encoded size of n data bytes.
	EncodedSize(n int) int
	// DecodedSize returns the number of bytes decoded from n encoded bytes.
	DecodedSize(n int) int
	Encode(data []byte) []byte
	// Decode never fails; corruption is reported in the Result.
	Decode(encoded []byte) *Result
}

// GetScheme returns the implementation of id.
func GetScheme(id SchemeID) (Scheme, error) {
	switch id {
	case SchemeNone:
		return None, nil
	case SchemeGolay23:
		return Golay23, nil
	case SchemeGolay24:
		return Golay24, nil
	}
	return nil, ErrUnknownScheme
}

// Result is the outcome of decoding a buffer.
type Result struct {
	// Data holds the decoded bytes, degraded where blocks were uncorrectable.
	Data []byte
	// Blocks is the number of codewords decoded.
	Blocks int
	// Corrected counts the bits fixed.
	Corrected int
	// Uncorrectable lists the indices of codewords beyond repair.
	Uncorrectable []int
}

// OK reports whether every block decoded cleanly or was corrected.
func (r *Result) OK() bool {
	return len(r.Uncorrectable) == 0
}

// Err returns a *BlockError when any block was uncorrectable.
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	return &BlockError{Blocks: r.Uncorrectable}
}

type nopScheme struct{}

// None is the identity scheme.
var None Scheme = nopScheme{}

func (nopScheme) ID() SchemeID { return SchemeNone }
func (nopScheme) EncodedSize(n int) int { return n }
func (nopScheme) DecodedSize(n int) int { return n }
func (nopScheme) Encode(data []byte) []byte { return append([]byte(nil), data...) }

func (nopScheme) Decode(encoded []byte) *Result {
	return &Result{Data: append([]byte(nil), encoded...)}
}
