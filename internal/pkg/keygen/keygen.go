package keygen

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// codeAlphabet excludes visually ambiguous characters (0/O, 1/I) so codes
// survive being read over the phone or typed from paper.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	codeLength = 16
	groupSize  = 4
)

// LicenseCode returns a human-typable code like QK3M-7HWP-2RZD-X9FA.
// Uniqueness is not guaranteed by construction; the licenses table carries a
// unique index and callers retry on a duplicate-key insert.
func LicenseCode() (string, error) {
	raw := make([]byte, codeLength)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	chars := make([]byte, codeLength)
	for i, b := range raw {
		chars[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	groups := make([]string, 0, codeLength/groupSize)
	for i := 0; i < codeLength; i += groupSize {
		groups = append(groups, string(chars[i:i+groupSize]))
	}
	return strings.Join(groups, "-"), nil
}

// ClaimNumber returns a date-stamped support reference like INK-20260901-0482.
func ClaimNumber(prefix string) (string, error) {
	var raw [8]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint64(raw[:]) % 10000
	return fmt.Sprintf("%s-%s-%04d", prefix, time.Now().Format("20060102"), n), nil
}

// NormalizeCode maps user input to the canonical stored form: uppercase,
// surrounding whitespace dropped. Dashes are kept as typed since codes are
// stored with them.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
