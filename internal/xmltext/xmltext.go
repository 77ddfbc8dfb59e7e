// Package xmltext checks text against what an XML 1.0 document can carry.
package xmltext

import (
	"fmt"
	"unicode/utf8"
)

// Check rejects bytes that are not UTF-8 and characters outside the XML 1.0
// Char production. Legacy code page text must be transcoded first.
func Check(s string) error {
	for i, r := range s {
		if r == utf8.RuneError {
			if _, w := utf8.DecodeRuneInString(s[i:]); w == 1 {
				return fmt.Errorf("byte 0x%02x at offset %d is not UTF-8 (is a charset set?)", s[i], i)
			}
		}
		if !IsChar(r) {
			return fmt.Errorf("character %U at offset %d", r, i)
		}
	}
	return nil
}

// IsChar reports whether r matches the XML 1.0 Char production.
func IsChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
