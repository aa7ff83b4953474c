package goxml

import "strconv"

// parseCharRefDigits validates and decodes the digits of a numeric
// character reference (the part between "&#" or "&#x" and the terminating
// ";"), following the same strconv.ParseInt approach the teacher used for
// entity decoding, but validated against the Char production (spec.md
// §4.4 "Entity expansion") instead of being copied into an output buffer
// unchecked. A strconv parse failure and well-formed digits denoting a bad
// value are told apart only by the message; both surface as
// ErrInvalidCharacterReference to the caller.
func parseCharRefDigits(digits string, hex bool) (rune, error) {
	base := 10
	if hex {
		base = 16
	}
	num, err := strconv.ParseInt(digits, base, 32)
	if err != nil {
		return 0, scanErr(ErrInvalidCharacterReference, "malformed character reference digits %q", digits)
	}
	cp := rune(num)
	if cp < 0 || cp > 0x10FFFF || (cp >= 0xD800 && cp <= 0xDFFF) || !IsChar(cp) {
		return 0, scanErr(ErrInvalidCharacterReference, "character reference does not denote a valid XML character")
	}
	return cp, nil
}
