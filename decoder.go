package goxml

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// Decoder turns raw input bytes into Unicode scalar values. Implementations
// are stateful across calls (an auto-detecting decoder remembers which
// concrete encoding it sniffed; a UTF-16 decoder has no state of its own but
// satisfies the same contract) which is why Decode takes the unconsumed
// input each time rather than a single byte.
//
// Users may supply their own Decoder; the Reader never assumes one of the
// three built-ins.
type Decoder interface {
	// Decode attempts to read one codepoint from the front of buf, the
	// bytes not yet consumed by the Reader. If buf does not yet hold a
	// complete encoded unit, ok is false and err is nil unless atEOF is
	// true, in which case a truncated unit is an error. size is the number
	// of bytes in buf the codepoint occupied.
	Decode(buf []byte, atEOF bool) (cp rune, size int, ok bool, err error)

	// AdaptTo switches the decoder to the named encoding, as directed by a
	// parsed XML declaration. Implementations must reject a name that
	// contradicts the encoding already in effect (for example, one
	// determined by a byte-order mark).
	AdaptTo(name string) error
}

// UTF8Decoder decodes UTF-8, rejecting overlong forms, surrogate code
// points, and sequences encoding a value beyond U+10FFFF.
type UTF8Decoder struct{}

// Decode implements Decoder.
func (UTF8Decoder) Decode(buf []byte, atEOF bool) (rune, int, bool, error) {
	if len(buf) == 0 {
		return 0, 0, false, nil
	}
	if !utf8.FullRune(buf) && !atEOF {
		return 0, 0, false, nil
	}
	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError && size <= 1 {
		return 0, 0, false, &Error{Code: ErrInvalidUtf8, Msg: "invalid UTF-8 byte sequence"}
	}
	if r >= 0xD800 && r <= 0xDFFF {
		return 0, 0, false, &Error{Code: ErrInvalidUtf8, Msg: "UTF-8 sequence encodes a surrogate code point"}
	}
	if r > 0x10FFFF {
		return 0, 0, false, &Error{Code: ErrInvalidUtf8, Msg: "UTF-8 sequence exceeds U+10FFFF"}
	}
	return r, size, true, nil
}

// AdaptTo implements Decoder.
func (UTF8Decoder) AdaptTo(name string) error {
	switch {
	case strings.EqualFold(name, "UTF-8"):
		return nil
	case isRecognizedEncodingName(name):
		return &Error{Code: ErrInvalidEncoding, Msg: "declared encoding " + name + " contradicts detected UTF-8"}
	default:
		return &Error{Code: ErrXmlDeclarationEncodingUnsupported, Msg: "unrecognized encoding " + name}
	}
}

// UTF16Decoder decodes UTF-16, in either byte order, joining surrogate
// pairs and rejecting unpaired surrogates.
type UTF16Decoder struct {
	BigEndian bool
}

func (d *UTF16Decoder) unit(buf []byte) uint16 {
	if d.BigEndian {
		return uint16(buf[0])<<8 | uint16(buf[1])
	}
	return uint16(buf[1])<<8 | uint16(buf[0])
}

// Decode implements Decoder.
func (d *UTF16Decoder) Decode(buf []byte, atEOF bool) (rune, int, bool, error) {
	if len(buf) < 2 {
		if atEOF && len(buf) == 1 {
			return 0, 0, false, &Error{Code: ErrInvalidUtf16, Msg: "truncated UTF-16 code unit"}
		}
		return 0, 0, false, nil
	}
	u0 := d.unit(buf)
	switch {
	case u0 >= 0xD800 && u0 <= 0xDBFF:
		// High surrogate: need a following low surrogate.
		if len(buf) < 4 {
			if atEOF {
				return 0, 0, false, &Error{Code: ErrInvalidUtf16, Msg: "unpaired high surrogate at end of input"}
			}
			return 0, 0, false, nil
		}
		u1 := d.unit(buf[2:])
		if u1 < 0xDC00 || u1 > 0xDFFF {
			return 0, 0, false, &Error{Code: ErrInvalidUtf16, Msg: "high surrogate not followed by a low surrogate"}
		}
		cp := 0x10000 + (rune(u0)-0xD800)<<10 + (rune(u1) - 0xDC00)
		return cp, 4, true, nil
	case u0 >= 0xDC00 && u0 <= 0xDFFF:
		return 0, 0, false, &Error{Code: ErrInvalidUtf16, Msg: "unpaired low surrogate"}
	default:
		return rune(u0), 2, true, nil
	}
}

// AdaptTo implements Decoder.
func (d *UTF16Decoder) AdaptTo(name string) error {
	switch {
	case strings.EqualFold(name, "UTF-16"):
		return nil
	case strings.EqualFold(name, "UTF-16LE") && !d.BigEndian:
		return nil
	case strings.EqualFold(name, "UTF-16BE") && d.BigEndian:
		return nil
	case isRecognizedEncodingName(name):
		return &Error{Code: ErrInvalidEncoding, Msg: "declared encoding " + name + " contradicts detected UTF-16 byte order"}
	default:
		return &Error{Code: ErrXmlDeclarationEncodingUnsupported, Msg: "unrecognized encoding " + name}
	}
}

// isRecognizedEncodingName reports whether name is one of the encodings
// this package knows how to decode at all, as distinct from a name this
// Decoder instance cannot itself adapt to. Used to tell "xml_declaration
// says UTF-16LE but the document is UTF-8" (ErrInvalidEncoding, a
// contradiction) apart from "xml_declaration names an encoding nobody here
// has heard of" (ErrXmlDeclarationEncodingUnsupported).
func isRecognizedEncodingName(name string) bool {
	switch {
	case strings.EqualFold(name, "UTF-8"),
		strings.EqualFold(name, "UTF-16"),
		strings.EqualFold(name, "UTF-16LE"),
		strings.EqualFold(name, "UTF-16BE"):
		return true
	default:
		return false
	}
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// detectEncoding inspects the first bytes of the document (a byte-order
// mark, or else the zero-byte pattern of the first two bytes) and returns
// the Decoder to use.
func detectEncoding(buf []byte) Decoder {
	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		return UTF8Decoder{}
	case bytes.HasPrefix(buf, bomUTF16BE):
		return &UTF16Decoder{BigEndian: true}
	case bytes.HasPrefix(buf, bomUTF16LE):
		return &UTF16Decoder{BigEndian: false}
	case len(buf) >= 2 && buf[0] == 0x00 && buf[1] == '<':
		return &UTF16Decoder{BigEndian: true}
	case len(buf) >= 2 && buf[0] == '<' && buf[1] == 0x00:
		return &UTF16Decoder{BigEndian: false}
	default:
		return UTF8Decoder{}
	}
}

// AutoDecoder sniffs the input's encoding from its first bytes (at most 4)
// and thereafter delegates to the concrete Decoder it detected.
type AutoDecoder struct {
	resolved Decoder
}

// NewAutoDecoder returns a Decoder that detects UTF-8, UTF-16LE, or
// UTF-16BE from the document's leading bytes.
func NewAutoDecoder() *AutoDecoder {
	return &AutoDecoder{}
}

// Decode implements Decoder.
func (d *AutoDecoder) Decode(buf []byte, atEOF bool) (rune, int, bool, error) {
	if d.resolved == nil {
		if len(buf) < 4 && !atEOF {
			return 0, 0, false, nil
		}
		d.resolved = detectEncoding(buf)
	}
	return d.resolved.Decode(buf, atEOF)
}

// AdaptTo implements Decoder.
func (d *AutoDecoder) AdaptTo(name string) error {
	if d.resolved == nil {
		d.resolved = UTF8Decoder{}
	}
	return d.resolved.AdaptTo(name)
}

// Resolved returns the concrete Decoder that was sniffed, or nil if
// detection has not yet happened (no bytes have been read).
func (d *AutoDecoder) Resolved() Decoder {
	return d.resolved
}
