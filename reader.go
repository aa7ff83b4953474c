package goxml

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/mkbeh/goxml/internal/nsstack"
)

// ReaderConfig configures a Reader. The zero value is not generally
// useful — use NewReader for spec.md §6.1's defaults, or populate every
// field explicitly via NewReaderConfig.
type ReaderConfig struct {
	// BufferCapacity is the size, in bytes, of the Reader's internal
	// UTF-8 buffer. Minimum 2; values below that are raised to the
	// default.
	BufferCapacity int
	// NamespaceAware enables XML Namespaces 1.0 resolution of element
	// and attribute names.
	NamespaceAware bool
	// Decoder decodes the source's bytes into codepoints. A nil Decoder
	// is replaced with an auto-detecting one.
	Decoder Decoder
}

// NewReader constructs a Reader over src using spec.md §6.1's defaults: a
// 4096-byte buffer, namespace-aware resolution, and an auto-detecting
// decoder.
func NewReader(src io.Reader) *Reader {
	return NewReaderConfig(src, ReaderConfig{BufferCapacity: 4096, NamespaceAware: true})
}

// NewReaderConfig constructs a Reader over src with an explicit
// configuration.
func NewReaderConfig(src io.Reader, cfg ReaderConfig) *Reader {
	if cfg.BufferCapacity < 2 {
		cfg.BufferCapacity = 4096
	}
	dec := cfg.Decoder
	if dec == nil {
		dec = NewAutoDecoder()
	}
	r := &Reader{
		src:            src,
		decoder:        dec,
		scanner:        NewScanner(),
		raw:            make([]byte, 64),
		out:            make([]byte, 0, cfg.BufferCapacity),
		outCap:         cfg.BufferCapacity,
		namespaceAware: cfg.NamespaceAware,
		line:           1,
		col:            1,
	}
	if r.namespaceAware {
		r.ns = nsstack.New()
	}
	return r
}

// pendingAttr is a raw attribute collected between an element_start token
// and the element_start_end that closes its opening tag.
type pendingAttr struct {
	name  string
	value string
}

// Reader is the buffered, pull-based XML parser: spec.md §4.4's "heart" of
// the library. It owns a byte buffer, a Decoder, a Scanner, an element name
// stack, and (in namespace-aware mode) a namespace scope stack, and drives
// them to turn a byte stream into a sequence of Nodes.
//
// A Reader is not safe for concurrent use; independent Readers are fully
// independent.
type Reader struct {
	src     io.Reader
	decoder Decoder
	scanner *Scanner

	raw    []byte
	rawOff int
	rawLen int
	srcEOF bool

	out    []byte
	outCap int

	afterCR bool

	pendingNormalized rune
	havePending       bool

	namespaceAware bool
	ns             *nsstack.Stack
	elems          []elementFrame

	pendingName       string
	attrs             []pendingAttr
	pendingEmptyClose bool

	line    int
	col     int
	byteOff int

	err *Error
	cur node
}

// Read advances the Reader and returns the kind of the next Node, or an
// error. Once Read returns a non-nil error, every subsequent call returns
// the same error; ErrorCode and ErrorLocation remain retrievable.
func (r *Reader) Read() (NodeKind, error) {
	if r.err != nil {
		return NodeEOF, r.err
	}
	r.cur = node{}

	if r.pendingEmptyClose {
		r.pendingEmptyClose = false
		return r.popElement(), nil
	}

	if r.scanner.Resettable() {
		r.compact()
	}

	for {
		var normalized rune
		if r.havePending {
			normalized = r.pendingNormalized
			r.havePending = false
		} else {
			cp, ok, err := r.nextCodepoint()
			if err != nil {
				return r.fail(err)
			}
			if !ok {
				if eerr := r.scanner.EndInput(); eerr != nil {
					return r.fail(eerr)
				}
				r.cur.kind = NodeEOF
				return NodeEOF, nil
			}
			n, emit := r.normalizeLineEnding(cp)
			if !emit {
				continue
			}
			if r.scanner.InAttributeValue() {
				n = normalizeAttrWS(n)
			}
			normalized = n
		}

		size := utf8.RuneLen(normalized)
		if size < 0 {
			return r.fail(scanErr(ErrSyntaxError, "decoded an invalid codepoint"))
		}
		if len(r.out)+size > r.outCap {
			if tok, ok := r.scanner.FlushText(); ok {
				r.pendingNormalized = normalized
				r.havePending = true
				return r.emit(tok)
			}
			return r.fail(newError(ErrOverflow, r.position(), "token exceeds buffer capacity (%d bytes)", r.outCap))
		}

		var enc [4]byte
		n := utf8.EncodeRune(enc[:], normalized)
		r.out = append(r.out, enc[:n]...)
		r.updatePosition(normalized)

		tok, err := r.scanner.Next(normalized, n)
		if err != nil {
			return r.fail(err)
		}
		if tok == nil {
			continue
		}
		if kind, err, handled := r.handleToken(tok); handled {
			return kind, err
		}
	}
}

// ErrorCode returns the code of the error that last failed Read, or
// ErrNone if the Reader has not failed.
func (r *Reader) ErrorCode() ErrorCode {
	if r.err == nil {
		return ErrNone
	}
	return r.err.Code
}

// ErrorLocation returns the Position at which the Reader's last error was
// detected.
func (r *Reader) ErrorLocation() Position {
	if r.err == nil {
		return Position{}
	}
	return r.err.Pos
}

func (r *Reader) position() Position {
	return Position{Offset: r.byteOff, Line: r.line, Column: r.col}
}

func (r *Reader) fail(err error) (NodeKind, error) {
	e, ok := err.(*Error)
	if !ok {
		e = &Error{Code: ErrReadFailed, Msg: err.Error()}
	}
	if e.Pos == (Position{}) {
		e.Pos = r.position()
	}
	r.err = e
	return NodeEOF, e
}

func (r *Reader) updatePosition(cp rune) {
	if cp == '\n' {
		r.line++
		r.col = 1
	} else {
		r.col++
	}
	r.byteOff += utf8.RuneLen(cp)
}

// compact discards the bytes the Scanner has already consumed, shifting
// its token origin back to zero so the buffer can be reused indefinitely.
func (r *Reader) compact() {
	n := r.scanner.pos
	if n == 0 {
		return
	}
	copy(r.out, r.out[n:])
	r.out = r.out[:len(r.out)-n]
	r.scanner.ResetPosition()
}

// normalizeLineEnding implements XML 1.0 §2.11: #xD #xA and a lone #xD
// both become #xA. emit is false for a swallowed #xA following a #xD.
func (r *Reader) normalizeLineEnding(cp rune) (normalized rune, emit bool) {
	if r.afterCR {
		r.afterCR = false
		if cp == '\n' {
			return 0, false
		}
	}
	if cp == '\r' {
		r.afterCR = true
		return '\n', true
	}
	return cp, true
}

// normalizeAttrWS implements the CDATA-type attribute-value normalization
// of XML 1.0 §3.3.3: tab, CR, and LF become a single space. Characters
// contributed by character or entity reference expansion never pass
// through this function, since the Scanner decodes those independently of
// the codepoints the Reader feeds it.
func normalizeAttrWS(cp rune) rune {
	switch cp {
	case '\t', '\n', '\r':
		return ' '
	}
	return cp
}

// fillRaw tops up the Reader's raw input staging buffer from its source.
func (r *Reader) fillRaw() error {
	if r.rawOff > 0 {
		copy(r.raw, r.raw[r.rawOff:r.rawLen])
		r.rawLen -= r.rawOff
		r.rawOff = 0
	}
	if r.rawLen == len(r.raw) {
		r.raw = append(r.raw, make([]byte, len(r.raw))...)
	}
	if r.srcEOF {
		return nil
	}
	n, err := r.src.Read(r.raw[r.rawLen:])
	r.rawLen += n
	if err != nil {
		if err == io.EOF {
			r.srcEOF = true
			return nil
		}
		return err
	}
	return nil
}

// nextCodepoint decodes and returns the next raw codepoint from the
// source, filling the staging buffer as needed. ok is false at end of
// input.
func (r *Reader) nextCodepoint() (cp rune, ok bool, err error) {
	for {
		c, size, decOK, decErr := r.decoder.Decode(r.raw[r.rawOff:r.rawLen], r.srcEOF)
		if decErr != nil {
			return 0, false, decErr
		}
		if decOK {
			r.rawOff += size
			return c, true, nil
		}
		if r.srcEOF {
			return 0, false, nil
		}
		if ferr := r.fillRaw(); ferr != nil {
			return 0, false, &Error{Code: ErrReadFailed, Msg: ferr.Error()}
		}
	}
}

func (r *Reader) slice(rng Range) []byte {
	return r.out[rng.Start:rng.End]
}

// decodeAttrValue concatenates an attribute's value pieces into its final,
// entity-expanded string. Per spec.md §4.4, a non-predefined entity
// reference inside an attribute value is a well-formedness error, since
// this implementation has no DTD to define one.
func (r *Reader) decodeAttrValue(pieces []ValuePiece) (string, error) {
	if len(pieces) == 1 && pieces[0].Kind == ValueLiteral {
		return unsafeString(r.slice(pieces[0].Range)), nil
	}
	var b strings.Builder
	for _, p := range pieces {
		switch p.Kind {
		case ValueLiteral:
			b.WriteString(unsafeString(r.slice(p.Range)))
		case ValueCharRef:
			b.WriteRune(p.Codepoint)
		case ValueEntityRef:
			name := unsafeString(r.slice(p.Range))
			repl, ok := PredefinedEntities[name]
			if !ok {
				return "", scanErr(ErrUndeclaredEntityReference, "entity %q is not declared", name)
			}
			b.WriteString(repl)
		}
	}
	return b.String(), nil
}

// emit runs a Token through handleToken and returns its Node directly; it
// is how a FlushText split is surfaced, outside the normal per-codepoint
// loop.
func (r *Reader) emit(tok ScanToken) (NodeKind, error) {
	kind, err, _ := r.handleToken(tok)
	return kind, err
}

// handleToken applies one ScanToken to the Reader's accumulating state.
// handled is false when the token was absorbed without producing a Node
// yet (an element_start's name, or one of its attributes): the caller
// should keep scanning.
func (r *Reader) handleToken(tok ScanToken) (kind NodeKind, err error, handled bool) {
	switch t := tok.(type) {
	case XMLDeclToken:
		r.cur.kind = NodeXMLDeclaration
		r.cur.declVersion = unsafeString(r.slice(t.Version))
		if t.HasEncoding {
			r.cur.declEncoding = unsafeString(r.slice(t.Encoding))
			r.cur.hasEncoding = true
			if aerr := r.decoder.AdaptTo(r.cur.declEncoding); aerr != nil {
				k, e := r.fail(aerr)
				return k, e, true
			}
		}
		r.cur.declStandalone = t.Standalone
		r.cur.hasStandalone = t.HasStandalone
		return NodeXMLDeclaration, nil, true

	case ElementStartToken:
		r.pendingName = string(r.slice(t.Name))
		r.attrs = r.attrs[:0]
		if r.namespaceAware {
			r.ns.Push()
		}
		if r.scanner.state == stContent {
			// "<name>": the '>' directly after the name already closed the
			// tag, and the Scanner reports no ElementStartEndToken for it.
			k, e := r.finishElementStart(false)
			return k, e, true
		}
		return 0, nil, false

	case AttributeToken:
		name := unsafeString(r.slice(t.Name))
		val, verr := r.decodeAttrValue(t.Value)
		if verr != nil {
			k, e := r.fail(verr)
			return k, e, true
		}
		r.attrs = append(r.attrs, pendingAttr{name: name, value: val})
		return 0, nil, false

	case ElementStartEndToken:
		k, e := r.finishElementStart(t.Empty)
		return k, e, true

	case ElementEndToken:
		name := unsafeString(r.slice(t.Name))
		k, e := r.finishElementEnd(name)
		return k, e, true

	case TextToken:
		r.cur.kind = NodeText
		r.cur.text = unsafeString(r.slice(t.Range))
		return NodeText, nil, true
	case CDATAToken:
		r.cur.kind = NodeCDATA
		r.cur.text = unsafeString(r.slice(t.Range))
		return NodeCDATA, nil, true
	case CommentToken:
		r.cur.kind = NodeComment
		r.cur.text = unsafeString(r.slice(t.Range))
		return NodeComment, nil, true
	case PIToken:
		r.cur.kind = NodePI
		r.cur.piTarget = unsafeString(r.slice(t.Target))
		r.cur.piData = unsafeString(r.slice(t.Data))
		return NodePI, nil, true
	case CharRefToken:
		r.cur.kind = NodeCharacterReference
		r.cur.charRef = t.Codepoint
		return NodeCharacterReference, nil, true
	case EntityRefToken:
		r.cur.kind = NodeEntityReference
		r.cur.entityName = unsafeString(r.slice(t.Name))
		return NodeEntityReference, nil, true
	}
	k, e := r.fail(scanErr(ErrSyntaxError, "unrecognized token"))
	return k, e, true
}

func (r *Reader) finishElementStart(empty bool) (NodeKind, error) {
	name := r.pendingName
	prefix, local := "", name
	var resolved ResolvedName
	attrs := make([]Attribute, 0, len(r.attrs))

	if r.namespaceAware {
		for _, a := range r.attrs {
			p, l := splitQName(a.name)
			switch {
			case p == "" && l == "xmlns":
				if r.ns.BoundInCurrentScope("") {
					return r.fail(scanErr(ErrDuplicateAttribute, "duplicate xmlns declaration"))
				}
				if derr := validateNsDeclaration("", a.value); derr != nil {
					return r.fail(derr)
				}
				r.ns.Bind("", a.value)
			case p == "xmlns":
				if r.ns.BoundInCurrentScope(l) {
					return r.fail(scanErr(ErrDuplicateAttribute, "duplicate xmlns:%s declaration", l))
				}
				if derr := validateNsDeclaration(l, a.value); derr != nil {
					return r.fail(derr)
				}
				r.ns.Bind(l, a.value)
			}
		}

		var qerr error
		prefix, local, qerr = validateQName(name)
		if qerr != nil {
			return r.fail(qerr)
		}
		rn, rerr := resolveName(r.ns, prefix, local, false)
		if rerr != nil {
			return r.fail(rerr)
		}
		resolved = rn

		type key struct{ uri, local string }
		seen := make(map[key]bool, len(r.attrs))
		for _, a := range r.attrs {
			p, l := splitQName(a.name)
			if (p == "" && l == "xmlns") || p == "xmlns" {
				continue
			}
			ap, al, aerr := validateQName(a.name)
			if aerr != nil {
				return r.fail(aerr)
			}
			arn, rerr := resolveName(r.ns, ap, al, true)
			if rerr != nil {
				return r.fail(rerr)
			}
			k := key{arn.NamespaceURI, arn.Local}
			if seen[k] {
				return r.fail(scanErr(ErrDuplicateAttribute, "duplicate attribute %q", a.name))
			}
			seen[k] = true
			attrs = append(attrs, Attribute{Name: a.name, Prefix: arn.Prefix, URI: arn.NamespaceURI, Local: arn.Local, Value: a.value})
		}
	} else {
		seen := make(map[string]bool, len(r.attrs))
		for _, a := range r.attrs {
			if seen[a.name] {
				return r.fail(scanErr(ErrDuplicateAttribute, "duplicate attribute %q", a.name))
			}
			seen[a.name] = true
			attrs = append(attrs, Attribute{Name: a.name, Local: a.name, Value: a.value})
		}
	}

	r.cur.kind = NodeElementStart
	r.cur.name = name
	r.cur.prefix = resolved.Prefix
	r.cur.uri = resolved.NamespaceURI
	r.cur.local = local
	r.cur.attrs = attrs

	r.elems = append(r.elems, elementFrame{name: name, prefix: resolved.Prefix, uri: resolved.NamespaceURI, local: local})
	if empty {
		r.pendingEmptyClose = true
	}
	return NodeElementStart, nil
}

func (r *Reader) finishElementEnd(name string) (NodeKind, error) {
	if len(r.elems) == 0 {
		return r.fail(scanErr(ErrMismatchedEndTag, "end tag %q with no open element", name))
	}
	top := r.elems[len(r.elems)-1]
	if top.name != name {
		return r.fail(scanErr(ErrMismatchedEndTag, "end tag %q does not match open element %q", name, top.name))
	}
	return r.popElement(), nil
}

// popElement pops the innermost element stack frame (and its namespace
// scope) and reports it as an element_end Node. Used both for an ordinary
// end tag and to synthesize the element_end implied by empty-element
// syntax.
func (r *Reader) popElement() NodeKind {
	top := r.elems[len(r.elems)-1]
	r.elems = r.elems[:len(r.elems)-1]
	if r.namespaceAware {
		r.ns.Pop()
	}
	r.cur.kind = NodeElementEnd
	r.cur.name = top.name
	r.cur.prefix = top.prefix
	r.cur.uri = top.uri
	r.cur.local = top.local
	return NodeElementEnd
}

// XMLDeclarationVersion returns the version of the most recently read
// xml_declaration node.
func (r *Reader) XMLDeclarationVersion() string { return r.cur.declVersion }

// XMLDeclarationEncoding returns the declared encoding, if any.
func (r *Reader) XMLDeclarationEncoding() (string, bool) {
	return r.cur.declEncoding, r.cur.hasEncoding
}

// XMLDeclarationStandalone returns the declared standalone flag, if any.
func (r *Reader) XMLDeclarationStandalone() (bool, bool) {
	return r.cur.declStandalone, r.cur.hasStandalone
}

// ElementName returns the current element_start or element_end's literal
// source name.
func (r *Reader) ElementName() string { return r.cur.name }

// ElementNameNS returns the current element_start or element_end's
// resolved name.
func (r *Reader) ElementNameNS() ResolvedName {
	return ResolvedName{Prefix: r.cur.prefix, NamespaceURI: r.cur.uri, Local: r.cur.local}
}

// AttributeCount returns the number of attributes on the current
// element_start.
func (r *Reader) AttributeCount() int { return len(r.cur.attrs) }

// AttributeName returns attribute i's literal source name.
func (r *Reader) AttributeName(i int) string { return r.cur.attrs[i].Name }

// AttributeNameNS returns attribute i's resolved name.
func (r *Reader) AttributeNameNS(i int) ResolvedName {
	a := r.cur.attrs[i]
	return ResolvedName{Prefix: a.Prefix, NamespaceURI: a.URI, Local: a.Local}
}

// AttributeValue returns attribute i's decoded, normalized value.
func (r *Reader) AttributeValue(i int) string { return r.cur.attrs[i].Value }

// AttributeIndex returns the index of the attribute with the given literal
// source name, if present.
func (r *Reader) AttributeIndex(name string) (int, bool) {
	for i, a := range r.cur.attrs {
		if a.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Text returns the current text node's content.
func (r *Reader) Text() string { return r.cur.text }

// CDATA returns the current cdata node's content.
func (r *Reader) CDATA() string { return r.cur.text }

// Comment returns the current comment node's content.
func (r *Reader) Comment() string { return r.cur.text }

// PITarget returns the current pi node's target.
func (r *Reader) PITarget() string { return r.cur.piTarget }

// PIData returns the current pi node's data.
func (r *Reader) PIData() string { return r.cur.piData }

// CharacterReferenceChar returns the current character_reference node's
// scalar value.
func (r *Reader) CharacterReferenceChar() rune { return r.cur.charRef }

// EntityReferenceName returns the current entity_reference node's name.
func (r *Reader) EntityReferenceName() string { return r.cur.entityName }
