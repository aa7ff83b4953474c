package goxml

import "fmt"

// scanState is a state of the Scanner's deterministic state machine. The
// names mirror spec.md §4.3's state summary; a few are split further
// (closing delimiters like "-->" and "]]>" need a bracket-counting state of
// their own, and the XML declaration's pseudo-attributes get their own
// name/eq/value states, parallel to a start tag's attribute states) because the
// Scanner is fed one codepoint at a time and has nowhere else to remember
// how much of a multi-character delimiter it has matched so far.
type scanState int

const (
	stProlog scanState = iota
	stXMLDeclName
	stXMLDeclNameRest
	stXMLDeclEq
	stXMLDeclValueOpen
	stXMLDeclValue
	stXMLDeclAfterValue
	stXMLDeclGT
	stMisc
	stEpilog
	stContent
	stLt
	stBangOpen
	stBangDash
	stCommentBody
	stCommentDash1
	stCommentDash2
	stCDATAMatch
	stCDATABody
	stCDATABracket1
	stCDATABracket2
	stDoctypeMatch
	stPIAfterQ
	stPITarget
	stPITargetSpace
	stPIData
	stPIDataQ
	stEndTagName
	stEndTagSpace
	stElementName
	stAttrListSpace
	stAttrName
	stAttrEq
	stAttrValueOpen
	stAttrValue
	stAttrRefAmp
	stAttrRefName
	stAttrCharRefIntro
	stAttrCharRefDec
	stAttrCharRefHex
	stSelfCloseSlash
	stTextRefAmp
	stTextRefName
	stTextCharRefIntro
	stTextCharRefDec
	stTextCharRefHex
	stDone
)

const cdataTarget = "CDATA["
const doctypeTarget = "DOCTYPE"

// literalMatcher recognizes one of a fixed set of ASCII keywords by
// elimination, one byte at a time, without ever holding the bytes it has
// already seen. It is how the Scanner tells "version" from "encoding" from
// "standalone", and "yes" from "no", despite never owning a buffer to
// compare a finished Range's contents against a string literal.
type literalMatcher struct {
	candidates []string
	idx        int
}

func newLiteralMatcher(candidates ...string) literalMatcher {
	return literalMatcher{candidates: candidates}
}

func (m *literalMatcher) feed(cp rune) {
	if cp > 127 {
		m.candidates = nil
		m.idx++
		return
	}
	b := byte(cp)
	kept := m.candidates[:0]
	for _, c := range m.candidates {
		if len(c) > m.idx && c[m.idx] == b {
			kept = append(kept, c)
		}
	}
	m.candidates = kept
	m.idx++
}

func (m *literalMatcher) result() (string, bool) {
	for _, c := range m.candidates {
		if len(c) == m.idx {
			return c, true
		}
	}
	return "", false
}

// Scanner is a codepoint-fed, allocation-free state machine recognizing XML
// 1.0 syntax. It holds only its current state, the byte offsets of the
// current token's start and sub-ranges, and a handful of small accumulators
// (attribute value pieces, character reference digits); it never copies or
// buffers the document bytes it describes, instead handing back Ranges for
// the Reader to slice out of its own buffer.
//
// A Scanner is driven one Unicode scalar value at a time via Next. Next
// returns a non-nil ScanToken when a complete token has been recognized,
// (nil, nil) when more input is needed, and a non-nil error on a
// well-formedness violation the Scanner itself can detect. Cross-token
// checks such as matched end-tag names and duplicate attributes are the
// Reader's responsibility, per spec.md §4.3/§4.4: the Scanner is purely
// syntactic, tracking only element nesting depth rather than names.
type Scanner struct {
	state scanState
	pos   int // offset, relative to the last ResetPosition, of the codepoint about to be fed

	seenFirstToken bool
	depth          int
	rootDone       bool

	tokStart  int
	nameStart int
	nameEnd   int

	quote rune

	pieces      []ValuePiece
	literalFrom int

	refDigits []byte
	refHex    bool

	declMatcher    literalMatcher
	declAttr       string
	declValMatcher literalMatcher
	declVersion    Range
	declHasVersion bool
	declEncoding   Range
	declHasEnc     bool
	declStandalone bool
	declHasSD      bool

	xmlMatch int

	matchTarget string
	matchIdx    int
}

// NewScanner creates a Scanner positioned at the start of a document.
func NewScanner() *Scanner {
	return &Scanner{state: stProlog}
}

func scanErr(code ErrorCode, format string, args ...interface{}) error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func lower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// Resettable reports whether the Scanner is at a token boundary where no
// stored offset refers to a byte earlier than the current position, so the
// Reader may safely call ResetPosition to compact its buffer. Content-like
// runs (text, CDATA, comments, PI data) are resettable too, but only once
// their pending span has been flushed with FlushText: otherwise compacting
// would discard bytes the next Token still needs.
func (s *Scanner) Resettable() bool {
	switch s.state {
	case stProlog, stMisc, stEpilog, stDone, stAttrListSpace:
		return true
	case stContent:
		return s.pos == s.literalFrom
	case stCDATABody, stCDATABracket1, stCDATABracket2, stCommentBody, stCommentDash1, stCommentDash2, stPIData, stPIDataQ:
		return s.pos == s.tokStart
	}
	return false
}

// InAttributeValue reports whether the Scanner is currently scanning the
// literal run of an attribute value, so the Reader knows when to apply
// attribute-value whitespace normalization to the codepoints it feeds.
func (s *Scanner) InAttributeValue() bool {
	return s.state == stAttrValue
}

// FlushText reports the text accumulated so far in an in-progress content,
// CDATA, comment, or PI-data run without ending the run, letting the
// Reader split a run that would otherwise overflow the buffer into several
// consecutive nodes of the same kind (spec.md §4.4's "Backpressure / buffer
// overflow"). ok is false if the Scanner is not in a splittable run, or the
// run so far is empty.
func (s *Scanner) FlushText() (tok ScanToken, ok bool) {
	switch s.state {
	case stContent:
		if s.pos <= s.literalFrom {
			return nil, false
		}
		tok = TextToken{Range: Range{s.literalFrom, s.pos}}
		s.literalFrom = s.pos
	case stCDATABody, stCDATABracket1, stCDATABracket2:
		if s.pos <= s.tokStart {
			return nil, false
		}
		tok = CDATAToken{Range: Range{s.tokStart, s.pos}}
		s.tokStart = s.pos
	case stCommentBody, stCommentDash1, stCommentDash2:
		if s.pos <= s.tokStart {
			return nil, false
		}
		tok = CommentToken{Range: Range{s.tokStart, s.pos}}
		s.tokStart = s.pos
	case stPIData, stPIDataQ:
		if s.pos <= s.tokStart {
			return nil, false
		}
		tok = PIToken{Target: Range{s.nameStart, s.nameEnd}, Data: Range{s.tokStart, s.pos}}
		s.tokStart = s.pos
	default:
		return nil, false
	}
	return tok, true
}

// ResetPosition shifts the origin of all of the Scanner's internal offsets
// back to zero. The Reader calls this after compacting its buffer; it must
// only do so when Resettable reports true.
func (s *Scanner) ResetPosition() {
	shift := s.pos
	s.pos -= shift
	s.tokStart -= shift
	s.nameStart -= shift
	s.nameEnd -= shift
	s.literalFrom -= shift
}

// EndInput signals that no more bytes are available. It is only valid when
// the Scanner has reached a well-formed document boundary: the epilog after
// the root element (or a repeated EndInput after that). Empty input, or
// input holding no root element, is ErrUnexpectedEndOfInput.
func (s *Scanner) EndInput() error {
	switch s.state {
	case stDone, stEpilog:
		s.state = stDone
		return nil
	default:
		return scanErr(ErrUnexpectedEndOfInput, "unexpected end of input")
	}
}

// Next feeds one decoded codepoint, whose UTF-8 encoding occupies size
// bytes starting at the Scanner's current position, into the state
// machine.
func (s *Scanner) Next(cp rune, size int) (ScanToken, error) {
	pos := s.pos
	tok, err := s.step(cp, pos, size)
	s.pos += size
	if tok != nil {
		s.seenFirstToken = true
	}
	return tok, err
}

func (s *Scanner) step(cp rune, pos int, size int) (ScanToken, error) {
	switch s.state {

	case stProlog, stMisc:
		return s.stepMisc(cp, pos)
	case stEpilog:
		return s.stepEpilog(cp, pos)
	case stDone:
		return nil, scanErr(ErrSyntaxError, "unexpected content after end of document")

	case stLt:
		return s.stepLt(cp, pos)
	case stBangOpen:
		return s.stepBangOpen(cp)
	case stBangDash:
		if cp != '-' {
			return nil, scanErr(ErrSyntaxError, "expected '--' to open a comment")
		}
		s.state = stCommentBody
		s.tokStart = pos + 1
		return nil, nil
	case stCommentBody:
		if cp == '-' {
			s.state = stCommentDash1
			return nil, nil
		}
		if !IsChar(cp) {
			return nil, scanErr(ErrSyntaxError, "invalid XML character in comment")
		}
		return nil, nil
	case stCommentDash1:
		if cp == '-' {
			s.state = stCommentDash2
			return nil, nil
		}
		s.state = stCommentBody
		return nil, nil
	case stCommentDash2:
		if cp == '>' {
			return s.afterMarkup(CommentToken{Range: Range{s.tokStart, pos - 2}}, pos+1)
		}
		return nil, scanErr(ErrSyntaxError, "comments must not contain '--'")

	case stCDATAMatch:
		if rune(cdataTarget[s.matchIdx]) != cp {
			return nil, scanErr(ErrSyntaxError, "malformed '<![CDATA[' section")
		}
		s.matchIdx++
		if s.matchIdx == len(cdataTarget) {
			s.state = stCDATABody
			s.tokStart = pos + 1
		}
		return nil, nil
	case stCDATABody:
		if cp == ']' {
			s.state = stCDATABracket1
			return nil, nil
		}
		if !IsChar(cp) {
			return nil, scanErr(ErrSyntaxError, "invalid XML character in CDATA section")
		}
		return nil, nil
	case stCDATABracket1:
		if cp == ']' {
			s.state = stCDATABracket2
			return nil, nil
		}
		s.state = stCDATABody
		return nil, nil
	case stCDATABracket2:
		if cp == '>' {
			return s.afterMarkup(CDATAToken{Range: Range{s.tokStart, pos - 2}}, pos+1)
		}
		if cp != ']' {
			s.state = stCDATABody
		}
		return nil, nil

	case stDoctypeMatch:
		if rune(doctypeTarget[s.matchIdx]) != cp {
			return nil, scanErr(ErrSyntaxError, "malformed markup declaration")
		}
		s.matchIdx++
		if s.matchIdx == len(doctypeTarget) {
			return nil, scanErr(ErrDoctypeUnsupported, "DOCTYPE declarations are not supported")
		}
		return nil, nil

	case stPIAfterQ:
		if !IsNameStartChar(cp) {
			return nil, scanErr(ErrSyntaxError, "expected a processing instruction target")
		}
		s.nameStart = pos
		s.xmlMatch = 0
		s.state = stPITarget
		return s.matchXMLTargetChar(cp, pos)
	case stPITarget:
		if IsNameChar(cp) {
			return s.matchXMLTargetChar(cp, pos)
		}
		return s.endPITarget(cp, pos)
	case stPITargetSpace:
		if IsWhitespace(cp) {
			return nil, nil
		}
		if cp == '?' {
			s.state = stPIDataQ
			s.tokStart = pos
			return nil, nil
		}
		s.state = stPIData
		s.tokStart = pos
		return nil, nil
	case stPIData:
		if cp == '?' {
			s.state = stPIDataQ
			return nil, nil
		}
		if !IsChar(cp) {
			return nil, scanErr(ErrSyntaxError, "invalid XML character in processing instruction")
		}
		return nil, nil
	case stPIDataQ:
		if cp == '>' {
			end := pos - 1
			if end < s.tokStart {
				end = s.tokStart
			}
			return s.afterMarkup(PIToken{Target: Range{s.nameStart, s.nameEnd}, Data: Range{s.tokStart, end}}, pos+1)
		}
		s.state = stPIData
		return nil, nil

	case stXMLDeclName:
		if IsWhitespace(cp) {
			return nil, nil
		}
		if cp == '?' {
			return nil, s.finishXMLDecl()
		}
		if !IsNameStartChar(cp) {
			return nil, scanErr(ErrSyntaxError, "expected 'version', 'encoding', or 'standalone'")
		}
		s.declMatcher = newLiteralMatcher("version", "encoding", "standalone")
		s.declMatcher.feed(cp)
		s.state = stXMLDeclNameRest
		return nil, nil
	case stXMLDeclNameRest:
		if IsNameChar(cp) {
			s.declMatcher.feed(cp)
			return nil, nil
		}
		name, ok := s.declMatcher.result()
		if !ok {
			return nil, scanErr(ErrSyntaxError, "unexpected attribute in XML declaration")
		}
		s.declAttr = name
		if IsWhitespace(cp) {
			s.state = stXMLDeclEq
			return nil, nil
		}
		if cp == '=' {
			s.state = stXMLDeclValueOpen
			return nil, nil
		}
		return nil, scanErr(ErrSyntaxError, "expected '=' after XML declaration attribute name")
	case stXMLDeclEq:
		if IsWhitespace(cp) {
			return nil, nil
		}
		if cp != '=' {
			return nil, scanErr(ErrSyntaxError, "expected '=' in XML declaration")
		}
		s.state = stXMLDeclValueOpen
		return nil, nil
	case stXMLDeclValueOpen:
		if IsWhitespace(cp) {
			return nil, nil
		}
		if cp != '\'' && cp != '"' {
			return nil, scanErr(ErrSyntaxError, "expected a quoted value in XML declaration")
		}
		s.quote = cp
		s.tokStart = pos + size
		if s.declAttr == "standalone" {
			s.declValMatcher = newLiteralMatcher("yes", "no")
		}
		s.state = stXMLDeclValue
		return nil, nil
	case stXMLDeclValue:
		if cp == s.quote {
			return nil, s.endXMLDeclValue(pos)
		}
		if s.declAttr == "standalone" {
			s.declValMatcher.feed(cp)
		}
		if !IsPubidChar(cp) {
			return nil, scanErr(ErrSyntaxError, "invalid character in XML declaration value")
		}
		return nil, nil
	case stXMLDeclAfterValue:
		if IsWhitespace(cp) {
			s.state = stXMLDeclName
			return nil, nil
		}
		if cp == '?' {
			return nil, s.finishXMLDecl()
		}
		return nil, scanErr(ErrSyntaxError, "expected whitespace or '?>' in XML declaration")
	case stXMLDeclGT:
		if cp != '>' {
			return nil, scanErr(ErrSyntaxError, "expected '>' to close XML declaration")
		}
		tok := XMLDeclToken{
			Version:       s.declVersion,
			Encoding:      s.declEncoding,
			HasEncoding:   s.declHasEnc,
			Standalone:    s.declStandalone,
			HasStandalone: s.declHasSD,
		}
		s.state = stMisc
		return tok, nil

	case stEndTagName:
		if IsNameChar(cp) {
			return nil, nil
		}
		s.nameEnd = pos
		if IsWhitespace(cp) {
			s.state = stEndTagSpace
			return nil, nil
		}
		if cp == '>' {
			return s.closeEndTag(pos, size)
		}
		return nil, scanErr(ErrSyntaxError, "expected '>' to close end tag")
	case stEndTagSpace:
		if IsWhitespace(cp) {
			return nil, nil
		}
		if cp == '>' {
			return s.closeEndTag(pos, size)
		}
		return nil, scanErr(ErrSyntaxError, "expected '>' to close end tag")

	case stElementName:
		if IsNameChar(cp) {
			return nil, nil
		}
		s.nameEnd = pos
		return s.afterElementName(cp, pos)
	case stAttrListSpace:
		return s.stepAttrListSpace(cp, pos)
	case stSelfCloseSlash:
		if cp != '>' {
			return nil, scanErr(ErrSyntaxError, "expected '>' after '/' in self-closing tag")
		}
		s.depth--
		var next ScanToken = ElementStartEndToken{Empty: true}
		if s.depth == 0 {
			s.rootDone = true
			s.state = stEpilog
		} else {
			s.state = stContent
			s.literalFrom = pos + 1
		}
		return next, nil
	case stAttrName:
		if IsNameChar(cp) {
			return nil, nil
		}
		s.nameEnd = pos
		if IsWhitespace(cp) {
			s.state = stAttrEq
			return nil, nil
		}
		if cp == '=' {
			s.state = stAttrValueOpen
			return nil, nil
		}
		return nil, scanErr(ErrSyntaxError, "expected '=' after attribute name")
	case stAttrEq:
		if IsWhitespace(cp) {
			return nil, nil
		}
		if cp != '=' {
			return nil, scanErr(ErrSyntaxError, "expected '=' after attribute name")
		}
		s.state = stAttrValueOpen
		return nil, nil
	case stAttrValueOpen:
		if IsWhitespace(cp) {
			return nil, nil
		}
		if cp != '\'' && cp != '"' {
			return nil, scanErr(ErrSyntaxError, "expected a quoted attribute value")
		}
		s.quote = cp
		s.literalFrom = pos + size
		s.pieces = s.pieces[:0]
		s.state = stAttrValue
		return nil, nil
	case stAttrValue:
		return s.stepAttrValue(cp, pos)
	case stAttrRefAmp:
		if cp == '#' {
			s.state = stAttrCharRefIntro
			return nil, nil
		}
		if !IsNameStartChar(cp) {
			return nil, scanErr(ErrSyntaxError, "expected an entity name after '&'")
		}
		// nameStart/nameEnd still hold the attribute's own name here, so
		// the entity name's start goes in tokStart instead.
		s.tokStart = pos
		s.state = stAttrRefName
		return nil, nil
	case stAttrRefName:
		if IsNameChar(cp) {
			return nil, nil
		}
		if cp != ';' {
			return nil, scanErr(ErrSyntaxError, "expected ';' to end entity reference")
		}
		s.pieces = append(s.pieces, ValuePiece{Kind: ValueEntityRef, Range: Range{s.tokStart, pos}})
		s.literalFrom = pos + size
		s.state = stAttrValue
		return nil, nil
	case stAttrCharRefIntro:
		if cp == 'x' {
			s.refHex, s.refDigits = true, s.refDigits[:0]
			s.state = stAttrCharRefHex
			return nil, nil
		}
		s.refHex, s.refDigits = false, s.refDigits[:0]
		s.state = stAttrCharRefDec
		return s.stepAttrCharRefDigit(cp, pos, size)
	case stAttrCharRefDec, stAttrCharRefHex:
		return s.stepAttrCharRefDigit(cp, pos, size)

	case stContent:
		return s.stepContent(cp, pos, size)
	case stTextRefAmp:
		if cp == '#' {
			s.state = stTextCharRefIntro
			return nil, nil
		}
		if !IsNameStartChar(cp) {
			return nil, scanErr(ErrSyntaxError, "expected an entity name after '&'")
		}
		s.nameStart = pos
		s.state = stTextRefName
		return nil, nil
	case stTextRefName:
		if IsNameChar(cp) {
			return nil, nil
		}
		if cp != ';' {
			return nil, scanErr(ErrSyntaxError, "expected ';' to end entity reference")
		}
		s.nameEnd = pos
		s.state = stContent
		s.literalFrom = pos + size
		return EntityRefToken{Name: Range{s.nameStart, s.nameEnd}}, nil
	case stTextCharRefIntro:
		if cp == 'x' {
			s.refHex, s.refDigits = true, s.refDigits[:0]
			s.state = stTextCharRefHex
			return nil, nil
		}
		s.refHex, s.refDigits = false, s.refDigits[:0]
		s.state = stTextCharRefDec
		return s.stepTextCharRefDigit(cp, pos, size)
	case stTextCharRefDec, stTextCharRefHex:
		return s.stepTextCharRefDigit(cp, pos, size)
	}
	return nil, scanErr(ErrSyntaxError, "scanner reached an unreachable state")
}

// afterMarkup is shared by every construct (comment, PI, CDATA) whose
// completion returns control to whichever "bare" state precedes and
// follows it: content inside the root element, misc before it, epilog
// after it.
func (s *Scanner) afterMarkup(tok ScanToken, next int) (ScanToken, error) {
	switch {
	case s.depth > 0:
		s.state = stContent
		s.literalFrom = next
	case s.rootDone:
		s.state = stEpilog
	default:
		s.state = stMisc
	}
	return tok, nil
}

func (s *Scanner) stepMisc(cp rune, pos int) (ScanToken, error) {
	if IsWhitespace(cp) {
		return nil, nil
	}
	if cp == '<' {
		s.tokStart = pos
		s.state = stLt
		return nil, nil
	}
	return nil, scanErr(ErrSyntaxError, "expected '<' to begin a comment, processing instruction, or element")
}

func (s *Scanner) stepEpilog(cp rune, pos int) (ScanToken, error) {
	if IsWhitespace(cp) {
		return nil, nil
	}
	if cp == '<' {
		s.tokStart = pos
		s.state = stLt
		return nil, nil
	}
	return nil, scanErr(ErrSyntaxError, "only comments and processing instructions are allowed after the root element")
}

func (s *Scanner) stepLt(cp rune, pos int) (ScanToken, error) {
	switch {
	case cp == '?':
		s.state = stPIAfterQ
		return nil, nil
	case cp == '!':
		s.state = stBangOpen
		return nil, nil
	case cp == '/':
		if s.depth == 0 {
			return nil, scanErr(ErrSyntaxError, "end tag with no matching start tag")
		}
		s.nameStart = pos + 1
		s.state = stEndTagName
		return nil, nil
	case IsNameStartChar(cp):
		if s.depth == 0 && s.rootDone {
			return nil, scanErr(ErrSyntaxError, "only one root element is allowed")
		}
		s.nameStart = pos
		s.state = stElementName
		return nil, nil
	default:
		return nil, scanErr(ErrSyntaxError, "expected an element name")
	}
}

func (s *Scanner) stepBangOpen(cp rune) (ScanToken, error) {
	switch cp {
	case '-':
		s.state = stBangDash
	case '[':
		s.matchTarget, s.matchIdx = cdataTarget, 0
		s.state = stCDATAMatch
	case 'D':
		s.matchTarget, s.matchIdx = doctypeTarget, 1
		s.state = stDoctypeMatch
	default:
		return nil, scanErr(ErrSyntaxError, "expected a comment, CDATA section, or DOCTYPE after '<!'")
	}
	return nil, nil
}

// matchXMLTargetChar tracks whether a PI target is exactly "xml"
// case-insensitively, one NameChar at a time.
func (s *Scanner) matchXMLTargetChar(cp rune, pos int) (ScanToken, error) {
	idx := pos - s.nameStart
	if s.xmlMatch >= 0 {
		if idx < 3 && lower(cp) == rune("xml"[idx]) {
			s.xmlMatch = idx + 1
		} else {
			s.xmlMatch = -1
		}
	}
	return nil, nil
}

func (s *Scanner) endPITarget(cp rune, pos int) (ScanToken, error) {
	s.nameEnd = pos
	isXML := s.xmlMatch == 3 && (s.nameEnd-s.nameStart) == 3
	if isXML && !s.seenFirstToken && IsWhitespace(cp) {
		// "<?xml" followed by whitespace, and nothing has been scanned
		// yet: this is the XML declaration, not a processing instruction.
		s.state = stXMLDeclName
		return nil, nil
	}
	if isXML {
		return nil, scanErr(ErrInvalidPiTarget, "processing instruction target 'xml' is reserved")
	}
	if IsWhitespace(cp) {
		s.state = stPITargetSpace
		return nil, nil
	}
	if cp == '?' {
		s.state = stPIDataQ
		s.tokStart = pos
		return nil, nil
	}
	return nil, scanErr(ErrSyntaxError, "expected whitespace or '?>' after processing instruction target")
}

func (s *Scanner) finishXMLDecl() error {
	if !s.declHasVersion {
		return scanErr(ErrSyntaxError, "XML declaration must specify a version")
	}
	s.state = stXMLDeclGT
	return nil
}

func (s *Scanner) endXMLDeclValue(pos int) error {
	val := Range{s.tokStart, pos}
	switch s.declAttr {
	case "version":
		if s.declHasVersion {
			return scanErr(ErrSyntaxError, "duplicate version in XML declaration")
		}
		s.declVersion, s.declHasVersion = val, true
	case "encoding":
		if s.declHasEnc {
			return scanErr(ErrSyntaxError, "duplicate encoding in XML declaration")
		}
		s.declEncoding, s.declHasEnc = val, true
	case "standalone":
		if s.declHasSD {
			return scanErr(ErrSyntaxError, "duplicate standalone in XML declaration")
		}
		name, ok := s.declValMatcher.result()
		if !ok {
			return scanErr(ErrSyntaxError, "standalone must be 'yes' or 'no'")
		}
		s.declStandalone, s.declHasSD = name == "yes", true
	}
	s.state = stXMLDeclAfterValue
	return nil
}

func (s *Scanner) afterElementName(cp rune, pos int) (ScanToken, error) {
	tok := ElementStartToken{Name: Range{s.nameStart, s.nameEnd}}
	switch {
	case IsWhitespace(cp):
		s.state = stAttrListSpace
	case cp == '/':
		s.depth++
		s.state = stSelfCloseSlash
	case cp == '>':
		s.depth++
		s.state = stContent
		s.literalFrom = pos + 1
	default:
		return nil, scanErr(ErrSyntaxError, "expected whitespace, '/', or '>' after element name")
	}
	return tok, nil
}

func (s *Scanner) stepAttrListSpace(cp rune, pos int) (ScanToken, error) {
	if IsWhitespace(cp) {
		return nil, nil
	}
	switch {
	case cp == '>':
		s.depth++
		s.state = stContent
		s.literalFrom = pos + 1
		return ElementStartEndToken{Empty: false}, nil
	case cp == '/':
		s.depth++
		s.state = stSelfCloseSlash
		return nil, nil
	case IsNameStartChar(cp):
		s.nameStart = pos
		s.state = stAttrName
		return nil, nil
	default:
		return nil, scanErr(ErrSyntaxError, "expected an attribute, '/', or '>'")
	}
}

func (s *Scanner) closeEndTag(pos, size int) (ScanToken, error) {
	s.depth--
	if s.depth < 0 {
		return nil, scanErr(ErrSyntaxError, "end tag with no matching start tag")
	}
	tok := ElementEndToken{Name: Range{s.nameStart, s.nameEnd}}
	if s.depth == 0 {
		s.rootDone = true
		s.state = stEpilog
	} else {
		s.state = stContent
		s.literalFrom = pos + size
	}
	return tok, nil
}

func (s *Scanner) stepAttrValue(cp rune, pos int) (ScanToken, error) {
	switch {
	case cp == s.quote:
		if pos > s.literalFrom {
			s.pieces = append(s.pieces, ValuePiece{Kind: ValueLiteral, Range: Range{s.literalFrom, pos}})
		}
		tok := AttributeToken{Name: Range{s.nameStart, s.nameEnd}, Value: append([]ValuePiece(nil), s.pieces...)}
		s.state = stAttrListSpace
		return tok, nil
	case cp == '<':
		return nil, scanErr(ErrSyntaxError, "'<' is not allowed in an attribute value")
	case cp == '&':
		if pos > s.literalFrom {
			s.pieces = append(s.pieces, ValuePiece{Kind: ValueLiteral, Range: Range{s.literalFrom, pos}})
		}
		s.state = stAttrRefAmp
		return nil, nil
	default:
		if !IsChar(cp) {
			return nil, scanErr(ErrSyntaxError, "invalid XML character in attribute value")
		}
		return nil, nil
	}
}

func isRefDigit(cp rune, hex bool) bool {
	if cp >= '0' && cp <= '9' {
		return true
	}
	if !hex {
		return false
	}
	return (cp >= 'a' && cp <= 'f') || (cp >= 'A' && cp <= 'F')
}

func (s *Scanner) stepAttrCharRefDigit(cp rune, pos int, size int) (ScanToken, error) {
	if cp == ';' {
		cpv, err := parseCharRefDigits(string(s.refDigits), s.refHex)
		if err != nil {
			return nil, err
		}
		s.pieces = append(s.pieces, ValuePiece{Kind: ValueCharRef, Codepoint: cpv})
		s.literalFrom = pos + size
		s.state = stAttrValue
		return nil, nil
	}
	if !isRefDigit(cp, s.refHex) {
		return nil, scanErr(ErrSyntaxError, "invalid digit in character reference")
	}
	s.refDigits = append(s.refDigits, byte(cp))
	return nil, nil
}

func (s *Scanner) stepTextCharRefDigit(cp rune, pos int, size int) (ScanToken, error) {
	if cp == ';' {
		cpv, err := parseCharRefDigits(string(s.refDigits), s.refHex)
		if err != nil {
			return nil, err
		}
		s.state = stContent
		s.literalFrom = pos + size
		return CharRefToken{Codepoint: cpv}, nil
	}
	if !isRefDigit(cp, s.refHex) {
		return nil, scanErr(ErrSyntaxError, "invalid digit in character reference")
	}
	s.refDigits = append(s.refDigits, byte(cp))
	return nil, nil
}

func (s *Scanner) stepContent(cp rune, pos int, size int) (ScanToken, error) {
	switch cp {
	case '<':
		var tok ScanToken
		if pos > s.literalFrom {
			tok = TextToken{Range: Range{s.literalFrom, pos}}
		}
		s.tokStart = pos
		s.state = stLt
		return tok, nil
	case '&':
		var tok ScanToken
		if pos > s.literalFrom {
			tok = TextToken{Range: Range{s.literalFrom, pos}}
		}
		s.state = stTextRefAmp
		return tok, nil
	default:
		if !IsChar(cp) {
			return nil, scanErr(ErrSyntaxError, "invalid XML character in content")
		}
		return nil, nil
	}
}
