package goxml

import (
	"strings"

	"github.com/mkbeh/goxml/internal/nsstack"
)

// XMLNamespaceURI and XMLNSNamespaceURI are the two namespace URIs XML
// Namespaces 1.0 reserves: the first is the only URI the "xml" prefix may
// be bound to, and the second may never be declared by any prefix.
const (
	XMLNamespaceURI  = "http://www.w3.org/XML/1998/namespace"
	XMLNSNamespaceURI = "http://www.w3.org/2000/xmlns/"
)

// splitQName splits a Name on its first colon, returning ("", name) for an
// unprefixed name. Grounded on the teacher's Name() helper (name.go),
// generalized from byte slices to decoded strings and from "return
// whatever's around the colon" to the validated split namespace.go needs.
func splitQName(name string) (prefix, local string) {
	if idx := strings.IndexByte(name, ':'); idx >= 0 {
		return name[:idx], name[idx+1:]
	}
	return "", name
}

// validateQName checks that name has exactly one colon with non-empty,
// NCName-valid parts on both sides, or no colon at all with an NCName-valid
// whole. Per spec.md §4.5 step 5.
func validateQName(name string) (prefix, local string, err error) {
	idx := strings.IndexByte(name, ':')
	if idx < 0 {
		if !isNCName(name) {
			return "", "", scanErr(ErrInvalidQName, "%q is not a valid Name", name)
		}
		return "", name, nil
	}
	if strings.IndexByte(name[idx+1:], ':') >= 0 {
		return "", "", scanErr(ErrInvalidQName, "%q contains more than one colon", name)
	}
	prefix, local = name[:idx], name[idx+1:]
	if !isNCName(prefix) || !isNCName(local) {
		return "", "", scanErr(ErrInvalidQName, "%q is not a valid qualified name", name)
	}
	return prefix, local, nil
}

// resolveName resolves a validated (prefix, local) pair against the
// namespace scope stack, applying §4.5's rules: an unprefixed attribute
// has no namespace; an unprefixed element uses the default namespace, if
// any; "xml" resolves to the fixed namespace without a scope lookup.
func resolveName(ns *nsstack.Stack, prefix, local string, isAttr bool) (ResolvedName, error) {
	if prefix == "xml" {
		return ResolvedName{Prefix: prefix, NamespaceURI: XMLNamespaceURI, Local: local}, nil
	}
	if prefix == "xmlns" || (prefix == "" && local == "xmlns") {
		return ResolvedName{}, scanErr(ErrInvalidNsBinding, "the xmlns prefix may not be used as an element or attribute name")
	}
	if prefix == "" {
		if isAttr {
			return ResolvedName{Local: local}, nil
		}
		if uri, ok := ns.Lookup(""); ok {
			return ResolvedName{NamespaceURI: uri, Local: local}, nil
		}
		return ResolvedName{Local: local}, nil
	}
	uri, ok := ns.Lookup(prefix)
	if !ok {
		return ResolvedName{}, scanErr(ErrUndeclaredNsPrefix, "prefix %q is not bound", prefix)
	}
	return ResolvedName{Prefix: prefix, NamespaceURI: uri, Local: local}, nil
}

// validateNsDeclaration enforces §4.5 step 4's binding restrictions for an
// xmlns/xmlns:prefix declaration with the given (possibly empty) prefix and
// target URI.
func validateNsDeclaration(prefix, uri string) error {
	if prefix == "xml" {
		if uri != XMLNamespaceURI {
			return scanErr(ErrInvalidNsBinding, "the xml prefix may only be bound to %s", XMLNamespaceURI)
		}
		return nil
	}
	if prefix == "xmlns" {
		return scanErr(ErrInvalidNsBinding, "the xmlns prefix may not be declared")
	}
	if uri == XMLNamespaceURI {
		return scanErr(ErrInvalidNsBinding, "%s may only be bound to the xml prefix", XMLNamespaceURI)
	}
	if uri == XMLNSNamespaceURI {
		return scanErr(ErrInvalidNsBinding, "%s may not be bound to any prefix", XMLNSNamespaceURI)
	}
	if prefix != "" && uri == "" {
		return scanErr(ErrCannotUndeclareNsPrefix, "xmlns:%s=\"\" is not well-formed", prefix)
	}
	return nil
}
