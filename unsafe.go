package goxml

import "unsafe"

// unsafeString performs an _unsafe_ no-copy string conversion from buf.
// https://github.com/golang/go/issues/25484 has more info on this.
//
// The Reader uses this to hand back Range contents as strings without
// copying, on the understanding that callers must not retain a returned
// string past the next call that mutates the Reader's buffer (compaction
// or further reads can move or overwrite the bytes it aliases).
func unsafeString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}
