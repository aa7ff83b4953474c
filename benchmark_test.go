package goxml

import (
	"strings"
	"testing"
)

const benchDoc = `<?xml version="1.0" encoding="UTF-8"?>
<catalog xmlns="urn:catalog">
  <book id="1" available="true">
    <title>The Go Programming Language</title>
    <author>Donovan &amp; Kernighan</author>
  </book>
  <book id="2" available="false">
    <title>The Rust Programming Language</title>
    <author>Klabnik &amp; Nichols</author>
  </book>
</catalog>`

func Benchmark_Reader_Read(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r := NewReader(strings.NewReader(benchDoc))
		for {
			kind, err := r.Read()
			if err != nil || kind == NodeEOF {
				break
			}
		}
	}
}
