// Command goxmllint checks whether its input is well-formed XML, printing a
// line/column diagnostic and exiting non-zero if it is not. Grounded on the
// plain flag-and-log.Fatal shape of the pack's own CLI entry points (see
// ucarion-c14n's cmd/c14n).
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mkbeh/goxml"
)

func main() {
	namespaceAware := flag.Bool("ns", true, "resolve element and attribute names against XML Namespaces")
	bufferCapacity := flag.Int("buffer", 4096, "internal buffer capacity, in bytes")
	flag.Parse()

	var src io.Reader = os.Stdin
	if path := flag.Arg(0); path != "" {
		f, err := os.Open(path)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		src = f
	}

	r := goxml.NewReaderConfig(src, goxml.ReaderConfig{
		BufferCapacity: *bufferCapacity,
		NamespaceAware: *namespaceAware,
	})

	depth := 0
	for {
		kind, err := r.Read()
		if err != nil {
			loc := r.ErrorLocation()
			fmt.Fprintf(os.Stderr, "%s: %s at line %d, column %d\n", flag.Arg(0), r.ErrorCode(), loc.Line, loc.Column)
			os.Exit(1)
		}
		switch kind {
		case goxml.NodeEOF:
			if depth != 0 {
				log.Fatal("goxml: reached end of input with elements still open")
			}
			fmt.Fprintln(os.Stderr, "well-formed")
			return
		case goxml.NodeElementStart:
			depth++
		case goxml.NodeElementEnd:
			depth--
		}
	}
}
