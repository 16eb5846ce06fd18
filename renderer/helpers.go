// Package renderer turns ledger queries into markdown for the terminal.
package renderer

import (
	"bytes"
	"io"
)

// ConditionalBlock lets you fully write a block and decide at the end
// whether to print it. If the block function returns true, the content
// is copied to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// check marks paid/settled states in tables.
func check(b bool) string {
	if b {
		return "X"
	}
	return " "
}
