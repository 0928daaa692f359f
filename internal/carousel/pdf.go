package carousel

import (
	"bytes"
	"regexp"
)

var pdfPagePattern = regexp.MustCompile(`/Type\s*/Page[^s]`)

// countPDFPages estimates a PDF's page count by scanning for page object
// markers. It is a heuristic for sizing the placeholder import; it never
// claims to rasterize anything.
func countPDFPages(data []byte) int {
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return 0
	}
	n := len(pdfPagePattern.FindAll(data, -1))
	// A page marker at the very end of the buffer has no trailing byte for
	// the pattern to consume.
	if bytes.HasSuffix(bytes.TrimRight(data, "\r\n \t"), []byte("/Type /Page")) {
		n++
	}
	return n
}
