// Package docxtext extracts plain text from OOXML word-processing documents.
// It wraps the external parser so callers depend on a single function contract
// rather than the library's document model.
package docxtext

import (
	"bytes"
	"fmt"
	"strings"

	docx "github.com/fumiama/go-docx"
)

// Extract returns the concatenated paragraph and table text of the document.
// Malformed input yields an error; the document is never partially extracted.
func Extract(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse word document: %w", err)
	}

	var b strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch item.(type) {
		case *docx.Paragraph, *docx.Table:
			fmt.Fprintln(&b, item)
		}
	}

	return strings.TrimSpace(b.String()), nil
}
