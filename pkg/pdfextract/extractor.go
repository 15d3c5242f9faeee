// Package pdfextract pulls plain text out of PDF files for prompt enrichment.
package pdfextract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extract returns the document's text page by page, each page preceded by a
// "--- Page N ---" delimiter. Extraction never returns an error: on any parse
// failure the error message itself is returned as the text, so enrichment can
// still inline something instead of aborting the turn.
func Extract(data []byte) string {
	text, err := extract(data)
	if err != nil {
		return fmt.Sprintf("Error extracting text: %v", err)
	}
	return text
}

func extract(data []byte) (text string, err error) {
	// The parser panics on some malformed files; contain it.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not discard the rest.
			pageText = fmt.Sprintf("[unreadable page: %v]", err)
		}

		sb.WriteString(fmt.Sprintf("\n--- Page %d ---\n", i))
		sb.WriteString(pageText)
	}

	return sb.String(), nil
}
