package pdfextract

import (
	"strings"
	"testing"
)

func TestExtractInvalidBytes(t *testing.T) {
	got := Extract([]byte("definitely not a pdf"))
	if !strings.HasPrefix(got, "Error extracting text:") {
		t.Errorf("Extract on garbage = %q, want embedded error string", got)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	got := Extract(nil)
	if !strings.HasPrefix(got, "Error extracting text:") {
		t.Errorf("Extract on empty input = %q, want embedded error string", got)
	}
}
