package storage

import "testing"

func TestDisplayName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"market-analysis-report.pdf", "Market Analysis Report"},
		{"competitive_landscape_guide.pdf", "Competitive Landscape Guide"},
		{"mixed-separators_doc.pdf", "Mixed Separators Doc"},
		{"single.pdf", "Single"},
		{"noextension", "Noextension"},
		{"UPPER-case.PDF", "UPPER Case"},
		{"double--dash.pdf", "Double Dash"},
		{".hidden", ".hidden"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := DisplayName(tt.raw); got != tt.want {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
