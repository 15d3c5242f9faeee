package constant

// PredefinedDocument describes one entry of the fixed reference catalog shown
// in the selection panel. Locator is relative to the predefined folder of the
// storage bucket; FallbackText is used when the stored file cannot be fetched
// or parsed, so enrichment still has something to inline.
type PredefinedDocument struct {
	ID           string
	DisplayName  string
	Icon         string
	Locator      string
	FallbackText string
}

var PredefinedCatalog = []PredefinedDocument{
	{
		ID:          "1",
		DisplayName: "Market Analysis Report",
		Icon:        "📊",
		Locator:     "market-analysis-report.pdf",
		FallbackText: "Strategy Guide 1: This document covers the fundamentals of strategic planning, " +
			"including SWOT analysis, competitive positioning, and market evaluation techniques.",
	},
	{
		ID:          "2",
		DisplayName: "Competitive Landscape Guide",
		Icon:        "🔍",
		Locator:     "competitive-landscape-guide.pdf",
		FallbackText: "Best Practices: A compilation of industry best practices for strategy execution, " +
			"including team organization, milestone tracking, and performance indicators.",
	},
	{
		ID:          "3",
		DisplayName: "Strategic Planning Template",
		Icon:        "📝",
		Locator:     "strategic-planning-template.pdf",
		FallbackText: "Case Studies: In-depth analysis of successful strategic implementations in various " +
			"industries, with lessons learned and actionable takeaways.",
	},
}
