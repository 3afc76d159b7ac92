package workflow

import (
	"fmt"
	"strings"
	"time"
)

// buildAnalysisPrompt asks the model to cross-reference the raw findings.
func buildAnalysisPrompt(target, googleData, socialData string, now time.Time) string {
	currentDate := now.Format("2006-01-02")

	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyze and correlate all gathered intelligence on: %s\n\n", target)
	fmt.Fprintf(&sb, "IMPORTANT: Today's date is %s. Use this to validate any dates found in the data. Flag dates that are in the future as potential errors.\n\n", currentDate)
	sb.WriteString(`CRITICAL ANALYSIS RULES:
- Do NOT extrapolate patterns from single data points
- Do NOT claim "consistent themes" unless you have 3+ examples
- Always specify sample size when making behavioral claims
- Use phrases like "single example suggests" instead of "consistent pattern"
- Flag insufficient data clearly in your analysis

Your objectives:
1. Cross-reference findings from Google and social media searches
2. Identify patterns in usernames, emails, posting behavior
3. Build connections between different profiles and identities
4. Assess confidence levels for each connection
5. Flag any inconsistencies or conflicting information
6. Create a timeline of digital activity
7. Identify gaps in information that need further investigation

`)
	fmt.Fprintf(&sb, "GOOGLE SEARCH FINDINGS:\n%s\n\n", googleData)
	fmt.Fprintf(&sb, "SOCIAL MEDIA FINDINGS:\n%s\n\n", socialData)
	sb.WriteString(`Provide an analytical report containing:
- Correlation matrix showing connections between findings
- Pattern analysis (usernames, emails, behaviors)
- Timeline of digital activity (with date validation)
- Confidence-scored profile of the target
- List of verified facts vs. probable information
- Recommendations for additional investigation`)

	return sb.String()
}

// buildReportPrompt asks the model for the final narrative report. The
// analyticsSummary is the serialized output of the analytics engine; empty
// when both analysis flags were disabled.
func buildReportPrompt(target, googleData, socialData, analysis, analyticsSummary string, now time.Time) string {
	currentDate := now.Format("January 2, 2006")

	var sb strings.Builder
	fmt.Fprintf(&sb, "Create a comprehensive OSINT investigation report on: %s\n\n", target)
	fmt.Fprintf(&sb, "IMPORTANT METADATA:\n- Report Generation Date: %s\n- Data Collection Date: %s\n", currentDate, currentDate)
	sb.WriteString(`- Investigation Status: Assess whether ongoing monitoring is recommended or investigation is complete
- Data Quality: Rate the overall quality and completeness of gathered data (High/Medium/Low)

CRITICAL REPORTING ACCURACY:
- ONLY report platforms that were actually analyzed with tools
- Do NOT claim analysis of platforms without actual data
- Use SPECIFIC, MEASURABLE data instead of vague statements
- Every claim must be verifiable and quantified where possible
- Show confidence scores ONCE per section in headers: "## Section (Confidence: 95%)"
- Include "ANALYSIS METHOD" for each platform showing what tool was used

Report structure:
- Executive Summary (specific findings, not generalizations)
- Report Metadata (Generation Date, Investigation Status, Data Quality, Platforms Analyzed)
- Target Overview
- Digital Footprint Analysis
- Platform-by-Platform Breakdown (ONLY platforms with actual data)
- Key Findings and Patterns
- Confidence Assessment
- Sources and References
- Data Freshness Disclaimer

`)
	fmt.Fprintf(&sb, "GOOGLE SEARCH FINDINGS:\n%s\n\n", googleData)
	fmt.Fprintf(&sb, "SOCIAL MEDIA FINDINGS:\n%s\n\n", socialData)
	fmt.Fprintf(&sb, "ANALYSIS:\n%s\n\n", analysis)
	if analyticsSummary != "" {
		fmt.Fprintf(&sb, "ADVANCED ANALYTICS (computed values, cite verbatim):\n%s\n\n", analyticsSummary)
	}
	sb.WriteString("Format: Professional markdown report with all sources cited and analysis methods documented.")

	return sb.String()
}
