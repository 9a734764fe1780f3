// Package report renders a computed match result into human-readable
// ranking reports. Presentation concerns live here, not in the engine:
// PHM values and ratios are rounded to two decimal places for display
// only.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/phm-match-engine/internal/domain"
)

// Generator renders match results as markdown or HTML.
type Generator struct {
	logger   *logrus.Logger
	markdown goldmark.Markdown
}

// NewGenerator creates a new report generator
func NewGenerator(logger *logrus.Logger) *Generator {
	return &Generator{
		logger: logger,
		// GFM is needed for table rendering.
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// RenderMarkdown renders the ranking report as a markdown document.
func (g *Generator) RenderMarkdown(result *domain.MatchResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Donor Match Report\n\n")
	fmt.Fprintf(&b, "- **Run**: %s\n", result.RunID)
	fmt.Fprintf(&b, "- **Donor**: %s (PHM %.2f g)\n", result.DonorName, result.DonorPHM)
	fmt.Fprintf(&b, "- **Generated**: %s\n", result.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- **Ranking policy**: %s\n", result.RankingPolicy)
	fmt.Fprintf(&b, "- **Compatibility policy**: %s\n\n", result.CompatibilityPolicy)

	fmt.Fprintf(&b, "## Ranked candidates\n\n")
	if len(result.Records) == 0 {
		fmt.Fprintf(&b, "No candidates could be ranked.\n\n")
	} else {
		fmt.Fprintf(&b, "| Rank | ID | Name | Blood Type | PHM (g) | Ratio | Category | Risk | Compatible | Exact |\n")
		fmt.Fprintf(&b, "|---|---|---|---|---|---|---|---|---|---|\n")
		for i, record := range result.Records {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %.2f | %.2f | %s | %s | %s | %s |\n",
				i+1,
				record.Recipient.ID,
				record.Recipient.Name,
				record.Recipient.BloodType.String(),
				record.RecipientPHM,
				record.PHMRatio,
				record.Category.Description(),
				record.Risk.String(),
				yesNo(record.BloodTypeCompatible),
				yesNo(record.ExactBloodTypeMatch),
			)
		}
		b.WriteString("\n")
	}

	if mismatches := rhesusMismatches(result); len(mismatches) > 0 {
		fmt.Fprintf(&b, "## Advisory: rhesus mismatches\n\n")
		for _, id := range mismatches {
			fmt.Fprintf(&b, "- %s: Rh-negative recipient, Rh-positive donor\n", id)
		}
		b.WriteString("\n")
	}

	if len(result.Skipped) > 0 {
		fmt.Fprintf(&b, "## Skipped records\n\n")
		for _, skip := range result.Skipped {
			fmt.Fprintf(&b, "- %s\n", skip.String())
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\n%d candidates ranked, %d skipped, completed in %s.\n",
		len(result.Records), len(result.Skipped), result.ProcessingTime)

	return b.String()
}

// RenderHTML renders the ranking report as a standalone HTML document.
func (g *Generator) RenderHTML(result *domain.MatchResult) ([]byte, error) {
	md := g.RenderMarkdown(result)

	var body bytes.Buffer
	if err := g.markdown.Convert([]byte(md), &body); err != nil {
		return nil, fmt.Errorf("failed to render HTML report: %w", err)
	}

	var doc bytes.Buffer
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&doc, "<title>Donor Match Report %s</title>\n", result.RunID)
	doc.WriteString("</head>\n<body>\n")
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")

	g.logger.WithFields(logrus.Fields{
		"run_id": result.RunID,
		"bytes":  doc.Len(),
	}).Debug("Rendered HTML report")

	return doc.Bytes(), nil
}

// rhesusMismatches collects recipient IDs carrying the advisory flag.
func rhesusMismatches(result *domain.MatchResult) []string {
	var ids []string
	for _, record := range result.Records {
		if record.RhesusMismatch {
			ids = append(ids, record.Recipient.ID)
		}
	}
	return ids
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
