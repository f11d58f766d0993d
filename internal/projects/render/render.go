// Package render produces the human-readable twins of Drive artifacts.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/lpworks/lp-intake-backend/internal/projects/domain"
)

type line struct {
	label string
	key   string
}

type block struct {
	title  string
	fields func(*domain.Record) domain.Fields
	lines  []line
}

var recordBlocks = []block{
	{"1. Basic information", func(r *domain.Record) domain.Fields { return r.BasicInfo }, []line{
		{"Company", domain.FieldCompanyName}, {"Service", domain.FieldServiceName}, {"Service URL", "service_url"},
		{"Industry", "industry"}, {"Business description", "business_description"},
	}},
	{"2. Target", func(r *domain.Record) domain.Fields { return r.TargetInfo }, []line{
		{"Main target", "target_audience"}, {"Target issues", "target_pain_points"},
	}},
	{"3. Value proposition", func(r *domain.Record) domain.Fields { return r.ValueProposition }, []line{
		{"Main value", "main_value"}, {"Main features", "main_features"}, {"Service details", "service_details"},
	}},
	{"4. Benefits", func(r *domain.Record) domain.Fields { return r.Benefits }, []line{
		{"Customer benefits", "customer_benefits"},
	}},
	{"5. Proof points", func(r *domain.Record) domain.Fields { return r.SocialProof }, []line{
		{"Achievements", "achievements"}, {"Customer reviews", "testimonials"}, {"Media features", "media_coverage"}, {"Awards", "awards"},
	}},
	{"6. Competitors", func(r *domain.Record) domain.Fields { return r.CompetitorInfo }, []line{
		{"Main competitors", "competitors"}, {"Competitive advantage", "differentiators"},
	}},
	{"7. Brand", func(r *domain.Record) domain.Fields { return r.BrandInfo }, []line{
		{"Brand image", "brand_tone"}, {"Reference URLs", "reference_urls"}, {"Brand color", "brand_color"}, {"Image assets", "image_requirements"},
	}},
	{"8. LP goals", func(r *domain.Record) domain.Fields { return r.LPGoals }, []line{
		{"Main purpose", domain.FieldMainPurpose}, {"Desired CTA", "desired_cta"}, {"Additional requests", "additional_notes"},
	}},
}

// Record renders the intake sections plus any AI analysis and questions.
func Record(r *domain.Record, at time.Time) string {
	var b strings.Builder
	header(&b, "Client intake", r, at)

	for _, blk := range recordBlocks {
		fmt.Fprintf(&b, "\n## %s\n", blk.title)
		f := blk.fields(r)
		for _, l := range blk.lines {
			fmt.Fprintf(&b, "%s: %s\n", l.label, orDash(f[l.key]))
		}
	}

	if a := r.AIAnalysis; a != nil {
		b.WriteString("\n## AI analysis\n")
		fmt.Fprintf(&b, "Summary: %s\n", orDash(a.Summary))
		list(&b, "Missing", a.Missing)
		list(&b, "Ambiguous", a.Ambiguous)
		list(&b, "Contradictions", a.Contradictions)
	}
	if len(r.AIQuestions) > 0 {
		b.WriteString("\n## Follow-up questions\n")
		for i, q := range r.AIQuestions {
			fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, q.Priority, q.Question)
			if q.Reason != "" {
				fmt.Fprintf(&b, "   Reason: %s\n", q.Reason)
			}
		}
	}
	return b.String()
}

// Copy renders finalized landing-page copy.
func Copy(r *domain.Record, c *domain.LPCopy, at time.Time) string {
	var b strings.Builder
	header(&b, "Finalized LP copy", r, at)
	if c == nil {
		return b.String()
	}

	b.WriteString("\n## Hero\n")
	fmt.Fprintf(&b, "Headline: %s\nSubheadline: %s\nSupport text: %s\n", c.Hero.Headline, c.Hero.Subheadline, c.Hero.SupportText)

	fmt.Fprintf(&b, "\n## Problem\n%s\n%s\n", c.Problem.Title, c.Problem.Description)
	fmt.Fprintf(&b, "\n## Solution\n%s\n%s\n", c.Solution.Title, c.Solution.Description)

	b.WriteString("\n## Benefits\n")
	for i, ben := range c.Benefits {
		fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, ben.Title, ben.Description)
	}

	fmt.Fprintf(&b, "\n## Social proof\n%s\n%s\n", c.SocialProof.Title, c.SocialProof.Content)

	b.WriteString("\n## CTA\n")
	fmt.Fprintf(&b, "Primary: %s\n", c.CTA.Primary)
	if c.CTA.Secondary != "" {
		fmt.Fprintf(&b, "Secondary: %s\n", c.CTA.Secondary)
	}

	if len(c.EditingNotes.Suggestions) > 0 || len(c.EditingNotes.Improvements) > 0 {
		b.WriteString("\n## Editing notes\n")
		list(&b, "Suggestions", c.EditingNotes.Suggestions)
		list(&b, "Improvements", c.EditingNotes.Improvements)
	}
	return b.String()
}

// DesignInstruction renders a finalized design brief.
func DesignInstruction(r *domain.Record, d *domain.DesignInstruction, at time.Time) string {
	var b strings.Builder
	header(&b, "Design instruction", r, at)
	if d == nil {
		return b.String()
	}

	b.WriteString("\n## Design concept\n")
	fmt.Fprintf(&b, "Overall: %s\nVisual direction: %s\nKey message: %s\n",
		d.DesignConcept.Overall, d.DesignConcept.VisualDirection, d.DesignConcept.KeyMessage)

	b.WriteString("\n## Tone\n")
	fmt.Fprintf(&b, "Mood: %s\nColor palette: %s\nTypography: %s\n",
		d.Tone.Mood, strings.Join(d.Tone.ColorPalette, ", "), d.Tone.Typography)

	b.WriteString("\n## Layout\n")
	fmt.Fprintf(&b, "Overall structure: %s\nSection order: %s\nSpacing: %s\n",
		d.Layout.OverallStructure, strings.Join(d.Layout.SectionOrder, " > "), d.Layout.SpacingGuidelines)

	b.WriteString("\n## Sections\n")
	for i, s := range d.Sections {
		fmt.Fprintf(&b, "\n### %d. %s\n", i+1, s.SectionName)
		fmt.Fprintf(&b, "Intent: %s\nVisual: %s\nLayout: %s\n", s.DesignIntent, s.VisualNotes, s.LayoutNotes)
		if s.ColorNotes != "" {
			fmt.Fprintf(&b, "Color: %s\n", s.ColorNotes)
		}
		if s.TypographyNotes != "" {
			fmt.Fprintf(&b, "Typography: %s\n", s.TypographyNotes)
		}
	}
	return b.String()
}

func header(b *strings.Builder, title string, r *domain.Record, at time.Time) {
	fmt.Fprintf(b, "# %s\n", title)
	if r.ProjectNumber != "" {
		fmt.Fprintf(b, "Project number: %s\n", r.ProjectNumber)
	}
	fmt.Fprintf(b, "Project ID: %s\n", r.ProjectID)
	fmt.Fprintf(b, "Service: %s\n", orDash(r.ServiceName()))
	fmt.Fprintf(b, "Saved at: %s\n", at.UTC().Format(time.RFC3339))
}

func list(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", label)
	for _, it := range items {
		fmt.Fprintf(b, "  - %s\n", it)
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
