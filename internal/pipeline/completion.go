package pipeline

import (
	"fmt"
	"strings"

	"github.com/lpworks/lp-intake-backend/internal/projects/domain"
)

const minBenefits = 3

// RequiredDesignSections must appear in every design instruction.
var RequiredDesignSections = []string{"Hero", "Problem", "Solution", "Benefits", "SocialProof", "CTA"}

var DefaultColorPalette = []string{"#3B82F6", "#1E40AF", "#60A5FA", "#F59E0B"}

func placeholder(what string) string {
	return "[Add " + what + "]"
}

func fill(s *string, what string) {
	if strings.TrimSpace(*s) == "" {
		*s = placeholder(what)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func CompleteAnalysis(a *domain.Analysis) *domain.Analysis {
	if a == nil {
		a = &domain.Analysis{}
	}
	a.Missing = nonNil(a.Missing)
	a.Ambiguous = nonNil(a.Ambiguous)
	a.Contradictions = nonNil(a.Contradictions)
	fill(&a.Summary, "an analysis summary")
	return a
}

func CompleteQuestions(qs []domain.Question) []domain.Question {
	out := make([]domain.Question, 0, len(qs))
	for _, q := range qs {
		fill(&q.Question, "the question text")
		fill(&q.Reason, "why this question matters")
		switch p := domain.Priority(strings.ToLower(strings.TrimSpace(string(q.Priority)))); p {
		case domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow:
			q.Priority = p
		default:
			q.Priority = domain.PriorityMedium
		}
		out = append(out, q)
	}
	return out
}

// CompleteCopy fills every required field and pads benefits to three.
func CompleteCopy(c *domain.LPCopy) *domain.LPCopy {
	if c == nil {
		c = &domain.LPCopy{}
	}
	fill(&c.Hero.Headline, "a main headline")
	fill(&c.Hero.Subheadline, "a subheadline")
	fill(&c.Hero.SupportText, "supporting text")
	fill(&c.Problem.Title, "a problem title")
	fill(&c.Problem.Description, "a problem description")
	fill(&c.Solution.Title, "a solution title")
	fill(&c.Solution.Description, "a solution description")
	fill(&c.SocialProof.Title, "a social proof title")
	fill(&c.SocialProof.Content, "social proof content")
	fill(&c.CTA.Primary, "a primary call to action")

	for i := range c.Benefits {
		fill(&c.Benefits[i].Title, fmt.Sprintf("a title for benefit %d", i+1))
		fill(&c.Benefits[i].Description, "a description")
	}
	for len(c.Benefits) < minBenefits {
		n := len(c.Benefits) + 1
		c.Benefits = append(c.Benefits, domain.TextBlock{
			Title:       fmt.Sprintf("Benefit %d", n),
			Description: placeholder("a description"),
		})
	}

	c.EditingNotes.Suggestions = nonNil(c.EditingNotes.Suggestions)
	c.EditingNotes.Improvements = nonNil(c.EditingNotes.Improvements)
	return c
}

// CompleteDesignInstruction fills concept, tone and layout fields and appends
// any required section the model left out.
func CompleteDesignInstruction(d *domain.DesignInstruction) *domain.DesignInstruction {
	if d == nil {
		d = &domain.DesignInstruction{}
	}
	fill(&d.DesignConcept.Overall, "the overall concept")
	fill(&d.DesignConcept.VisualDirection, "a visual direction")
	fill(&d.DesignConcept.KeyMessage, "the key message")
	fill(&d.Tone.Mood, "a mood")
	fill(&d.Tone.Typography, "typography guidance")
	if len(d.Tone.ColorPalette) == 0 {
		d.Tone.ColorPalette = append([]string{}, DefaultColorPalette...)
	}
	fill(&d.Layout.OverallStructure, "the overall structure")
	fill(&d.Layout.SpacingGuidelines, "spacing guidelines")
	if len(d.Layout.SectionOrder) == 0 {
		d.Layout.SectionOrder = append([]string{}, RequiredDesignSections...)
	}

	have := make(map[string]bool, len(d.Sections))
	for i := range d.Sections {
		s := &d.Sections[i]
		fill(&s.SectionName, fmt.Sprintf("a name for section %d", i+1))
		fill(&s.DesignIntent, "the design intent for "+s.SectionName)
		fill(&s.VisualNotes, "visual notes for "+s.SectionName)
		fill(&s.LayoutNotes, "layout notes for "+s.SectionName)
		have[normalizeSection(s.SectionName)] = true
	}
	for _, name := range RequiredDesignSections {
		if have[normalizeSection(name)] {
			continue
		}
		d.Sections = append(d.Sections, domain.SectionInstruction{
			SectionName:  name,
			DesignIntent: placeholder("the design intent for " + name),
			VisualNotes:  placeholder("visual notes for " + name),
			LayoutNotes:  placeholder("layout notes for " + name),
		})
	}
	return d
}

func normalizeSection(name string) string {
	return strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(name))
}
