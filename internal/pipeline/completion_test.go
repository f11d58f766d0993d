package pipeline

import (
	"testing"

	"github.com/lpworks/lp-intake-backend/internal/projects/domain"
	"github.com/stretchr/testify/assert"
)

func TestCompleteCopy_Nil(t *testing.T) {
	c := CompleteCopy(nil)
	assert.NotEmpty(t, c.Hero.Headline)
	assert.NotEmpty(t, c.CTA.Primary)
	assert.Empty(t, c.CTA.Secondary)
	assert.Len(t, c.Benefits, minBenefits)
}

func TestCompleteCopy_KeepsExistingBenefits(t *testing.T) {
	in := &domain.LPCopy{Benefits: []domain.TextBlock{{}, {Title: "B"}, {Title: "C"}, {Title: "D"}}}
	c := CompleteCopy(in)
	assert.Len(t, c.Benefits, 4)
	assert.Equal(t, "[Add a title for benefit 1]", c.Benefits[0].Title)
	assert.Equal(t, "D", c.Benefits[3].Title)
}

func TestCompleteDesignInstruction_SectionMatching(t *testing.T) {
	d := CompleteDesignInstruction(&domain.DesignInstruction{
		Layout:   domain.Layout{SectionOrder: []string{"Hero", "CTA"}},
		Tone:     domain.Tone{ColorPalette: []string{"#000000"}},
		Sections: []domain.SectionInstruction{{SectionName: "social proof"}, {SectionName: "cta"}},
	})

	assert.Equal(t, []string{"Hero", "CTA"}, d.Layout.SectionOrder)
	assert.Equal(t, []string{"#000000"}, d.Tone.ColorPalette)
	assert.Len(t, d.Sections, len(RequiredDesignSections))
	assert.Equal(t, "[Add the design intent for social proof]", d.Sections[0].DesignIntent)
}

func TestCompleteQuestions(t *testing.T) {
	qs := CompleteQuestions([]domain.Question{{Priority: " Low "}})
	assert.Equal(t, domain.PriorityLow, qs[0].Priority)
	assert.Equal(t, "[Add the question text]", qs[0].Question)
	assert.Empty(t, CompleteQuestions(nil))
}
