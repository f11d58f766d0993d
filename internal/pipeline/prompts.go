package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lpworks/lp-intake-backend/internal/projects/domain"
	"github.com/lpworks/lp-intake-backend/internal/projects/render"
)

const jsonOnly = "Respond with a single JSON object inside a ```json code block and nothing else."

func intake(rec *domain.Record, now time.Time) string {
	return render.Record(rec, now)
}

func analysisPrompt(rec *domain.Record, now time.Time) string {
	return fmt.Sprintf(`You are an LP (landing page) director reviewing a client's intake form.
Identify information that is missing, ambiguous or contradictory for writing landing page copy.

%s

%s
Schema:
{"missing": ["..."], "ambiguous": ["..."], "contradictions": ["..."], "summary": "..."}`, intake(rec, now), jsonOnly)
}

func questionsPrompt(rec *domain.Record, now time.Time) string {
	var extra string
	if rec.AIAnalysis != nil {
		b, _ := json.Marshal(rec.AIAnalysis)
		extra = "\nPrevious analysis:\n" + string(b) + "\n"
	}
	return fmt.Sprintf(`You are preparing a client hearing for a landing page project.
Write follow-up questions that fill the gaps in the intake below, most important first.

%s
%s
%s
Schema:
{"questions": [{"question": "...", "priority": "high|medium|low", "reason": "..."}]}`, intake(rec, now), extra, jsonOnly)
}

func structurePrompt(rec *domain.Record, now time.Time) string {
	return fmt.Sprintf(`Reorganize the client intake below into landing page building blocks:
hero message, problems, solution, benefits, proof, call to action and open issues.
Keep the client's wording where possible and do not invent facts.

%s

%s`, intake(rec, now), jsonOnly)
}

func copyPrompt(rec *domain.Record, now time.Time) string {
	var hearing string
	if len(rec.AIQuestions) > 0 {
		var b strings.Builder
		for _, q := range rec.AIQuestions {
			fmt.Fprintf(&b, "- %s\n", q.Question)
		}
		hearing = "\nQuestions raised in the hearing:\n" + b.String()
	}
	return fmt.Sprintf(`You are a conversion copywriter. Write landing page copy from the client intake below.
Provide at least three benefits. Put reviewer hints in editingNotes.

%s
%s
%s
Schema:
{"hero": {"headline": "", "subheadline": "", "supportText": ""},
 "problem": {"title": "", "description": ""},
 "solution": {"title": "", "description": ""},
 "benefits": [{"title": "", "description": ""}],
 "socialProof": {"title": "", "content": ""},
 "cta": {"primary": "", "secondary": ""},
 "editingNotes": {"suggestions": [], "improvements": []}}`, intake(rec, now), hearing, jsonOnly)
}

func designInstructionPrompt(rec *domain.Record, finalized *domain.LPCopy) string {
	finalJSON, _ := json.MarshalIndent(finalized, "", "  ")
	brand := rec.BrandInfo
	return fmt.Sprintf(`You are an art director briefing a web designer for a landing page.
Service: %s (%s)
Industry: %s
Brand image: %s
Brand color: %s
Reference URLs: %s
Image assets: %s

Finalized copy:
%s

Cover every section: %s.
%s
Schema:
{"designConcept": {"overall": "", "visualDirection": "", "keyMessage": ""},
 "tone": {"mood": "", "colorPalette": ["#RRGGBB"], "typography": ""},
 "layout": {"overallStructure": "", "sectionOrder": [""], "spacingGuidelines": ""},
 "sections": [{"sectionName": "", "designIntent": "", "visualNotes": "", "layoutNotes": "", "colorNotes": "", "typographyNotes": ""}]}`,
		rec.ServiceName(), rec.BasicInfo[domain.FieldCompanyName], rec.BasicInfo["industry"],
		brand["brand_tone"], brand["brand_color"], brand["reference_urls"], brand["image_requirements"],
		finalJSON, strings.Join(RequiredDesignSections, ", "), jsonOnly)
}
