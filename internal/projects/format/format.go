// Package format converts between the caller-facing camelCase payload and
// the snake_case record that is stored.
package format

import (
	"time"

	"github.com/lpworks/lp-intake-backend/internal/projects/domain"
)

// Payload is the caller-facing project body.
type Payload struct {
	BasicInfo        domain.Fields     `json:"basicInfo,omitempty"`
	TargetInfo       domain.Fields     `json:"targetInfo,omitempty"`
	ValueProposition domain.Fields     `json:"valueProposition,omitempty"`
	Benefits         domain.Fields     `json:"benefits,omitempty"`
	ProofPoints      domain.Fields     `json:"proofPoints,omitempty"`
	CompetitorInfo   domain.Fields     `json:"competitorInfo,omitempty"`
	BrandInfo        domain.Fields     `json:"brandInfo,omitempty"`
	Goals            domain.Fields     `json:"goals,omitempty"`
	AIAnalysis       *domain.Analysis  `json:"aiAnalysis,omitempty"`
	AIQuestions      []domain.Question `json:"aiQuestions,omitempty"`
}

type fieldPair struct {
	external string
	internal string
}

type section struct {
	name     string
	external func(*Payload) *domain.Fields
	internal func(*domain.Record) *domain.Fields
	fields   []fieldPair
}

var sections = []section{
	{
		name:     "basicInfo",
		external: func(p *Payload) *domain.Fields { return &p.BasicInfo },
		internal: func(r *domain.Record) *domain.Fields { return &r.BasicInfo },
		fields: []fieldPair{
			{"companyName", domain.FieldCompanyName},
			{"serviceName", domain.FieldServiceName},
			{"serviceUrl", "service_url"},
			{"industry", "industry"},
			{"businessDescription", "business_description"},
		},
	},
	{
		name:     "targetInfo",
		external: func(p *Payload) *domain.Fields { return &p.TargetInfo },
		internal: func(r *domain.Record) *domain.Fields { return &r.TargetInfo },
		fields: []fieldPair{
			{"mainTarget", "target_audience"},
			{"targetIssues", "target_pain_points"},
		},
	},
	{
		name:     "valueProposition",
		external: func(p *Payload) *domain.Fields { return &p.ValueProposition },
		internal: func(r *domain.Record) *domain.Fields { return &r.ValueProposition },
		fields: []fieldPair{
			{"mainValue", "main_value"},
			{"mainFeatures", "main_features"},
			{"functionalityDescription", "service_details"},
		},
	},
	{
		name:     "benefits",
		external: func(p *Payload) *domain.Fields { return &p.Benefits },
		internal: func(r *domain.Record) *domain.Fields { return &r.Benefits },
		fields: []fieldPair{
			{"customerBenefits", "customer_benefits"},
		},
	},
	{
		name:     "proofPoints",
		external: func(p *Payload) *domain.Fields { return &p.ProofPoints },
		internal: func(r *domain.Record) *domain.Fields { return &r.SocialProof },
		fields: []fieldPair{
			{"achievements", "achievements"},
			{"customerReviews", "testimonials"},
			{"mediaFeatures", "media_coverage"},
			{"awards", "awards"},
		},
	},
	{
		name:     "competitorInfo",
		external: func(p *Payload) *domain.Fields { return &p.CompetitorInfo },
		internal: func(r *domain.Record) *domain.Fields { return &r.CompetitorInfo },
		fields: []fieldPair{
			{"mainCompetitors", "competitors"},
			{"competitiveAdvantage", "differentiators"},
		},
	},
	{
		name:     "brandInfo",
		external: func(p *Payload) *domain.Fields { return &p.BrandInfo },
		internal: func(r *domain.Record) *domain.Fields { return &r.BrandInfo },
		fields: []fieldPair{
			{"brandImage", "brand_tone"},
			{"referenceUrls", "reference_urls"},
			{"brandColor", "brand_color"},
			{"imageAssets", "image_requirements"},
		},
	},
	{
		name:     "goals",
		external: func(p *Payload) *domain.Fields { return &p.Goals },
		internal: func(r *domain.Record) *domain.Fields { return &r.LPGoals },
		fields: []fieldPair{
			{"mainPurpose", domain.FieldMainPurpose},
			{"desiredCta", "desired_cta"},
			{"additionalRequests", "additional_notes"},
		},
	},
}

// ToInternal maps only the sections and fields present in p, so the result
// can be used as a partial update. Unknown external fields are dropped.
func ToInternal(p *Payload) *domain.Record {
	rec := &domain.Record{}
	if p == nil {
		return rec
	}
	for _, s := range sections {
		src := *s.external(p)
		if src == nil {
			continue
		}
		dst := domain.Fields{}
		for _, f := range s.fields {
			v, ok := src[f.external]
			if !ok {
				continue
			}
			if f.internal == domain.FieldMainPurpose {
				v = PurposeToInternal(v)
			}
			dst[f.internal] = v
		}
		*s.internal(rec) = dst
	}
	if p.AIAnalysis != nil {
		a := *p.AIAnalysis
		rec.AIAnalysis = &a
	}
	if p.AIQuestions != nil {
		rec.AIQuestions = append([]domain.Question{}, p.AIQuestions...)
	}
	return rec
}

// ToExternal always fills every known field, using "" for missing values.
func ToExternal(r *domain.Record) *Payload {
	p := &Payload{}
	if r == nil {
		r = &domain.Record{}
	}
	for _, s := range sections {
		src := *s.internal(r)
		dst := make(domain.Fields, len(s.fields))
		for _, f := range s.fields {
			v := src[f.internal]
			if f.internal == domain.FieldMainPurpose {
				v = PurposeToExternal(v)
			}
			dst[f.external] = v
		}
		*s.external(p) = dst
	}
	p.AIAnalysis = r.AIAnalysis
	p.AIQuestions = r.AIQuestions
	return p
}

// View is a project as returned to callers: the external payload plus the
// identity and derived-artifact fields in storage naming.
type View struct {
	Payload
	ProjectID       string     `json:"project_id"`
	ProjectNumber   string     `json:"project_number,omitempty"`
	ProjectFolderID string     `json:"project_folder_id,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`

	StructuredContent            any                       `json:"structured_content,omitempty"`
	GeneratedCopy                *domain.LPCopy            `json:"generated_copy,omitempty"`
	FinalizedCopy                *domain.LPCopy            `json:"finalized_copy,omitempty"`
	FinalizedCopyAt              *time.Time                `json:"finalized_copy_at,omitempty"`
	CopyStage                    domain.StageState         `json:"copy_stage"`
	DesignInstruction            *domain.DesignInstruction `json:"design_instruction,omitempty"`
	DesignInstructionGeneratedAt *time.Time                `json:"design_instruction_generated_at,omitempty"`
	FinalizedDesignInstruction   *domain.DesignInstruction `json:"finalized_design_instruction,omitempty"`
	FinalizedDesignInstructionAt *time.Time                `json:"finalized_design_instruction_at,omitempty"`
	DesignInstructionStage       domain.StageState         `json:"design_instruction_stage"`
}

func ToView(r *domain.Record) *View {
	v := &View{
		Payload:                      *ToExternal(r),
		ProjectID:                    r.ProjectID,
		ProjectNumber:                r.ProjectNumber,
		ProjectFolderID:              r.ProjectFolderID,
		CreatedAt:                    r.CreatedAt,
		UpdatedAt:                    r.UpdatedAt,
		GeneratedCopy:                r.GeneratedCopy,
		FinalizedCopy:                r.FinalizedCopy,
		FinalizedCopyAt:              r.FinalizedCopyAt,
		CopyStage:                    domain.StateOf(r.CopyStage),
		DesignInstruction:            r.DesignInstruction,
		DesignInstructionGeneratedAt: r.DesignInstructionGeneratedAt,
		FinalizedDesignInstruction:   r.FinalizedDesignInstruction,
		FinalizedDesignInstructionAt: r.FinalizedDesignInstructionAt,
		DesignInstructionStage:       domain.StateOf(r.DesignInstructionStage),
	}
	if len(r.StructuredContent) > 0 {
		v.StructuredContent = r.StructuredContent
	}
	return v
}

// SummaryView is one list entry with its basic info in caller naming.
type SummaryView struct {
	ProjectID     string        `json:"project_id"`
	ProjectNumber string        `json:"project_number,omitempty"`
	BasicInfo     domain.Fields `json:"basicInfo"`
	CreatedAt     *time.Time    `json:"created_at,omitempty"`
	UpdatedAt     *time.Time    `json:"updated_at,omitempty"`
	Source        domain.Source `json:"source"`
}

func ToSummaryViews(list []domain.Summary) []SummaryView {
	out := make([]SummaryView, 0, len(list))
	for _, s := range list {
		out = append(out, SummaryView{
			ProjectID:     s.ProjectID,
			ProjectNumber: s.ProjectNumber,
			BasicInfo:     ToExternal(&domain.Record{BasicInfo: s.BasicInfo}).BasicInfo,
			CreatedAt:     s.CreatedAt,
			UpdatedAt:     s.UpdatedAt,
			Source:        s.Source,
		})
	}
	return out
}
