package domain

import (
	"encoding/json"
	"time"
)

// Record is a project's working data. Section and artifact fields are
// independently optional; a nil pointer or nil map means "not present".
type Record struct {
	ProjectID       string     `json:"project_id"`
	ProjectNumber   string     `json:"project_number,omitempty"`
	ProjectFolderID string     `json:"project_folder_id,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`

	BasicInfo        Fields `json:"basic_info,omitempty"`
	TargetInfo       Fields `json:"target_info,omitempty"`
	ValueProposition Fields `json:"value_proposition,omitempty"`
	Benefits         Fields `json:"benefits,omitempty"`
	SocialProof      Fields `json:"social_proof,omitempty"`
	CompetitorInfo   Fields `json:"competitor_info,omitempty"`
	BrandInfo        Fields `json:"brand_info,omitempty"`
	LPGoals          Fields `json:"lp_goals,omitempty"`

	AIAnalysis        *Analysis       `json:"ai_analysis,omitempty"`
	AIQuestions       []Question      `json:"ai_questions,omitempty"`
	StructuredContent json.RawMessage `json:"structured_content,omitempty"`

	GeneratedCopy   *LPCopy      `json:"generated_copy,omitempty"`
	FinalizedCopy   *LPCopy      `json:"finalized_copy,omitempty"`
	FinalizedCopyAt *time.Time   `json:"finalized_copy_at,omitempty"`
	CopyStage       *StageStatus `json:"copy_stage,omitempty"`

	DesignInstruction            *DesignInstruction `json:"design_instruction,omitempty"`
	DesignInstructionGeneratedAt *time.Time         `json:"design_instruction_generated_at,omitempty"`
	FinalizedDesignInstruction   *DesignInstruction `json:"finalized_design_instruction,omitempty"`
	FinalizedDesignInstructionAt *time.Time         `json:"finalized_design_instruction_at,omitempty"`
	DesignInstructionStage       *StageStatus       `json:"design_instruction_stage,omitempty"`
}

// ServiceName returns basic_info.service_name, or "" when unset.
func (r *Record) ServiceName() string {
	if r == nil || r.BasicInfo == nil {
		return ""
	}
	return r.BasicInfo[FieldServiceName]
}

// Clone returns a deep copy via JSON.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		cp := *r
		return &cp
	}
	var out Record
	if err := json.Unmarshal(b, &out); err != nil {
		cp := *r
		return &cp
	}
	return &out
}

// Summary is the slim list-view projection of a record.
type Summary struct {
	ProjectID     string     `json:"project_id"`
	ProjectNumber string     `json:"project_number,omitempty"`
	BasicInfo     Fields     `json:"basic_info,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
	Source        Source     `json:"source,omitempty"`
}

type Source string

const (
	SourceTemp  Source = "temp"
	SourceDrive Source = "drive"
)

func (r *Record) Summary() Summary {
	return Summary{
		ProjectID:     r.ProjectID,
		ProjectNumber: r.ProjectNumber,
		BasicInfo:     r.BasicInfo.Clone(),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type Analysis struct {
	Missing        []string `json:"missing"`
	Ambiguous      []string `json:"ambiguous"`
	Contradictions []string `json:"contradictions"`
	Summary        string   `json:"summary"`
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Question struct {
	Question string   `json:"question"`
	Priority Priority `json:"priority"`
	Reason   string   `json:"reason"`
}

// StageState is the explicit lifecycle label of a derived artifact.
type StageState string

const (
	StageAbsent    StageState = "absent"
	StageDrafted   StageState = "drafted"
	StageFinalized StageState = "finalized"
)

// StageStatus is stored next to an artifact. A Drafted stage with a
// non-nil FinalizedAt means the draft moved on after a finalize.
type StageStatus struct {
	State       StageState `json:"state"`
	DraftedAt   *time.Time `json:"drafted_at,omitempty"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`
}

// StateOf treats a nil status as absent.
func StateOf(s *StageStatus) StageState {
	if s == nil || s.State == "" {
		return StageAbsent
	}
	return s.State
}

// Drafted returns the status after a generate or edit at t.
func (s *StageStatus) Drafted(t time.Time) *StageStatus {
	next := &StageStatus{State: StageDrafted, DraftedAt: &t}
	if s != nil {
		next.FinalizedAt = s.FinalizedAt
	}
	return next
}

// Finalized returns the status after a finalize at t.
func (s *StageStatus) Finalized(t time.Time) *StageStatus {
	next := &StageStatus{State: StageFinalized, FinalizedAt: &t}
	if s != nil {
		next.DraftedAt = s.DraftedAt
	}
	return next
}

// Edited returns the status after a caller overwrote the draft at t. The
// state label is kept; an absent stage becomes drafted.
func (s *StageStatus) Edited(t time.Time) *StageStatus {
	if StateOf(s) == StageAbsent {
		return s.Drafted(t)
	}
	next := *s
	next.DraftedAt = &t
	return &next
}
