package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lpworks/lp-intake-backend/internal/ai"
	"github.com/lpworks/lp-intake-backend/internal/clock"
	"github.com/lpworks/lp-intake-backend/internal/logging"
	"github.com/lpworks/lp-intake-backend/internal/projects/domain"
	"github.com/lpworks/lp-intake-backend/internal/projects/render"
	"github.com/lpworks/lp-intake-backend/internal/projects/service"
)

// Stage names used in logs and parse errors.
const (
	StageAnalysis          = "analysis"
	StageQuestions         = "questions"
	StageStructure         = "structure"
	StageCopy              = "copy"
	StageDesignInstruction = "design instruction"
)

// Projects is the part of the project service the pipeline needs.
type Projects interface {
	EnsureWorking(ctx context.Context, projectID string) (*domain.Record, error)
	Patch(ctx context.Context, projectID string, patch *domain.Record) (*domain.Record, error)
	WriteArtifacts(ctx context.Context, rec *domain.Record, prefix string, structured any, readable func(*domain.Record) string) (*service.ArtifactPair, error)
}

// Service runs the content derivation stages against a project's working record.
type Service struct {
	projects Projects
	gen      ai.Generator
	clock    clock.Clock
}

func NewService(projects Projects, gen ai.Generator, clk clock.Clock) *Service {
	if gen == nil {
		gen = ai.GeneratorFunc(func(context.Context, string) (string, error) {
			return "", ai.ErrNotConfigured
		})
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &Service{projects: projects, gen: gen, clock: clk}
}

// Finalized is the outcome of a finalize call. Artifacts is nil when the
// Drive write failed; the local state is finalized either way.
type Finalized[T any] struct {
	Content     *T                    `json:"content"`
	FinalizedAt time.Time             `json:"finalized_at"`
	Artifacts   *service.ArtifactPair `json:"artifacts,omitempty"`
}

func (s *Service) generate(ctx context.Context, stage, prompt string, v any) error {
	log := logging.FromContext(ctx)
	started := s.clock.Now()

	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		log.LogErrorf("pipeline.generate", "%s generation failed: %v", stage, err)
		return fmt.Errorf("%s generation failed: %w", stage, err)
	}
	if err := ai.ParseObject(stage, raw, v); err != nil {
		log.LogErrorf("pipeline.parse", "%v", err)
		return err
	}
	log.LogInfof("pipeline.generate", "%s generated in %s", stage, s.clock.Now().Sub(started))
	return nil
}

func hasIntake(rec *domain.Record) bool {
	for _, f := range []domain.Fields{rec.BasicInfo, rec.TargetInfo, rec.ValueProposition, rec.Benefits,
		rec.SocialProof, rec.CompetitorInfo, rec.BrandInfo, rec.LPGoals} {
		if len(f) > 0 {
			return true
		}
	}
	return false
}

func (s *Service) intakeRecord(ctx context.Context, projectID, stage string) (*domain.Record, error) {
	rec, err := s.projects.EnsureWorking(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !hasIntake(rec) {
		return nil, &domain.PrerequisiteError{Stage: stage, Missing: "the client intake"}
	}
	return rec, nil
}

// Analyze asks the model which intake details are missing, ambiguous or contradictory.
func (s *Service) Analyze(ctx context.Context, projectID string) (*domain.Analysis, error) {
	rec, err := s.intakeRecord(ctx, projectID, StageAnalysis)
	if err != nil {
		return nil, err
	}
	var out domain.Analysis
	if err := s.generate(ctx, StageAnalysis, analysisPrompt(rec, s.clock.Now()), &out); err != nil {
		return nil, err
	}
	analysis := CompleteAnalysis(&out)
	if _, err := s.projects.Patch(ctx, projectID, &domain.Record{AIAnalysis: analysis}); err != nil {
		return nil, err
	}
	return analysis, nil
}

func (s *Service) GenerateQuestions(ctx context.Context, projectID string) ([]domain.Question, error) {
	rec, err := s.intakeRecord(ctx, projectID, StageQuestions)
	if err != nil {
		return nil, err
	}
	var out struct {
		Questions []domain.Question `json:"questions"`
	}
	if err := s.generate(ctx, StageQuestions, questionsPrompt(rec, s.clock.Now()), &out); err != nil {
		return nil, err
	}
	questions := CompleteQuestions(out.Questions)
	if _, err := s.projects.Patch(ctx, projectID, &domain.Record{AIQuestions: questions}); err != nil {
		return nil, err
	}
	return questions, nil
}

// Structure reorganizes the intake into free-form building blocks stored as structured_content.
func (s *Service) Structure(ctx context.Context, projectID string) (json.RawMessage, error) {
	rec, err := s.intakeRecord(ctx, projectID, StageStructure)
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := s.generate(ctx, StageStructure, structurePrompt(rec, s.clock.Now()), &out); err != nil {
		return nil, err
	}
	if _, err := s.projects.Patch(ctx, projectID, &domain.Record{StructuredContent: out}); err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateCopy drafts LP copy. An existing finalized copy is left untouched.
func (s *Service) GenerateCopy(ctx context.Context, projectID string) (*domain.LPCopy, error) {
	rec, err := s.intakeRecord(ctx, projectID, "copy generation")
	if err != nil {
		return nil, err
	}
	var out domain.LPCopy
	if err := s.generate(ctx, StageCopy, copyPrompt(rec, s.clock.Now()), &out); err != nil {
		return nil, err
	}
	draft := CompleteCopy(&out)
	if _, err := s.projects.Patch(ctx, projectID, &domain.Record{
		GeneratedCopy: draft,
		CopyStage:     rec.CopyStage.Drafted(s.clock.Now()),
	}); err != nil {
		return nil, err
	}
	return draft, nil
}

// SaveCopy replaces the draft with a caller edit. The stage label is kept.
func (s *Service) SaveCopy(ctx context.Context, projectID string, edited *domain.LPCopy) (*domain.LPCopy, error) {
	if edited == nil {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{{Field: "copy", Message: "copy is required"}}}
	}
	rec, err := s.projects.EnsureWorking(ctx, projectID)
	if err != nil {
		return nil, err
	}
	draft := CompleteCopy(edited)
	if _, err := s.projects.Patch(ctx, projectID, &domain.Record{
		GeneratedCopy: draft,
		CopyStage:     rec.CopyStage.Edited(s.clock.Now()),
	}); err != nil {
		return nil, err
	}
	return draft, nil
}

// FinalizeCopy freezes the supplied copy, or the current draft, and mirrors
// it to Drive. A Drive failure returns *service.RemoteMirrorError together
// with the locally finalized result.
func (s *Service) FinalizeCopy(ctx context.Context, projectID string, supplied *domain.LPCopy) (*Finalized[domain.LPCopy], error) {
	rec, err := s.projects.EnsureWorking(ctx, projectID)
	if err != nil {
		return nil, err
	}
	content := supplied
	if content == nil {
		content = rec.GeneratedCopy
	}
	if content == nil {
		return nil, &domain.PrerequisiteError{Stage: "copy finalization", Missing: "a generated copy"}
	}
	content = CompleteCopy(content)

	now := s.clock.Now()
	updated, err := s.projects.Patch(ctx, projectID, &domain.Record{
		FinalizedCopy:   content,
		FinalizedCopyAt: &now,
		CopyStage:       rec.CopyStage.Finalized(now),
	})
	if err != nil {
		return nil, err
	}

	result := &Finalized[domain.LPCopy]{Content: content, FinalizedAt: now}
	pair, err := s.projects.WriteArtifacts(ctx, updated, service.PrefixFinalizedCopy, content, func(r *domain.Record) string {
		return render.Copy(r, content, now)
	})
	if err != nil {
		logging.FromContext(ctx).LogWarnf("pipeline.finalize", "copy for %s finalized locally; drive write failed: %v", projectID, err)
		return result, &service.RemoteMirrorError{Err: err}
	}
	result.Artifacts = pair
	return result, nil
}

// GenerateDesignInstruction requires a finalized copy.
func (s *Service) GenerateDesignInstruction(ctx context.Context, projectID string) (*domain.DesignInstruction, error) {
	rec, err := s.projects.EnsureWorking(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if rec.FinalizedCopy == nil {
		return nil, &domain.PrerequisiteError{Stage: "design instruction generation", Missing: "a finalized copy"}
	}
	var out domain.DesignInstruction
	if err := s.generate(ctx, StageDesignInstruction, designInstructionPrompt(rec, rec.FinalizedCopy), &out); err != nil {
		return nil, err
	}
	draft := CompleteDesignInstruction(&out)
	now := s.clock.Now()
	if _, err := s.projects.Patch(ctx, projectID, &domain.Record{
		DesignInstruction:            draft,
		DesignInstructionGeneratedAt: &now,
		DesignInstructionStage:       rec.DesignInstructionStage.Drafted(now),
	}); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *Service) SaveDesignInstruction(ctx context.Context, projectID string, edited *domain.DesignInstruction) (*domain.DesignInstruction, error) {
	if edited == nil {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{{Field: "design_instruction", Message: "design instruction is required"}}}
	}
	rec, err := s.projects.EnsureWorking(ctx, projectID)
	if err != nil {
		return nil, err
	}
	draft := CompleteDesignInstruction(edited)
	if _, err := s.projects.Patch(ctx, projectID, &domain.Record{
		DesignInstruction:      draft,
		DesignInstructionStage: rec.DesignInstructionStage.Edited(s.clock.Now()),
	}); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *Service) FinalizeDesignInstruction(ctx context.Context, projectID string, supplied *domain.DesignInstruction) (*Finalized[domain.DesignInstruction], error) {
	rec, err := s.projects.EnsureWorking(ctx, projectID)
	if err != nil {
		return nil, err
	}
	content := supplied
	if content == nil {
		content = rec.DesignInstruction
	}
	if content == nil {
		return nil, &domain.PrerequisiteError{Stage: "design instruction finalization", Missing: "a generated design instruction"}
	}
	content = CompleteDesignInstruction(content)

	now := s.clock.Now()
	updated, err := s.projects.Patch(ctx, projectID, &domain.Record{
		FinalizedDesignInstruction:   content,
		FinalizedDesignInstructionAt: &now,
		DesignInstructionStage:       rec.DesignInstructionStage.Finalized(now),
	})
	if err != nil {
		return nil, err
	}

	result := &Finalized[domain.DesignInstruction]{Content: content, FinalizedAt: now}
	pair, err := s.projects.WriteArtifacts(ctx, updated, service.PrefixDesignInstruction, content, func(r *domain.Record) string {
		return render.DesignInstruction(r, content, now)
	})
	if err != nil {
		logging.FromContext(ctx).LogWarnf("pipeline.finalize", "design instruction for %s finalized locally; drive write failed: %v", projectID, err)
		return result, &service.RemoteMirrorError{Err: err}
	}
	result.Artifacts = pair
	return result, nil
}
