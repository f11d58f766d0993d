package domain

// sectionRefs lists every content section of r in a fixed order.
func sectionRefs(r *Record) []*Fields {
	return []*Fields{
		&r.BasicInfo,
		&r.TargetInfo,
		&r.ValueProposition,
		&r.Benefits,
		&r.SocialProof,
		&r.CompetitorInfo,
		&r.BrandInfo,
		&r.LPGoals,
	}
}

// Merge applies patch onto dst in place. Sections present in patch are
// merged key by key; every other present field replaces dst's value.
// ProjectID and CreatedAt are never taken from the patch.
func Merge(dst, patch *Record) {
	apply(dst, patch, true)
}

// Overlay applies top onto dst per top-level field, top winning wholesale.
// ProjectID is never taken from top.
func Overlay(dst, top *Record) {
	apply(dst, top, false)
	if top.CreatedAt != nil {
		dst.CreatedAt = top.CreatedAt
	}
}

func apply(dst, src *Record, mergeSections bool) {
	if src == nil {
		return
	}
	dstSections := sectionRefs(dst)
	for i, s := range sectionRefs(src) {
		if *s == nil {
			continue
		}
		if !mergeSections || *dstSections[i] == nil {
			*dstSections[i] = s.Clone()
			continue
		}
		merged := dstSections[i].Clone()
		for k, v := range *s {
			merged[k] = v
		}
		*dstSections[i] = merged
	}

	if src.ProjectNumber != "" {
		dst.ProjectNumber = src.ProjectNumber
	}
	if src.ProjectFolderID != "" {
		dst.ProjectFolderID = src.ProjectFolderID
	}
	if src.UpdatedAt != nil {
		dst.UpdatedAt = src.UpdatedAt
	}
	if src.AIAnalysis != nil {
		dst.AIAnalysis = src.AIAnalysis
	}
	if src.AIQuestions != nil {
		dst.AIQuestions = src.AIQuestions
	}
	if len(src.StructuredContent) > 0 {
		dst.StructuredContent = src.StructuredContent
	}
	if src.GeneratedCopy != nil {
		dst.GeneratedCopy = src.GeneratedCopy
	}
	if src.FinalizedCopy != nil {
		dst.FinalizedCopy = src.FinalizedCopy
	}
	if src.FinalizedCopyAt != nil {
		dst.FinalizedCopyAt = src.FinalizedCopyAt
	}
	if src.CopyStage != nil {
		dst.CopyStage = src.CopyStage
	}
	if src.DesignInstruction != nil {
		dst.DesignInstruction = src.DesignInstruction
	}
	if src.DesignInstructionGeneratedAt != nil {
		dst.DesignInstructionGeneratedAt = src.DesignInstructionGeneratedAt
	}
	if src.FinalizedDesignInstruction != nil {
		dst.FinalizedDesignInstruction = src.FinalizedDesignInstruction
	}
	if src.FinalizedDesignInstructionAt != nil {
		dst.FinalizedDesignInstructionAt = src.FinalizedDesignInstructionAt
	}
	if src.DesignInstructionStage != nil {
		dst.DesignInstructionStage = src.DesignInstructionStage
	}
}
