package domain

// LPCopy is the landing-page copy produced by the copy stage.
type LPCopy struct {
	Hero         Hero         `json:"hero"`
	Problem      TextBlock    `json:"problem"`
	Solution     TextBlock    `json:"solution"`
	Benefits     []TextBlock  `json:"benefits"`
	SocialProof  SocialProof  `json:"socialProof"`
	CTA          CTA          `json:"cta"`
	EditingNotes EditingNotes `json:"editingNotes"`
}

type Hero struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	SupportText string `json:"supportText"`
}

type TextBlock struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type SocialProof struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type CTA struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary,omitempty"`
}

type EditingNotes struct {
	Suggestions  []string `json:"suggestions"`
	Improvements []string `json:"improvements"`
}

// DesignInstruction is the brief handed to the visual designer.
type DesignInstruction struct {
	DesignConcept DesignConcept        `json:"designConcept"`
	Tone          Tone                 `json:"tone"`
	Layout        Layout               `json:"layout"`
	Sections      []SectionInstruction `json:"sections"`
}

type DesignConcept struct {
	Overall         string `json:"overall"`
	VisualDirection string `json:"visualDirection"`
	KeyMessage      string `json:"keyMessage"`
}

type Tone struct {
	Mood         string   `json:"mood"`
	ColorPalette []string `json:"colorPalette"`
	Typography   string   `json:"typography"`
}

type Layout struct {
	OverallStructure  string   `json:"overallStructure"`
	SectionOrder      []string `json:"sectionOrder"`
	SpacingGuidelines string   `json:"spacingGuidelines"`
}

type SectionInstruction struct {
	SectionName     string `json:"sectionName"`
	DesignIntent    string `json:"designIntent"`
	VisualNotes     string `json:"visualNotes"`
	LayoutNotes     string `json:"layoutNotes"`
	ColorNotes      string `json:"colorNotes,omitempty"`
	TypographyNotes string `json:"typographyNotes,omitempty"`
}
