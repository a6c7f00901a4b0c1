package prd

// DialoguePhase tracks where the PRD refinement conversation currently
// stands. The model reports it inside each fenced data block.
type DialoguePhase string

const (
	PhaseDirectionExploration DialoguePhase = "direction-exploration"
	PhaseDirectionConfirmed   DialoguePhase = "direction-confirmed"
	PhaseDetailsRefinement    DialoguePhase = "details-refinement"
	PhasePrdReady             DialoguePhase = "prd-ready"
)

// Feature priority levels for the feature matrix.
const (
	PriorityMustHave   = "must-have"
	PriorityImportant  = "important"
	PriorityNiceToHave = "nice-to-have"
)

// Data is the accumulating PRD document extracted from assistant chat
// turns. Every field is optional: the model emits only the facets a
// given turn revealed, and Merge folds them in. Scalars are pointers so
// "absent" (nil) and "present but empty" stay distinguishable, which is
// what keeps the monotonic-presence invariant checkable.
type Data struct {
	UsageScenario     *string        `json:"usageScenario,omitempty"`
	TargetAudience    *string        `json:"targetAudience,omitempty"`
	DesignStyle       *string        `json:"designStyle,omitempty"`
	PricingRange      *string        `json:"pricingRange,omitempty"`
	ProductName       *string        `json:"productName,omitempty"`
	ProductTagline    *string        `json:"productTagline,omitempty"`
	ProductCategory   *string        `json:"productCategory,omitempty"`
	SelectedDirection *string        `json:"selectedDirection,omitempty"`
	DialoguePhase     *DialoguePhase `json:"dialoguePhase,omitempty"`

	CoreFeatures []string `json:"coreFeatures,omitempty"`

	Specifications     *Specifications     `json:"specifications,omitempty"`
	CMFDesign          *CMFDesign          `json:"cmfDesign,omitempty"`
	UserExperience     *UserExperience     `json:"userExperience,omitempty"`
	FeatureMatrix      []FeatureMatrixRow  `json:"featureMatrix,omitempty"`
	MarketPositioning  *MarketPositioning  `json:"marketPositioning,omitempty"`
	Packaging          *Packaging          `json:"packaging,omitempty"`
	MarketAnalysis     *MarketInsight      `json:"marketAnalysis,omitempty"`
	MarketingAssets    *MarketingAssets    `json:"marketingAssets,omitempty"`
	VideoAssets        *VideoAssets        `json:"videoAssets,omitempty"`
	CompetitorInsights *CompetitorInsights `json:"competitorInsights,omitempty"`
}

type Specifications struct {
	Dimensions   *string `json:"dimensions,omitempty"`
	Weight       *string `json:"weight,omitempty"`
	Materials    *string `json:"materials,omitempty"`
	Battery      *string `json:"battery,omitempty"`
	Connectivity *string `json:"connectivity,omitempty"`
}

type CMFDesign struct {
	Color    *string `json:"color,omitempty"`
	Material *string `json:"material,omitempty"`
	Finish   *string `json:"finish,omitempty"`
}

type UserExperience struct {
	UnboxingExperience *string `json:"unboxingExperience,omitempty"`
	FirstUse           *string `json:"firstUse,omitempty"`
	DailyInteraction   *string `json:"dailyInteraction,omitempty"`
}

// FeatureMatrixRow is one line of the prioritized feature matrix. The
// matrix is only coherent as a whole, so Merge replaces it wholesale
// whenever the incoming document carries one.
type FeatureMatrixRow struct {
	Feature            string `json:"feature"`
	Priority           string `json:"priority"`
	PainPointAddressed string `json:"painPointAddressed,omitempty"`
	Differentiator     string `json:"differentiator,omitempty"`
	ImplementationNote string `json:"implementationNote,omitempty"`
}

type MarketPositioning struct {
	PricePoint           *string `json:"pricePoint,omitempty"`
	CompetitiveAdvantage *string `json:"competitiveAdvantage,omitempty"`
	TargetSegment        *string `json:"targetSegment,omitempty"`
}

type Packaging struct {
	BoxStyle         *string `json:"boxStyle,omitempty"`
	InsertMaterial   *string `json:"insertMaterial,omitempty"`
	BrandingElements *string `json:"brandingElements,omitempty"`
}

type MarketInsight struct {
	MarketTrends []string `json:"marketTrends,omitempty"`
	Landscape    *string  `json:"landscape,omitempty"`
	Opportunity  *string  `json:"opportunity,omitempty"`
}

type MarketingAssets struct {
	StructureHighlights []string `json:"structureHighlights,omitempty"`
	ExplodedComponents  []string `json:"explodedComponents,omitempty"`
	UsageScenarios      []string `json:"usageScenarios,omitempty"`
}

type VideoAssets struct {
	KeyActions []string `json:"keyActions,omitempty"`
	Storyboard *string  `json:"storyboard,omitempty"`
	Duration   *string  `json:"duration,omitempty"`
}

type CompetitorInsights struct {
	Strengths  []string `json:"strengths,omitempty"`
	Weaknesses []string `json:"weaknesses,omitempty"`
	Summary    *string  `json:"summary,omitempty"`
}
