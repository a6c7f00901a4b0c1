package prd

// Merge folds an incoming partial document into the existing one and
// returns the result. Neither input is mutated.
//
// Rules:
//   - existing nil: incoming is the result verbatim.
//   - scalar present (non-nil) in incoming: overwrite, last write wins.
//   - string arrays: set union, existing order first, duplicates dropped.
//   - nested objects: field-by-field overwrite, never full replacement.
//   - featureMatrix: full replacement whenever incoming carries one;
//     the matrix is only consistent as a complete unit.
//   - fields absent from incoming stay untouched; a populated field can
//     never revert to nil.
func Merge(existing, incoming *Data) *Data {
	if incoming == nil {
		return existing
	}
	if existing == nil {
		return incoming
	}

	out := *existing

	out.UsageScenario = mergeStr(existing.UsageScenario, incoming.UsageScenario)
	out.TargetAudience = mergeStr(existing.TargetAudience, incoming.TargetAudience)
	out.DesignStyle = mergeStr(existing.DesignStyle, incoming.DesignStyle)
	out.PricingRange = mergeStr(existing.PricingRange, incoming.PricingRange)
	out.ProductName = mergeStr(existing.ProductName, incoming.ProductName)
	out.ProductTagline = mergeStr(existing.ProductTagline, incoming.ProductTagline)
	out.ProductCategory = mergeStr(existing.ProductCategory, incoming.ProductCategory)
	out.SelectedDirection = mergeStr(existing.SelectedDirection, incoming.SelectedDirection)
	if incoming.DialoguePhase != nil {
		out.DialoguePhase = incoming.DialoguePhase
	}

	out.CoreFeatures = unionStrings(existing.CoreFeatures, incoming.CoreFeatures)

	out.Specifications = mergeSpecifications(existing.Specifications, incoming.Specifications)
	out.CMFDesign = mergeCMFDesign(existing.CMFDesign, incoming.CMFDesign)
	out.UserExperience = mergeUserExperience(existing.UserExperience, incoming.UserExperience)
	out.MarketPositioning = mergeMarketPositioning(existing.MarketPositioning, incoming.MarketPositioning)
	out.Packaging = mergePackaging(existing.Packaging, incoming.Packaging)
	out.MarketAnalysis = mergeMarketInsight(existing.MarketAnalysis, incoming.MarketAnalysis)
	out.MarketingAssets = mergeMarketingAssets(existing.MarketingAssets, incoming.MarketingAssets)
	out.VideoAssets = mergeVideoAssets(existing.VideoAssets, incoming.VideoAssets)
	out.CompetitorInsights = mergeCompetitorInsights(existing.CompetitorInsights, incoming.CompetitorInsights)

	if incoming.FeatureMatrix != nil {
		out.FeatureMatrix = append([]FeatureMatrixRow(nil), incoming.FeatureMatrix...)
	}

	return &out
}

func mergeStr(existing, incoming *string) *string {
	if incoming != nil {
		return incoming
	}
	return existing
}

// unionStrings keeps existing entries in order and appends incoming
// entries not already present. The result never shrinks.
func unionStrings(existing, incoming []string) []string {
	if len(incoming) == 0 {
		return existing
	}
	seen := make(map[string]bool, len(existing)+len(incoming))
	out := make([]string, 0, len(existing)+len(incoming))
	for _, s := range existing {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range incoming {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func mergeSpecifications(existing, incoming *Specifications) *Specifications {
	if incoming == nil {
		return existing
	}
	if existing == nil {
		return incoming
	}
	out := *existing
	out.Dimensions = mergeStr(existing.Dimensions, incoming.Dimensions)
	out.Weight = mergeStr(existing.Weight, incoming.Weight)
	out.Materials = mergeStr(existing.Materials, incoming.Materials)
	out.Battery = mergeStr(existing.Battery, incoming.Battery)
	out.Connectivity = mergeStr(existing.Connectivity, incoming.Connectivity)
	return &out
}

func mergeCMFDesign(existing, incoming *CMFDesign) *CMFDesign {
	if incoming == nil {
		return existing
	}
	if existing == nil {
		return incoming
	}
	out := *existing
	out.Color = mergeStr(existing.Color, incoming.Color)
	out.Material = mergeStr(existing.Material, incoming.Material)
	out.Finish = mergeStr(existing.Finish, incoming.Finish)
	return &out
}

func mergeUserExperience(existing, incoming *UserExperience) *UserExperience {
	if incoming == nil {
		return existing
	}
	if existing == nil {
		return incoming
	}
	out := *existing
	out.UnboxingExperience = mergeStr(existing.UnboxingExperience, incoming.UnboxingExperience)
	out.FirstUse = mergeStr(existing.FirstUse, incoming.FirstUse)
	out.DailyInteraction = mergeStr(existing.DailyInteraction, incoming.DailyInteraction)
	return &out
}

func mergeMarketPositioning(existing, incoming *MarketPositioning) *MarketPositioning {
	if incoming == nil {
		return existing
	}
	if existing == nil {
		return incoming
	}
	out := *existing
	out.PricePoint = mergeStr(existing.PricePoint, incoming.PricePoint)
	out.CompetitiveAdvantage = mergeStr(existing.CompetitiveAdvantage, incoming.CompetitiveAdvantage)
	out.TargetSegment = mergeStr(existing.TargetSegment, incoming.TargetSegment)
	return &out
}

func mergePackaging(existing, incoming *Packaging) *Packaging {
	if incoming == nil {
		return existing
	}
	if existing == nil {
		return incoming
	}
	out := *existing
	out.BoxStyle = mergeStr(existing.BoxStyle, incoming.BoxStyle)
	out.InsertMaterial = mergeStr(existing.InsertMaterial, incoming.InsertMaterial)
	out.BrandingElements = mergeStr(existing.BrandingElements, incoming.BrandingElements)
	return &out
}

func mergeMarketInsight(existing, incoming *MarketInsight) *MarketInsight {
	if incoming == nil {
		return existing
	}
	if existing == nil {
		return incoming
	}
	out := *existing
	out.MarketTrends = unionStrings(existing.MarketTrends, incoming.MarketTrends)
	out.Landscape = mergeStr(existing.Landscape, incoming.Landscape)
	out.Opportunity = mergeStr(existing.Opportunity, incoming.Opportunity)
	return &out
}

func mergeMarketingAssets(existing, incoming *MarketingAssets) *MarketingAssets {
	if incoming == nil {
		return existing
	}
	if existing == nil {
		return incoming
	}
	out := *existing
	out.StructureHighlights = unionStrings(existing.StructureHighlights, incoming.StructureHighlights)
	out.ExplodedComponents = unionStrings(existing.ExplodedComponents, incoming.ExplodedComponents)
	out.UsageScenarios = unionStrings(existing.UsageScenarios, incoming.UsageScenarios)
	return &out
}

func mergeVideoAssets(existing, incoming *VideoAssets) *VideoAssets {
	if incoming == nil {
		return existing
	}
	if existing == nil {
		return incoming
	}
	out := *existing
	out.KeyActions = unionStrings(existing.KeyActions, incoming.KeyActions)
	out.Storyboard = mergeStr(existing.Storyboard, incoming.Storyboard)
	out.Duration = mergeStr(existing.Duration, incoming.Duration)
	return &out
}

func mergeCompetitorInsights(existing, incoming *CompetitorInsights) *CompetitorInsights {
	if incoming == nil {
		return existing
	}
	if existing == nil {
		return incoming
	}
	out := *existing
	out.Strengths = unionStrings(existing.Strengths, incoming.Strengths)
	out.Weaknesses = unionStrings(existing.Weaknesses, incoming.Weaknesses)
	out.Summary = mergeStr(existing.Summary, incoming.Summary)
	return &out
}
