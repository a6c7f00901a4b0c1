package prd

import "strings"

// ReadySentinel is the literal token the model emits when it judges the
// design conversation finished. Its presence alone advances the stage.
const ReadySentinel = "[DESIGN_READY]"

// Complete reports whether the conversation has gathered enough to
// advance the workflow: either the assistant emitted the sentinel, or
// the required field set is fully populated. Evaluated after every
// assistant turn and after manual field edits (with empty text).
func Complete(d *Data, assistantText string) bool {
	if strings.Contains(assistantText, ReadySentinel) {
		return true
	}
	return RequiredFieldsComplete(d)
}

// RequiredFieldsComplete checks the fixed field set that defines a
// minimally complete PRD.
func RequiredFieldsComplete(d *Data) bool {
	if d == nil {
		return false
	}
	return hasValue(d.SelectedDirection) &&
		hasValue(d.UsageScenario) &&
		hasValue(d.TargetAudience) &&
		hasValue(d.DesignStyle) &&
		len(d.CoreFeatures) > 0 &&
		hasValue(d.PricingRange)
}

func hasValue(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
