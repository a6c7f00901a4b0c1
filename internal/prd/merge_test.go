package prd

import (
	"sort"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestMergeNilExisting(t *testing.T) {
	incoming := &Data{ProductName: strPtr("智能水杯")}
	got := Merge(nil, incoming)
	if got != incoming {
		t.Fatalf("merge onto nil should return incoming verbatim")
	}
}

func TestMergeScalarLastWriteWins(t *testing.T) {
	existing := &Data{DesignStyle: strPtr("极简")}
	incoming := &Data{DesignStyle: strPtr("复古")}
	got := Merge(existing, incoming)
	if got.DesignStyle == nil || *got.DesignStyle != "复古" {
		t.Fatalf("scalar overwrite failed: got %v", got.DesignStyle)
	}
}

func TestMergeAbsentFieldsUntouched(t *testing.T) {
	existing := &Data{
		UsageScenario:  strPtr("户外露营"),
		TargetAudience: strPtr("年轻家庭"),
	}
	incoming := &Data{PricingRange: strPtr("200-300元")}
	got := Merge(existing, incoming)

	if got.UsageScenario == nil || *got.UsageScenario != "户外露营" {
		t.Fatalf("usageScenario should be untouched, got %v", got.UsageScenario)
	}
	if got.TargetAudience == nil {
		t.Fatalf("targetAudience reverted to nil")
	}
	if got.PricingRange == nil || *got.PricingRange != "200-300元" {
		t.Fatalf("pricingRange not applied")
	}
}

func TestMergeCoreFeaturesUnion(t *testing.T) {
	existing := &Data{CoreFeatures: []string{"b", "c"}}
	incoming := &Data{CoreFeatures: []string{"a", "b"}}
	got := Merge(existing, incoming)

	want := []string{"a", "b", "c"}
	features := append([]string(nil), got.CoreFeatures...)
	sort.Strings(features)
	if len(features) != len(want) {
		t.Fatalf("coreFeatures union = %v, want set %v", features, want)
	}
	for i := range want {
		if features[i] != want[i] {
			t.Fatalf("coreFeatures union = %v, want set %v", features, want)
		}
	}
}

func TestMergeNestedShallow(t *testing.T) {
	existing := &Data{Specifications: &Specifications{
		Dimensions: strPtr("10x10x20cm"),
		Weight:     strPtr("300g"),
	}}
	incoming := &Data{Specifications: &Specifications{
		Weight:  strPtr("280g"),
		Battery: strPtr("2000mAh"),
	}}
	got := Merge(existing, incoming)

	spec := got.Specifications
	if spec == nil {
		t.Fatal("specifications missing after merge")
	}
	if spec.Dimensions == nil || *spec.Dimensions != "10x10x20cm" {
		t.Fatalf("dimensions should survive nested merge, got %v", spec.Dimensions)
	}
	if spec.Weight == nil || *spec.Weight != "280g" {
		t.Fatalf("weight should be overwritten, got %v", spec.Weight)
	}
	if spec.Battery == nil || *spec.Battery != "2000mAh" {
		t.Fatalf("battery should be added, got %v", spec.Battery)
	}
}

func TestMergeFeatureMatrixWholesaleReplace(t *testing.T) {
	existing := &Data{FeatureMatrix: []FeatureMatrixRow{
		{Feature: "保温", Priority: PriorityMustHave},
		{Feature: "温度显示", Priority: PriorityImportant},
	}}
	incoming := &Data{FeatureMatrix: []FeatureMatrixRow{
		{Feature: "保温", Priority: PriorityMustHave},
	}}
	got := Merge(existing, incoming)

	if len(got.FeatureMatrix) != 1 {
		t.Fatalf("featureMatrix should be replaced wholesale, got %d rows", len(got.FeatureMatrix))
	}
}

func TestMergeFeatureMatrixAbsentKeepsExisting(t *testing.T) {
	existing := &Data{FeatureMatrix: []FeatureMatrixRow{
		{Feature: "保温", Priority: PriorityMustHave},
	}}
	incoming := &Data{ProductName: strPtr("恒温杯")}
	got := Merge(existing, incoming)

	if len(got.FeatureMatrix) != 1 {
		t.Fatalf("featureMatrix should be untouched when absent from incoming")
	}
}

func TestMergeInnerStringArraysUnion(t *testing.T) {
	existing := &Data{MarketingAssets: &MarketingAssets{
		UsageScenarios: []string{"通勤", "办公室"},
	}}
	incoming := &Data{MarketingAssets: &MarketingAssets{
		UsageScenarios: []string{"办公室", "健身房"},
	}}
	got := Merge(existing, incoming)

	if got.MarketingAssets == nil || len(got.MarketingAssets.UsageScenarios) != 3 {
		t.Fatalf("inner array union failed: %+v", got.MarketingAssets)
	}
}

func TestMergeMonotonicPresence(t *testing.T) {
	// A field once populated may change value but never revert to nil
	// across any merge sequence.
	steps := []*Data{
		{SelectedDirection: strPtr("方向A"), CoreFeatures: []string{"f1"}},
		{UsageScenario: strPtr("居家")},
		{SelectedDirection: strPtr("方向B")},
		{},
	}

	var acc *Data
	for i, step := range steps {
		acc = Merge(acc, step)
		if acc.SelectedDirection == nil {
			t.Fatalf("step %d: selectedDirection reverted to nil", i)
		}
		if i >= 1 && acc.UsageScenario == nil {
			t.Fatalf("step %d: usageScenario reverted to nil", i)
		}
		if len(acc.CoreFeatures) == 0 {
			t.Fatalf("step %d: coreFeatures shrank to empty", i)
		}
	}
	if *acc.SelectedDirection != "方向B" {
		t.Fatalf("selectedDirection = %q, want last write", *acc.SelectedDirection)
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	existing := &Data{CoreFeatures: []string{"a"}}
	incoming := &Data{CoreFeatures: []string{"b"}}
	_ = Merge(existing, incoming)

	if len(existing.CoreFeatures) != 1 || existing.CoreFeatures[0] != "a" {
		t.Fatalf("existing mutated: %v", existing.CoreFeatures)
	}
	if len(incoming.CoreFeatures) != 1 || incoming.CoreFeatures[0] != "b" {
		t.Fatalf("incoming mutated: %v", incoming.CoreFeatures)
	}
}
