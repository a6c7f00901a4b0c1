package prd

import "testing"

func fullRequiredData() *Data {
	return &Data{
		SelectedDirection: strPtr("便携榨汁杯"),
		UsageScenario:     strPtr("通勤路上"),
		TargetAudience:    strPtr("都市白领"),
		DesignStyle:       strPtr("极简"),
		CoreFeatures:      []string{"一键清洗"},
		PricingRange:      strPtr("150-250元"),
	}
}

func TestCompleteSentinelAloneSuffices(t *testing.T) {
	// Empty document, sentinel present in the assistant text.
	if !Complete(&Data{}, "设计已经完成！"+ReadySentinel) {
		t.Fatal("sentinel alone should complete the conversation")
	}
}

func TestCompleteFieldsAloneSuffice(t *testing.T) {
	if !Complete(fullRequiredData(), "我们继续聊聊包装。") {
		t.Fatal("fully populated required fields should complete without sentinel")
	}
}

func TestCompleteNeither(t *testing.T) {
	d := fullRequiredData()
	d.PricingRange = nil
	if Complete(d, "还差价格区间。") {
		t.Fatal("missing required field without sentinel must not complete")
	}
}

func TestRequiredFieldsComplete(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Data)
		want   bool
	}{
		{name: "all_set", mutate: func(*Data) {}, want: true},
		{name: "nil_doc_is_incomplete", mutate: nil, want: false},
		{name: "missing_direction", mutate: func(d *Data) { d.SelectedDirection = nil }, want: false},
		{name: "blank_scenario", mutate: func(d *Data) { d.UsageScenario = strPtr("  ") }, want: false},
		{name: "empty_features", mutate: func(d *Data) { d.CoreFeatures = nil }, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d *Data
			if tc.mutate != nil {
				d = fullRequiredData()
				tc.mutate(d)
			}
			if got := RequiredFieldsComplete(d); got != tc.want {
				t.Fatalf("RequiredFieldsComplete=%v, want %v", got, tc.want)
			}
		})
	}
}
