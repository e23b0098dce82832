package normalizer

import (
	"encoding/json"
	"math"
	"testing"
)

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestParseOutcomePrices_Shapes(t *testing.T) {
	want := []float64{0.4, 0.6}
	tests := []struct {
		name  string
		input any
	}{
		{"json encoded string", `["0.4","0.6"]`},
		{"json encoded numbers", `[0.4, 0.6]`},
		{"comma separated", "0.4,0.6"},
		{"comma separated with spaces", " 0.4 , 0.6 "},
		{"native mixed array", []any{"0.4", 0.6}},
		{"native string array", []string{"0.4", "0.6"}},
		{"native float array", []float64{0.4, 0.6}},
		{"raw message", json.RawMessage(`["0.4","0.6"]`)},
		{"object array", []any{
			map[string]any{"title": "Yes", "price": 0.4},
			map[string]any{"title": "No", "price": "0.6"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOutcomePrices(tt.input)
			if err != nil {
				t.Fatalf("ParseOutcomePrices err=%v", err)
			}
			if !floatsEqual(got, want) {
				t.Fatalf("got=%v want=%v", got, want)
			}
		})
	}
}

func TestParseOutcomePrices_Invalid(t *testing.T) {
	for _, input := range []any{nil, "", "null", "abc", `["x","0.5"]`, `[`, 42, []any{"0.4", nil}} {
		if got, err := ParseOutcomePrices(input); err == nil {
			t.Fatalf("ParseOutcomePrices(%#v)=%v want error", input, got)
		}
	}
	if got := OutcomePricesOrDefault("abc"); !floatsEqual(got, DefaultPrices) {
		t.Fatalf("OutcomePricesOrDefault=%v want=%v", got, DefaultPrices)
	}
}

func TestOutcomesOrDefault(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  []string
	}{
		{"json string", `["Yes","No"]`, []string{"Yes", "No"}},
		{"csv", "Up,Down", []string{"Up", "Down"}},
		{"multi", []any{"A", "B", "C"}, []string{"A", "B", "C"}},
		{"objects", []any{map[string]any{"title": "Trump"}, map[string]any{"name": "Harris"}}, []string{"Trump", "Harris"}},
		{"single outcome", `["Yes"]`, DefaultOutcomes},
		{"garbage", 12, DefaultOutcomes},
		{"nil", nil, DefaultOutcomes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OutcomesOrDefault(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got=%v want=%v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got=%v want=%v", got, tt.want)
				}
			}
		})
	}
}

func TestBuildPricing(t *testing.T) {
	tests := []struct {
		name       string
		outcomes   any
		prices     any
		wantPrices []float64
		wantYes    float64
		wantNo     float64
	}{
		{"binary", `["Yes","No"]`, `["0.4","0.6"]`, []float64{0.4, 0.6}, 0.4, 0.6},
		{"binary no derived from yes", `["Yes","No"]`, `["0.3","0.9"]`, []float64{0.3, 0.9}, 0.3, 0.7},
		{"unparseable prices", `["Yes","No"]`, "garbage", []float64{0, 0}, 0, 1},
		{"missing everything", nil, nil, []float64{0, 0}, 0, 1},
		{"out of range clamped", `["Yes","No"]`, []any{1.5, -0.2}, []float64{1, 0}, 1, 0},
		{"multi outcome padded", `["A","B","C"]`, `["0.2","0.5"]`, []float64{0.2, 0.5, 0}, 0.2, 0.5},
		{"multi outcome truncated", `["A","B","C"]`, `["0.2","0.5","0.3","0.9"]`, []float64{0.2, 0.5, 0.3}, 0.2, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildPricing(tt.outcomes, tt.prices)
			if len(p.Outcomes) != len(p.OutcomePrices) {
				t.Fatalf("outcomes=%d prices=%d", len(p.Outcomes), len(p.OutcomePrices))
			}
			if !floatsEqual(p.OutcomePrices, tt.wantPrices) {
				t.Fatalf("prices=%v want=%v", p.OutcomePrices, tt.wantPrices)
			}
			if math.Abs(p.YesPrice-tt.wantYes) > 1e-9 || math.Abs(p.NoPrice-tt.wantNo) > 1e-9 {
				t.Fatalf("yes=%v no=%v want yes=%v no=%v", p.YesPrice, p.NoPrice, tt.wantYes, tt.wantNo)
			}
		})
	}
}

func TestScalePercent(t *testing.T) {
	if got := ScalePercent([]float64{62, 38}); !floatsEqual(got, []float64{0.62, 0.38}) {
		t.Fatalf("percent got=%v", got)
	}
	if got := ScalePercent([]float64{0.62, 0.38}); !floatsEqual(got, []float64{0.62, 0.38}) {
		t.Fatalf("fraction got=%v", got)
	}
}
