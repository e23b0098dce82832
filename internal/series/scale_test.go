package series

import (
	"math"
	"testing"

	"MarketAggregator/internal/model"
)

func TestScale(t *testing.T) {
	tests := []struct {
		name    string
		candles []model.Candle
		want    Range
	}{
		{"empty", nil, Range{0, 1}},
		{"padded by range", []model.Candle{{Low: 0.4, High: 0.5}, {Low: 0.45, High: 0.6}}, Range{0.38, 0.62}},
		{"flat uses minimum pad", []model.Candle{{Low: 0.5, High: 0.5}}, Range{0.49, 0.51}},
		{"clamped", []model.Candle{{Low: 0.001, High: 0.999}}, Range{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scale(tt.candles)
			if math.Abs(got.Min-tt.want.Min) > 1e-9 || math.Abs(got.Max-tt.want.Max) > 1e-9 {
				t.Fatalf("got=%+v want=%+v", got, tt.want)
			}
		})
	}
}

func TestToPercent(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{0.625, 62.5},
		{0.12341, 12.34},
		{1, 100},
	}
	for _, tt := range tests {
		if got := ToPercent(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("ToPercent(%v)=%v want=%v", tt.in, got, tt.want)
		}
	}
}

func TestRangePosition(t *testing.T) {
	r := Range{Min: 0.4, Max: 0.6}
	if got := r.Position(0.5); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("mid=%v", got)
	}
	if r.Position(0.9) != 1 || r.Position(0.1) != 0 {
		t.Fatalf("position not clamped")
	}
	if (Range{Min: 0.5, Max: 0.5}).Position(0.5) != 0.5 {
		t.Fatalf("degenerate range")
	}
}
