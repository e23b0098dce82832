package normalizer

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    float64
		wantErr bool
	}{
		{"float", 12.5, 12.5, false},
		{"int", 7, 7, false},
		{"string", "12.5", 12.5, false},
		{"quoted string", `"3.25"`, 3.25, false},
		{"padded string", "  100 ", 100, false},
		{"json number", json.Number("42"), 42, false},
		{"raw message", json.RawMessage(`"0.75"`), 0.75, false},
		{"nil", nil, 0, true},
		{"empty", "", 0, true},
		{"text", "abc", 0, true},
		{"nan", math.NaN(), 0, true},
		{"inf", math.Inf(1), 0, true},
		{"overflow string", "1e400", 0, true},
		{"negative overflow", "-1e400", 0, true},
		{"bool", true, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFloat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnparseable) {
				t.Fatalf("err=%v want ErrUnparseable", err)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("got=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestNonNegative(t *testing.T) {
	tests := []struct {
		input any
		want  float64
	}{
		{-5.0, 0},
		{"-3", 0},
		{math.NaN(), 0},
		{"bogus", 0},
		{nil, 0},
		{"1500.5", 1500.5},
		{"1e400", 0},
		{math.Inf(1), 0},
		{2000.0, 2000},
	}
	for _, tt := range tests {
		if got := NonNegative(tt.input); got != tt.want {
			t.Fatalf("NonNegative(%v)=%v want=%v", tt.input, got, tt.want)
		}
	}
}

func TestClampPrice(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.1, 0},
		{0, 0},
		{0.55, 0.55},
		{1, 1},
		{1.2, 1},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := ClampPrice(tt.in); got != tt.want {
			t.Fatalf("ClampPrice(%v)=%v want=%v", tt.in, got, tt.want)
		}
	}
}
