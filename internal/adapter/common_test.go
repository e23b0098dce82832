package adapter

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"MarketAggregator/internal/config"
	"MarketAggregator/internal/interfaces"
	"MarketAggregator/internal/model"
)

func sampleMarkets() []*model.Market {
	return []*model.Market{
		{ID: "p_1", Title: "Will Bitcoin hit $100k?", Category: "Crypto", Active: true, Volume: 100, Liquidity: 10},
		{ID: "p_2", Title: "Election winner", Description: "US presidential race", Category: "Politics", Active: true, Volume: 50, Liquidity: 30},
		{ID: "p_3", Title: "Ethereum ETF approved?", Category: "Crypto", Active: false, Volume: 25, Liquidity: 20},
	}
}

func TestFilterByCategory(t *testing.T) {
	got := FilterByCategory(sampleMarkets(), "crypto", 10)
	if len(got) != 2 || got[0].ID != "p_1" || got[1].ID != "p_3" {
		t.Fatalf("got=%v", ids(got))
	}
	if got := FilterByCategory(sampleMarkets(), "crypto", 1); len(got) != 1 {
		t.Fatalf("limit not applied: %v", ids(got))
	}
	if got := FilterByCategory(sampleMarkets(), "Sports", 10); len(got) != 0 {
		t.Fatalf("got=%v want empty", ids(got))
	}
}

func TestFilterByQuery(t *testing.T) {
	if got := FilterByQuery(sampleMarkets(), "PRESIDENTIAL", 10); len(got) != 1 || got[0].ID != "p_2" {
		t.Fatalf("description match got=%v", ids(got))
	}
	if got := FilterByQuery(sampleMarkets(), "", 2); len(got) != 2 {
		t.Fatalf("empty query got=%v", ids(got))
	}
}

func TestComputeStats(t *testing.T) {
	st := ComputeStats(sampleMarkets())
	if st.TotalMarkets != 3 || st.ActiveMarkets != 2 || st.TotalVolume != 175 {
		t.Fatalf("stats=%+v", st)
	}
	if st.AverageLiquidity != 20 {
		t.Fatalf("avg liquidity=%v want=20", st.AverageLiquidity)
	}
	if len(st.TopCategories) != 2 || st.TopCategories[0].Category != "Crypto" || st.TopCategories[0].Count != 2 {
		t.Fatalf("top=%+v", st.TopCategories)
	}

	empty := ComputeStats(nil)
	if empty.TotalMarkets != 0 || empty.AverageLiquidity != 0 || len(empty.TopCategories) != 0 {
		t.Fatalf("empty stats=%+v", empty)
	}
}

func TestTopCategories_TieBreak(t *testing.T) {
	counts := map[string]int{"B": 2, "A": 2, "C": 5, "D": 1, "E": 1, "F": 1}
	got := TopCategories(counts, 5)
	want := []string{"C", "A", "B", "D", "E"}
	if len(got) != len(want) {
		t.Fatalf("got=%+v", got)
	}
	for i := range want {
		if got[i].Category != want[i] {
			t.Fatalf("got=%+v want order %v", got, want)
		}
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct{ in, want int }{{-1, 20}, {0, 20}, {5, 5}, {900, 500}}
	for _, tt := range tests {
		if got := ClampLimit(tt.in, 20, 500); got != tt.want {
			t.Fatalf("ClampLimit(%d)=%d want=%d", tt.in, got, tt.want)
		}
	}
}

type stubAdapter struct {
	platform model.Platform
}

func (s *stubAdapter) GetType() model.Platform { return s.platform }
func (s *stubAdapter) GetActiveMarkets(context.Context, int) ([]*model.Market, error) {
	return nil, nil
}
func (s *stubAdapter) GetMarketsByCategory(context.Context, string, int) ([]*model.Market, error) {
	return nil, nil
}
func (s *stubAdapter) SearchMarkets(context.Context, string, int) ([]*model.Market, error) {
	return nil, nil
}
func (s *stubAdapter) GetMarketByID(context.Context, string) (*model.Market, error) { return nil, nil }
func (s *stubAdapter) GetMarketStats(context.Context) (*model.Stats, error)       { return nil, nil }

func stubFactory(p model.Platform) interfaces.Factory {
	return func(*config.PlatformConfig, *logrus.Logger) interfaces.MarketAdapter {
		return &stubAdapter{platform: p}
	}
}

func TestPlatformRegistry_Order(t *testing.T) {
	Register("stub-b", stubFactory("stub-b"))
	Register("stub-a", stubFactory("stub-a"))
	Register("stub-wrong", stubFactory("stub-other"))

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := &config.Config{
		Aggregator: config.AggregatorConfig{
			EnabledPlatforms: []string{"stub-b", "Stub-A", "stub-b", "stub-missing", "stub-wrong", "stub-noconfig"},
		},
		Platforms: map[string]config.PlatformConfig{
			"stub-a":       {},
			"stub-b":       {},
			"stub-missing": {},
			"stub-wrong":   {},
		},
	}
	r := NewPlatformRegistry(cfg, logger)

	got := r.ListRegisteredPlatforms()
	if len(got) != 2 || got[0] != "stub-b" || got[1] != "stub-a" {
		t.Fatalf("platforms=%v want=[stub-b stub-a]", got)
	}
	if len(r.Adapters()) != 2 || r.GetPlatformCount() != 2 {
		t.Fatalf("adapters=%d count=%d", len(r.Adapters()), r.GetPlatformCount())
	}
	if _, err := r.GetAdapter("stub-missing"); err == nil {
		t.Fatalf("GetAdapter(stub-missing) want error")
	}
}

func ids(ms []*model.Market) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}
