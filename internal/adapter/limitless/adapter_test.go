package limitless

import (
	"context"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"MarketAggregator/internal/config"
)

const activeJSON = `{"data":[
  {"id":55,"slug":"btc-above-100k","title":"BTC above 100k?","categories":["Crypto"],"prices":[62,38],
   "expirationTimestamp":1767225600000,"volumeFormatted":"1234.5","liquidityFormatted":"200","expired":false,"status":"FUNDED"},
  {"id":56,"slug":"weather","title":"Weather tomorrow in Berlin","prices":null,"expired":true},
  {"title":"no slug no id"}
],"totalMarketsCount":3}`

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/markets/active", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" || r.URL.Query().Get("limit") == "" {
			http.Error(w, "bad query", http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, activeJSON)
	})
	mux.HandleFunc("/markets/btc-above-100k", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":55,"slug":"btc-above-100k","title":"BTC above 100k?","prices":["0.55","0.45"]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := &config.PlatformConfig{BaseURL: srv.URL, WebURL: "https://limitless.exchange", Timeout: 5}
	return NewLimitlessAdapter(cfg, logger).(*Adapter)
}

func TestGetActiveMarkets(t *testing.T) {
	a := newTestAdapter(t)
	markets, err := a.GetActiveMarkets(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetActiveMarkets err=%v", err)
	}
	if len(markets) != 2 {
		t.Fatalf("markets=%d want=2", len(markets))
	}
	for _, m := range markets {
		if err := m.Validate(); err != nil {
			t.Fatalf("invalid market: %v", err)
		}
	}

	btc := markets[0]
	if btc.ID != "limitless_btc-above-100k" || math.Abs(btc.YesPrice-0.62) > 1e-9 || math.Abs(btc.NoPrice-0.38) > 1e-9 {
		t.Fatalf("btc=%+v", btc)
	}
	if btc.Category != "Crypto" || btc.Volume != 1234.5 || btc.Liquidity != 200 || !btc.Active {
		t.Fatalf("btc=%+v", btc)
	}
	if !btc.EndDate.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("end=%v", btc.EndDate)
	}

	weather := markets[1]
	if weather.YesPrice != 0 || weather.NoPrice != 1 || weather.Active || !weather.EndDate.IsZero() {
		t.Fatalf("weather=%+v", weather)
	}
	if weather.Category != "Science" {
		t.Fatalf("weather category=%q", weather.Category)
	}

	limited, err := a.GetActiveMarkets(context.Background(), 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("limited=%v err=%v", limited, err)
	}
}

func TestGetMarketByID(t *testing.T) {
	a := newTestAdapter(t)
	m, err := a.GetMarketByID(context.Background(), "limitless_btc-above-100k")
	if err != nil || m == nil || math.Abs(m.YesPrice-0.55) > 1e-9 {
		t.Fatalf("m=%+v err=%v", m, err)
	}
	missing, err := a.GetMarketByID(context.Background(), "limitless_nope")
	if err != nil || missing != nil {
		t.Fatalf("missing=%v err=%v", missing, err)
	}
}

func TestGetMarketsByCategory(t *testing.T) {
	a := newTestAdapter(t)
	got, err := a.GetMarketsByCategory(context.Background(), "science", 10)
	if err != nil || len(got) != 1 || got[0].ID != "limitless_weather" {
		t.Fatalf("got=%v err=%v", got, err)
	}
}
