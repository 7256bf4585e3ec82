package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/finsignal/screener/internal/contracts"
	"github.com/finsignal/screener/internal/screening"
	"github.com/finsignal/screener/pkg/logger"
)

func fixedClock() time.Time {
	return time.Date(2026, 8, 28, 18, 30, 0, 0, time.UTC)
}

func sampleResult() *screening.Result {
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	return &screening.Result{
		Date: date,
		ByStrategy: map[contracts.Strategy][]contracts.Opportunity{
			contracts.StrategyDividend: {
				{Strategy: contracts.StrategyDividend, Ticker: "ACME.MI", Date: date, Price: 90},
			},
			contracts.StrategyVolatility: {
				{Strategy: contracts.StrategyVolatility, Ticker: "VOLA.MI", Date: date, Price: 40},
				{Strategy: contracts.StrategyVolatility, Ticker: "WAVE.MI", Date: date, Price: 55},
			},
		},
		TickersScanned: 120,
	}
}

func newTestExporter(t *testing.T) (*Exporter, string) {
	t.Helper()
	dir := t.TempDir()
	e := New(dir, "abc123", logger.NewNop())
	e.now = fixedClock
	return e, dir
}

func TestWrite_OneFilePerStrategy(t *testing.T) {
	e, dir := newTestExporter(t)

	paths, err := e.Write(sampleResult())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("Write() returned %d paths, want 2", len(paths))
	}

	wantNames := []string{
		"dividend_opportunities_20260828_183000.json",
		"volatility_opportunities_20260828_183000.json",
	}
	for i, want := range wantNames {
		if got := filepath.Base(paths[i]); got != want {
			t.Errorf("paths[%d] = %s, want %s", i, got, want)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("output dir has %d files, want 2", len(entries))
	}
}

func TestWrite_DocumentContents(t *testing.T) {
	e, _ := newTestExporter(t)

	paths, err := e.Write(sampleResult())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var volPath string
	for _, p := range paths {
		if strings.Contains(filepath.Base(p), "volatility") {
			volPath = p
		}
	}
	if volPath == "" {
		t.Fatal("no volatility export written")
	}

	data, err := os.ReadFile(volPath)
	if err != nil {
		t.Fatal(err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}

	if doc.Strategy != contracts.StrategyVolatility {
		t.Errorf("Strategy = %s, want %s", doc.Strategy, contracts.StrategyVolatility)
	}
	if doc.ScreeningDate != "2026-08-28" {
		t.Errorf("ScreeningDate = %s, want 2026-08-28", doc.ScreeningDate)
	}
	if doc.ConfigHash != "abc123" {
		t.Errorf("ConfigHash = %s, want abc123", doc.ConfigHash)
	}
	if doc.TickersScanned != 120 {
		t.Errorf("TickersScanned = %d, want 120", doc.TickersScanned)
	}
	if doc.Count != 2 || len(doc.Opportunities) != 2 {
		t.Errorf("Count = %d, len(Opportunities) = %d, want 2 and 2", doc.Count, len(doc.Opportunities))
	}
	if doc.Opportunities[0].Ticker != "VOLA.MI" {
		t.Errorf("first opportunity = %s, want VOLA.MI", doc.Opportunities[0].Ticker)
	}
}

func TestWrite_EmptyResult(t *testing.T) {
	e, dir := newTestExporter(t)

	paths, err := e.Write(&screening.Result{
		Date:       fixedClock(),
		ByStrategy: map[contracts.Strategy][]contracts.Opportunity{},
	})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("Write() returned %d paths, want 0", len(paths))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("output dir has %d files, want none", len(entries))
	}
}

func TestWrite_NilResult(t *testing.T) {
	e, _ := newTestExporter(t)
	paths, err := e.Write(nil)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if paths != nil {
		t.Errorf("Write(nil) = %v, want nil", paths)
	}
}

func TestWrite_CreatesOutputDir(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "nested", "output")
	e := New(dir, "", logger.NewNop())
	e.now = fixedClock

	if _, err := e.Write(sampleResult()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("output dir not created: %v", err)
	}
}
