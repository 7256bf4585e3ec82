// Package export writes screening results to per-strategy JSON files.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/finsignal/screener/internal/contracts"
	"github.com/finsignal/screener/internal/screening"
	"github.com/finsignal/screener/pkg/logger"
)

// Document is the on-disk shape of one strategy's export file.
type Document struct {
	Strategy       contracts.Strategy      `json:"strategy"`
	ScreeningDate  string                  `json:"screening_date"`
	GeneratedAt    time.Time               `json:"generated_at"`
	ConfigHash     string                  `json:"config_hash,omitempty"`
	TickersScanned int                     `json:"tickers_scanned"`
	Count          int                     `json:"count"`
	Opportunities  []contracts.Opportunity `json:"opportunities"`
}

// Exporter writes opportunity files into a fixed output directory.
type Exporter struct {
	dir        string
	configHash string
	log        *logger.Logger
	now        func() time.Time
}

// New creates an Exporter. configHash may be empty.
func New(dir, configHash string, log *logger.Logger) *Exporter {
	return &Exporter{
		dir:        dir,
		configHash: configHash,
		log:        log,
		now:        time.Now,
	}
}

// Write serializes each non-empty strategy bucket of result into its own
// file named "{strategy}_opportunities_{timestamp}.json" and returns the
// paths written. Strategies with no opportunities produce no file.
func (e *Exporter) Write(result *screening.Result) ([]string, error) {
	if result == nil || result.Count() == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", e.dir, err)
	}

	stamp := e.now().Format("20060102_150405")
	var paths []string

	for _, strat := range contracts.AllStrategies {
		opps := result.ByStrategy[strat]
		if len(opps) == 0 {
			continue
		}

		doc := Document{
			Strategy:       strat,
			ScreeningDate:  result.Date.Format("2006-01-02"),
			GeneratedAt:    e.now().UTC(),
			ConfigHash:     e.configHash,
			TickersScanned: result.TickersScanned,
			Count:          len(opps),
			Opportunities:  opps,
		}

		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return paths, fmt.Errorf("marshal %s export: %w", strat, err)
		}

		name := fmt.Sprintf("%s_opportunities_%s.json", strat, stamp)
		path := filepath.Join(e.dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}

		e.log.WithFields(map[string]interface{}{
			"strategy": string(strat),
			"count":    len(opps),
			"path":     path,
		}).Info("Exported opportunities")
		paths = append(paths, path)
	}

	return paths, nil
}
